package model

import "time"

type Booking struct {
	ID          int64     `json:"id"`
	LessonID    int64     `json:"lesson_id"`
	StudentID   int64     `json:"student_id"`
	StudentName string    `json:"student_name"` // имя на момент записи
	DirectionID int64     `json:"direction_id"` // копия на момент записи
	TeacherID   int64     `json:"teacher_id"`   // копия на момент записи
	Attended    bool      `json:"attended"`
	CreatedAt   time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из таблицы bookings)
	Lesson *Lesson `json:"lesson,omitempty"`
}
