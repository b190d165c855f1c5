package model

import "time"

const DefaultGroupCapacity = 12

type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DirectionID int64  `json:"direction_id"`
	TeacherID   int64  `json:"teacher_id"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`

	// Поля из join'ов
	DirectionName string `json:"direction_name,omitempty"`
	TeacherName   string `json:"teacher_name,omitempty"`
}

const DefaultLessonDuration = 60

type Lesson struct {
	ID              int64     `json:"id"`
	GroupID         int64     `json:"group_id"`
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`

	Group *Group `json:"group,omitempty"`
}

// EndAt возвращает время окончания занятия
func (l *Lesson) EndAt() time.Time {
	return l.StartAt.Add(time.Duration(l.DurationMinutes) * time.Minute)
}

// Started проверяет что занятие уже началось к моменту now
func (l *Lesson) Started(now time.Time) bool {
	return l.StartAt.Before(now)
}
