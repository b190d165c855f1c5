package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(db *base.Repository) *BookingRepository {
	return &BookingRepository{Repository: db}
}

const bookingColumns = `b.id, b.lesson_id, b.student_id, b.student_name, b.direction_id, b.teacher_id, b.attended, b.created_at`

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (lesson_id, student_id, student_name, direction_id, teacher_id, attended)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.LessonID,
		booking.StudentID,
		booking.StudentName,
		booking.DirectionID,
		booking.TeacherID,
		booking.Attended,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", base.Classify(err))
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return booking, nil
}

// GetByLessonAndStudent ищет запись студента на занятие
func (r *BookingRepository) GetByLessonAndStudent(ctx context.Context, lessonID, studentID int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.lesson_id = $1 AND b.student_id = $2`

	booking, err := scanBooking(r.QueryRow(ctx, query, lessonID, studentID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by lesson and student: %w", err)
	}
	return booking, nil
}

// CountByLesson возвращает количество занятых мест
func (r *BookingRepository) CountByLesson(ctx context.Context, lessonID int64) (int, error) {
	var n int
	err := r.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE lesson_id = $1`, lessonID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bookings by lesson: %w", err)
	}
	return n, nil
}

// ListByLesson получает все бронирования занятия
func (r *BookingRepository) ListByLesson(ctx context.Context, lessonID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.lesson_id = $1 ORDER BY b.created_at, b.id`

	rows, err := r.Query(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by lesson: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// ListByStudent получает бронирования студента вместе с занятиями, по времени начала
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `,
		       l.id, l.group_id, l.start_at, l.duration_minutes
		FROM bookings b
		JOIN lessons l ON l.id = b.lesson_id
		WHERE b.student_id = $1
		ORDER BY l.start_at
	`

	rows, err := r.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by student: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var b model.Booking
		var l model.Lesson
		err := rows.Scan(
			&b.ID,
			&b.LessonID,
			&b.StudentID,
			&b.StudentName,
			&b.DirectionID,
			&b.TeacherID,
			&b.Attended,
			&b.CreatedAt,
			&l.ID,
			&l.GroupID,
			&l.StartAt,
			&l.DurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.Lesson = &l
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

// SetAttendance отмечает присутствие: attended = true только для id из present
func (r *BookingRepository) SetAttendance(ctx context.Context, lessonID int64, present []int64) error {
	if present == nil {
		present = []int64{}
	}
	query := `
		UPDATE bookings
		SET attended = (id = ANY($2))
		WHERE lesson_id = $1
	`
	if _, err := r.ExecAffected(ctx, query, lessonID, present); err != nil {
		return fmt.Errorf("set attendance: %w", err)
	}
	return nil
}

// ToggleAttended инвертирует отметку и возвращает новое значение
func (r *BookingRepository) ToggleAttended(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE bookings
		SET attended = NOT attended
		WHERE id = $1
		RETURNING attended
	`
	var attended bool
	if err := r.QueryRow(ctx, query, id).Scan(&attended); err != nil {
		if base.IsNotFound(err) {
			return false, fmt.Errorf("toggle attendance: %w", ErrNotFound)
		}
		return false, fmt.Errorf("toggle attendance: %w", err)
	}
	return attended, nil
}

// Delete удаляет бронирование
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete booking: %w", ErrNotFound)
	}
	return nil
}

func scanBooking(row interface{ Scan(dest ...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.LessonID,
		&b.StudentID,
		&b.StudentName,
		&b.DirectionID,
		&b.TeacherID,
		&b.Attended,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
