package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository"
	"go.uber.org/zap"
)

type AttendanceService struct {
	lessons  LessonStore
	bookings BookingStore
	logger   *zap.Logger
}

func NewAttendanceService(lessons LessonStore, bookings BookingStore, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		lessons:  lessons,
		bookings: bookings,
		logger:   logger,
	}
}

// Roster возвращает занятие и записи на него для формы посещаемости
func (s *AttendanceService) Roster(ctx context.Context, actor *model.Actor, lessonID int64) (*model.Lesson, []*model.Booking, error) {
	lesson, err := s.authorizedLesson(ctx, actor, lessonID)
	if err != nil {
		return nil, nil, err
	}

	bookings, err := s.bookings.ListByLesson(ctx, lesson.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list bookings: %w", err)
	}

	return lesson, bookings, nil
}

// SetAttendance отмечает присутствующими записи из present, остальные записи занятия - отсутствующими
func (s *AttendanceService) SetAttendance(ctx context.Context, actor *model.Actor, lessonID int64, present []int64) error {
	lesson, err := s.authorizedLesson(ctx, actor, lessonID)
	if err != nil {
		return err
	}

	if err := s.bookings.SetAttendance(ctx, lesson.ID, present); err != nil {
		return fmt.Errorf("set attendance: %w", err)
	}

	s.logger.Info("Attendance saved",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("account_id", actor.Account.ID),
		zap.Int("present", len(present)),
	)
	return nil
}

// ToggleAttendance инвертирует отметку одной записи (только администратор)
func (s *AttendanceService) ToggleAttendance(ctx context.Context, actor *model.Actor, bookingID int64) (bool, error) {
	if actor == nil || actor.Account == nil {
		return false, ErrUnauthenticated
	}
	if !actor.Is(model.RoleAdmin) {
		return false, ErrForbidden
	}

	attended, err := s.bookings.ToggleAttended(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrBookingNotFound
		}
		return false, fmt.Errorf("toggle attendance: %w", err)
	}

	s.logger.Info("Attendance toggled",
		zap.Int64("booking_id", bookingID),
		zap.Bool("attended", attended),
	)
	return attended, nil
}

// authorizedLesson загружает занятие и проверяет что актор - админ или преподаватель группы
func (s *AttendanceService) authorizedLesson(ctx context.Context, actor *model.Actor, lessonID int64) (*model.Lesson, error) {
	if actor == nil || actor.Account == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.Is(model.RoleAdmin, model.RoleTeacher) {
		return nil, ErrForbidden
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil || lesson.Group == nil {
		return nil, ErrLessonNotFound
	}

	if actor.Is(model.RoleTeacher) {
		if actor.TeacherID == nil || *actor.TeacherID != lesson.Group.TeacherID {
			return nil, ErrForbidden
		}
	}

	return lesson, nil
}
