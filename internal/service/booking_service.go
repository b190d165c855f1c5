package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/notify"
	"go.uber.org/zap"
)

const fallbackStudentName = "Студент"

type BookingService struct {
	tx       TxRunner
	students StudentStore
	lessons  LessonStore
	bookings BookingStore
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewBookingService(
	tx TxRunner,
	students StudentStore,
	lessons LessonStore,
	bookings BookingStore,
	notifier notify.Notifier,
	logger *zap.Logger,
) *BookingService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &BookingService{
		tx:       tx,
		students: students,
		lessons:  lessons,
		bookings: bookings,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// BookLesson записывает студента на занятие.
//
// Строка занятия блокируется до конца транзакции, поэтому проверка мест,
// проверка повторной записи и вставка выполняются атомарно относительно
// других записей на это же занятие.
func (s *BookingService) BookLesson(ctx context.Context, actor *model.Actor, lessonID int64) (*model.Booking, error) {
	if actor == nil || actor.Account == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.Is(model.RoleStudent) {
		return nil, ErrForbidden
	}

	student, err := s.students.GetByAccountID(ctx, actor.Account.ID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, ErrNoStudentProfile
	}

	var (
		booking   *model.Booking
		lesson    *model.Lesson
		spotsLeft int
	)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		lesson, err = s.lessons.GetForUpdate(ctx, lessonID)
		if err != nil {
			return fmt.Errorf("get lesson: %w", err)
		}
		if lesson == nil || lesson.Group == nil {
			return ErrLessonNotFound
		}

		taken, err := s.bookings.CountByLesson(ctx, lesson.ID)
		if err != nil {
			return fmt.Errorf("count bookings: %w", err)
		}

		spotsLeft = lesson.Group.Capacity - taken
		if spotsLeft <= 0 {
			return ErrCapacityExceeded
		}

		existing, err := s.bookings.GetByLessonAndStudent(ctx, lesson.ID, student.ID)
		if err != nil {
			return fmt.Errorf("check existing booking: %w", err)
		}
		if existing != nil {
			return ErrDuplicateBooking
		}

		booking = &model.Booking{
			LessonID:    lesson.ID,
			StudentID:   student.ID,
			StudentName: studentName(actor.Account, student),
			DirectionID: lesson.Group.DirectionID,
			TeacherID:   lesson.Group.TeacherID,
			Attended:    false,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", storeConflict(err))
		}
		spotsLeft--
		return nil
	})
	if err != nil {
		err = storeConflict(err)
		if errors.Is(err, ErrStoreConflict) {
			s.logger.Warn("Booking rejected by store",
				zap.Int64("lesson_id", lessonID),
				zap.Int64("student_id", student.ID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("Lesson booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("student_id", student.ID),
		zap.Int("spots_left", spotsLeft),
	)

	s.notify(ctx, notify.Event{
		Kind:      notify.EventBooked,
		Booking:   booking,
		Lesson:    lesson,
		SpotsLeft: spotsLeft,
	})

	booking.Lesson = lesson
	return booking, nil
}

// CancelBooking отменяет запись студента на будущее занятие
func (s *BookingService) CancelBooking(ctx context.Context, actor *model.Actor, bookingID int64) error {
	if actor == nil || actor.Account == nil {
		return ErrUnauthenticated
	}
	if !actor.Is(model.RoleStudent) {
		return ErrForbidden
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	student, err := s.students.GetByAccountID(ctx, actor.Account.ID)
	if err != nil {
		return fmt.Errorf("get student: %w", err)
	}
	if student == nil || booking.StudentID != student.ID {
		return ErrForbidden
	}

	lesson, err := s.lessons.GetByID(ctx, booking.LessonID)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return ErrLessonNotFound
	}
	if lesson.Started(s.now()) {
		return ErrPastLesson
	}

	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	s.logger.Info("Booking canceled",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("student_id", student.ID),
	)

	spotsLeft := 0
	if taken, err := s.bookings.CountByLesson(ctx, lesson.ID); err == nil && lesson.Group != nil {
		spotsLeft = lesson.Group.Capacity - taken
	}
	s.notify(ctx, notify.Event{
		Kind:      notify.EventCanceled,
		Booking:   booking,
		Lesson:    lesson,
		SpotsLeft: spotsLeft,
	})

	return nil
}

func (s *BookingService) notify(ctx context.Context, event notify.Event) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("Staff notification failed",
			zap.String("event", string(event.Kind)),
			zap.Error(err),
		)
	}
}

func studentName(account *model.Account, student *model.Student) string {
	switch {
	case account != nil && account.Name != "":
		return account.Name
	case student != nil && student.Name != "":
		return student.Name
	default:
		return fallbackStudentName
	}
}
