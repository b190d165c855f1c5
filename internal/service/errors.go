package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoStudentProfile   = errors.New("student profile not found")

	ErrLessonNotFound    = errors.New("lesson not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrTeacherNotFound   = errors.New("teacher not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrAbonementNotFound = errors.New("abonement not found")

	ErrCapacityExceeded = errors.New("no spots left")
	ErrDuplicateBooking = errors.New("already booked")
	ErrPastLesson       = errors.New("lesson already started")

	// ErrStoreConflict - хранилище отклонило изменение (нарушено ограничение)
	ErrStoreConflict = errors.New("store conflict")
)

// ValidationError несёт сообщение для пользователя
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// storeConflict помечает нарушения ограничений хранилища как ErrStoreConflict
func storeConflict(err error) error {
	if errors.Is(err, ErrStoreConflict) {
		return err
	}
	if errors.Is(err, base.ErrUniqueViolation) || errors.Is(err, base.ErrForeignKeyViolation) {
		return fmt.Errorf("%w: %w", ErrStoreConflict, err)
	}
	return err
}
