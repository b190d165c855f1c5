package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository"
	"go.uber.org/zap"
)

// RosterService - студенты и их платежи (администрирование)
type RosterService struct {
	students StudentStore
	payments PaymentStore
	logger   *zap.Logger
}

func NewRosterService(students StudentStore, payments PaymentStore, logger *zap.Logger) *RosterService {
	return &RosterService{
		students: students,
		payments: payments,
		logger:   logger,
	}
}

func (s *RosterService) ListStudents(ctx context.Context) ([]*model.Student, error) {
	return s.students.List(ctx)
}

// DeleteStudent удаляет студента; его записи и платежи удаляются каскадно
func (s *RosterService) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("delete student: %w", err)
	}

	s.logger.Info("Student deleted", zap.Int64("student_id", id))
	return nil
}

// RecordPayment записывает платёж студента
func (s *RosterService) RecordPayment(ctx context.Context, studentID, amountKopecks int64, note string) (*model.Payment, error) {
	if amountKopecks <= 0 {
		return nil, invalid("Сумма должна быть > 0")
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, invalid("Студент не найден")
	}

	p := &model.Payment{
		StudentID:     student.ID,
		AmountKopecks: amountKopecks,
		Note:          strings.TrimSpace(note),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", storeConflict(err))
	}

	s.logger.Info("Payment recorded",
		zap.Int64("payment_id", p.ID),
		zap.Int64("student_id", student.ID),
		zap.Int64("amount_kopecks", p.AmountKopecks),
	)
	return p, nil
}
