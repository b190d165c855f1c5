package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

type PaymentRepository struct {
	*base.Repository
}

func NewPaymentRepository(db *base.Repository) *PaymentRepository {
	return &PaymentRepository{Repository: db}
}

// Create записывает платёж студента
func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (student_id, amount_kopecks, note)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.QueryRow(ctx, query, p.StudentID, p.AmountKopecks, p.Note).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create payment: %w", base.Classify(err))
	}
	return nil
}

// ListByStudent возвращает платежи студента, новые сверху
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Payment, error) {
	query := `
		SELECT id, student_id, amount_kopecks, note, created_at
		FROM payments
		WHERE student_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.StudentID, &p.AmountKopecks, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}
