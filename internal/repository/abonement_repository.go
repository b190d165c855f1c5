package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

type AbonementRepository struct {
	*base.Repository
}

func NewAbonementRepository(db *base.Repository) *AbonementRepository {
	return &AbonementRepository{Repository: db}
}

// Create добавляет абонемент в каталог
func (r *AbonementRepository) Create(ctx context.Context, a *model.Abonement) error {
	query := `
		INSERT INTO abonements (name, description, price_kopecks, sessions)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.QueryRow(ctx, query, a.Name, a.Description, a.PriceKopecks, a.Sessions).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("create abonement: %w", base.Classify(err))
	}
	return nil
}

// GetByID получает абонемент по ID
func (r *AbonementRepository) GetByID(ctx context.Context, id int64) (*model.Abonement, error) {
	query := `SELECT id, name, description, price_kopecks, sessions FROM abonements WHERE id = $1`

	var a model.Abonement
	err := r.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Description, &a.PriceKopecks, &a.Sessions)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get abonement by id: %w", err)
	}
	return &a, nil
}

// Update обновляет абонемент
func (r *AbonementRepository) Update(ctx context.Context, a *model.Abonement) error {
	query := `
		UPDATE abonements
		SET name = $1, description = $2, price_kopecks = $3, sessions = $4
		WHERE id = $5
	`
	affected, err := r.ExecAffected(ctx, query, a.Name, a.Description, a.PriceKopecks, a.Sessions, a.ID)
	if err != nil {
		return fmt.Errorf("update abonement: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update abonement: %w", ErrNotFound)
	}
	return nil
}

// List возвращает весь каталог абонементов
func (r *AbonementRepository) List(ctx context.Context) ([]*model.Abonement, error) {
	rows, err := r.Query(ctx, `SELECT id, name, description, price_kopecks, sessions FROM abonements ORDER BY price_kopecks, id`)
	if err != nil {
		return nil, fmt.Errorf("list abonements: %w", err)
	}
	defer rows.Close()

	var abonements []*model.Abonement
	for rows.Next() {
		var a model.Abonement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.PriceKopecks, &a.Sessions); err != nil {
			return nil, fmt.Errorf("scan abonement: %w", err)
		}
		abonements = append(abonements, &a)
	}
	return abonements, rows.Err()
}
