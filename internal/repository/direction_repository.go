package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

type DirectionRepository struct {
	*base.Repository
}

func NewDirectionRepository(db *base.Repository) *DirectionRepository {
	return &DirectionRepository{Repository: db}
}

// Create создаёт направление
func (r *DirectionRepository) Create(ctx context.Context, d *model.Direction) error {
	query := `
		INSERT INTO directions (name, description, photo)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.QueryRow(ctx, query, d.Name, d.Description, d.Photo).Scan(&d.ID); err != nil {
		return fmt.Errorf("create direction: %w", base.Classify(err))
	}
	return nil
}

// GetByID получает направление по ID
func (r *DirectionRepository) GetByID(ctx context.Context, id int64) (*model.Direction, error) {
	query := `SELECT id, name, description, photo FROM directions WHERE id = $1`

	var d model.Direction
	err := r.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Description, &d.Photo)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get direction by id: %w", err)
	}
	return &d, nil
}

// List возвращает все направления
func (r *DirectionRepository) List(ctx context.Context) ([]*model.Direction, error) {
	rows, err := r.Query(ctx, `SELECT id, name, description, photo FROM directions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list directions: %w", err)
	}
	defer rows.Close()

	var directions []*model.Direction
	for rows.Next() {
		var d model.Direction
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Photo); err != nil {
			return nil, fmt.Errorf("scan direction: %w", err)
		}
		directions = append(directions, &d)
	}
	return directions, rows.Err()
}

// Count возвращает количество направлений
func (r *DirectionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.QueryRow(ctx, `SELECT count(*) FROM directions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count directions: %w", err)
	}
	return n, nil
}
