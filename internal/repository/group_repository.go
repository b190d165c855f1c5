package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

type GroupRepository struct {
	*base.Repository
}

func NewGroupRepository(db *base.Repository) *GroupRepository {
	return &GroupRepository{Repository: db}
}

const groupSelect = `
	SELECT g.id, g.name, g.direction_id, g.teacher_id, g.capacity, g.location,
	       d.name, COALESCE(NULLIF(t.stage_name, ''), a.name, '')
	FROM studio_groups g
	JOIN directions d ON d.id = g.direction_id
	JOIN teachers t ON t.id = g.teacher_id
	LEFT JOIN accounts a ON a.id = t.account_id
`

// Create создаёт группу
func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	query := `
		INSERT INTO studio_groups (name, direction_id, teacher_id, capacity, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.QueryRow(ctx, query, g.Name, g.DirectionID, g.TeacherID, g.Capacity, g.Location).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("create group: %w", base.Classify(err))
	}
	return nil
}

// GetByID получает группу по ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	g, err := scanGroup(r.QueryRow(ctx, groupSelect+` WHERE g.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group by id: %w", err)
	}
	return g, nil
}

// List возвращает все группы
func (r *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	return r.list(ctx, groupSelect+` ORDER BY g.name`)
}

// ListByTeacherID возвращает группы преподавателя
func (r *GroupRepository) ListByTeacherID(ctx context.Context, teacherID int64) ([]*model.Group, error) {
	return r.list(ctx, groupSelect+` WHERE g.teacher_id = $1 ORDER BY g.name`, teacherID)
}

func (r *GroupRepository) list(ctx context.Context, query string, args ...any) ([]*model.Group, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []*model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanGroup(row interface{ Scan(dest ...any) error }) (*model.Group, error) {
	var g model.Group
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.DirectionID,
		&g.TeacherID,
		&g.Capacity,
		&g.Location,
		&g.DirectionName,
		&g.TeacherName,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
