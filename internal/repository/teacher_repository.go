package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(db *base.Repository) *TeacherRepository {
	return &TeacherRepository{Repository: db}
}

const teacherSelect = `
	SELECT t.id, t.account_id, t.stage_name, t.bio, COALESCE(a.name, '')
	FROM teachers t
	LEFT JOIN accounts a ON a.id = t.account_id
`

// Create создаёт профиль преподавателя
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	query := `
		INSERT INTO teachers (account_id, stage_name, bio)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.QueryRow(ctx, query, t.AccountID, t.StageName, t.Bio).Scan(&t.ID); err != nil {
		return fmt.Errorf("create teacher: %w", base.Classify(err))
	}
	return nil
}

// GetByID получает преподавателя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	t, err := scanTeacher(r.QueryRow(ctx, teacherSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}
	return t, nil
}

// GetByAccountID получает профиль преподавателя по аккаунту
func (r *TeacherRepository) GetByAccountID(ctx context.Context, accountID int64) (*model.Teacher, error) {
	t, err := scanTeacher(r.QueryRow(ctx, teacherSelect+` WHERE t.account_id = $1`, accountID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by account: %w", err)
	}
	return t, nil
}

// List возвращает всех преподавателей
func (r *TeacherRepository) List(ctx context.Context) ([]*model.Teacher, error) {
	rows, err := r.Query(ctx, teacherSelect+` ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// Count возвращает количество преподавателей
func (r *TeacherRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.QueryRow(ctx, `SELECT count(*) FROM teachers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return n, nil
}

func scanTeacher(row interface{ Scan(dest ...any) error }) (*model.Teacher, error) {
	var t model.Teacher
	if err := row.Scan(&t.ID, &t.AccountID, &t.StageName, &t.Bio, &t.Name); err != nil {
		return nil, err
	}
	return &t, nil
}
