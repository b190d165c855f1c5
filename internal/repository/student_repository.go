package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(db *base.Repository) *StudentRepository {
	return &StudentRepository{Repository: db}
}

const studentSelect = `
	SELECT s.id, s.account_id, s.phone, s.group_id, a.name, a.email
	FROM students s
	JOIN accounts a ON a.id = s.account_id
`

// Create создаёт профиль студента
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	query := `
		INSERT INTO students (account_id, phone, group_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.QueryRow(ctx, query, s.AccountID, s.Phone, s.GroupID).Scan(&s.ID); err != nil {
		return fmt.Errorf("create student: %w", base.Classify(err))
	}
	return nil
}

// GetByID получает студента по ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	s, err := scanStudent(r.QueryRow(ctx, studentSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}
	return s, nil
}

// GetByAccountID получает профиль студента по аккаунту
func (r *StudentRepository) GetByAccountID(ctx context.Context, accountID int64) (*model.Student, error) {
	s, err := scanStudent(r.QueryRow(ctx, studentSelect+` WHERE s.account_id = $1`, accountID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by account: %w", err)
	}
	return s, nil
}

// List возвращает всех студентов
func (r *StudentRepository) List(ctx context.Context) ([]*model.Student, error) {
	rows, err := r.Query(ctx, studentSelect+` ORDER BY a.name`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Count возвращает количество студентов
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.QueryRow(ctx, `SELECT count(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

// Delete удаляет студента вместе с аккаунтом; записи и платежи удаляются каскадно
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM accounts
		WHERE id = (SELECT account_id FROM students WHERE id = $1)
	`
	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete student: %w", ErrNotFound)
	}
	return nil
}

func scanStudent(row interface{ Scan(dest ...any) error }) (*model.Student, error) {
	var s model.Student
	if err := row.Scan(&s.ID, &s.AccountID, &s.Phone, &s.GroupID, &s.Name, &s.Email); err != nil {
		return nil, err
	}
	return &s, nil
}
