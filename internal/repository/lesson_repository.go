package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
)

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(db *base.Repository) *LessonRepository {
	return &LessonRepository{Repository: db}
}

const lessonSelect = `
	SELECT l.id, l.group_id, l.start_at, l.duration_minutes,
	       g.id, g.name, g.direction_id, g.teacher_id, g.capacity, g.location,
	       d.name, COALESCE(NULLIF(t.stage_name, ''), a.name, '')
	FROM lessons l
	JOIN studio_groups g ON g.id = l.group_id
	JOIN directions d ON d.id = g.direction_id
	JOIN teachers t ON t.id = g.teacher_id
	LEFT JOIN accounts a ON a.id = t.account_id
`

// Create создаёт занятие
func (r *LessonRepository) Create(ctx context.Context, l *model.Lesson) error {
	query := `
		INSERT INTO lessons (group_id, start_at, duration_minutes)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.QueryRow(ctx, query, l.GroupID, l.StartAt, l.DurationMinutes).Scan(&l.ID); err != nil {
		return fmt.Errorf("create lesson: %w", base.Classify(err))
	}
	return nil
}

// GetByID получает занятие вместе с группой
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	l, err := scanLesson(r.QueryRow(ctx, lessonSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}
	return l, nil
}

// GetForUpdate получает занятие и блокирует его строку до конца транзакции.
// Конкурентные записи на одно занятие выполняются последовательно.
func (r *LessonRepository) GetForUpdate(ctx context.Context, id int64) (*model.Lesson, error) {
	l, err := scanLesson(r.QueryRow(ctx, lessonSelect+` WHERE l.id = $1 FOR UPDATE OF l`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock lesson: %w", err)
	}
	return l, nil
}

// List возвращает все занятия по времени начала
func (r *LessonRepository) List(ctx context.Context) ([]*model.Lesson, error) {
	return r.list(ctx, lessonSelect+` ORDER BY l.start_at`)
}

// ListUpcoming возвращает ближайшие занятия начиная с from
func (r *LessonRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Lesson, error) {
	return r.list(ctx, lessonSelect+` WHERE l.start_at >= $1 ORDER BY l.start_at LIMIT $2`, from, limit)
}

// ListByTeacherID возвращает занятия групп преподавателя
func (r *LessonRepository) ListByTeacherID(ctx context.Context, teacherID int64) ([]*model.Lesson, error) {
	return r.list(ctx, lessonSelect+` WHERE g.teacher_id = $1 ORDER BY l.start_at`, teacherID)
}

// CountUpcoming возвращает количество занятий начиная с from
func (r *LessonRepository) CountUpcoming(ctx context.Context, from time.Time) (int, error) {
	var n int
	if err := r.QueryRow(ctx, `SELECT count(*) FROM lessons WHERE start_at >= $1`, from).Scan(&n); err != nil {
		return 0, fmt.Errorf("count upcoming lessons: %w", err)
	}
	return n, nil
}

func (r *LessonRepository) list(ctx context.Context, query string, args ...any) ([]*model.Lesson, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func scanLesson(row interface{ Scan(dest ...any) error }) (*model.Lesson, error) {
	var l model.Lesson
	var g model.Group
	err := row.Scan(
		&l.ID,
		&l.GroupID,
		&l.StartAt,
		&l.DurationMinutes,
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
	l.Group = &g
	return &l, nil
}
