package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/studio_booking/internal/model"
)

// TxRunner выполняет fn в одной транзакции хранилища
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

type StudentStore interface {
	Create(ctx context.Context, s *model.Student) error
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByAccountID(ctx context.Context, accountID int64) (*model.Student, error)
	List(ctx context.Context) ([]*model.Student, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) error
}

type TeacherStore interface {
	Create(ctx context.Context, t *model.Teacher) error
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	GetByAccountID(ctx context.Context, accountID int64) (*model.Teacher, error)
	List(ctx context.Context) ([]*model.Teacher, error)
	Count(ctx context.Context) (int, error)
}

type DirectionStore interface {
	Create(ctx context.Context, d *model.Direction) error
	GetByID(ctx context.Context, id int64) (*model.Direction, error)
	List(ctx context.Context) ([]*model.Direction, error)
	Count(ctx context.Context) (int, error)
}

type GroupStore interface {
	Create(ctx context.Context, g *model.Group) error
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	ListByTeacherID(ctx context.Context, teacherID int64) ([]*model.Group, error)
}

type LessonStore interface {
	Create(ctx context.Context, l *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Lesson, error)
	List(ctx context.Context) ([]*model.Lesson, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Lesson, error)
	ListByTeacherID(ctx context.Context, teacherID int64) ([]*model.Lesson, error)
	CountUpcoming(ctx context.Context, from time.Time) (int, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByLessonAndStudent(ctx context.Context, lessonID, studentID int64) (*model.Booking, error)
	CountByLesson(ctx context.Context, lessonID int64) (int, error)
	ListByLesson(ctx context.Context, lessonID int64) ([]*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	SetAttendance(ctx context.Context, lessonID int64, present []int64) error
	ToggleAttended(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Payment, error)
}

type AbonementStore interface {
	Create(ctx context.Context, a *model.Abonement) error
	GetByID(ctx context.Context, id int64) (*model.Abonement, error)
	Update(ctx context.Context, a *model.Abonement) error
	List(ctx context.Context) ([]*model.Abonement, error)
}
