package http

import (
	"context"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.Account, error)
	CreateTeacher(ctx context.Context, in service.TeacherInput) (*model.Teacher, error)
	Authenticate(ctx context.Context, email, password string) (*model.Account, error)
	ResolveActor(ctx context.Context, accountID int64) (*model.Actor, error)
}

type BookingService interface {
	BookLesson(ctx context.Context, actor *model.Actor, lessonID int64) (*model.Booking, error)
	CancelBooking(ctx context.Context, actor *model.Actor, bookingID int64) error
}

type AttendanceService interface {
	Roster(ctx context.Context, actor *model.Actor, lessonID int64) (*model.Lesson, []*model.Booking, error)
	SetAttendance(ctx context.Context, actor *model.Actor, lessonID int64, present []int64) error
	ToggleAttendance(ctx context.Context, actor *model.Actor, bookingID int64) (bool, error)
}

type CatalogService interface {
	ListDirections(ctx context.Context) ([]*model.Direction, error)
	CreateDirection(ctx context.Context, name, description string) (*model.Direction, error)
	ListTeachers(ctx context.Context) ([]*model.Teacher, error)
	Teacher(ctx context.Context, id int64) (*service.TeacherView, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
	CreateGroup(ctx context.Context, in service.GroupInput) (*model.Group, error)
	ListLessons(ctx context.Context) ([]*model.Lesson, error)
	Lesson(ctx context.Context, id int64) (*service.LessonView, error)
	CreateLesson(ctx context.Context, in service.LessonInput) (*model.Lesson, error)
	ListAbonements(ctx context.Context) ([]*model.Abonement, error)
	Abonement(ctx context.Context, id int64) (*model.Abonement, error)
	CreateAbonement(ctx context.Context, in service.AbonementInput) (*model.Abonement, error)
	UpdateAbonement(ctx context.Context, id int64, in service.AbonementInput) (*model.Abonement, error)
}

type RosterService interface {
	ListStudents(ctx context.Context) ([]*model.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	RecordPayment(ctx context.Context, studentID, amountKopecks int64, note string) (*model.Payment, error)
}

type ProfileService interface {
	Home(ctx context.Context) (*service.HomeView, error)
	Student(ctx context.Context, actor *model.Actor) (*service.StudentProfile, error)
	Teacher(ctx context.Context, actor *model.Actor) (*service.TeacherProfile, error)
	Dashboard(ctx context.Context) (*service.DashboardStats, error)
}

// Services - всё, что нужно обработчикам
type Services struct {
	Auth       AuthService
	Booking    BookingService
	Attendance AttendanceService
	Catalog    CatalogService
	Roster     RosterService
	Profile    ProfileService
}
