package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/studio_booking/internal/model"
)

const upcomingOnHome = 12

// ProfileService собирает данные главной страницы, личного кабинета и панели администратора
type ProfileService struct {
	directions DirectionStore
	teachers   TeacherStore
	students   StudentStore
	lessons    LessonStore
	bookings   BookingStore
	payments   PaymentStore
	now        func() time.Time
}

func NewProfileService(
	directions DirectionStore,
	teachers TeacherStore,
	students StudentStore,
	lessons LessonStore,
	bookings BookingStore,
	payments PaymentStore,
) *ProfileService {
	return &ProfileService{
		directions: directions,
		teachers:   teachers,
		students:   students,
		lessons:    lessons,
		bookings:   bookings,
		payments:   payments,
		now:        time.Now,
	}
}

type HomeView struct {
	Directions []*model.Direction `json:"directions"`
	Teachers   []*model.Teacher   `json:"teachers"`
	Upcoming   []*model.Lesson    `json:"upcoming"`
}

type StudentProfile struct {
	Bookings []*model.Booking `json:"bookings"`
	Payments []*model.Payment `json:"payments"`
}

type TeacherProfile struct {
	Teacher *model.Teacher  `json:"teacher"`
	Lessons []*model.Lesson `json:"lessons"`
}

type DashboardStats struct {
	Students        int `json:"students"`
	Teachers        int `json:"teachers"`
	Directions      int `json:"directions"`
	UpcomingLessons int `json:"upcoming_lessons"`
}

// Home - направления, преподаватели и ближайшие занятия
func (s *ProfileService) Home(ctx context.Context) (*HomeView, error) {
	directions, err := s.directions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list directions: %w", err)
	}
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	upcoming, err := s.lessons.ListUpcoming(ctx, s.now(), upcomingOnHome)
	if err != nil {
		return nil, fmt.Errorf("list upcoming lessons: %w", err)
	}

	return &HomeView{Directions: directions, Teachers: teachers, Upcoming: upcoming}, nil
}

// Student возвращает записи и платежи студента-актора
func (s *ProfileService) Student(ctx context.Context, actor *model.Actor) (*StudentProfile, error) {
	if actor == nil || actor.Account == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.Is(model.RoleStudent) {
		return nil, ErrForbidden
	}
	if actor.StudentID == nil {
		return nil, ErrNoStudentProfile
	}

	bookings, err := s.bookings.ListByStudent(ctx, *actor.StudentID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	payments, err := s.payments.ListByStudent(ctx, *actor.StudentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return &StudentProfile{Bookings: bookings, Payments: payments}, nil
}

// Teacher возвращает профиль преподавателя-актора и занятия его групп
func (s *ProfileService) Teacher(ctx context.Context, actor *model.Actor) (*TeacherProfile, error) {
	if actor == nil || actor.Account == nil {
		return nil, ErrUnauthenticated
	}
	if !actor.Is(model.RoleTeacher) {
		return nil, ErrForbidden
	}
	if actor.TeacherID == nil {
		return nil, ErrTeacherNotFound
	}

	teacher, err := s.teachers.GetByID(ctx, *actor.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, ErrTeacherNotFound
	}

	lessons, err := s.lessons.ListByTeacherID(ctx, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	return &TeacherProfile{Teacher: teacher, Lessons: lessons}, nil
}

// Dashboard считает сводку для администратора
func (s *ProfileService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.Students, err = s.students.Count(ctx); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	if stats.Teachers, err = s.teachers.Count(ctx); err != nil {
		return nil, fmt.Errorf("count teachers: %w", err)
	}
	if stats.Directions, err = s.directions.Count(ctx); err != nil {
		return nil, fmt.Errorf("count directions: %w", err)
	}
	if stats.UpcomingLessons, err = s.lessons.CountUpcoming(ctx, s.now()); err != nil {
		return nil, fmt.Errorf("count upcoming lessons: %w", err)
	}

	return &stats, nil
}
