package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_booking/internal/formatting"
	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository"
	"go.uber.org/zap"
)

// Занятие нельзя создать раньше, чем now минус это окно
const lessonBackdateWindow = 30 * time.Minute

// CatalogService - направления, преподаватели, группы, занятия и абонементы
type CatalogService struct {
	directions DirectionStore
	teachers   TeacherStore
	groups     GroupStore
	lessons    LessonStore
	bookings   BookingStore
	abonements AbonementStore
	location   *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

func NewCatalogService(
	directions DirectionStore,
	teachers TeacherStore,
	groups GroupStore,
	lessons LessonStore,
	bookings BookingStore,
	abonements AbonementStore,
	location *time.Location,
	logger *zap.Logger,
) *CatalogService {
	if location == nil {
		location = time.UTC
	}
	return &CatalogService{
		directions: directions,
		teachers:   teachers,
		groups:     groups,
		lessons:    lessons,
		bookings:   bookings,
		abonements: abonements,
		location:   location,
		logger:     logger,
		now:        time.Now,
	}
}

type GroupInput struct {
	Name        string
	DirectionID int64
	TeacherID   int64
	Capacity    *int // nil - вместимость по умолчанию
	Location    string
}

type LessonInput struct {
	GroupID         int64
	Start           string
	DurationMinutes *int
}

type AbonementInput struct {
	Name         string
	Description  string
	PriceKopecks int64
	Sessions     int
}

// LessonView - занятие с подсчётом мест
type LessonView struct {
	Lesson    *model.Lesson `json:"lesson"`
	Taken     int           `json:"taken"`
	SpotsLeft int           `json:"spots_left"`
}

// TeacherView - преподаватель и его группы
type TeacherView struct {
	Teacher *model.Teacher `json:"teacher"`
	Groups  []*model.Group `json:"groups"`
}

func (s *CatalogService) ListDirections(ctx context.Context) ([]*model.Direction, error) {
	return s.directions.List(ctx)
}

// CreateDirection создаёт направление
func (s *CatalogService) CreateDirection(ctx context.Context, name, description string) (*model.Direction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Название обязательно")
	}

	d := &model.Direction{Name: name, Description: strings.TrimSpace(description)}
	if err := s.directions.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create direction: %w", storeConflict(err))
	}

	s.logger.Info("Direction created", zap.Int64("direction_id", d.ID), zap.String("name", d.Name))
	return d, nil
}

func (s *CatalogService) ListTeachers(ctx context.Context) ([]*model.Teacher, error) {
	return s.teachers.List(ctx)
}

// Teacher возвращает преподавателя вместе с группами
func (s *CatalogService) Teacher(ctx context.Context, id int64) (*TeacherView, error) {
	t, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if t == nil {
		return nil, ErrTeacherNotFound
	}

	groups, err := s.groups.ListByTeacherID(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list teacher groups: %w", err)
	}
	return &TeacherView{Teacher: t, Groups: groups}, nil
}

func (s *CatalogService) ListGroups(ctx context.Context) ([]*model.Group, error) {
	return s.groups.List(ctx)
}

// CreateGroup создаёт группу; вместимость должна быть > 0
func (s *CatalogService) CreateGroup(ctx context.Context, in GroupInput) (*model.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Название группы обязательно")
	}

	capacity := model.DefaultGroupCapacity
	if in.Capacity != nil {
		capacity = *in.Capacity
	}
	if capacity <= 0 {
		return nil, invalid("Количество мест должно быть > 0")
	}

	direction, err := s.directions.GetByID(ctx, in.DirectionID)
	if err != nil {
		return nil, fmt.Errorf("get direction: %w", err)
	}
	if direction == nil {
		return nil, invalid("Направление не найдено")
	}

	teacher, err := s.teachers.GetByID(ctx, in.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, invalid("Преподаватель не найден")
	}

	g := &model.Group{
		Name:          name,
		DirectionID:   direction.ID,
		TeacherID:     teacher.ID,
		Capacity:      capacity,
		Location:      strings.TrimSpace(in.Location),
		DirectionName: direction.Name,
		TeacherName:   teacher.DisplayName(),
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create group: %w", storeConflict(err))
	}

	s.logger.Info("Group created",
		zap.Int64("group_id", g.ID),
		zap.String("name", g.Name),
		zap.Int("capacity", g.Capacity),
	)
	return g, nil
}

func (s *CatalogService) ListLessons(ctx context.Context) ([]*model.Lesson, error) {
	return s.lessons.List(ctx)
}

// Lesson возвращает занятие с количеством занятых и свободных мест
func (s *CatalogService) Lesson(ctx context.Context, id int64) (*LessonView, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil || lesson.Group == nil {
		return nil, ErrLessonNotFound
	}

	taken, err := s.bookings.CountByLesson(ctx, lesson.ID)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return &LessonView{
		Lesson:    lesson,
		Taken:     taken,
		SpotsLeft: lesson.Group.Capacity - taken,
	}, nil
}

// CreateLesson создаёт занятие группы. Дата без зоны читается во времени студии.
func (s *CatalogService) CreateLesson(ctx context.Context, in LessonInput) (*model.Lesson, error) {
	start, err := formatting.ParseDateTime(in.Start, s.location)
	if err != nil {
		return nil, invalid("Неверный формат даты/времени")
	}
	if start.Before(s.now().Add(-lessonBackdateWindow)) {
		return nil, invalid("Нельзя создавать урок в прошлом")
	}

	duration := model.DefaultLessonDuration
	if in.DurationMinutes != nil {
		duration = *in.DurationMinutes
	}
	if duration <= 0 {
		return nil, invalid("Длительность должна быть > 0")
	}

	group, err := s.groups.GetByID(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	lesson := &model.Lesson{
		GroupID:         group.ID,
		StartAt:         start,
		DurationMinutes: duration,
		Group:           group,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", storeConflict(err))
	}

	s.logger.Info("Lesson created",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("group_id", group.ID),
		zap.Time("start_at", lesson.StartAt),
	)
	return lesson, nil
}

func (s *CatalogService) ListAbonements(ctx context.Context) ([]*model.Abonement, error) {
	return s.abonements.List(ctx)
}

// Abonement возвращает абонемент по ID
func (s *CatalogService) Abonement(ctx context.Context, id int64) (*model.Abonement, error) {
	a, err := s.abonements.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get abonement: %w", err)
	}
	if a == nil {
		return nil, ErrAbonementNotFound
	}
	return a, nil
}

// CreateAbonement добавляет абонемент в каталог
func (s *CatalogService) CreateAbonement(ctx context.Context, in AbonementInput) (*model.Abonement, error) {
	a, err := abonementFromInput(in)
	if err != nil {
		return nil, err
	}

	if err := s.abonements.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create abonement: %w", storeConflict(err))
	}

	s.logger.Info("Abonement created", zap.Int64("abonement_id", a.ID), zap.String("name", a.Name))
	return a, nil
}

// UpdateAbonement обновляет абонемент
func (s *CatalogService) UpdateAbonement(ctx context.Context, id int64, in AbonementInput) (*model.Abonement, error) {
	a, err := abonementFromInput(in)
	if err != nil {
		return nil, err
	}
	a.ID = id

	if err := s.abonements.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAbonementNotFound
		}
		return nil, fmt.Errorf("update abonement: %w", storeConflict(err))
	}

	s.logger.Info("Abonement updated", zap.Int64("abonement_id", a.ID))
	return a, nil
}

func abonementFromInput(in AbonementInput) (*model.Abonement, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Название абонемента обязательно")
	}
	if in.PriceKopecks < 0 {
		return nil, invalid("Цена не может быть отрицательной")
	}
	sessions := in.Sessions
	if sessions == 0 {
		sessions = 1
	}
	if sessions < 0 {
		return nil, invalid("Количество занятий должно быть > 0")
	}

	return &model.Abonement{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		PriceKopecks: in.PriceKopecks,
		Sessions:     sessions,
	}, nil
}
