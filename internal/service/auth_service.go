package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/repository/base"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	tx       TxRunner
	accounts AccountStore
	students StudentStore
	teachers TeacherStore
	hashCost int
	logger   *zap.Logger
}

func NewAuthService(
	tx TxRunner,
	accounts AccountStore,
	students StudentStore,
	teachers TeacherStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tx:       tx,
		accounts: accounts,
		students: students,
		teachers: teachers,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
}

// WithHashCost меняет стоимость bcrypt (в тестах - bcrypt.MinCost)
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	GroupID  *int64
}

type TeacherInput struct {
	Name      string
	Email     string
	Password  string
	StageName string
	Bio       string
}

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register регистрирует студента: аккаунт и профиль создаются в одной транзакции
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	var account *model.Account
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.createAccount(ctx, in.Name, in.Email, in.Password, model.RoleStudent)
		if err != nil {
			return err
		}

		student := &model.Student{
			AccountID: account.ID,
			Phone:     strings.TrimSpace(in.Phone),
			GroupID:   in.GroupID,
		}
		if err := s.students.Create(ctx, student); err != nil {
			return fmt.Errorf("create student: %w", storeConflict(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student registered",
		zap.Int64("account_id", account.ID),
		zap.String("email", account.Email),
	)
	return account, nil
}

// CreateTeacher создаёт аккаунт преподавателя и его профиль
func (s *AuthService) CreateTeacher(ctx context.Context, in TeacherInput) (*model.Teacher, error) {
	var teacher *model.Teacher
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		account, err := s.createAccount(ctx, in.Name, in.Email, in.Password, model.RoleTeacher)
		if err != nil {
			return err
		}

		teacher = &model.Teacher{
			AccountID: &account.ID,
			StageName: strings.TrimSpace(in.StageName),
			Bio:       strings.TrimSpace(in.Bio),
			Name:      account.Name,
		}
		if err := s.teachers.Create(ctx, teacher); err != nil {
			return fmt.Errorf("create teacher: %w", storeConflict(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Teacher created",
		zap.Int64("teacher_id", teacher.ID),
		zap.Int64p("account_id", teacher.AccountID),
	)
	return teacher, nil
}

// SeedAdmin создаёт администратора, если аккаунта с таким email ещё нет
func (s *AuthService) SeedAdmin(ctx context.Context, email, password, name string) error {
	existing, err := s.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if existing != nil {
		s.logger.Info("Admin account already exists", zap.String("email", existing.Email))
		return nil
	}

	if name == "" {
		name = "Администратор"
	}
	account, err := s.createAccount(ctx, name, email, password, model.RoleAdmin)
	if err != nil {
		return err
	}

	s.logger.Info("Admin account seeded", zap.Int64("account_id", account.ID), zap.String("email", account.Email))
	return nil
}

// Authenticate проверяет email и пароль
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// ResolveActor собирает актора по id аккаунта из сессии.
// Возвращает nil, если аккаунт удалён.
func (s *AuthService) ResolveActor(ctx context.Context, accountID int64) (*model.Actor, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, nil
	}

	actor := &model.Actor{Account: account}

	switch account.Role {
	case model.RoleStudent:
		student, err := s.students.GetByAccountID(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("get student: %w", err)
		}
		if student != nil {
			actor.StudentID = &student.ID
		}
	case model.RoleTeacher:
		teacher, err := s.teachers.GetByAccountID(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("get teacher: %w", err)
		}
		if teacher != nil {
			actor.TeacherID = &teacher.ID
		}
	}

	return actor, nil
}

func (s *AuthService) createAccount(ctx context.Context, name, email, password string, role model.Role) (*model.Account, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, invalid("Пожалуйста, заполните имя, email и пароль.")
	}

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, invalid("Пароль слишком длинный.")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, base.ErrUniqueViolation) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}
