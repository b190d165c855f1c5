package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor - аккаунт текущего запроса вместе с профилями.
// Кладётся в контекст запроса middleware'ом сессий.
type Actor struct {
	Account   *Account `json:"account"`
	StudentID *int64   `json:"student_id,omitempty"`
	TeacherID *int64   `json:"teacher_id,omitempty"`
}

// Is возвращает true если роль актора входит в список
func (a *Actor) Is(roles ...Role) bool {
	if a == nil || a.Account == nil {
		return false
	}
	for _, r := range roles {
		if a.Account.Role == r {
			return true
		}
	}
	return false
}
