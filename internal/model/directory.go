package model

import "time"

type Direction struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Photo       string `json:"photo,omitempty"`
}

type Teacher struct {
	ID        int64  `json:"id"`
	AccountID *int64 `json:"account_id"`
	StageName string `json:"stage_name"`
	Bio       string `json:"bio"`

	// Имя из аккаунта (join)
	Name string `json:"name"`
}

// DisplayName возвращает сценическое имя, если оно задано
func (t *Teacher) DisplayName() string {
	if t.StageName != "" {
		return t.StageName
	}
	return t.Name
}

type Student struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Phone     string `json:"phone"`
	GroupID   *int64 `json:"group_id"`

	// Поля аккаунта (join)
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Payment struct {
	ID            int64     `json:"id"`
	StudentID     int64     `json:"student_id"`
	AmountKopecks int64     `json:"amount_kopecks"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
}

// Abonement - позиция каталога абонементов, с записями не связана
type Abonement struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PriceKopecks int64  `json:"price_kopecks"`
	Sessions     int    `json:"sessions"`
}
