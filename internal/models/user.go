package models

import (
	"strings"
	"time"
)

// User is a collections agent or supervisor.
type User struct {
	ID         int64     `json:"user_id" db:"user_id"`
	Username   string    `json:"username" db:"username"`
	FirstName  string    `json:"first_name" db:"first_name"`
	MiddleName *string   `json:"middle_name,omitempty" db:"middle_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Role       string    `json:"role" db:"role"`
	TeamID     *int64    `json:"team_id,omitempty" db:"team_id"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_date" db:"created_date"`
}

// FullName joins first, middle and last names.
func (u *User) FullName() string {
	return fullName(u.FirstName, u.MiddleName, u.LastName)
}

func fullName(first string, middle *string, last string) string {
	var b strings.Builder
	b.WriteString(first)
	b.WriteString(" ")
	if middle != nil && *middle != "" {
		b.WriteString(*middle)
		b.WriteString(" ")
	}
	b.WriteString(last)
	return b.String()
}
