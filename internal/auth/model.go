package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

type Role string

const (
	Admin       Role = "ADMIN"
	SchoolAdmin Role = "SCHOOL_ADMIN"
	Teacher     Role = "TEACHER"
	Supervisor  Role = "SUPERVISOR"
	Cook        Role = "COOK"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case Admin, SchoolAdmin, Teacher, Supervisor, Cook:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", s, core.ErrValidationFailed)
	}
}

// User is the domain entity. Password holds the bcrypt hash.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Password  string     `json:"-"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      Role       `json:"role"`
	SchoolID  *int64     `json:"school_id"`
	State     core.State `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewUser is the input of CreateUser; Password is plain text.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	SchoolID *int64 `json:"school_id"`
}
