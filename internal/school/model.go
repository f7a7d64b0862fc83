package school

import (
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

// DeactivationCascades records that soft-deleting a school leaves its meal
// records untouched; reports over past periods keep counting them.
const DeactivationCascades = false

type School struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Code          string     `json:"code"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	Pincode       string     `json:"pincode"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	PrincipalName string     `json:"principal_name"`
	TotalStudents int        `json:"total_students"`
	Lifecycle     core.State `json:"lifecycle"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Input carries writable fields; nil fields are left untouched on update.
type Input struct {
	Name          *string `json:"name"`
	Code          *string `json:"code"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Pincode       *string `json:"pincode"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	PrincipalName *string `json:"principal_name"`
	TotalStudents *int    `json:"total_students"`
}
