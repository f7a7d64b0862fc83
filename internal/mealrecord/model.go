package mealrecord

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/period"
)

type Quality string

const (
	Excellent Quality = "EXCELLENT"
	Good      Quality = "GOOD"
	Average   Quality = "AVERAGE"
	Poor      Quality = "POOR"
)

func ParseQuality(s string) (Quality, error) {
	switch q := Quality(strings.ToUpper(strings.TrimSpace(s))); q {
	case Excellent, Good, Average, Poor:
		return q, nil
	default:
		return "", fmt.Errorf("unknown meal quality %q: %w", s, core.ErrValidationFailed)
	}
}

// MealRecord is what one school served against one menu on one date.
// SchoolID, MenuID and Date never change after creation.
type MealRecord struct {
	ID              int64     `json:"id"`
	SchoolID        int64     `json:"school_id"`
	MenuID          int64     `json:"menu_id"`
	Date            time.Time `json:"date"`
	StudentsPresent int       `json:"students_present"`
	MealsServed     int       `json:"meals_served"`
	Quality         *Quality  `json:"meal_quality"`
	TeacherInCharge string    `json:"teacher_in_charge"`
	Remarks         string    `json:"remarks"`
	PhotoURL        string    `json:"photo_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Entry is a new serving event.
type Entry struct {
	SchoolID        int64
	MenuID          int64
	Date            time.Time
	StudentsPresent int
	MealsServed     int
	Quality         *Quality
	TeacherInCharge string
	Remarks         string
	PhotoURL        string
}

// Amendment lists the mutable fields; nil means unchanged.
type Amendment struct {
	StudentsPresent *int
	MealsServed     *int
	Quality         *Quality
	TeacherInCharge *string
	Remarks         *string
	PhotoURL        *string
}

// Filter selects records for listing. Zero values mean "any".
type Filter struct {
	SchoolID int64
	Range    *period.Range
}

func (f Filter) Admits(r *MealRecord) bool {
	if f.SchoolID != 0 && r.SchoolID != f.SchoolID {
		return false
	}
	return f.Range == nil || f.Range.Contains(r.Date)
}
