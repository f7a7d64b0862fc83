package mealrecord

import (
	"fmt"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

// Policy decides whether a pair of counts is acceptable beyond both being
// non-negative, which is always enforced.
type Policy interface {
	Check(studentsPresent, mealsServed int) error
}

// Permissive accepts any non-negative counts; served may exceed present.
type Permissive struct{}

func (Permissive) Check(int, int) error { return nil }

// Strict rejects records that serve more meals than students were present.
type Strict struct{}

func (Strict) Check(studentsPresent, mealsServed int) error {
	if mealsServed > studentsPresent {
		return fmt.Errorf("meals served %d exceeds students present %d: %w",
			mealsServed, studentsPresent, core.ErrInvalidCount)
	}
	return nil
}

// PolicyFor maps the STRICT_MEAL_COUNTS setting to a policy.
func PolicyFor(strict bool) Policy {
	if strict {
		return Strict{}
	}
	return Permissive{}
}

func checkCounts(p Policy, studentsPresent, mealsServed int) error {
	if studentsPresent < 0 {
		return fmt.Errorf("students present %d: %w", studentsPresent, core.ErrInvalidCount)
	}
	if mealsServed < 0 {
		return fmt.Errorf("meals served %d: %w", mealsServed, core.ErrInvalidCount)
	}
	return p.Check(studentsPresent, mealsServed)
}
