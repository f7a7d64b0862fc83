package mealrecord

import (
	"context"
	"fmt"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/metrics"
	"github.com/Abhigulve/mid-day-meal/internal/period"

	"github.com/rs/zerolog/log"
)

type Service struct {
	repo    Repository
	schools core.SchoolReader
	menus   core.MenuReader
	policy  Policy
	now     period.Clock
	metrics *metrics.Metrics
}

// NewService wires the ledger. A nil policy is Permissive, a nil clock is
// time.Now and nil metrics are skipped.
func NewService(
	repo Repository,
	schools core.SchoolReader,
	menus core.MenuReader,
	policy Policy,
	clock period.Clock,
	m *metrics.Metrics,
) *Service {
	if policy == nil {
		policy = Permissive{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:    repo,
		schools: schools,
		menus:   menus,
		policy:  policy,
		now:     clock,
		metrics: m,
	}
}

// --------------------------------------------------
// Record (ABSENT -> RECORDED)
// --------------------------------------------------
func (s *Service) Record(ctx context.Context, e Entry) (*MealRecord, error) {
	if e.Date.IsZero() {
		return nil, fmt.Errorf("date is required: %w", core.ErrValidationFailed)
	}
	if err := checkCounts(s.policy, e.StudentsPresent, e.MealsServed); err != nil {
		return nil, err
	}

	school, err := s.schools.SchoolRef(ctx, e.SchoolID)
	if err != nil {
		return nil, err
	}
	if !school.State.IsActive() {
		return nil, fmt.Errorf("school %d is inactive: %w", e.SchoolID, core.ErrNotFound)
	}

	menu, err := s.menus.MenuRef(ctx, e.MenuID)
	if err != nil {
		return nil, err
	}
	if !menu.State.IsActive() {
		return nil, fmt.Errorf("menu %d is inactive: %w", e.MenuID, core.ErrNotFound)
	}

	rec := &MealRecord{
		SchoolID:        e.SchoolID,
		MenuID:          e.MenuID,
		Date:            period.Day(e.Date),
		StudentsPresent: e.StudentsPresent,
		MealsServed:     e.MealsServed,
		Quality:         e.Quality,
		TeacherInCharge: e.TeacherInCharge,
		Remarks:         e.Remarks,
		PhotoURL:        e.PhotoURL,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if core.IsConflict(err) {
			s.metrics.Conflict("meal_record")
		}
		return nil, err
	}

	s.metrics.MealRecordCreated()
	log.Info().
		Int64("meal_record_id", rec.ID).
		Int64("school_id", rec.SchoolID).
		Int64("menu_id", rec.MenuID).
		Time("date", rec.Date).
		Int("meals_served", rec.MealsServed).
		Msg("meal record created")
	return rec, nil
}

// --------------------------------------------------
// Amend (RECORDED -> UPDATED)
// --------------------------------------------------

// Amend applies the non-nil fields after validating the merged result; on
// error nothing is written.
func (s *Service) Amend(ctx context.Context, id int64, a Amendment) (*MealRecord, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.StudentsPresent != nil {
		rec.StudentsPresent = *a.StudentsPresent
	}
	if a.MealsServed != nil {
		rec.MealsServed = *a.MealsServed
	}
	if err := checkCounts(s.policy, rec.StudentsPresent, rec.MealsServed); err != nil {
		return nil, err
	}

	if a.Quality != nil {
		q := *a.Quality
		rec.Quality = &q
	}
	if a.TeacherInCharge != nil {
		rec.TeacherInCharge = *a.TeacherInCharge
	}
	if a.Remarks != nil {
		rec.Remarks = *a.Remarks
	}
	if a.PhotoURL != nil {
		rec.PhotoURL = *a.PhotoURL
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	log.Debug().Int64("meal_record_id", id).Msg("meal record amended")
	return rec, nil
}

// RemoveRecord hard-deletes a record. Administrative use only.
func (s *Service) RemoveRecord(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Warn().Int64("meal_record_id", id).Msg("meal record removed")
	return nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------
func (s *Service) Get(ctx context.Context, id int64) (*MealRecord, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Find(ctx context.Context, schoolID, menuID int64, date time.Time) (*MealRecord, error) {
	return s.repo.Find(ctx, schoolID, menuID, period.Day(date))
}

// ListForSchoolInPeriod returns one school's records, newest first.
func (s *Service) ListForSchoolInPeriod(ctx context.Context, schoolID int64, r period.Range) ([]MealRecord, error) {
	if r.Empty() {
		return []MealRecord{}, nil
	}
	return s.repo.List(ctx, Filter{SchoolID: schoolID, Range: &r})
}

func (s *Service) ListInPeriod(ctx context.Context, r period.Range) ([]MealRecord, error) {
	if r.Empty() {
		return []MealRecord{}, nil
	}
	return s.repo.List(ctx, Filter{Range: &r})
}

func (s *Service) ListForDate(ctx context.Context, date time.Time) ([]MealRecord, error) {
	return s.ListInPeriod(ctx, period.NewRange(date, date))
}

func (s *Service) ListToday(ctx context.Context) ([]MealRecord, error) {
	return s.ListForDate(ctx, s.now())
}

func (s *Service) ListThisWeek(ctx context.Context) ([]MealRecord, error) {
	return s.ListInPeriod(ctx, period.Week(s.now()))
}

func (s *Service) ListAll(ctx context.Context) ([]MealRecord, error) {
	return s.repo.List(ctx, Filter{})
}
