package school

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abhigulve/mid-day-meal/internal/core"

	"github.com/rs/zerolog/log"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in Input) (*School, error) {
	if in.Name == nil || in.Code == nil {
		return nil, fmt.Errorf("name and code are required: %w", core.ErrValidationFailed)
	}

	sc := &School{}
	if err := apply(sc, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, err
	}

	log.Info().Int64("school_id", sc.ID).Str("code", sc.Code).Msg("school created")
	return sc, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*School, error) {
	sc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(sc, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func apply(sc *School, in Input) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&sc.Name, in.Name)
	set(&sc.Code, in.Code)
	set(&sc.Address, in.Address)
	set(&sc.City, in.City)
	set(&sc.State, in.State)
	set(&sc.Pincode, in.Pincode)
	set(&sc.Phone, in.Phone)
	set(&sc.Email, in.Email)
	set(&sc.PrincipalName, in.PrincipalName)

	if sc.Name == "" || sc.Code == "" {
		return fmt.Errorf("name and code must not be blank: %w", core.ErrValidationFailed)
	}

	if in.TotalStudents != nil {
		if *in.TotalStudents < 0 {
			return fmt.Errorf("total students %d: %w", *in.TotalStudents, core.ErrInvalidCount)
		}
		sc.TotalStudents = *in.TotalStudents
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*School, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*School, error) {
	return s.repo.GetByCode(ctx, strings.TrimSpace(code))
}

func (s *Service) List(ctx context.Context, vis core.Visibility) ([]School, error) {
	return s.repo.List(ctx, vis)
}

func (s *Service) Search(ctx context.Context, text string) ([]School, error) {
	return s.repo.Search(ctx, strings.TrimSpace(text))
}

func (s *Service) ListByCity(ctx context.Context, city string) ([]School, error) {
	return s.repo.ListByCity(ctx, strings.TrimSpace(city))
}

func (s *Service) ListByState(ctx context.Context, state string) ([]School, error) {
	return s.repo.ListByState(ctx, strings.TrimSpace(state))
}

func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}

// Deactivate soft-deletes a school. See DeactivationCascades.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("school_id", id).Msg("school deactivated")
	return nil
}

func (s *Service) SchoolRef(ctx context.Context, id int64) (*core.SchoolRef, error) {
	sc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &core.SchoolRef{ID: sc.ID, Name: sc.Name, Code: sc.Code, State: sc.Lifecycle}, nil
}

var _ core.SchoolReader = (*Service)(nil)
