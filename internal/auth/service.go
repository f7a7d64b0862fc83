package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abhigulve/mid-day-meal/internal/core"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const minPasswordLength = 8

type Service struct {
	repo   UserRepository
	tokens *TokenIssuer
}

func NewService(repo UserRepository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// CREATE USER (ADMIN)
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)
	if username == "" || fullName == "" || in.Password == "" {
		return nil, fmt.Errorf("username, full_name and password are required: %w", core.ErrValidationFailed)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, core.ErrValidationFailed)
	}

	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(in.Password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username: username,
		Password: string(hashedPassword),
		FullName: fullName,
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     role,
		SchoolID: in.SchoolID,
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user created")
	return user, nil
}

// LOGIN
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.State.IsActive() {
		return "", nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword(
		[]byte(user.Password),
		[]byte(password),
	)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, vis core.Visibility) ([]User, error) {
	return s.repo.List(ctx, vis)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}
