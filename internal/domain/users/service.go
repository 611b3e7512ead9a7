package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/domain/ids"
)

// Service manages user profiles. Credentials and sessions live elsewhere.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// AddUser stores a new user under a freshly minted id. The creation time is
// the one encoded in the id. Emails are compared case-insensitively.
func (s *Service) AddUser(ctx context.Context, user User) (User, error) {
	user, err := normalize(user)
	if err != nil {
		return User{}, err
	}

	id, err := ids.New()
	if err != nil {
		return User{}, fmt.Errorf("mint user id: %w", err)
	}
	user.ID = id
	user.CreatedAt = ids.Timestamp(id)

	affected, err := s.repo.Insert(ctx, user)
	if err != nil {
		return User{}, fmt.Errorf("add user: %w", err)
	}
	if affected != 1 {
		return User{}, fmt.Errorf("add user: expected 1 row, got %d", affected)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user added")
	return user, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	if err := ids.Require("userId", id); err != nil {
		return User{}, err
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

func (s *Service) GetAllUsers(ctx context.Context) ([]User, error) {
	found, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return found, nil
}

// UpdateUserByID replaces email and display name. Updating an absent user
// returns 0.
func (s *Service) UpdateUserByID(ctx context.Context, id uuid.UUID, user User) (int64, error) {
	if err := ids.Require("userId", id); err != nil {
		return 0, err
	}
	user, err := normalize(user)
	if err != nil {
		return 0, err
	}
	affected, err := s.repo.Update(ctx, id, user)
	if err != nil {
		return 0, fmt.Errorf("update user %s: %w", id, err)
	}
	if affected > 0 {
		s.logger.Info().Str("user_id", id.String()).Msg("user updated")
	}
	return affected, nil
}

// DeleteUserByID removes the profile. Registrations and preferences keyed
// on the id are left alone. Deleting an absent user returns 0.
func (s *Service) DeleteUserByID(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := ids.Require("userId", id); err != nil {
		return 0, err
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete user %s: %w", id, err)
	}
	if affected > 0 {
		s.logger.Info().Str("user_id", id.String()).Msg("user deleted")
	}
	return affected, nil
}

func normalize(u User) (User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	if u.Email == "" {
		return User{}, domain.Invalid("email", "is required")
	}
	at := strings.LastIndex(u.Email, "@")
	if at <= 0 || at == len(u.Email)-1 {
		return User{}, domain.Invalid("email", "must be an email address")
	}
	return u, nil
}
