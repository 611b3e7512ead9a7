package preferences

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/domain/ids"
	"github.com/eventsg/backend/internal/domain/relations"
)

const maxCategoryLength = 100

type (
	CategoryRepository   = relations.Repository[uuid.UUID, string]
	SavedEventRepository = relations.Repository[uuid.UUID, uuid.UUID]
)

type Service struct {
	categories *relations.Ledger[uuid.UUID, string]
	saved      *relations.Ledger[uuid.UUID, uuid.UUID]
}

func NewService(categories CategoryRepository, saved SavedEventRepository, logger zerolog.Logger) *Service {
	logger = logger.With().Str("component", "preferences").Logger()
	requireUser := func(id uuid.UUID) error { return ids.Require("userId", id) }
	return &Service{
		categories: relations.NewLedger("interested category", categories, requireUser, validateCategory, logger),
		saved: relations.NewLedger("saved event", saved, requireUser,
			func(id uuid.UUID) error { return ids.Require("eventId", id) }, logger),
	}
}

// AddInterestedCategory fails with domain.ErrConflict when the user already
// follows the category.
func (s *Service) AddInterestedCategory(ctx context.Context, userID uuid.UUID, category string) (int64, error) {
	return s.categories.Add(ctx, userID, NormalizeCategory(category))
}

func (s *Service) DeleteInterestedCategory(ctx context.Context, userID uuid.UUID, category string) (int64, error) {
	return s.categories.Remove(ctx, userID, NormalizeCategory(category))
}

func (s *Service) GetInterestedCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.categories.List(ctx, userID)
}

// SaveEvent fails with domain.ErrConflict when the event is already saved.
func (s *Service) SaveEvent(ctx context.Context, userID, eventID uuid.UUID) (int64, error) {
	return s.saved.Add(ctx, userID, eventID)
}

func (s *Service) UnsaveEvent(ctx context.Context, userID, eventID uuid.UUID) (int64, error) {
	return s.saved.Remove(ctx, userID, eventID)
}

func (s *Service) GetSavedEvents(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.saved.List(ctx, userID)
}

func NormalizeCategory(category string) string {
	return strings.TrimSpace(category)
}

func validateCategory(category string) error {
	if category == "" {
		return domain.Invalid("category", "required")
	}
	if utf8.RuneCountInString(category) > maxCategoryLength {
		return domain.Invalid("category", "too long")
	}
	return nil
}
