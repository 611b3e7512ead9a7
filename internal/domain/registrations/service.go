package registrations

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventsg/backend/internal/domain/ids"
	"github.com/eventsg/backend/internal/domain/relations"
)

// Repository stores (user, event) registrations.
type Repository = relations.Repository[uuid.UUID, uuid.UUID]

type Service struct {
	ledger *relations.Ledger[uuid.UUID, uuid.UUID]
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	logger = logger.With().Str("component", "registrations").Logger()
	return &Service{
		ledger: relations.NewLedger(
			"registration",
			repo,
			func(id uuid.UUID) error { return ids.Require("userId", id) },
			func(id uuid.UUID) error { return ids.Require("eventId", id) },
			logger,
		),
	}
}

// RegisterEvent records that the user attends the event. A second
// registration for the same pair fails with domain.ErrConflict.
func (s *Service) RegisterEvent(ctx context.Context, userID, eventID uuid.UUID) (int64, error) {
	return s.ledger.Add(ctx, userID, eventID)
}

// DeregisterEvent returns 0 when the user was not registered.
func (s *Service) DeregisterEvent(ctx context.Context, userID, eventID uuid.UUID) (int64, error) {
	return s.ledger.Remove(ctx, userID, eventID)
}

func (s *Service) GetRegisteredEvents(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.ledger.List(ctx, userID)
}

// GetParticipantCount returns the number of distinct users registered for
// the event.
func (s *Service) GetParticipantCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	return s.ledger.Count(ctx, eventID)
}
