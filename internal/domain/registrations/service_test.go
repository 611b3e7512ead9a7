package registrations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/domain/relations"
)

func newService() *Service {
	return NewService(relations.NewMemoryRepository[uuid.UUID, uuid.UUID](), zerolog.Nop())
}

func TestRegisterAndDeregister(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	user, event := uuid.New(), uuid.New()

	n, err := svc.RegisterEvent(ctx, user, event)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	events, err := svc.GetRegisteredEvents(ctx, user)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{event}, events)

	n, err = svc.DeregisterEvent(ctx, user, event)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	events, err = svc.GetRegisteredEvents(ctx, user)
	require.NoError(t, err)
	require.Empty(t, events)

	n, err = svc.DeregisterEvent(ctx, user, event)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestDoubleRegistrationConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	user, event := uuid.New(), uuid.New()

	_, err := svc.RegisterEvent(ctx, user, event)
	require.NoError(t, err)
	_, err = svc.RegisterEvent(ctx, user, event)
	require.ErrorIs(t, err, domain.ErrConflict)

	count, err := svc.GetParticipantCount(ctx, event)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestParticipantCount(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	event := uuid.New()

	count, err := svc.GetParticipantCount(ctx, event)
	require.NoError(t, err)
	require.Zero(t, count)

	for i := 0; i < 3; i++ {
		_, err := svc.RegisterEvent(ctx, uuid.New(), event)
		require.NoError(t, err)
	}
	_, err = svc.RegisterEvent(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)

	count, err = svc.GetParticipantCount(ctx, event)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}

func TestRegistrationRejectsNilIDs(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.RegisterEvent(ctx, uuid.Nil, uuid.New())
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.RegisterEvent(ctx, uuid.New(), uuid.Nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.GetParticipantCount(ctx, uuid.Nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
