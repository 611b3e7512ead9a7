package postgres

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/eventsg/backend/internal/domain"
)

func TestNewCommandCountsPlaceholders(t *testing.T) {
	require.Equal(t, 0, NewCommand("none", "SELECT 1").Arity())
	require.Equal(t, 2, NewCommand("reused", "SELECT $1 WHERE abs(x - $1) <= $2").Arity())
	require.Equal(t, 9, insertVenue.Arity())
	require.Equal(t, 8, updateVenue.Arity())
}

func TestNewCommandRejectsEmpty(t *testing.T) {
	require.Panics(t, func() { NewCommand("", "SELECT 1") })
	require.Panics(t, func() { NewCommand("empty", "") })
}

func TestStoreArityMismatchPanics(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	require.PanicsWithValue(t,
		"postgres: command venue.delete expects 1 arguments, got 0",
		func() { _, _ = store.Execute(ctx, deleteVenue) },
	)
	require.Panics(t, func() {
		_, _ = QueryOne(ctx, store, selectVenue, scanVenue, "a", "b")
	})
	require.Panics(t, func() {
		_, _ = QueryMany(ctx, store, selectVenuesByArea, scanVenue, 1.0)
	})
	require.Panics(t, func() {
		_, _ = store.Execute(ctx, Command{SQL: "SELECT 1"})
	})
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: domain.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: domain.ErrConflict},
		{name: "invalid text", err: &pgconn.PgError{Code: "22P02"}, want: domain.ErrInvalidArgument},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: domain.ErrInvalidArgument},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, want: domain.ErrStoreUnavailable},
		{name: "connection exception", err: &pgconn.PgError{Code: "08006"}, want: domain.ErrStoreUnavailable},
		{name: "network", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, want: domain.ErrStoreUnavailable},
		{name: "canceled", err: context.Canceled, want: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError("venue.get", tt.err)

			require.ErrorIs(t, got, tt.want)
			require.Contains(t, got.Error(), "venue.get")
		})
	}
}

func TestTranslateErrorKeepsDriverError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "venues_pkey"}

	got := translateError("venue.insert", pgErr)

	var unwrapped *pgconn.PgError
	require.True(t, errors.As(got, &unwrapped))
	require.Equal(t, "venues_pkey", unwrapped.ConstraintName)
}

func TestTranslateErrorPassesThroughUnknown(t *testing.T) {
	base := errors.New("syntax trouble")

	got := translateError("venue.list", base)

	require.ErrorIs(t, got, base)
	require.NotErrorIs(t, got, domain.ErrNotFound)
	require.NotErrorIs(t, got, domain.ErrStoreUnavailable)
	require.Nil(t, translateError("noop", nil))
}

func TestStoreAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	pool, _ := setupPostgres(t)
	store := NewStore(pool)

	missing := NewCommand("test.missing", `SELECT venue_id FROM venues WHERE venue_id = $1`)
	_, err := QueryOne(ctx, store, missing, scanUUID, mustID(t))
	require.ErrorIs(t, err, domain.ErrNotFound)

	empty := NewCommand("test.empty", `SELECT venue_id FROM venues`)
	rows, err := QueryMany(ctx, store, empty, scanUUID)
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)

	badUUID := NewCommand("test.bad_uuid", `SELECT venue_id FROM venues WHERE venue_id = $1::uuid`)
	_, err = QueryMany(ctx, store, badUUID, scanUUID, "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	affected, err := store.Execute(ctx, deleteVenue, mustID(t))
	require.NoError(t, err)
	require.Zero(t, affected)
}

func TestStoreReportsUnavailableAfterPoolClosed(t *testing.T) {
	ctx := context.Background()
	_, dbURL := setupPostgres(t)

	pool, err := newTestPool(ctx, dbURL)
	require.NoError(t, err)
	pool.Close()

	_, err = NewStore(pool).Execute(ctx, deleteVenue, mustID(t))
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
