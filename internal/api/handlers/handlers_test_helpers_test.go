package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/eventsg/backend/internal/api/problem"
	"github.com/eventsg/backend/internal/domain/preferences"
	"github.com/eventsg/backend/internal/domain/registrations"
	"github.com/eventsg/backend/internal/domain/relations"
	"github.com/eventsg/backend/internal/domain/users"
	"github.com/eventsg/backend/internal/domain/venues"
)

const testImage = "https://cdn.example.com/default-venue.png"

type staticImage string

func (s staticImage) DefaultVenueImage(context.Context) (string, error) {
	return string(s), nil
}

type testEnv struct {
	venueRepo     *venues.MemoryRepository
	venues        *VenuesHandler
	userRepo      *users.MemoryRepository
	users         *UsersHandler
	registrations *RegistrationsHandler
	preferences   *PreferencesHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	venueRepo := venues.NewMemoryRepository()
	venueSvc := venues.NewService(venueRepo, staticImage(testImage), venues.DefaultTolerances(), zerolog.Nop())
	userRepo := users.NewMemoryRepository()
	regSvc := registrations.NewService(relations.NewMemoryRepository[uuid.UUID, uuid.UUID](), zerolog.Nop())
	prefSvc := preferences.NewService(
		relations.NewMemoryRepository[uuid.UUID, string](),
		relations.NewMemoryRepository[uuid.UUID, uuid.UUID](),
		zerolog.Nop(),
	)
	return &testEnv{
		venueRepo:     venueRepo,
		venues:        NewVenuesHandler(venueSvc, "test"),
		userRepo:      userRepo,
		users:         NewUsersHandler(users.NewService(userRepo, zerolog.Nop()), "test"),
		registrations: NewRegistrationsHandler(regSvc, "test"),
		preferences:   NewPreferencesHandler(prefSvc, "test"),
	}
}

// serve routes a single request through a mux holding one pattern, so path
// values are populated the same way as in production.
func serve(t *testing.T, pattern string, h http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res := httptest.NewRecorder()
	mux.ServeHTTP(res, req)
	return res
}

func decode[T any](t *testing.T, res *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func decodeProblem(t *testing.T, res *httptest.ResponseRecorder) problem.ProblemDetails {
	t.Helper()
	require.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))
	return decode[problem.ProblemDetails](t, res)
}
