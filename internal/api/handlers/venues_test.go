package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/domain/venues"
)

func venueBody(owner uuid.UUID, name string, fee, area float64) map[string]any {
	return map[string]any{
		"ownerId":     owner.String(),
		"address":     "1 Harbour Front Walk",
		"postalCode":  "098585",
		"venueName":   name,
		"description": "Waterfront function room",
		"rentalFee":   fee,
		"area":        area,
	}
}

func createVenue(t *testing.T, env *testEnv, body map[string]any) venueResponse {
	t.Helper()
	res := serve(t, "POST /api/v1/venues", env.venues.Create, http.MethodPost, "/api/v1/venues", body)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	return decode[venueResponse](t, res)
}

func TestVenuesCreate(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	body := venueBody(owner, "<b>Marina</b> Hall", 200, 100)
	body["venueId"] = uuid.New().String()
	body["image"] = "client.png"

	res := serve(t, "POST /api/v1/venues", env.venues.Create, http.MethodPost, "/api/v1/venues", body)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	created := decode[venueResponse](t, res)
	assert.NotEqual(t, body["venueId"], created.VenueID)
	assert.Equal(t, testImage, created.Image)
	assert.Equal(t, "Marina Hall", created.Name)
	assert.Equal(t, owner.String(), created.OwnerID)
	assert.Equal(t, "/api/v1/venues/"+created.VenueID, res.Header().Get("Location"))
}

func TestVenuesCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"missing owner", func() map[string]any { b := venueBody(owner, "Hall", 1, 1); delete(b, "ownerId"); return b }(), "ownerId"},
		{"bad owner", func() map[string]any { b := venueBody(owner, "Hall", 1, 1); b["ownerId"] = "abc"; return b }(), "ownerId"},
		{"nil owner", func() map[string]any { b := venueBody(owner, "Hall", 1, 1); b["ownerId"] = uuid.Nil.String(); return b }(), "ownerId"},
		{"negative fee", venueBody(owner, "Hall", -1, 10), "rentalFee"},
		{"zero area", venueBody(owner, "Hall", 10, 0), "area"},
		{"missing area", func() map[string]any { b := venueBody(owner, "Hall", 1, 1); delete(b, "area"); return b }(), "area"},
		{"markup-only name", venueBody(owner, "<script>x</script>", 10, 10), "venueName"},
		{"unknown field", func() map[string]any { b := venueBody(owner, "Hall", 1, 1); b["capacity"] = 3; return b }(), "body"},
		{"malformed json", `{"ownerId":`, "body"},
		{"trailing data", `{} {}`, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := serve(t, "POST /api/v1/venues", env.venues.Create, http.MethodPost, "/api/v1/venues", tt.body)
			require.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())
			p := decodeProblem(t, res)
			assert.Contains(t, p.Errors, tt.field)
		})
	}
}

func TestVenuesGet(t *testing.T) {
	env := newTestEnv(t)
	created := createVenue(t, env, venueBody(uuid.New(), "Marina Hall", 200, 100))

	res := serve(t, "GET /api/v1/venues/{venueId}", env.venues.Get, http.MethodGet, "/api/v1/venues/"+created.VenueID, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, created, decode[venueResponse](t, res))

	res = serve(t, "GET /api/v1/venues/{venueId}", env.venues.Get, http.MethodGet, "/api/v1/venues/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "https://eventsg.dev/problems/not-found", decodeProblem(t, res).Type)

	res = serve(t, "GET /api/v1/venues/{venueId}", env.venues.Get, http.MethodGet, "/api/v1/venues/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestVenuesList(t *testing.T) {
	env := newTestEnv(t)

	res := serve(t, "GET /api/v1/venues", env.venues.List, http.MethodGet, "/api/v1/venues", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"items":[]}`, res.Body.String())

	createVenue(t, env, venueBody(uuid.New(), "A", 1, 1))
	createVenue(t, env, venueBody(uuid.New(), "B", 1, 1))

	res = serve(t, "GET /api/v1/venues", env.venues.List, http.MethodGet, "/api/v1/venues", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decode[venueListResponse](t, res).Items, 2)
}

func TestVenuesUpdate(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	created := createVenue(t, env, venueBody(owner, "Marina Hall", 200, 100))
	pattern := "PUT /api/v1/venues/{venueId}"

	res := serve(t, pattern, env.venues.Update, http.MethodPut, "/api/v1/venues/"+created.VenueID, venueBody(owner, "Marina Hall East", 275, 140))
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.EqualValues(t, 1, decode[affectedResponse](t, res).Affected)

	res = serve(t, "GET /api/v1/venues/{venueId}", env.venues.Get, http.MethodGet, "/api/v1/venues/"+created.VenueID, nil)
	updated := decode[venueResponse](t, res)
	assert.Equal(t, "Marina Hall East", updated.Name)
	assert.Equal(t, 275.0, updated.RentalFee)
	assert.Equal(t, created.Image, updated.Image)

	res = serve(t, pattern, env.venues.Update, http.MethodPut, "/api/v1/venues/"+uuid.NewString(), venueBody(owner, "Ghost", 1, 1))
	require.Equal(t, http.StatusNotFound, res.Code)

	res = serve(t, pattern, env.venues.Update, http.MethodPut, "/api/v1/venues/"+created.VenueID, venueBody(owner, "Bad", 1, -5))
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestVenuesDeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	created := createVenue(t, env, venueBody(uuid.New(), "Marina Hall", 200, 100))
	pattern := "DELETE /api/v1/venues/{venueId}"

	res := serve(t, pattern, env.venues.Delete, http.MethodDelete, "/api/v1/venues/"+created.VenueID, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, decode[affectedResponse](t, res).Affected)

	res = serve(t, pattern, env.venues.Delete, http.MethodDelete, "/api/v1/venues/"+created.VenueID, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, decode[affectedResponse](t, res).Affected)
}

func TestVenuesSearches(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()
	for i, area := range []float64{89, 90, 105, 110, 111} {
		createVenue(t, env, venueBody(owner, fmt.Sprintf("Hall %d", i), 150+float64(i)*50, area))
	}
	createVenue(t, env, venueBody(uuid.New(), "Grand Ballroom", 1000, 500))

	tests := []struct {
		name    string
		pattern string
		handler http.HandlerFunc
		target  string
		status  int
		count   int
	}{
		{"owner", "GET /api/v1/venues/owner/{ownerId}", env.venues.ListByOwner, "/api/v1/venues/owner/" + owner.String(), http.StatusOK, 5},
		{"owner invalid", "GET /api/v1/venues/owner/{ownerId}", env.venues.ListByOwner, "/api/v1/venues/owner/xyz", http.StatusBadRequest, 0},
		{"name", "GET /api/v1/venues/name/{name}", env.venues.ListByName, "/api/v1/venues/name/Grand", http.StatusOK, 1},
		{"name is case sensitive", "GET /api/v1/venues/name/{name}", env.venues.ListByName, "/api/v1/venues/name/grand", http.StatusOK, 0},
		{"name with space", "GET /api/v1/venues/name/{name}", env.venues.ListByName, "/api/v1/venues/name/Grand%20Ball", http.StatusOK, 1},
		{"location", "GET /api/v1/venues/location/{location}", env.venues.ListByLocation, "/api/v1/venues/location/Harbour", http.StatusOK, 6},
		{"postal code", "GET /api/v1/venues/location/{location}", env.venues.ListByLocation, "/api/v1/venues/location/098585", http.StatusOK, 6},
		{"area boundaries", "GET /api/v1/venues/area/{area}", env.venues.ListByArea, "/api/v1/venues/area/100", http.StatusOK, 3},
		{"area not a number", "GET /api/v1/venues/area/{area}", env.venues.ListByArea, "/api/v1/venues/area/big", http.StatusBadRequest, 0},
		{"area negative", "GET /api/v1/venues/area/{area}", env.venues.ListByArea, "/api/v1/venues/area/-5", http.StatusBadRequest, 0},
		{"area NaN", "GET /api/v1/venues/area/{area}", env.venues.ListByArea, "/api/v1/venues/area/NaN", http.StatusBadRequest, 0},
		{"budget boundaries", "GET /api/v1/venues/budget/{budget}", env.venues.ListByBudget, "/api/v1/venues/budget/200", http.StatusOK, 3},
		{"budget no match", "GET /api/v1/venues/budget/{budget}", env.venues.ListByBudget, "/api/v1/venues/budget/5000", http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := serve(t, tt.pattern, tt.handler, http.MethodGet, tt.target, nil)
			require.Equal(t, tt.status, res.Code, res.Body.String())
			if tt.status == http.StatusOK {
				assert.Len(t, decode[venueListResponse](t, res).Items, tt.count)
			}
		})
	}
}

func TestVenuesGetByEvent(t *testing.T) {
	env := newTestEnv(t)
	created := createVenue(t, env, venueBody(uuid.New(), "Marina Hall", 200, 100))
	eventID := uuid.New()
	env.venueRepo.HostEvent(eventID, uuid.MustParse(created.VenueID))
	pattern := "GET /api/v1/events/{eventId}/venue"

	res := serve(t, pattern, env.venues.GetByEvent, http.MethodGet, "/api/v1/events/"+eventID.String()+"/venue", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, created.VenueID, decode[venueResponse](t, res).VenueID)

	res = serve(t, pattern, env.venues.GetByEvent, http.MethodGet, "/api/v1/events/"+uuid.NewString()+"/venue", nil)
	require.Equal(t, http.StatusNotFound, res.Code)
}

func TestVenuesStoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.venueRepo.FailWith(fmt.Errorf("venue.list: %w", domain.ErrStoreUnavailable))

	res := serve(t, "GET /api/v1/venues", env.venues.List, http.MethodGet, "/api/v1/venues", nil)
	require.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.Equal(t, "https://eventsg.dev/problems/unavailable", decodeProblem(t, res).Type)
}

type signingImage struct {
	fail bool
}

func (signingImage) DefaultVenueImage(context.Context) (string, error) {
	return "s3://venue-assets/default.png", nil
}

func (s signingImage) ImageURL(_ context.Context, ref string) (string, error) {
	if s.fail {
		return "", errors.New("presign unavailable")
	}
	return "https://venue-assets.example.com/default.png?X-Amz-Expires=900&ref=" + ref, nil
}

func TestVenuesImageIsLinkedOnRead(t *testing.T) {
	for _, tt := range []struct {
		name  string
		fail  bool
		image string
	}{
		{"linked", false, "https://venue-assets.example.com/default.png?X-Amz-Expires=900&ref=s3://venue-assets/default.png"},
		{"link failure keeps stored reference", true, "s3://venue-assets/default.png"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo := venues.NewMemoryRepository()
			svc := venues.NewService(repo, signingImage{fail: tt.fail}, venues.DefaultTolerances(), zerolog.Nop())
			env := &testEnv{venueRepo: repo, venues: NewVenuesHandler(svc, "test")}

			created := createVenue(t, env, venueBody(uuid.New(), "Marina Hall", 200, 100))
			assert.Equal(t, tt.image, created.Image)

			stored, err := repo.Get(context.Background(), uuid.MustParse(created.VenueID))
			require.NoError(t, err)
			assert.Equal(t, "s3://venue-assets/default.png", stored.Image)

			res := serve(t, "GET /api/v1/venues/{venueId}", env.venues.Get, http.MethodGet, "/api/v1/venues/"+created.VenueID, nil)
			require.Equal(t, http.StatusOK, res.Code)
			assert.Equal(t, tt.image, decode[venueResponse](t, res).Image)
		})
	}
}
