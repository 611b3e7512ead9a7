package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/eventsg/backend/internal/api/handlers"
	"github.com/eventsg/backend/internal/api/middleware"
	"github.com/eventsg/backend/internal/config"
	"github.com/eventsg/backend/internal/domain/preferences"
	"github.com/eventsg/backend/internal/domain/registrations"
	"github.com/eventsg/backend/internal/domain/users"
	"github.com/eventsg/backend/internal/domain/venues"
	"github.com/eventsg/backend/internal/metrics"
	"github.com/eventsg/backend/internal/storage/postgres"
)

// Dependencies are the stores and collaborators behind the HTTP surface.
type Dependencies struct {
	Venues        venues.Repository
	Users         users.Repository
	Registrations registrations.Repository
	SavedEvents   preferences.SavedEventRepository
	Categories    preferences.CategoryRepository
	Images        venues.ImageResolver
	Database      handlers.DatabaseStatus
}

// PostgresDependencies wires every store to repo.
func PostgresDependencies(repo *postgres.Repository, images venues.ImageResolver) Dependencies {
	return Dependencies{
		Venues:        repo.Venues(),
		Users:         repo.Users(),
		Registrations: repo.Registrations(),
		SavedEvents:   repo.SavedEvents(),
		Categories:    repo.InterestedCategories(),
		Images:        images,
		Database:      repo,
	}
}

type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

func NewRouter(cfg config.Config, deps Dependencies, build BuildInfo, logger zerolog.Logger) http.Handler {
	tolerances := venues.Tolerances{Area: cfg.Matching.AreaTolerance, Budget: cfg.Matching.BudgetTolerance}

	venueSvc := venues.NewService(deps.Venues, deps.Images, tolerances, logger)
	userSvc := users.NewService(deps.Users, logger)
	regSvc := registrations.NewService(deps.Registrations, logger)
	prefSvc := preferences.NewService(deps.Categories, deps.SavedEvents, logger)

	venuesHandler := handlers.NewVenuesHandler(venueSvc, cfg.Environment)
	usersHandler := handlers.NewUsersHandler(userSvc, cfg.Environment)
	regHandler := handlers.NewRegistrationsHandler(regSvc, cfg.Environment)
	prefHandler := handlers.NewPreferencesHandler(prefSvc, cfg.Environment)
	health := handlers.NewHealthChecker(deps.Database, build.Version, build.GitCommit)

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", handlers.Healthz())
	mux.Handle("GET /readyz", health.Readyz())
	mux.Handle("GET /health", health.Health())
	mux.Handle("GET /version", VersionHandler(build.Version, build.GitCommit, build.BuildDate))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/v1/venues", venuesHandler.Create)
	mux.HandleFunc("GET /api/v1/venues", venuesHandler.List)
	mux.HandleFunc("GET /api/v1/venues/{venueId}", venuesHandler.Get)
	mux.HandleFunc("PUT /api/v1/venues/{venueId}", venuesHandler.Update)
	mux.HandleFunc("DELETE /api/v1/venues/{venueId}", venuesHandler.Delete)
	mux.HandleFunc("GET /api/v1/venues/owner/{ownerId}", venuesHandler.ListByOwner)
	mux.HandleFunc("GET /api/v1/venues/name/{name}", venuesHandler.ListByName)
	mux.HandleFunc("GET /api/v1/venues/location/{location}", venuesHandler.ListByLocation)
	mux.HandleFunc("GET /api/v1/venues/area/{area}", venuesHandler.ListByArea)
	mux.HandleFunc("GET /api/v1/venues/budget/{budget}", venuesHandler.ListByBudget)

	mux.HandleFunc("GET /api/v1/events/{eventId}/venue", venuesHandler.GetByEvent)
	mux.HandleFunc("GET /api/v1/events/{eventId}/participants", regHandler.ParticipantCount)

	mux.HandleFunc("POST /api/v1/users", usersHandler.Create)
	mux.HandleFunc("GET /api/v1/users", usersHandler.List)
	mux.HandleFunc("GET /api/v1/users/{userId}", usersHandler.Get)
	mux.HandleFunc("PUT /api/v1/users/{userId}", usersHandler.Update)
	mux.HandleFunc("DELETE /api/v1/users/{userId}", usersHandler.Delete)

	mux.HandleFunc("POST /api/v1/users/{userId}/registrations/{eventId}", regHandler.Register)
	mux.HandleFunc("DELETE /api/v1/users/{userId}/registrations/{eventId}", regHandler.Deregister)
	mux.HandleFunc("GET /api/v1/users/{userId}/registrations", regHandler.List)

	mux.HandleFunc("POST /api/v1/users/{userId}/saved-events/{eventId}", prefHandler.SaveEvent)
	mux.HandleFunc("DELETE /api/v1/users/{userId}/saved-events/{eventId}", prefHandler.UnsaveEvent)
	mux.HandleFunc("GET /api/v1/users/{userId}/saved-events", prefHandler.ListSavedEvents)

	mux.HandleFunc("POST /api/v1/users/{userId}/categories/{category}", prefHandler.AddCategory)
	mux.HandleFunc("DELETE /api/v1/users/{userId}/categories/{category}", prefHandler.DeleteCategory)
	mux.HandleFunc("GET /api/v1/users/{userId}/categories", prefHandler.ListCategories)

	// Order matters: Tracing and the inner layers share one *http.Request so
	// they can read the pattern the mux matched.
	var h http.Handler = mux
	h = middleware.RequestSize(cfg.Server.MaxBodyBytes)(h)
	h = middleware.RateLimit(cfg.RateLimit)(h)
	h = metrics.HTTPMiddleware(h)
	h = middleware.RequestLogging(logger)(h)
	h = middleware.Tracing(h)
	h = middleware.CorrelationID(logger)(h)
	return h
}
