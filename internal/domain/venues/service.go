package venues

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/domain/ids"
)

type Service struct {
	repo       Repository
	images     ImageResolver
	tolerances Tolerances
	logger     zerolog.Logger
}

func NewService(repo Repository, images ImageResolver, tolerances Tolerances, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		images:     images,
		tolerances: tolerances,
		logger:     logger.With().Str("component", "venues").Logger(),
	}
}

func (s *Service) Tolerances() Tolerances {
	return s.tolerances
}

// ImageURL turns the stored image reference into a URL for clients. Without
// an ImageLinker the reference is already a URL and is returned as is.
func (s *Service) ImageURL(ctx context.Context, ref string) (string, error) {
	linker, ok := s.images.(ImageLinker)
	if !ok || ref == "" {
		return ref, nil
	}
	link, err := linker.ImageURL(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("link image %s: %w", ref, err)
	}
	return link, nil
}

// AddVenue stores a new venue under a freshly minted id and the default
// image. Any id or image on the input is ignored.
func (s *Service) AddVenue(ctx context.Context, venue Venue) (Venue, error) {
	if err := validateVenue(venue); err != nil {
		return Venue{}, err
	}

	id, err := ids.New()
	if err != nil {
		return Venue{}, fmt.Errorf("mint venue id: %w", err)
	}
	image, err := s.images.DefaultVenueImage(ctx)
	if err != nil {
		return Venue{}, fmt.Errorf("resolve default image: %w", err)
	}
	venue.ID = id
	venue.Image = image

	affected, err := s.repo.Insert(ctx, venue)
	if err != nil {
		return Venue{}, fmt.Errorf("add venue: %w", err)
	}
	if affected != 1 {
		return Venue{}, fmt.Errorf("add venue: expected 1 row, got %d", affected)
	}

	s.logger.Info().
		Str("venue_id", venue.ID.String()).
		Str("owner_id", venue.OwnerID.String()).
		Msg("venue added")
	return venue, nil
}

// DeleteVenueByID removes the venue. Deleting an absent venue returns 0.
func (s *Service) DeleteVenueByID(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := ids.Require("venueId", id); err != nil {
		return 0, err
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete venue: %w", err)
	}
	if affected > 0 {
		s.logger.Info().Str("venue_id", id.String()).Msg("venue deleted")
	}
	return affected, nil
}

// UpdateVenueByID replaces every mutable field of the venue identified by id.
// The id argument wins over any id carried in venue; the image is kept.
func (s *Service) UpdateVenueByID(ctx context.Context, id uuid.UUID, venue Venue) (int64, error) {
	if err := ids.Require("venueId", id); err != nil {
		return 0, err
	}
	if err := validateVenue(venue); err != nil {
		return 0, err
	}
	venue.ID = id

	affected, err := s.repo.Update(ctx, id, venue)
	if err != nil {
		return 0, fmt.Errorf("update venue: %w", err)
	}
	if affected > 0 {
		s.logger.Info().Str("venue_id", id.String()).Msg("venue updated")
	}
	return affected, nil
}

func (s *Service) GetVenueByID(ctx context.Context, id uuid.UUID) (Venue, error) {
	if err := ids.Require("venueId", id); err != nil {
		return Venue{}, err
	}
	venue, err := s.repo.Get(ctx, id)
	if err != nil {
		return Venue{}, fmt.Errorf("get venue %s: %w", id, err)
	}
	return venue, nil
}

func (s *Service) GetAllVenues(ctx context.Context) ([]Venue, error) {
	venues, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

func (s *Service) GetVenuesByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Venue, error) {
	if err := ids.Require("ownerId", ownerID); err != nil {
		return nil, err
	}
	venues, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list venues by owner: %w", err)
	}
	return venues, nil
}

// GetVenuesByName matches venues whose name contains name. Matching is
// case-sensitive and treats every character literally.
func (s *Service) GetVenuesByName(ctx context.Context, name string) ([]Venue, error) {
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	venues, err := s.repo.ListByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list venues by name: %w", err)
	}
	return venues, nil
}

// GetVenuesByLocation matches venues whose address contains location or
// whose postal code equals it.
func (s *Service) GetVenuesByLocation(ctx context.Context, location string) ([]Venue, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, domain.Invalid("location", "required")
	}
	venues, err := s.repo.ListByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("list venues by location: %w", err)
	}
	return venues, nil
}

func (s *Service) GetVenuesByArea(ctx context.Context, area float64) ([]Venue, error) {
	if err := validateTarget("area", area); err != nil {
		return nil, err
	}
	venues, err := s.repo.ListByArea(ctx, area, s.tolerances.Area)
	if err != nil {
		return nil, fmt.Errorf("list venues by area: %w", err)
	}
	return venues, nil
}

func (s *Service) GetVenuesByBudget(ctx context.Context, budget float64) ([]Venue, error) {
	if err := validateTarget("budget", budget); err != nil {
		return nil, err
	}
	venues, err := s.repo.ListByBudget(ctx, budget, s.tolerances.Budget)
	if err != nil {
		return nil, fmt.Errorf("list venues by budget: %w", err)
	}
	return venues, nil
}

// GetVenueByEventID returns the venue hosting the event. It fails with
// domain.ErrNotFound when the event is unknown or has no venue.
func (s *Service) GetVenueByEventID(ctx context.Context, eventID uuid.UUID) (Venue, error) {
	if err := ids.Require("eventId", eventID); err != nil {
		return Venue{}, err
	}
	venue, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return Venue{}, fmt.Errorf("get venue for event %s: %w", eventID, err)
	}
	return venue, nil
}

func validateVenue(v Venue) error {
	if err := ids.Require("ownerId", v.OwnerID); err != nil {
		return err
	}
	if invalidNumber(v.RentalFee) || v.RentalFee < 0 {
		return domain.Invalid("rentalFee", "must be a non-negative number")
	}
	if invalidNumber(v.Area) || v.Area <= 0 {
		return domain.Invalid("area", "must be a positive number")
	}
	return nil
}

func validateTarget(field string, value float64) error {
	if invalidNumber(value) || value < 0 {
		return domain.Invalid(field, "must be a non-negative number")
	}
	return nil
}

func invalidNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
