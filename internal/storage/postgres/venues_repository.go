package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventsg/backend/internal/domain/venues"
	"github.com/eventsg/backend/internal/metrics"
)

const venueColumns = `v.venue_id, v.owner_id, v.address, v.postal_code, v.venue_name,
	v.description, v.rental_fee, v.area, v.image`

var (
	insertVenue = NewCommand("venue.insert", `
INSERT INTO venues (venue_id, owner_id, address, postal_code, venue_name, description, rental_fee, area, image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)

	updateVenue = NewCommand("venue.update", `
UPDATE venues
   SET owner_id = $2,
       address = $3,
       postal_code = $4,
       venue_name = $5,
       description = $6,
       rental_fee = $7,
       area = $8,
       updated_at = now()
 WHERE venue_id = $1`)

	deleteVenue = NewCommand("venue.delete", `DELETE FROM venues WHERE venue_id = $1`)

	selectVenue = NewCommand("venue.get", `
SELECT `+venueColumns+`
  FROM venues v
 WHERE v.venue_id = $1`)

	selectVenues = NewCommand("venue.list", `
SELECT `+venueColumns+`
  FROM venues v
 ORDER BY v.created_at, v.venue_id`)

	selectVenuesByOwner = NewCommand("venue.list_by_owner", `
SELECT `+venueColumns+`
  FROM venues v
 WHERE v.owner_id = $1
 ORDER BY v.created_at, v.venue_id`)

	// strpos keeps the match literal and case-sensitive; LIKE would treat
	// % and _ in user input as wildcards.
	selectVenuesByName = NewCommand("venue.list_by_name", `
SELECT `+venueColumns+`
  FROM venues v
 WHERE strpos(v.venue_name, $1) > 0
 ORDER BY v.created_at, v.venue_id`)

	selectVenuesByLocation = NewCommand("venue.list_by_location", `
SELECT `+venueColumns+`
  FROM venues v
 WHERE strpos(v.address, $1) > 0 OR v.postal_code = $1
 ORDER BY v.created_at, v.venue_id`)

	selectVenuesByArea = NewCommand("venue.list_by_area", `
SELECT `+venueColumns+`
  FROM venues v
 WHERE abs(v.area - $1) <= $2
 ORDER BY abs(v.area - $1), v.venue_id`)

	selectVenuesByBudget = NewCommand("venue.list_by_budget", `
SELECT `+venueColumns+`
  FROM venues v
 WHERE abs(v.rental_fee - $1) <= $2
 ORDER BY abs(v.rental_fee - $1), v.venue_id`)

	selectVenueByEvent = NewCommand("venue.get_by_event", `
SELECT `+venueColumns+`
  FROM events e
  JOIN venues v ON v.venue_id = e.venue_id
 WHERE e.event_id = $1`)
)

// VenueRepository implements venues.Repository over the venues table.
type VenueRepository struct {
	store *Store
}

// NewVenueRepository returns a repository that runs every statement through store.
func NewVenueRepository(store *Store) *VenueRepository {
	return &VenueRepository{store: store}
}

func scanVenue(row RowScanner) (venues.Venue, error) {
	var v venues.Venue
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Address,
		&v.PostalCode,
		&v.Name,
		&v.Description,
		&v.RentalFee,
		&v.Area,
		&v.Image,
	)
	return v, err
}

// Insert stores v as given, id and image included. A duplicate id is
// domain.ErrConflict.
func (r *VenueRepository) Insert(ctx context.Context, v venues.Venue) (int64, error) {
	return r.store.Execute(ctx, insertVenue,
		v.ID, v.OwnerID, v.Address, v.PostalCode, v.Name, v.Description, v.RentalFee, v.Area, v.Image)
}

// Update overwrites every column except image and created_at. It reports 0
// rows for an unknown id.
func (r *VenueRepository) Update(ctx context.Context, id uuid.UUID, v venues.Venue) (int64, error) {
	return r.store.Execute(ctx, updateVenue,
		id, v.OwnerID, v.Address, v.PostalCode, v.Name, v.Description, v.RentalFee, v.Area)
}

func (r *VenueRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.store.Execute(ctx, deleteVenue, id)
}

// Get returns domain.ErrNotFound for an unknown id.
func (r *VenueRepository) Get(ctx context.Context, id uuid.UUID) (venues.Venue, error) {
	return QueryOne(ctx, r.store, selectVenue, scanVenue, id)
}

func (r *VenueRepository) List(ctx context.Context) ([]venues.Venue, error) {
	return QueryMany(ctx, r.store, selectVenues, scanVenue)
}

func (r *VenueRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]venues.Venue, error) {
	return QueryMany(ctx, r.store, selectVenuesByOwner, scanVenue, ownerID)
}

// ListByName matches name as a literal, case-sensitive substring.
func (r *VenueRepository) ListByName(ctx context.Context, name string) ([]venues.Venue, error) {
	return QueryMany(ctx, r.store, selectVenuesByName, scanVenue, name)
}

// ListByLocation matches an address substring or an exact postal code.
func (r *VenueRepository) ListByLocation(ctx context.Context, location string) ([]venues.Venue, error) {
	return QueryMany(ctx, r.store, selectVenuesByLocation, scanVenue, location)
}

// ListByArea returns venues whose area lies within tolerance of target,
// inclusive, closest first.
func (r *VenueRepository) ListByArea(ctx context.Context, target, tolerance float64) ([]venues.Venue, error) {
	found, err := QueryMany(ctx, r.store, selectVenuesByArea, scanVenue, target, tolerance)
	if err == nil {
		metrics.VenueMatchResults.WithLabelValues("area").Observe(float64(len(found)))
	}
	return found, err
}

// ListByBudget is ListByArea over rental_fee.
func (r *VenueRepository) ListByBudget(ctx context.Context, target, tolerance float64) ([]venues.Venue, error) {
	found, err := QueryMany(ctx, r.store, selectVenuesByBudget, scanVenue, target, tolerance)
	if err == nil {
		metrics.VenueMatchResults.WithLabelValues("budget").Observe(float64(len(found)))
	}
	return found, err
}

// GetByEventID returns domain.ErrNotFound when the event is unknown or has
// no venue.
func (r *VenueRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (venues.Venue, error) {
	return QueryOne(ctx, r.store, selectVenueByEvent, scanVenue, eventID)
}
