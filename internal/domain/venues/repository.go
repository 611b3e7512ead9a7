package venues

import (
	"context"
	"math"

	"github.com/google/uuid"
)

const (
	// DefaultAreaTolerance is the inclusive distance from the requested area
	// within which a venue matches.
	DefaultAreaTolerance = 10.0
	// DefaultBudgetTolerance is the inclusive distance from the requested
	// budget within which a venue's rental fee matches.
	DefaultBudgetTolerance = 50.0
)

type Venue struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Address     string
	PostalCode  string
	Name        string
	Description string
	RentalFee   float64
	Area        float64
	Image       string
}

type Tolerances struct {
	Area   float64
	Budget float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{Area: DefaultAreaTolerance, Budget: DefaultBudgetTolerance}
}

// Within reports whether value lies within tolerance of target, inclusive.
func Within(value, target, tolerance float64) bool {
	return math.Abs(value-target) <= tolerance
}

// Repository persists venues. Insert, Update and Delete report affected rows.
// Get and GetByEventID return domain.ErrNotFound when nothing matches.
type Repository interface {
	Insert(ctx context.Context, venue Venue) (int64, error)
	Update(ctx context.Context, id uuid.UUID, venue Venue) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (Venue, error)
	List(ctx context.Context) ([]Venue, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Venue, error)
	ListByLocation(ctx context.Context, location string) ([]Venue, error)
	ListByName(ctx context.Context, name string) ([]Venue, error)
	ListByArea(ctx context.Context, target, tolerance float64) ([]Venue, error)
	ListByBudget(ctx context.Context, target, tolerance float64) ([]Venue, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (Venue, error)
}

// ImageResolver supplies the image reference stored on newly created venues.
// The reference is persisted, so it must not expire.
type ImageResolver interface {
	DefaultVenueImage(ctx context.Context) (string, error)
}

// ImageLinker is implemented by resolvers whose stored references need a
// fresh, fetchable URL each time a venue is read.
type ImageLinker interface {
	ImageURL(ctx context.Context, ref string) (string, error)
}
