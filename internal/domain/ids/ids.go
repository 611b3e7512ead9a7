package ids

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/eventsg/backend/internal/domain"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// New mints a time-ordered identifier. The 128 bits of a ULID are stored as
// a UUID so that ids sort by creation time inside uuid columns.
func New() (uuid.UUID, error) {
	entropyMu.Lock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	entropyMu.Unlock()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.UUID(id), nil
}

// Parse accepts a canonical UUID string. The field name is reported in the
// returned error.
func Parse(field, value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, domain.Invalid(field, "required")
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, domain.Invalid(field, "must be a UUID")
	}
	if id == uuid.Nil {
		return uuid.Nil, domain.Invalid(field, "must not be the nil UUID")
	}
	return id, nil
}

// Require rejects the nil UUID.
func Require(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.Invalid(field, "required")
	}
	return nil
}

// Timestamp returns the creation time encoded in an id minted by New.
func Timestamp(id uuid.UUID) time.Time {
	return ulid.Time(ulid.ULID(id).Time())
}
