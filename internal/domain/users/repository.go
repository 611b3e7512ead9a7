package users

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Repository persists user profiles. Insert, Update and Delete report
// affected rows; a taken email is domain.ErrConflict. Get returns
// domain.ErrNotFound when the id is unknown.
type Repository interface {
	Insert(ctx context.Context, user User) (int64, error)
	Update(ctx context.Context, id uuid.UUID, user User) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
}
