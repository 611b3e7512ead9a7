package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventsg/backend/internal/domain/users"
)

var (
	insertUser = NewCommand("user.insert", `
INSERT INTO users (user_id, email, display_name, created_at)
VALUES ($1, $2, $3, $4)`)

	updateUser = NewCommand("user.update", `
UPDATE users
   SET email = $2,
       display_name = $3
 WHERE user_id = $1`)

	deleteUser = NewCommand("user.delete", `DELETE FROM users WHERE user_id = $1`)

	selectUser = NewCommand("user.get", `
SELECT user_id, email, display_name, created_at
  FROM users
 WHERE user_id = $1`)

	selectUsers = NewCommand("user.list", `
SELECT user_id, email, display_name, created_at
  FROM users
 ORDER BY created_at, user_id`)
)

// UserRepository stores user profiles. The unique email index turns a taken
// address into domain.ErrConflict.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func scanUser(row RowScanner) (users.User, error) {
	var u users.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (r *UserRepository) Insert(ctx context.Context, u users.User) (int64, error) {
	return r.store.Execute(ctx, insertUser, u.ID, u.Email, u.DisplayName, u.CreatedAt)
}

// Update rewrites email and display name; created_at is kept.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, u users.User) (int64, error) {
	return r.store.Execute(ctx, updateUser, id, u.Email, u.DisplayName)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.store.Execute(ctx, deleteUser, id)
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (users.User, error) {
	return QueryOne(ctx, r.store, selectUser, scanUser, id)
}

func (r *UserRepository) List(ctx context.Context) ([]users.User, error) {
	return QueryMany(ctx, r.store, selectUsers, scanUser)
}
