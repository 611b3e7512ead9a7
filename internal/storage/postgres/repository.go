package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository hands out the table repositories. Inside WithTx every
// repository shares the transaction.
type Repository struct {
	pool  *pgxpool.Pool
	tx    pgx.Tx
	store *Store
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool cannot be nil")
	}
	return &Repository{pool: pool, store: NewStore(pool)}, nil
}

func (r *Repository) Store() *Store {
	return r.store
}

func (r *Repository) Venues() *VenueRepository {
	return NewVenueRepository(r.store)
}

func (r *Repository) Users() *UserRepository {
	return NewUserRepository(r.store)
}

func (r *Repository) Registrations() *RelationRepository[uuid.UUID, uuid.UUID] {
	return NewRelationRepository[uuid.UUID](r.store, RegisteredEventsTable, scanUUID)
}

func (r *Repository) SavedEvents() *RelationRepository[uuid.UUID, uuid.UUID] {
	return NewRelationRepository[uuid.UUID](r.store, SavedEventsTable, scanUUID)
}

func (r *Repository) InterestedCategories() *RelationRepository[uuid.UUID, string] {
	return NewRelationRepository[uuid.UUID](r.store, InterestedCategoriesTable, scanString)
}

var selectSchemaVersion = NewCommand("schema.version",
	`SELECT version, dirty FROM schema_migrations LIMIT 1`)

// SchemaVersion reports the migration version recorded by golang-migrate.
// It returns domain.ErrNotFound when no migration has run.
func (r *Repository) SchemaVersion(ctx context.Context) (version int64, dirty bool, err error) {
	type state struct {
		version int64
		dirty   bool
	}
	s, err := QueryOne(ctx, r.store, selectSchemaVersion, func(row RowScanner) (state, error) {
		var st state
		err := row.Scan(&st.version, &st.dirty)
		return st, err
	})
	if err != nil {
		return 0, false, err
	}
	return s.version, s.dirty, nil
}

// PoolStats returns pool counters for the health report.
func (r *Repository) PoolStats() map[string]any {
	stats := r.pool.Stat()
	return map[string]any{
		"max_connections":      stats.MaxConns(),
		"total_connections":    stats.TotalConns(),
		"idle_connections":     stats.IdleConns(),
		"acquired_connections": stats.AcquiredConns(),
	}
}

// Ping checks that the pool can reach the database.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return translateError("ping", err)
	}
	return nil
}

// WithTx runs fn against a Repository bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise. Nested
// calls reuse the outer transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, *Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translateError("begin transaction", err)
	}

	txRepo := &Repository{pool: r.pool, tx: tx, store: NewStore(tx)}
	if err := fn(ctx, txRepo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback after error %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return translateError("commit transaction", err)
	}
	return nil
}
