package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/metrics"
)

// RelationTable names a two-column set relation. The pair of columns must be
// the table's primary key.
type RelationTable struct {
	Name        string
	LeftColumn  string
	RightColumn string
}

var (
	RegisteredEventsTable     = RelationTable{Name: "user_registered_event", LeftColumn: "user_id", RightColumn: "event_id"}
	SavedEventsTable          = RelationTable{Name: "user_saved_event", LeftColumn: "user_id", RightColumn: "event_id"}
	InterestedCategoriesTable = RelationTable{Name: "user_interested_category", LeftColumn: "user_id", RightColumn: "category"}
)

// RelationRepository stores pairs of one RelationTable.
type RelationRepository[L comparable, R comparable] struct {
	store     *Store
	table     RelationTable
	scanRight RowMapper[R]

	add    Command
	remove Command
	list   Command
	count  Command
}

func NewRelationRepository[L comparable, R comparable](store *Store, table RelationTable, scanRight RowMapper[R]) *RelationRepository[L, R] {
	name := pgx.Identifier{table.Name}.Sanitize()
	left := pgx.Identifier{table.LeftColumn}.Sanitize()
	right := pgx.Identifier{table.RightColumn}.Sanitize()

	return &RelationRepository[L, R]{
		store:     store,
		table:     table,
		scanRight: scanRight,
		add: NewCommand(table.Name+".insert", fmt.Sprintf(
			`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, name, left, right)),
		remove: NewCommand(table.Name+".delete", fmt.Sprintf(
			`DELETE FROM %s WHERE %s = $1 AND %s = $2`, name, left, right)),
		list: NewCommand(table.Name+".list", fmt.Sprintf(
			`SELECT %s FROM %s WHERE %s = $1 ORDER BY created_at, %s`, right, name, left, right)),
		count: NewCommand(table.Name+".count", fmt.Sprintf(
			`SELECT COUNT(DISTINCT %s) FROM %s WHERE %s = $1`, left, name, right)),
	}
}

// Add inserts the pair. The insert and the existence check are one
// statement; zero affected rows means the pair was already present.
func (r *RelationRepository[L, R]) Add(ctx context.Context, left L, right R) (int64, error) {
	affected, err := r.store.Execute(ctx, r.add, left, right)
	switch {
	case err != nil:
		r.record("add", "error")
		return 0, err
	case affected == 0:
		r.record("add", "conflict")
		return 0, fmt.Errorf("%s: %w", r.add.Name, domain.ErrConflict)
	}
	r.record("add", "ok")
	return affected, nil
}

func (r *RelationRepository[L, R]) Remove(ctx context.Context, left L, right R) (int64, error) {
	affected, err := r.store.Execute(ctx, r.remove, left, right)
	switch {
	case err != nil:
		r.record("remove", "error")
		return 0, err
	case affected == 0:
		r.record("remove", "noop")
	default:
		r.record("remove", "ok")
	}
	return affected, nil
}

func (r *RelationRepository[L, R]) List(ctx context.Context, left L) ([]R, error) {
	return QueryMany(ctx, r.store, r.list, r.scanRight, left)
}

func (r *RelationRepository[L, R]) Count(ctx context.Context, right R) (int64, error) {
	return QueryOne(ctx, r.store, r.count, scanInt64, right)
}

func (r *RelationRepository[L, R]) record(operation, outcome string) {
	metrics.RelationMutations.WithLabelValues(r.table.Name, operation, outcome).Inc()
}

func scanUUID(row RowScanner) (uuid.UUID, error) {
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

func scanString(row RowScanner) (string, error) {
	var s string
	err := row.Scan(&s)
	return s, err
}

func scanInt64(row RowScanner) (int64, error) {
	var n int64
	err := row.Scan(&n)
	return n, err
}
