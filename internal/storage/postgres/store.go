package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/metrics"
)

const tracerName = "github.com/eventsg/backend/internal/storage/postgres"

// Queryer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RowScanner is the read side shared by pgx.Row and pgx.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// RowMapper turns the current row into a value. Mappers must not retain the
// scanner.
type RowMapper[T any] func(RowScanner) (T, error)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// Command is a named, parameterized SQL statement. Build it with NewCommand;
// the zero value is unusable.
type Command struct {
	Name  string
	SQL   string
	arity int
}

// NewCommand counts the positional placeholders of sql once. It panics on an
// empty name or statement.
func NewCommand(name, sql string) Command {
	if name == "" || sql == "" {
		panic("postgres: command requires a name and a statement")
	}
	arity := 0
	for _, match := range placeholderPattern.FindAllStringSubmatch(sql, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			panic(fmt.Sprintf("postgres: command %s: bad placeholder %q", name, match[0]))
		}
		if n > arity {
			arity = n
		}
	}
	return Command{Name: name, SQL: sql, arity: arity}
}

// Arity is the number of arguments the command binds.
func (c Command) Arity() int {
	return c.arity
}

// mustBind panics when args do not match the placeholders. A mismatch is a
// programming error, never a runtime condition.
func (c Command) mustBind(args []any) {
	if c.Name == "" {
		panic("postgres: command was not built with NewCommand")
	}
	if len(args) != c.arity {
		panic(fmt.Sprintf("postgres: command %s expects %d arguments, got %d", c.Name, c.arity, len(args)))
	}
}

// Store runs commands against a Queryer, translating driver errors into the
// domain taxonomy and recording a span and query metrics per call.
type Store struct {
	q      Queryer
	tracer trace.Tracer
}

func NewStore(q Queryer) *Store {
	return &Store{q: q, tracer: otel.Tracer(tracerName)}
}

// Execute runs a command and returns the number of affected rows.
func (s *Store) Execute(ctx context.Context, cmd Command, args ...any) (affected int64, err error) {
	cmd.mustBind(args)
	ctx, finish := s.begin(ctx, cmd)
	defer func() { finish(err) }()

	tag, err := s.q.Exec(ctx, cmd.SQL, args...)
	if err != nil {
		return 0, translateError(cmd.Name, err)
	}
	return tag.RowsAffected(), nil
}

// QueryOne returns the first row mapped by mapper, or domain.ErrNotFound
// when the command yields no rows.
func QueryOne[T any](ctx context.Context, s *Store, cmd Command, mapper RowMapper[T], args ...any) (result T, err error) {
	cmd.mustBind(args)
	ctx, finish := s.begin(ctx, cmd)
	defer func() { finish(err) }()

	var zero T
	rows, err := s.q.Query(ctx, cmd.SQL, args...)
	if err != nil {
		return zero, translateError(cmd.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, translateError(cmd.Name, err)
		}
		return zero, fmt.Errorf("%s: %w", cmd.Name, domain.ErrNotFound)
	}
	result, err = mapper(rows)
	if err != nil {
		return zero, translateError(cmd.Name, err)
	}
	return result, nil
}

// QueryMany returns every row mapped by mapper. An empty result is a non-nil
// empty slice.
func QueryMany[T any](ctx context.Context, s *Store, cmd Command, mapper RowMapper[T], args ...any) (results []T, err error) {
	cmd.mustBind(args)
	ctx, finish := s.begin(ctx, cmd)
	defer func() { finish(err) }()

	rows, err := s.q.Query(ctx, cmd.SQL, args...)
	if err != nil {
		return nil, translateError(cmd.Name, err)
	}
	defer rows.Close()

	results = []T{}
	for rows.Next() {
		item, err := mapper(rows)
		if err != nil {
			return nil, translateError(cmd.Name, err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(cmd.Name, err)
	}
	return results, nil
}

func (s *Store) begin(ctx context.Context, cmd Command) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, cmd.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", cmd.Name),
		),
	)
	return ctx, func(err error) {
		metrics.RecordQuery(cmd.Name, start, err)
		if err != nil && metrics.ErrorType(err) != "invalid_argument" {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
