// Package relations implements a set-valued relation between two keys, such
// as a user and the events they registered for. Each pair is stored at most
// once; adding an existing pair fails with domain.ErrConflict.
package relations

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Repository persists pairs. Add must report domain.ErrConflict when the
// pair already exists and must perform the check and the insert atomically.
// Remove reports affected rows and never fails on absent pairs.
type Repository[L comparable, R comparable] interface {
	Add(ctx context.Context, left L, right R) (int64, error)
	Remove(ctx context.Context, left L, right R) (int64, error)
	List(ctx context.Context, left L) ([]R, error)
	Count(ctx context.Context, right R) (int64, error)
}

// Validator rejects malformed keys before they reach the store.
type Validator[K any] func(K) error

type Ledger[L comparable, R comparable] struct {
	name          string
	repo          Repository[L, R]
	validateLeft  Validator[L]
	validateRight Validator[R]
	logger        zerolog.Logger
}

func NewLedger[L comparable, R comparable](
	name string,
	repo Repository[L, R],
	validateLeft Validator[L],
	validateRight Validator[R],
	logger zerolog.Logger,
) *Ledger[L, R] {
	if validateLeft == nil {
		validateLeft = func(L) error { return nil }
	}
	if validateRight == nil {
		validateRight = func(R) error { return nil }
	}
	return &Ledger[L, R]{
		name:          name,
		repo:          repo,
		validateLeft:  validateLeft,
		validateRight: validateRight,
		logger:        logger.With().Str("relation", name).Logger(),
	}
}

func (l *Ledger[L, R]) Add(ctx context.Context, left L, right R) (int64, error) {
	if err := l.validate(left, right); err != nil {
		return 0, err
	}
	affected, err := l.repo.Add(ctx, left, right)
	if err != nil {
		return 0, fmt.Errorf("add %s: %w", l.name, err)
	}
	l.logger.Debug().Interface("left", left).Interface("right", right).Msg("relation added")
	return affected, nil
}

func (l *Ledger[L, R]) Remove(ctx context.Context, left L, right R) (int64, error) {
	if err := l.validate(left, right); err != nil {
		return 0, err
	}
	affected, err := l.repo.Remove(ctx, left, right)
	if err != nil {
		return 0, fmt.Errorf("remove %s: %w", l.name, err)
	}
	if affected > 0 {
		l.logger.Debug().Interface("left", left).Interface("right", right).Msg("relation removed")
	}
	return affected, nil
}

func (l *Ledger[L, R]) List(ctx context.Context, left L) ([]R, error) {
	if err := l.validateLeft(left); err != nil {
		return nil, err
	}
	items, err := l.repo.List(ctx, left)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.name, err)
	}
	return items, nil
}

// Count returns the number of distinct left keys paired with right.
func (l *Ledger[L, R]) Count(ctx context.Context, right R) (int64, error) {
	if err := l.validateRight(right); err != nil {
		return 0, err
	}
	n, err := l.repo.Count(ctx, right)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", l.name, err)
	}
	return n, nil
}

func (l *Ledger[L, R]) validate(left L, right R) error {
	if err := l.validateLeft(left); err != nil {
		return err
	}
	return l.validateRight(right)
}
