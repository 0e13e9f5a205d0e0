// Package store provides a unified interface to the storage backends.
// The engine runs in two shapes: server-side against postgres and on-device
// against an embedded sqlite file; both sit behind the same TxRunner seam so
// repos never know which one they talk to
package store

import (
	"context"
	"errors"
	"fmt"

	"sikabook/internal/platform/logger"
)

// Store is the facade over the configured backends.
// Seams not enabled in config stay nil
type Store struct {
	Log logger.Logger

	// PG is the postgres seam, nil when disabled
	PG TxRunner

	// Lite is the embedded sqlite seam, nil when disabled
	Lite TxRunner
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag inspects write results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Primary returns the enabled seam, preferring postgres when both are up
func (s *Store) Primary() TxRunner {
	if s.PG != nil {
		return s.PG
	}
	return s.Lite
}

// Open constructs a Store with the backends cfg enables
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Logger()

	if cfg.PG.Enabled {
		runner, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = runner
	}
	if cfg.Lite.Enabled {
		runner, err := openLite(cfg)
		if err != nil {
			return nil, err
		}
		s.Lite = runner
	}
	if s.PG == nil && s.Lite == nil {
		return nil, errors.New("store: no backend enabled")
	}
	return s, nil
}

// Guard verifies every configured seam answers a ping
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for name, seam := range map[string]TxRunner{"pg": s.PG, "lite": s.Lite} {
		if seam == nil {
			continue
		}
		if p, ok := any(seam).(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes all initialized backends; nil seams are ignored
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for _, seam := range []TxRunner{s.PG, s.Lite} {
		if c, ok := seam.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
