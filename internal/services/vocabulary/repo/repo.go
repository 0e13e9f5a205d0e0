// Package repo provides the vocabulary repository implementation
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sikabook/internal/core/money"
	"sikabook/internal/core/vocab"
	"sikabook/internal/modkit/repokit"
)

type (
	sqlRepo struct{ q repokit.Queryer }
	binder  struct{}
)

// New constructs a repo binder; the SQL is portable across the Postgres and
// SQLite seams
func New() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &sqlRepo{q: q} }

// Storage defines the vocabulary repository
type Storage interface {
	// LoadAll returns every entry, active or not
	LoadAll(ctx context.Context) ([]vocab.Entry, error)
	// Upsert writes an entry in full, keyed by id
	Upsert(ctx context.Context, e vocab.Entry, now time.Time) error
	// SeedIfAbsent inserts seed entries that do not exist yet, keyed by id
	SeedIfAbsent(ctx context.Context, entries []vocab.Entry, now time.Time) error
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vocabulary_entries (
		id TEXT PRIMARY KEY,
		canonical_name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		variants TEXT NOT NULL DEFAULT '[]',
		local_names TEXT NOT NULL DEFAULT '{}',
		min_price_minor BIGINT NOT NULL,
		max_price_minor BIGINT NOT NULL,
		units TEXT NOT NULL DEFAULT '[]',
		frequency BIGINT NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		learned INTEGER NOT NULL DEFAULT 0,
		learning_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at_ms BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vocab_canonical
		ON vocabulary_entries (canonical_name)`,
}

// EnsureSchema creates the vocabulary table when missing
func EnsureSchema(ctx context.Context, db repokit.TxRunner) error {
	return db.Tx(ctx, func(q repokit.Queryer) error {
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("vocabulary schema: %w", err)
			}
		}
		return nil
	})
}

// LoadAll implements Storage
func (s *sqlRepo) LoadAll(ctx context.Context) ([]vocab.Entry, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, canonical_name, category, variants, local_names,
			min_price_minor, max_price_minor, units, frequency,
			active, learned, learning_confidence
		FROM vocabulary_entries
		ORDER BY canonical_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []vocab.Entry
	for rows.Next() {
		var (
			e          vocab.Entry
			variants   string
			localNames string
			units      string
			minM       int64
			maxM       int64
			active     int64
			learned    int64
		)
		if err := rows.Scan(
			&e.ID, &e.CanonicalName, &e.Category, &variants, &localNames,
			&minM, &maxM, &units, &e.Frequency,
			&active, &learned, &e.LearningConfidence,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(variants), &e.Variants); err != nil {
			return nil, fmt.Errorf("entry %s variants: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(localNames), &e.LocalNames); err != nil {
			return nil, fmt.Errorf("entry %s local names: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(units), &e.Units); err != nil {
			return nil, fmt.Errorf("entry %s units: %w", e.ID, err)
		}
		e.MinPrice = money.FromMinor(minM)
		e.MaxPrice = money.FromMinor(maxM)
		e.Active = active != 0
		e.Learned = learned != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// Upsert implements Storage
func (s *sqlRepo) Upsert(ctx context.Context, e vocab.Entry, now time.Time) error {
	args, err := entryArgs(e, now)
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO vocabulary_entries
			(id, canonical_name, category, variants, local_names,
			min_price_minor, max_price_minor, units, frequency,
			active, learned, learning_confidence, updated_at_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			canonical_name = excluded.canonical_name,
			category = excluded.category,
			variants = excluded.variants,
			local_names = excluded.local_names,
			min_price_minor = excluded.min_price_minor,
			max_price_minor = excluded.max_price_minor,
			units = excluded.units,
			frequency = excluded.frequency,
			active = excluded.active,
			learned = excluded.learned,
			learning_confidence = excluded.learning_confidence,
			updated_at_ms = excluded.updated_at_ms`,
		args...)
	return err
}

// SeedIfAbsent implements Storage
func (s *sqlRepo) SeedIfAbsent(ctx context.Context, entries []vocab.Entry, now time.Time) error {
	for _, e := range entries {
		args, err := entryArgs(e, now)
		if err != nil {
			return err
		}
		if _, err := s.q.Exec(ctx, `
			INSERT INTO vocabulary_entries
				(id, canonical_name, category, variants, local_names,
				min_price_minor, max_price_minor, units, frequency,
				active, learned, learning_confidence, updated_at_ms)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			ON CONFLICT (id) DO NOTHING`,
			args...); err != nil {
			return err
		}
	}
	return nil
}

func entryArgs(e vocab.Entry, now time.Time) ([]any, error) {
	variants, err := jsonStr(e.Variants, "[]")
	if err != nil {
		return nil, fmt.Errorf("entry %s variants: %w", e.ID, err)
	}
	localNames, err := jsonStr(e.LocalNames, "{}")
	if err != nil {
		return nil, fmt.Errorf("entry %s local names: %w", e.ID, err)
	}
	units, err := jsonStr(e.Units, "[]")
	if err != nil {
		return nil, fmt.Errorf("entry %s units: %w", e.ID, err)
	}
	return []any{
		e.ID, e.CanonicalName, e.Category, variants, localNames,
		e.MinPrice.Minor(), e.MaxPrice.Minor(), units, e.Frequency,
		boolInt(e.Active), boolInt(e.Learned), e.LearningConfidence,
		now.UnixMilli(),
	}, nil
}

func jsonStr(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	s := string(b)
	if s == "null" {
		s = empty
	}
	return s, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
