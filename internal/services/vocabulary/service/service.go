// Package service implements the vocabulary store: lock-free snapshot reads,
// serialized writes, persistence through the bound repo
package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"sikabook/internal/core/lexicon"
	"sikabook/internal/core/money"
	"sikabook/internal/core/vocab"
	perr "sikabook/internal/platform/errors"
	"sikabook/internal/platform/logger"

	"sikabook/internal/modkit/repokit"
	"sikabook/internal/services/vocabulary/domain"
	"sikabook/internal/services/vocabulary/repo"
)

// Service implements domain.ReaderPort and domain.WriterPort.
// Reads go through an atomically swapped snapshot and never block writes;
// writes take the mutex, persist, then swap a fresh snapshot
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]

	log *logger.Logger

	mu      sync.Mutex             // guards entries and snapshot swaps
	entries map[string]vocab.Entry // full set incl. inactive, by id
	snap    atomic.Pointer[vocab.Snapshot]
}

// New constructs the vocabulary service with an empty snapshot
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], log *logger.Logger) *Service {
	s := &Service{DB: db, Binder: b, log: log, entries: map[string]vocab.Entry{}}
	s.snap.Store(vocab.NewSnapshot(nil))
	return s
}

// Hydrate seeds the repo from the lexicon pack (first run only; existing rows
// win) and loads every entry into the in-memory snapshot
func (s *Service) Hydrate(ctx context.Context, pack *lexicon.Pack) error {
	seeds := make([]vocab.Entry, 0, len(pack.Products))
	for _, p := range pack.Products {
		// deterministic ids so reseeding never duplicates
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("sikabook/vocab/"+strings.ToLower(p.CanonicalName))).String()
		seeds = append(seeds, vocab.FromSeed(id, p))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var loaded []vocab.Entry
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		if err := st.SeedIfAbsent(ctx, seeds, time.Now().UTC()); err != nil {
			return err
		}
		var err error
		loaded, err = st.LoadAll(ctx)
		return err
	})
	if err != nil {
		return err
	}

	s.entries = make(map[string]vocab.Entry, len(loaded))
	for _, e := range loaded {
		s.entries[e.ID] = e
	}
	s.swapLocked()
	s.log.Info().Int("entries", len(loaded)).Msg("vocabulary hydrated")
	return nil
}

// Snapshot implements domain.ReaderPort
func (s *Service) Snapshot() *vocab.Snapshot { return s.snap.Load() }

// Lookup implements domain.ReaderPort
func (s *Service) Lookup(name string) (vocab.Entry, bool) {
	return s.snap.Load().Lookup(name)
}

// FuzzyMatch implements domain.ReaderPort
func (s *Service) FuzzyMatch(name string, maxDist int, langs []string) []vocab.Match {
	return s.snap.Load().FuzzyMatch(name, maxDist, langs)
}

// IsPriceInRange implements domain.ReaderPort; unknown names report true so an
// unlearned product never blocks a sale on price grounds
func (s *Service) IsPriceInRange(name string, amount money.Amount) bool {
	e, ok := s.snap.Load().Lookup(name)
	if !ok {
		return true
	}
	return e.InPriceRange(amount)
}

// Learn implements domain.WriterPort. A raw name that resolved to an existing
// entry while waiting on the lock is treated as a correction against that
// entry instead of a duplicate
func (s *Service) Learn(ctx context.Context, in domain.LearnInput) (vocab.Entry, error) {
	raw := strings.TrimSpace(in.RawName)
	if raw == "" {
		return vocab.Entry{}, perr.Newf(perr.ErrorCodeInvalidArgument, "product name required")
	}
	if in.Observed <= 0 {
		return vocab.Entry{}, perr.Newf(perr.ErrorCodeInvalidArgument, "observed price required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// duplicate check post-lock: a racing learn may have added it already
	if existing, ok := s.snap.Load().Lookup(raw); ok {
		updated := existing.WithVariant(raw)
		updated = (&updated).WithWidenedRange(in.Observed)
		if err := s.persistLocked(ctx, updated); err != nil {
			return vocab.Entry{}, err
		}
		s.log.Debug().Str("entry", existing.ID).Str("raw", raw).Msg("learn resolved to existing entry")
		return updated, nil
	}

	e := vocab.NewLearned(uuid.NewString(), raw, in.Category, in.Observed)
	if err := s.persistLocked(ctx, e); err != nil {
		return vocab.Entry{}, err
	}
	s.log.Info().Str("entry", e.ID).Str("name", e.CanonicalName).Msg("learned product")
	return e, nil
}

// RecordCorrection implements domain.WriterPort
func (s *Service) RecordCorrection(ctx context.Context, in domain.CorrectionInput) (vocab.Entry, error) {
	if strings.TrimSpace(in.SpokenForm) == "" {
		return vocab.Entry{}, perr.Newf(perr.ErrorCodeInvalidArgument, "spoken form required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.resolveLocked(in)
	if err != nil {
		return vocab.Entry{}, err
	}
	updated := target.WithVariant(in.SpokenForm)
	updated = (&updated).WithFrequencyBump()
	if err := s.persistLocked(ctx, updated); err != nil {
		return vocab.Entry{}, err
	}
	return updated, nil
}

// BumpFrequency implements domain.WriterPort
func (s *Service) BumpFrequency(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok {
		return perr.Newf(perr.ErrorCodeNotFound, "vocabulary entry %s", entryID)
	}
	return s.persistLocked(ctx, e.WithFrequencyBump())
}

// Deactivate implements domain.WriterPort; the row stays for audit, the
// snapshot drops it
func (s *Service) Deactivate(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok {
		return perr.Newf(perr.ErrorCodeNotFound, "vocabulary entry %s", entryID)
	}
	return s.persistLocked(ctx, e.Deactivated())
}

func (s *Service) resolveLocked(in domain.CorrectionInput) (vocab.Entry, error) {
	if in.EntryID != "" {
		if e, ok := s.entries[in.EntryID]; ok {
			return e, nil
		}
		return vocab.Entry{}, perr.Newf(perr.ErrorCodeNotFound, "vocabulary entry %s", in.EntryID)
	}
	if e, ok := s.snap.Load().Lookup(in.CanonicalName); ok {
		return e, nil
	}
	return vocab.Entry{}, perr.Newf(perr.ErrorCodeNotFound, "vocabulary entry %q", in.CanonicalName)
}

// persistLocked writes e through the repo then swaps the snapshot; caller
// holds the mutex
func (s *Service) persistLocked(ctx context.Context, e vocab.Entry) error {
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Upsert(ctx, e, time.Now().UTC())
	})
	if err != nil {
		return err
	}
	s.entries[e.ID] = e
	s.swapLocked()
	return nil
}

func (s *Service) swapLocked() {
	all := make([]vocab.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e)
	}
	s.snap.Store(vocab.NewSnapshot(all))
}
