package domain

import (
	"context"

	"sikabook/internal/core/money"
	"sikabook/internal/core/vocab"
)

// ReaderPort is the lock-free read surface over the in-memory snapshot
type ReaderPort interface {
	Snapshot() *vocab.Snapshot
	Lookup(name string) (vocab.Entry, bool)
	FuzzyMatch(name string, maxDist int, langs []string) []vocab.Match
	IsPriceInRange(name string, amount money.Amount) bool
}

// WriterPort serializes vocabulary mutations; one writer at a time
type WriterPort interface {
	Learn(ctx context.Context, in LearnInput) (vocab.Entry, error)
	RecordCorrection(ctx context.Context, in CorrectionInput) (vocab.Entry, error)
	BumpFrequency(ctx context.Context, entryID string) error
	Deactivate(ctx context.Context, entryID string) error
}
