// Package domain defines the vocabulary service types and interfaces
package domain

import (
	"sikabook/internal/core/money"
)

// LearnInput describes a product heard with a price but absent from the
// vocabulary
type LearnInput struct {
	RawName  string
	Category string
	Observed money.Amount
}

// CorrectionInput records reviewer feedback: the spoken form maps to an
// existing entry
type CorrectionInput struct {
	// EntryID or CanonicalName identifies the target; id wins when both set
	EntryID       string
	CanonicalName string
	// SpokenForm is added as a variant
	SpokenForm string
}
