// Package domain defines the detection engine types and interfaces
package domain

import (
	"time"

	ledgerdom "sikabook/internal/services/ledger/domain"
)

// Utterance is one speaker-attributed line of a conversation
type Utterance struct {
	ConversationID    string
	Text              string
	Speaker           string // seller | customer | unknown
	SpeakerConfidence float64
	STTLanguages      []string // language hints from the transcriber, best first
	At                time.Time
}

// TransitionResult describes what one utterance (or a timeout sweep) did to
// the conversation's session
type TransitionResult struct {
	ConversationID string
	Outcome        string // unrecognized | transition | completed | cancelled | timed_out
	State          string
	Intent         string
	Reason         string

	// Record is set only when Outcome is completed
	Record *ledgerdom.TransactionRecord
}
