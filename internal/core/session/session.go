// Package session holds the per-conversation transaction state machine. A
// Machine is a sequential reducer over classified, entity-bearing events; it
// is not safe for concurrent use and must be driven by exactly one goroutine
package session

import (
	"time"

	"sikabook/internal/core/intent"
	"sikabook/internal/core/money"
	"sikabook/internal/core/vocab"
)

// DefaultIdleTimeout discards a session after this much inactivity
const DefaultIdleTimeout = 120 * time.Second

// State is the conversation's transaction progress
type State uint8

const (
	Idle State = iota
	ProductDetected
	QuantityDetected
	PriceNegotiation
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ProductDetected:
		return "product_detected"
	case QuantityDetected:
		return "quantity_detected"
	case PriceNegotiation:
		return "price_negotiation"
	case Complete:
		return "transaction_complete"
	}
	return "unknown"
}

// Speaker is who produced an utterance, as attributed upstream
type Speaker uint8

const (
	SpeakerUnknown Speaker = iota
	SpeakerSeller
	SpeakerCustomer
)

func (sp Speaker) String() string {
	switch sp {
	case SpeakerSeller:
		return "seller"
	case SpeakerCustomer:
		return "customer"
	}
	return "unknown"
}

// ParseSpeaker maps a wire role to a Speaker; anything unrecognized is unknown
func ParseSpeaker(s string) Speaker {
	switch s {
	case "seller", "SELLER":
		return SpeakerSeller
	case "customer", "CUSTOMER":
		return SpeakerCustomer
	}
	return SpeakerUnknown
}

// ProductObservation is a product reference carried by one event. Entry is
// nil when the vocabulary had no match; RawText then names what was heard
type ProductObservation struct {
	Entry      *vocab.Entry
	RawText    string
	Confidence float64
}

// QuantityObservation is an extracted count and unit
type QuantityObservation struct {
	Count int64
	Unit  string
}

// AmountObservation is an extracted monetary amount with parse certainty
type AmountObservation struct {
	Amount    money.Amount
	Certainty float64
}

// Event is one classified utterance with its extracted entities
type Event struct {
	Intent            intent.Intent
	Strength          float64
	Product           *ProductObservation
	Quantity          *QuantityObservation
	Amount            *AmountObservation
	Speaker           Speaker
	SpeakerConfidence float64
	Snippet           string
	At                time.Time
}

// PricePoint is one quoted amount in the negotiation
type PricePoint struct {
	Amount money.Amount
	Intent intent.Intent
	At     time.Time
}

// Outcome says what an Apply or CheckTimeout call did
type Outcome uint8

const (
	OutcomeUnrecognized Outcome = iota
	OutcomeTransition
	OutcomeCompleted
	OutcomeCancelled
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTransition:
		return "transition"
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeTimedOut:
		return "timed_out"
	}
	return "unrecognized"
}

// Completion is the record candidate assembled when a session finishes. The
// confidence policy scores it before a TransactionRecord is emitted
type Completion struct {
	Product         *ProductObservation
	Quantity        *QuantityObservation
	FinalPrice      money.Amount
	OriginalPrice   money.Amount
	PriceHistory    []PricePoint
	AmountCertainty float64

	IntentStrength     float64 // mean pattern strength across recognized events
	SellerConfidence   float64 // mean speaker confidence, 0 when never heard
	CustomerConfidence float64

	Snippet string
	At      time.Time
}

// Result reports the state after an event and, on completion, the candidate
type Result struct {
	Outcome    Outcome
	State      State
	Reason     string
	Completion *Completion
}

// confSum accumulates a running mean
type confSum struct {
	sum float64
	n   int
}

func (c *confSum) add(v float64) { c.sum += v; c.n++ }

func (c *confSum) mean() float64 {
	if c.n == 0 {
		return 0
	}
	return c.sum / float64(c.n)
}
