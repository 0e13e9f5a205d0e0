package domain

import (
	"context"
	"time"
)

// ProcessorPort is the engine's serialized ingest surface. Calls for the same
// conversation are applied in arrival order
type ProcessorPort interface {
	ProcessUtterance(ctx context.Context, u Utterance) (TransitionResult, error)

	// CheckTimeout fires the idle timeout if due; nil result when nothing
	// happened. Zero now means the engine clock
	CheckTimeout(ctx context.Context, conversationID string, now time.Time) (*TransitionResult, error)

	// Reset discards the conversation's session unconditionally
	Reset(ctx context.Context, conversationID string) error
}
