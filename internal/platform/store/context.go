package store

import "context"

type (
	conversationKey struct{}
	reqIDKey        struct{}
)

// WithConversation attaches a conversation id to the context so repo writes
// and trace lines can be tied back to the dialogue that caused them
func WithConversation(ctx context.Context, convID string) context.Context {
	return context.WithValue(ctx, conversationKey{}, convID)
}

// ConversationID retrieves a conversation id from context if present
func ConversationID(ctx context.Context) (string, bool) {
	s, _ := ctx.Value(conversationKey{}).(string)
	return s, s != ""
}

// WithRequestID attaches a request id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID retrieves a request id from context if present
func RequestID(ctx context.Context) (string, bool) {
	s, _ := ctx.Value(reqIDKey{}).(string)
	return s, s != ""
}
