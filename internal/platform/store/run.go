package store

import "context"

// RunInConversation wraps ctx with the conversation id and calls fn inside a
// transaction on the provided TxRunner
func RunInConversation(ctx context.Context, tx TxRunner, convID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithConversation(ctx, convID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
