// Package domain defines the transaction ledger types and interfaces
package domain

import (
	"time"

	"sikabook/internal/core/money"
)

// TransactionRecord is one completed (or review-flagged) sale
type TransactionRecord struct {
	ID             string // uuid
	ConversationID string

	// ProductID is nil when the product never resolved against the vocabulary
	ProductID      *string
	ProductName    string
	RawProductText string

	// Quantity zero and Unit empty mean no quantity was spoken; both persist as NULL
	Quantity int64
	Unit     string

	FinalPrice    money.Amount
	OriginalPrice money.Amount
	PriceHistory  []money.Amount

	Confidence         float64
	SellerConfidence   float64
	CustomerConfidence float64
	NeedsReview        bool
	AutoLogged         bool

	// Snippet is the tail of the conversation transcript that produced the record
	Snippet string

	CreatedAt time.Time
}

// RecentInput filters the recent-records read
type RecentInput struct {
	ConversationID string // empty = all conversations
	Limit          int    // hard-capped in service
}
