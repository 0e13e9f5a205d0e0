package domain

import "context"

// WriterPort appends transaction records; the ledger is append-only
type WriterPort interface {
	Write(ctx context.Context, rec TransactionRecord) (TransactionRecord, error)
}

// ReaderPort reads back recent records
type ReaderPort interface {
	// Recent returns records newest first
	Recent(ctx context.Context, in RecentInput) ([]TransactionRecord, error)
}
