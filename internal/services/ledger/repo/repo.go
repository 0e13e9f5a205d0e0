// Package repo provides the ledger repository implementation
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sikabook/internal/core/money"
	"sikabook/internal/modkit/repokit"
	pstrings "sikabook/internal/platform/strings"
	"sikabook/internal/services/ledger/domain"
)

type (
	sqlRepo struct{ q repokit.Queryer }
	binder  struct{}
)

// New constructs a repo binder; the SQL is portable across the Postgres and
// SQLite seams (positional $N args, affinity-friendly column types)
func New() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &sqlRepo{q: q} }

// Storage defines the ledger repository
type Storage interface {
	Insert(ctx context.Context, rec domain.TransactionRecord) error
	Recent(ctx context.Context, in domain.RecentInput, hardLimit int) ([]domain.TransactionRecord, error)
}

// schema statements run via EnsureSchema; timestamps are unix millis and
// booleans are 0/1 so both backends scan identically
var schema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		product_id TEXT,
		product_name TEXT NOT NULL,
		raw_product_text TEXT NOT NULL DEFAULT '',
		quantity BIGINT,
		unit TEXT,
		final_price_minor BIGINT NOT NULL,
		original_price_minor BIGINT NOT NULL,
		price_history TEXT NOT NULL DEFAULT '[]',
		confidence DOUBLE PRECISION NOT NULL,
		seller_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		customer_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		needs_review INTEGER NOT NULL,
		auto_logged INTEGER NOT NULL,
		snippet TEXT NOT NULL DEFAULT '',
		created_at_ms BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_conv
		ON transactions (conversation_id, created_at_ms)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_created
		ON transactions (created_at_ms)`,
}

// EnsureSchema creates the transactions table when missing
func EnsureSchema(ctx context.Context, db repokit.TxRunner) error {
	return db.Tx(ctx, func(q repokit.Queryer) error {
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ledger schema: %w", err)
			}
		}
		return nil
	})
}

// Insert implements Storage
func (s *sqlRepo) Insert(ctx context.Context, rec domain.TransactionRecord) error {
	hist, err := marshalHistory(rec.PriceHistory)
	if err != nil {
		return err
	}
	var productID any
	if rec.ProductID != nil {
		productID = *rec.ProductID
	}
	var quantity any
	if rec.Quantity != 0 {
		quantity = rec.Quantity
	}
	_, err = s.q.Exec(ctx, `
		INSERT INTO transactions
			(id, conversation_id, product_id, product_name, raw_product_text,
			quantity, unit, final_price_minor, original_price_minor, price_history,
			confidence, seller_confidence, customer_confidence,
			needs_review, auto_logged, snippet, created_at_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		rec.ID, rec.ConversationID, productID, rec.ProductName, rec.RawProductText,
		quantity, pstrings.SQLNull(rec.Unit), rec.FinalPrice.Minor(), rec.OriginalPrice.Minor(), hist,
		rec.Confidence, rec.SellerConfidence, rec.CustomerConfidence,
		boolInt(rec.NeedsReview), boolInt(rec.AutoLogged), rec.Snippet,
		rec.CreatedAt.UnixMilli(),
	)
	return err
}

// Recent implements Storage
func (s *sqlRepo) Recent(ctx context.Context, in domain.RecentInput, hardLimit int) ([]domain.TransactionRecord, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT id, conversation_id, product_id, product_name, raw_product_text,
			quantity, unit, final_price_minor, original_price_minor, price_history,
			confidence, seller_confidence, customer_confidence,
			needs_review, auto_logged, snippet, created_at_ms
		FROM transactions
		WHERE 1=1
	`)
	if in.ConversationID != "" {
		sb.WriteString("  AND conversation_id = " + arg(in.ConversationID) + "\n")
	}
	sb.WriteString("ORDER BY created_at_ms DESC, id DESC\nLIMIT " + arg(hardLimit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TransactionRecord, 0, hardLimit)
	for rows.Next() {
		var (
			rec        domain.TransactionRecord
			productID  *string
			quantity   *int64
			unit       *string
			finalM     int64
			originalM  int64
			hist       string
			needsRev   int64
			autoLogged int64
			createdMs  int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.ConversationID, &productID, &rec.ProductName, &rec.RawProductText,
			&quantity, &unit, &finalM, &originalM, &hist,
			&rec.Confidence, &rec.SellerConfidence, &rec.CustomerConfidence,
			&needsRev, &autoLogged, &rec.Snippet, &createdMs,
		); err != nil {
			return nil, err
		}
		rec.ProductID = productID
		if quantity != nil {
			rec.Quantity = *quantity
		}
		if unit != nil {
			rec.Unit = *unit
		}
		rec.FinalPrice = money.FromMinor(finalM)
		rec.OriginalPrice = money.FromMinor(originalM)
		rec.NeedsReview = needsRev != 0
		rec.AutoLogged = autoLogged != 0
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		if rec.PriceHistory, err = unmarshalHistory(hist); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func marshalHistory(xs []money.Amount) (string, error) {
	minor := make([]int64, len(xs))
	for i, a := range xs {
		minor[i] = a.Minor()
	}
	b, err := json.Marshal(minor)
	if err != nil {
		return "", fmt.Errorf("marshal price history: %w", err)
	}
	return string(b), nil
}

func unmarshalHistory(s string) ([]money.Amount, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var minor []int64
	if err := json.Unmarshal([]byte(s), &minor); err != nil {
		return nil, fmt.Errorf("unmarshal price history: %w", err)
	}
	out := make([]money.Amount, len(minor))
	for i, v := range minor {
		out[i] = money.FromMinor(v)
	}
	return out, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
