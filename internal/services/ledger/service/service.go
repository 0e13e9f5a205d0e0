// Package service provides the ledger service implementation
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	perr "sikabook/internal/platform/errors"

	"sikabook/internal/modkit/repokit"
	"sikabook/internal/services/ledger/domain"
	"sikabook/internal/services/ledger/repo"
)

// Config for the ledger service
type Config struct {
	// HardLimit caps Recent reads; defaults to 100 if <=0
	HardLimit int
}

// Service implements domain.WriterPort and domain.ReaderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
}

// New constructs a new ledger service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	return &Service{DB: db, Binder: b, Cfg: cfg}
}

// Write implements domain.WriterPort. Missing id and timestamp are filled in;
// the stored record is returned
func (s *Service) Write(ctx context.Context, rec domain.TransactionRecord) (domain.TransactionRecord, error) {
	if rec.ConversationID == "" {
		return domain.TransactionRecord{}, perr.Newf(perr.ErrorCodeInvalidArgument, "conversation id required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Insert(ctx, rec)
	})
	if err != nil {
		return domain.TransactionRecord{}, err
	}
	return rec, nil
}

// Recent implements domain.ReaderPort
func (s *Service) Recent(ctx context.Context, in domain.RecentInput) ([]domain.TransactionRecord, error) {
	limit := in.Limit
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	var out []domain.TransactionRecord
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).Recent(ctx, in, limit)
		return err
	})
	return out, err
}
