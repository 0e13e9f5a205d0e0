// Package service runs the detection pipeline: one actor goroutine per
// conversation applies utterances to that conversation's session in arrival
// order, so state transitions never race
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"sikabook/internal/core/confidence"
	"sikabook/internal/core/extract"
	"sikabook/internal/core/intent"
	"sikabook/internal/core/langhint"
	"sikabook/internal/core/lexicon"
	"sikabook/internal/core/normalize"
	"sikabook/internal/core/session"
	"sikabook/internal/platform/clock"
	perr "sikabook/internal/platform/errors"
	"sikabook/internal/platform/logger"
	"sikabook/internal/platform/store"

	"sikabook/internal/services/engine/domain"
	ledgerdom "sikabook/internal/services/ledger/domain"
	vocabdom "sikabook/internal/services/vocabulary/domain"
)

// Config for the engine service
type Config struct {
	// IdleTimeout discards a session with no recognized activity; defaults
	// to the session package default
	IdleTimeout time.Duration
	// SweepInterval is the watchdog tick; defaults to 5s
	SweepInterval time.Duration
	// QueueDepth is the per-conversation mailbox size; defaults to 64
	QueueDepth int
}

func (c Config) withDefaults() Config {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = session.DefaultIdleTimeout
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 5 * time.Second
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = 64
	}
	return c
}

// Service implements domain.ProcessorPort
type Service struct {
	cfg    Config
	clock  clock.Clock
	log    *logger.Logger
	norm   *normalize.Normalizer
	class  *intent.Classifier
	ext    *extract.Extractor
	policy *confidence.Policy

	vocab  vocabdom.ReaderPort
	writer vocabdom.WriterPort // learning hook, may be nil
	ledger ledgerdom.WriterPort

	mu     sync.Mutex
	actors map[string]*actor
	closed bool
}

// New constructs the engine service
func New(
	pack *lexicon.Pack,
	vocabReader vocabdom.ReaderPort,
	vocabWriter vocabdom.WriterPort,
	ledger ledgerdom.WriterPort,
	clk clock.Clock,
	policy *confidence.Policy,
	log *logger.Logger,
	cfg Config,
) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if policy == nil {
		policy = confidence.DefaultPolicy()
	}
	return &Service{
		cfg:    cfg.withDefaults(),
		clock:  clk,
		log:    log,
		norm:   normalize.New(),
		class:  intent.New(pack),
		ext:    extract.New(pack),
		policy: policy,
		vocab:  vocabReader,
		writer: vocabWriter,
		ledger: ledger,
		actors: map[string]*actor{},
	}
}

type reqKind uint8

const (
	kindUtterance reqKind = iota
	kindTimeout
	kindReset
)

type request struct {
	kind  reqKind
	ctx   context.Context
	utt   domain.Utterance
	now   time.Time
	reply chan response
}

type response struct {
	res *domain.TransitionResult
	err error
}

type actor struct {
	id      string
	ch      chan request
	machine *session.Machine

	// pending counts callers holding a reference to this actor; guarded by
	// Service.mu. An actor is only evicted at zero with an empty mailbox
	pending int
	idle    atomic.Bool
}

// ProcessUtterance implements domain.ProcessorPort
func (s *Service) ProcessUtterance(ctx context.Context, u domain.Utterance) (domain.TransitionResult, error) {
	if u.ConversationID == "" {
		return domain.TransitionResult{}, perr.Newf(perr.ErrorCodeInvalidArgument, "conversation id required")
	}
	if u.Text == "" {
		return domain.TransitionResult{}, perr.Newf(perr.ErrorCodeInvalidArgument, "text required")
	}
	resp, err := s.send(ctx, u.ConversationID, request{kind: kindUtterance, utt: u})
	if err != nil {
		return domain.TransitionResult{}, err
	}
	return *resp, nil
}

// CheckTimeout implements domain.ProcessorPort
func (s *Service) CheckTimeout(ctx context.Context, conversationID string, now time.Time) (*domain.TransitionResult, error) {
	if conversationID == "" {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "conversation id required")
	}
	return s.send(ctx, conversationID, request{kind: kindTimeout, now: now})
}

// Reset implements domain.ProcessorPort
func (s *Service) Reset(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return perr.Newf(perr.ErrorCodeInvalidArgument, "conversation id required")
	}
	_, err := s.send(ctx, conversationID, request{kind: kindReset})
	return err
}

// Close stops accepting work and shuts actors down. Actors with an in-flight
// caller stay open until the last release so sends never hit a closed channel
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, a := range s.actors {
		if a.pending == 0 {
			close(a.ch)
			delete(s.actors, id)
		}
	}
}

// Conversations returns the ids with a live session actor
func (s *Service) Conversations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.actors))
	for id := range s.actors {
		out = append(out, id)
	}
	return out
}

func (s *Service) send(ctx context.Context, convID string, req request) (*domain.TransitionResult, error) {
	a, err := s.actorFor(convID)
	if err != nil {
		return nil, err
	}
	defer s.release(a)
	req.ctx = ctx
	req.reply = make(chan response, 1)
	select {
	case a.ch <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp.res, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) actorFor(convID string) (*actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "engine closed")
	}
	if a, ok := s.actors[convID]; ok {
		a.pending++
		return a, nil
	}
	a := &actor{
		id:      convID,
		ch:      make(chan request, s.cfg.QueueDepth),
		machine: session.NewMachine(s.cfg.IdleTimeout),
	}
	a.pending = 1
	a.idle.Store(true)
	s.actors[convID] = a
	go s.run(convID, a)
	return a, nil
}

func (s *Service) release(a *actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.pending--
	// the last caller of a shut-down service tears its actor down
	if s.closed && a.pending == 0 && s.actors[a.id] == a {
		close(a.ch)
		delete(s.actors, a.id)
	}
}

func (s *Service) run(convID string, a *actor) {
	for req := range a.ch {
		var resp response
		switch req.kind {
		case kindUtterance:
			resp = s.handleUtterance(req.ctx, convID, a.machine, req.utt)
		case kindTimeout:
			resp = s.handleTimeout(convID, a.machine, req.now)
		case kindReset:
			a.machine.Reset()
			resp = response{res: &domain.TransitionResult{
				ConversationID: convID,
				Outcome:        session.OutcomeCancelled.String(),
				State:          a.machine.State().String(),
				Reason:         "reset",
			}}
		}
		a.idle.Store(a.machine.State() == session.Idle)
		req.reply <- resp
	}
}

func (s *Service) handleUtterance(ctx context.Context, convID string, m *session.Machine, u domain.Utterance) response {
	now := u.At
	if now.IsZero() {
		now = s.clock.Now()
	}

	// a stale session times out before the new utterance applies
	if res, fired := m.CheckTimeout(now); fired {
		s.log.Debug().Str("conversation_id", convID).Str("reason", res.Reason).Msg("session timed out")
	}

	normText := s.norm.Normalize(u.Text)
	langs := langhint.Hints(normText, u.STTLanguages)
	match := s.class.Classify(normText)

	ev := session.Event{
		Intent:            match.Intent,
		Strength:          match.Strength,
		Speaker:           session.ParseSpeaker(u.Speaker),
		SpeakerConfidence: u.SpeakerConfidence,
		Snippet:           u.Text,
		At:                now,
	}

	snap := s.vocab.Snapshot()
	if pm, ok := s.ext.Product(normText, snap, langs); ok {
		ev.Product = &session.ProductObservation{
			Entry:      &pm.Entry,
			RawText:    pm.MatchedText,
			Confidence: pm.Confidence,
		}
	} else if raw := s.ext.ProductCandidate(normText); raw != "" && match.Intent == intent.ProductMention {
		// unmatched mention kept for the learning path
		ev.Product = &session.ProductObservation{RawText: raw, Confidence: 0.5}
	}
	if qr, ok := s.ext.Quantity(normText, match.Intent); ok {
		ev.Quantity = &session.QuantityObservation{Count: qr.Count, Unit: qr.Unit}
	}
	if ar, ok := s.ext.Amount(normText, match.Intent); ok {
		ev.Amount = &session.AmountObservation{Amount: ar.Amount, Certainty: ar.Certainty}
	}

	res := m.Apply(ev)

	out := domain.TransitionResult{
		ConversationID: convID,
		Outcome:        res.Outcome.String(),
		State:          res.State.String(),
		Intent:         match.Intent.String(),
		Reason:         res.Reason,
	}
	if res.Outcome == session.OutcomeCompleted && res.Completion != nil {
		rec, err := s.finalize(ctx, convID, res.Completion)
		if err != nil {
			return response{err: err}
		}
		out.Record = rec
	}
	return response{res: &out}
}

func (s *Service) handleTimeout(convID string, m *session.Machine, now time.Time) response {
	if now.IsZero() {
		now = s.clock.Now()
	}
	res, fired := m.CheckTimeout(now)
	if !fired {
		return response{}
	}
	s.log.Info().Str("conversation_id", convID).Msg("idle session discarded")
	return response{res: &domain.TransitionResult{
		ConversationID: convID,
		Outcome:        res.Outcome.String(),
		State:          res.State.String(),
		Reason:         res.Reason,
	}}
}

// finalize scores the completion, writes the ledger record, and feeds the
// vocabulary learning hooks
func (s *Service) finalize(ctx context.Context, convID string, c *session.Completion) (*ledgerdom.TransactionRecord, error) {
	a := s.policy.Score(c)

	rec := ledgerdom.TransactionRecord{
		ConversationID:     convID,
		FinalPrice:         c.FinalPrice,
		OriginalPrice:      c.OriginalPrice,
		Confidence:         a.Confidence,
		SellerConfidence:   c.SellerConfidence,
		CustomerConfidence: c.CustomerConfidence,
		NeedsReview:        a.NeedsReview,
		AutoLogged:         a.AutoLog,
		Snippet:            c.Snippet,
		CreatedAt:          c.At,
	}
	for _, p := range c.PriceHistory {
		rec.PriceHistory = append(rec.PriceHistory, p.Amount)
	}
	if c.Quantity != nil {
		rec.Quantity = c.Quantity.Count
		rec.Unit = c.Quantity.Unit
	}
	if c.Product != nil {
		rec.RawProductText = c.Product.RawText
		if c.Product.Entry != nil {
			id := c.Product.Entry.ID
			rec.ProductID = &id
			rec.ProductName = c.Product.Entry.CanonicalName
		} else {
			rec.ProductName = c.Product.RawText
		}
	}

	stored, err := s.ledger.Write(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.learnFrom(ctx, convID, a, c)

	s.log.Info().
		Str("conversation_id", convID).
		Str("record_id", stored.ID).
		Str("product", stored.ProductName).
		Float64("confidence", stored.Confidence).
		Bool("needs_review", stored.NeedsReview).
		Msg("transaction recorded")
	return &stored, nil
}

// learnFrom applies the vocabulary side effects of a completion; failures are
// logged, never surfaced, since the record is already written
func (s *Service) learnFrom(ctx context.Context, convID string, a confidence.Assessment, c *session.Completion) {
	if s.writer == nil {
		return
	}
	ctx = store.WithConversation(ctx, convID)
	if a.LearnProduct {
		if _, err := s.writer.Learn(ctx, vocabdom.LearnInput{
			RawName:  a.RawName,
			Observed: c.FinalPrice,
		}); err != nil {
			s.log.Warn().Err(err).Str("raw", a.RawName).Msg("vocabulary learn failed")
		}
		return
	}
	if c.Product != nil && c.Product.Entry != nil {
		if err := s.writer.BumpFrequency(ctx, c.Product.Entry.ID); err != nil {
			s.log.Warn().Err(err).Str("entry", c.Product.Entry.ID).Msg("frequency bump failed")
		}
	}
}
