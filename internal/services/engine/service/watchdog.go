package service

import (
	"context"
	"time"

	"sikabook/internal/core/session"
)

// RunWatchdog sweeps live conversations on the configured interval, expiring
// stale sessions and evicting actors that have gone quiet. Blocks until ctx
// is cancelled.
func (s *Service) RunWatchdog(ctx context.Context) {
	t := time.NewTicker(s.cfg.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single watchdog pass: one timeout check per live conversation,
// then eviction of quiescent actors
func (s *Service) Sweep(ctx context.Context) {
	now := s.clock.Now()
	for _, id := range s.Conversations() {
		res, err := s.CheckTimeout(ctx, id, now)
		if err != nil {
			s.log.Warn().Err(err).Str("conversation_id", id).Msg("timeout sweep failed")
			continue
		}
		if res != nil && res.Outcome == session.OutcomeTimedOut.String() {
			s.log.Info().Str("conversation_id", id).Msg("session expired by sweep")
		}
	}
	if n := s.evictQuiescent(); n > 0 {
		s.log.Debug().Int("evicted", n).Msg("quiescent actors evicted")
	}
}

// evictQuiescent removes actors with no in-progress session, no queued
// requests, and no caller holding a reference
func (s *Service) evictQuiescent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	n := 0
	for id, a := range s.actors {
		if a.pending == 0 && len(a.ch) == 0 && a.idle.Load() {
			delete(s.actors, id)
			close(a.ch)
			n++
		}
	}
	return n
}
