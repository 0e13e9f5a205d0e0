// Command sikabook-replay feeds a JSONL transcript through the detection
// engine and prints each transition, useful for tuning the lexicon against
// recorded conversations
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"sikabook/internal/core/lexicon"
	"sikabook/internal/platform/logger"
	"sikabook/internal/platform/store"

	enginedom "sikabook/internal/services/engine/domain"
	enginesvc "sikabook/internal/services/engine/service"
	ledgerdom "sikabook/internal/services/ledger/domain"
	ledgerrepo "sikabook/internal/services/ledger/repo"
	ledgersvc "sikabook/internal/services/ledger/service"
	vocabrepo "sikabook/internal/services/vocabulary/repo"
	vocabsvc "sikabook/internal/services/vocabulary/service"
)

// line is one transcript utterance
type line struct {
	ConversationID    string    `json:"conversation_id"`
	Text              string    `json:"text"`
	Speaker           string    `json:"speaker"`
	SpeakerConfidence float64   `json:"speaker_confidence"`
	STTLanguages      []string  `json:"stt_languages"`
	At                time.Time `json:"at"`
}

func main() {
	var (
		transcript = flag.String("transcript", "", "path to a JSONL transcript (required)")
		dbPath     = flag.String("db", ":memory:", "sqlite path for the ledger and vocabulary")
		conv       = flag.String("conversation", "replay", "conversation id for lines that carry none")
	)
	flag.Parse()

	l := logger.Get()
	if *transcript == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*transcript)
	if err != nil {
		l.Panic().Err(err).Msg("open transcript failed")
	}
	defer func() { _ = f.Close() }()

	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{
		AppName: "sikabook",
		Lite:    store.LiteConfig{Enabled: true, Path: *dbPath},
	})
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() { _ = st.Close(context.Background()) }()

	if err := ledgerrepo.EnsureSchema(ctx, st.Primary()); err != nil {
		l.Panic().Err(err).Msg("ledger schema failed")
	}
	if err := vocabrepo.EnsureSchema(ctx, st.Primary()); err != nil {
		l.Panic().Err(err).Msg("vocabulary schema failed")
	}

	pack, err := lexicon.Load()
	if err != nil {
		l.Panic().Err(err).Msg("lexicon load failed")
	}

	vs := vocabsvc.New(st.Primary(), vocabrepo.New(), logger.Named("vocabulary"))
	if err := vs.Hydrate(ctx, pack); err != nil {
		l.Panic().Err(err).Msg("vocabulary hydrate failed")
	}
	ls := ledgersvc.New(st.Primary(), ledgerrepo.New(), ledgersvc.Config{})

	eng := enginesvc.New(pack, vs, vs, ls, nil, nil, logger.Named("engine"), enginesvc.Config{})
	defer eng.Close()

	enc := json.NewEncoder(os.Stdout)
	completed := 0

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var in line
		if err := json.Unmarshal(raw, &in); err != nil {
			l.Error().Err(err).Int("line", n).Msg("bad transcript line")
			continue
		}
		if in.ConversationID == "" {
			in.ConversationID = *conv
		}
		res, err := eng.ProcessUtterance(ctx, enginedom.Utterance{
			ConversationID:    in.ConversationID,
			Text:              in.Text,
			Speaker:           in.Speaker,
			SpeakerConfidence: in.SpeakerConfidence,
			STTLanguages:      in.STTLanguages,
			At:                in.At,
		})
		if err != nil {
			l.Error().Err(err).Int("line", n).Msg("process failed")
			continue
		}
		if res.Record != nil {
			completed++
		}
		_ = enc.Encode(res)
	}
	if err := sc.Err(); err != nil {
		l.Panic().Err(err).Msg("read transcript failed")
	}

	recs, err := ls.Recent(ctx, ledgerdom.RecentInput{})
	if err != nil {
		l.Panic().Err(err).Msg("read ledger failed")
	}
	fmt.Fprintf(os.Stderr, "replay done: %d transactions detected, %d in ledger\n", completed, len(recs))
}
