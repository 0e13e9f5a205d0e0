// Package http provides http transport for the detection engine
package http

import (
	stdhttp "net/http"
	"time"

	"sikabook/internal/modkit/httpkit"
	"sikabook/internal/services/engine/domain"
	ledgerhttp "sikabook/internal/services/ledger/http"
)

// Register mounts engine endpoints on the given router
func Register(r httpkit.Router, proc domain.ProcessorPort) {
	h := &handlers{proc: proc}

	httpkit.PostJSON(r, "/utterances", h.utterance)
	httpkit.PostJSON(r, "/reset", h.reset)
}

type handlers struct{ proc domain.ProcessorPort }

// UtteranceRequest is one transcribed utterance to feed into a conversation
type UtteranceRequest struct {
	ConversationID    string    `json:"conversation_id" validate:"required"`
	Text              string    `json:"text"            validate:"required,min=1"`
	Speaker           string    `json:"speaker"         validate:"omitempty,oneof=seller customer unknown"`
	SpeakerConfidence float64   `json:"speaker_confidence" validate:"omitempty,gte=0,lte=1"`
	STTLanguages      []string  `json:"stt_languages"`
	At                time.Time `json:"at"`
}

// ResetRequest discards any in-progress session for a conversation
type ResetRequest struct {
	ConversationID string `json:"conversation_id" validate:"required"`
}

// TransitionWire is the wire shape of a state transition outcome
type TransitionWire struct {
	ConversationID string                 `json:"conversation_id"`
	Outcome        string                 `json:"outcome"`
	State          string                 `json:"state"`
	Intent         string                 `json:"intent,omitempty"`
	Reason         string                 `json:"reason,omitempty"`
	Record         *ledgerhttp.RecordWire `json:"record,omitempty"`
}

func toWire(res domain.TransitionResult) TransitionWire {
	w := TransitionWire{
		ConversationID: res.ConversationID,
		Outcome:        res.Outcome,
		State:          res.State,
		Intent:         res.Intent,
		Reason:         res.Reason,
	}
	if res.Record != nil {
		rec := ledgerhttp.ToWire(*res.Record)
		w.Record = &rec
	}
	return w
}

func (h *handlers) utterance(r *stdhttp.Request, in UtteranceRequest) (any, error) {
	res, err := h.proc.ProcessUtterance(r.Context(), domain.Utterance{
		ConversationID:    in.ConversationID,
		Text:              in.Text,
		Speaker:           in.Speaker,
		SpeakerConfidence: in.SpeakerConfidence,
		STTLanguages:      in.STTLanguages,
		At:                in.At,
	})
	if err != nil {
		return nil, err
	}
	return toWire(res), nil
}

func (h *handlers) reset(r *stdhttp.Request, in ResetRequest) (any, error) {
	if err := h.proc.Reset(r.Context(), in.ConversationID); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
