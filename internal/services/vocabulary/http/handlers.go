// Package http provides http transport for the vocabulary
package http

import (
	stdhttp "net/http"
	"strings"

	"sikabook/internal/core/vocab"
	"sikabook/internal/modkit/httpkit"
	perr "sikabook/internal/platform/errors"
	"sikabook/internal/services/vocabulary/domain"
)

// Register mounts vocabulary endpoints on the given router
func Register(r httpkit.Router, reader domain.ReaderPort, writer domain.WriterPort) {
	h := &handlers{reader: reader, writer: writer}

	httpkit.Get(r, "/lookup", h.lookup)
	httpkit.PostJSON[CorrectionRequest](r, "/corrections", h.correction)
}

type handlers struct {
	reader domain.ReaderPort
	writer domain.WriterPort
}

// EntryWire is the vocabulary entry wire shape
type EntryWire struct {
	ID                 string              `json:"id"`
	CanonicalName      string              `json:"canonical_name"`
	Category           string              `json:"category,omitempty"`
	Variants           []string            `json:"variants,omitempty"`
	LocalNames         map[string][]string `json:"local_names,omitempty"`
	MinPrice           string              `json:"min_price"`
	MaxPrice           string              `json:"max_price"`
	Units              []string            `json:"units,omitempty"`
	Frequency          int64               `json:"frequency"`
	Learned            bool                `json:"learned"`
	LearningConfidence float64             `json:"learning_confidence,omitempty"`
}

// LookupResponse is the lookup payload; fuzzy candidates are included when no
// exact name matched
type LookupResponse struct {
	Exact *EntryWire  `json:"exact,omitempty"`
	Fuzzy []FuzzyWire `json:"fuzzy,omitempty"`
}

// FuzzyWire is one fuzzy candidate
type FuzzyWire struct {
	Entry    EntryWire `json:"entry"`
	Name     string    `json:"matched_name"`
	Distance int       `json:"distance"`
}

// CorrectionRequest maps a spoken form onto an existing entry
type CorrectionRequest struct {
	EntryID       string `json:"entry_id" validate:"omitempty,uuid"`
	CanonicalName string `json:"canonical_name" validate:"required_without=EntryID"`
	SpokenForm    string `json:"spoken_form" validate:"required,min=1"`
}

func toWire(e vocab.Entry) EntryWire {
	return EntryWire{
		ID:                 e.ID,
		CanonicalName:      e.CanonicalName,
		Category:           e.Category,
		Variants:           e.Variants,
		LocalNames:         e.LocalNames,
		MinPrice:           e.MinPrice.String(),
		MaxPrice:           e.MaxPrice.String(),
		Units:              e.Units,
		Frequency:          e.Frequency,
		Learned:            e.Learned,
		LearningConfidence: e.LearningConfidence,
	}
}

func (h *handlers) lookup(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		return nil, perr.Newf(perr.ErrorCodeValidation, "name is required")
	}
	var langs []string
	if raw := q.Get("langs"); raw != "" {
		for _, l := range strings.Split(raw, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
	}

	if e, ok := h.reader.Lookup(name); ok {
		w := toWire(e)
		return LookupResponse{Exact: &w}, nil
	}

	ms := h.reader.FuzzyMatch(name, 0, langs)
	out := LookupResponse{}
	for _, m := range ms {
		out.Fuzzy = append(out.Fuzzy, FuzzyWire{Entry: toWire(m.Entry), Name: m.Name, Distance: m.Distance})
	}
	return out, nil
}

func (h *handlers) correction(r *stdhttp.Request, in CorrectionRequest) (any, error) {
	e, err := h.writer.RecordCorrection(r.Context(), domain.CorrectionInput{
		EntryID:       in.EntryID,
		CanonicalName: in.CanonicalName,
		SpokenForm:    in.SpokenForm,
	})
	if err != nil {
		return nil, err
	}
	return toWire(e), nil
}
