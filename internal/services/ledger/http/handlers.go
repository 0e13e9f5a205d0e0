// Package http provides http transport for the ledger
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"sikabook/internal/modkit/httpkit"
	"sikabook/internal/services/ledger/domain"
)

// Register mounts ledger endpoints on the given router
func Register(r httpkit.Router, reader domain.ReaderPort) {
	h := &handlers{reader: reader}

	httpkit.Get(r, "/recent", h.recent)
}

type handlers struct{ reader domain.ReaderPort }

// RecordWire is the ledger record wire shape
type RecordWire struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	ProductID      *string   `json:"product_id,omitempty"`
	ProductName    string    `json:"product_name"`
	RawProductText string    `json:"raw_product_text,omitempty"`
	Quantity       int64     `json:"quantity,omitempty"`
	Unit           string    `json:"unit,omitempty"`
	FinalPrice     string    `json:"final_price"`
	OriginalPrice  string    `json:"original_price"`
	PriceHistory   []string  `json:"price_history,omitempty"`
	Confidence     float64   `json:"confidence"`
	SellerConf     float64   `json:"seller_confidence"`
	CustomerConf   float64   `json:"customer_confidence"`
	NeedsReview    bool      `json:"needs_review"`
	AutoLogged     bool      `json:"auto_logged"`
	Snippet        string    `json:"snippet,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToWire converts a record to its wire shape
func ToWire(rec domain.TransactionRecord) RecordWire {
	w := RecordWire{
		ID:             rec.ID,
		ConversationID: rec.ConversationID,
		ProductID:      rec.ProductID,
		ProductName:    rec.ProductName,
		RawProductText: rec.RawProductText,
		Quantity:       rec.Quantity,
		Unit:           rec.Unit,
		FinalPrice:     rec.FinalPrice.String(),
		OriginalPrice:  rec.OriginalPrice.String(),
		Confidence:     rec.Confidence,
		SellerConf:     rec.SellerConfidence,
		CustomerConf:   rec.CustomerConfidence,
		NeedsReview:    rec.NeedsReview,
		AutoLogged:     rec.AutoLogged,
		Snippet:        rec.Snippet,
		CreatedAt:      rec.CreatedAt,
	}
	for _, p := range rec.PriceHistory {
		w.PriceHistory = append(w.PriceHistory, p.String())
	}
	return w
}

func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	recs, err := h.reader.Recent(r.Context(), domain.RecentInput{
		ConversationID: q.Get("conversation_id"),
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]RecordWire, 0, len(recs))
	for _, rec := range recs {
		out = append(out, ToWire(rec))
	}
	return out, nil
}
