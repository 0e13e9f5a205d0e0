// Package confidence scores completed sessions and decides between silent
// auto-log, surfaced review, and vocabulary learning
package confidence

import (
	"sikabook/internal/core/extract"
	"sikabook/internal/core/session"
)

// Default thresholds and component weights
const (
	DefaultReviewBelow = 0.70
	DefaultAutoLogAt   = 0.90

	DefaultIntentWeight  = 0.25
	DefaultSpeakerWeight = 0.25
	DefaultProductWeight = 0.30
	DefaultAmountWeight  = 0.20
)

// Config tunes the policy; zero values select the defaults
type Config struct {
	ReviewBelow float64
	AutoLogAt   float64

	IntentWeight  float64
	SpeakerWeight float64
	ProductWeight float64
	AmountWeight  float64
}

func (c Config) withDefaults() Config {
	if c.ReviewBelow <= 0 {
		c.ReviewBelow = DefaultReviewBelow
	}
	if c.AutoLogAt <= 0 {
		c.AutoLogAt = DefaultAutoLogAt
	}
	if c.IntentWeight+c.SpeakerWeight+c.ProductWeight+c.AmountWeight <= 0 {
		c.IntentWeight = DefaultIntentWeight
		c.SpeakerWeight = DefaultSpeakerWeight
		c.ProductWeight = DefaultProductWeight
		c.AmountWeight = DefaultAmountWeight
	}
	return c
}

// Assessment is the policy's verdict on one completion
type Assessment struct {
	Confidence   float64
	NeedsReview  bool
	AutoLog      bool
	PriceInRange bool

	// LearnProduct asks the vocabulary to learn RawName at the agreed price.
	// Set only when the completion's product had no vocabulary match
	LearnProduct bool
	RawName      string
}

// Policy is immutable after construction and safe for concurrent use
type Policy struct {
	cfg Config
}

func NewPolicy(cfg Config) *Policy { return &Policy{cfg: cfg.withDefaults()} }

func DefaultPolicy() *Policy { return NewPolicy(Config{}) }

// Score computes the weighted confidence and review decision for a
// completion. Review is forced, regardless of score, when no product was
// matched or the agreed price falls outside the product's known range
func (p *Policy) Score(c *session.Completion) Assessment {
	cfg := p.cfg

	speaker := speakerComponent(c)
	product := 0.0
	if c.Product != nil && c.Product.Entry != nil {
		product = c.Product.Confidence
	}

	total := cfg.IntentWeight + cfg.SpeakerWeight + cfg.ProductWeight + cfg.AmountWeight
	score := (cfg.IntentWeight*clamp01(c.IntentStrength) +
		cfg.SpeakerWeight*clamp01(speaker) +
		cfg.ProductWeight*clamp01(product) +
		cfg.AmountWeight*clamp01(c.AmountCertainty)) / total

	a := Assessment{
		Confidence:   score,
		PriceInRange: true,
		NeedsReview:  score < cfg.ReviewBelow,
	}

	switch {
	case c.Product == nil || c.Product.Entry == nil:
		a.NeedsReview = true
		a.PriceInRange = false
	case !extract.ValidatePrice(c.FinalPrice, c.Product.Entry):
		a.NeedsReview = true
		a.PriceInRange = false
	}

	if c.Product != nil && c.Product.Entry == nil && c.Product.RawText != "" && c.FinalPrice > 0 {
		a.LearnProduct = true
		a.RawName = c.Product.RawText
	}

	a.AutoLog = !a.NeedsReview && score >= cfg.AutoLogAt
	return a
}

// speakerComponent averages whichever speaker means the session collected
func speakerComponent(c *session.Completion) float64 {
	switch {
	case c.SellerConfidence > 0 && c.CustomerConfidence > 0:
		return (c.SellerConfidence + c.CustomerConfidence) / 2
	case c.SellerConfidence > 0:
		return c.SellerConfidence
	default:
		return c.CustomerConfidence
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
