// Package lexicon loads and compiles the embedded seed lexicon from lexicon.json.
// It prepares the product catalogue seed, number and unit word tables, currency
// markers, and per-language intent phrase patterns for the classifier
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

//go:embed lexicon.json
var embedded []byte

// Intent names allowed in the pack; the intent package maps these onto its enum
const (
	IntentCancellation = "cancellation"
	IntentAgreement    = "agreement"
	IntentCounteroffer = "counteroffer"
	IntentOffer        = "offer"
	IntentInquiry      = "inquiry"
	IntentQuantity     = "quantity"
	IntentProduct      = "product"
)

var knownIntents = map[string]bool{
	IntentCancellation: true,
	IntentAgreement:    true,
	IntentCounteroffer: true,
	IntentOffer:        true,
	IntentInquiry:      true,
	IntentQuantity:     true,
	IntentProduct:      true,
}

type rawCurrency struct {
	Code          string   `json:"code"`
	MinorPerMajor int64    `json:"minor_per_major"`
	MajorMarkers  []string `json:"major_markers"`
	MinorMarkers  []string `json:"minor_markers"`
}

type rawUnit struct {
	Canonical string   `json:"canonical"`
	Forms     []string `json:"forms"`
}

type rawProduct struct {
	CanonicalName string              `json:"canonical_name"`
	Category      string              `json:"category"`
	Variants      []string            `json:"variants"`
	LocalNames    map[string][]string `json:"local_names"`
	MinPrice      float64             `json:"min_price"`
	MaxPrice      float64             `json:"max_price"`
	Units         []string            `json:"units"`
}

type rawIntentRule struct {
	Intent   string   `json:"intent"`
	Strength float64  `json:"strength"`
	Patterns []string `json:"patterns"`
}

type rawPack struct {
	Version     int                         `json:"version"`
	Currency    rawCurrency                 `json:"currency"`
	NumberWords map[string]map[string]int64 `json:"number_words"`
	Units       []rawUnit                   `json:"units"`
	Products    []rawProduct                `json:"products"`
	Intents     map[string][]rawIntentRule  `json:"intents"`
}

// Currency describes the single supported currency and its textual markers
type Currency struct {
	Code          string
	MinorPerMajor int64
	MajorMarkers  []string
	MinorMarkers  []string
}

// Unit is a measurement unit with its surface forms
type Unit struct {
	Canonical string
	Forms     []string
}

// Product is a seed catalogue entry. Prices are minor units (pesewas)
type Product struct {
	CanonicalName string
	Category      string
	Variants      []string
	LocalNames    map[string][]string
	MinPrice      int64
	MaxPrice      int64
	Units         []string
}

// IntentRule is a compiled phrase-pattern rule for one intent in one language
type IntentRule struct {
	Intent   string
	Strength float64
	Compiled []*regexp.Regexp
}

// Pack is the compiled lexicon
type Pack struct {
	Version     int
	Currency    Currency
	NumberWords map[string]map[string]int64 // lang -> word -> value
	Units       []Unit
	Products    []Product
	Intents     map[string][]IntentRule // lang -> rules

	unitForms map[string]string // surface form -> canonical
}

// Load parses, validates, and compiles the embedded lexicon
func Load() (*Pack, error) {
	return loadBytes(embedded)
}

func loadBytes(b []byte) (*Pack, error) {
	var raw rawPack
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("lexicon: parse: %w", err)
	}
	if raw.Version < 1 {
		return nil, fmt.Errorf("lexicon: bad version %d", raw.Version)
	}
	if raw.Currency.MinorPerMajor <= 0 {
		return nil, fmt.Errorf("lexicon: currency minor_per_major must be positive")
	}

	p := &Pack{
		Version: raw.Version,
		Currency: Currency{
			Code:          raw.Currency.Code,
			MinorPerMajor: raw.Currency.MinorPerMajor,
			MajorMarkers:  lowerAll(raw.Currency.MajorMarkers),
			MinorMarkers:  lowerAll(raw.Currency.MinorMarkers),
		},
		NumberWords: make(map[string]map[string]int64, len(raw.NumberWords)),
		Intents:     make(map[string][]IntentRule, len(raw.Intents)),
		unitForms:   make(map[string]string),
	}

	for lang, words := range raw.NumberWords {
		m := make(map[string]int64, len(words))
		for w, v := range words {
			if v < 0 {
				return nil, fmt.Errorf("lexicon: negative number word %q", w)
			}
			m[strings.ToLower(w)] = v
		}
		p.NumberWords[lang] = m
	}

	for _, u := range raw.Units {
		if u.Canonical == "" || len(u.Forms) == 0 {
			return nil, fmt.Errorf("lexicon: unit needs canonical and forms")
		}
		unit := Unit{Canonical: strings.ToLower(u.Canonical), Forms: lowerAll(u.Forms)}
		p.Units = append(p.Units, unit)
		for _, f := range unit.Forms {
			p.unitForms[f] = unit.Canonical
		}
	}

	seenNames := make(map[string]bool, len(raw.Products))
	for _, rp := range raw.Products {
		name := strings.TrimSpace(rp.CanonicalName)
		if name == "" {
			return nil, fmt.Errorf("lexicon: product with empty canonical_name")
		}
		key := strings.ToLower(name)
		if seenNames[key] {
			return nil, fmt.Errorf("lexicon: duplicate canonical_name %q", name)
		}
		seenNames[key] = true
		if rp.MinPrice < 0 || rp.MaxPrice < rp.MinPrice {
			return nil, fmt.Errorf("lexicon: product %q price range [%v, %v] invalid", name, rp.MinPrice, rp.MaxPrice)
		}
		locals := make(map[string][]string, len(rp.LocalNames))
		for lang, names := range rp.LocalNames {
			locals[lang] = lowerAll(names)
		}
		p.Products = append(p.Products, Product{
			CanonicalName: name,
			Category:      rp.Category,
			Variants:      dedupeLower(rp.Variants),
			LocalNames:    locals,
			MinPrice:      toMinor(rp.MinPrice, p.Currency.MinorPerMajor),
			MaxPrice:      toMinor(rp.MaxPrice, p.Currency.MinorPerMajor),
			Units:         lowerAll(rp.Units),
		})
	}

	for lang, rules := range raw.Intents {
		out := make([]IntentRule, 0, len(rules))
		for _, r := range rules {
			if !knownIntents[r.Intent] {
				return nil, fmt.Errorf("lexicon: unknown intent %q in lang %q", r.Intent, lang)
			}
			if len(r.Patterns) == 0 {
				return nil, fmt.Errorf("lexicon: intent %q in lang %q has no patterns", r.Intent, lang)
			}
			strength := r.Strength
			if strength <= 0 || strength > 1 {
				return nil, fmt.Errorf("lexicon: intent %q in lang %q strength %v out of (0,1]", r.Intent, lang, strength)
			}
			compiled := make([]*regexp.Regexp, 0, len(r.Patterns))
			for _, pat := range r.Patterns {
				re, err := regexp.Compile(pat)
				if err != nil {
					return nil, fmt.Errorf("lexicon: intent %q lang %q pattern %q: %w", r.Intent, lang, pat, err)
				}
				compiled = append(compiled, re)
			}
			out = append(out, IntentRule{Intent: r.Intent, Strength: strength, Compiled: compiled})
		}
		p.Intents[lang] = out
	}

	return p, nil
}

// UnitFor maps a surface form ("pcs", "bowls") to its canonical unit
func (p *Pack) UnitFor(form string) (string, bool) {
	c, ok := p.unitForms[strings.ToLower(form)]
	return c, ok
}

// NumberValue resolves a spelled number word across all languages
func (p *Pack) NumberValue(word string) (int64, bool) {
	w := strings.ToLower(word)
	for _, lang := range []string{"en", "pcm", "tw", "ga"} {
		if v, ok := p.NumberWords[lang][w]; ok {
			return v, true
		}
	}
	return 0, false
}

// Languages returns the languages that carry intent rules
func (p *Pack) Languages() []string {
	out := make([]string, 0, len(p.Intents))
	for lang := range p.Intents {
		out = append(out, lang)
	}
	return out
}

func toMinor(major float64, minorPerMajor int64) int64 {
	return int64(math.Round(major * float64(minorPerMajor)))
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func dedupeLower(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
