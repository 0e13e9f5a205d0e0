// Package vocab implements the in-memory product vocabulary: exact and fuzzy
// name resolution over an immutable snapshot, plus the pure learn/correction
// constructors. Serialization of writes and persistence live in
// services/vocabulary; everything here is side-effect free
package vocab

import (
	"sort"
	"strings"

	"sikabook/internal/core/fuzzy"
	"sikabook/internal/core/lexicon"
	"sikabook/internal/core/money"
)

// DefaultMaxEditDistance is the fuzzy match threshold
const DefaultMaxEditDistance = 3

// Learned entries start at this confidence; corrections raise it by
// CorrectionStep up to 1.0
const (
	LearnedConfidence = 0.7
	CorrectionStep    = 0.1
)

// Price range widening applied when learning from a single observed price
const (
	learnSpreadLow  = 0.8
	learnSpreadHigh = 1.2
)

// Entry is one vocabulary record. Entries handed out by the store are
// snapshots; mutate only through the With* clones
type Entry struct {
	ID                 string
	CanonicalName      string
	Category           string
	Variants           []string            // lowercased, deduplicated
	LocalNames         map[string][]string // lang -> lowercased names
	MinPrice           money.Amount
	MaxPrice           money.Amount
	Units              []string
	Frequency          int64
	Active             bool
	Learned            bool
	LearningConfidence float64
}

// InPriceRange reports whether amount falls inside [MinPrice, MaxPrice]
func (e *Entry) InPriceRange(amount money.Amount) bool {
	return amount >= e.MinPrice && amount <= e.MaxPrice
}

// Names returns canonical name, variants, and local names (all lowercased),
// local names ordered by the given language preference
func (e *Entry) Names(langs []string) []string {
	out := make([]string, 0, 1+len(e.Variants)+4)
	out = append(out, strings.ToLower(e.CanonicalName))
	out = append(out, e.Variants...)
	seen := make(map[string]bool, len(e.LocalNames))
	for _, lang := range langs {
		for _, n := range e.LocalNames[lang] {
			out = append(out, n)
		}
		seen[lang] = true
	}
	for lang, names := range e.LocalNames {
		if !seen[lang] {
			out = append(out, names...)
		}
	}
	return out
}

// WithVariant clones e with an extra variant and a raised learning confidence
// (the correction feedback path)
func (e *Entry) WithVariant(v string) Entry {
	c := e.clone()
	v = strings.ToLower(strings.TrimSpace(v))
	if v != "" && !containsStr(c.Variants, v) {
		c.Variants = append(c.Variants, v)
	}
	c.LearningConfidence += CorrectionStep
	if c.LearningConfidence > 1.0 {
		c.LearningConfidence = 1.0
	}
	return c
}

// WithFrequencyBump clones e with Frequency+1
func (e *Entry) WithFrequencyBump() Entry {
	c := e.clone()
	c.Frequency++
	return c
}

// WithWidenedRange clones e so [MinPrice, MaxPrice] covers amount
func (e *Entry) WithWidenedRange(amount money.Amount) Entry {
	c := e.clone()
	if amount < c.MinPrice {
		c.MinPrice = amount
	}
	if amount > c.MaxPrice {
		c.MaxPrice = amount
	}
	return c
}

// Deactivated clones e with Active=false; entries are never hard-deleted
func (e *Entry) Deactivated() Entry {
	c := e.clone()
	c.Active = false
	return c
}

func (e *Entry) clone() Entry {
	c := *e
	c.Variants = append([]string(nil), e.Variants...)
	c.Units = append([]string(nil), e.Units...)
	if e.LocalNames != nil {
		ln := make(map[string][]string, len(e.LocalNames))
		for k, v := range e.LocalNames {
			ln[k] = append([]string(nil), v...)
		}
		c.LocalNames = ln
	}
	return c
}

// NewLearned builds a fresh entry from a raw product mention and the price it
// was observed at. Range is the observed price widened by ±20%
func NewLearned(id, rawName, category string, observed money.Amount) Entry {
	name := strings.TrimSpace(rawName)
	return Entry{
		ID:                 id,
		CanonicalName:      name,
		Category:           category,
		Variants:           []string{strings.ToLower(name)},
		LocalNames:         map[string][]string{},
		MinPrice:           money.Amount(float64(observed) * learnSpreadLow),
		MaxPrice:           money.Amount(float64(observed) * learnSpreadHigh),
		Units:              []string{"pieces"},
		Frequency:          1,
		Active:             true,
		Learned:            true,
		LearningConfidence: LearnedConfidence,
	}
}

// FromSeed converts a lexicon seed product into an Entry
func FromSeed(id string, p lexicon.Product) Entry {
	return Entry{
		ID:            id,
		CanonicalName: p.CanonicalName,
		Category:      p.Category,
		Variants:      append([]string(nil), p.Variants...),
		LocalNames:    p.LocalNames,
		MinPrice:      money.FromMinor(p.MinPrice),
		MaxPrice:      money.FromMinor(p.MaxPrice),
		Units:         append([]string(nil), p.Units...),
		Active:        true,
	}
}

// Match is one fuzzy candidate
type Match struct {
	Entry    Entry
	Name     string // the surface name that matched
	Distance int
}

// Snapshot is an immutable view over active entries; safe for concurrent reads
type Snapshot struct {
	entries []Entry
	byName  map[string]int // any lowercased name -> index into entries
}

// NewSnapshot indexes the given entries. Inactive entries are excluded from
// name resolution but retained nowhere here; callers keep their own full set
func NewSnapshot(entries []Entry) *Snapshot {
	s := &Snapshot{byName: make(map[string]int)}
	for _, e := range entries {
		if !e.Active {
			continue
		}
		idx := len(s.entries)
		s.entries = append(s.entries, e)
		claim := func(name string) {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				return
			}
			if _, taken := s.byName[name]; !taken {
				s.byName[name] = idx
			}
		}
		claim(e.CanonicalName)
		for _, v := range e.Variants {
			claim(v)
		}
		for _, names := range e.LocalNames {
			for _, n := range names {
				claim(n)
			}
		}
	}
	return s
}

// Len returns the number of active entries
func (s *Snapshot) Len() int { return len(s.entries) }

// Entries returns a copy of the active entries
func (s *Snapshot) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Lookup resolves an exact canonical, variant, or local name
func (s *Snapshot) Lookup(name string) (Entry, bool) {
	idx, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return s.entries[idx], true
}

// IsCanonical reports whether name is exactly a canonical name (not a variant)
func (s *Snapshot) IsCanonical(name string) bool {
	idx, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return false
	}
	return strings.EqualFold(s.entries[idx].CanonicalName, strings.TrimSpace(name))
}

// FuzzyMatch returns entries whose best name is within maxDist edits of name,
// sorted by ascending distance, ties broken by descending frequency. langs
// orders local-name evaluation and is the final tie-break
func (s *Snapshot) FuzzyMatch(name string, maxDist int, langs []string) []Match {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	if maxDist <= 0 {
		maxDist = DefaultMaxEditDistance
	}

	type ranked struct {
		m     Match
		order int // index of first matching name in lang-preferred order
	}
	out := make([]ranked, 0, 4)
	for _, e := range s.entries {
		best := Match{Distance: maxDist + 1}
		bestOrder := 0
		for i, cand := range e.Names(langs) {
			if d, ok := fuzzy.Within(name, cand, maxDist); ok && d < best.Distance {
				best = Match{Entry: e, Name: cand, Distance: d}
				bestOrder = i
			}
		}
		if best.Distance <= maxDist {
			out = append(out, ranked{m: best, order: bestOrder})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].m.Distance != out[j].m.Distance {
			return out[i].m.Distance < out[j].m.Distance
		}
		if out[i].m.Entry.Frequency != out[j].m.Entry.Frequency {
			return out[i].m.Entry.Frequency > out[j].m.Entry.Frequency
		}
		return out[i].order < out[j].order
	})

	ms := make([]Match, len(out))
	for i := range out {
		ms[i] = out[i].m
	}
	return ms
}

func containsStr(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
