package extract

import (
	"strings"

	"sikabook/internal/core/vocab"
)

// MatchKind says how a product name was resolved
type MatchKind uint8

const (
	MatchCanonical MatchKind = iota
	MatchVariant
	MatchFuzzy
)

func (k MatchKind) String() string {
	switch k {
	case MatchCanonical:
		return "canonical"
	case MatchVariant:
		return "variant"
	case MatchFuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// ProductMatch is a resolved product reference inside an utterance
type ProductMatch struct {
	Entry       vocab.Entry
	MatchedText string
	Kind        MatchKind
	Distance    int
	Confidence  float64
}

// Product finds the best product reference in normalized text. Exact matches
// against canonical names, variants, and local names are tried over one to
// three word windows; fuzzy matching runs only when nothing matched exactly.
// Fuzzy confidence decays with edit distance and floors at 0.5
func (x *Extractor) Product(normText string, snap *vocab.Snapshot, langs []string) (ProductMatch, bool) {
	toks := tokenize(normText)

	if m, ok := exactProduct(toks, snap); ok {
		return m, true
	}
	return x.fuzzyProduct(toks, snap, langs)
}

func exactProduct(toks []token, snap *vocab.Snapshot) (ProductMatch, bool) {
	best := ProductMatch{}
	found := false
	for n := 3; n >= 1; n-- {
		for i := 0; i+n <= len(toks); i++ {
			gram := joinTokens(toks, i, n)
			e, ok := snap.Lookup(gram)
			if !ok {
				continue
			}
			m := ProductMatch{Entry: e, MatchedText: gram, Kind: MatchVariant, Confidence: 0.95}
			if snap.IsCanonical(gram) {
				m.Kind = MatchCanonical
				m.Confidence = 1.0
			}
			if !found || m.Confidence > best.Confidence {
				best = m
				found = true
			}
		}
		if found {
			return best, true
		}
	}
	return ProductMatch{}, false
}

func (x *Extractor) fuzzyProduct(toks []token, snap *vocab.Snapshot, langs []string) (ProductMatch, bool) {
	best := ProductMatch{Distance: vocab.DefaultMaxEditDistance + 1}
	found := false
	for n := 2; n >= 1; n-- {
		for i := 0; i+n <= len(toks); i++ {
			if n == 1 && x.skipFuzzyToken(toks[i].text) {
				continue
			}
			gram := joinTokens(toks, i, n)
			for _, fm := range snap.FuzzyMatch(gram, vocab.DefaultMaxEditDistance, langs) {
				if fm.Distance > maxDistFor(gram, vocab.DefaultMaxEditDistance) {
					continue
				}
				if !found || fm.Distance < best.Distance {
					best = ProductMatch{
						Entry:       fm.Entry,
						MatchedText: gram,
						Kind:        MatchFuzzy,
						Distance:    fm.Distance,
						Confidence:  fuzzyConfidence(fm.Distance),
					}
					found = true
				}
			}
		}
	}
	return best, found
}

// skipFuzzyToken rejects single tokens that can never name a product, so
// function words and quantities don't drift onto short product names
func (x *Extractor) skipFuzzyToken(w string) bool {
	if stopwords[w] || x.isUnitWord(w) || x.isCurrencyMarkerWord(w) || isNumericToken(w) {
		return true
	}
	if _, ok := x.pack.NumberValue(w); ok {
		return true
	}
	return len([]rune(w)) < 3
}

func fuzzyConfidence(dist int) float64 {
	c := 1.0 - float64(dist)/10.0
	if c < 0.5 {
		c = 0.5
	}
	return c
}

func joinTokens(toks []token, i, n int) string {
	if n == 1 {
		return toks[i].text
	}
	parts := make([]string, n)
	for k := 0; k < n; k++ {
		parts[k] = toks[i+k].text
	}
	return strings.Join(parts, " ")
}
