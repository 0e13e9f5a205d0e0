// Package extract pulls amount, product, and quantity entities out of a
// normalized utterance, consulting the lexicon pack and a vocabulary snapshot.
// Extraction is pure; nothing here logs or blocks
package extract

import (
	"strings"

	"sikabook/internal/core/lexicon"
)

// Extractor bundles the lexicon tables the three extractors share
type Extractor struct {
	pack *lexicon.Pack
}

// New constructs an Extractor over the loaded pack
func New(p *lexicon.Pack) *Extractor { return &Extractor{pack: p} }

// stopwords are function words across the four languages that never name a
// product; they are skipped during product candidate generation
var stopwords = map[string]bool{
	// en
	"i": true, "you": true, "me": true, "we": true, "the": true, "a": true, "an": true,
	"want": true, "need": true, "give": true, "have": true, "get": true, "buy": true,
	"sell": true, "selling": true, "some": true, "please": true, "for": true, "of": true,
	"is": true, "it": true, "that": true, "this": true, "do": true, "how": true,
	"much": true, "price": true, "and": true, "to": true, "at": true, "deal": true,
	"take": true, "will": true, "looking": true, "okay": true, "ok": true,
	// pcm
	"abeg": true, "dey": true, "wan": true, "make": true, "am": true, "na": true,
	"wey": true, "go": true, "fit": true, "be": true,
	// tw
	"ma": true, "pɛ": true, "wo": true, "yɛ": true, "sɛn": true, "mepɛ": true, "wowɔ": true,
	// ga
	"mi": true, "ha": true, "ni": true, "miitao": true, "oyɛ": true,
}

// token is one word of the utterance with punctuation trimmed
type token struct {
	text  string
	start int // byte offset into the source text
	end   int
}

// tokenize splits normalized text on spaces and trims edge punctuation.
// Normalization has already collapsed whitespace
func tokenize(s string) []token {
	out := make([]token, 0, 8)
	i := 0
	for i < len(s) {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		j := i
		for j < len(s) && s[j] != ' ' {
			j++
		}
		if j > i {
			w := strings.Trim(s[i:j], ",.!?;:\"'")
			if w != "" {
				off := strings.Index(s[i:j], w)
				out = append(out, token{text: w, start: i + off, end: i + off + len(w)})
			}
		}
		i = j
	}
	return out
}

func (x *Extractor) isUnitWord(w string) bool {
	_, ok := x.pack.UnitFor(w)
	return ok
}

func (x *Extractor) isCurrencyMarkerWord(w string) bool {
	for _, m := range x.pack.Currency.MajorMarkers {
		if w == m {
			return true
		}
	}
	for _, m := range x.pack.Currency.MinorMarkers {
		if w == m {
			return true
		}
	}
	return false
}

// ProductCandidate returns the content words most likely naming a product,
// used as the raw name when learning an unmatched product. Numbers, units,
// currency markers, and stopwords are dropped
func (x *Extractor) ProductCandidate(normText string) string {
	toks := tokenize(normText)
	kept := make([]string, 0, 3)
	for _, t := range toks {
		w := t.text
		if stopwords[w] || x.isUnitWord(w) || x.isCurrencyMarkerWord(w) {
			continue
		}
		if isNumericToken(w) {
			continue
		}
		if _, ok := x.pack.NumberValue(w); ok {
			continue
		}
		kept = append(kept, w)
		if len(kept) == 3 {
			break
		}
	}
	return strings.Join(kept, " ")
}

func isNumericToken(w string) bool {
	if w == "" {
		return false
	}
	dot := false
	for i := 0; i < len(w); i++ {
		c := w[i]
		if c == '.' && !dot && i > 0 && i < len(w)-1 {
			dot = true
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// maxDistFor bounds fuzzy distance by candidate length so short function words
// don't accidentally land on short product names
func maxDistFor(name string, max int) int {
	n := len([]rune(name))
	limit := (n - 1) / 2
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}
