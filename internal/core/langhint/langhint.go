// Package langhint provides language hinting for code-switched market speech.
// All four supported languages are Latin-script, so hinting counts marker
// words instead of scripts. Hints only order fuzzy vocabulary matching
// downstream; they never influence intent priority
package langhint

import (
	"sort"
	"strings"
)

// Supported language codes, in default preference order
const (
	English = "en"
	Pidgin  = "pcm"
	Twi     = "tw"
	Ga      = "ga"
)

// markers are high-frequency function and commerce words that rarely cross languages.
// Kept deliberately small; a single marker is enough to rank a language above silence
var markers = map[string][]string{
	English: {"the", "want", "give", "much", "how", "price", "pieces", "deal", "okay"},
	Pidgin:  {"abeg", "wey", "dey", "chale", "make", "sef", "wetin", "plenty", "small small"},
	Twi:     {"me", "ma", "wo", "yɛ", "sika", "baako", "mmienu", "mmiɛnsa", "ɛnnɛ", "dunum", "aduonum", "pɛn"},
	Ga:      {"mi", "ni", "shika", "ekome", "enyo", "etɛ", "kɛ", "ha"},
}

// Hints merges STT-supplied language codes with marker-word evidence from the
// normalized text, returning an ordered, deduplicated hint list. STT hints come
// first (the upstream model saw the audio), then marker-ranked languages, then
// any remaining supported languages so fuzzy matching always has a total order
func Hints(normText string, stt []string) []string {
	seen := make(map[string]bool, 4)
	out := make([]string, 0, 4)
	push := func(code string) {
		if code == "" || seen[code] {
			return
		}
		if _, ok := markers[code]; !ok {
			return // unsupported code from upstream; drop it
		}
		seen[code] = true
		out = append(out, code)
	}

	for _, c := range stt {
		push(strings.ToLower(strings.TrimSpace(c)))
	}

	// Rank remaining languages by marker count
	type scored struct {
		code string
		hits int
	}
	counts := make([]scored, 0, 4)
	for _, code := range []string{English, Pidgin, Twi, Ga} {
		if seen[code] {
			continue
		}
		counts = append(counts, scored{code, countMarkers(normText, markers[code])})
	}
	// descending hits; stable so the default order wins on ties
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].hits > counts[j].hits })
	for _, c := range counts {
		push(c.code)
	}
	return out
}

func countMarkers(text string, words []string) int {
	if text == "" {
		return 0
	}
	padded := " " + text + " "
	n := 0
	for _, w := range words {
		if strings.Contains(padded, " "+w+" ") {
			n++
		}
	}
	return n
}
