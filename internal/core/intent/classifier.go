package intent

import (
	"regexp"

	"sikabook/internal/core/lexicon"
)

// Match is a classification result. Strength reflects pattern clarity and is
// one input to the confidence policy; it says nothing about priority
type Match struct {
	Intent   Intent
	Strength float64
}

// Matcher tests one language's patterns against a whole normalized utterance.
// Implementations are a fixed, closed set built from the lexicon pack
type Matcher interface {
	// Classify returns the best (highest-priority) match, or ok=false
	Classify(normText string) (Match, bool)
	// Lang is the language code this matcher covers
	Lang() string
}

// Classifier runs every language matcher over the whole utterance and keeps
// the highest-priority positive match, so code-switched text classifies the
// same regardless of which language hint came first. Ties on priority keep
// the stronger match
type Classifier struct {
	matchers []Matcher
}

// New builds a Classifier from the lexicon pack
func New(p *lexicon.Pack) *Classifier {
	langs := []string{"en", "pcm", "tw", "ga"}
	ms := make([]Matcher, 0, len(langs))
	for _, lang := range langs {
		rules := p.Intents[lang]
		if len(rules) == 0 {
			continue
		}
		ms = append(ms, newLangMatcher(lang, rules))
	}
	ms = append(ms, priceCooccurrence{markers: append(p.Currency.MajorMarkers, p.Currency.MinorMarkers...)})
	return &Classifier{matchers: ms}
}

// Classify maps an utterance to exactly one intent; Unknown when nothing matches
func (c *Classifier) Classify(normText string) Match {
	best := Match{Intent: Unknown}
	if normText == "" {
		return best
	}
	for _, m := range c.matchers {
		got, ok := m.Classify(normText)
		if !ok {
			continue
		}
		if got.Intent.Priority() > best.Intent.Priority() ||
			(got.Intent.Priority() == best.Intent.Priority() && got.Strength > best.Strength) {
			best = got
		}
	}
	return best
}

// langMatcher tests one language's compiled phrase rules
type langMatcher struct {
	lang  string
	rules []lexicon.IntentRule
}

func newLangMatcher(lang string, rules []lexicon.IntentRule) langMatcher {
	return langMatcher{lang: lang, rules: rules}
}

// Lang implements Matcher
func (m langMatcher) Lang() string { return m.lang }

// Classify implements Matcher
func (m langMatcher) Classify(normText string) (Match, bool) {
	best := Match{Intent: Unknown}
	found := false
	for _, r := range m.rules {
		it := fromPackName(r.Intent)
		if it == Unknown {
			continue
		}
		if found && it.Priority() <= best.Intent.Priority() {
			continue
		}
		for _, re := range r.Compiled {
			if re.MatchString(normText) {
				best = Match{Intent: it, Strength: r.Strength}
				found = true
				break
			}
		}
	}
	return best, found
}

// priceCooccurrence is the language-independent backstop: a number next to a
// currency marker reads as a price offer even when no phrase pattern matched.
// Weaker strength than phrase rules since it carries no verb context
type priceCooccurrence struct {
	markers []string
}

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Lang implements Matcher
func (priceCooccurrence) Lang() string { return "*" }

// Classify implements Matcher
func (h priceCooccurrence) Classify(normText string) (Match, bool) {
	loc := numberRe.FindStringIndex(normText)
	if loc == nil {
		return Match{}, false
	}
	// a marker anywhere after the number (often adjacent: "15 cedis")
	rest := normText[loc[1]:]
	for _, mk := range h.markers {
		if containsWord(rest, mk) || containsWord(normText[:loc[0]], mk) {
			return Match{Intent: PriceOffer, Strength: 0.75}, true
		}
	}
	return Match{}, false
}

func containsWord(s, w string) bool {
	if w == "" || s == "" {
		return false
	}
	idx := 0
	for {
		i := indexFrom(s, w, idx)
		if i < 0 {
			return false
		}
		leftOK := i == 0 || isEdge(s[i-1])
		r := i + len(w)
		rightOK := r >= len(s) || isEdge(s[r])
		if leftOK && rightOK {
			return true
		}
		idx = i + 1
	}
}

func indexFrom(s, sub string, from int) int {
	if from >= len(s) {
		return -1
	}
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// isEdge treats digits as edges so glued forms like "₵20" and "20cedis" still match
func isEdge(b byte) bool {
	switch {
	case b == ' ', b == ',', b == '.', b == '!', b == '?', b == ';', b == ':':
		return true
	case b >= '0' && b <= '9':
		return true
	}
	return false
}
