package extract

import (
	"strconv"

	"sikabook/internal/core/intent"
)

// DefaultUnit is assumed when a quantity intent carries a count but no unit
const DefaultUnit = "pieces"

// maxCount rejects counts that are clearly amounts misread as quantities
const maxCount = 10000

// QuantityResult is a count with its canonical unit
type QuantityResult struct {
	Count int64
	Unit  string
}

// Quantity extracts a count and unit from normalized text. A number followed
// by a unit word always counts; a bare number is taken as a piece count only
// under a quantity intent, so prices aren't misread as counts
func (x *Extractor) Quantity(normText string, it intent.Intent) (QuantityResult, bool) {
	toks := tokenize(normText)

	var bare *QuantityResult
	for i := 0; i < len(toks); i++ {
		v, consumed, ok := x.countAt(toks, i)
		if !ok {
			continue
		}
		if v <= 0 || v > maxCount {
			continue
		}
		next := i + consumed
		if next < len(toks) {
			if u, ok := x.pack.UnitFor(toks[next].text); ok {
				return QuantityResult{Count: v, Unit: u}, true
			}
		}
		if bare == nil {
			bare = &QuantityResult{Count: v, Unit: DefaultUnit}
		}
		i += consumed - 1
	}

	if bare != nil && it == intent.QuantityMention {
		return *bare, true
	}

	// unit word with an implied count of one ("ma me baako" handled above;
	// "one olonka" handled above; "olonka of gari" lands here)
	if it == intent.QuantityMention {
		for _, t := range toks {
			if u, ok := x.pack.UnitFor(t.text); ok {
				return QuantityResult{Count: 1, Unit: u}, true
			}
		}
	}
	return QuantityResult{}, false
}

// countAt reads an integer count at toks[i], digit or spelled
func (x *Extractor) countAt(toks []token, i int) (int64, int, bool) {
	w := toks[i].text
	if isNumericToken(w) {
		v, err := strconv.ParseInt(w, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		return v, 1, true
	}
	return x.spelledNumber(toks, i)
}
