package extract

import (
	"math"
	"strconv"
	"strings"

	"sikabook/internal/core/intent"
	"sikabook/internal/core/money"
	"sikabook/internal/core/vocab"
)

// AmountResult is a monetary amount found in an utterance. HasMarker records
// whether a currency marker anchored it; bare numbers are only trusted when
// the surrounding intent already concerns price
type AmountResult struct {
	Amount    money.Amount
	HasMarker bool
	Certainty float64
}

type amountCandidate struct {
	value   float64
	marker  bool
	minor   bool
	spelled bool
	pos     int
}

// Amount extracts the first price-plausible amount from normalized text.
// Markered amounts win over bare ones regardless of position. A bare number
// with no marker anywhere is accepted only under a price intent
func (x *Extractor) Amount(normText string, it intent.Intent) (AmountResult, bool) {
	toks := tokenize(normText)
	cands := x.amountCandidates(toks)
	if len(cands) == 0 {
		return AmountResult{}, false
	}

	var pick *amountCandidate
	for i := range cands {
		if cands[i].marker {
			pick = &cands[i]
			break
		}
	}
	if pick == nil {
		if !it.IsPrice() {
			return AmountResult{}, false
		}
		pick = &cands[0]
	}

	var amt money.Amount
	if pick.minor {
		amt = money.FromMinor(int64(math.Round(pick.value)))
	} else {
		amt = money.FromMajor(pick.value)
	}
	if amt <= 0 {
		return AmountResult{}, false
	}
	return AmountResult{Amount: amt, HasMarker: pick.marker, Certainty: amountCertainty(pick)}, true
}

func amountCertainty(c *amountCandidate) float64 {
	switch {
	case c.marker && !c.spelled:
		return 1.0
	case c.marker:
		return 0.95
	case c.spelled:
		return 0.65
	default:
		return 0.7
	}
}

func (x *Extractor) amountCandidates(toks []token) []amountCandidate {
	out := make([]amountCandidate, 0, 2)
	for i := 0; i < len(toks); i++ {
		w := toks[i].text

		if v, minor, ok := x.gluedAmount(w); ok {
			out = append(out, amountCandidate{value: v, marker: true, minor: minor, pos: i})
			continue
		}

		if isNumericToken(w) {
			v, err := strconv.ParseFloat(w, 64)
			if err != nil {
				continue
			}
			c := amountCandidate{value: v, pos: i}
			x.markFollowing(toks, i, &c)
			x.markPreceding(toks, i, &c)
			out = append(out, c)
			continue
		}

		if v, consumed, ok := x.spelledNumber(toks, i); ok {
			c := amountCandidate{value: float64(v), spelled: true, pos: i}
			x.markFollowing(toks, i+consumed-1, &c)
			out = append(out, c)
			i += consumed - 1
		}
	}
	return out
}

// gluedAmount handles symbol-adjacent tokens like "₵20", "ghc15.50" or "20ghs"
func (x *Extractor) gluedAmount(w string) (float64, bool, bool) {
	try := func(markers []string, minor bool) (float64, bool, bool) {
		for _, m := range markers {
			if strings.Contains(m, " ") {
				continue
			}
			var num string
			switch {
			case strings.HasPrefix(w, m) && len(w) > len(m):
				num = w[len(m):]
			case strings.HasSuffix(w, m) && len(w) > len(m):
				num = w[:len(w)-len(m)]
			default:
				continue
			}
			if !isNumericToken(num) {
				continue
			}
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				continue
			}
			return v, minor, true
		}
		return 0, false, false
	}
	if v, minor, ok := try(x.pack.Currency.MajorMarkers, false); ok {
		return v, minor, ok
	}
	return try(x.pack.Currency.MinorMarkers, true)
}

// markFollowing looks at the one or two tokens after a number for a currency
// marker ("15 cedis", "15 ghana cedis", "50 pesewas")
func (x *Extractor) markFollowing(toks []token, i int, c *amountCandidate) {
	if c.marker || i+1 >= len(toks) {
		return
	}
	next := toks[i+1].text
	if i+2 < len(toks) {
		pair := next + " " + toks[i+2].text
		if markerKind(x.pack.Currency.MajorMarkers, pair) {
			c.marker = true
			return
		}
	}
	if markerKind(x.pack.Currency.MajorMarkers, next) {
		c.marker = true
		return
	}
	if markerKind(x.pack.Currency.MinorMarkers, next) {
		c.marker = true
		c.minor = true
	}
}

// markPreceding accepts a marker standing alone before the number ("₵ 20")
func (x *Extractor) markPreceding(toks []token, i int, c *amountCandidate) {
	if c.marker || i == 0 {
		return
	}
	prev := toks[i-1].text
	if markerKind(x.pack.Currency.MajorMarkers, prev) {
		c.marker = true
		return
	}
	if markerKind(x.pack.Currency.MinorMarkers, prev) {
		c.marker = true
		c.minor = true
	}
}

func markerKind(markers []string, w string) bool {
	for _, m := range markers {
		if w == m {
			return true
		}
	}
	return false
}

// spelledNumber reads a spelled-out number starting at toks[i], combining
// a small multiplier with "hundred" and tens with units ("twenty five").
// Returns the value and how many tokens were consumed
func (x *Extractor) spelledNumber(toks []token, i int) (int64, int, bool) {
	v, ok := x.pack.NumberValue(toks[i].text)
	if !ok {
		return 0, 0, false
	}
	consumed := 1

	if v < 10 && i+consumed < len(toks) {
		if m, ok := x.pack.NumberValue(toks[i+consumed].text); ok && m == 100 {
			v *= m
			consumed++
		}
	}
	if i+consumed < len(toks) {
		next := toks[i+consumed].text
		skip := 0
		if next == "and" && i+consumed+1 < len(toks) {
			next = toks[i+consumed+1].text
			skip = 1
		}
		if add, ok := x.pack.NumberValue(next); ok && add < v && addable(v, add) {
			v += add
			consumed += 1 + skip
		}
	}
	return v, consumed, true
}

// addable keeps composition to natural pairs: hundreds take tens or units,
// round tens take units
func addable(base, add int64) bool {
	if base >= 100 && base%100 == 0 && add < 100 {
		return true
	}
	return base >= 20 && base%10 == 0 && add > 0 && add < 10
}

// ValidatePrice reports whether an agreed price sits inside the product's
// recorded range. Entries with no range recorded accept any positive amount
func ValidatePrice(amt money.Amount, e *vocab.Entry) bool {
	if amt <= 0 {
		return false
	}
	if e.MinPrice == 0 && e.MaxPrice == 0 {
		return true
	}
	return e.InPriceRange(amt)
}
