package extract

import (
	"fmt"
	"testing"

	"sikabook/internal/core/intent"
	"sikabook/internal/core/lexicon"
	"sikabook/internal/core/money"
	"sikabook/internal/core/normalize"
	"sikabook/internal/core/vocab"
	"sikabook/internal/platform/testkit"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	return New(p)
}

func seedSnapshot(t *testing.T) *vocab.Snapshot {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	entries := make([]vocab.Entry, 0, len(p.Products))
	for i, prod := range p.Products {
		entries = append(entries, vocab.FromSeed(fmt.Sprintf("seed-%d", i), prod))
	}
	return vocab.NewSnapshot(entries)
}

func norm(t *testing.T, s string) string {
	t.Helper()
	return normalize.New().Normalize(s)
}

func TestAmount_DigitsWithMarker(t *testing.T) {
	x := testExtractor(t)

	cases := []struct {
		in   string
		want money.Amount
	}{
		{"i go give you 15 cedis", money.FromMajor(15)},
		{"make it 15.50 cedis", money.FromMinor(1550)},
		{"₵20 for everything", money.FromMajor(20)},
		{"ghc12 last price", money.FromMajor(12)},
		{"₵ 20 final", money.FromMajor(20)},
		{"add 50 pesewas on top", money.FromMinor(50)},
		{"na 10 ghana cedis i get", money.FromMajor(10)},
	}
	for _, tc := range cases {
		got, ok := x.Amount(norm(t, tc.in), intent.PriceOffer)
		if !ok {
			t.Fatalf("Amount(%q): no amount found", tc.in)
		}
		if got.Amount != tc.want {
			t.Fatalf("Amount(%q) = %v, want %v", tc.in, got.Amount, tc.want)
		}
		if !got.HasMarker {
			t.Fatalf("Amount(%q): expected marker", tc.in)
		}
	}
}

func TestAmount_SpelledNumbers(t *testing.T) {
	x := testExtractor(t)

	cases := []struct {
		in   string
		want money.Amount
	}{
		{"fifteen cedis", money.FromMajor(15)},
		{"twenty five cedis", money.FromMajor(25)},
		{"one hundred cedis", money.FromMajor(100)},
		{"hundred and fifty cedis", money.FromMajor(150)},
		{"aduonu cedis", money.FromMajor(20)},
	}
	for _, tc := range cases {
		got, ok := x.Amount(norm(t, tc.in), intent.PriceOffer)
		if !ok {
			t.Fatalf("Amount(%q): no amount found", tc.in)
		}
		if got.Amount != tc.want {
			t.Fatalf("Amount(%q) = %v, want %v", tc.in, got.Amount, tc.want)
		}
	}
}

func TestAmount_BareNumberNeedsPriceIntent(t *testing.T) {
	x := testExtractor(t)
	text := norm(t, "make it 15")

	if _, ok := x.Amount(text, intent.ProductMention); ok {
		t.Fatal("bare number under non-price intent should not extract")
	}
	got, ok := x.Amount(text, intent.PriceCounteroffer)
	if !ok {
		t.Fatal("bare number under price intent should extract")
	}
	if got.Amount != money.FromMajor(15) {
		t.Fatalf("got %v, want GHS 15", got.Amount)
	}
	if got.HasMarker {
		t.Fatal("bare number should not report a marker")
	}
	if got.Certainty >= 1.0 {
		t.Fatalf("bare number certainty = %v, want < 1.0", got.Certainty)
	}
}

func TestAmount_MarkeredBeatsBare(t *testing.T) {
	x := testExtractor(t)
	got, ok := x.Amount(norm(t, "give me 3 for 20 cedis"), intent.PriceOffer)
	if !ok {
		t.Fatal("no amount found")
	}
	if got.Amount != money.FromMajor(20) {
		t.Fatalf("got %v, want GHS 20 (the markered one)", got.Amount)
	}
}

func TestAmount_NoneWhenNoNumber(t *testing.T) {
	x := testExtractor(t)
	if _, ok := x.Amount(norm(t, "how much be the fish"), intent.PriceInquiry); ok {
		t.Fatal("expected no amount in a bare inquiry")
	}
}

func TestProduct_ExactCanonical(t *testing.T) {
	x := testExtractor(t)
	snap := seedSnapshot(t)

	m, ok := x.Product(norm(t, "I want tilapia"), snap, nil)
	if !ok {
		t.Fatal("no product found")
	}
	if m.Entry.CanonicalName != "Tilapia" {
		t.Fatalf("got %q, want Tilapia", m.Entry.CanonicalName)
	}
	if m.Kind != MatchCanonical {
		t.Fatalf("kind = %v, want canonical", m.Kind)
	}
	if m.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", m.Confidence)
	}
}

func TestProduct_MultiWordName(t *testing.T) {
	x := testExtractor(t)
	snap := seedSnapshot(t)

	m, ok := x.Product(norm(t, "two plates of jollof rice please"), snap, nil)
	if !ok {
		t.Fatal("no product found")
	}
	if m.Entry.CanonicalName != "Jollof Rice" {
		t.Fatalf("got %q, want Jollof Rice", m.Entry.CanonicalName)
	}
}

func TestProduct_VariantAndLocalName(t *testing.T) {
	x := testExtractor(t)
	snap := seedSnapshot(t)

	m, ok := x.Product(norm(t, "give me okro"), snap, nil)
	if !ok {
		t.Fatal("no product for variant")
	}
	if m.Entry.CanonicalName != "Okra" {
		t.Fatalf("variant resolved to %q, want Okra", m.Entry.CanonicalName)
	}
	if m.Kind != MatchVariant {
		t.Fatalf("kind = %v, want variant", m.Kind)
	}
	testkit.CloseTo(t, m.Confidence, 0.95, 1e-9)

	m, ok = x.Product(norm(t, "mepɛ apatre"), snap, []string{"tw"})
	if !ok {
		t.Fatal("no product for Twi local name")
	}
	if m.Entry.CanonicalName != "Tilapia" {
		t.Fatalf("local name resolved to %q, want Tilapia", m.Entry.CanonicalName)
	}
}

func TestProduct_FuzzyTypo(t *testing.T) {
	x := testExtractor(t)
	snap := seedSnapshot(t)

	m, ok := x.Product(norm(t, "I want tilapiaa"), snap, nil)
	if !ok {
		t.Fatal("no fuzzy match for tilapiaa")
	}
	if m.Entry.CanonicalName != "Tilapia" {
		t.Fatalf("fuzzy resolved to %q, want Tilapia", m.Entry.CanonicalName)
	}
	if m.Kind != MatchFuzzy {
		t.Fatalf("kind = %v, want fuzzy", m.Kind)
	}
	if m.Distance != 1 {
		t.Fatalf("distance = %d, want 1", m.Distance)
	}
	testkit.CloseTo(t, m.Confidence, 0.9, 1e-9)
}

func TestProduct_NoMatchBeyondDistance(t *testing.T) {
	x := testExtractor(t)
	snap := seedSnapshot(t)

	if m, ok := x.Product(norm(t, "I want xylophone"), snap, nil); ok {
		t.Fatalf("unexpected match %q for xylophone", m.Entry.CanonicalName)
	}
}

func TestProduct_FunctionWordsDontFuzzyMatch(t *testing.T) {
	x := testExtractor(t)
	snap := seedSnapshot(t)

	// "want" is 3 edits from "yam"; the short-token guard must reject it
	if m, ok := x.Product(norm(t, "i want something"), snap, nil); ok {
		t.Fatalf("unexpected match %q in product-free utterance", m.Entry.CanonicalName)
	}
}

func TestProductCandidate(t *testing.T) {
	x := testExtractor(t)

	got := x.ProductCandidate(norm(t, "I want 2 bowls of koose please"))
	if got != "koose" {
		t.Fatalf("candidate = %q, want koose", got)
	}
	if got := x.ProductCandidate(norm(t, "how much")); got != "" {
		t.Fatalf("candidate = %q, want empty", got)
	}
}

func TestQuantity_CountWithUnit(t *testing.T) {
	x := testExtractor(t)

	cases := []struct {
		in    string
		count int64
		unit  string
	}{
		{"give me 2 bowls of gari", 2, "bowl"},
		{"3 balls of kenkey", 3, "ball"},
		{"one olonka of gari", 1, "olonka"},
		{"five pieces", 5, "pieces"},
	}
	for _, tc := range cases {
		got, ok := x.Quantity(norm(t, tc.in), intent.QuantityMention)
		if !ok {
			t.Fatalf("Quantity(%q): nothing found", tc.in)
		}
		if got.Count != tc.count || got.Unit != tc.unit {
			t.Fatalf("Quantity(%q) = %d %s, want %d %s", tc.in, got.Count, got.Unit, tc.count, tc.unit)
		}
	}
}

func TestQuantity_BareCountOnlyUnderQuantityIntent(t *testing.T) {
	x := testExtractor(t)
	text := norm(t, "give me 3")

	got, ok := x.Quantity(text, intent.QuantityMention)
	if !ok {
		t.Fatal("bare count under quantity intent should extract")
	}
	if got.Count != 3 || got.Unit != DefaultUnit {
		t.Fatalf("got %d %s, want 3 %s", got.Count, got.Unit, DefaultUnit)
	}

	if _, ok := x.Quantity(text, intent.PriceOffer); ok {
		t.Fatal("bare count under price intent should not extract")
	}
}

func TestQuantity_TwiSpelledCount(t *testing.T) {
	x := testExtractor(t)

	got, ok := x.Quantity(norm(t, "ma me baako"), intent.QuantityMention)
	if !ok {
		t.Fatal("Twi spelled count not found")
	}
	if got.Count != 1 || got.Unit != DefaultUnit {
		t.Fatalf("got %d %s, want 1 %s", got.Count, got.Unit, DefaultUnit)
	}
}

func TestValidatePrice(t *testing.T) {
	e := vocab.Entry{
		CanonicalName: "Tilapia",
		MinPrice:      money.FromMajor(12),
		MaxPrice:      money.FromMajor(25),
		Active:        true,
	}
	if !ValidatePrice(money.FromMajor(15), &e) {
		t.Fatal("GHS 15 should be in range for Tilapia")
	}
	if ValidatePrice(money.FromMajor(200), &e) {
		t.Fatal("GHS 200 should be out of range for Tilapia")
	}
	if ValidatePrice(0, &e) {
		t.Fatal("zero is never a valid price")
	}

	open := vocab.Entry{CanonicalName: "Koose", Active: true}
	if !ValidatePrice(money.FromMajor(3), &open) {
		t.Fatal("entry without a range should accept any positive amount")
	}
}
