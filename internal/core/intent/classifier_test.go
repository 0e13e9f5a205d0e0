package intent

import (
	"testing"

	"sikabook/internal/core/lexicon"
	"sikabook/internal/core/normalize"
)

func mustClassifier(t *testing.T) (*Classifier, *normalize.Normalizer) {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	return New(p), normalize.New()
}

func TestClassify_Basics(t *testing.T) {
	c, n := mustClassifier(t)

	cases := []struct {
		text string
		want Intent
	}{
		{"I want tilapia", ProductMention},
		{"3 pieces", QuantityMention},
		{"how much is it", PriceInquiry},
		{"it is 15 cedis", PriceOffer},
		{"what about 12", PriceCounteroffer},
		{"deal", PriceAgreement},
		{"never mind", Cancellation},
		{"the weather is nice today", Unknown},
		{"", Unknown},
	}
	for _, tc := range cases {
		got := c.Classify(n.Normalize(tc.text))
		if got.Intent != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.text, got.Intent, tc.want)
		}
	}
}

func TestClassify_PriorityResolvesMultiMatch(t *testing.T) {
	c, n := mustClassifier(t)

	// contains a price offer ("15 cedis") and an agreement ("deal");
	// agreement outranks offer
	got := c.Classify(n.Normalize("15 cedis, deal"))
	if got.Intent != PriceAgreement {
		t.Fatalf("expected agreement to win, got %s", got.Intent)
	}

	// cancellation outranks everything
	got = c.Classify(n.Normalize("never mind, I don't want the 3 pieces"))
	if got.Intent != Cancellation {
		t.Fatalf("expected cancellation to win, got %s", got.Intent)
	}
}

func TestClassify_CodeSwitched(t *testing.T) {
	c, n := mustClassifier(t)

	// twi quantity phrase inside an otherwise english turn
	got := c.Classify(n.Normalize("Ma me baako"))
	if got.Intent != QuantityMention {
		t.Fatalf("expected quantity from twi matcher, got %s", got.Intent)
	}

	// pidgin inquiry
	got = c.Classify(n.Normalize("How much be the tilapia"))
	if got.Intent != PriceInquiry {
		t.Fatalf("expected inquiry from pidgin matcher, got %s", got.Intent)
	}
}

func TestClassify_NumberCurrencyCooccurrence(t *testing.T) {
	c, n := mustClassifier(t)

	got := c.Classify(n.Normalize("20 ghana cedis"))
	if got.Intent != PriceOffer {
		t.Fatalf("number+currency should read as offer, got %s", got.Intent)
	}
	if got.Strength >= 0.9 {
		t.Fatalf("co-occurrence is weaker than phrase rules, got strength %v", got.Strength)
	}

	// bare numbers carry no price signal on their own
	got = c.Classify(n.Normalize("42"))
	if got.Intent != Unknown {
		t.Fatalf("bare number should be unknown, got %s", got.Intent)
	}
}

func TestClassify_NeverErrors(t *testing.T) {
	c, _ := mustClassifier(t)
	for _, s := range []string{"", "???", "\x00", "ɛɛɛɛɛ", "1234567890"} {
		got := c.Classify(s)
		if got.Intent == Unknown && got.Strength != 0 {
			t.Fatalf("unknown match must carry zero strength, got %v", got.Strength)
		}
	}
}
