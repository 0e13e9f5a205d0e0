package session

import (
	"testing"
	"time"

	"sikabook/internal/core/intent"
	"sikabook/internal/core/money"
	"sikabook/internal/core/vocab"
)

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func tilapiaEntry() *vocab.Entry {
	return &vocab.Entry{
		ID:            "seed-tilapia",
		CanonicalName: "Tilapia",
		Category:      "fish",
		MinPrice:      money.FromMajor(12),
		MaxPrice:      money.FromMajor(25),
		Active:        true,
	}
}

func productEv(at time.Time) Event {
	return Event{
		Intent:            intent.ProductMention,
		Strength:          0.85,
		Product:           &ProductObservation{Entry: tilapiaEntry(), RawText: "tilapia", Confidence: 1.0},
		Speaker:           SpeakerCustomer,
		SpeakerConfidence: 0.9,
		Snippet:           "i want tilapia",
		At:                at,
	}
}

func quantityEv(at time.Time) Event {
	return Event{
		Intent:            intent.QuantityMention,
		Strength:          0.9,
		Quantity:          &QuantityObservation{Count: 3, Unit: "pieces"},
		Speaker:           SpeakerCustomer,
		SpeakerConfidence: 0.8,
		Snippet:           "3 pieces",
		At:                at,
	}
}

func agreementEv(at time.Time, amt money.Amount) Event {
	return Event{
		Intent:            intent.PriceAgreement,
		Strength:          1.0,
		Amount:            &AmountObservation{Amount: amt, Certainty: 1.0},
		Speaker:           SpeakerSeller,
		SpeakerConfidence: 0.85,
		Snippet:           "15 cedis, deal",
		At:                at,
	}
}

func TestHappyPath_ProductQuantityAgreement(t *testing.T) {
	m := NewMachine(0)

	r := m.Apply(productEv(t0))
	if r.Outcome != OutcomeTransition || r.State != ProductDetected {
		t.Fatalf("after product: %v %v", r.Outcome, r.State)
	}

	r = m.Apply(quantityEv(t0.Add(5 * time.Second)))
	if r.Outcome != OutcomeTransition || r.State != QuantityDetected {
		t.Fatalf("after quantity: %v %v", r.Outcome, r.State)
	}

	r = m.Apply(agreementEv(t0.Add(10*time.Second), money.FromMajor(15)))
	if r.Outcome != OutcomeCompleted {
		t.Fatalf("after agreement: %v (%s)", r.Outcome, r.Reason)
	}
	if r.State != Idle || m.State() != Idle {
		t.Fatal("machine should reset to idle after completion")
	}

	c := r.Completion
	if c == nil {
		t.Fatal("completed result must carry a completion")
	}
	if c.FinalPrice != money.FromMajor(15) {
		t.Fatalf("final price = %v, want GHS 15", c.FinalPrice)
	}
	if c.OriginalPrice != money.FromMajor(15) {
		t.Fatalf("original price = %v, want GHS 15", c.OriginalPrice)
	}
	if c.Product == nil || c.Product.Entry.CanonicalName != "Tilapia" {
		t.Fatal("completion should carry the Tilapia product")
	}
	if c.Quantity == nil || c.Quantity.Count != 3 || c.Quantity.Unit != "pieces" {
		t.Fatalf("completion quantity = %+v, want 3 pieces", c.Quantity)
	}
	if c.SellerConfidence == 0 || c.CustomerConfidence == 0 {
		t.Fatal("both speaker confidence means should be populated")
	}
}

func TestCompletionEmitsExactlyOnce(t *testing.T) {
	m := NewMachine(0)
	m.Apply(productEv(t0))
	m.Apply(quantityEv(t0.Add(time.Second)))

	ev := agreementEv(t0.Add(2*time.Second), money.FromMajor(15))
	if r := m.Apply(ev); r.Outcome != OutcomeCompleted {
		t.Fatalf("first agreement: %v", r.Outcome)
	}
	r := m.Apply(ev)
	if r.Outcome != OutcomeUnrecognized {
		t.Fatalf("repeated agreement: %v, want unrecognized", r.Outcome)
	}
	if r.Completion != nil {
		t.Fatal("repeated agreement must not emit a second record")
	}
}

func TestNegotiation_PriceHistoryAndFinalPrice(t *testing.T) {
	m := NewMachine(0)

	r := m.Apply(Event{Intent: intent.PriceInquiry, Strength: 0.95, Snippet: "how much", At: t0})
	if r.State != PriceNegotiation {
		t.Fatalf("after inquiry: %v", r.State)
	}

	offer := func(amt int64, it intent.Intent, at time.Time) Event {
		return Event{
			Intent:   it,
			Strength: 0.9,
			Amount:   &AmountObservation{Amount: money.FromMajor(float64(amt)), Certainty: 1.0},
			At:       at,
		}
	}
	m.Apply(offer(25, intent.PriceOffer, t0.Add(2*time.Second)))
	m.Apply(offer(18, intent.PriceCounteroffer, t0.Add(4*time.Second)))
	m.Apply(offer(20, intent.PriceOffer, t0.Add(6*time.Second)))

	r = m.Apply(Event{Intent: intent.PriceAgreement, Strength: 1.0, Snippet: "deal", At: t0.Add(8 * time.Second)})
	if r.Outcome != OutcomeCompleted {
		t.Fatalf("agreement: %v (%s)", r.Outcome, r.Reason)
	}
	c := r.Completion
	if c.OriginalPrice != money.FromMajor(25) {
		t.Fatalf("original = %v, want GHS 25", c.OriginalPrice)
	}
	if c.FinalPrice != money.FromMajor(20) {
		t.Fatalf("final = %v, want GHS 20 (latest tracked)", c.FinalPrice)
	}
	if len(c.PriceHistory) != 3 {
		t.Fatalf("history length = %d, want 3", len(c.PriceHistory))
	}
	if c.Product != nil {
		t.Fatal("price-first conversation with no mention has no product")
	}
}

func TestNegotiation_ProductFilledLater(t *testing.T) {
	m := NewMachine(0)
	m.Apply(Event{Intent: intent.PriceInquiry, At: t0})
	m.Apply(productEv(t0.Add(time.Second)))
	m.Apply(Event{
		Intent: intent.PriceOffer,
		Amount: &AmountObservation{Amount: money.FromMajor(15), Certainty: 1.0},
		At:     t0.Add(2 * time.Second),
	})

	r := m.Apply(Event{Intent: intent.PriceAgreement, At: t0.Add(3 * time.Second)})
	if r.Outcome != OutcomeCompleted {
		t.Fatalf("agreement: %v (%s)", r.Outcome, r.Reason)
	}
	if r.Completion.Product == nil || r.Completion.Product.Entry.CanonicalName != "Tilapia" {
		t.Fatal("product mentioned mid-negotiation should land on the record")
	}
}

func TestCancellationDiscardsEverything(t *testing.T) {
	m := NewMachine(0)
	m.Apply(productEv(t0))
	m.Apply(quantityEv(t0.Add(time.Second)))

	r := m.Apply(Event{Intent: intent.Cancellation, Snippet: "never mind", At: t0.Add(2 * time.Second)})
	if r.Outcome != OutcomeCancelled || r.State != Idle {
		t.Fatalf("cancellation: %v %v", r.Outcome, r.State)
	}
	if r.Completion != nil {
		t.Fatal("cancellation must not emit a record")
	}

	// next session starts empty
	m.Apply(Event{Intent: intent.PriceInquiry, At: t0.Add(3 * time.Second)})
	m.Apply(Event{
		Intent: intent.PriceOffer,
		Amount: &AmountObservation{Amount: money.FromMajor(5), Certainty: 1.0},
		At:     t0.Add(4 * time.Second),
	})
	r = m.Apply(Event{Intent: intent.PriceAgreement, At: t0.Add(5 * time.Second)})
	if r.Outcome != OutcomeCompleted {
		t.Fatalf("post-cancel completion: %v", r.Outcome)
	}
	if r.Completion.Product != nil || r.Completion.Quantity != nil {
		t.Fatal("discarded product and quantity leaked into the next session")
	}
}

func TestTimeoutBoundary(t *testing.T) {
	m := NewMachine(0)
	m.Apply(productEv(t0))

	if _, fired := m.CheckTimeout(t0.Add(119 * time.Second)); fired {
		t.Fatal("session should survive 119s of inactivity")
	}
	if m.State() != ProductDetected {
		t.Fatal("session state lost before timeout")
	}

	r, fired := m.CheckTimeout(t0.Add(120 * time.Second))
	if !fired {
		t.Fatal("session should be discarded at 120s")
	}
	if r.Outcome != OutcomeTimedOut || r.State != Idle || m.State() != Idle {
		t.Fatalf("timeout result: %v %v", r.Outcome, r.State)
	}

	// idle machines never time out
	if _, fired := m.CheckTimeout(t0.Add(time.Hour)); fired {
		t.Fatal("idle machine has nothing to discard")
	}
}

func TestUnlistedPairsLeaveSessionUntouched(t *testing.T) {
	m := NewMachine(0)

	r := m.Apply(quantityEv(t0))
	if r.Outcome != OutcomeUnrecognized || m.State() != Idle {
		t.Fatalf("idle quantity: %v %v", r.Outcome, m.State())
	}

	m.Apply(productEv(t0))
	r = m.Apply(Event{Intent: intent.Unknown, Snippet: "how is your family", At: t0.Add(time.Second)})
	if r.Outcome != OutcomeUnrecognized || m.State() != ProductDetected {
		t.Fatalf("unknown chatter: %v %v", r.Outcome, m.State())
	}
	if r.Reason == "" {
		t.Fatal("unrecognized result should carry a reason")
	}
}

func TestAgreementWithoutAnyPriceStays(t *testing.T) {
	m := NewMachine(0)
	m.Apply(productEv(t0))
	m.Apply(quantityEv(t0.Add(time.Second)))

	r := m.Apply(Event{Intent: intent.PriceAgreement, Snippet: "deal", At: t0.Add(2 * time.Second)})
	if r.Outcome != OutcomeUnrecognized {
		t.Fatalf("priceless agreement: %v", r.Outcome)
	}
	if m.State() != QuantityDetected {
		t.Fatal("session must persist until a price arrives")
	}
}

func TestProductOverwriteLastMentionWins(t *testing.T) {
	m := NewMachine(0)
	m.Apply(productEv(t0))

	kenkey := &vocab.Entry{ID: "seed-kenkey", CanonicalName: "Kenkey", Active: true}
	m.Apply(Event{
		Intent:  intent.ProductMention,
		Product: &ProductObservation{Entry: kenkey, RawText: "kenkey", Confidence: 1.0},
		At:      t0.Add(time.Second),
	})
	m.Apply(quantityEv(t0.Add(2 * time.Second)))
	r := m.Apply(agreementEv(t0.Add(3*time.Second), money.FromMajor(4)))
	if r.Completion.Product.Entry.CanonicalName != "Kenkey" {
		t.Fatalf("product = %q, want the later mention Kenkey", r.Completion.Product.Entry.CanonicalName)
	}
}

func TestReset(t *testing.T) {
	m := NewMachine(0)
	m.Apply(productEv(t0))
	m.Reset()
	if m.State() != Idle {
		t.Fatal("reset should force idle")
	}
	if !m.LastActivity().IsZero() {
		t.Fatal("reset should clear activity tracking")
	}
}
