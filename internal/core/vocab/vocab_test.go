package vocab

import (
	"testing"

	"sikabook/internal/core/lexicon"
	"sikabook/internal/core/money"
)

func seedSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	entries := make([]Entry, 0, len(p.Products))
	for i, sp := range p.Products {
		entries = append(entries, FromSeed(string(rune('a'+i)), sp))
	}
	return NewSnapshot(entries)
}

func TestLookup(t *testing.T) {
	s := seedSnapshot(t)

	e, ok := s.Lookup("Tilapia")
	if !ok || e.CanonicalName != "Tilapia" {
		t.Fatalf("canonical lookup failed: %+v %v", e, ok)
	}
	e, ok = s.Lookup("okro") // variant
	if !ok || e.CanonicalName != "Okra" {
		t.Fatalf("variant lookup failed: %+v %v", e, ok)
	}
	e, ok = s.Lookup("apatre") // twi local name
	if !ok || e.CanonicalName != "Tilapia" {
		t.Fatalf("local name lookup failed: %+v %v", e, ok)
	}
	if _, ok = s.Lookup("quantum computer"); ok {
		t.Fatal("unknown name must not resolve")
	}
}

func TestFuzzyMatch_DistanceRules(t *testing.T) {
	s := seedSnapshot(t)

	ms := s.FuzzyMatch("tilapiaa", 3, nil)
	if len(ms) == 0 || ms[0].Entry.CanonicalName != "Tilapia" || ms[0].Distance != 1 {
		t.Fatalf("typo should resolve at distance 1: %+v", ms)
	}

	// distance 0 against a variant returns the owning entry
	ms = s.FuzzyMatch("okro", 3, nil)
	if len(ms) == 0 || ms[0].Entry.CanonicalName != "Okra" || ms[0].Distance != 0 {
		t.Fatalf("variant at distance 0: %+v", ms)
	}

	// nothing within 3 edits
	if ms = s.FuzzyMatch("xylophone", 3, nil); len(ms) != 0 {
		t.Fatalf("expected no match, got %+v", ms)
	}
}

func TestFuzzyMatch_FrequencyTieBreak(t *testing.T) {
	a := Entry{ID: "1", CanonicalName: "Koko", Active: true, Frequency: 2}
	b := Entry{ID: "2", CanonicalName: "Kolo", Active: true, Frequency: 9}
	s := NewSnapshot([]Entry{a, b})

	// "kofo" is distance 1 from both; higher frequency wins the tie
	ms := s.FuzzyMatch("kofo", 3, nil)
	if len(ms) != 2 {
		t.Fatalf("expected both candidates, got %+v", ms)
	}
	if ms[0].Entry.ID != "2" {
		t.Fatalf("frequency tie-break failed: %+v", ms)
	}
}

func TestSnapshot_ExcludesInactive(t *testing.T) {
	e := Entry{ID: "1", CanonicalName: "Ghost", Active: false}
	s := NewSnapshot([]Entry{e})
	if _, ok := s.Lookup("ghost"); ok {
		t.Fatal("inactive entries must not resolve")
	}
	if s.Len() != 0 {
		t.Fatalf("inactive entries must not be counted, len=%d", s.Len())
	}
}

func TestNewLearned(t *testing.T) {
	e := NewLearned("id-1", "Momone", "", money.FromMajor(10))
	if !e.Learned || !e.Active {
		t.Fatalf("learned entry flags wrong: %+v", e)
	}
	if e.LearningConfidence != LearnedConfidence {
		t.Fatalf("learning confidence = %v", e.LearningConfidence)
	}
	if e.MinPrice != money.FromMajor(8) || e.MaxPrice != money.FromMajor(12) {
		t.Fatalf("range = [%v, %v], want [GHS 8.00, GHS 12.00]", e.MinPrice, e.MaxPrice)
	}
}

func TestWithVariant_CapsConfidence(t *testing.T) {
	e := NewLearned("id-1", "Momone", "", money.FromMajor(10))
	cur := e
	for i := 0; i < 5; i++ {
		cur = cur.WithVariant("momoni")
	}
	if cur.LearningConfidence > 1.0 {
		t.Fatalf("confidence must cap at 1.0, got %v", cur.LearningConfidence)
	}
	// variant added once, not five times
	n := 0
	for _, v := range cur.Variants {
		if v == "momoni" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("variant duplicated %d times", n)
	}
	// the original is untouched
	if len(e.Variants) != 1 {
		t.Fatalf("clone mutated the source entry: %+v", e.Variants)
	}
}

func TestInPriceRange(t *testing.T) {
	e := Entry{MinPrice: money.FromMajor(12), MaxPrice: money.FromMajor(25)}
	if !e.InPriceRange(money.FromMajor(15)) {
		t.Fatal("15 should be in [12, 25]")
	}
	if e.InPriceRange(money.FromMajor(200)) {
		t.Fatal("200 should be out of [12, 25]")
	}
	if !e.InPriceRange(money.FromMajor(12)) || !e.InPriceRange(money.FromMajor(25)) {
		t.Fatal("range bounds are inclusive")
	}
}
