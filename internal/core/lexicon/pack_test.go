package lexicon

import "testing"

func TestLoad(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Version < 1 {
		t.Fatalf("bad version %d", p.Version)
	}
	if p.Currency.MinorPerMajor != 100 {
		t.Fatalf("expected 100 pesewas per cedi, got %d", p.Currency.MinorPerMajor)
	}
	if len(p.Products) == 0 {
		t.Fatal("no seed products")
	}
	for _, pr := range p.Products {
		if pr.MinPrice > pr.MaxPrice {
			t.Fatalf("product %q: min %d > max %d", pr.CanonicalName, pr.MinPrice, pr.MaxPrice)
		}
	}
	for _, lang := range []string{"en", "pcm", "tw", "ga"} {
		if len(p.Intents[lang]) == 0 {
			t.Fatalf("no intent rules for %q", lang)
		}
	}
}

func TestLoad_PriceUnitsAreMinor(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, pr := range p.Products {
		if pr.CanonicalName == "Tilapia" {
			if pr.MinPrice != 1200 || pr.MaxPrice != 2500 {
				t.Fatalf("tilapia range = [%d, %d] pesewas, want [1200, 2500]", pr.MinPrice, pr.MaxPrice)
			}
			return
		}
	}
	t.Fatal("tilapia missing from seed catalogue")
}

func TestUnitFor(t *testing.T) {
	p, _ := Load()
	if c, ok := p.UnitFor("pcs"); !ok || c != "pieces" {
		t.Fatalf("pcs should map to pieces, got %q %v", c, ok)
	}
	if c, ok := p.UnitFor("Bowls"); !ok || c != "bowl" {
		t.Fatalf("Bowls should map to bowl, got %q %v", c, ok)
	}
	if _, ok := p.UnitFor("parsec"); ok {
		t.Fatal("unknown unit must not resolve")
	}
}

func TestNumberValue(t *testing.T) {
	p, _ := Load()
	cases := map[string]int64{
		"three":   3,
		"baako":   1,
		"enum":    5,
		"dunum":   10,
		"aduonum": 20,
		"ekome":   1,
	}
	for w, want := range cases {
		if v, ok := p.NumberValue(w); !ok || v != want {
			t.Fatalf("NumberValue(%q) = (%d, %v), want %d", w, v, ok, want)
		}
	}
	if _, ok := p.NumberValue("zillion"); ok {
		t.Fatal("unknown word must not resolve")
	}
}

func TestLoad_RejectsBadPack(t *testing.T) {
	bad := []string{
		`{"version":0}`,
		`{"version":1,"currency":{"minor_per_major":0}}`,
		`{"version":1,"currency":{"minor_per_major":100},
		  "products":[{"canonical_name":"X","min_price":5,"max_price":1}]}`,
		`{"version":1,"currency":{"minor_per_major":100},
		  "products":[{"canonical_name":"X"},{"canonical_name":"x"}]}`,
		`{"version":1,"currency":{"minor_per_major":100},
		  "intents":{"en":[{"intent":"bribery","strength":1,"patterns":["x"]}]}}`,
		`{"version":1,"currency":{"minor_per_major":100},
		  "intents":{"en":[{"intent":"offer","strength":1,"patterns":["("]}]}}`,
	}
	for i, b := range bad {
		if _, err := loadBytes([]byte(b)); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
