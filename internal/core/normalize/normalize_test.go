package normalize

import "testing"

func TestNormalize_Basic(t *testing.T) {
	n := New()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  I want   TILAPIA ", "i want tilapia"},
		{"Ｔｉｌａｐｉａ", "tilapia"},            // fullwidth folds to ascii
		{"mʼani agye", "m'ani agye"},      // twi apostrophe unification
		{"m’ani agye", "m'ani agye"},      // curly quote too
		{"15 cedis", "15 cedis"},          // nbsp collapses
		{"café", "café"},                 // NFKC composes before mark stripping
		{"a​b", "ab"},                     // zero-width format chars stripped
		{"three\npieces", "three pieces"}, // utterances are one line
		{"GH₵ 20", "gh₵ 20"},              // currency symbol survives
	}
	for _, tc := range cases {
		if got := n.Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New()
	in := "Ma me  baako​ pɛ"
	a := n.Normalize(in)
	b := n.Normalize(in)
	if a != b {
		t.Fatalf("normalization must be deterministic: %q vs %q", a, b)
	}
	if a != n.Normalize(a) {
		t.Fatalf("normalization must be idempotent: %q -> %q", a, n.Normalize(a))
	}
}

func TestNormalize_InvalidUTF8(t *testing.T) {
	n := New()
	in := string([]byte{0xff, 'o', 'k', 0xfe})
	if got := n.Normalize(in); got != "ok" {
		t.Fatalf("invalid bytes should be dropped, got %q", got)
	}
}
