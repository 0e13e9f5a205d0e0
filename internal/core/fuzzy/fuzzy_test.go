package fuzzy

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"tilapia", "tilapia", 0},
		{"tilapia", "tilapiaa", 1},
		{"tilapia", "tilapai", 2},
		{"kenkey", "kenke", 1},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"banku", "fufu", 4},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Fatalf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	if Distance("okra", "okro") != Distance("okro", "okra") {
		t.Fatal("distance must be symmetric")
	}
}

func TestWithin(t *testing.T) {
	if d, ok := Within("tilapiaa", "tilapia", 3); !ok || d != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", d, ok)
	}
	if _, ok := Within("a", "aaaaaaaa", 3); ok {
		t.Fatal("length delta beyond max must short-circuit to false")
	}
	if d, ok := Within("kontomire", "tilapia", 3); ok {
		t.Fatalf("unrelated names should not match, got distance %d", d)
	}
}
