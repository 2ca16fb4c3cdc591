package textutil

import "testing"

func TestDeckTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/talks/q3_roadmap-review.pptx", "Q3 Roadmap Review"},
		{"deck.pptx", "Deck"},
		{"", "Untitled Deck"},
		{"___.pptx", "Untitled Deck"},
	}
	for _, tc := range cases {
		if got := DeckTitle(tc.in); got != tc.want {
			t.Errorf("DeckTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTernary(t *testing.T) {
	if got := Ternary(true, "a", "b"); got != "a" {
		t.Fatalf("got %q", got)
	}
	if got := Ternary(false, 1, 2); got != 2 {
		t.Fatalf("got %d", got)
	}
}
