package deck

import (
	"testing"

	"github.com/lox/blackjack21/internal/randutil"
)

func TestNewShoeSize(t *testing.T) {
	tests := []struct {
		numDecks int
		want     int
	}{
		{1, 52},
		{2, 104},
		{6, 312},
		{0, 52},  // corrected up to one deck
		{-3, 52}, // same
	}

	for _, tt := range tests {
		s := NewShoe(tt.numDecks, randutil.New(1))
		if got := s.Remaining(); got != tt.want {
			t.Errorf("NewShoe(%d) has %d cards, want %d", tt.numDecks, got, tt.want)
		}
	}
}

func TestShoeContainsFullSets(t *testing.T) {
	s := NewShoe(2, randutil.New(7))

	counts := make(map[Card]int)
	for i := 0; i < 104; i++ {
		counts[s.Deal()]++
	}

	if len(counts) != 52 {
		t.Fatalf("expected 52 distinct cards, got %d", len(counts))
	}
	for card, n := range counts {
		if n != 2 {
			t.Errorf("card %s appears %d times, want 2", card, n)
		}
	}
}

func TestShoeAutoReplenish(t *testing.T) {
	s := NewShoe(1, randutil.New(42))

	for i := 0; i < 52; i++ {
		s.Deal()
	}
	if s.Remaining() != 0 {
		t.Fatalf("expected empty shoe, got %d cards", s.Remaining())
	}

	// The 53rd deal must silently rebuild and still produce a valid card.
	card := s.Deal()
	if !card.Valid() {
		t.Errorf("deal after exhaustion returned invalid card %v", card)
	}
	if s.Remaining() != 51 {
		t.Errorf("expected 51 cards after replenish deal, got %d", s.Remaining())
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := NewShoe(1, randutil.New(99))
	b := NewShoe(1, randutil.New(99))

	for i := 0; i < 52; i++ {
		if ca, cb := a.Deal(), b.Deal(); ca != cb {
			t.Fatalf("deal %d diverged: %s vs %s", i, ca, cb)
		}
	}

	c := NewShoe(1, randutil.New(100))
	d := NewShoe(1, randutil.New(99))
	same := true
	for i := 0; i < 52; i++ {
		if c.Deal() != d.Deal() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical shuffles")
	}
}
