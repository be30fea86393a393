package deck

import (
	rand "math/rand/v2"
)

// Shoe is the live supply of cards being dealt from. It may combine several
// 52-card sets and refills itself when it runs dry, so Deal never fails.
// Not safe for concurrent use; the round engine owns it exclusively.
type Shoe struct {
	cards    []Card
	numDecks int
	rng      *rand.Rand
}

// NewShoe creates a shoe of numDecks full 52-card sets, shuffled.
// A numDecks below 1 is corrected to 1.
func NewShoe(numDecks int, rng *rand.Rand) *Shoe {
	if numDecks < 1 {
		numDecks = 1
	}
	s := &Shoe{
		cards:    make([]Card, 0, numDecks*52),
		numDecks: numDecks,
		rng:      rng,
	}
	s.Rebuild()
	s.Shuffle()
	return s
}

// Rebuild repopulates the shoe with numDecks complete 52-card sets,
// discarding whatever was left.
func (s *Shoe) Rebuild() {
	s.cards = s.cards[:0]
	for d := 0; d < s.numDecks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
}

// Shuffle randomizes the order of cards with a Fisher-Yates pass, giving
// every permutation equal probability.
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Deal removes and returns the top card. An empty shoe is rebuilt and
// reshuffled first rather than reported as an error; play never stops for
// an exhausted shoe, at the cost of cards repeating across the refill.
func (s *Shoe) Deal() Card {
	if len(s.cards) == 0 {
		s.Rebuild()
		s.Shuffle()
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card
}

// Remaining returns the number of cards left, for diagnostics only.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}
