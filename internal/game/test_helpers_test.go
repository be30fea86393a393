package game

import (
	"github.com/lox/blackjack21/internal/deck"
)

// stackedShoe deals a scripted sequence of cards in order, then cycles a
// filler deck so dealer draws never run dry. Rebuild and Shuffle are no-ops
// so StartRound cannot disturb the script.
type stackedShoe struct {
	cards []deck.Card
	next  int
}

func stackShoe(cards ...deck.Card) *stackedShoe {
	return &stackedShoe{cards: cards}
}

func (s *stackedShoe) Rebuild() {}
func (s *stackedShoe) Shuffle() {}

func (s *stackedShoe) Deal() deck.Card {
	if s.next < len(s.cards) {
		c := s.cards[s.next]
		s.next++
		return c
	}
	// Filler: an endless march of fives keeps any unscripted draw legal.
	return deck.NewCard(deck.Clubs, deck.Five)
}

func (s *stackedShoe) Remaining() int {
	return len(s.cards) - s.next
}

func card(rank deck.Rank) deck.Card {
	return deck.NewCard(deck.Spades, rank)
}

// testEngine builds a solo engine for one player with 100 chips and the
// given scripted deals.
func testEngine(cards ...deck.Card) *Engine {
	e := NewEngine(Profile{Name: "Player 1", Chips: 100})
	e.shoe = stackShoe(cards...)
	return e
}

// testEngineTwoPlayer builds a two-player engine, both seats on 100 chips.
func testEngineTwoPlayer(cards ...deck.Card) *Engine {
	e := NewEngine(Profile{Name: "Player 1", Chips: 100})
	if err := e.Configure(ModeTwoPlayer, &Profile{Name: "Player 2", Chips: 100}); err != nil {
		panic(err)
	}
	e.shoe = stackShoe(cards...)
	return e
}
