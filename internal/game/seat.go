package game

import (
	"fmt"

	"github.com/lox/blackjack21/internal/deck"
)

// SeatID identifies a participant position at the table.
type SeatID string

const (
	SeatPlayer1 SeatID = "player1"
	SeatPlayer2 SeatID = "player2"
	SeatDealer  SeatID = "dealer"
)

// Profile is the flat persistent record for a player: everything that
// survives a session boundary. Debt is opaque to the engine and only
// carried through.
type Profile struct {
	Name  string `json:"name"`
	Chips int    `json:"chips"`
	Debt  int    `json:"debt"`
}

// Seat represents one party in a round: a human player or the dealer.
// Hand, bet, flags and message reset every round; chips and debt persist.
type Seat struct {
	ID    SeatID
	Name  string
	Chips int
	Debt  int

	Hand      []deck.Card // deal order; the first card is the dealer's up card
	Bet       int
	Done      bool
	Bust      bool
	Blackjack bool
	Message   string
}

// NewSeat creates a seat from a persistent profile.
func NewSeat(id SeatID, p Profile) *Seat {
	return &Seat{
		ID:    id,
		Name:  p.Name,
		Chips: p.Chips,
		Debt:  p.Debt,
	}
}

// NewDealerSeat creates the dealer. The dealer's bankroll is the house's
// problem; chips are neither tracked nor checked.
func NewDealerSeat() *Seat {
	return &Seat{ID: SeatDealer, Name: "Dealer"}
}

// IsDealer reports whether this seat is the dealer.
func (s *Seat) IsDealer() bool {
	return s.ID == SeatDealer
}

// Profile returns the seat's persistent record for the store.
func (s *Seat) Profile() Profile {
	return Profile{Name: s.Name, Chips: s.Chips, Debt: s.Debt}
}

// AddCard appends a card to the hand and refreshes the derived status.
// A malformed card is rejected without mutating the hand; the caller
// decides whether that is worth logging.
func (s *Seat) AddCard(c deck.Card) bool {
	if !c.Valid() {
		return false
	}
	s.Hand = append(s.Hand, c)
	s.refreshStatus()
	return true
}

// ResetForRound clears the hand, bet, status flags and message. Chips and
// debt are untouched.
func (s *Seat) ResetForRound() {
	s.Hand = s.Hand[:0]
	s.Bet = 0
	s.Done = false
	s.Bust = false
	s.Blackjack = false
	s.Message = ""
}

// HandValue computes the blackjack value of the hand. Aces start at 11 and
// are demoted to 1 one at a time, only while the total exceeds 21. An empty
// hand is worth 0.
func (s *Seat) HandValue() int {
	value := 0
	aces := 0
	for _, c := range s.Hand {
		value += c.Points()
		if c.IsAce() {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// refreshStatus recomputes Bust and Blackjack from the hand. A bust ends
// the seat's turn immediately; a blackjack does not, that call belongs to
// the round rules.
func (s *Seat) refreshStatus() {
	value := s.HandValue()
	s.Bust = value > 21
	s.Blackjack = value == 21 && len(s.Hand) == 2
	if s.Bust {
		s.Done = true
	}
}

// PlaceBet deducts amount from chips and records it as the current bet.
// Fails with a message and no mutation if the amount is not positive or
// exceeds the chip balance.
func (s *Seat) PlaceBet(amount int) bool {
	if amount <= 0 {
		s.Message = "Bet must be a positive amount."
		return false
	}
	if amount > s.Chips {
		s.Message = "Not enough chips for that bet."
		return false
	}
	s.Chips -= amount
	s.Bet = amount
	s.Message = ""
	return true
}

// Win credits the seat for a won round. The stake was deducted at bet time,
// so a normal win returns bet*2 (stake plus 1:1 winnings) and a natural
// blackjack returns bet plus floor(bet*1.5) for the 3:2 payout.
func (s *Seat) Win(blackjack bool) {
	if s.Bet == 0 {
		return
	}
	if blackjack {
		s.Chips += s.Bet + (s.Bet*3)/2
	} else {
		s.Chips += s.Bet * 2
	}
}

// Lose forfeits the round. The stake already left the chip balance when the
// bet was placed, so there is nothing to do.
func (s *Seat) Lose() {}

// Push returns the stake on a tie.
func (s *Seat) Push() {
	s.Chips += s.Bet
}

// Stand ends the seat's turn voluntarily.
func (s *Seat) Stand() {
	s.Done = true
}

// NeedsDealerComparison reports whether this seat's hand is still open
// against the dealer: it carries a live bet and was not already resolved by
// a bust or a natural blackjack. The initial blackjack check, the
// dealer-skip rule and final settlement all share this one predicate.
func (s *Seat) NeedsDealerComparison() bool {
	return s.Bet > 0 && !s.Bust && !s.Blackjack
}

func (s *Seat) String() string {
	return fmt.Sprintf("%s(%s chips=%d bet=%d value=%d)", s.Name, s.ID, s.Chips, s.Bet, s.HandValue())
}
