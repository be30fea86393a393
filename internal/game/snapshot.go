package game

import (
	"encoding/json"
	"fmt"

	"github.com/lox/blackjack21/internal/deck"
)

// SeatState is one seat's view in a snapshot. The dealer uses the same
// shape with Chips zeroed, since the house bankroll is untracked.
type SeatState struct {
	ID           SeatID      `json:"id"`
	Name         string      `json:"name"`
	Chips        int         `json:"chips"`
	Debt         int         `json:"debt"`
	Hand         []deck.Card `json:"hand"`
	PointValue   int         `json:"pointValue"`
	CurrentBet   int         `json:"currentBet"`
	IsDone       bool        `json:"isDone"`
	IsBust       bool        `json:"isBust"`
	HasBlackjack bool        `json:"hasBlackjack"`
	RoundMessage string      `json:"roundMessage"`
}

// Snapshot describes the complete table state after an intent. It is the
// one state shape shared by the local TUI driver and the network transport.
type Snapshot struct {
	Phase  Phase       `json:"phase"`
	Mode   Mode        `json:"mode"`
	Turn   SeatID      `json:"currentTurn,omitempty"`
	Seats  []SeatState `json:"seats"`
	Dealer SeatState   `json:"dealer"`
}

// Snapshot captures the current table state. The copy is detached: mutating
// it never touches engine state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Phase: e.phase,
		Mode:  e.mode,
		Turn:  e.turn,
		Seats: make([]SeatState, 0, len(e.seats)),
	}
	for _, s := range e.seats {
		snap.Seats = append(snap.Seats, seatState(s))
	}
	snap.Dealer = seatState(e.dealer)
	snap.Dealer.Chips = 0
	return snap
}

func seatState(s *Seat) SeatState {
	hand := make([]deck.Card, len(s.Hand))
	copy(hand, s.Hand)
	return SeatState{
		ID:           s.ID,
		Name:         s.Name,
		Chips:        s.Chips,
		Debt:         s.Debt,
		Hand:         hand,
		PointValue:   s.HandValue(),
		CurrentBet:   s.Bet,
		IsDone:       s.Done,
		IsBust:       s.Bust,
		HasBlackjack: s.Blackjack,
		RoundMessage: s.Message,
	}
}

// Seat returns the state for id, or nil if the snapshot has no such seat.
func (snap *Snapshot) Seat(id SeatID) *SeatState {
	if id == SeatDealer {
		return &snap.Dealer
	}
	for i := range snap.Seats {
		if snap.Seats[i].ID == id {
			return &snap.Seats[i]
		}
	}
	return nil
}

// Phases and modes travel as their string names, not enum ordinals.

// MarshalJSON implements json.Marshaler.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, candidate := range []Phase{PhaseBetting, PhasePlayersTurn, PhaseDealerTurn, PhaseRoundOver} {
		if candidate.String() == s {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", s)
}

// MarshalJSON implements json.Marshaler.
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, candidate := range []Mode{ModeSolo, ModeTwoPlayer} {
		if candidate.String() == s {
			*m = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", s)
}
