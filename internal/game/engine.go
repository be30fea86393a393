package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack21/internal/deck"
	"github.com/lox/blackjack21/internal/randutil"
)

// Mode selects how many humans share the dealer.
type Mode int

const (
	ModeSolo Mode = iota + 1 // one human against the dealer
	ModeTwoPlayer
)

// String returns the string representation of a mode
func (m Mode) String() string {
	switch m {
	case ModeSolo:
		return "solo"
	case ModeTwoPlayer:
		return "two_player"
	default:
		return "unknown"
	}
}

// Phase is the engine's position in the round state machine.
type Phase int

const (
	PhaseBetting Phase = iota
	PhasePlayersTurn
	PhaseDealerTurn
	PhaseRoundOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhasePlayersTurn:
		return "players_turn"
	case PhaseDealerTurn:
		return "dealer_turn"
	case PhaseRoundOver:
		return "round_over"
	default:
		return "unknown"
	}
}

// The dealer draws to 16 and stands on any 17, soft or hard.
const dealerStandsAt = 17

var (
	// ErrPlayer2Required is returned by Configure when two-player mode is
	// requested without a second player's profile.
	ErrPlayer2Required = errors.New("two-player mode requires a second player profile")

	// ErrInvalidMode is returned by Configure for an unknown mode value.
	ErrInvalidMode = errors.New("invalid game mode")
)

// cardSource is the engine's view of the shoe. Tests substitute a stacked
// source to script exact deals.
type cardSource interface {
	Rebuild()
	Shuffle()
	Deal() deck.Card
	Remaining() int
}

// Engine orchestrates a blackjack table: it owns the shoe and all seats,
// enforces the betting and turn rules, plays the dealer, and settles
// payouts. All methods are synchronous and must be called from one
// goroutine at a time.
type Engine struct {
	mode     Mode
	phase    Phase
	shoe     cardSource
	seats    []*Seat // length 1 or 2, play order
	dealer   *Seat
	turn     SeatID // empty outside PhasePlayersTurn
	numDecks int
	rng      *rand.Rand
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRNG supplies the random source used to shuffle the shoe. Tests use a
// seeded source for reproducible deals.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithNumDecks sets how many 52-card sets the shoe holds.
func WithNumDecks(n int) Option {
	return func(e *Engine) { e.numDecks = n }
}

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger.WithPrefix("engine") }
}

// NewEngine creates an engine in solo mode for player1. Call Configure to
// switch modes or seat a second player.
func NewEngine(player1 Profile, opts ...Option) *Engine {
	e := &Engine{
		mode:     ModeSolo,
		phase:    PhaseBetting,
		numDecks: 1,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.New(time.Now().UnixNano())
	}
	e.seats = []*Seat{NewSeat(SeatPlayer1, player1)}
	e.dealer = NewDealerSeat()
	e.shoe = deck.NewShoe(e.numDecks, e.rng)
	return e
}

// Configure sets the game mode and, in two-player mode, seats the second
// player. Misuse here is a hard error, unlike in-round rejections; the
// engine is reset to a fresh betting phase on success.
func (e *Engine) Configure(mode Mode, player2 *Profile) error {
	switch mode {
	case ModeSolo:
		e.seats = e.seats[:1]
	case ModeTwoPlayer:
		if player2 == nil {
			return ErrPlayer2Required
		}
		e.seats = append(e.seats[:1], NewSeat(SeatPlayer2, *player2))
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
	e.mode = mode
	e.PrepareForNewRound()
	e.logger.Info("table configured", "mode", mode, "seats", len(e.seats))
	return nil
}

// Seat returns the seat for id, or nil for an unknown or absent seat. The
// dealer is addressable too, for snapshot and profile purposes.
func (e *Engine) Seat(id SeatID) *Seat {
	if id == SeatDealer {
		return e.dealer
	}
	for _, s := range e.seats {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Mode returns the configured mode.
func (e *Engine) Mode() Mode { return e.mode }

// Turn returns the seat currently holding the turn, or "" when none does.
func (e *Engine) Turn() SeatID { return e.turn }

// PlaceBet records a bet for a seat during the betting phase. The amount
// leaves the chip balance immediately and is never deducted again. A seat
// gets one bet per round; settlement is the only thing that credits chips
// back.
func (e *Engine) PlaceBet(id SeatID, amount int) bool {
	if e.phase != PhaseBetting {
		e.logger.Debug("bet rejected outside betting phase", "seat", id, "phase", e.phase)
		return false
	}
	seat := e.Seat(id)
	if seat == nil || seat.IsDealer() {
		e.logger.Warn("bet for unknown or absent seat", "seat", id)
		return false
	}
	if seat.Bet > 0 {
		seat.Message = "Bet already placed for this round."
		return false
	}
	if !seat.PlaceBet(amount) {
		return false
	}
	e.logger.Debug("bet placed", "seat", id, "amount", amount, "chips", seat.Chips)
	return true
}

// StartRound deals a fresh round once every seat has bet. Hands are reset
// (bets preserved), the shoe is rebuilt and reshuffled, and two cards go to
// each seat and the dealer in strict alternating order. Initial blackjacks
// are resolved immediately, which can cascade the phase all the way to
// round over within this call.
func (e *Engine) StartRound() bool {
	if e.phase != PhaseBetting {
		e.logger.Debug("start rejected outside betting phase", "phase", e.phase)
		return false
	}
	ok := true
	for _, s := range e.seats {
		if s.Bet <= 0 {
			s.Message = fmt.Sprintf("%s must place a bet first.", s.Name)
			ok = false
		}
	}
	if !ok {
		return false
	}

	for _, s := range e.seats {
		bet := s.Bet
		s.ResetForRound()
		s.Bet = bet
	}
	e.dealer.ResetForRound()

	e.shoe.Rebuild()
	e.shoe.Shuffle()

	// Seats first, dealer last, twice over.
	for i := 0; i < 2; i++ {
		for _, s := range e.seats {
			e.dealCard(s)
		}
		e.dealCard(e.dealer)
	}

	e.phase = PhasePlayersTurn
	e.resolveInitialBlackjacks()

	e.turn = ""
	for _, s := range e.seats {
		if !s.Done {
			e.turn = s.ID
			break
		}
	}
	e.logger.Info("round started", "turn", e.turn, "shoe", e.shoe.Remaining())
	if e.turn == "" {
		e.beginDealerTurn()
	}
	return true
}

// Hit deals one card to the seat holding the turn. A bust loses on the
// spot and passes the turn; landing exactly on 21 stands automatically;
// anything else leaves the turn with the seat.
func (e *Engine) Hit(id SeatID) bool {
	seat, ok := e.actingSeat(id)
	if !ok {
		return false
	}
	e.dealCard(seat)
	value := seat.HandValue()
	switch {
	case seat.Bust:
		seat.Message = fmt.Sprintf("%s busts with %d.", seat.Name, value)
		seat.Lose()
		e.logger.Info("seat bust", "seat", id, "value", value)
		e.advanceTurn()
	case value == 21:
		seat.Message = fmt.Sprintf("%s has 21 and stands.", seat.Name)
		seat.Stand()
		e.advanceTurn()
	default:
		e.logger.Debug("hit", "seat", id, "value", value)
	}
	return true
}

// Stand ends the acting seat's turn and passes it on.
func (e *Engine) Stand(id SeatID) bool {
	seat, ok := e.actingSeat(id)
	if !ok {
		return false
	}
	seat.Stand()
	seat.Message = fmt.Sprintf("%s stands with %d.", seat.Name, seat.HandValue())
	e.advanceTurn()
	return true
}

// PrepareForNewRound resets every seat's round state and returns to the
// betting phase. Valid at any time; chips and debt carry over.
func (e *Engine) PrepareForNewRound() {
	for _, s := range e.seats {
		s.ResetForRound()
	}
	e.dealer.ResetForRound()
	e.turn = ""
	e.phase = PhaseBetting
}

// actingSeat validates that id holds the turn and may still act.
func (e *Engine) actingSeat(id SeatID) (*Seat, bool) {
	if e.phase != PhasePlayersTurn || e.turn != id {
		e.logger.Debug("action out of turn", "seat", id, "turn", e.turn, "phase", e.phase)
		return nil, false
	}
	seat := e.Seat(id)
	if seat == nil || seat.Done {
		return nil, false
	}
	return seat, true
}

func (e *Engine) dealCard(s *Seat) {
	card := e.shoe.Deal()
	if !s.AddCard(card) {
		e.logger.Error("shoe produced a malformed card", "seat", s.ID, "card", card)
	}
}

// resolveInitialBlackjacks settles every seat holding a natural, and every
// seat facing a dealer natural, right after the deal. Each seat is judged
// against the dealer independently, never against the other seat.
func (e *Engine) resolveInitialBlackjacks() {
	dealerBJ := e.dealer.Blackjack
	for _, s := range e.seats {
		switch {
		case s.Blackjack && dealerBJ:
			s.Done = true
			s.Message = fmt.Sprintf("%s pushes: both have blackjack.", s.Name)
			s.Push()
		case s.Blackjack:
			s.Done = true
			s.Message = fmt.Sprintf("%s has blackjack! Pays 3:2.", s.Name)
			s.Win(true)
		case dealerBJ:
			s.Done = true
			s.Message = fmt.Sprintf("%s loses: dealer has blackjack.", s.Name)
			s.Lose()
		}
	}
}

// advanceTurn hands the turn to the next open seat, or clears it and plays
// the dealer out synchronously when no seat remains.
func (e *Engine) advanceTurn() {
	passing := false
	for _, s := range e.seats {
		if s.ID == e.turn {
			passing = true
			continue
		}
		if passing && !s.Done {
			e.turn = s.ID
			return
		}
	}
	e.turn = ""
	e.beginDealerTurn()
}

// beginDealerTurn plays the dealer's hand and settles the round, all within
// the intent that got us here. No external input is needed past this point.
func (e *Engine) beginDealerTurn() {
	e.phase = PhaseDealerTurn
	e.playDealer()
	e.phase = PhaseRoundOver
	e.settle()
}

// playDealer draws for the dealer until 17 or bust. When no seat is left to
// compare against and the dealer has no natural of its own, the dealer
// takes the round without drawing.
func (e *Engine) playDealer() {
	anyOpen := false
	for _, s := range e.seats {
		if s.NeedsDealerComparison() {
			anyOpen = true
			break
		}
	}
	if !anyOpen && !e.dealer.Blackjack {
		e.dealer.Message = "Dealer wins by default."
		e.dealer.Done = true
		return
	}

	for e.dealer.HandValue() < dealerStandsAt && !e.dealer.Bust {
		e.dealCard(e.dealer)
	}
	e.dealer.Done = true
	value := e.dealer.HandValue()
	if e.dealer.Bust {
		e.dealer.Message = fmt.Sprintf("Dealer busts with %d.", value)
	} else {
		e.dealer.Message = fmt.Sprintf("Dealer stands with %d.", value)
	}
	e.logger.Info("dealer played", "value", value, "bust", e.dealer.Bust)
}

// settle compares every still-open seat to the dealer and credits wins and
// pushes. Seats resolved earlier (busts, naturals) keep their settlement;
// it is never applied twice.
func (e *Engine) settle() {
	dealerValue := e.dealer.HandValue()
	dealerBust := e.dealer.Bust
	for _, s := range e.seats {
		if !s.NeedsDealerComparison() {
			continue
		}
		value := s.HandValue()
		switch {
		case dealerBust:
			s.Message = fmt.Sprintf("%s wins with %d: dealer busts.", s.Name, value)
			s.Win(false)
		case value > dealerValue:
			s.Message = fmt.Sprintf("%s wins with %d vs %d.", s.Name, value, dealerValue)
			s.Win(false)
		case value < dealerValue:
			s.Message = fmt.Sprintf("%s loses with %d vs %d.", s.Name, value, dealerValue)
			s.Lose()
		default:
			s.Message = fmt.Sprintf("%s pushes at %d.", s.Name, value)
			s.Push()
		}
		e.logger.Info("seat settled", "seat", s.ID, "value", value, "dealer", dealerValue, "chips", s.Chips)
	}
	for _, s := range e.seats {
		s.Done = true
	}
	e.dealer.Done = true
}
