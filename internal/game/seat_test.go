package game

import (
	"testing"

	"github.com/lox/blackjack21/internal/deck"
)

func TestHandValueAceDemotion(t *testing.T) {
	tests := []struct {
		name  string
		ranks []deck.Rank
		want  int
	}{
		{"empty hand", nil, 0},
		{"hard total", []deck.Rank{deck.Ten, deck.Seven}, 17},
		{"soft ace stays eleven", []deck.Rank{deck.Ace, deck.Six}, 17},
		{"ace demoted on bust", []deck.Rank{deck.Ace, deck.Six, deck.Ten}, 17},
		{"two aces one demoted", []deck.Rank{deck.Ace, deck.Ace}, 12},
		{"aces demoted one at a time", []deck.Rank{deck.Ace, deck.Ace, deck.Nine}, 21},
		{"all aces demoted still bust", []deck.Rank{deck.Ace, deck.King, deck.Queen, deck.Two}, 23},
		{"face cards are ten", []deck.Rank{deck.Jack, deck.Queen, deck.King}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSeat(SeatPlayer1, Profile{Name: "p", Chips: 100})
			for _, r := range tt.ranks {
				s.AddCard(card(r))
			}
			if got := s.HandValue(); got != tt.want {
				t.Errorf("HandValue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBlackjackIsTwoCardsOnly(t *testing.T) {
	s := NewSeat(SeatPlayer1, Profile{Chips: 100})
	s.AddCard(card(deck.Ace))
	s.AddCard(card(deck.King))
	if s.HandValue() != 21 || !s.Blackjack {
		t.Errorf("A,K should be a natural blackjack (value=%d blackjack=%v)", s.HandValue(), s.Blackjack)
	}

	// A three-card 21 is not a natural.
	s2 := NewSeat(SeatPlayer1, Profile{Chips: 100})
	for _, r := range []deck.Rank{deck.Seven, deck.Seven, deck.Seven} {
		s2.AddCard(card(r))
	}
	if s2.HandValue() != 21 {
		t.Fatalf("expected 21, got %d", s2.HandValue())
	}
	if s2.Blackjack {
		t.Error("three-card 21 must not count as blackjack")
	}
}

func TestBustForcesDone(t *testing.T) {
	s := NewSeat(SeatPlayer1, Profile{Chips: 100})
	for _, r := range []deck.Rank{deck.Ten, deck.Nine, deck.Five} {
		s.AddCard(card(r))
	}
	if !s.Bust {
		t.Fatal("24 should be bust")
	}
	if !s.Done {
		t.Error("bust must end the turn immediately")
	}
}

func TestAddCardRejectsMalformed(t *testing.T) {
	s := NewSeat(SeatPlayer1, Profile{Chips: 100})
	if s.AddCard(deck.Card{}) {
		t.Error("zero card should be rejected")
	}
	if len(s.Hand) != 0 {
		t.Error("rejected card must not join the hand")
	}
}

func TestPlaceBetValidation(t *testing.T) {
	s := NewSeat(SeatPlayer1, Profile{Chips: 100})

	if s.PlaceBet(0) {
		t.Error("zero bet should fail")
	}
	if s.PlaceBet(-5) {
		t.Error("negative bet should fail")
	}
	if s.PlaceBet(101) {
		t.Error("over-balance bet should fail")
	}
	if s.Chips != 100 || s.Bet != 0 {
		t.Errorf("failed bets must not mutate: chips=%d bet=%d", s.Chips, s.Bet)
	}
	if s.Message == "" {
		t.Error("failed bet should leave a message")
	}

	if !s.PlaceBet(40) {
		t.Fatal("valid bet should succeed")
	}
	if s.Chips != 60 || s.Bet != 40 {
		t.Errorf("bet not applied: chips=%d bet=%d", s.Chips, s.Bet)
	}
	if s.Message != "" {
		t.Error("successful bet should clear the message")
	}
}

func TestPayouts(t *testing.T) {
	tests := []struct {
		name      string
		settle    func(s *Seat)
		wantChips int
	}{
		{"normal win pays 1:1", func(s *Seat) { s.Win(false) }, 110},
		{"blackjack win pays 3:2", func(s *Seat) { s.Win(true) }, 115},
		{"push returns the stake", func(s *Seat) { s.Push() }, 100},
		{"loss keeps the forfeit", func(s *Seat) { s.Lose() }, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSeat(SeatPlayer1, Profile{Chips: 100})
			s.PlaceBet(10)
			tt.settle(s)
			if s.Chips != tt.wantChips {
				t.Errorf("chips = %d, want %d", s.Chips, tt.wantChips)
			}
		})
	}
}

func TestBlackjackPayoutRoundsDown(t *testing.T) {
	s := NewSeat(SeatPlayer1, Profile{Chips: 100})
	s.PlaceBet(5)
	s.Win(true)
	// 5 stake back plus floor(7.5) winnings.
	if s.Chips != 107 {
		t.Errorf("chips = %d, want 107", s.Chips)
	}
}

func TestWinWithoutBetIsNoop(t *testing.T) {
	s := NewSeat(SeatPlayer1, Profile{Chips: 100})
	s.Win(true)
	s.Win(false)
	if s.Chips != 100 {
		t.Errorf("chips = %d, want 100", s.Chips)
	}
}

func TestResetForRoundKeepsChipsAndDebt(t *testing.T) {
	s := NewSeat(SeatPlayer1, Profile{Name: "p", Chips: 100, Debt: 25})
	s.PlaceBet(10)
	s.AddCard(card(deck.Ten))
	s.AddCard(card(deck.King))
	s.Message = "something"
	s.Stand()

	s.ResetForRound()

	if len(s.Hand) != 0 || s.Bet != 0 || s.Done || s.Bust || s.Blackjack || s.Message != "" {
		t.Error("round state should be cleared")
	}
	if s.Chips != 90 || s.Debt != 25 {
		t.Errorf("chips/debt must survive the round boundary: chips=%d debt=%d", s.Chips, s.Debt)
	}
}
