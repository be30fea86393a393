package server

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack21/internal/game"
	"github.com/lox/blackjack21/internal/protocol"
)

// fakeClient records every message a session sends it.
type fakeClient struct {
	mu      sync.Mutex
	msgs    []*protocol.Message
	session *Session
	seat    game.SeatID
}

func (f *fakeClient) SendMessage(msg *protocol.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeClient) attach(s *Session, seat game.SeatID) {
	f.session = s
	f.seat = seat
}

func (f *fakeClient) messagesOfType(t protocol.MessageType) []*protocol.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*protocol.Message
	for _, m := range f.msgs {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeClient) lastOfType(t protocol.MessageType) *protocol.Message {
	msgs := f.messagesOfType(t)
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Game.TurnTimeoutSeconds = 30
	return cfg
}

func newTestManager(clock quartz.Clock, seed int64) *SessionManager {
	return NewSessionManager(testLogger(), clock, testConfig(), seed)
}

// openRound joins two players, places both bets and starts a round, retrying
// seeds until the opening deal leaves both players on the clock (no naturals)
// rather than cascading straight to settlement.
func openRound(t *testing.T, clock quartz.Clock) (*Session, *fakeClient, *fakeClient) {
	t.Helper()

	for seed := int64(1); seed <= 64; seed++ {
		m := newTestManager(clock, seed)
		p1, p2 := &fakeClient{}, &fakeClient{}
		require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))
		require.NoError(t, m.Join(p2, game.Profile{Name: "Bob", Chips: 100}))

		s := p1.session
		s.HandleIntent(game.SeatPlayer1, game.Intent{Kind: game.IntentPlaceBet, Amount: 10})
		s.HandleIntent(game.SeatPlayer2, game.Intent{Kind: game.IntentPlaceBet, Amount: 10})
		s.HandleIntent(game.SeatPlayer1, game.Intent{Kind: game.IntentStartRound})

		if s.engine.Phase() == game.PhasePlayersTurn &&
			s.engine.Turn() == game.SeatPlayer1 &&
			!s.engine.Seat(game.SeatPlayer2).Done {
			return s, p1, p2
		}
	}
	t.Fatal("no seed produced an open player turn")
	return nil, nil, nil
}

func TestJoinOpensPendingSession(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1 := &fakeClient{}

	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))

	assert.Equal(t, 1, m.SessionCount())
	assert.Equal(t, game.SeatPlayer1, p1.seat)

	joined := p1.lastOfType(protocol.MessageTypeJoined)
	require.NotNil(t, joined)

	var data protocol.JoinedData
	require.NoError(t, joined.Decode(&data))
	assert.Equal(t, game.SeatPlayer1, data.Seat)
	assert.Equal(t, p1.session.ID(), data.SessionID)
}

func TestJoinPairsTwoPlayers(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1, p2 := &fakeClient{}, &fakeClient{}

	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))
	require.NoError(t, m.Join(p2, game.Profile{Name: "Bob", Chips: 100}))

	assert.Equal(t, 1, m.SessionCount(), "both players share one session")
	assert.Same(t, p1.session, p2.session)
	assert.Equal(t, game.SeatPlayer2, p2.seat)

	// The first player hears about the second.
	opponent := p1.lastOfType(protocol.MessageTypeOpponentJoin)
	require.NotNil(t, opponent)
	var oppData protocol.OpponentJoinedData
	require.NoError(t, opponent.Decode(&oppData))
	assert.Equal(t, "Bob", oppData.Name)

	// Both see the opening table state.
	require.NotNil(t, p1.lastOfType(protocol.MessageTypeState))
	require.NotNil(t, p2.lastOfType(protocol.MessageTypeState))

	assert.Equal(t, game.ModeTwoPlayer, p1.session.engine.Mode())
}

func TestJoinRequiresName(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	err := m.Join(&fakeClient{}, game.Profile{Chips: 100})
	assert.Error(t, err)
	assert.Equal(t, 0, m.SessionCount())
}

func TestJoinRejectsDoubleSeat(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1 := &fakeClient{}

	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))
	assert.Error(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))
}

func TestJoinGrantsDefaultChips(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1 := &fakeClient{}

	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice"}))
	assert.Equal(t, testConfig().Game.StartingChips, p1.session.engine.Seat(game.SeatPlayer1).Chips)
}

func TestLeaveNotifiesOpponent(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1, p2 := &fakeClient{}, &fakeClient{}
	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))
	require.NoError(t, m.Join(p2, game.Profile{Name: "Bob", Chips: 100}))

	m.Leave(p1)

	assert.Equal(t, 0, m.SessionCount())
	left := p2.lastOfType(protocol.MessageTypeOpponentLeft)
	require.NotNil(t, left)
	assert.Nil(t, p1.lastOfType(protocol.MessageTypeOpponentLeft), "leaver is not notified about itself")
}

func TestLeaveClearsPendingSession(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1 := &fakeClient{}
	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))

	m.Leave(p1)

	assert.Equal(t, 0, m.SessionCount())

	// A later joiner starts a fresh session instead of pairing with a ghost.
	p2 := &fakeClient{}
	require.NoError(t, m.Join(p2, game.Profile{Name: "Bob", Chips: 100}))
	assert.Equal(t, game.SeatPlayer1, p2.seat)
}

func TestIntentSeatIsStamped(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1, p2 := &fakeClient{}, &fakeClient{}
	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))
	require.NoError(t, m.Join(p2, game.Profile{Name: "Bob", Chips: 100}))

	s := p1.session
	// Player 2 tries to bet with player 1's chips.
	s.HandleIntent(game.SeatPlayer2, game.Intent{
		Kind:   game.IntentPlaceBet,
		Seat:   game.SeatPlayer1,
		Amount: 10,
	})

	assert.Zero(t, s.engine.Seat(game.SeatPlayer1).Bet)
	assert.Equal(t, 10, s.engine.Seat(game.SeatPlayer2).Bet)
}

func TestConfigureRejectedOverWire(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1, p2 := &fakeClient{}, &fakeClient{}
	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))
	require.NoError(t, m.Join(p2, game.Profile{Name: "Bob", Chips: 100}))

	s := p1.session
	s.HandleIntent(game.SeatPlayer1, game.Intent{Kind: game.IntentConfigure, Mode: game.ModeSolo})

	require.NotNil(t, p1.lastOfType(protocol.MessageTypeError))
	assert.Equal(t, game.ModeTwoPlayer, s.engine.Mode(), "mode must not change")
}

func TestRejectedIntentSendsError(t *testing.T) {
	m := newTestManager(quartz.NewReal(), 0)
	p1, p2 := &fakeClient{}, &fakeClient{}
	require.NoError(t, m.Join(p1, game.Profile{Name: "Alice", Chips: 100}))
	require.NoError(t, m.Join(p2, game.Profile{Name: "Bob", Chips: 100}))

	s := p1.session
	before := len(p2.messagesOfType(protocol.MessageTypeState))

	// Hitting during the betting phase is out of order.
	s.HandleIntent(game.SeatPlayer1, game.Intent{Kind: game.IntentHit})

	require.NotNil(t, p1.lastOfType(protocol.MessageTypeError))
	assert.Len(t, p2.messagesOfType(protocol.MessageTypeState), before, "rejection broadcasts nothing")
}

func TestStateIsRedactedDuringPlayersTurn(t *testing.T) {
	s, p1, _ := openRound(t, quartz.NewReal())
	require.Equal(t, game.PhasePlayersTurn, s.engine.Phase())

	state := p1.lastOfType(protocol.MessageTypeState)
	require.NotNil(t, state)

	var data protocol.StateData
	require.NoError(t, state.Decode(&data))
	assert.Len(t, data.Snapshot.Dealer.Hand, 1, "only the dealer's up card is visible")
	assert.Zero(t, data.Snapshot.Dealer.PointValue)
}

func TestTurnTimeoutStandsIdlePlayer(t *testing.T) {
	mockClock := quartz.NewMock(t)
	s, _, _ := openRound(t, mockClock)

	turn := s.engine.Turn()
	require.NotEmpty(t, turn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(30 * time.Second).MustWait(ctx)

	seat := s.engine.Seat(turn)
	assert.True(t, seat.Done, "seat should stand when the clock runs out")
	assert.Contains(t, seat.Message, "timed out")
}

func TestTimeoutIgnoredAfterRoundMovesOn(t *testing.T) {
	mockClock := quartz.NewMock(t)
	s, _, _ := openRound(t, mockClock)

	// Both players act before the clock runs out.
	s.HandleIntent(s.engine.Turn(), game.Intent{Kind: game.IntentStand})
	if s.engine.Phase() == game.PhasePlayersTurn {
		s.HandleIntent(s.engine.Turn(), game.Intent{Kind: game.IntentStand})
	}
	require.Equal(t, game.PhaseRoundOver, s.engine.Phase())

	// The armed timer fires into a finished round and must change nothing.
	snapshotBefore := s.engine.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(30 * time.Second).MustWait(ctx)

	assert.Equal(t, snapshotBefore, s.engine.Snapshot())
}
