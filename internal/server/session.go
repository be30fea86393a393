package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack21/internal/game"
	"github.com/lox/blackjack21/internal/protocol"
	"github.com/lox/blackjack21/internal/randutil"
	"github.com/lox/blackjack21/internal/sessionid"
)

// client is the session's view of a connected player. Connections implement
// it; tests substitute fakes.
type client interface {
	SendMessage(msg *protocol.Message) error
	attach(s *Session, seat game.SeatID)
}

// Session is one two-player table. All engine access is serialized through
// the session mutex; the engine itself is not safe for concurrent use.
type Session struct {
	id      string
	logger  *log.Logger
	clock   quartz.Clock
	timeout time.Duration

	mu        sync.Mutex
	engine    *game.Engine
	clients   map[game.SeatID]client
	turnTimer *quartz.Timer
	closed    bool
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// HandleIntent applies one intent from the given seat against the engine and
// broadcasts the resulting state. Seat-bound intents are stamped with the
// sender's seat so a client can never act for its opponent.
func (s *Session) HandleIntent(from game.SeatID, in game.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	switch in.Kind {
	case game.IntentConfigure:
		s.sendError(from, "intent_rejected", "Table configuration is fixed by the server.")
		return
	case game.IntentPlaceBet, game.IntentHit, game.IntentStand:
		in.Seat = from
	}

	if !s.engine.Apply(in) {
		reason := "Intent rejected."
		if seat := s.engine.Seat(from); seat != nil && seat.Message != "" {
			reason = seat.Message
		}
		s.sendError(from, "intent_rejected", reason)
		return
	}

	s.broadcastState()
	s.scheduleTurnTimer()
}

// expireTurn fires when a seat has been on the clock for the full timeout.
// The seat stands so the table is never wedged on an absent player.
func (s *Session) expireTurn(seat game.SeatID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.engine.Phase() != game.PhasePlayersTurn || s.engine.Turn() != seat {
		return
	}

	s.logger.Warn("Turn timed out, standing", "seat", seat)
	if !s.engine.Stand(seat) {
		return
	}
	// Keep the settlement message when the forced stand ended the round.
	if s.engine.Phase() == game.PhasePlayersTurn {
		if st := s.engine.Seat(seat); st != nil {
			st.Message = fmt.Sprintf("%s timed out and stands.", st.Name)
		}
	}

	s.broadcastState()
	s.scheduleTurnTimer()
}

// scheduleTurnTimer arms the timeout for whichever seat holds the turn, or
// disarms it outside the players' phase. Caller holds the mutex.
func (s *Session) scheduleTurnTimer() {
	if s.turnTimer != nil {
		s.turnTimer.Stop()
		s.turnTimer = nil
	}
	if s.timeout <= 0 || s.engine.Phase() != game.PhasePlayersTurn {
		return
	}
	seat := s.engine.Turn()
	if seat == "" {
		return
	}
	s.turnTimer = s.clock.AfterFunc(s.timeout, func() {
		s.expireTurn(seat)
	})
}

// broadcastState sends the redacted snapshot to every seat. Caller holds the
// mutex.
func (s *Session) broadcastState() {
	snapshot := protocol.RedactSnapshot(s.engine.Snapshot())
	msg, err := protocol.NewMessage(protocol.MessageTypeState, protocol.StateData{Snapshot: snapshot})
	if err != nil {
		s.logger.Error("Failed to create state message", "error", err)
		return
	}
	for seat, c := range s.clients {
		if err := c.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send state", "seat", seat, "error", err)
		}
	}
}

// sendError reports a rejected message to one seat. Caller holds the mutex.
func (s *Session) sendError(seat game.SeatID, code, message string) {
	c, ok := s.clients[seat]
	if !ok {
		return
	}
	msg, err := protocol.NewMessage(protocol.MessageTypeError, protocol.ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		s.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// close tears the session down, notifying the seat that did not initiate it.
func (s *Session) close(leaving game.SeatID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.turnTimer != nil {
		s.turnTimer.Stop()
		s.turnTimer = nil
	}

	msg, err := protocol.NewMessage(protocol.MessageTypeOpponentLeft, protocol.OpponentLeftData{
		Message: "Your opponent left the table.",
	})
	if err != nil {
		return
	}
	for seat, c := range s.clients {
		if seat != leaving {
			_ = c.SendMessage(msg)
		}
	}
}

// SessionManager pairs incoming players into sessions. The first joiner
// waits as the pending session; the second joiner completes it and play can
// begin.
type SessionManager struct {
	logger *log.Logger
	clock  quartz.Clock
	cfg    *Config
	seed   int64

	mu       sync.Mutex
	pending  *Session
	sessions map[string]*Session
	seats    map[client]*seatRef
}

type seatRef struct {
	session *Session
	seat    game.SeatID
}

// NewSessionManager creates a manager. A non-zero seed makes every session's
// shuffle deterministic, which only makes sense for tests and demos.
func NewSessionManager(logger *log.Logger, clock quartz.Clock, cfg *Config, seed int64) *SessionManager {
	return &SessionManager{
		logger:   logger.WithPrefix("sessions"),
		clock:    clock,
		cfg:      cfg,
		seed:     seed,
		sessions: make(map[string]*Session),
		seats:    make(map[client]*seatRef),
	}
}

// Join seats a player. The first player opens a new session and waits; the
// second completes the pending session and receives the opening state.
func (m *SessionManager) Join(c client, p game.Profile) error {
	if p.Name == "" {
		return fmt.Errorf("player name required")
	}
	if p.Chips <= 0 {
		p.Chips = m.cfg.Game.StartingChips
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.seats[c]; ok {
		return fmt.Errorf("already seated")
	}

	if m.pending == nil {
		opts := []game.Option{
			game.WithNumDecks(m.cfg.Game.NumDecks),
			game.WithLogger(m.logger),
		}
		if m.seed != 0 {
			opts = append(opts, game.WithRNG(randutil.New(m.seed)))
		}

		session := &Session{
			id:      sessionid.New(),
			clock:   m.clock,
			timeout: m.cfg.TurnTimeout(),
			engine:  game.NewEngine(p, opts...),
			clients: map[game.SeatID]client{game.SeatPlayer1: c},
		}
		session.logger = m.logger.With("session", session.id)

		m.pending = session
		m.sessions[session.id] = session
		m.seats[c] = &seatRef{session: session, seat: game.SeatPlayer1}
		c.attach(session, game.SeatPlayer1)

		m.logger.Info("Session opened, waiting for opponent", "session", session.id, "player", p.Name)
		m.sendJoined(c, session.id, game.SeatPlayer1)
		return nil
	}

	session := m.pending
	m.pending = nil

	session.mu.Lock()
	if err := session.engine.Configure(game.ModeTwoPlayer, &p); err != nil {
		session.mu.Unlock()
		m.pending = session
		return fmt.Errorf("failed to seat second player: %w", err)
	}
	session.clients[game.SeatPlayer2] = c
	session.mu.Unlock()

	m.seats[c] = &seatRef{session: session, seat: game.SeatPlayer2}
	c.attach(session, game.SeatPlayer2)

	m.logger.Info("Session paired", "session", session.id, "player", p.Name)
	m.sendJoined(c, session.id, game.SeatPlayer2)

	session.mu.Lock()
	defer session.mu.Unlock()
	if first, ok := session.clients[game.SeatPlayer1]; ok {
		if msg, err := protocol.NewMessage(protocol.MessageTypeOpponentJoin, protocol.OpponentJoinedData{Name: p.Name}); err == nil {
			_ = first.SendMessage(msg)
		}
	}
	session.broadcastState()
	return nil
}

// Leave removes a player and tears down their session. The surviving
// opponent is notified rather than re-queued; chips belong to the client.
func (m *SessionManager) Leave(c client) {
	m.mu.Lock()
	ref, ok := m.seats[c]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.seats, c)
	for other, otherRef := range m.seats {
		if otherRef.session == ref.session {
			delete(m.seats, other)
		}
	}
	delete(m.sessions, ref.session.id)
	if m.pending == ref.session {
		m.pending = nil
	}
	m.mu.Unlock()

	m.logger.Info("Session closed", "session", ref.session.id, "seat", ref.seat)
	ref.session.close(ref.seat)
}

// SessionCount reports how many sessions are live, the pending one included.
func (m *SessionManager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) sendJoined(c client, sessionID string, seat game.SeatID) {
	msg, err := protocol.NewMessage(protocol.MessageTypeJoined, protocol.JoinedData{
		SessionID: sessionID,
		Seat:      seat,
	})
	if err != nil {
		m.logger.Error("Failed to create joined message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}
