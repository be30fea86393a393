package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack21/internal/client"
	"github.com/lox/blackjack21/internal/game"
	"github.com/lox/blackjack21/internal/protocol"
)

// Driver feeds intents into a game and surfaces its events as Bubble Tea
// messages. The model is identical whether the game runs in-process or on a
// remote server; only the driver changes.
type Driver interface {
	// Init produces the driver's startup command (joining a server, or the
	// opening snapshot for a local game).
	Init() tea.Cmd

	// Next waits for the driver's next event. Local games are synchronous
	// and return nil.
	Next() tea.Cmd

	// Apply submits one intent.
	Apply(in game.Intent) tea.Cmd

	// Seat is the seat this driver acts for.
	Seat() game.SeatID

	// Close releases the driver's resources.
	Close() error
}

// Messages a driver can deliver to the model.

// StateMsg carries a fresh table snapshot.
type StateMsg struct {
	Snapshot game.Snapshot
}

// ErrMsg reports a rejected intent or transport error.
type ErrMsg struct {
	Code    string
	Message string
}

// SeatedMsg confirms a seat at a server table.
type SeatedMsg struct {
	SessionID string
	Seat      game.SeatID
}

// InfoMsg carries free-form server chatter worth showing in the log.
type InfoMsg struct {
	Text string
}

// OpponentJoinedMsg announces the second player.
type OpponentJoinedMsg struct {
	Name string
}

// OpponentLeftMsg ends a network game.
type OpponentLeftMsg struct {
	Message string
}

// DisconnectedMsg reports a dropped server connection.
type DisconnectedMsg struct{}

// LocalDriver runs the engine in-process for solo play. Snapshots are
// redacted the same way the server would, so the dealer's hole card stays
// face down until the dealer acts.
type LocalDriver struct {
	engine *game.Engine
}

// NewLocalDriver wraps an engine for solo play.
func NewLocalDriver(engine *game.Engine) *LocalDriver {
	return &LocalDriver{engine: engine}
}

func (d *LocalDriver) Init() tea.Cmd {
	return d.stateCmd()
}

func (d *LocalDriver) Next() tea.Cmd { return nil }

func (d *LocalDriver) Apply(in game.Intent) tea.Cmd {
	switch in.Kind {
	case game.IntentPlaceBet, game.IntentHit, game.IntentStand:
		in.Seat = game.SeatPlayer1
	}

	if !d.engine.Apply(in) {
		reason := "That is not possible right now."
		if seat := d.engine.Seat(game.SeatPlayer1); seat != nil && seat.Message != "" {
			reason = seat.Message
		}
		return func() tea.Msg {
			return ErrMsg{Code: "intent_rejected", Message: reason}
		}
	}
	return d.stateCmd()
}

func (d *LocalDriver) Seat() game.SeatID { return game.SeatPlayer1 }

func (d *LocalDriver) Close() error { return nil }

// Profile returns the player's current record, for saving on exit.
func (d *LocalDriver) Profile() game.Profile {
	return d.engine.Seat(game.SeatPlayer1).Profile()
}

func (d *LocalDriver) stateCmd() tea.Cmd {
	snapshot := protocol.RedactSnapshot(d.engine.Snapshot())
	return func() tea.Msg {
		return StateMsg{Snapshot: snapshot}
	}
}

// NetworkDriver plays at a remote table through a websocket client. Intents
// go up; snapshots and errors come back down on the message channel.
type NetworkDriver struct {
	client  *client.Client
	profile game.Profile

	mu   sync.RWMutex
	seat game.SeatID
	last *game.Profile
}

// NewNetworkDriver creates a driver for an already connected client.
func NewNetworkDriver(c *client.Client, profile game.Profile) *NetworkDriver {
	return &NetworkDriver{client: c, profile: profile}
}

func (d *NetworkDriver) Init() tea.Cmd {
	join := func() tea.Msg {
		if err := d.client.Join(d.profile); err != nil {
			return ErrMsg{Code: "join_failed", Message: err.Error()}
		}
		return nil
	}
	return tea.Batch(join, d.Next())
}

func (d *NetworkDriver) Next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-d.client.Messages()
		if !ok {
			return DisconnectedMsg{}
		}
		return d.translate(msg)
	}
}

func (d *NetworkDriver) Apply(in game.Intent) tea.Cmd {
	if err := d.client.SendIntent(in); err != nil {
		return func() tea.Msg {
			return ErrMsg{Code: "send_failed", Message: err.Error()}
		}
	}
	// The resulting state arrives on the message channel.
	return nil
}

func (d *NetworkDriver) Seat() game.SeatID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.seat
}

func (d *NetworkDriver) Close() error {
	return d.client.Disconnect()
}

// Profile returns the player's latest record as seen in server snapshots,
// for saving on exit.
func (d *NetworkDriver) Profile() game.Profile {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.last != nil {
		return *d.last
	}
	return d.profile
}

// recordProfile keeps the player's chip count current across snapshots.
func (d *NetworkDriver) recordProfile(snap game.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seat == "" {
		return
	}
	if st := snap.Seat(d.seat); st != nil {
		d.last = &game.Profile{Name: st.Name, Chips: st.Chips, Debt: st.Debt}
	}
}

// translate converts a wire message into the model's vocabulary.
func (d *NetworkDriver) translate(msg *protocol.Message) tea.Msg {
	switch msg.Type {
	case protocol.MessageTypeWelcome:
		var data protocol.WelcomeData
		if err := msg.Decode(&data); err != nil {
			return ErrMsg{Code: "bad_message", Message: err.Error()}
		}
		return InfoMsg{Text: data.Message}

	case protocol.MessageTypeJoined:
		var data protocol.JoinedData
		if err := msg.Decode(&data); err != nil {
			return ErrMsg{Code: "bad_message", Message: err.Error()}
		}
		d.mu.Lock()
		d.seat = data.Seat
		d.mu.Unlock()
		return SeatedMsg{SessionID: data.SessionID, Seat: data.Seat}

	case protocol.MessageTypeOpponentJoin:
		var data protocol.OpponentJoinedData
		if err := msg.Decode(&data); err != nil {
			return ErrMsg{Code: "bad_message", Message: err.Error()}
		}
		return OpponentJoinedMsg{Name: data.Name}

	case protocol.MessageTypeState:
		var data protocol.StateData
		if err := msg.Decode(&data); err != nil {
			return ErrMsg{Code: "bad_message", Message: err.Error()}
		}
		d.recordProfile(data.Snapshot)
		return StateMsg{Snapshot: data.Snapshot}

	case protocol.MessageTypeError:
		var data protocol.ErrorData
		if err := msg.Decode(&data); err != nil {
			return ErrMsg{Code: "bad_message", Message: err.Error()}
		}
		return ErrMsg{Code: data.Code, Message: data.Message}

	case protocol.MessageTypeOpponentLeft:
		var data protocol.OpponentLeftData
		if err := msg.Decode(&data); err != nil {
			return ErrMsg{Code: "bad_message", Message: err.Error()}
		}
		return OpponentLeftMsg{Message: data.Message}

	default:
		return InfoMsg{Text: "Unhandled server message: " + msg.Type.String()}
	}
}
