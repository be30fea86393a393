// Package protocol defines the websocket message envelope exchanged between
// the blackjack server and its clients. The payloads reuse the engine's
// Intent and Snapshot types directly, so the wire carries exactly what a
// local driver would hand the engine in-process.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack21/internal/game"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	MessageTypeJoin   MessageType = "join"
	MessageTypeIntent MessageType = "intent"

	// Server -> Client
	MessageTypeWelcome      MessageType = "welcome"
	MessageTypeJoined       MessageType = "joined"
	MessageTypeOpponentJoin MessageType = "opponent_joined"
	MessageTypeState        MessageType = "state"
	MessageTypeError        MessageType = "error"
	MessageTypeOpponentLeft MessageType = "opponent_left"
)

func (t MessageType) String() string { return string(t) }

// Message is the base websocket message structure.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Data, v)
}

// Client -> Server payloads

// JoinData asks the server for a seat at a table. The profile carries the
// player's persistent name/chips/debt record.
type JoinData struct {
	Profile game.Profile `json:"profile"`
}

// IntentData relays one game intent to the authoritative engine. The
// server stamps the seat itself; a client cannot act for its opponent.
type IntentData struct {
	Intent game.Intent `json:"intent"`
}

// Server -> Client payloads

// WelcomeData greets a connection before it joins a session.
type WelcomeData struct {
	Message string `json:"message"`
}

// JoinedData confirms a seat assignment.
type JoinedData struct {
	SessionID string      `json:"sessionId"`
	Seat      game.SeatID `json:"seat"`
}

// OpponentJoinedData announces the second player to the first.
type OpponentJoinedData struct {
	Name string `json:"name"`
}

// StateData broadcasts the table state after an intent.
type StateData struct {
	Snapshot game.Snapshot `json:"snapshot"`
}

// ErrorData reports a rejected message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OpponentLeftData tells the surviving player the session is over.
type OpponentLeftData struct {
	Message string `json:"message"`
}
