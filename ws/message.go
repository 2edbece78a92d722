package ws

import (
	"encoding/json"

	"fruit-memory/game"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// SelectCardMsg is sent when the pointer is pressed over a card. The client
// translates pixel coordinates to the card index.
type SelectCardMsg struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// NewGameMsg asks for a fresh board. Symbols is optional; when empty the
// current symbol set is reused.
type NewGameMsg struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols,omitempty"`
}

// RelayoutMsg is sent when the client's window changes shape and it wants a
// different grid width. It starts a new game.
type RelayoutMsg struct {
	Type        string `json:"type"`
	CardsPerRow int    `json:"cardsPerRow"`
}

// --- Server-to-Client messages ---

// ErrorMsg is sent when a client action is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SessionStartedMsg is the first frame on a connection. Asset URLs are
// omitted when unavailable; the client then draws plain shapes and text.
type SessionStartedMsg struct {
	Type              string `json:"type"`
	SessionID         string `json:"sessionId"`
	ResolutionDelayMS int    `json:"resolutionDelayMs"`
	Background        string `json:"background,omitempty"`
	CardBack          string `json:"cardBack,omitempty"`
	Music             string `json:"music,omitempty"`
}

// SessionStateMsg carries the full view; it is sent whenever it changes.
type SessionStateMsg struct {
	Type string `json:"type"`
	game.SessionView
}

// EventMsg is a flip/conceal/match/win notification for sound and animation.
type EventMsg struct {
	Type   string `json:"type"`
	Event  string `json:"event"`
	Index  int    `json:"index"`
	Symbol string `json:"symbol,omitempty"`
	Sound  string `json:"sound,omitempty"`
}
