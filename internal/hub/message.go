package hub

import (
	"time"

	"github.com/padmux/padmux/internal/engine"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string         `json:"type"`      // "state", "mode_change", "profile_selected", "error"
	Seq       uint64         `json:"seq"`       // Sequence number for ordering
	Timestamp int64          `json:"timestamp"` // Unix timestamp in milliseconds
	State     *engine.Update `json:"state,omitempty"`
	Mode      string         `json:"mode,omitempty"`
	Profile   string         `json:"profile,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// NewStateMessage creates a "state" message carrying a full engine update.
func NewStateMessage(u *engine.Update) *WSMessage {
	return &WSMessage{
		Type:      "state",
		Seq:       u.Seq,
		Timestamp: time.Now().UnixMilli(),
		State:     u,
	}
}

// NewModeChangeMessage creates a "mode_change" event message.
func NewModeChangeMessage(seq uint64, mode string) *WSMessage {
	return &WSMessage{
		Type:      "mode_change",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Mode:      mode,
	}
}

// NewProfileSelectedMessage confirms a profile switch to one client.
func NewProfileSelectedMessage(profile string) *WSMessage {
	return &WSMessage{
		Type:      "profile_selected",
		Timestamp: time.Now().UnixMilli(),
		Profile:   profile,
	}
}

// NewErrorMessage reports a rejected client command.
func NewErrorMessage(msg string) *WSMessage {
	return &WSMessage{
		Type:      "error",
		Timestamp: time.Now().UnixMilli(),
		Error:     msg,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type    string `json:"type"` // "switch_profile", "pause", "resume"
	Profile string `json:"profile,omitempty"`
}
