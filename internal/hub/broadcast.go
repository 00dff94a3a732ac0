package hub

import (
	"bytes"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/padmux/padmux/internal/engine"
)

// fullSyncInterval bounds how stale a quiet client's view can get.
const fullSyncInterval = 5 * time.Second

// Broadcaster consumes the engine's tick stream and forwards state to
// the hub. Ticks whose state did not change are coalesced; a full
// state goes out at least every fullSyncInterval.
type Broadcaster struct {
	hub     *Hub
	updates <-chan engine.Update

	mu       sync.Mutex // guards last, read by SendInitialState
	last     engine.Update
	lastBody []byte
	lastSent time.Time
	lastMode string
}

func NewBroadcaster(h *Hub, updates <-chan engine.Update) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		updates: updates,
	}
}

// Run starts the broadcaster loop. Should be run in a goroutine.
func (b *Broadcaster) Run() {
	for update := range b.updates {
		b.mu.Lock()
		b.last = update
		b.mu.Unlock()

		if update.Mode != b.lastMode {
			if b.lastMode != "" {
				b.send(NewModeChangeMessage(update.Seq, update.Mode))
			}
			b.lastMode = update.Mode
		}

		body, err := json.Marshal(stateBody{update.Devices, update.Mode, update.Profile, update.Paused})
		if err != nil {
			log.Printf("Error marshaling state: %v", err)
			continue
		}
		if bytes.Equal(body, b.lastBody) && time.Since(b.lastSent) < fullSyncInterval {
			continue
		}
		b.lastBody = body
		b.lastSent = time.Now()
		b.send(NewStateMessage(&update))
	}
}

// stateBody is the update minus its sequence number, for change
// detection only.
type stateBody struct {
	Devices interface{} `json:"devices"`
	Mode    string      `json:"mode"`
	Profile string      `json:"profile"`
	Paused  bool        `json:"paused"`
}

// SendInitialState sends the most recent full state to a newly
// connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	last := b.last
	b.mu.Unlock()
	msg := NewStateMessage(&last)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling initial state: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (b *Broadcaster) send(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
