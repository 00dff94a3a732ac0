package hub

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// Controller is the engine surface client commands act on.
type Controller interface {
	SwitchProfile(name string) error
	SetPaused(paused bool)
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			break
		}
	}
}

// ReadPump reads client commands and applies them to the controller.
func (c *Client) ReadPump(ctrl Controller) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Error parsing client message: %v", err)
			continue
		}

		switch clientMsg.Type {
		case "switch_profile":
			if err := ctrl.SwitchProfile(clientMsg.Profile); err != nil {
				log.Printf("Profile switch to %q failed: %v", clientMsg.Profile, err)
				c.reply(NewErrorMessage(err.Error()))
				continue
			}
			c.reply(NewProfileSelectedMessage(clientMsg.Profile))
		case "pause":
			ctrl.SetPaused(true)
		case "resume":
			ctrl.SetPaused(false)
		default:
			log.Printf("Unknown client message type %q", clientMsg.Type)
		}
	}
}

func (c *Client) reply(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
