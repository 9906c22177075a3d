package viewer

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/flarexio/joypad/mapping"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one connected viewer. It receives raw inputs and the states
// pushed for the player it watches.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	player atomic.Int32
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	c.player.Store(1)
	return c
}

func (c *Client) Player() int {
	return int(c.player.Load())
}

func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.log.Warn("invalid client message", zap.Error(err))
			continue
		}

		switch msg.Type {
		case "select_player":
			if msg.Player < 1 || msg.Player > mapping.MaxPlayers {
				c.hub.log.Warn("invalid player", zap.Int("player", msg.Player))
				continue
			}

			c.player.Store(int32(msg.Player))

			reply := newMessage(0, MessagePlayerSelected)
			reply.Player = msg.Player

			data, _ := json.Marshal(reply)

			select {
			case c.send <- data:
			default:
			}
		}
	}
}

// Handler upgrades requests to websocket viewers of hub.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(hub, conn)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
