// Package viewer streams raw input events and pushed controller states to
// websocket clients. It is a diagnostic aid for building input maps.
package viewer

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/n64"
)

// Hub manages websocket clients and broadcasts messages. It is a
// provider listener, so it can be registered next to the controllers.
type Hub struct {
	log        *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	seq        atomic.Int64
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		log: zap.L().With(
			zap.String("component", "viewer"),
		),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Run serves registrations until ctx is done, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()

			h.log.Info("client connected", zap.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()

			h.log.Info("client disconnected", zap.Int("total", total))
		}
	}
}

func (h *Hub) OnInput(code inputcode.Code, strength float64, hardwareID int) {
	h.OnInputs([]inputcode.Code{code}, []float64{strength}, hardwareID)
}

// OnInputs broadcasts the non-zero entries of a batch.
func (h *Hub) OnInputs(codes []inputcode.Code, strengths []float64, hardwareID int) {
	msg := newMessage(h.seq.Add(1), MessageInput)
	msg.HardwareID = hardwareID

	for i, code := range codes {
		if strengths[i] == 0 && len(codes) > 1 {
			continue
		}

		msg.Inputs = append(msg.Inputs, Input{
			Code:     code.String(),
			Value:    int(code),
			Strength: strengths[i],
		})
	}

	if len(msg.Inputs) == 0 {
		return
	}

	h.broadcast(msg, 0)
}

// OnState broadcasts a snapshot pushed for player.
func (h *Hub) OnState(player int, snapshot n64.Snapshot) {
	msg := newMessage(h.seq.Add(1), MessageState)
	msg.Player = player
	msg.State = &snapshot

	h.broadcast(msg, player)
}

// broadcast sends msg to every client, or to the clients watching player
// when player is not zero. Clients that cannot keep up are dropped.
func (h *Hub) broadcast(msg *Message, player int) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error(err.Error())
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if player != 0 && client.Player() != player {
			continue
		}

		select {
		case client.send <- data:
		default:
			go h.Unregister(client)
		}
	}
}
