package viewer

import (
	"time"

	"github.com/flarexio/joypad/n64"
)

type MessageType string

const (
	MessageInput          MessageType = "input"
	MessageState          MessageType = "state"
	MessagePlayerSelected MessageType = "player_selected"
)

type Input struct {
	Code     string  `json:"code"`
	Value    int     `json:"value"`
	Strength float64 `json:"strength"`
}

// Message is sent from the hub to viewers.
type Message struct {
	Type       MessageType   `json:"type"`
	Seq        int64         `json:"seq"`
	Timestamp  int64         `json:"timestamp"`
	HardwareID int           `json:"hardwareId,omitempty"`
	Inputs     []Input       `json:"inputs,omitempty"`
	Player     int           `json:"player,omitempty"`
	State      *n64.Snapshot `json:"state,omitempty"`
}

// ClientMessage is sent from a viewer to the hub.
type ClientMessage struct {
	Type   string `json:"type"`
	Player int    `json:"player"`
}

func newMessage(seq int64, t MessageType) *Message {
	return &Message{
		Type:      t,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
	}
}
