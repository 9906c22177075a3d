package viewer

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/n64"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	server := httptest.NewServer(Handler(hub))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}

	return msg
}

func TestHubBroadcastsInputs(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	conn := dial(t, hub)

	assert.Eventually(func() bool {
		return hub.Clients() == 1
	}, time.Second, 10*time.Millisecond)

	hub.OnInputs(
		[]inputcode.Code{inputcode.Axis(0, true), inputcode.Axis(0, false)},
		[]float64{0.5, 0},
		3,
	)

	msg := readMessage(t, conn)
	assert.Equal(MessageInput, msg.Type)
	assert.Equal(3, msg.HardwareID)
	assert.Equal([]Input{{Code: "AXIS_X+", Value: -1, Strength: 0.5}}, msg.Inputs)

	// a key release is still reported
	hub.OnInput(inputcode.Key(inputcode.KeyButtonA), 0, 3)

	msg = readMessage(t, conn)
	assert.Equal("KEYCODE_BUTTON_A", msg.Inputs[0].Code)
	assert.Equal(0.0, msg.Inputs[0].Strength)
}

func TestHubFiltersStatesByPlayer(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	conn := dial(t, hub)

	assert.Eventually(func() bool {
		return hub.Clients() == 1
	}, time.Second, 10*time.Millisecond)

	err := conn.WriteJSON(ClientMessage{Type: "select_player", Player: 2})
	assert.NoError(err)

	msg := readMessage(t, conn)
	assert.Equal(MessagePlayerSelected, msg.Type)
	assert.Equal(2, msg.Player)

	mem := core.NewMemory()
	c := Tee(mem, hub)

	var state n64.State
	state.Buttons[n64.A] = true

	c.SetControllerState(1, state.Snapshot())
	c.SetControllerState(2, state.Snapshot())

	msg = readMessage(t, conn)
	assert.Equal(MessageState, msg.Type)
	assert.Equal(2, msg.Player)
	assert.True(msg.State.Buttons[n64.A])

	assert.Equal(1, mem.Pushes(1))
	assert.Equal(1, mem.Pushes(2))
}
