package joypad

import (
	"errors"

	"github.com/flarexio/joypad/controller"
	"github.com/flarexio/joypad/n64"
	"github.com/flarexio/joypad/provider"
)

type InputMapRequest struct {
	Player   int    `json:"player"`
	InputMap string `json:"inputMap,omitempty"`
}

type InputMapResponse struct {
	Player   int               `json:"player"`
	InputMap string            `json:"inputMap"`
	Enabled  bool              `json:"enabled"`
	Bindings map[string]string `json:"bindings"`
}

type PlayerMapRequest struct {
	PlayerMap string `json:"playerMap"`
	Enabled   *bool  `json:"enabled,omitempty"`
}

type PlayerMapResponse struct {
	PlayerMap string        `json:"playerMap"`
	Enabled   bool          `json:"enabled"`
	Devices   map[int][]int `json:"devices"`
}

type MapDeviceRequest struct {
	HardwareID int    `json:"hardwareId"`
	Name       string `json:"name,omitempty"`
	Player     int    `json:"player"`
}

type ControllerStateRequest struct {
	Player int `json:"player"`
}

type ControllerStateResponse struct {
	Player   int          `json:"player"`
	Buttons  []string     `json:"buttons"`
	AxisX    float64      `json:"axisX"`
	AxisY    float64      `json:"axisY"`
	Snapshot n64.Snapshot `json:"snapshot"`
}

func NewControllerStateResponse(player int, state n64.State) *ControllerStateResponse {
	buttons := make([]string, 0)
	for i := 0; i < n64.NumButtons; i++ {
		if state.Buttons[i] {
			buttons = append(buttons, n64.Command(i).String())
		}
	}

	return &ControllerStateResponse{
		Player:   player,
		Buttons:  buttons,
		AxisX:    state.AxisX,
		AxisY:    state.AxisY,
		Snapshot: state.Snapshot(),
	}
}

type SensorRequest struct {
	Enabled bool `json:"enabled"`
}

type ICEServersRequest struct {
	Provider string `json:"provider"`
}

// TouchMessage is the JSON form of a touch event sent over the "touch"
// datachannel.
type TouchMessage struct {
	Action   string         `json:"action"`
	Index    int            `json:"index"`
	Pointers []TouchPointer `json:"pointers"`
}

type TouchPointer struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

var touchActions = map[string]controller.TouchAction{
	"down":         controller.TouchDown,
	"pointer_down": controller.TouchPointerDown,
	"move":         controller.TouchMove,
	"pointer_up":   controller.TouchPointerUp,
	"up":           controller.TouchUp,
	"cancel":       controller.TouchCancel,
}

var ErrInvalidTouchAction = errors.New("invalid touch action")

func (msg *TouchMessage) Event() (controller.TouchEvent, error) {
	action, ok := touchActions[msg.Action]
	if !ok {
		return controller.TouchEvent{}, ErrInvalidTouchAction
	}

	pointers := make([]controller.Pointer, len(msg.Pointers))
	for i, p := range msg.Pointers {
		pointers[i] = controller.Pointer{ID: p.ID, X: p.X, Y: p.Y}
	}

	return controller.TouchEvent{
		Action:   action,
		Index:    msg.Index,
		Pointers: pointers,
	}, nil
}

// MogaMessage carries one MOGA controller event. Key events name a key
// code and action, motion events the axis values.
type MogaMessage struct {
	Type         string          `json:"type"`
	ControllerID int             `json:"controllerId"`
	KeyCode      int             `json:"keyCode,omitempty"`
	Action       string          `json:"action,omitempty"`
	Values       map[int]float64 `json:"values,omitempty"`
}

var ErrInvalidMogaMessage = errors.New("invalid moga message")

func (msg *MogaMessage) Dispatch(moga *provider.MogaProvider) error {
	switch msg.Type {
	case "key":
		var action provider.KeyAction
		switch msg.Action {
		case "down":
			action = provider.KeyDown
		case "up":
			action = provider.KeyUp
		default:
			return ErrInvalidMogaMessage
		}

		moga.OnKeyEvent(provider.MogaKeyEvent{
			KeyCode:      msg.KeyCode,
			Action:       action,
			ControllerID: msg.ControllerID,
		})

	case "motion":
		moga.OnMotionEvent(provider.MogaMotionEvent{
			ControllerID: msg.ControllerID,
			Values:       msg.Values,
		})

	default:
		return ErrInvalidMogaMessage
	}

	return nil
}
