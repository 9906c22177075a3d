package joypad

import (
	"encoding/binary"
	"errors"
	"math"
	"math/bits"
	"sync"

	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/provider"
)

var (
	ErrGamepadNotConnected = errors.New("gamepad not connected")
	ErrInvalidReport       = errors.New("invalid gamepad report")
)

type Gamepad interface {
	Connect() error
	Update(report GamepadReport) error
	Close()
}

type ThumbStick struct {
	X int16
	Y int16
}

type GamepadReport interface {
	Buttons() uint16
	LeftTrigger() uint8
	RightTrigger() uint8
	LeftThumbStick() ThumbStick
	RightThumbStick() ThumbStick
}

// XInput button bits.
const (
	ButtonDPadUp        uint16 = 0x0001
	ButtonDPadDown      uint16 = 0x0002
	ButtonDPadLeft      uint16 = 0x0004
	ButtonDPadRight     uint16 = 0x0008
	ButtonStart         uint16 = 0x0010
	ButtonBack          uint16 = 0x0020
	ButtonLeftThumb     uint16 = 0x0040
	ButtonRightThumb    uint16 = 0x0080
	ButtonLeftShoulder  uint16 = 0x0100
	ButtonRightShoulder uint16 = 0x0200
	ButtonGuide         uint16 = 0x0400
	ButtonA             uint16 = 0x1000
	ButtonB             uint16 = 0x2000
	ButtonX             uint16 = 0x4000
	ButtonY             uint16 = 0x8000
)

var buttonKeys = map[uint16]int{
	ButtonDPadUp:        inputcode.KeyDPadUp,
	ButtonDPadDown:      inputcode.KeyDPadDown,
	ButtonDPadLeft:      inputcode.KeyDPadLeft,
	ButtonDPadRight:     inputcode.KeyDPadRight,
	ButtonStart:         inputcode.KeyButtonStart,
	ButtonBack:          inputcode.KeyButtonSelect,
	ButtonLeftThumb:     inputcode.KeyButtonThumbL,
	ButtonRightThumb:    inputcode.KeyButtonThumbR,
	ButtonLeftShoulder:  inputcode.KeyButtonL1,
	ButtonRightShoulder: inputcode.KeyButtonR1,
	ButtonGuide:         inputcode.KeyButtonMode,
	ButtonA:             inputcode.KeyButtonA,
	ButtonB:             inputcode.KeyButtonB,
	ButtonX:             inputcode.KeyButtonX,
	ButtonY:             inputcode.KeyButtonY,
}

const reportSize = 12

func NewXBoxGamepadReport(
	buttons uint16,
	leftTrigger uint8,
	rightTrigger uint8,
	leftThumbStickX int16,
	leftThumbStickY int16,
	rightThumbStickX int16,
	rightThumbStickY int16,
) GamepadReport {
	return &xboxGamepadReport{
		buttons,
		leftTrigger, rightTrigger,
		leftThumbStickX, leftThumbStickY,
		rightThumbStickX, rightThumbStickY,
	}
}

// ParseXBoxGamepadReport decodes the big endian datachannel report:
// buttons, triggers, then both sticks.
func ParseXBoxGamepadReport(data []byte) (GamepadReport, error) {
	if len(data) < reportSize {
		return nil, ErrInvalidReport
	}

	return NewXBoxGamepadReport(
		binary.BigEndian.Uint16(data[0:2]),
		data[2],
		data[3],
		int16(binary.BigEndian.Uint16(data[4:6])),
		int16(binary.BigEndian.Uint16(data[6:8])),
		int16(binary.BigEndian.Uint16(data[8:10])),
		int16(binary.BigEndian.Uint16(data[10:12])),
	), nil
}

type xboxGamepadReport struct {
	buttons          uint16
	leftTrigger      uint8
	rightTrigger     uint8
	leftThumbStickX  int16
	leftThumbStickY  int16
	rightThumbStickX int16
	rightThumbStickY int16
}

func (report *xboxGamepadReport) Buttons() uint16 {
	return report.buttons
}

func (report *xboxGamepadReport) LeftTrigger() uint8 {
	return report.leftTrigger
}

func (report *xboxGamepadReport) RightTrigger() uint8 {
	return report.rightTrigger
}

func (report *xboxGamepadReport) LeftThumbStick() ThumbStick {
	return ThumbStick{
		X: report.leftThumbStickX,
		Y: report.leftThumbStickY,
	}
}

func (report *xboxGamepadReport) RightThumbStick() ThumbStick {
	return ThumbStick{
		X: report.rightThumbStickX,
		Y: report.rightThumbStickY,
	}
}

// NewRemoteGamepad feeds reports from a remote peer into the key and axis
// providers under hardware id id.
func NewRemoteGamepad(id int, name string, keys *provider.KeyProvider, axes *provider.AxisProvider) Gamepad {
	return &remoteGamepad{
		keys: keys,
		axes: axes,
		device: &provider.AxisDevice{
			ID:   id,
			Name: name,
		},
	}
}

type remoteGamepad struct {
	keys      *provider.KeyProvider
	axes      *provider.AxisProvider
	device    *provider.AxisDevice
	buttons   uint16
	connected bool
	mu        sync.Mutex
}

func (gamepad *remoteGamepad) Connect() error {
	gamepad.mu.Lock()
	defer gamepad.mu.Unlock()

	gamepad.connected = true
	return nil
}

func (gamepad *remoteGamepad) Update(report GamepadReport) error {
	gamepad.mu.Lock()
	defer gamepad.mu.Unlock()

	if !gamepad.connected {
		return ErrGamepadNotConnected
	}

	gamepad.setButtons(report.Buttons())

	left := report.LeftThumbStick()
	right := report.RightThumbStick()

	// XInput sticks grow upwards, axis codes grow downwards.
	gamepad.axes.OnMotion(provider.MotionEvent{
		Device: gamepad.device,
		Values: map[int]float64{
			inputcode.AxisX:        stick(left.X),
			inputcode.AxisY:        -stick(left.Y),
			inputcode.AxisZ:        stick(right.X),
			inputcode.AxisRZ:       -stick(right.Y),
			inputcode.AxisLTrigger: float64(report.LeftTrigger()) / math.MaxUint8,
			inputcode.AxisRTrigger: float64(report.RightTrigger()) / math.MaxUint8,
		},
	})

	return nil
}

// setButtons reports the buttons that changed since the last report.
func (gamepad *remoteGamepad) setButtons(buttons uint16) {
	changed := gamepad.buttons ^ buttons
	gamepad.buttons = buttons

	for changed != 0 {
		bit := uint16(1) << bits.TrailingZeros16(changed)
		changed &^= bit

		key, ok := buttonKeys[bit]
		if !ok {
			continue
		}

		action := provider.KeyUp
		if buttons&bit != 0 {
			action = provider.KeyDown
		}

		gamepad.keys.OnKey(provider.KeyEvent{
			KeyCode:    key,
			Action:     action,
			HardwareID: gamepad.device.ID,
		})
	}
}

// Close releases everything the peer was holding.
func (gamepad *remoteGamepad) Close() {
	gamepad.mu.Lock()
	defer gamepad.mu.Unlock()

	if !gamepad.connected {
		return
	}

	gamepad.setButtons(0)
	gamepad.axes.OnMotion(provider.MotionEvent{
		Device: gamepad.device,
		Values: map[int]float64{},
	})

	gamepad.connected = false
}

func stick(v int16) float64 {
	return math.Max(-1, float64(v)/math.MaxInt16)
}
