package joypad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/n64"
)

const testInputMap = "22,21,20,19,108,104,99,96,-23,-24,-29,-30,103,102,-1,-2,-3,-4,"

func newTestSession(t *testing.T, cfg *Config) (*Session, *core.Memory) {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.Players == nil {
		cfg.Players = map[int]*PlayerConfig{
			1: {Plugged: true, Pak: n64.PakRumble, InputMap: testInputMap},
		}
	}

	cfg.Defaults()

	c := core.NewMemory()

	session, err := NewSession(cfg, c)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(session.Close)

	return session, c
}

func TestParseXBoxGamepadReport(t *testing.T) {
	assert := assert.New(t)

	data := []byte{
		0x10, 0x01, // start, dpad up
		0xFF, 0x00,
		0x7F, 0xFF, // lx
		0x80, 0x00, // ly
		0x00, 0x00,
		0x00, 0x01,
	}

	report, err := ParseXBoxGamepadReport(data)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(ButtonStart|ButtonDPadUp, report.Buttons())
	assert.Equal(uint8(0xFF), report.LeftTrigger())
	assert.Equal(uint8(0), report.RightTrigger())
	assert.Equal(ThumbStick{X: math.MaxInt16, Y: math.MinInt16}, report.LeftThumbStick())
	assert.Equal(ThumbStick{X: 0, Y: 1}, report.RightThumbStick())

	_, err = ParseXBoxGamepadReport(data[:8])
	assert.ErrorIs(err, ErrInvalidReport)
}

func TestRemoteGamepad(t *testing.T) {
	assert := assert.New(t)

	session, c := newTestSession(t, nil)

	gamepad := NewRemoteGamepad(RemoteHardwareIDBase, "remote", session.Keys(), session.Axes())

	report := NewXBoxGamepadReport(ButtonA, 0, 0, math.MaxInt16, 0, 0, 0)
	assert.ErrorIs(gamepad.Update(report), ErrGamepadNotConnected)

	assert.NoError(gamepad.Connect())
	assert.NoError(gamepad.Update(report))

	state := c.State(1)
	assert.True(state.Buttons[n64.A])
	assert.Equal(80, state.AxisX)
	assert.Equal(0, state.AxisY)

	// Stick pushed up, A released, B held.
	report = NewXBoxGamepadReport(ButtonX, 0, 0, 0, math.MaxInt16, 0, 0)
	assert.NoError(gamepad.Update(report))

	state = c.State(1)
	assert.False(state.Buttons[n64.A])
	assert.True(state.Buttons[n64.B])
	assert.Equal(0, state.AxisX)
	assert.Equal(80, state.AxisY)

	// Right stick drives the C buttons.
	report = NewXBoxGamepadReport(0, 0, 0, 0, 0, math.MaxInt16, 0)
	assert.NoError(gamepad.Update(report))

	state = c.State(1)
	assert.True(state.Buttons[n64.CRight])
	assert.False(state.Buttons[n64.B])

	gamepad.Close()

	state = c.State(1)
	assert.Equal(0, state.Pressed())
	assert.Equal(0, state.AxisX)
	assert.Equal(0, state.AxisY)

	assert.ErrorIs(gamepad.Update(report), ErrGamepadNotConnected)
}

func TestRemoteGamepadRumble(t *testing.T) {
	assert := assert.New(t)

	session, c := newTestSession(t, nil)

	var rumbles []bool
	session.AttachVibrator(RemoteHardwareIDBase, core.VibratorFunc(func(active bool) {
		rumbles = append(rumbles, active)
	}))

	gamepad := NewRemoteGamepad(RemoteHardwareIDBase, "remote", session.Keys(), session.Axes())
	assert.NoError(gamepad.Connect())
	assert.NoError(gamepad.Update(NewXBoxGamepadReport(ButtonA, 0, 0, 0, 0, 0, 0)))

	assert.True(c.Rumble(1, true))
	assert.True(c.Rumble(1, false))
	assert.Equal([]bool{true, false}, rumbles)

	assert.False(c.Rumble(2, true))
}
