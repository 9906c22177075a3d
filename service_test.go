package joypad

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/joypad/controller"
	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/mapping"
	"github.com/flarexio/joypad/n64"
)

func TestICEServers(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{
		WebRTC: WebRTC{
			ICEServers: []*ICEServer{
				{
					Provider: Google,
				},
			},
		},
	}

	session, _ := newTestSession(t, cfg)

	svc := NewService(cfg, session, nil)
	for _, cfg := range cfg.WebRTC.ICEServers {
		switch cfg.Provider {
		case Google:
			servers, err := svc.ICEServers(Google)
			if err != nil {
				assert.Fail(err.Error())
				return
			}

			assert.Len(servers, 1)
			assert.Len(servers[0].URLs, 5)
		}
	}

	_, err := svc.ICEServers(Cloudflare)
	assert.Error(err)
}

func TestServiceInputMap(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{}
	session, c := newTestSession(t, cfg)
	svc := NewService(cfg, session, nil)

	resp, err := svc.InputMap(1)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.True(resp.Enabled)
	assert.Equal("KEYCODE_BUTTON_A", resp.Bindings["a"])
	assert.Equal(mapping.ParseInputMap(testInputMap).Serialize(), resp.InputMap)

	_, err = svc.InputMap(5)
	assert.ErrorIs(err, mapping.ErrInvalidPlayer)

	// Press A, then rebind A elsewhere: the held button is dropped.
	session.Keys().Notify(96, 1, 0)
	assert.True(c.State(1).Buttons[n64.A])

	assert.NoError(svc.SetInputMap(1, "0,0,0,0,0,0,0,97,"))
	assert.False(c.State(1).Buttons[n64.A])

	session.Keys().Notify(97, 1, 0)
	assert.True(c.State(1).Buttons[n64.A])
}

func TestServicePlayerMap(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{
		Players: map[int]*PlayerConfig{
			1: {Plugged: true, InputMap: testInputMap},
			2: {Plugged: true, InputMap: testInputMap},
		},
	}

	session, c := newTestSession(t, cfg)
	svc := NewService(cfg, session, nil)

	enabled := true
	assert.NoError(svc.SetPlayerMap("1:4,", &enabled))
	assert.NoError(svc.MapDevice(7, "pad", 2))

	resp, err := svc.PlayerMap()
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.True(resp.Enabled)
	assert.Equal("1:4,2:pad#7,", resp.PlayerMap)
	assert.Equal(map[int][]int{1: {4}, 2: {7}}, resp.Devices)

	session.Keys().Notify(96, 1, 7)
	assert.False(c.State(1).Buttons[n64.A])
	assert.True(c.State(2).Buttons[n64.A])

	assert.ErrorIs(svc.MapDevice(7, "", 9), mapping.ErrInvalidPlayer)

	assert.NoError(svc.MapDevice(7, "", 0))
	resp, _ = svc.PlayerMap()
	assert.Equal("1:4,", resp.PlayerMap)
}

func TestServiceControllerState(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{}
	session, _ := newTestSession(t, cfg)
	svc := NewService(cfg, session, nil)

	session.Keys().Notify(96, 1, 0)
	session.Keys().Notify(108, 1, 0)

	resp, err := svc.ControllerState(1)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal([]string{"start", "a"}, resp.Buttons)
	assert.True(resp.Snapshot.Buttons[n64.A])

	_, err = svc.ControllerState(3)
	assert.ErrorIs(err, ErrPlayerNotFound)
}

func TestServiceSensorDisabled(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{}
	session, _ := newTestSession(t, cfg)
	svc := NewService(cfg, session, nil)

	assert.ErrorIs(svc.SetSensorEnabled(true), ErrSensorDisabled)

	_, err := svc.AcceptPeer(webrtc.SessionDescription{}, "peers.negotiation.x")
	assert.ErrorIs(err, ErrSignalingUnavailable)
}

func sample(x, y, z float32) []byte {
	data := make([]byte, 12)
	binary.BigEndian.PutUint32(data[0:4], math.Float32bits(x))
	binary.BigEndian.PutUint32(data[4:8], math.Float32bits(y))
	binary.BigEndian.PutUint32(data[8:12], math.Float32bits(z))
	return data
}

func TestPeerDispatch(t *testing.T) {
	assert := assert.New(t)

	deadzone := 0.0
	cfg := &Config{
		Sensor: &SensorConfig{
			Player:   2,
			AxisX:    "x/z",
			Deadzone: &deadzone,
		},
		Touch: &TouchConfig{
			Player: 3,
			Zones: []controller.Zone{
				{Button: controller.TouchButton(n64.Z), Rect: controller.Rect{X0: 0, Y0: 0, X1: 100, Y1: 100}},
			},
		},
	}

	session, c := newTestSession(t, cfg)
	svc := NewService(cfg, session, nil)

	conn, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	peer := NewPeer(conn, session, RemoteHardwareIDBase, session.log)
	defer peer.Close()

	// The sensor only listens once enabled.
	rad := 7.5 * math.Pi / 180
	tilt := sample(float32(math.Sin(rad)), 0, float32(math.Cos(rad)))

	assert.NoError(peer.dispatch(LabelAccelerometer, tilt))
	assert.Equal(0, c.Pushes(2))

	assert.NoError(svc.SetSensorEnabled(true))
	assert.True(session.Accelerometer().Running())

	assert.NoError(peer.dispatch(LabelAccelerometer, tilt))
	assert.Equal(40, c.State(2).AxisX)

	assert.ErrorIs(peer.dispatch(LabelAccelerometer, tilt[:4]), ErrInvalidSample)

	// Touch
	assert.NoError(peer.dispatch(LabelTouch, []byte(`{"action":"down","pointers":[{"id":0,"x":50,"y":50}]}`)))
	assert.True(c.State(3).Buttons[n64.Z])

	assert.NoError(peer.dispatch(LabelTouch, []byte(`{"action":"up","pointers":[{"id":0,"x":50,"y":50}]}`)))
	assert.False(c.State(3).Buttons[n64.Z])

	assert.ErrorIs(peer.dispatch(LabelTouch, []byte(`{"action":"hover"}`)), ErrInvalidTouchAction)
	assert.ErrorIs(peer.dispatch(LabelTouch, []byte(`{"action":"down","pointers":[{"id":300,"x":0,"y":0}]}`)),
		controller.ErrPointerOutOfRange)

	// Moga buttons share the key code space.
	assert.NoError(peer.dispatch(LabelMoga, []byte(`{"type":"key","controllerId":3,"keyCode":96,"action":"down"}`)))
	assert.True(c.State(1).Buttons[n64.A])

	assert.NoError(peer.dispatch(LabelMoga, []byte(`{"type":"motion","controllerId":3,"values":{"0":-1}}`)))
	assert.Equal(-80, c.State(1).AxisX)

	assert.ErrorIs(peer.dispatch(LabelMoga, []byte(`{"type":"key","action":"hold"}`)), ErrInvalidMogaMessage)

	// Gamepad reports are dropped until the connection is up.
	report := make([]byte, 12)
	binary.BigEndian.PutUint16(report, ButtonB)
	assert.ErrorIs(peer.dispatch(LabelGamepad, report), ErrGamepadNotConnected)

	assert.Error(peer.dispatch("video", nil))
}

func TestPeerTouchFeedback(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{
		Touch: &TouchConfig{
			Player: 1,
			Zones: []controller.Zone{
				{Button: controller.TouchButton(n64.Z), Rect: controller.Rect{X0: 0, Y0: 0, X1: 100, Y1: 100}},
			},
		},
	}

	session, _ := newTestSession(t, cfg)

	conn, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	peer := NewPeer(conn, session, RemoteHardwareIDBase, session.log)
	defer peer.Close()

	rumbles := make(chan bool, 8)
	session.AttachVibrator(RemoteHardwareIDBase, core.VibratorFunc(func(active bool) {
		rumbles <- active
	}))

	// another device's motor stays quiet
	session.AttachVibrator(RemoteHardwareIDBase+1, core.VibratorFunc(func(active bool) {
		assert.Fail("feedback sent to the wrong device")
	}))

	assert.NoError(peer.dispatch(LabelTouch, []byte(`{"action":"down","pointers":[{"id":0,"x":50,"y":50}]}`)))

	for _, expected := range []bool{true, false} {
		select {
		case active := <-rumbles:
			assert.Equal(expected, active)
		case <-time.After(time.Second):
			assert.Fail("touch feedback not played")
			return
		}
	}

	assert.NoError(peer.dispatch(LabelTouch, []byte(`{"action":"up","pointers":[{"id":0,"x":50,"y":50}]}`)))
}
