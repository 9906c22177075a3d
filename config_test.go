package joypad

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/test-go/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/joypad/controller"
	"github.com/flarexio/joypad/mapping"
	"github.com/flarexio/joypad/n64"
	"github.com/flarexio/joypad/provider"
)

func TestConfig(t *testing.T) {
	assert := assert.New(t)

	f, err := os.Open("./config.example.yaml")
	if err != nil {
		assert.Fail(err.Error())
		return
	}
	defer f.Close()

	var cfg *Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		assert.Fail(err.Error())
		return
	}

	cfg.Defaults()
	assert.NoError(cfg.Validate())

	assert.Len(cfg.WebRTC.ICEServers, 3)
	assert.Equal(Google, cfg.WebRTC.ICEServers[0].Provider)
	assert.Equal(Metered, cfg.WebRTC.ICEServers[2].Provider)

	assert.Len(cfg.Players, 2)
	assert.Equal(n64.PakMemory, cfg.Players[1].Pak)
	assert.Equal(n64.PakRumble, cfg.Players[2].Pak)

	inputMap := mapping.ParseInputMap(cfg.Players[1].InputMap)
	assert.Equal(n64.A, inputMap.Get(96))
	assert.Equal(n64.Pause, inputMap.Get(110))

	assert.Equal(provider.AxisN64UsbStick, cfg.Axes.Devices["Mayflash N64 Adapter"][0])
	assert.Equal(provider.AxisIgnored, cfg.Axes.Devices["Mayflash N64 Adapter"][11])

	touch := cfg.Touch
	if !assert.NotNil(touch) {
		return
	}

	assert.Equal(controller.AutoHoldLongPress, touch.AutoHold)
	assert.Equal([]controller.TouchButton{controller.TouchButton(n64.Start)}, touch.NotAutoHoldable)
	assert.Len(touch.Zones, 6)
	assert.Equal(controller.DPadRightUp, touch.Zones[4].Button)
	assert.Equal(controller.ToggleSensor, touch.Zones[5].Button)
	assert.Equal(300, touch.Analog.CenterX)

	sensor := cfg.Sensor
	if !assert.NotNil(sensor) {
		return
	}

	assert.Equal("y/z", sensor.AxisX)
	assert.InDelta(0.2, *sensor.Deadzone, 1e-9)
	assert.True(sensor.AutoCalibrate)

	assert.Equal(150*time.Millisecond, cfg.Terminal.Hold)
	assert.Equal(":8080", cfg.Viewer.Addr)
}

func TestConfigDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{
		Players: map[int]*PlayerConfig{
			3: {Plugged: true},
		},
		Sensor: &SensorConfig{},
	}

	cfg.Defaults()

	assert.Equal("n64", cfg.Core.Subject)
	assert.Equal(100, cfg.Speed.Baseline)
	assert.Equal(250, cfg.Speed.FastForward)
	assert.Equal(n64.PakNone, cfg.Players[3].Pak)
	assert.InDelta(controller.DefaultSensorDeadzone, *cfg.Sensor.Deadzone, 1e-9)
	assert.Len(cfg.WebRTC.ICEServers, 1)
	assert.NoError(cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{
		Players: map[int]*PlayerConfig{
			5: {Plugged: true},
		},
	}

	assert.Equal(mapping.ErrInvalidPlayer, cfg.Validate())

	cfg = &Config{
		Sensor: &SensorConfig{AxisX: "q/z"},
	}

	assert.True(errors.Is(cfg.Validate(), controller.ErrInvalidAxisSelector))
}

func TestConfigRejectsUnknownEnums(t *testing.T) {
	assert := assert.New(t)

	var cfg Config
	err := yaml.Unmarshal([]byte("touch:\n  autoHold: forever\n"), &cfg)
	assert.Error(err)

	err = yaml.Unmarshal([]byte("webrtc:\n  iceServers:\n    - provider: twilio\n"), &cfg)
	assert.Error(err)
}
