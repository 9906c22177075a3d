package joystick

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/mapping"
	"github.com/flarexio/joypad/provider"
)

type inputs map[inputcode.Code]float64

func newTestBus(playerMap *mapping.PlayerMap) (*Bus, *inputs, *int) {
	keys := provider.NewKeyProvider(provider.ImeDefault, nil)
	axes := provider.NewAxisProvider()

	got := make(inputs)
	var hardwareID int

	keys.Register(&provider.ListenerFuncs{
		OnSingle: func(code inputcode.Code, strength float64, id int) {
			got[code] = strength
			hardwareID = id
		},
	})

	axes.Register(&provider.ListenerFuncs{
		OnSingle: func(code inputcode.Code, strength float64, id int) {
			got[code] = strength
			hardwareID = id
		},
	})

	return NewBus(keys, axes, playerMap, 0), &got, &hardwareID
}

func TestAxisFor(t *testing.T) {
	assert := assert.New(t)

	axis, ok := AxisFor(0)
	assert.True(ok)
	assert.Equal(inputcode.AxisX, axis)

	axis, ok = AxisFor(3)
	assert.True(ok)
	assert.Equal(inputcode.AxisRZ, axis)

	axis, ok = AxisFor(6)
	assert.True(ok)
	assert.Equal(inputcode.AxisGeneric1, axis)

	_, ok = AxisFor(6 + numGeneric)
	assert.False(ok)

	_, ok = AxisFor(-1)
	assert.False(ok)
}

func TestKeyFor(t *testing.T) {
	assert := assert.New(t)

	key, ok := KeyFor(0)
	assert.True(ok)
	assert.Equal(inputcode.KeyButton1, key)

	key, ok = KeyFor(15)
	assert.True(ok)
	assert.Equal(inputcode.KeyButton16, key)

	_, ok = KeyFor(16)
	assert.False(ok)
}

func TestNormalize(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1.0, Normalize(32767))
	assert.Equal(-1.0, Normalize(-32768))
	assert.Equal(0.0, Normalize(0))
}

func TestBusButtons(t *testing.T) {
	assert := assert.New(t)

	bus, got, id := newTestBus(nil)
	bus.Added(4, "pad")

	bus.Button(4, 2, true)
	assert.Equal(1.0, (*got)[inputcode.Key(inputcode.KeyButton1+2)])
	assert.Equal(4, *id)

	bus.Button(4, 2, false)
	assert.Equal(0.0, (*got)[inputcode.Key(inputcode.KeyButton1+2)])
}

func TestBusAxesKeepState(t *testing.T) {
	assert := assert.New(t)

	bus, got, _ := newTestBus(nil)
	bus.Added(1, "pad")

	bus.Axis(1, 0, 32767)
	bus.Axis(1, 1, -32767)

	assert.Equal(1.0, (*got)[inputcode.Axis(inputcode.AxisX, true)])
	assert.Equal(1.0, (*got)[inputcode.Axis(inputcode.AxisY, false)])

	bus.Hat(1, 0, HatUp|HatRight)
	assert.Equal(1.0, (*got)[inputcode.Axis(inputcode.AxisHatX, true)])
	assert.Equal(1.0, (*got)[inputcode.Axis(inputcode.AxisHatY, false)])
	assert.Equal(1.0, (*got)[inputcode.Axis(inputcode.AxisX, true)])

	bus.Removed(1)
	assert.Equal(0.0, (*got)[inputcode.Axis(inputcode.AxisX, true)])
	assert.Equal(0.0, (*got)[inputcode.Axis(inputcode.AxisHatX, true)])

	// unknown joystick
	bus.Axis(1, 0, 32767)
	assert.Equal(0.0, (*got)[inputcode.Axis(inputcode.AxisX, true)])
}

func TestBusReconnect(t *testing.T) {
	assert := assert.New(t)

	playerMap := mapping.NewPlayerMap()
	assert.NoError(playerMap.MapNamed(3, "pad", 2))

	bus, _, _ := newTestBus(playerMap)

	bus.Added(9, "pad")
	assert.Equal(2, playerMap.Player(9))
	assert.True(bus.Connected(9))
	assert.False(bus.Connected(3))
}

func TestBusAxisClasses(t *testing.T) {
	assert := assert.New(t)

	bus, got, _ := newTestBus(nil)
	bus.SetClasses(map[string]map[int]provider.AxisClass{
		"adapter": {inputcode.AxisX: provider.AxisIgnored},
	})

	bus.Added(1, "adapter")
	bus.Axis(1, 0, 32767)
	bus.Axis(1, 1, 32767)

	assert.Equal(0.0, (*got)[inputcode.Axis(inputcode.AxisX, true)])
	assert.Equal(1.0, (*got)[inputcode.Axis(inputcode.AxisY, true)])
}
