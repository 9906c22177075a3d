package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flarexio/joypad/inputcode"
)

func TestAxisProviderDefaultFilter(t *testing.T) {
	assert := assert.New(t)

	p := NewAxisProvider()
	codes := p.Filter()

	assert.Len(codes, DefaultNumInputs)
	assert.Equal(inputcode.Axis(0, true), codes[0])
	assert.Equal(inputcode.Axis(0, false), codes[1])
	assert.Equal(inputcode.Axis(63, false), codes[127])
}

func TestAxisProviderSplit(t *testing.T) {
	assert := assert.New(t)

	p := NewAxisProvider()
	r := &recorder{}
	p.Register(r)

	device := &AxisDevice{ID: 7}
	p.OnMotion(MotionEvent{
		Device: device,
		Values: map[int]float64{
			inputcode.AxisX: 0.6,
			inputcode.AxisY: -1,
		},
	})

	assert.Equal(1, r.batches)
	assert.Len(r.events, DefaultNumInputs)
	assert.Equal(7, r.events[0].hardwareID)

	assert.InDelta(0.6, r.strength(inputcode.Axis(inputcode.AxisX, true)), 1e-9)
	assert.Equal(0.0, r.strength(inputcode.Axis(inputcode.AxisX, false)))
	assert.Equal(0.0, r.strength(inputcode.Axis(inputcode.AxisY, true)))
	assert.InDelta(1, r.strength(inputcode.Axis(inputcode.AxisY, false)), 1e-9)
	assert.Equal(0.0, r.strength(inputcode.Axis(inputcode.AxisZ, true)))
}

func TestAxisProviderFlat(t *testing.T) {
	assert := assert.New(t)

	p := NewAxisProvider()
	p.SetFilter([]inputcode.Code{
		inputcode.Axis(0, true),
		inputcode.Axis(1, true),
		inputcode.Axis(2, true),
		23,
	})
	assert.Len(p.Filter(), 3)

	r := &recorder{}
	p.Register(r)

	device := &AxisDevice{
		ID: 1,
		Flat: map[int]float64{
			0: 0.2,
			1: 0.9,
			2: 0.2,
		},
	}

	p.OnMotion(MotionEvent{
		Device: device,
		Values: map[int]float64{0: 0.6, 1: 0.2, 2: 0.1},
	})

	assert.InDelta(0.5, r.strength(inputcode.Axis(0, true)), 1e-9)
	assert.Equal(0.0, r.strength(inputcode.Axis(1, true)))
	assert.Equal(0.0, r.strength(inputcode.Axis(2, true)))
}

func TestAxisProviderClasses(t *testing.T) {
	assert := assert.New(t)

	p := NewAxisProvider()
	p.SetFilter([]inputcode.Code{
		inputcode.Axis(0, true),
		inputcode.Axis(1, false),
		inputcode.Axis(2, true),
	})

	r := &recorder{}
	p.Register(r)

	device := &AxisDevice{
		ID: 1,
		Classes: map[int]AxisClass{
			0: AxisN64UsbStick,
			1: AxisN64UsbStick,
			2: AxisIgnored,
		},
	}

	p.OnMotion(MotionEvent{
		Device: device,
		Values: map[int]float64{0: 0.315, 1: -0.9, 2: 1},
	})

	assert.InDelta(0.5, r.strength(inputcode.Axis(0, true)), 1e-9)
	assert.InDelta(1, r.strength(inputcode.Axis(1, false)), 1e-9)
	assert.Equal(0.0, r.strength(inputcode.Axis(2, true)))
}

func TestAxisProviderNoDevice(t *testing.T) {
	assert := assert.New(t)

	p := NewAxisProvider()
	assert.False(p.OnMotion(MotionEvent{}))
}

func TestMogaProvider(t *testing.T) {
	assert := assert.New(t)

	p := NewMogaProvider()
	r := &recorder{}
	p.Register(r)

	p.OnKeyEvent(MogaKeyEvent{KeyCode: inputcode.KeyButtonA, ControllerID: 1})
	assert.Equal(event{inputcode.KeyButtonA, 1, 1}, r.events[0])

	p.OnMotionEvent(MogaMotionEvent{
		ControllerID: 1,
		Values:       map[int]float64{inputcode.AxisRZ: -0.4},
	})

	assert.Equal(1, r.batches)
	assert.Len(r.events, 13)
	assert.InDelta(0.4, r.strength(inputcode.Axis(inputcode.AxisRZ, false)), 1e-9)
	assert.Equal(0.0, r.strength(inputcode.Axis(inputcode.AxisRZ, true)))
}
