// Package joystick turns raw joystick events (button index, axis index,
// hat bits) into key and motion events for the providers.
package joystick

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/mapping"
	"github.com/flarexio/joypad/provider"
)

const (
	HatUp    uint8 = 0x01
	HatRight uint8 = 0x02
	HatDown  uint8 = 0x04
	HatLeft  uint8 = 0x08
)

// axisOrder assigns the first raw axes the codes a typical gamepad
// reports for them.
var axisOrder = []int{
	inputcode.AxisX,
	inputcode.AxisY,
	inputcode.AxisZ,
	inputcode.AxisRZ,
	inputcode.AxisLTrigger,
	inputcode.AxisRTrigger,
}

const numGeneric = 16

// AxisFor returns the axis code for a raw axis index.
func AxisFor(index int) (int, bool) {
	if index < 0 {
		return 0, false
	}

	if index < len(axisOrder) {
		return axisOrder[index], true
	}

	index -= len(axisOrder)
	if index >= numGeneric {
		return 0, false
	}

	return inputcode.AxisGeneric1 + index, true
}

// KeyFor returns the key code for a raw button index.
func KeyFor(index int) (int, bool) {
	if index < 0 || index > inputcode.KeyButton16-inputcode.KeyButton1 {
		return 0, false
	}

	return inputcode.KeyButton1 + index, true
}

// Normalize maps a signed 16 bit axis reading to [-1, 1].
func Normalize(raw int16) float64 {
	return math.Max(-1, math.Min(1, float64(raw)/math.MaxInt16))
}

type Device struct {
	device *provider.AxisDevice
	values map[int]float64
}

// Bus dispatches the events of every attached joystick.
type Bus struct {
	log       *zap.Logger
	keys      *provider.KeyProvider
	axes      *provider.AxisProvider
	playerMap *mapping.PlayerMap
	flat      float64
	classes   map[string]map[int]provider.AxisClass
	devices   map[int]*Device
	mu        sync.Mutex
}

// NewBus builds a bus. flat is the flat region reported for every axis;
// playerMap may be nil.
func NewBus(keys *provider.KeyProvider, axes *provider.AxisProvider, playerMap *mapping.PlayerMap, flat float64) *Bus {
	return &Bus{
		log: zap.L().With(
			zap.String("component", "joystick"),
		),
		keys:      keys,
		axes:      axes,
		playerMap: playerMap,
		flat:      flat,
		devices:   make(map[int]*Device),
	}
}

// SetClasses overrides axis classes for devices by name.
func (b *Bus) SetClasses(classes map[string]map[int]provider.AxisClass) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.classes = classes
}

// Added attaches a joystick. A device seen before under another id takes
// over its player assignment.
func (b *Bus) Added(id int, name string) {
	b.mu.Lock()

	if _, ok := b.devices[id]; ok {
		b.mu.Unlock()
		return
	}

	flat := make(map[int]float64)
	for i := 0; ; i++ {
		axis, ok := AxisFor(i)
		if !ok {
			break
		}

		flat[axis] = b.flat
	}

	b.devices[id] = &Device{
		device: &provider.AxisDevice{
			ID:      id,
			Name:    name,
			Flat:    flat,
			Classes: b.classes[name],
		},
		values: make(map[int]float64),
	}

	b.mu.Unlock()

	b.log.Info("joystick connected",
		zap.Int("id", id),
		zap.String("name", name))

	if b.playerMap != nil {
		b.playerMap.Reconnect(id, name, b.Connected)
	}
}

// Removed detaches a joystick and releases everything it held.
func (b *Bus) Removed(id int) {
	b.mu.Lock()
	dev, ok := b.devices[id]
	delete(b.devices, id)
	b.mu.Unlock()

	if !ok {
		return
	}

	b.log.Info("joystick disconnected",
		zap.Int("id", id),
		zap.String("name", dev.device.Name))

	clear(dev.values)
	b.axes.OnMotion(provider.MotionEvent{
		Device: dev.device,
		Values: dev.values,
	})
}

func (b *Bus) Connected(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.devices[id]
	return ok
}

func (b *Bus) Button(id int, index int, down bool) {
	key, ok := KeyFor(index)
	if !ok {
		b.log.Debug("button out of range", zap.Int("index", index))
		return
	}

	action := provider.KeyUp
	if down {
		action = provider.KeyDown
	}

	b.keys.OnKey(provider.KeyEvent{
		KeyCode:    key,
		Action:     action,
		HardwareID: id,
	})
}

func (b *Bus) Axis(id int, index int, raw int16) {
	axis, ok := AxisFor(index)
	if !ok {
		return
	}

	b.motion(id, func(values map[int]float64) {
		values[axis] = Normalize(raw)
	})
}

// Hat reports the first hat as the hat axes. Screen convention: down and
// right are positive.
func (b *Bus) Hat(id int, index int, value uint8) {
	if index != 0 {
		return
	}

	var x, y float64
	if value&HatLeft != 0 {
		x = -1
	} else if value&HatRight != 0 {
		x = 1
	}

	if value&HatUp != 0 {
		y = -1
	} else if value&HatDown != 0 {
		y = 1
	}

	b.motion(id, func(values map[int]float64) {
		values[inputcode.AxisHatX] = x
		values[inputcode.AxisHatY] = y
	})
}

// motion updates the device's axis values and emits all of them, so
// axes that did not move keep their strength downstream.
func (b *Bus) motion(id int, update func(values map[int]float64)) {
	b.mu.Lock()

	dev, ok := b.devices[id]
	if !ok {
		b.mu.Unlock()
		return
	}

	update(dev.values)

	values := make(map[int]float64, len(dev.values))
	for axis, v := range dev.values {
		values[axis] = v
	}

	b.mu.Unlock()

	b.axes.OnMotion(provider.MotionEvent{
		Device: dev.device,
		Values: values,
	})
}
