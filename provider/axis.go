package provider

import (
	"errors"
	"math"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/flarexio/joypad/inputcode"
)

const (
	// DefaultNumInputs covers both directions of the lowest 64 axes.
	DefaultNumInputs = 128

	// MaxFlat rejects flat regions that the driver reports wrongly.
	MaxFlat      = 0.5
	FlatOverride = 0.25

	// n64UsbScale maps the +/-80 travel of N64 adapter sticks onto the full
	// range (127/80).
	n64UsbScale = 0.63
)

type AxisClass int

const (
	AxisNormal AxisClass = iota
	AxisIgnored
	AxisN64UsbStick
)

func ParseAxisClass(class string) (AxisClass, error) {
	switch class {
	case "", "normal":
		return AxisNormal, nil
	case "ignored":
		return AxisIgnored, nil
	case "n64_usb_stick":
		return AxisN64UsbStick, nil
	default:
		return -1, errors.New("axis class not supported")
	}
}

func (class *AxisClass) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c, err := ParseAxisClass(raw)
	if err != nil {
		return err
	}

	*class = c

	return nil
}

func (class AxisClass) String() string {
	switch class {
	case AxisNormal:
		return "normal"
	case AxisIgnored:
		return "ignored"
	case AxisN64UsbStick:
		return "n64_usb_stick"
	default:
		return "unknown"
	}
}

// AxisDevice describes the hardware behind a motion event. Axes missing
// from Flat have no flat region; axes missing from Classes are normal.
type AxisDevice struct {
	ID      int
	Name    string
	Flat    map[int]float64
	Classes map[int]AxisClass
}

func (d *AxisDevice) flat(axis int) float64 {
	flat := d.Flat[axis]
	if flat > MaxFlat || flat < 0 {
		flat = FlatOverride
	}

	return flat
}

func (d *AxisDevice) class(axis int) AxisClass {
	class, ok := d.Classes[axis]
	if !ok {
		return AxisNormal
	}

	return class
}

// MotionEvent carries the current value of every axis the device reports,
// each in [-1, 1].
type MotionEvent struct {
	Device *AxisDevice
	Values map[int]float64
}

type AxisProvider struct {
	Provider
	codes []inputcode.Code
}

func NewAxisProvider() *AxisProvider {
	codes := make([]inputcode.Code, DefaultNumInputs)
	for i := range codes {
		codes[i] = inputcode.Code(-(i + 1))
	}

	return &AxisProvider{codes: codes}
}

// SetFilter restricts the axis codes reported in each batch.
func (p *AxisProvider) SetFilter(codes []inputcode.Code) {
	filtered := make([]inputcode.Code, 0, len(codes))
	for _, code := range codes {
		if code.IsAxis() {
			filtered = append(filtered, code)
		}
	}

	p.Lock()
	p.codes = filtered
	p.Unlock()
}

func (p *AxisProvider) Filter() []inputcode.Code {
	p.RLock()
	defer p.RUnlock()

	return slices.Clone(p.codes)
}

// OnMotion emits one batch holding a strength for every filtered code.
func (p *AxisProvider) OnMotion(e MotionEvent) bool {
	if e.Device == nil {
		return false
	}

	codes := p.Filter()
	strengths := make([]float64, len(codes))

	for i, code := range codes {
		axis, positive := code.Axis()

		value, ok := e.Values[axis]
		if !ok {
			continue
		}

		strengths[i] = split(normalize(value, e.Device, axis), positive)
	}

	p.NotifyBatch(codes, strengths, e.Device.ID)
	return true
}

func normalize(value float64, device *AxisDevice, axis int) float64 {
	flat := device.flat(axis)
	if math.Abs(value) <= flat {
		return 0
	}

	switch device.class(axis) {
	case AxisIgnored:
		return 0

	case AxisN64UsbStick:
		return clamp(value/n64UsbScale, -1, 1)

	default:
		return math.Copysign((math.Abs(value)-flat)/(1-flat), value)
	}
}

// split keeps the magnitude when the sign matches the code's direction.
func split(strength float64, positive bool) float64 {
	if positive == (strength > 0) {
		return math.Abs(strength)
	}

	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
