package controller

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/flarexio/joypad/core"
)

const (
	DefaultSensorDeadzone = 0.2

	// strengthMaxDegree is the tilt that gives full strength.
	strengthMaxDegree = 15
)

var ErrInvalidAxisSelector = errors.New("invalid axis selector")

// Accelerometer is a 3-axis sensor that can be switched on and off.
type Accelerometer interface {
	Start(handler func(x, y, z float64)) error
	Stop()
}

// AxisSelector names the sample components used for one stick axis: the
// value and the adjacent side of the tilt angle. An empty selector disables
// the axis.
type AxisSelector struct {
	Value    []int
	Adjacent []int
}

// ParseAxisSelector parses "value/adjacent" where both parts are made of
// the letters x, y and z, for example "x/z" or "xy/z". Anything that does
// not split into two non-empty parts yields a disabled axis.
func ParseAxisSelector(s string) (AxisSelector, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return AxisSelector{}, nil
	}

	value, err := parseAxes(parts[0])
	if err != nil {
		return AxisSelector{}, err
	}

	adjacent, err := parseAxes(parts[1])
	if err != nil {
		return AxisSelector{}, err
	}

	return AxisSelector{value, adjacent}, nil
}

func parseAxes(s string) ([]int, error) {
	axes := make([]int, 0, len(s))
	for _, c := range s {
		switch c {
		case 'x', 'X':
			axes = append(axes, 0)
		case 'y', 'Y':
			axes = append(axes, 1)
		case 'z', 'Z':
			axes = append(axes, 2)
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidAxisSelector, s)
		}
	}

	return axes, nil
}

func (a AxisSelector) Enabled() bool {
	return len(a.Value) > 0 && len(a.Adjacent) > 0
}

func (a AxisSelector) String() string {
	if !a.Enabled() {
		return ""
	}

	names := "xyz"

	var sb strings.Builder
	for _, i := range a.Value {
		sb.WriteByte(names[i])
	}

	sb.WriteByte('/')

	for _, i := range a.Adjacent {
		sb.WriteByte(names[i])
	}

	return sb.String()
}

// angle returns the tilt angle of the sample, or false when the axis is
// disabled.
func (a AxisSelector) angle(sample [3]float64) (float64, bool) {
	if !a.Enabled() {
		return 0, false
	}

	return calculateAngle(acceleration(sample, a.Value), acceleration(sample, a.Adjacent)), true
}

func acceleration(sample [3]float64, axes []int) float64 {
	if len(axes) == 1 {
		return sample[axes[0]]
	}

	var sum float64
	for _, i := range axes {
		sum += sample[i] * sample[i]
	}

	return math.Sqrt(sum)
}

// calculateAngle is atan(value/adjacent) over the full circle. The ratio is
// inverted when |value| > |adjacent| so adjacent == 0 never divides.
func calculateAngle(value, adjacent float64) float64 {
	if math.Abs(value) <= math.Abs(adjacent) {
		if adjacent > 0 {
			return math.Atan(value / adjacent)
		}

		return math.Pi + math.Atan(value/adjacent)
	}

	return sign(value)*math.Pi/2 - math.Atan(adjacent/value)
}

// normalizeAngle wraps into [-π, π] and folds into [-π/2, π/2].
func normalizeAngle(angle float64) float64 {
	for math.Abs(angle) > math.Pi {
		angle -= sign(angle) * 2 * math.Pi
	}

	if angle > math.Pi/2 {
		angle = math.Pi - angle
	} else if angle < -math.Pi/2 {
		angle = -math.Pi - angle
	}

	return angle
}

func angleToStrength(angle float64) float64 {
	return angle / math.Pi * 180 / strengthMaxDegree
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

type SensorConfig struct {
	Player int

	AxisX string
	AxisY string

	// Sensitivities are percentages.
	SensitivityX int
	SensitivityY int

	Deadzone float64

	// IdleTiltX and IdleTiltY are the resting angles in degrees. They are
	// ignored when AutoCalibrate is set.
	IdleTiltX     float64
	IdleTiltY     float64
	AutoCalibrate bool

	Listener Listener
}

// Sensor emulates the analog stick by tilting an accelerometer.
type Sensor struct {
	base

	accel Accelerometer

	axisX        AxisSelector
	axisY        AxisSelector
	sensitivityX float64
	sensitivityY float64
	deadzone     float64

	idleX         float64
	idleY         float64
	configIdleX   float64
	configIdleY   float64
	autoCalibrate bool
	calibrated    bool

	enabled    bool
	paused     bool
	registered bool
}

// NewSensor fails when an axis selector is malformed. The sensor starts
// disabled and paused.
func NewSensor(c core.Core, cfg SensorConfig, accel Accelerometer) (*Sensor, error) {
	axisX, err := ParseAxisSelector(cfg.AxisX)
	if err != nil {
		return nil, err
	}

	axisY, err := ParseAxisSelector(cfg.AxisY)
	if err != nil {
		return nil, err
	}

	if cfg.SensitivityX == 0 {
		cfg.SensitivityX = 100
	}

	if cfg.SensitivityY == 0 {
		cfg.SensitivityY = 100
	}

	if cfg.Deadzone < 0 || cfg.Deadzone >= 1 {
		cfg.Deadzone = DefaultSensorDeadzone
	}

	s := &Sensor{
		accel:         accel,
		axisX:         axisX,
		axisY:         axisY,
		sensitivityX:  float64(cfg.SensitivityX) / 100,
		sensitivityY:  float64(cfg.SensitivityY) / 100,
		deadzone:      cfg.Deadzone,
		configIdleX:   cfg.IdleTiltX * math.Pi / 180,
		configIdleY:   cfg.IdleTiltY * math.Pi / 180,
		autoCalibrate: cfg.AutoCalibrate,
		paused:        true,
	}

	s.idleX = s.configIdleX
	s.idleY = s.configIdleY

	if err := s.init("sensor", c, cfg.Player, cfg.Listener); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Sensor) SensorEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enabled
}

func (s *Sensor) SetSensorEnabled(enabled bool) error {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()

	return s.update()
}

// Resume lets the sensor run while it is enabled.
func (s *Sensor) Resume() error {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()

	return s.update()
}

// Pause stops the accelerometer whatever the enabled flag says.
func (s *Sensor) Pause() error {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()

	return s.update()
}

// Registered reports whether the sensor is listening to the accelerometer.
func (s *Sensor) Registered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registered
}

// update registers with the accelerometer only while enabled and resumed.
// The accelerometer is called without holding mu since it may deliver a
// sample synchronously.
func (s *Sensor) update() error {
	s.mu.Lock()
	want := s.enabled && !s.paused
	have := s.registered

	if !s.enabled {
		s.calibrated = false
	}

	s.registered = want
	s.mu.Unlock()

	if s.accel == nil || want == have {
		return nil
	}

	if !want {
		s.accel.Stop()
		s.log.Debug("accelerometer stopped")
		return nil
	}

	if err := s.accel.Start(s.OnSample); err != nil {
		s.mu.Lock()
		s.registered = false
		s.mu.Unlock()

		return err
	}

	s.log.Debug("accelerometer started")
	return nil
}

// OnSample converts one accelerometer sample into stick strength.
func (s *Sensor) OnSample(x, y, z float64) {
	sample := [3]float64{x, y, z}

	s.mu.Lock()

	if s.autoCalibrate && !s.calibrated {
		idleX, _ := s.axisX.angle(sample)
		idleY, _ := s.axisY.angle(sample)

		// A sample with no gravity reading has no angle to calibrate on.
		if !math.IsNaN(idleX) && !math.IsNaN(idleY) {
			s.idleX = idleX
			s.idleY = idleY
			s.calibrated = true
		}
	}

	rawX := s.strength(sample, s.axisX, s.idleX) * s.sensitivityX
	rawY := s.strength(sample, s.axisY, s.idleY) * s.sensitivityY

	// An exaggerated axis scales the other one down.
	factor := math.Max(math.Hypot(rawX, rawY), 1)
	rawX /= factor
	rawY /= factor

	magnitude := math.Hypot(rawX, rawY)
	if magnitude > s.deadzone {
		scaled := (magnitude - s.deadzone) / (1 - s.deadzone)
		scaled = math.Max(0, math.Min(1, scaled))

		s.state.AxisX = rawX / magnitude * scaled
		s.state.AxisY = rawY / magnitude * scaled
	} else {
		s.state.AxisX = 0
		s.state.AxisY = 0
	}

	s.push()

	ax, ay := s.state.AxisX, s.state.AxisY
	listener := s.listener
	s.mu.Unlock()

	listener.OnAnalogChanged(ax, ay)
}

func (s *Sensor) strength(sample [3]float64, axis AxisSelector, idle float64) float64 {
	angle, ok := axis.angle(sample)
	if !ok || math.IsNaN(angle) {
		return 0
	}

	return angleToStrength(normalizeAngle(angle - idle))
}
