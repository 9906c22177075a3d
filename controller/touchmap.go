package controller

import (
	"errors"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flarexio/joypad/n64"
)

// TouchButton indexes the on-screen buttons. The first n64.NumButtons
// values are the N64 buttons themselves; the rest are pseudo buttons.
type TouchButton int

const (
	DPadRightUp TouchButton = TouchButton(n64.NumButtons) + iota
	DPadRightDown
	DPadLeftDown
	DPadLeftUp
	ToggleSensor

	NumTouchButtons int = n64.NumButtons + iota
)

const NoButton TouchButton = -1

var pseudoButtonNames = map[TouchButton]string{
	DPadRightUp:   "dpad_right_up",
	DPadRightDown: "dpad_right_down",
	DPadLeftDown:  "dpad_left_down",
	DPadLeftUp:    "dpad_left_up",
	ToggleSensor:  "sensor_toggle",
}

func ParseTouchButton(name string) (TouchButton, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for b, n := range pseudoButtonNames {
		if n == name {
			return b, nil
		}
	}

	cmd, err := n64.ParseCommand(name)
	if err != nil || !cmd.IsButton() {
		return NoButton, errors.New("touch button not supported: " + name)
	}

	return TouchButton(cmd), nil
}

func (b *TouchButton) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	button, err := ParseTouchButton(raw)
	if err != nil {
		return err
	}

	*b = button

	return nil
}

func (b TouchButton) String() string {
	if name, ok := pseudoButtonNames[b]; ok {
		return name
	}

	if b >= 0 && int(b) < n64.NumButtons {
		return n64.Command(b).String()
	}

	return "none"
}

// buttons returns the N64 buttons a touch button drives.
func (b TouchButton) buttons() []n64.Command {
	switch b {
	case DPadRightUp:
		return []n64.Command{n64.DPadRight, n64.DPadUp}
	case DPadRightDown:
		return []n64.Command{n64.DPadRight, n64.DPadDown}
	case DPadLeftDown:
		return []n64.Command{n64.DPadLeft, n64.DPadDown}
	case DPadLeftUp:
		return []n64.Command{n64.DPadLeft, n64.DPadUp}
	}

	if b >= 0 && int(b) < n64.NumButtons {
		return []n64.Command{n64.Command(b)}
	}

	return nil
}

// Rect is a half-open screen rectangle.
type Rect struct {
	X0 int `yaml:"x0"`
	Y0 int `yaml:"y0"`
	X1 int `yaml:"x1"`
	Y1 int `yaml:"y1"`
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

type Zone struct {
	Button TouchButton `yaml:"button"`
	Rect   Rect        `yaml:"rect"`
}

// Analog describes the on-screen stick in pixels. Distances are divided
// by Scale before they are compared with Deadzone, Maximum and Padding.
type Analog struct {
	CenterX  int     `yaml:"centerX"`
	CenterY  int     `yaml:"centerY"`
	Deadzone float64 `yaml:"deadzone"`
	Maximum  float64 `yaml:"maximum"`
	Padding  float64 `yaml:"padding"`
	Scale    float64 `yaml:"scale"`
}

var DefaultAnalog = Analog{
	Deadzone: 2,
	Maximum:  360,
	Padding:  32,
	Scale:    1,
}

// TouchMap maps screen coordinates to buttons and stick displacement.
type TouchMap struct {
	zones    []Zone
	analog   *Analog
	currentX int
	currentY int
}

// NewTouchMap builds a map. A nil analog disables the stick. Zones are
// searched in order.
func NewTouchMap(zones []Zone, analog *Analog) *TouchMap {
	m := &TouchMap{
		zones: append([]Zone(nil), zones...),
	}

	if analog != nil {
		a := *analog
		if a.Scale <= 0 {
			a.Scale = 1
		}

		m.analog = &a
		m.currentX = a.CenterX
		m.currentY = a.CenterY
	}

	return m
}

// ButtonAt returns the button under (x, y), or NoButton.
func (m *TouchMap) ButtonAt(x, y int) TouchButton {
	for _, zone := range m.zones {
		if zone.Rect.Contains(x, y) {
			return zone.Button
		}
	}

	return NoButton
}

func (m *TouchMap) HasAnalog() bool {
	return m.analog != nil
}

// Displacement is measured from the current stick centre, which differs
// from the configured one while a relative stick is held.
func (m *TouchMap) Displacement(x, y int) (dx, dy float64) {
	if m.analog == nil {
		return 0, 0
	}

	return float64(x - m.currentX), float64(y - m.currentY)
}

func (m *TouchMap) OriginalDisplacement(x, y int) (dx, dy float64) {
	if m.analog == nil {
		return 0, 0
	}

	return float64(x - m.analog.CenterX), float64(y - m.analog.CenterY)
}

func (m *TouchMap) MoveAnalog(x, y int) {
	if m.analog == nil {
		return
	}

	m.currentX = x
	m.currentY = y
}

func (m *TouchMap) ResetAnalog() {
	if m.analog == nil {
		return
	}

	m.currentX = m.analog.CenterX
	m.currentY = m.analog.CenterY
}

// InCaptureRange reports whether a displacement lies in the annulus where
// a pointer may grab the stick.
func (m *TouchMap) InCaptureRange(dx, dy float64) bool {
	if m.analog == nil {
		return false
	}

	d := math.Hypot(dx, dy) / m.analog.Scale
	return d >= m.analog.Deadzone && d < m.analog.Maximum+m.analog.Padding
}

// Strength converts a displacement length to a throttle in [0, 1].
func (m *TouchMap) Strength(d float64) float64 {
	if m.analog == nil || m.analog.Maximum <= m.analog.Deadzone {
		return 0
	}

	d /= m.analog.Scale
	p := (d - m.analog.Deadzone) / (m.analog.Maximum - m.analog.Deadzone)
	return math.Max(0, math.Min(1, p))
}

// Constrain clamps a displacement to the octagon inscribed in the stick's
// travel circle.
func (m *TouchMap) Constrain(dx, dy float64) (float64, float64) {
	if m.analog == nil {
		return dx, dy
	}

	return ConstrainToOctagon(dx, dy, m.analog.Maximum*m.analog.Scale)
}
