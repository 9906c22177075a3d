package controller

import (
	"errors"
	"math"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flarexio/joypad/core"
)

const (
	// MaxPointerID bounds the pointer ids a touch source may report.
	MaxPointerID = 255

	AutoHoldLongPressTime = 1000 * time.Millisecond
	FeedbackVibrateTime   = 50 * time.Millisecond
)

var ErrPointerOutOfRange = errors.New("pointer id out of range")

type AutoHold int

const (
	AutoHoldDisabled AutoHold = iota
	AutoHoldLongPress
	AutoHoldSlideOut
)

func ParseAutoHold(method string) (AutoHold, error) {
	switch method {
	case "", "disabled":
		return AutoHoldDisabled, nil
	case "longpress":
		return AutoHoldLongPress, nil
	case "slideout":
		return AutoHoldSlideOut, nil
	default:
		return -1, errors.New("auto-hold method not supported")
	}
}

func (method *AutoHold) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	m, err := ParseAutoHold(raw)
	if err != nil {
		return err
	}

	*method = m

	return nil
}

func (method AutoHold) String() string {
	switch method {
	case AutoHoldDisabled:
		return "disabled"
	case AutoHoldLongPress:
		return "longpress"
	case AutoHoldSlideOut:
		return "slideout"
	default:
		return "unknown"
	}
}

type TouchAction int

const (
	TouchDown TouchAction = iota
	TouchPointerDown
	TouchMove
	TouchPointerUp
	TouchUp
	TouchCancel
)

type Pointer struct {
	ID int
	X  int
	Y  int
}

// TouchEvent is one multi-touch update. Index selects the pointer the
// action applies to for TouchPointerDown and TouchPointerUp.
type TouchEvent struct {
	Action   TouchAction
	Index    int
	Pointers []Pointer
}

type TouchConfig struct {
	Player   int
	Map      *TouchMap
	AutoHold AutoHold

	// NotAutoHoldable buttons are released on lift whatever AutoHold says.
	NotAutoHoldable []TouchButton

	Octagon  bool
	InvertX  bool
	InvertY  bool
	Relative bool

	// SquareDeadzone is applied to each axis after the stick response.
	SquareDeadzone float64

	Sensor   SensorSwitch
	Listener Listener

	// Feedback vibrates on button touches and auto-hold.
	Feedback core.Vibrator
}

type pointer struct {
	down    bool
	x, y    int
	start   time.Time
	elapsed time.Duration
}

// Touch turns multi-touch gestures on an on-screen layout into
// controller state.
type Touch struct {
	base

	touchMap        *TouchMap
	autoHold        AutoHold
	notAutoHoldable map[TouchButton]struct{}
	octagon         bool
	invertX         float64
	invertY         float64
	relative        bool
	squareDeadzone  float64
	sensor          SensorSwitch
	feedback        core.Vibrator

	pointers  map[int]*pointer
	buttons   map[int]TouchButton
	analogPid int

	now func() time.Time
}

func NewTouch(c core.Core, cfg TouchConfig) (*Touch, error) {
	if cfg.Map == nil {
		cfg.Map = NewTouchMap(nil, nil)
	}

	t := &Touch{
		touchMap:        cfg.Map,
		autoHold:        cfg.AutoHold,
		notAutoHoldable: make(map[TouchButton]struct{}),
		octagon:         cfg.Octagon,
		invertX:         1,
		invertY:         1,
		relative:        cfg.Relative,
		squareDeadzone:  cfg.SquareDeadzone,
		sensor:          cfg.Sensor,
		feedback:        cfg.Feedback,
		pointers:        make(map[int]*pointer),
		buttons:         make(map[int]TouchButton),
		analogPid:       -1,
		now:             time.Now,
	}

	if cfg.InvertX {
		t.invertX = -1
	}

	if cfg.InvertY {
		t.invertY = -1
	}

	for _, b := range cfg.NotAutoHoldable {
		t.notAutoHoldable[b] = struct{}{}
	}

	if err := t.init("touch", c, cfg.Player, cfg.Listener); err != nil {
		return nil, err
	}

	return t, nil
}

// OnTouch processes one touch event. Events naming a pointer id outside
// 0..MaxPointerID are rejected without touching any state.
func (t *Touch) OnTouch(e TouchEvent) error {
	for _, p := range e.Pointers {
		if p.ID < 0 || p.ID > MaxPointerID {
			return ErrPointerOutOfRange
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	downPid := -1

	switch e.Action {
	case TouchPointerDown:
		if e.Index >= 0 && e.Index < len(e.Pointers) {
			downPid = e.Pointers[e.Index].ID
			t.press(downPid, now)
		}

	case TouchPointerUp:
		if e.Index >= 0 && e.Index < len(e.Pointers) {
			t.lift(e.Pointers[e.Index].ID, now)
		}

	case TouchDown:
		for i, p := range e.Pointers {
			if i == 0 {
				downPid = p.ID
			}

			t.press(p.ID, now)
		}

	case TouchUp, TouchCancel:
		for _, p := range e.Pointers {
			t.lift(p.ID, now)
		}
	}

	maxPid := -1
	for _, p := range e.Pointers {
		maxPid = max(maxPid, p.ID)

		if ptr, ok := t.pointers[p.ID]; ok && ptr.down {
			ptr.x = p.X
			ptr.y = p.Y
		}
	}

	t.process(maxPid, downPid)
	return nil
}

func (t *Touch) pointer(pid int) *pointer {
	ptr, ok := t.pointers[pid]
	if !ok {
		ptr = &pointer{}
		t.pointers[pid] = ptr
	}

	return ptr
}

func (t *Touch) press(pid int, now time.Time) {
	ptr := t.pointer(pid)
	ptr.down = true
	ptr.start = now
}

func (t *Touch) lift(pid int, now time.Time) {
	ptr, ok := t.pointers[pid]
	if !ok {
		return
	}

	ptr.down = false
	ptr.elapsed = now.Sub(ptr.start)
}

// process walks the pointers once. downPid is the pointer that went down
// with this event, or -1.
func (t *Touch) process(maxPid int, downPid int) {
	analogMoved := false

	pids := make([]int, 0, len(t.pointers))
	for pid := range t.pointers {
		if pid <= maxPid {
			pids = append(pids, pid)
		}
	}

	slices.Sort(pids)

	for _, pid := range pids {
		ptr := t.pointers[pid]

		if pid == t.analogPid && !ptr.down {
			analogMoved = true
			t.analogPid = -1
			t.state.AxisX = 0
			t.state.AxisY = 0
			t.touchMap.ResetAnalog()
		}

		if pid != t.analogPid {
			t.processButton(pid, ptr, pid == downPid)
		}

		if ptr.down && t.processAnalog(pid, ptr) {
			analogMoved = true
		}

		if !ptr.down {
			delete(t.pointers, pid)
		}
	}

	t.push()

	if analogMoved {
		t.listener.OnAnalogChanged(t.state.AxisX*t.invertX, t.state.AxisY*t.invertY)
	}
}

func (t *Touch) processButton(pid int, ptr *pointer, justDown bool) {
	index := NoButton
	if ptr.down {
		index = t.touchMap.ButtonAt(ptr.x, ptr.y)
	} else if prev, ok := t.buttons[pid]; ok {
		index = prev
	}

	if !ptr.down {
		delete(t.buttons, pid)
	} else {
		prev, ok := t.buttons[pid]
		if !ok {
			prev = NoButton
		}

		if index == NoButton {
			delete(t.buttons, pid)
		} else {
			t.buttons[pid] = index
		}

		if prev != index {
			ptr.start = t.now()

			if prev != NoButton {
				t.slideOff(prev)
			}
		}
	}

	if index == NoButton {
		return
	}

	if index == ToggleSensor && justDown {
		t.toggleSensor()
	}

	if ptr.down && t.firstTouched(index) {
		t.vibrate(FeedbackVibrateTime)
	}

	if ptr.down || t.holdless(index) {
		t.listener.OnAutoHold(ptr.down, int(index))
		t.setButton(index, ptr.down)
		return
	}

	switch t.autoHold {
	case AutoHoldSlideOut:
		t.listener.OnAutoHold(false, int(index))
		t.setButton(index, false)

	case AutoHoldLongPress:
		if ptr.elapsed < AutoHoldLongPressTime {
			t.listener.OnAutoHold(false, int(index))
			t.setButton(index, false)
			return
		}

		t.vibrate(FeedbackVibrateTime)
		t.listener.OnAutoHold(true, int(index))
		t.setButton(index, true)
	}
}

// slideOff handles a pointer leaving a button without lifting.
func (t *Touch) slideOff(prev TouchButton) {
	if t.holdless(prev) || t.autoHold == AutoHoldLongPress {
		t.setButton(prev, false)
		t.listener.OnAutoHold(false, int(prev))
		return
	}

	t.vibrate(FeedbackVibrateTime)
	t.listener.OnAutoHold(true, int(prev))
	t.setButton(prev, true)
}

func (t *Touch) holdless(b TouchButton) bool {
	if t.autoHold == AutoHoldDisabled {
		return true
	}

	_, ok := t.notAutoHoldable[b]
	return ok
}

func (t *Touch) firstTouched(b TouchButton) bool {
	buttons := b.buttons()
	if len(buttons) == 0 {
		return false
	}

	for _, cmd := range buttons {
		if !t.state.Buttons[cmd] {
			return true
		}
	}

	return false
}

func (t *Touch) setButton(b TouchButton, pressed bool) {
	for _, cmd := range b.buttons() {
		t.state.Buttons[cmd] = pressed
	}
}

func (t *Touch) toggleSensor() {
	if t.sensor == nil {
		return
	}

	enabled := !t.sensor.SensorEnabled()
	if !enabled {
		t.state.AxisX = 0
		t.state.AxisY = 0
		t.listener.OnAnalogChanged(0, 0)
	}

	if err := t.sensor.SetSensorEnabled(enabled); err != nil {
		t.log.Error(err.Error())
		return
	}

	t.listener.OnSensorEnabled(enabled)
}

func (t *Touch) vibrate(d time.Duration) {
	if t.feedback == nil {
		return
	}

	t.feedback.Vibrate(true)
	time.AfterFunc(d, func() {
		t.feedback.Vibrate(false)
	})
}

func (t *Touch) processAnalog(pid int, ptr *pointer) bool {
	if !t.touchMap.HasAnalog() {
		return false
	}

	if t.analogPid == -1 {
		dx, dy := t.touchMap.OriginalDisplacement(ptr.x, ptr.y)
		if t.touchMap.InCaptureRange(dx, dy) {
			t.capture(pid, ptr)
		}
	}

	if pid != t.analogPid {
		return false
	}

	dx, dy := t.touchMap.Displacement(ptr.x, ptr.y)
	if t.octagon {
		dx, dy = t.touchMap.Constrain(dx, dy)
	}

	d := math.Hypot(dx, dy)
	if d == 0 {
		t.state.AxisX = 0
		t.state.AxisY = 0
		return true
	}

	p := t.touchMap.Strength(d)

	x := p * dx / d * t.invertX
	y := -p * dy / d * t.invertY

	t.state.AxisX = squareDeadzone(x, t.squareDeadzone)
	t.state.AxisY = squareDeadzone(y, t.squareDeadzone)

	return true
}

// capture hands the stick to pid. A button the pointer was holding is
// released first.
func (t *Touch) capture(pid int, ptr *pointer) {
	t.analogPid = pid

	if prev, ok := t.buttons[pid]; ok {
		delete(t.buttons, pid)
		t.setButton(prev, false)
		t.listener.OnAutoHold(false, int(prev))
	}

	if t.relative {
		t.touchMap.MoveAnalog(ptr.x, ptr.y)
	}
}

func squareDeadzone(v, deadzone float64) float64 {
	if deadzone <= 0 {
		return v
	}

	if math.Abs(v) <= deadzone {
		return 0
	}

	return math.Copysign((math.Abs(v)-deadzone)/(1-deadzone), v)
}

// AnalogOwner returns the pointer holding the stick, or -1.
func (t *Touch) AnalogOwner() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.analogPid
}
