package controller

import (
	"sync"

	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/n64"
)

type holdEvent struct {
	pressed bool
	index   int
}

type recorder struct {
	analog  [][2]float64
	holds   []holdEvent
	sensors []bool
	sync.Mutex
}

func (r *recorder) OnAnalogChanged(x, y float64) {
	r.Lock()
	defer r.Unlock()

	r.analog = append(r.analog, [2]float64{x, y})
}

func (r *recorder) OnAutoHold(pressed bool, index int) {
	r.Lock()
	defer r.Unlock()

	r.holds = append(r.holds, holdEvent{pressed, index})
}

func (r *recorder) OnSensorEnabled(enabled bool) {
	r.Lock()
	defer r.Unlock()

	r.sensors = append(r.sensors, enabled)
}

type sensorSwitch struct {
	enabled bool
}

func (s *sensorSwitch) SensorEnabled() bool {
	return s.enabled
}

func (s *sensorSwitch) SetSensorEnabled(enabled bool) error {
	s.enabled = enabled
	return nil
}

func snapshotOf(c *core.Memory, player int) n64.Snapshot {
	return c.State(player)
}
