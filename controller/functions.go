package controller

import (
	"sync"

	"go.uber.org/zap"

	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/n64"
)

type SpeedConfig struct {
	Baseline int
	Custom   int
	Step     int
	Min      int
	Max      int
}

var DefaultSpeed = SpeedConfig{
	Baseline: 100,
	Custom:   250,
	Step:     10,
	Min:      10,
	Max:      300,
}

// Functions runs the special function commands against the core. It is
// shared by every controller of a session.
type Functions struct {
	log    *zap.Logger
	core   core.Core
	speed  SpeedConfig
	custom int
	paused bool
	mu     sync.Mutex
}

func NewFunctions(c core.Core, speed SpeedConfig) *Functions {
	return &Functions{
		log: zap.L().With(
			zap.String("component", "functions"),
		),
		core:   c,
		speed:  speed,
		custom: clampInt(speed.Custom, speed.Min, speed.Max),
	}
}

// Execute runs cmd for a press or release. Most functions fire on press
// only; fast forward and gameshark also act on release. It reports
// whether cmd was handled.
func (f *Functions) Execute(cmd n64.Command, pressed bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !pressed {
		switch cmd {
		case n64.FastForward:
			f.core.SetSpeed(f.speed.Baseline)
		case n64.Gameshark:
			f.core.Gameshark(false)
		default:
			return false
		}

		f.log.Debug("function released", zap.String("function", cmd.String()))
		return true
	}

	switch cmd {
	case n64.IncrementSlot:
		f.core.SetSlot(f.core.Slot() + 1)

	case n64.DecrementSlot:
		slot := f.core.Slot()
		if slot == 0 {
			slot = core.NumSlots
		}

		f.core.SetSlot(slot - 1)

	case n64.SaveSlot:
		f.core.SaveSlot()

	case n64.LoadSlot:
		f.core.LoadSlot()

	case n64.Reset:
		f.core.Reset()

	case n64.Stop:
		f.core.Stop()

	case n64.Pause:
		if f.paused {
			f.core.Resume()
		} else {
			f.core.Pause()
		}

		f.paused = !f.paused

	case n64.FastForward:
		f.core.SetSpeed(f.custom)

	case n64.FrameAdvance:
		f.core.AdvanceFrame()

	case n64.SpeedUp:
		f.setCustomSpeed(f.custom + f.speed.Step)

	case n64.SpeedDown:
		f.setCustomSpeed(f.custom - f.speed.Step)

	case n64.Gameshark:
		f.core.Gameshark(true)

	case n64.Screenshot:
		f.core.Screenshot()

	default:
		return false
	}

	f.log.Debug("function pressed", zap.String("function", cmd.String()))
	return true
}

func (f *Functions) setCustomSpeed(speed int) {
	f.custom = clampInt(speed, f.speed.Min, f.speed.Max)
	f.core.SetSpeed(f.custom)
}

// CustomSpeed is the speed used while fast forwarding.
func (f *Functions) CustomSpeed() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.custom
}

func (f *Functions) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.paused
}

// SetPaused syncs the pause flag after a pause that did not come from a
// mapped input.
func (f *Functions) SetPaused(paused bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.paused = paused
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
