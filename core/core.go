// Package core is the boundary to the emulator core.
//
// Calls are fire and forget: implementations must not block the input
// path and no return value is consulted except Slot.
package core

import (
	"sync"

	"github.com/flarexio/joypad/n64"
)

const NumSlots = 10

type Core interface {
	SetControllerState(player int, snapshot n64.Snapshot)
	SetControllerConfig(player int, plugged bool, pak n64.PakType)
	RegisterVibrator(player int, vibrator Vibrator)

	SaveSlot()
	LoadSlot()
	SetSlot(slot int)
	Slot() int

	Pause()
	Resume()
	Reset()
	Stop()
	AdvanceFrame()
	SetSpeed(percent int)
	Gameshark(pressed bool)
	Screenshot()
}

// Vibrator is the force feedback handle of a device.
type Vibrator interface {
	Vibrate(active bool)
}

type VibratorFunc func(active bool)

func (f VibratorFunc) Vibrate(active bool) {
	f(active)
}

// Vibrators routes rumble requests from the core to the device last
// registered for each player.
type Vibrators struct {
	vibrators map[int]Vibrator
	sync.RWMutex
}

func (v *Vibrators) Register(player int, vibrator Vibrator) {
	v.Lock()
	defer v.Unlock()

	if v.vibrators == nil {
		v.vibrators = make(map[int]Vibrator)
	}

	if vibrator == nil {
		delete(v.vibrators, player)
		return
	}

	v.vibrators[player] = vibrator
}

// Rumble reports whether a vibrator was registered for player.
func (v *Vibrators) Rumble(player int, active bool) bool {
	v.RLock()
	vibrator, ok := v.vibrators[player]
	v.RUnlock()

	if !ok {
		return false
	}

	vibrator.Vibrate(active)
	return true
}

func (v *Vibrators) Clear() {
	v.Lock()
	v.vibrators = nil
	v.Unlock()
}

func wrapSlot(slot int) int {
	slot %= NumSlots
	if slot < 0 {
		slot += NumSlots
	}

	return slot
}
