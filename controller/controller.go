// Package controller turns input events into N64 controller state and
// pushes it to the core.
package controller

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/n64"
)

var ErrInvalidPlayer = errors.New("invalid player")

// Listener observes a controller. Callbacks run synchronously on the input
// path and must not block.
type Listener interface {
	OnAnalogChanged(x, y float64)
	OnAutoHold(pressed bool, index int)
	OnSensorEnabled(enabled bool)
}

// NopListener can be embedded to implement part of Listener.
type NopListener struct{}

func (NopListener) OnAnalogChanged(x, y float64)       {}
func (NopListener) OnAutoHold(pressed bool, index int) {}
func (NopListener) OnSensorEnabled(enabled bool)       {}

// base owns the state of one controller and pushes it to the core when the
// quantised snapshot changes.
type base struct {
	log      *zap.Logger
	core     core.Core
	player   int
	state    n64.State
	last     n64.Snapshot
	pushed   bool
	listener Listener
	mu       sync.Mutex
}

func (b *base) init(name string, c core.Core, player int, listener Listener) error {
	if player < 1 || player > 4 {
		return ErrInvalidPlayer
	}

	if listener == nil {
		listener = NopListener{}
	}

	b.log = zap.L().With(
		zap.String("controller", name),
		zap.Int("player", player),
	)
	b.core = c
	b.player = player
	b.listener = listener

	return nil
}

// push sends the snapshot unless it equals the last one sent. Callers hold
// mu.
func (b *base) push() bool {
	snapshot := b.state.Snapshot()
	if b.pushed && snapshot == b.last {
		return false
	}

	b.last = snapshot
	b.pushed = true
	b.core.SetControllerState(b.player, snapshot)

	return true
}

func (b *base) Player() int {
	return b.player
}

// State returns a copy of the current state.
func (b *base) State() n64.State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}
