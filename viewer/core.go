package viewer

import (
	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/n64"
)

// Tee forwards every call to the wrapped core and mirrors controller
// states to the hub.
func Tee(c core.Core, hub *Hub) core.Core {
	return &tee{c, hub}
}

type tee struct {
	core.Core
	hub *Hub
}

func (t *tee) SetControllerState(player int, snapshot n64.Snapshot) {
	t.Core.SetControllerState(player, snapshot)
	t.hub.OnState(player, snapshot)
}
