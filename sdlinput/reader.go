// Package sdlinput reads desktop joysticks through SDL3 and feeds them to
// a joystick bus.
package sdlinput

import (
	"context"
	"errors"
	"runtime"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"go.uber.org/zap"

	"github.com/flarexio/joypad/joystick"
)

const pollDelayNS = 16_000_000 // ~60Hz

type Reader struct {
	log       *zap.Logger
	bus       *joystick.Bus
	joysticks map[sdl.JoystickID]*sdl.Joystick
}

func NewReader(bus *joystick.Bus) *Reader {
	return &Reader{
		log: zap.L().With(
			zap.String("component", "sdl"),
		),
		bus:       bus,
		joysticks: make(map[sdl.JoystickID]*sdl.Joystick),
	}
}

// Run initialises SDL and polls events until ctx is done. SDL is bound to
// the calling OS thread, so Run locks it.
func (r *Reader) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return errors.New("sdl init failed: " + sdl.GetError())
	}
	defer sdl.Quit()

	r.log.Info("sdl joystick subsystem initialized")

	for _, id := range sdl.GetJoysticks() {
		r.open(id)
	}

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		default:
		}

		r.processEvents()
		sdl.DelayNS(pollDelayNS)
	}
}

func (r *Reader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			r.open(event.JDevice().Which)

		case sdl.EventJoystickRemoved:
			r.remove(event.JDevice().Which)

		case sdl.EventJoystickButtonDown:
			e := event.JButton()
			r.bus.Button(int(e.Which), int(e.Button), true)

		case sdl.EventJoystickButtonUp:
			e := event.JButton()
			r.bus.Button(int(e.Which), int(e.Button), false)

		case sdl.EventJoystickAxisMotion:
			e := event.JAxis()
			r.bus.Axis(int(e.Which), int(e.Axis), e.Value)

		case sdl.EventJoystickHatMotion:
			e := event.JHat()
			r.bus.Hat(int(e.Which), int(e.Hat), e.Value)
		}
	}
}

func (r *Reader) open(id sdl.JoystickID) {
	if _, ok := r.joysticks[id]; ok {
		return
	}

	js := sdl.OpenJoystick(id)
	if js == nil {
		r.log.Error("failed to open joystick",
			zap.Uint32("id", uint32(id)),
			zap.String("error", sdl.GetError()))
		return
	}

	jsID := sdl.GetJoystickID(js)
	r.joysticks[jsID] = js

	r.bus.Added(int(jsID), sdl.GetJoystickName(js))
}

func (r *Reader) remove(id sdl.JoystickID) {
	js, ok := r.joysticks[id]
	if !ok {
		return
	}

	sdl.CloseJoystick(js)
	delete(r.joysticks, id)

	r.bus.Removed(int(id))
}

func (r *Reader) closeAll() {
	for id := range r.joysticks {
		r.remove(id)
	}
}
