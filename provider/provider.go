// Package provider adapts raw input sources into input code events.
//
// A provider never consults an input map. Listeners receive either a
// single (code, strength) pair or a batch of them, together with the id of
// the hardware device that produced the event.
package provider

import (
	"slices"
	"sync"

	"github.com/flarexio/joypad/inputcode"
)

type Listener interface {
	OnInput(code inputcode.Code, strength float64, hardwareID int)
	OnInputs(codes []inputcode.Code, strengths []float64, hardwareID int)
}

// Source is implemented by every provider.
type Source interface {
	Register(l Listener)
	Unregister(l Listener)
}

// Provider fans events out to its listeners. It is embedded by the
// concrete providers.
type Provider struct {
	listeners []Listener
	sync.RWMutex
}

func (p *Provider) Register(l Listener) {
	if l == nil {
		return
	}

	p.Lock()
	defer p.Unlock()

	if slices.Contains(p.listeners, l) {
		return
	}

	p.listeners = append(p.listeners, l)
}

func (p *Provider) Unregister(l Listener) {
	p.Lock()
	defer p.Unlock()

	p.listeners = slices.DeleteFunc(p.listeners, func(each Listener) bool {
		return each == l
	})
}

func (p *Provider) UnregisterAll() {
	p.Lock()
	p.listeners = nil
	p.Unlock()
}

func (p *Provider) Listeners() int {
	p.RLock()
	defer p.RUnlock()

	return len(p.listeners)
}

func (p *Provider) snapshot() []Listener {
	p.RLock()
	defer p.RUnlock()

	return slices.Clone(p.listeners)
}

// Notify delivers one event. Listeners may unregister while it runs.
func (p *Provider) Notify(code inputcode.Code, strength float64, hardwareID int) {
	for _, l := range p.snapshot() {
		l.OnInput(code, strength, hardwareID)
	}
}

// NotifyBatch delivers a batch. Each listener gets its own copy.
func (p *Provider) NotifyBatch(codes []inputcode.Code, strengths []float64, hardwareID int) {
	for _, l := range p.snapshot() {
		l.OnInputs(slices.Clone(codes), slices.Clone(strengths), hardwareID)
	}
}

// ListenerFuncs adapts plain functions to a Listener. A nil OnBatch
// unrolls batches into single events.
type ListenerFuncs struct {
	OnSingle func(code inputcode.Code, strength float64, hardwareID int)
	OnBatch  func(codes []inputcode.Code, strengths []float64, hardwareID int)
}

func (f *ListenerFuncs) OnInput(code inputcode.Code, strength float64, hardwareID int) {
	if f.OnSingle != nil {
		f.OnSingle(code, strength, hardwareID)
	}
}

func (f *ListenerFuncs) OnInputs(codes []inputcode.Code, strengths []float64, hardwareID int) {
	if f.OnBatch != nil {
		f.OnBatch(codes, strengths, hardwareID)
		return
	}

	for i := range codes {
		f.OnInput(codes[i], strengths[i], hardwareID)
	}
}
