package controller

import (
	"math"

	"go.uber.org/zap"

	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/mapping"
	"github.com/flarexio/joypad/n64"
	"github.com/flarexio/joypad/provider"
)

// SensorSwitch is the part of a sensor controller other controllers can
// toggle.
type SensorSwitch interface {
	SensorEnabled() bool
	SetSensorEnabled(enabled bool) error
}

type PeripheralConfig struct {
	Player int

	// Deadzone and sensitivities are percentages.
	Deadzone     int
	SensitivityX int
	SensitivityY int

	InputMap  *mapping.InputMap
	PlayerMap *mapping.PlayerMap

	// Optional collaborators.
	Functions *Functions
	Sensor    SensorSwitch
	Listener  Listener
	Vibrators func(hardwareID int) core.Vibrator
}

// Peripheral maps key and axis events from physical devices through an
// input map.
type Peripheral struct {
	base

	inputMap  *mapping.InputMap
	playerMap *mapping.PlayerMap
	functions *Functions
	sensor    SensorSwitch
	vibrators func(hardwareID int) core.Vibrator

	acc          mapping.Accumulator
	functionDown [n64.NumCommands]bool
	deadzone     float64
	sensitivityX float64
	sensitivityY float64

	sources     []provider.Source
	unsubscribe func()
}

func NewPeripheral(c core.Core, cfg PeripheralConfig, sources ...provider.Source) (*Peripheral, error) {
	if cfg.InputMap == nil {
		cfg.InputMap = mapping.NewInputMap()
	}

	if cfg.PlayerMap == nil {
		cfg.PlayerMap = mapping.NewPlayerMap()
		cfg.PlayerMap.SetEnabled(false)
	}

	if cfg.SensitivityX == 0 {
		cfg.SensitivityX = 100
	}

	if cfg.SensitivityY == 0 {
		cfg.SensitivityY = 100
	}

	p := &Peripheral{
		inputMap:     cfg.InputMap,
		playerMap:    cfg.PlayerMap,
		functions:    cfg.Functions,
		sensor:       cfg.Sensor,
		vibrators:    cfg.Vibrators,
		deadzone:     float64(cfg.Deadzone) / 100,
		sensitivityX: float64(cfg.SensitivityX) / 100,
		sensitivityY: float64(cfg.SensitivityY) / 100,
	}

	if err := p.init("peripheral", c, cfg.Player, cfg.Listener); err != nil {
		return nil, err
	}

	p.unsubscribe = p.inputMap.Subscribe(p.mapChanged)

	for _, source := range sources {
		if source == nil {
			continue
		}

		source.Register(p)
		p.sources = append(p.sources, source)
	}

	return p, nil
}

func (p *Peripheral) OnInput(code inputcode.Code, strength float64, hardwareID int) {
	if !p.playerMap.Test(hardwareID, p.player) {
		return
	}

	p.registerVibrator(hardwareID)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.apply(code, strength)
	p.push()
}

func (p *Peripheral) OnInputs(codes []inputcode.Code, strengths []float64, hardwareID int) {
	if !p.playerMap.Test(hardwareID, p.player) {
		return
	}

	p.registerVibrator(hardwareID)

	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range codes {
		p.apply(codes[i], strengths[i])
	}

	p.push()
}

func (p *Peripheral) registerVibrator(hardwareID int) {
	if p.vibrators == nil {
		return
	}

	if v := p.vibrators(hardwareID); v != nil {
		p.core.RegisterVibrator(p.player, v)
	}
}

func (p *Peripheral) apply(code inputcode.Code, strength float64) {
	if !p.inputMap.Enabled() {
		return
	}

	cmd := p.inputMap.Apply(code, strength, &p.state, &p.acc)

	switch {
	case cmd.IsAxis():
		p.state.AxisX, p.state.AxisY = p.shape()

	case cmd.IsFunction():
		// Axis batches repeat every code, so only a transition counts.
		pressed := strength > mapping.Threshold
		if pressed == p.functionDown[cmd] {
			return
		}

		p.functionDown[cmd] = pressed
		p.execute(cmd, pressed)
	}
}

// shape applies sensitivity and the radial deadzone to the accumulated
// axis strengths.
func (p *Peripheral) shape() (x, y float64) {
	netX, netY := p.acc.Net()

	rawX := p.sensitivityX * netX
	rawY := p.sensitivityY * netY

	magnitude := math.Hypot(rawX, rawY)
	if magnitude <= p.deadzone {
		return 0, 0
	}

	scaled := (magnitude - p.deadzone) / (1 - p.deadzone)
	scaled = math.Max(0, math.Min(1, scaled))

	return rawX / magnitude * scaled, rawY / magnitude * scaled
}

func (p *Peripheral) execute(cmd n64.Command, pressed bool) {
	if p.player != 1 {
		return
	}

	if cmd == n64.SensorToggle {
		if pressed {
			p.toggleSensor()
		}

		return
	}

	if p.functions == nil {
		return
	}

	p.functions.Execute(cmd, pressed)
}

func (p *Peripheral) toggleSensor() {
	if p.sensor == nil {
		return
	}

	enabled := !p.sensor.SensorEnabled()
	if !enabled {
		p.state.AxisX = 0
		p.state.AxisY = 0
		p.listener.OnAnalogChanged(0, 0)
	}

	if err := p.sensor.SetSensorEnabled(enabled); err != nil {
		p.log.Error(err.Error(), zap.String("function", "sensor_toggle"))
		return
	}

	p.listener.OnSensorEnabled(enabled)
}

// mapChanged drops held inputs so nothing stays stuck on a code that was
// rebound.
func (p *Peripheral) mapChanged(*mapping.InputMap) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Reset()
	p.acc.Reset()

	for cmd, down := range p.functionDown {
		if down {
			p.functionDown[cmd] = false
			p.execute(n64.Command(cmd), false)
		}
	}

	p.push()
}

// Close unregisters from every source and from the input map.
func (p *Peripheral) Close() {
	for _, source := range p.sources {
		source.Unregister(p)
	}

	p.sources = nil

	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}
