package joypad

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/flarexio/joypad/controller"
	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/joystick"
	"github.com/flarexio/joypad/mapping"
	"github.com/flarexio/joypad/n64"
	"github.com/flarexio/joypad/provider"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrTouchDisabled  = errors.New("touch controller disabled")
	ErrSensorDisabled = errors.New("sensor controller disabled")
)

// Session owns everything that lives for one emulation run: the core,
// the maps, the providers and the controllers reading from them.
type Session struct {
	log *zap.Logger
	cfg *Config

	core      core.Core
	functions *controller.Functions

	inputMaps [mapping.MaxPlayers]*mapping.InputMap
	playerMap *mapping.PlayerMap

	keys *provider.KeyProvider
	axes *provider.AxisProvider
	moga *provider.MogaProvider
	bus  *joystick.Bus

	peripherals map[int]*controller.Peripheral
	touch       *controller.Touch
	sensor      *controller.Sensor
	accel       *Accelerometer

	vibrators   map[int]core.Vibrator
	touchSource int
	mu          sync.RWMutex
}

func NewSession(cfg *Config, c core.Core) (*Session, error) {
	s := &Session{
		log: zap.L().With(
			zap.String("component", "session"),
		),
		cfg:         cfg,
		core:        c,
		functions:   controller.NewFunctions(c, cfg.Speed.controller()),
		playerMap:   mapping.ParsePlayerMap(cfg.PlayerMap.Map),
		keys:        provider.NewKeyProvider(cfg.Keys.ImeFormula, cfg.Keys.Ignored),
		axes:        provider.NewAxisProvider(),
		moga:        provider.NewMogaProvider(),
		accel:       NewAccelerometer(),
		peripherals: make(map[int]*controller.Peripheral),
		vibrators:   make(map[int]core.Vibrator),
		touchSource: -1,
	}

	s.playerMap.SetEnabled(cfg.PlayerMap.Enabled)

	s.bus = joystick.NewBus(s.keys, s.axes, s.playerMap, cfg.Axes.Flat)
	s.bus.SetClasses(cfg.Axes.Devices)

	for i := range s.inputMaps {
		s.inputMaps[i] = mapping.NewInputMap()
	}

	// The sensor comes first so the other controllers can toggle it.
	var sensor controller.SensorSwitch
	if sc := cfg.Sensor; sc != nil {
		deadzone := controller.DefaultSensorDeadzone
		if sc.Deadzone != nil {
			deadzone = *sc.Deadzone
		}

		sensorCfg := controller.SensorConfig{
			Player:        sc.Player,
			AxisX:         sc.AxisX,
			AxisY:         sc.AxisY,
			SensitivityX:  sc.SensitivityX,
			SensitivityY:  sc.SensitivityY,
			Deadzone:      deadzone,
			IdleTiltX:     sc.IdleTiltX,
			IdleTiltY:     sc.IdleTiltY,
			AutoCalibrate: sc.AutoCalibrate,
			Listener:      s.listener("sensor", sc.Player),
		}

		if sensorCfg.Player == 0 {
			sensorCfg.Player = 1
		}

		ctrl, err := controller.NewSensor(c, sensorCfg, s.accel)
		if err != nil {
			return nil, err
		}

		s.sensor = ctrl
		sensor = ctrl
	}

	for player, pc := range cfg.Players {
		if player < 1 || player > mapping.MaxPlayers {
			return nil, mapping.ErrInvalidPlayer
		}

		c.SetControllerConfig(player, pc.Plugged, pc.Pak)

		if !pc.Plugged {
			continue
		}

		inputMap := s.inputMaps[player-1]
		inputMap.Deserialize(pc.InputMap)

		p, err := controller.NewPeripheral(c, controller.PeripheralConfig{
			Player:       player,
			Deadzone:     pc.Deadzone,
			SensitivityX: pc.SensitivityX,
			SensitivityY: pc.SensitivityY,
			InputMap:     inputMap,
			PlayerMap:    s.playerMap,
			Functions:    s.functions,
			Sensor:       sensor,
			Listener:     s.listener("peripheral", player),
			Vibrators:    s.Vibrator,
		}, s.keys, s.axes, s.moga)

		if err != nil {
			s.Close()
			return nil, err
		}

		s.peripherals[player] = p
	}

	if tc := cfg.Touch; tc != nil {
		player := tc.Player
		if player == 0 {
			player = 1
		}

		touch, err := controller.NewTouch(c, controller.TouchConfig{
			Player:          player,
			Map:             controller.NewTouchMap(tc.Zones, tc.Analog),
			AutoHold:        tc.AutoHold,
			NotAutoHoldable: tc.NotAutoHoldable,
			Octagon:         tc.Octagon,
			InvertX:         tc.InvertX,
			InvertY:         tc.InvertY,
			Relative:        tc.Relative,
			SquareDeadzone:  tc.SquareDeadzone,
			Sensor:          sensor,
			Feedback:        core.VibratorFunc(s.touchFeedback),
			Listener:        s.listener("touch", player),
		})

		if err != nil {
			s.Close()
			return nil, err
		}

		s.touch = touch
	}

	if s.sensor != nil {
		if err := s.sensor.SetSensorEnabled(cfg.Sensor.Enabled); err != nil {
			s.Close()
			return nil, err
		}

		if err := s.sensor.Resume(); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.log.Info("session started",
		zap.Int("peripherals", len(s.peripherals)),
		zap.Bool("touch", s.touch != nil),
		zap.Bool("sensor", s.sensor != nil))

	return s, nil
}

func (s *Session) listener(name string, player int) controller.Listener {
	return &logListener{
		log: s.log.With(
			zap.String("controller", name),
			zap.Int("player", player),
		),
	}
}

func (s *Session) Core() core.Core                  { return s.core }
func (s *Session) Functions() *controller.Functions { return s.functions }
func (s *Session) PlayerMap() *mapping.PlayerMap    { return s.playerMap }
func (s *Session) Keys() *provider.KeyProvider      { return s.keys }
func (s *Session) Axes() *provider.AxisProvider     { return s.axes }
func (s *Session) Moga() *provider.MogaProvider     { return s.moga }
func (s *Session) Bus() *joystick.Bus               { return s.bus }
func (s *Session) Accelerometer() *Accelerometer    { return s.accel }

func (s *Session) InputMap(player int) (*mapping.InputMap, error) {
	if player < 1 || player > mapping.MaxPlayers {
		return nil, mapping.ErrInvalidPlayer
	}

	return s.inputMaps[player-1], nil
}

func (s *Session) Peripheral(player int) (*controller.Peripheral, error) {
	p, ok := s.peripherals[player]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	return p, nil
}

func (s *Session) Touch() (*controller.Touch, error) {
	if s.touch == nil {
		return nil, ErrTouchDisabled
	}

	return s.touch, nil
}

func (s *Session) Sensor() (*controller.Sensor, error) {
	if s.sensor == nil {
		return nil, ErrSensorDisabled
	}

	return s.sensor, nil
}

// State returns the state of the first controller driving player.
func (s *Session) State(player int) (n64.State, error) {
	if p, ok := s.peripherals[player]; ok {
		return p.State(), nil
	}

	if s.touch != nil && s.touch.Player() == player {
		return s.touch.State(), nil
	}

	if s.sensor != nil && s.sensor.Player() == player {
		return s.sensor.State(), nil
	}

	return n64.State{}, ErrPlayerNotFound
}

// AttachVibrator makes a device's rumble motor available to the
// peripherals. A nil vibrator detaches it.
func (s *Session) AttachVibrator(hardwareID int, vibrator core.Vibrator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vibrator == nil {
		delete(s.vibrators, hardwareID)
		return
	}

	s.vibrators[hardwareID] = vibrator
}

func (s *Session) Vibrator(hardwareID int) core.Vibrator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vibrators[hardwareID]
	if !ok {
		return nil
	}

	return v
}

// TouchFrom records the device that sent the latest touch event, whose
// motor then plays the touch feedback.
func (s *Session) TouchFrom(hardwareID int) {
	s.mu.Lock()
	s.touchSource = hardwareID
	s.mu.Unlock()
}

func (s *Session) touchFeedback(active bool) {
	s.mu.RLock()
	v, ok := s.vibrators[s.touchSource]
	s.mu.RUnlock()

	if ok {
		v.Vibrate(active)
	}
}

func (s *Session) Close() {
	for _, p := range s.peripherals {
		p.Close()
	}

	if s.sensor != nil {
		if err := s.sensor.Pause(); err != nil {
			s.log.Error(err.Error())
		}
	}

	s.log.Info("session closed")
}

type logListener struct {
	log *zap.Logger
}

func (l *logListener) OnAnalogChanged(x, y float64) {
	l.log.Debug("analog changed",
		zap.Float64("x", x),
		zap.Float64("y", y))
}

func (l *logListener) OnAutoHold(pressed bool, index int) {
	l.log.Debug("auto hold",
		zap.Bool("pressed", pressed),
		zap.Int("index", index))
}

func (l *logListener) OnSensorEnabled(enabled bool) {
	l.log.Info("sensor toggled", zap.Bool("enabled", enabled))
}
