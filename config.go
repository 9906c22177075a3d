package joypad

import (
	"errors"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flarexio/joypad/controller"
	"github.com/flarexio/joypad/mapping"
	"github.com/flarexio/joypad/n64"
	"github.com/flarexio/joypad/provider"
)

type Config struct {
	Path      string                `yaml:"-"`
	Core      CoreConfig            `yaml:"core"`
	Speed     SpeedConfig           `yaml:"speed"`
	Players   map[int]*PlayerConfig `yaml:"players"`
	PlayerMap PlayerMapConfig       `yaml:"playerMap"`
	Keys      KeysConfig            `yaml:"keys"`
	Axes      AxesConfig            `yaml:"axes"`
	Touch     *TouchConfig          `yaml:"touch"`
	Sensor    *SensorConfig         `yaml:"sensor"`
	Terminal  TerminalConfig        `yaml:"terminal"`
	WebRTC    WebRTC                `yaml:"webrtc"`
	Viewer    ViewerConfig          `yaml:"viewer"`
}

type CoreConfig struct {
	// Subject prefixes every core subject on NATS.
	Subject string `yaml:"subject"`
}

type SpeedConfig struct {
	Baseline    int `yaml:"baseline"`
	FastForward int `yaml:"fastForward"`
	Step        int `yaml:"step"`
	Min         int `yaml:"min"`
	Max         int `yaml:"max"`
}

type PlayerConfig struct {
	Plugged      bool        `yaml:"plugged"`
	Pak          n64.PakType `yaml:"pak"`
	InputMap     string      `yaml:"inputMap"`
	Deadzone     int         `yaml:"deadzone"`
	SensitivityX int         `yaml:"sensitivityX"`
	SensitivityY int         `yaml:"sensitivityY"`
}

type PlayerMapConfig struct {
	Enabled bool   `yaml:"enabled"`
	Map     string `yaml:"map"`
}

type KeysConfig struct {
	ImeFormula provider.ImeFormula `yaml:"imeFormula"`
	Ignored    []int               `yaml:"ignored"`
}

type AxesConfig struct {
	Flat float64 `yaml:"flat"`

	// Devices overrides axis classes by device name.
	Devices map[string]map[int]provider.AxisClass `yaml:"devices"`
}

type TouchConfig struct {
	Player          int                      `yaml:"player"`
	AutoHold        controller.AutoHold      `yaml:"autoHold"`
	NotAutoHoldable []controller.TouchButton `yaml:"notAutoHoldable"`
	Zones           []controller.Zone        `yaml:"zones"`
	Analog          *controller.Analog       `yaml:"analog"`
	InvertX         bool                     `yaml:"invertX"`
	InvertY         bool                     `yaml:"invertY"`
	Relative        bool                     `yaml:"relative"`
	Octagon         bool                     `yaml:"octagon"`
	SquareDeadzone  float64                  `yaml:"squareDeadzone"`
}

type SensorConfig struct {
	Player        int      `yaml:"player"`
	Enabled       bool     `yaml:"enabled"`
	AxisX         string   `yaml:"axisX"`
	AxisY         string   `yaml:"axisY"`
	SensitivityX  int      `yaml:"sensitivityX"`
	SensitivityY  int      `yaml:"sensitivityY"`
	Deadzone      *float64 `yaml:"deadzone"`
	IdleTiltX     float64  `yaml:"idleTiltX"`
	IdleTiltY     float64  `yaml:"idleTiltY"`
	AutoCalibrate bool     `yaml:"autoCalibrate"`
}

type TerminalConfig struct {
	HardwareID int           `yaml:"hardwareId"`
	Hold       time.Duration `yaml:"hold"`
}

type ViewerConfig struct {
	Addr string `yaml:"addr"`
}

type WebRTC struct {
	ICEServers []*ICEServer `yaml:"iceServers"`
}

type ICEServer struct {
	Provider ICEProvider `yaml:"provider"`
	ID       string      `yaml:"id"`
	Token    string      `yaml:"token"`
}

type ICEProvider int

const (
	Google ICEProvider = iota
	Cloudflare
	Metered
)

func ParseICEProvider(provider string) (ICEProvider, error) {
	switch provider {
	case "google":
		return Google, nil
	case "cloudflare":
		return Cloudflare, nil
	case "metered":
		return Metered, nil
	default:
		return -1, errors.New("provider not supported")
	}
}

func (provider *ICEProvider) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	p, err := ParseICEProvider(raw)
	if err != nil {
		return err
	}

	*provider = p

	return nil
}

func (provider ICEProvider) String() string {
	switch provider {
	case Google:
		return "google"
	case Cloudflare:
		return "cloudflare"
	case Metered:
		return "metered"
	default:
		return "unknown"
	}
}

// Defaults fills what the config file left out.
func (cfg *Config) Defaults() {
	if cfg.Core.Subject == "" {
		cfg.Core.Subject = "n64"
	}

	speed := &cfg.Speed
	if speed.Baseline == 0 {
		speed.Baseline = controller.DefaultSpeed.Baseline
	}

	if speed.FastForward == 0 {
		speed.FastForward = controller.DefaultSpeed.Custom
	}

	if speed.Step == 0 {
		speed.Step = controller.DefaultSpeed.Step
	}

	if speed.Min == 0 {
		speed.Min = controller.DefaultSpeed.Min
	}

	if speed.Max == 0 {
		speed.Max = controller.DefaultSpeed.Max
	}

	if len(cfg.Players) == 0 {
		cfg.Players = map[int]*PlayerConfig{
			1: {Plugged: true, Pak: n64.PakMemory},
		}
	}

	for _, player := range cfg.Players {
		if player.Pak == 0 {
			player.Pak = n64.PakNone
		}
	}

	if cfg.Sensor != nil && cfg.Sensor.Deadzone == nil {
		deadzone := controller.DefaultSensorDeadzone
		cfg.Sensor.Deadzone = &deadzone
	}

	if cfg.Viewer.Addr == "" {
		cfg.Viewer.Addr = ":8080"
	}

	if len(cfg.WebRTC.ICEServers) == 0 {
		cfg.WebRTC.ICEServers = []*ICEServer{{Provider: Google}}
	}
}

// Validate rejects player numbers outside 1..4 and malformed sensor axes.
func (cfg *Config) Validate() error {
	for player := range cfg.Players {
		if player < 1 || player > mapping.MaxPlayers {
			return mapping.ErrInvalidPlayer
		}
	}

	if cfg.Sensor != nil {
		if _, err := controller.ParseAxisSelector(cfg.Sensor.AxisX); err != nil {
			return err
		}

		if _, err := controller.ParseAxisSelector(cfg.Sensor.AxisY); err != nil {
			return err
		}
	}

	return nil
}

func (speed SpeedConfig) controller() controller.SpeedConfig {
	return controller.SpeedConfig{
		Baseline: speed.Baseline,
		Custom:   speed.FastForward,
		Step:     speed.Step,
		Min:      speed.Min,
		Max:      speed.Max,
	}
}
