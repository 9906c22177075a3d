package provider

import (
	"errors"

	"gopkg.in/yaml.v3"

	"github.com/flarexio/joypad/inputcode"
)

type KeyAction int

const (
	KeyDown KeyAction = iota
	KeyUp
)

type KeyEvent struct {
	KeyCode     int
	Action      KeyAction
	RepeatCount int
	HardwareID  int
}

// ImeFormula decodes analog values smuggled through key codes above 0xFF
// by input method editors.
type ImeFormula int

const (
	ImeDefault ImeFormula = iota
	ImeExample
)

func ParseImeFormula(formula string) (ImeFormula, error) {
	switch formula {
	case "", "default", "usb_bt_joystick_center", "bt_controller":
		return ImeDefault, nil
	case "example":
		return ImeExample, nil
	default:
		return -1, errors.New("ime formula not supported")
	}
}

func (formula *ImeFormula) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	f, err := ParseImeFormula(raw)
	if err != nil {
		return err
	}

	*formula = f

	return nil
}

func (formula ImeFormula) String() string {
	switch formula {
	case ImeDefault:
		return "default"
	case ImeExample:
		return "example"
	default:
		return "unknown"
	}
}

type KeyProvider struct {
	Provider
	formula ImeFormula
	ignored map[int]struct{}
}

func NewKeyProvider(formula ImeFormula, ignored []int) *KeyProvider {
	set := make(map[int]struct{}, len(ignored))
	for _, code := range ignored {
		set[code] = struct{}{}
	}

	return &KeyProvider{
		formula: formula,
		ignored: set,
	}
}

// OnKey translates a key event. It reports false for ignored keys so the
// host can handle them itself. Auto-repeat is consumed silently.
func (p *KeyProvider) OnKey(e KeyEvent) bool {
	if _, ok := p.ignored[e.KeyCode]; ok {
		return false
	}

	if e.Action == KeyDown && e.RepeatCount > 0 {
		return true
	}

	code, strength := p.decode(e.KeyCode)

	if e.Action == KeyUp {
		strength = 0
	}

	p.Notify(code, strength, e.HardwareID)
	return true
}

func (p *KeyProvider) decode(keyCode int) (inputcode.Code, float64) {
	if keyCode <= 0xFF {
		return inputcode.Key(keyCode), 1
	}

	switch p.formula {
	case ImeExample:
		return inputcode.Key(keyCode & 0xFF), float64(keyCode>>8) / 0xFF

	default:
		return inputcode.Key(keyCode / 100), float64(keyCode%100) / 64
	}
}
