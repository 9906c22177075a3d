package n64

import (
	"errors"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// AxisRange is the native analog range on either side of centre.
const AxisRange = 80

type State struct {
	Buttons [NumButtons]bool
	AxisX   float64
	AxisY   float64
}

// Snapshot is a State quantised for the core.
type Snapshot struct {
	Buttons [NumButtons]bool `json:"buttons"`
	AxisX   int              `json:"x"`
	AxisY   int              `json:"y"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Buttons: s.Buttons,
		AxisX:   scaleAxis(s.AxisX),
		AxisY:   scaleAxis(s.AxisY),
	}
}

func (s *State) Reset() {
	*s = State{}
}

func scaleAxis(fraction float64) int {
	if math.IsNaN(fraction) {
		return 0
	}

	v := int(math.Round(fraction * AxisRange))
	return max(-AxisRange, min(AxisRange, v))
}

// Pressed counts the buttons held in the snapshot.
func (s Snapshot) Pressed() int {
	n := 0
	for _, b := range s.Buttons {
		if b {
			n++
		}
	}

	return n
}

type PakType int

const (
	PakNone PakType = iota + 1
	PakMemory
	PakRumble
	PakTransfer
	PakRaw
)

func ParsePakType(pak string) (PakType, error) {
	switch strings.ToLower(pak) {
	case "", "none":
		return PakNone, nil
	case "memory", "mem":
		return PakMemory, nil
	case "rumble":
		return PakRumble, nil
	case "transfer":
		return PakTransfer, nil
	case "raw":
		return PakRaw, nil
	default:
		return 0, errors.New("pak type not supported")
	}
}

func (pak *PakType) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	p, err := ParsePakType(raw)
	if err != nil {
		return err
	}

	*pak = p

	return nil
}

func (pak PakType) String() string {
	switch pak {
	case PakNone:
		return "none"
	case PakMemory:
		return "memory"
	case PakRumble:
		return "rumble"
	case PakTransfer:
		return "transfer"
	case PakRaw:
		return "raw"
	default:
		return "unknown"
	}
}
