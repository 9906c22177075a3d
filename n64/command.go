// Package n64 describes the virtual N64 controller: its buttons, the
// commands an input can be mapped to and the state pushed to the core.
package n64

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// Command is a mappable logical command. Buttons occupy the low range in
// plugin ABI order, followed by the four axis directions and the special
// functions.
type Command int

const (
	DPadRight Command = iota
	DPadLeft
	DPadDown
	DPadUp
	Start
	Z
	B
	A
	CRight
	CLeft
	CDown
	CUp
	R
	L

	AxisRight
	AxisLeft
	AxisDown
	AxisUp

	IncrementSlot
	SaveSlot
	LoadSlot
	Reset
	Stop
	Pause
	FastForward
	FrameAdvance
	SpeedUp
	SpeedDown
	Gameshark
	Screenshot
	SensorToggle
	DecrementSlot

	NumCommands int = iota
)

const None Command = -1

const NumButtons = int(AxisRight)

var ErrInvalidCommand = errors.New("invalid command")

var commandNames = [NumCommands]string{
	"dpad_right", "dpad_left", "dpad_down", "dpad_up",
	"start", "z", "b", "a",
	"c_right", "c_left", "c_down", "c_up",
	"r", "l",
	"axis_right", "axis_left", "axis_down", "axis_up",
	"increment_slot", "save_slot", "load_slot", "reset", "stop", "pause",
	"fast_forward", "frame_advance", "speed_up", "speed_down", "gameshark",
	"screenshot", "sensor_toggle", "decrement_slot",
}

func (c Command) Valid() bool {
	return c >= 0 && int(c) < NumCommands
}

func (c Command) IsButton() bool {
	return c >= 0 && int(c) < NumButtons
}

func (c Command) IsAxis() bool {
	return c >= AxisRight && c <= AxisUp
}

func (c Command) IsFunction() bool {
	return c >= IncrementSlot && int(c) < NumCommands
}

func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "_")

	for i, n := range commandNames {
		if n == name {
			return Command(i), nil
		}
	}

	return None, ErrInvalidCommand
}

func (c *Command) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	cmd, err := ParseCommand(raw)
	if err != nil {
		return err
	}

	*c = cmd

	return nil
}

func (c Command) String() string {
	if !c.Valid() {
		return "none"
	}

	return commandNames[c]
}

// Commands lists every command in persisted order.
func Commands() []Command {
	cmds := make([]Command, NumCommands)
	for i := range cmds {
		cmds[i] = Command(i)
	}

	return cmds
}
