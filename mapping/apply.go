package mapping

import (
	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/n64"
)

// Accumulator keeps the last strength of each axis direction.
type Accumulator struct {
	XPos float64
	XNeg float64
	YPos float64
	YNeg float64
}

// Net returns the net axis values.
func (acc *Accumulator) Net() (x, y float64) {
	return acc.XPos - acc.XNeg, acc.YPos - acc.YNeg
}

func (acc *Accumulator) Reset() {
	*acc = Accumulator{}
}

// Apply feeds one input into state. Buttons are thresholded, axis
// directions update acc and the net axes. The resolved command is
// returned so the caller can run special functions; n64.None means the
// code is not mapped.
func (m *InputMap) Apply(code inputcode.Code, strength float64, state *n64.State, acc *Accumulator) n64.Command {
	cmd := m.Get(code)

	switch {
	case cmd.IsButton():
		state.Buttons[cmd] = strength > Threshold

	case cmd.IsAxis():
		switch cmd {
		case n64.AxisRight:
			acc.XPos = strength
		case n64.AxisLeft:
			acc.XNeg = strength
		case n64.AxisUp:
			acc.YPos = strength
		case n64.AxisDown:
			acc.YNeg = strength
		}

		state.AxisX, state.AxisY = acc.Net()
	}

	return cmd
}
