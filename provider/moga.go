package provider

import "github.com/flarexio/joypad/inputcode"

// MogaKeyEvent and MogaMotionEvent mirror the events delivered by the MOGA
// controller service. Controllers are identified by the id the service
// assigns, which doubles as the hardware id.
type MogaKeyEvent struct {
	KeyCode      int
	Action       KeyAction
	ControllerID int
}

type MogaMotionEvent struct {
	ControllerID int
	Values       map[int]float64
}

var mogaAxes = []int{
	inputcode.AxisX,
	inputcode.AxisY,
	inputcode.AxisZ,
	inputcode.AxisRZ,
	inputcode.AxisLTrigger,
	inputcode.AxisRTrigger,
}

type MogaProvider struct {
	Provider
	codes []inputcode.Code
}

func NewMogaProvider() *MogaProvider {
	codes := make([]inputcode.Code, 0, len(mogaAxes)*2)
	for _, axis := range mogaAxes {
		codes = append(codes,
			inputcode.Axis(axis, true),
			inputcode.Axis(axis, false),
		)
	}

	return &MogaProvider{codes: codes}
}

func (p *MogaProvider) OnKeyEvent(e MogaKeyEvent) {
	strength := 1.0
	if e.Action == KeyUp {
		strength = 0
	}

	p.Notify(inputcode.Key(e.KeyCode), strength, e.ControllerID)
}

func (p *MogaProvider) OnMotionEvent(e MogaMotionEvent) {
	strengths := make([]float64, len(p.codes))
	for i, code := range p.codes {
		axis, positive := code.Axis()
		strengths[i] = split(clamp(e.Values[axis], -1, 1), positive)
	}

	p.NotifyBatch(p.codes, strengths, e.ControllerID)
}
