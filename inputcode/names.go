package inputcode

import "strconv"

// Platform key codes used by the bundled input sources.
const (
	KeyDPadUp     = 19
	KeyDPadDown   = 20
	KeyDPadLeft   = 21
	KeyDPadRight  = 22
	KeyDPadCenter = 23
	KeyVolumeUp   = 24
	KeyVolumeDown = 25
	KeyA          = 29
	KeyZ          = 54
	Key0          = 7
	Key9          = 16
	KeyComma      = 55
	KeyPeriod     = 56
	KeyTab        = 61
	KeySpace      = 62
	KeyEnter      = 66
	KeyDel        = 67
	KeyEscape     = 111
	KeyF1         = 131
	KeyF12        = 142

	KeyButtonA      = 96
	KeyButtonB      = 97
	KeyButtonC      = 98
	KeyButtonX      = 99
	KeyButtonY      = 100
	KeyButtonZ      = 101
	KeyButtonL1     = 102
	KeyButtonR1     = 103
	KeyButtonL2     = 104
	KeyButtonR2     = 105
	KeyButtonThumbL = 106
	KeyButtonThumbR = 107
	KeyButtonStart  = 108
	KeyButtonSelect = 109
	KeyButtonMode   = 110
	KeyButton1      = 188
	KeyButton16     = 203
)

// Axis indices.
const (
	AxisX        = 0
	AxisY        = 1
	AxisZ        = 11
	AxisRX       = 12
	AxisRY       = 13
	AxisRZ       = 14
	AxisHatX     = 15
	AxisHatY     = 16
	AxisLTrigger = 17
	AxisRTrigger = 18
	AxisThrottle = 19
	AxisRudder   = 20
	AxisWheel    = 21
	AxisGas      = 22
	AxisBrake    = 23
	AxisGeneric1 = 32
)

// MaxAxes bounds the axis space probed by default.
const MaxAxes = 64

var keyNames = map[int]string{
	KeyDPadUp:       "KEYCODE_DPAD_UP",
	KeyDPadDown:     "KEYCODE_DPAD_DOWN",
	KeyDPadLeft:     "KEYCODE_DPAD_LEFT",
	KeyDPadRight:    "KEYCODE_DPAD_RIGHT",
	KeyDPadCenter:   "KEYCODE_DPAD_CENTER",
	KeyVolumeUp:     "KEYCODE_VOLUME_UP",
	KeyVolumeDown:   "KEYCODE_VOLUME_DOWN",
	KeyComma:        "KEYCODE_COMMA",
	KeyPeriod:       "KEYCODE_PERIOD",
	KeyTab:          "KEYCODE_TAB",
	KeySpace:        "KEYCODE_SPACE",
	KeyEnter:        "KEYCODE_ENTER",
	KeyDel:          "KEYCODE_DEL",
	KeyEscape:       "KEYCODE_ESCAPE",
	KeyButtonA:      "KEYCODE_BUTTON_A",
	KeyButtonB:      "KEYCODE_BUTTON_B",
	KeyButtonC:      "KEYCODE_BUTTON_C",
	KeyButtonX:      "KEYCODE_BUTTON_X",
	KeyButtonY:      "KEYCODE_BUTTON_Y",
	KeyButtonZ:      "KEYCODE_BUTTON_Z",
	KeyButtonL1:     "KEYCODE_BUTTON_L1",
	KeyButtonR1:     "KEYCODE_BUTTON_R1",
	KeyButtonL2:     "KEYCODE_BUTTON_L2",
	KeyButtonR2:     "KEYCODE_BUTTON_R2",
	KeyButtonThumbL: "KEYCODE_BUTTON_THUMBL",
	KeyButtonThumbR: "KEYCODE_BUTTON_THUMBR",
	KeyButtonStart:  "KEYCODE_BUTTON_START",
	KeyButtonSelect: "KEYCODE_BUTTON_SELECT",
	KeyButtonMode:   "KEYCODE_BUTTON_MODE",
}

var axisNames = map[int]string{
	AxisX:        "AXIS_X",
	AxisY:        "AXIS_Y",
	AxisZ:        "AXIS_Z",
	AxisRX:       "AXIS_RX",
	AxisRY:       "AXIS_RY",
	AxisRZ:       "AXIS_RZ",
	AxisHatX:     "AXIS_HAT_X",
	AxisHatY:     "AXIS_HAT_Y",
	AxisLTrigger: "AXIS_LTRIGGER",
	AxisRTrigger: "AXIS_RTRIGGER",
	AxisThrottle: "AXIS_THROTTLE",
	AxisRudder:   "AXIS_RUDDER",
	AxisWheel:    "AXIS_WHEEL",
	AxisGas:      "AXIS_GAS",
	AxisBrake:    "AXIS_BRAKE",
}

var (
	keyCodes  = make(map[string]int)
	axisCodes = make(map[string]int)
)

func init() {
	for i := 0; i < 26; i++ {
		keyNames[KeyA+i] = "KEYCODE_" + string(rune('A'+i))
	}

	for i := 0; i < 10; i++ {
		keyNames[Key0+i] = "KEYCODE_" + strconv.Itoa(i)
	}

	for i := 0; i < 12; i++ {
		keyNames[KeyF1+i] = "KEYCODE_F" + strconv.Itoa(i+1)
	}

	for i := 0; i < 16; i++ {
		keyNames[KeyButton1+i] = "KEYCODE_BUTTON_" + strconv.Itoa(i+1)
		axisNames[AxisGeneric1+i] = "AXIS_GENERIC_" + strconv.Itoa(i+1)
	}

	for code, name := range keyNames {
		keyCodes[name] = code
	}

	for axis, name := range axisNames {
		axisCodes[name] = axis
	}
}
