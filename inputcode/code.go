// Package inputcode folds keys and analog axis directions into a single
// signed integer space.
//
// Positive codes are platform key codes. Negative codes are axis
// directions: the axis index lives in the magnitude and the direction in
// its parity. Zero means unmapped.
package inputcode

import (
	"errors"
	"strconv"
	"strings"
)

type Code int

const Unmapped Code = 0

var ErrInvalidCode = errors.New("invalid input code")

// Key returns the code for a platform key code.
func Key(keyCode int) Code {
	return Code(keyCode)
}

// Axis returns the code for one direction of an axis.
func Axis(axis int, positive bool) Code {
	if positive {
		return Code(-(axis*2 + 1))
	}

	return Code(-(axis*2 + 2))
}

func (c Code) IsKey() bool {
	return c > 0
}

func (c Code) IsAxis() bool {
	return c < 0
}

func (c Code) IsUnmapped() bool {
	return c == Unmapped
}

func (c Code) KeyCode() int {
	return int(c)
}

// Axis decodes an axis code. It panics on a non-axis code.
func (c Code) Axis() (axis int, positive bool) {
	if c >= 0 {
		panic("inputcode: not an axis code")
	}

	n := int(-c)
	return (n - 1) / 2, n%2 == 1
}

func (c Code) String() string {
	switch {
	case c > 0:
		if name, ok := keyNames[int(c)]; ok {
			return name
		}

		return "KEYCODE_" + strconv.Itoa(int(c))

	case c < 0:
		axis, positive := c.Axis()

		sign := "-"
		if positive {
			sign = "+"
		}

		if name, ok := axisNames[axis]; ok {
			return name + sign
		}

		return "AXIS_" + strconv.Itoa(axis) + sign

	default:
		return "UNMAPPED"
	}
}

// Parse accepts a decimal code or a name produced by String.
func Parse(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unmapped") {
		return Unmapped, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return Code(n), nil
	}

	name := strings.ToUpper(s)

	if strings.HasPrefix(name, "AXIS_") {
		positive := true
		switch {
		case strings.HasSuffix(name, "+"):
			name = strings.TrimSuffix(name, "+")
		case strings.HasSuffix(name, "-"):
			name = strings.TrimSuffix(name, "-")
			positive = false
		default:
			return Unmapped, ErrInvalidCode
		}

		if axis, ok := axisCodes[name]; ok {
			return Axis(axis, positive), nil
		}

		axis, err := strconv.Atoi(strings.TrimPrefix(name, "AXIS_"))
		if err != nil || axis < 0 {
			return Unmapped, ErrInvalidCode
		}

		return Axis(axis, positive), nil
	}

	if key, ok := keyCodes[name]; ok {
		return Key(key), nil
	}

	if rest, ok := strings.CutPrefix(name, "KEYCODE_"); ok {
		key, err := strconv.Atoi(rest)
		if err == nil && key > 0 {
			return Key(key), nil
		}
	}

	return Unmapped, ErrInvalidCode
}
