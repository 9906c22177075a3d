package inputcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for axis := 0; axis < 128; axis++ {
		for _, positive := range []bool{true, false} {
			code := Axis(axis, positive)
			assert.True(code.IsAxis())

			a, p := code.Axis()
			assert.Equal(axis, a)
			assert.Equal(positive, p)
		}
	}
}

func TestAxisParity(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Code(-1), Axis(0, true))
	assert.Equal(Code(-2), Axis(0, false))
	assert.Equal(Code(-31), Axis(AxisHatX, true))
	assert.Equal(Code(-32), Axis(AxisHatX, false))
}

func TestCodeKinds(t *testing.T) {
	assert := assert.New(t)

	assert.True(Key(KeyDPadCenter).IsKey())
	assert.False(Key(KeyDPadCenter).IsAxis())
	assert.True(Unmapped.IsUnmapped())
	assert.False(Unmapped.IsKey())
	assert.False(Unmapped.IsAxis())
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("KEYCODE_DPAD_CENTER", Key(KeyDPadCenter).String())
	assert.Equal("KEYCODE_Q", Key(45).String())
	assert.Equal("KEYCODE_999", Key(999).String())
	assert.Equal("AXIS_X+", Axis(AxisX, true).String())
	assert.Equal("AXIS_HAT_Y-", Axis(AxisHatY, false).String())
	assert.Equal("AXIS_5-", Axis(5, false).String())
	assert.Equal("UNMAPPED", Unmapped.String())
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	for _, code := range []Code{
		Unmapped,
		Key(KeyButtonA),
		Key(KeyA + 3),
		Key(500),
		Axis(AxisRZ, true),
		Axis(AxisGeneric1+2, false),
		Axis(7, true),
	} {
		parsed, err := Parse(code.String())
		if err != nil {
			assert.Fail(err.Error())
			return
		}

		assert.Equal(code, parsed)
	}

	code, err := Parse("-31")
	assert.NoError(err)
	assert.Equal(Axis(AxisHatX, true), code)

	_, err = Parse("AXIS_X")
	assert.ErrorIs(err, ErrInvalidCode)

	_, err = Parse("nonsense")
	assert.ErrorIs(err, ErrInvalidCode)
}
