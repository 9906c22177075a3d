package mapping

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/n64"
)

func TestInputMapGet(t *testing.T) {
	assert := assert.New(t)

	m := NewInputMap()
	m.Map(inputcode.Key(23), n64.A)

	assert.Equal(n64.A, m.Get(inputcode.Key(23)))
	assert.Equal(inputcode.Key(23), m.Code(n64.A))
	assert.Equal(n64.None, m.Get(inputcode.Key(24)))
	assert.Equal(n64.None, m.Get(inputcode.Unmapped))
}

func TestInputMapStealsCode(t *testing.T) {
	assert := assert.New(t)

	m := NewInputMap()
	m.Map(inputcode.Key(23), n64.A)
	m.Map(inputcode.Key(23), n64.B)

	assert.Equal(n64.B, m.Get(inputcode.Key(23)))
	assert.Equal(inputcode.Unmapped, m.Code(n64.A))
	assert.Equal(inputcode.Key(23), m.Code(n64.B))
}

func TestInputMapReplacesCode(t *testing.T) {
	assert := assert.New(t)

	m := NewInputMap()
	m.Map(inputcode.Key(23), n64.A)
	m.Map(inputcode.Key(24), n64.A)

	assert.Equal(n64.None, m.Get(inputcode.Key(23)))
	assert.Equal(n64.A, m.Get(inputcode.Key(24)))

	m.Unmap(n64.A)
	assert.Equal(n64.None, m.Get(inputcode.Key(24)))
	assert.Equal(inputcode.Unmapped, m.Code(n64.A))
}

func TestInputMapInjective(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(64))

	m := NewInputMap()
	for i := 0; i < 2000; i++ {
		code := inputcode.Code(rng.Intn(41) - 20)
		cmd := n64.Command(rng.Intn(n64.NumCommands))
		m.Map(code, cmd)
	}

	seen := make(map[inputcode.Code]n64.Command)
	for i, code := range m.Codes() {
		if code == inputcode.Unmapped {
			continue
		}

		_, dup := seen[code]
		assert.False(dup, code.String())
		seen[code] = n64.Command(i)

		assert.Equal(n64.Command(i), m.Get(code))
	}
}

func TestInputMapSerialize(t *testing.T) {
	assert := assert.New(t)

	m := NewInputMap()
	m.Map(inputcode.Key(23), n64.DPadRight)
	m.Map(inputcode.Axis(2, false), n64.DPadDown)

	s := m.Serialize()
	assert.True(strings.HasPrefix(s, "23,0,-6,0,"))
	assert.True(strings.HasSuffix(s, ","))
	assert.Equal(n64.NumCommands, strings.Count(s, ","))

	restored := ParseInputMap(s)
	assert.Equal(m.Codes(), restored.Codes())
	assert.Equal(s, restored.Serialize())
}

func TestInputMapLenientParse(t *testing.T) {
	assert := assert.New(t)

	m := ParseInputMap("23,abc,-5")

	assert.Equal(inputcode.Key(23), m.Code(n64.DPadRight))
	assert.Equal(inputcode.Unmapped, m.Code(n64.DPadLeft))
	assert.Equal(inputcode.Code(-5), m.Code(n64.DPadDown))
	assert.Equal(inputcode.Unmapped, m.Code(n64.DecrementSlot))

	m = ParseInputMap("")
	assert.Equal([n64.NumCommands]inputcode.Code{}, m.Codes())
}

func TestInputMapDuplicateTokens(t *testing.T) {
	assert := assert.New(t)

	m := ParseInputMap("23,23,")

	assert.Equal(inputcode.Unmapped, m.Code(n64.DPadRight))
	assert.Equal(inputcode.Key(23), m.Code(n64.DPadLeft))
}

func TestInputMapEnabledPrefix(t *testing.T) {
	assert := assert.New(t)

	m := ParseInputMap("false:23,0,-5,")
	assert.False(m.Enabled())
	assert.Equal(inputcode.Key(23), m.Code(n64.DPadRight))
	assert.Equal(inputcode.Code(-5), m.Code(n64.DPadDown))

	m = ParseInputMap("23,0,")
	assert.True(m.Enabled())
}

func TestInputMapListeners(t *testing.T) {
	assert := assert.New(t)

	m := NewInputMap()

	calls := 0
	unsubscribe := m.Subscribe(func(changed *InputMap) {
		calls++
		assert.Equal(n64.A, changed.Get(inputcode.Key(23)))
	})

	m.Map(inputcode.Key(23), n64.A)
	assert.Equal(1, calls)

	unsubscribe()

	m.Map(inputcode.Key(24), n64.B)
	assert.Equal(1, calls)
}

func TestInputMapListenerUnsubscribesItself(t *testing.T) {
	assert := assert.New(t)

	m := NewInputMap()

	var calls []string
	var unsubscribe func()
	unsubscribe = m.Subscribe(func(*InputMap) {
		calls = append(calls, "first")
		unsubscribe()
	})

	m.Subscribe(func(*InputMap) {
		calls = append(calls, "second")
	})

	m.Deserialize("23,")
	m.Deserialize("24,")

	assert.Equal([]string{"first", "second", "second"}, calls)
}

func TestApplyThreshold(t *testing.T) {
	assert := assert.New(t)

	m := NewInputMap()
	m.Map(inputcode.Key(23), n64.A)

	var state n64.State
	var acc Accumulator

	cmd := m.Apply(inputcode.Key(23), 0.5, &state, &acc)
	assert.Equal(n64.A, cmd)
	assert.False(state.Buttons[n64.A])

	m.Apply(inputcode.Key(23), 0.5000001, &state, &acc)
	assert.True(state.Buttons[n64.A])

	m.Apply(inputcode.Key(23), 0, &state, &acc)
	assert.False(state.Buttons[n64.A])
}

func TestApplyAxes(t *testing.T) {
	assert := assert.New(t)

	m := NewInputMap()
	m.Map(-31, n64.AxisRight)
	m.Map(-32, n64.AxisLeft)
	m.Map(-33, n64.AxisDown)
	m.Map(-34, n64.AxisUp)

	var state n64.State
	var acc Accumulator

	m.Apply(-31, 0.6, &state, &acc)
	m.Apply(-32, 0.2, &state, &acc)
	assert.InDelta(0.4, state.AxisX, 1e-9)

	m.Apply(-34, 0.3, &state, &acc)
	assert.InDelta(0.3, state.AxisY, 1e-9)

	m.Apply(-33, 0.8, &state, &acc)
	assert.InDelta(-0.5, state.AxisY, 1e-9)

	assert.Equal(n64.None, m.Apply(-99, 1, &state, &acc))
}
