package tty

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/provider"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	keys, interrupted := Decode([]byte("aZ5 \r"))
	assert.False(interrupted)
	assert.Equal([]int{
		inputcode.KeyA,
		inputcode.KeyZ,
		inputcode.Key0 + 5,
		inputcode.KeySpace,
		inputcode.KeyEnter,
	}, keys)

	keys, _ = Decode([]byte("\x1b[A\x1b[D\x1b"))
	assert.Equal([]int{
		inputcode.KeyDPadUp,
		inputcode.KeyDPadLeft,
		inputcode.KeyEscape,
	}, keys)

	keys, interrupted = Decode([]byte("x\x03y"))
	assert.True(interrupted)
	assert.Equal([]int{inputcode.KeyA + 23}, keys)

	keys, _ = Decode([]byte("~"))
	assert.Empty(keys)
}

type keyLog struct {
	events []provider.KeyAction
	codes  []inputcode.Code
	sync.Mutex
}

func (l *keyLog) len() int {
	l.Lock()
	defer l.Unlock()

	return len(l.events)
}

func newKeyLog(keys *provider.KeyProvider) *keyLog {
	l := &keyLog{}

	keys.Register(&provider.ListenerFuncs{
		OnSingle: func(code inputcode.Code, strength float64, hardwareID int) {
			l.Lock()
			defer l.Unlock()

			action := provider.KeyUp
			if strength > 0 {
				action = provider.KeyDown
			}

			l.events = append(l.events, action)
			l.codes = append(l.codes, code)
		},
	})

	return l
}

func TestKeyboardHold(t *testing.T) {
	assert := assert.New(t)

	keys := provider.NewKeyProvider(provider.ImeDefault, nil)
	log := newKeyLog(keys)

	kb := NewKeyboard(keys, 0, 50*time.Millisecond)

	kb.Press(inputcode.KeyA)
	kb.Press(inputcode.KeyA)
	assert.Equal(1, log.len())

	assert.Eventually(func() bool {
		return log.len() == 2
	}, time.Second, 5*time.Millisecond)

	log.Lock()
	assert.Equal([]provider.KeyAction{provider.KeyDown, provider.KeyUp}, log.events)
	log.Unlock()
}

func TestKeyboardRun(t *testing.T) {
	assert := assert.New(t)

	keys := provider.NewKeyProvider(provider.ImeDefault, nil)
	log := newKeyLog(keys)

	kb := NewKeyboard(keys, 0, time.Hour)

	err := kb.Run(context.Background(), strings.NewReader("ab\x03"))
	assert.ErrorIs(err, ErrInterrupted)

	// everything is released on return
	log.Lock()
	defer log.Unlock()

	assert.Len(log.events, 4)
	assert.Equal(provider.KeyDown, log.events[0])
	assert.Equal(provider.KeyDown, log.events[1])
	assert.Equal(provider.KeyUp, log.events[2])
	assert.Equal(provider.KeyUp, log.events[3])
}

func TestKeyboardRunEOF(t *testing.T) {
	assert := assert.New(t)

	keys := provider.NewKeyProvider(provider.ImeDefault, nil)
	kb := NewKeyboard(keys, 0, 0)

	assert.NoError(kb.Run(context.Background(), strings.NewReader("")))
}
