package tty

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/flarexio/joypad/provider"
)

const DefaultHold = 150 * time.Millisecond

var ErrInterrupted = errors.New("interrupted")

type Keyboard struct {
	log        *zap.Logger
	keys       *provider.KeyProvider
	hardwareID int
	hold       time.Duration
	timers     map[int]*time.Timer
	mu         sync.Mutex
}

// NewKeyboard reports key events under hardwareID. A key is released
// hold after its last press or repeat.
func NewKeyboard(keys *provider.KeyProvider, hardwareID int, hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}

	return &Keyboard{
		log: zap.L().With(
			zap.String("component", "tty"),
		),
		keys:       keys,
		hardwareID: hardwareID,
		hold:       hold,
		timers:     make(map[int]*time.Timer),
	}
}

// Press presses key, or extends its hold when it is already down.
func (k *Keyboard) Press(key int) {
	k.mu.Lock()
	if timer, ok := k.timers[key]; ok {
		timer.Reset(k.hold)
		k.mu.Unlock()
		return
	}

	k.timers[key] = time.AfterFunc(k.hold, func() {
		k.release(key)
	})
	k.mu.Unlock()

	k.keys.OnKey(provider.KeyEvent{
		KeyCode:    key,
		Action:     provider.KeyDown,
		HardwareID: k.hardwareID,
	})
}

func (k *Keyboard) release(key int) {
	k.mu.Lock()
	_, ok := k.timers[key]
	delete(k.timers, key)
	k.mu.Unlock()

	if !ok {
		return
	}

	k.keys.OnKey(provider.KeyEvent{
		KeyCode:    key,
		Action:     provider.KeyUp,
		HardwareID: k.hardwareID,
	})
}

// ReleaseAll releases every held key now.
func (k *Keyboard) ReleaseAll() {
	k.mu.Lock()
	held := make([]int, 0, len(k.timers))
	for key, timer := range k.timers {
		timer.Stop()
		held = append(held, key)
	}
	k.mu.Unlock()

	for _, key := range held {
		k.release(key)
	}
}

// Run reads r until ctx is done, r fails or Ctrl-C is read. The read
// itself cannot be interrupted, so the reader goroutine may outlive Run
// until the next byte arrives.
func (k *Keyboard) Run(ctx context.Context, r io.Reader) error {
	defer k.ReleaseAll()

	chunks := make(chan []byte)
	errs := make(chan error, 1)

	go func() {
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])

				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}

			if err != nil {
				errs <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err

		case chunk := <-chunks:
			keys, interrupted := Decode(chunk)
			for _, key := range keys {
				k.Press(key)
			}

			if interrupted {
				k.log.Info("interrupted")
				return ErrInterrupted
			}
		}
	}
}
