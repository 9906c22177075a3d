package joypad

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
)

var ErrInvalidSample = errors.New("invalid accelerometer sample")

const sampleSize = 12

// Accelerometer relays samples sent by remote peers to whoever started
// it. Samples arriving while stopped are dropped.
type Accelerometer struct {
	handler func(x, y, z float64)
	sync.RWMutex
}

func NewAccelerometer() *Accelerometer {
	return &Accelerometer{}
}

func (a *Accelerometer) Start(handler func(x, y, z float64)) error {
	a.Lock()
	defer a.Unlock()

	a.handler = handler
	return nil
}

func (a *Accelerometer) Stop() {
	a.Lock()
	defer a.Unlock()

	a.handler = nil
}

func (a *Accelerometer) Running() bool {
	a.RLock()
	defer a.RUnlock()

	return a.handler != nil
}

// Sample delivers one reading in m/s².
func (a *Accelerometer) Sample(x, y, z float64) {
	a.RLock()
	handler := a.handler
	a.RUnlock()

	if handler != nil {
		handler(x, y, z)
	}
}

// ParseSample decodes three big endian float32 values.
func ParseSample(data []byte) (x, y, z float64, err error) {
	if len(data) < sampleSize {
		return 0, 0, 0, ErrInvalidSample
	}

	x = float64(math.Float32frombits(binary.BigEndian.Uint32(data[0:4])))
	y = float64(math.Float32frombits(binary.BigEndian.Uint32(data[4:8])))
	z = float64(math.Float32frombits(binary.BigEndian.Uint32(data[8:12])))

	return x, y, z, nil
}
