//go:build !(linux || darwin)

package tty

import (
	"errors"
	"os"
)

type Terminal struct{}

func Open(input *os.File) (*Terminal, error) {
	return nil, errors.New("raw terminal not supported on this platform")
}

func (t *Terminal) Close() error {
	return nil
}
