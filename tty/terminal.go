//go:build linux || darwin

package tty

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/pkg/term/termios"
)

// Terminal switches a terminal into cbreak mode and back.
type Terminal struct {
	input      *os.File
	canAttr    unix.Termios
	cbreakAttr unix.Termios
}

func Open(input *os.File) (*Terminal, error) {
	t := &Terminal{input: input}

	if err := termios.Tcgetattr(input.Fd(), &t.canAttr); err != nil {
		return nil, err
	}

	t.cbreakAttr = t.canAttr
	termios.Cfmakecbreak(&t.cbreakAttr)

	// no local echo of the keys
	t.cbreakAttr.Lflag &^= unix.ECHO

	if err := termios.Tcsetattr(input.Fd(), termios.TCIFLUSH, &t.cbreakAttr); err != nil {
		return nil, err
	}

	return t, nil
}

// Close restores canonical mode.
func (t *Terminal) Close() error {
	return termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.canAttr)
}
