// Package tty reads a raw terminal as a keyboard. Terminals report
// presses only, so a key is held until it has not repeated for a while.
package tty

import "github.com/flarexio/joypad/inputcode"

const (
	asciiInterrupt = 3
	asciiBackspace = 8
	asciiTab       = 9
	asciiNewline   = 10
	asciiReturn    = 13
	asciiEsc       = 27
	asciiDelete    = 127
)

// cursor keys follow ESC [
var cursorKeys = map[byte]int{
	'A': inputcode.KeyDPadUp,
	'B': inputcode.KeyDPadDown,
	'C': inputcode.KeyDPadRight,
	'D': inputcode.KeyDPadLeft,
}

// Decode converts terminal input to key codes. It reports whether an
// interrupt (Ctrl-C) was read; decoding stops there.
func Decode(buf []byte) (keys []int, interrupted bool) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		switch {
		case b == asciiInterrupt:
			return keys, true

		case b == asciiEsc:
			if i+2 < len(buf) && buf[i+1] == '[' {
				if key, ok := cursorKeys[buf[i+2]]; ok {
					keys = append(keys, key)
					i += 2
					continue
				}
			}

			keys = append(keys, inputcode.KeyEscape)

		default:
			if key, ok := asciiKey(b); ok {
				keys = append(keys, key)
			}
		}
	}

	return keys, false
}

func asciiKey(b byte) (int, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return inputcode.KeyA + int(b-'a'), true
	case b >= 'A' && b <= 'Z':
		return inputcode.KeyA + int(b-'A'), true
	case b >= '0' && b <= '9':
		return inputcode.Key0 + int(b-'0'), true
	}

	switch b {
	case ' ':
		return inputcode.KeySpace, true
	case asciiReturn, asciiNewline:
		return inputcode.KeyEnter, true
	case asciiTab:
		return inputcode.KeyTab, true
	case asciiBackspace, asciiDelete:
		return inputcode.KeyDel, true
	case ',':
		return inputcode.KeyComma, true
	case '.':
		return inputcode.KeyPeriod, true
	}

	return 0, false
}
