// Package mapping binds input codes to controller commands and hardware
// devices to players.
package mapping

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/flarexio/joypad/inputcode"
	"github.com/flarexio/joypad/n64"
)

// Threshold is the strength above which a digital command is held.
const Threshold = 0.5

type InputMap struct {
	enabled   bool
	codes     [n64.NumCommands]inputcode.Code
	commands  map[inputcode.Code]n64.Command
	listeners map[int]func(*InputMap)
	nextID    int
	sync.RWMutex
}

func NewInputMap() *InputMap {
	return &InputMap{
		enabled:   true,
		commands:  make(map[inputcode.Code]n64.Command),
		listeners: make(map[int]func(*InputMap)),
	}
}

// ParseInputMap builds a map from its serialized form. Parsing is lenient,
// see Deserialize.
func ParseInputMap(s string) *InputMap {
	m := NewInputMap()
	m.load(s)
	return m
}

// Get returns the command bound to code, or n64.None.
func (m *InputMap) Get(code inputcode.Code) n64.Command {
	if code == inputcode.Unmapped {
		return n64.None
	}

	m.RLock()
	defer m.RUnlock()

	cmd, ok := m.commands[code]
	if !ok {
		return n64.None
	}

	return cmd
}

// Code returns the code bound to cmd.
func (m *InputMap) Code(cmd n64.Command) inputcode.Code {
	if !cmd.Valid() {
		return inputcode.Unmapped
	}

	m.RLock()
	defer m.RUnlock()

	return m.codes[cmd]
}

// Codes returns a copy of the command to code table.
func (m *InputMap) Codes() [n64.NumCommands]inputcode.Code {
	m.RLock()
	defer m.RUnlock()

	return m.codes
}

// Map binds code to cmd. The code is taken from any command that held it
// and the previous code of cmd becomes unmapped.
func (m *InputMap) Map(code inputcode.Code, cmd n64.Command) {
	if !cmd.Valid() {
		return
	}

	m.Lock()
	m.bind(code, cmd)
	m.Unlock()

	m.notify()
}

// Unmap clears the code bound to cmd.
func (m *InputMap) Unmap(cmd n64.Command) {
	m.Map(inputcode.Unmapped, cmd)
}

// UnmapAll clears every binding.
func (m *InputMap) UnmapAll() {
	m.Lock()
	m.reset()
	m.Unlock()

	m.notify()
}

func (m *InputMap) bind(code inputcode.Code, cmd n64.Command) {
	if code != inputcode.Unmapped {
		if old, ok := m.commands[code]; ok && old != cmd {
			m.codes[old] = inputcode.Unmapped
		}
	}

	if prev := m.codes[cmd]; prev != inputcode.Unmapped {
		delete(m.commands, prev)
	}

	m.codes[cmd] = code

	if code != inputcode.Unmapped {
		m.commands[code] = cmd
	}
}

func (m *InputMap) reset() {
	m.codes = [n64.NumCommands]inputcode.Code{}
	m.commands = make(map[inputcode.Code]n64.Command)
}

func (m *InputMap) Enabled() bool {
	m.RLock()
	defer m.RUnlock()

	return m.enabled
}

func (m *InputMap) SetEnabled(enabled bool) {
	m.Lock()
	m.enabled = enabled
	m.Unlock()

	m.notify()
}

// Serialize writes one decimal code per command in command order, each
// followed by a comma.
func (m *InputMap) Serialize() string {
	m.RLock()
	defer m.RUnlock()

	var sb strings.Builder
	for _, code := range m.codes {
		sb.WriteString(strconv.Itoa(int(code)))
		sb.WriteByte(',')
	}

	return sb.String()
}

// Deserialize replaces every binding. Missing trailing entries and
// malformed tokens are unmapped. A legacy "true:" or "false:" prefix sets
// the enabled flag.
func (m *InputMap) Deserialize(s string) {
	m.load(s)
	m.notify()
}

func (m *InputMap) load(s string) {
	m.Lock()
	defer m.Unlock()

	m.reset()

	if prefix, rest, ok := strings.Cut(s, ":"); ok {
		if enabled, err := strconv.ParseBool(strings.TrimSpace(prefix)); err == nil {
			m.enabled = enabled
			s = rest
		}
	}

	tokens := strings.Split(s, ",")
	for i := 0; i < n64.NumCommands && i < len(tokens); i++ {
		code, err := strconv.Atoi(strings.TrimSpace(tokens[i]))
		if err != nil {
			continue
		}

		m.bind(inputcode.Code(code), n64.Command(i))
	}
}

// Describe names the code bound to cmd.
func (m *InputMap) Describe(cmd n64.Command) string {
	return m.Code(cmd).String()
}

// Subscribe registers fn to run after every change. The returned function
// removes it.
func (m *InputMap) Subscribe(fn func(*InputMap)) (unsubscribe func()) {
	m.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.Unlock()

	return func() {
		m.Lock()
		delete(m.listeners, id)
		m.Unlock()
	}
}

func (m *InputMap) notify() {
	m.RLock()
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	m.RUnlock()

	slices.Sort(ids)

	for _, id := range ids {
		m.RLock()
		fn, ok := m.listeners[id]
		m.RUnlock()

		if ok {
			fn(m)
		}
	}
}
