package core

import (
	"sync"

	"github.com/flarexio/joypad/n64"
)

// Memory is an in-process core that records what it is told. It backs
// dry runs and tests.
type Memory struct {
	Vibrators

	states  map[int]n64.Snapshot
	configs map[int]Config
	pushes  map[int]int
	calls   []string
	slot    int
	speed   int
	paused  bool
	mu      sync.Mutex
}

type Config struct {
	Plugged bool
	Pak     n64.PakType
}

func NewMemory() *Memory {
	return &Memory{
		states:  make(map[int]n64.Snapshot),
		configs: make(map[int]Config),
		pushes:  make(map[int]int),
		speed:   100,
	}
}

func (m *Memory) SetControllerState(player int, snapshot n64.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[player] = snapshot
	m.pushes[player]++
}

func (m *Memory) SetControllerConfig(player int, plugged bool, pak n64.PakType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs[player] = Config{plugged, pak}
}

func (m *Memory) RegisterVibrator(player int, vibrator Vibrator) {
	m.Vibrators.Register(player, vibrator)
}

func (m *Memory) SaveSlot() { m.record("save_slot") }
func (m *Memory) LoadSlot() { m.record("load_slot") }

func (m *Memory) SetSlot(slot int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slot = wrapSlot(slot)
	m.calls = append(m.calls, "set_slot")
}

func (m *Memory) Slot() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.slot
}

func (m *Memory) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paused = true
	m.calls = append(m.calls, "pause")
}

func (m *Memory) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paused = false
	m.calls = append(m.calls, "resume")
}

func (m *Memory) Reset()        { m.record("reset") }
func (m *Memory) Stop()         { m.record("stop") }
func (m *Memory) AdvanceFrame() { m.record("advance_frame") }
func (m *Memory) Screenshot()   { m.record("screenshot") }

func (m *Memory) SetSpeed(percent int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.speed = percent
	m.calls = append(m.calls, "set_speed")
}

func (m *Memory) Gameshark(pressed bool) {
	if pressed {
		m.record("gameshark_on")
	} else {
		m.record("gameshark_off")
	}
}

func (m *Memory) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call)
}

// State returns the last snapshot pushed for player.
func (m *Memory) State(player int) n64.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.states[player]
}

func (m *Memory) Pushes(player int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pushes[player]
}

func (m *Memory) Config(player int) (Config, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, ok := m.configs[player]
	return cfg, ok
}

func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *Memory) Speed() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.speed
}

func (m *Memory) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.paused
}
