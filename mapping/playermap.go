package mapping

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const MaxPlayers = 4

var ErrInvalidPlayer = errors.New("invalid player")

// PlayerMap routes hardware devices to players 1..4. A disabled map routes
// every device to every player.
type PlayerMap struct {
	log      *zap.Logger
	disabled bool
	players  map[int]int
	names    map[int]string
	sync.RWMutex
}

func NewPlayerMap() *PlayerMap {
	return &PlayerMap{
		log: zap.L().With(
			zap.String("component", "player_map"),
		),
		players: make(map[int]int),
		names:   make(map[int]string),
	}
}

func ParsePlayerMap(s string) *PlayerMap {
	m := NewPlayerMap()
	m.Deserialize(s)
	return m
}

// Test reports whether events from hardwareID belong to player.
func (m *PlayerMap) Test(hardwareID int, player int) bool {
	m.RLock()
	defer m.RUnlock()

	return m.disabled || m.players[hardwareID] == player
}

func (m *PlayerMap) Enabled() bool {
	m.RLock()
	defer m.RUnlock()

	return !m.disabled
}

func (m *PlayerMap) SetEnabled(enabled bool) {
	m.Lock()
	m.disabled = !enabled
	m.Unlock()
}

// Map assigns hardwareID to player, replacing any earlier assignment.
func (m *PlayerMap) Map(hardwareID int, player int) error {
	return m.MapNamed(hardwareID, "", player)
}

// MapNamed is Map for a device with a stable name, used by Reconnect.
func (m *PlayerMap) MapNamed(hardwareID int, name string, player int) error {
	if player < 1 || player > MaxPlayers {
		m.log.Warn("invalid player",
			zap.Int("hardware", hardwareID),
			zap.Int("player", player))

		return ErrInvalidPlayer
	}

	m.Lock()
	defer m.Unlock()

	m.players[hardwareID] = player

	if name != "" {
		m.names[hardwareID] = name
	} else {
		delete(m.names, hardwareID)
	}

	return nil
}

func (m *PlayerMap) Unmap(hardwareID int) {
	m.Lock()
	defer m.Unlock()

	delete(m.players, hardwareID)
	delete(m.names, hardwareID)
}

func (m *PlayerMap) UnmapPlayer(player int) {
	m.Lock()
	defer m.Unlock()

	for id, p := range m.players {
		if p == player {
			delete(m.players, id)
			delete(m.names, id)
		}
	}
}

func (m *PlayerMap) UnmapAll() {
	m.Lock()
	defer m.Unlock()

	m.players = make(map[int]int)
	m.names = make(map[int]string)
}

// Player returns the player of hardwareID, or 0.
func (m *PlayerMap) Player(hardwareID int) int {
	m.RLock()
	defer m.RUnlock()

	return m.players[hardwareID]
}

func (m *PlayerMap) IsMapped(player int) bool {
	return len(m.Devices(player)) > 0
}

// Devices lists the hardware ids assigned to player in ascending order.
func (m *PlayerMap) Devices(player int) []int {
	m.RLock()
	defer m.RUnlock()

	ids := make([]int, 0)
	for id, p := range m.players {
		if p == player {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)
	return ids
}

// Reconnect moves a named device that came back under a new hardware id.
// It reports whether a mapping was carried over.
func (m *PlayerMap) Reconnect(hardwareID int, name string, connected func(hardwareID int) bool) bool {
	if name == "" {
		return false
	}

	m.Lock()
	defer m.Unlock()

	if _, ok := m.players[hardwareID]; ok {
		return false
	}

	for oldID, oldName := range m.names {
		if oldName != name || oldID == hardwareID {
			continue
		}

		if connected != nil && connected(oldID) {
			continue
		}

		player := m.players[oldID]
		if player == 0 {
			continue
		}

		delete(m.players, oldID)
		delete(m.names, oldID)

		m.players[hardwareID] = player
		m.names[hardwareID] = name

		m.log.Info("device reconnected",
			zap.String("device", name),
			zap.Int("from", oldID),
			zap.Int("to", hardwareID),
			zap.Int("player", player))

		return true
	}

	return false
}

// Serialize writes "player:device," pairs ordered by hardware id. Named
// devices are written as "name#id".
func (m *PlayerMap) Serialize() string {
	m.RLock()
	defer m.RUnlock()

	ids := make([]int, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(strconv.Itoa(m.players[id]))
		sb.WriteByte(':')

		if name, ok := m.names[id]; ok {
			sb.WriteString(name)
			sb.WriteByte('#')
		}

		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte(',')
	}

	return sb.String()
}

// Deserialize replaces every mapping. Malformed pairs are skipped; "$" is
// accepted in place of ":".
func (m *PlayerMap) Deserialize(s string) {
	m.UnmapAll()

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		player, device, ok := strings.Cut(pair, ":")
		if !ok {
			player, device, ok = strings.Cut(pair, "$")
			if !ok {
				continue
			}
		}

		p, err := strconv.Atoi(player)
		if err != nil {
			continue
		}

		var name string
		if n, id, ok := strings.Cut(device, "#"); ok {
			name = n
			device = id
		}

		id, err := strconv.Atoi(device)
		if err != nil {
			continue
		}

		m.MapNamed(id, name, p)
	}
}
