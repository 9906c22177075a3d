package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/flarexio/joypad/n64"
)

// NATS forwards core calls as messages to an emulator process. Publishing
// is asynchronous so the input path never waits on the network.
//
// Subjects, relative to the configured prefix:
//
//	<prefix>.controllers.<player>.state   controller snapshots
//	<prefix>.controllers.<player>.config  plug and pak changes
//	<prefix>.commands                     special functions
//	<prefix>.rumble.<player>              rumble requests from the core
type NATS struct {
	Vibrators

	log    *zap.Logger
	nc     *nats.Conn
	prefix string
	sub    *nats.Subscription
	slot   int
	mu     sync.Mutex
}

type StateMessage struct {
	Player int `json:"player"`
	n64.Snapshot
}

type ConfigMessage struct {
	Player  int    `json:"player"`
	Plugged bool   `json:"plugged"`
	Pak     string `json:"pak"`
}

type CommandMessage struct {
	Command string `json:"command"`
	Slot    *int   `json:"slot,omitempty"`
	Speed   *int   `json:"speed,omitempty"`
	Pressed *bool  `json:"pressed,omitempty"`
}

type RumbleMessage struct {
	Active bool `json:"active"`
}

func NewNATS(nc *nats.Conn, prefix string) (*NATS, error) {
	c := &NATS{
		log: zap.L().With(
			zap.String("component", "core"),
			zap.String("prefix", prefix),
		),
		nc:     nc,
		prefix: prefix,
	}

	sub, err := nc.Subscribe(prefix+".rumble.*", c.rumbleHandler())
	if err != nil {
		return nil, err
	}

	c.sub = sub

	return c, nil
}

func (c *NATS) rumbleHandler() nats.MsgHandler {
	log := c.log.With(
		zap.String("handler", "rumble"),
	)

	return func(msg *nats.Msg) {
		idx := strings.LastIndex(msg.Subject, ".")

		player, err := strconv.Atoi(msg.Subject[idx+1:])
		if err != nil {
			log.Error(err.Error())
			return
		}

		var rumble RumbleMessage
		if err := json.Unmarshal(msg.Data, &rumble); err != nil {
			log.Error(err.Error())
			return
		}

		if !c.Rumble(player, rumble.Active) {
			log.Debug("no vibrator", zap.Int("player", player))
		}
	}
}

func (c *NATS) publish(subject string, v any) {
	bs, err := json.Marshal(v)
	if err != nil {
		c.log.Error(err.Error(), zap.String("subject", subject))
		return
	}

	if err := c.nc.Publish(subject, bs); err != nil {
		c.log.Error(err.Error(), zap.String("subject", subject))
	}
}

func (c *NATS) controllerSubject(player int, kind string) string {
	return c.prefix + ".controllers." + strconv.Itoa(player) + "." + kind
}

func (c *NATS) command(cmd CommandMessage) {
	c.publish(c.prefix+".commands", &cmd)
}

func (c *NATS) SetControllerState(player int, snapshot n64.Snapshot) {
	c.publish(c.controllerSubject(player, "state"), &StateMessage{player, snapshot})
}

func (c *NATS) SetControllerConfig(player int, plugged bool, pak n64.PakType) {
	c.publish(c.controllerSubject(player, "config"), &ConfigMessage{
		Player:  player,
		Plugged: plugged,
		Pak:     pak.String(),
	})
}

func (c *NATS) RegisterVibrator(player int, vibrator Vibrator) {
	c.Vibrators.Register(player, vibrator)
}

func (c *NATS) SaveSlot() {
	c.command(CommandMessage{Command: "save_slot"})
}

func (c *NATS) LoadSlot() {
	c.command(CommandMessage{Command: "load_slot"})
}

func (c *NATS) SetSlot(slot int) {
	slot = wrapSlot(slot)

	c.mu.Lock()
	c.slot = slot
	c.mu.Unlock()

	c.command(CommandMessage{Command: "set_slot", Slot: &slot})
}

// Slot returns the slot last set through this bridge.
func (c *NATS) Slot() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.slot
}

func (c *NATS) Pause() {
	c.command(CommandMessage{Command: "pause"})
}

func (c *NATS) Resume() {
	c.command(CommandMessage{Command: "resume"})
}

func (c *NATS) Reset() {
	c.command(CommandMessage{Command: "reset"})
}

func (c *NATS) Stop() {
	c.command(CommandMessage{Command: "stop"})
}

func (c *NATS) AdvanceFrame() {
	c.command(CommandMessage{Command: "advance_frame"})
}

func (c *NATS) SetSpeed(percent int) {
	c.command(CommandMessage{Command: "set_speed", Speed: &percent})
}

func (c *NATS) Gameshark(pressed bool) {
	c.command(CommandMessage{Command: "gameshark", Pressed: &pressed})
}

func (c *NATS) Screenshot() {
	c.command(CommandMessage{Command: "screenshot"})
}

func (c *NATS) Close() error {
	c.Vibrators.Clear()

	if c.sub == nil {
		return nil
	}

	err := c.sub.Unsubscribe()
	c.sub = nil
	return err
}
