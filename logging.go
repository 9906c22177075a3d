package joypad

import (
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	return func(next Service) Service {
		log := log.With(
			zap.String("service", "joypad"),
		)

		log.Info("service built")

		return &loggingMiddleware{log, next}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) InputMap(player int) (*InputMapResponse, error) {
	log := mw.log.With(
		zap.String("action", "input_map"),
		zap.Int("player", player),
	)

	resp, err := mw.next.InputMap(player)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Debug("got input map", zap.String("input_map", resp.InputMap))
	return resp, nil
}

func (mw *loggingMiddleware) SetInputMap(player int, serialized string) error {
	log := mw.log.With(
		zap.String("action", "set_input_map"),
		zap.Int("player", player),
		zap.String("input_map", serialized),
	)

	err := mw.next.SetInputMap(player, serialized)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("input map updated")
	return nil
}

func (mw *loggingMiddleware) PlayerMap() (*PlayerMapResponse, error) {
	log := mw.log.With(
		zap.String("action", "player_map"),
	)

	resp, err := mw.next.PlayerMap()
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Debug("got player map", zap.String("player_map", resp.PlayerMap))
	return resp, nil
}

func (mw *loggingMiddleware) SetPlayerMap(serialized string, enabled *bool) error {
	log := mw.log.With(
		zap.String("action", "set_player_map"),
		zap.String("player_map", serialized),
	)

	if enabled != nil {
		log = log.With(zap.Bool("enabled", *enabled))
	}

	err := mw.next.SetPlayerMap(serialized, enabled)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("player map updated")
	return nil
}

func (mw *loggingMiddleware) MapDevice(hardwareID int, name string, player int) error {
	log := mw.log.With(
		zap.String("action", "map_device"),
		zap.Int("hardware_id", hardwareID),
		zap.String("name", name),
		zap.Int("player", player),
	)

	err := mw.next.MapDevice(hardwareID, name, player)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("device mapped")
	return nil
}

func (mw *loggingMiddleware) ControllerState(player int) (*ControllerStateResponse, error) {
	log := mw.log.With(
		zap.String("action", "controller_state"),
		zap.Int("player", player),
	)

	resp, err := mw.next.ControllerState(player)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	return resp, nil
}

func (mw *loggingMiddleware) SetSensorEnabled(enabled bool) error {
	log := mw.log.With(
		zap.String("action", "set_sensor_enabled"),
		zap.Bool("enabled", enabled),
	)

	err := mw.next.SetSensorEnabled(enabled)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("sensor updated")
	return nil
}

func (mw *loggingMiddleware) ICEServers(provider ICEProvider) ([]webrtc.ICEServer, error) {
	log := mw.log.With(
		zap.String("action", "ice_servers"),
		zap.String("provider", provider.String()),
	)

	servers, err := mw.next.ICEServers(provider)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("got servers", zap.Int("count", len(servers)))
	return servers, nil
}

func (mw *loggingMiddleware) AcceptPeer(offer webrtc.SessionDescription, reply string) (*Peer, error) {
	log := mw.log.With(
		zap.String("action", "accept_peer"),
		zap.String("reply", reply),
	)

	peer, err := mw.next.AcceptPeer(offer, reply)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("peer accepted", zap.Int("hardware_id", peer.HardwareID()))
	return peer, nil
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	if err := mw.next.Close(); err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}
