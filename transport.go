package joypad

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go/micro"
	"github.com/pion/webrtc/v4"

	"github.com/flarexio/joypad/mapping"
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, mapping.ErrInvalidPlayer):
		return "400"
	case errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrSensorDisabled),
		errors.Is(err, ErrTouchDisabled):
		return "404"
	default:
		return "417"
	}
}

func InputMapHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var req InputMapRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		resp, err := svc.InputMap(req.Player)
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.RespondJSON(resp)
	}
}

func SetInputMapHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var req InputMapRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		if err := svc.SetInputMap(req.Player, req.InputMap); err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		resp, err := svc.InputMap(req.Player)
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.RespondJSON(resp)
	}
}

func PlayerMapHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		resp, err := svc.PlayerMap()
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.RespondJSON(resp)
	}
}

func SetPlayerMapHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var req PlayerMapRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		if err := svc.SetPlayerMap(req.PlayerMap, req.Enabled); err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		resp, err := svc.PlayerMap()
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.RespondJSON(resp)
	}
}

func MapDeviceHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var req MapDeviceRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		if err := svc.MapDevice(req.HardwareID, req.Name, req.Player); err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		resp, err := svc.PlayerMap()
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.RespondJSON(resp)
	}
}

func ControllerStateHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var req ControllerStateRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		resp, err := svc.ControllerState(req.Player)
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.RespondJSON(resp)
	}
}

func SensorHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var req SensorRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		if err := svc.SetSensorEnabled(req.Enabled); err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.RespondJSON(&req)
	}
}

func ICEServersHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var req ICEServersRequest
		if len(r.Data()) > 0 {
			if err := json.Unmarshal(r.Data(), &req); err != nil {
				r.Error("400", err.Error(), nil)
				return
			}
		}

		provider := Google
		if req.Provider != "" {
			p, err := ParseICEProvider(req.Provider)
			if err != nil {
				r.Error("400", err.Error(), nil)
				return
			}

			provider = p
		}

		servers, err := svc.ICEServers(provider)
		if err != nil {
			r.Error("417", err.Error(), nil)
			return
		}

		r.RespondJSON(&servers)
	}
}

func AcceptPeerHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var offer *webrtc.SessionDescription
		if err := json.Unmarshal(r.Data(), &offer); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		if offer == nil {
			r.Error("400", "offer required", nil)
			return
		}

		reply, ok := strings.CutSuffix(r.Reply(), ".sdp.answer")
		if !ok {
			r.Error("400", "invalid reply", nil)
			return
		}

		peer, err := svc.AcceptPeer(*offer, reply)
		if err != nil {
			r.Error("417", err.Error(), nil)
			return
		}

		answer := peer.LocalDescription()
		r.RespondJSON(&answer)
	}
}
