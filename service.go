package joypad

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/nats-io/nats.go"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"

	"github.com/flarexio/joypad/mapping"
	"github.com/flarexio/joypad/n64"
)

// RemoteHardwareIDBase is the first hardware id handed to remote peers,
// clear of the ids local joysticks and keyboards use.
const RemoteHardwareIDBase = 1000

var ErrSignalingUnavailable = errors.New("signaling unavailable")

type Service interface {
	InputMap(player int) (*InputMapResponse, error)
	SetInputMap(player int, serialized string) error
	PlayerMap() (*PlayerMapResponse, error)
	SetPlayerMap(serialized string, enabled *bool) error
	MapDevice(hardwareID int, name string, player int) error
	ControllerState(player int) (*ControllerStateResponse, error)
	SetSensorEnabled(enabled bool) error

	ICEServers(provider ICEProvider) ([]webrtc.ICEServer, error)
	AcceptPeer(offer webrtc.SessionDescription, reply string) (*Peer, error)
	Close() error
}

type ServiceMiddleware func(next Service) Service

func NewService(cfg *Config, session *Session, nc *nats.Conn) Service {
	return &service{
		log: zap.L().With(
			zap.String("service", "joypad"),
		),
		cfg:     cfg,
		session: session,
		nc:      nc,
		peers:   make([]*Peer, 0),
		nextID:  RemoteHardwareIDBase,
	}
}

type service struct {
	log     *zap.Logger
	cfg     *Config
	session *Session
	nc      *nats.Conn
	peers   []*Peer
	nextID  int
	sync.RWMutex
}

func (svc *service) InputMap(player int) (*InputMapResponse, error) {
	inputMap, err := svc.session.InputMap(player)
	if err != nil {
		return nil, err
	}

	bindings := make(map[string]string)
	for cmd, code := range inputMap.Codes() {
		if !code.IsUnmapped() {
			bindings[n64.Command(cmd).String()] = code.String()
		}
	}

	return &InputMapResponse{
		Player:   player,
		InputMap: inputMap.Serialize(),
		Enabled:  inputMap.Enabled(),
		Bindings: bindings,
	}, nil
}

func (svc *service) SetInputMap(player int, serialized string) error {
	inputMap, err := svc.session.InputMap(player)
	if err != nil {
		return err
	}

	inputMap.Deserialize(serialized)
	return nil
}

func (svc *service) PlayerMap() (*PlayerMapResponse, error) {
	playerMap := svc.session.PlayerMap()

	devices := make(map[int][]int)
	for player := 1; player <= mapping.MaxPlayers; player++ {
		if ids := playerMap.Devices(player); len(ids) > 0 {
			devices[player] = ids
		}
	}

	return &PlayerMapResponse{
		PlayerMap: playerMap.Serialize(),
		Enabled:   playerMap.Enabled(),
		Devices:   devices,
	}, nil
}

func (svc *service) SetPlayerMap(serialized string, enabled *bool) error {
	playerMap := svc.session.PlayerMap()
	playerMap.Deserialize(serialized)

	if enabled != nil {
		playerMap.SetEnabled(*enabled)
	}

	return nil
}

func (svc *service) MapDevice(hardwareID int, name string, player int) error {
	playerMap := svc.session.PlayerMap()

	if player == 0 {
		playerMap.Unmap(hardwareID)
		return nil
	}

	return playerMap.MapNamed(hardwareID, name, player)
}

func (svc *service) ControllerState(player int) (*ControllerStateResponse, error) {
	state, err := svc.session.State(player)
	if err != nil {
		return nil, err
	}

	return NewControllerStateResponse(player, state), nil
}

func (svc *service) SetSensorEnabled(enabled bool) error {
	sensor, err := svc.session.Sensor()
	if err != nil {
		return err
	}

	return sensor.SetSensorEnabled(enabled)
}

func (svc *service) ICEServers(provider ICEProvider) ([]webrtc.ICEServer, error) {
	var cfg *ICEServer
	for _, server := range svc.cfg.WebRTC.ICEServers {
		if server.Provider == provider {
			cfg = server
			break
		}
	}

	if cfg == nil {
		err := errors.New("provider not supported")
		return nil, err
	}

	switch cfg.Provider {
	case Google:
		return []webrtc.ICEServer{
			{
				URLs: []string{
					"stun:stun.l.google.com:19302",
					"stun:stun1.l.google.com:19302",
					"stun:stun2.l.google.com:19302",
					"stun:stun3.l.google.com:19302",
					"stun:stun4.l.google.com:19302",
				},
			},
		}, nil

	case Cloudflare:
		client := resty.New().
			SetBaseURL("https://rtc.live.cloudflare.com/v1")

		path := fmt.Sprintf("/turn/keys/%s/credentials/generate", cfg.ID)

		var config struct {
			ICEServers webrtc.ICEServer `json:"iceServers"`
		}

		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetAuthToken(cfg.Token).
			SetBody(`{ "ttl": 86400 }`).
			SetResult(&config).
			Post(path)

		if err != nil {
			return nil, err
		}

		if resp.StatusCode() != http.StatusCreated {
			return nil, responseError(resp.Body())
		}

		return []webrtc.ICEServer{config.ICEServers}, nil

	case Metered:
		baseURL := fmt.Sprintf("https://%s.metered.live/api/v1", cfg.ID)

		client := resty.New().
			SetBaseURL(baseURL)

		type ICEServer struct {
			URLs       string `json:"urls"`
			Username   string `json:"username"`
			Credential string `json:"credential"`
		}

		var raws []ICEServer
		resp, err := client.R().
			SetQueryParam("apiKey", cfg.Token).
			SetResult(&raws).
			Get("/turn/credentials")

		if err != nil {
			return nil, err
		}

		if resp.StatusCode() != http.StatusOK {
			return nil, responseError(resp.Body())
		}

		servers := make([]webrtc.ICEServer, len(raws))
		for i, raw := range raws {
			servers[i] = webrtc.ICEServer{
				URLs:       []string{raw.URLs},
				Username:   raw.Username,
				Credential: raw.Credential,
			}
		}

		return servers, nil

	default:
		return nil, errors.New("provider not supported")
	}
}

func responseError(body []byte) error {
	var errMsg struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(body, &errMsg); err != nil {
		return err
	}

	return errors.New(errMsg.Error)
}

func (svc *service) AcceptPeer(offer webrtc.SessionDescription, reply string) (*Peer, error) {
	if svc.nc == nil {
		return nil, ErrSignalingUnavailable
	}

	provider := Google
	if len(svc.cfg.WebRTC.ICEServers) > 0 {
		provider = svc.cfg.WebRTC.ICEServers[0].Provider
	}

	servers, err := svc.ICEServers(provider)
	if err != nil {
		return nil, err
	}

	configuration := webrtc.Configuration{
		ICEServers: servers,
	}

	conn, err := webrtc.NewPeerConnection(configuration)
	if err != nil {
		return nil, err
	}

	conn.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		bs, err := json.Marshal(&candidate)
		if err != nil {
			return
		}

		svc.nc.Publish(reply+".candidates.callee", bs)
	})

	inbox := strings.TrimPrefix(reply, "peers.negotiation.")

	svc.Lock()
	hardwareID := svc.nextID
	svc.nextID++
	svc.Unlock()

	peer := NewPeer(conn, svc.session, hardwareID,
		svc.log.With(
			zap.String("peer", inbox),
			zap.Int("hardware_id", hardwareID),
		),
	)

	peer.onClosed = svc.removePeer

	sub, err := svc.nc.Subscribe(reply+".candidates.caller", peer.candidateUpdatedHandler())
	if err != nil {
		conn.Close()
		return nil, err
	}

	peer.sub = sub

	if err := conn.SetRemoteDescription(offer); err != nil {
		peer.Close()
		return nil, err
	}

	answer, err := conn.CreateAnswer(nil)
	if err != nil {
		peer.Close()
		return nil, err
	}

	gatherComplete := webrtc.GatheringCompletePromise(conn)

	if err := conn.SetLocalDescription(answer); err != nil {
		peer.Close()
		return nil, err
	}

	<-gatherComplete

	svc.Lock()
	svc.peers = append(svc.peers, peer)
	svc.Unlock()

	return peer, nil
}

func (svc *service) removePeer(peer *Peer) {
	svc.Lock()
	defer svc.Unlock()

	for i, p := range svc.peers {
		if p == peer {
			svc.peers = append(svc.peers[:i], svc.peers[i+1:]...)
			return
		}
	}
}

func (svc *service) Close() error {
	svc.RLock()
	peers := append([]*Peer(nil), svc.peers...)
	svc.RUnlock()

	for _, peer := range peers {
		peer.Close()
	}

	svc.session.Close()
	return nil
}
