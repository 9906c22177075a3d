package joypad

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
)

// Datachannel labels a remote peer may open.
const (
	LabelGamepad       = "gamepad"
	LabelAccelerometer = "accelerometer"
	LabelTouch         = "touch"
	LabelMoga          = "moga"
	LabelRumble        = "rumble"
)

// Peer is a remote controller connected over WebRTC. Its gamepad shows up
// as one hardware device; rumble requests for it go back over the
// "rumble" channel.
type Peer struct {
	*webrtc.PeerConnection
	log        *zap.Logger
	sub        *nats.Subscription
	session    *Session
	hardwareID int
	gamepad    Gamepad
	rumble     *webrtc.DataChannel
	onClosed   func(peer *Peer)
	closeOnce  sync.Once
	sync.Mutex
}

func NewPeer(conn *webrtc.PeerConnection, session *Session, hardwareID int, log *zap.Logger) *Peer {
	peer := &Peer{
		PeerConnection: conn,
		log:            log,
		session:        session,
		hardwareID:     hardwareID,
		gamepad: NewRemoteGamepad(
			hardwareID,
			fmt.Sprintf("remote#%d", hardwareID),
			session.Keys(),
			session.Axes(),
		),
	}

	peer.Init()
	return peer
}

func (peer *Peer) HardwareID() int {
	return peer.hardwareID
}

func (peer *Peer) Init() {
	log := peer.log

	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Info("connection state updated",
			zap.String("state", state.String()))

		switch state {
		case webrtc.PeerConnectionStateConnected:
			if err := peer.gamepad.Connect(); err != nil {
				log.Error(err.Error())
			}

		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			peer.Close()
		}
	})

	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		label := dc.Label()

		if label == LabelRumble {
			peer.attachRumble(dc)
			return
		}

		log := log.With(zap.String("label", label))

		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			if err := peer.dispatch(label, msg.Data); err != nil {
				log.Error(err.Error())
			}
		})
	})
}

func (peer *Peer) dispatch(label string, data []byte) error {
	switch label {
	case LabelGamepad:
		report, err := ParseXBoxGamepadReport(data)
		if err != nil {
			return err
		}

		return peer.gamepad.Update(report)

	case LabelAccelerometer:
		x, y, z, err := ParseSample(data)
		if err != nil {
			return err
		}

		peer.session.Accelerometer().Sample(x, y, z)
		return nil

	case LabelTouch:
		touch, err := peer.session.Touch()
		if err != nil {
			return err
		}

		var msg TouchMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}

		e, err := msg.Event()
		if err != nil {
			return err
		}

		peer.session.TouchFrom(peer.hardwareID)
		return touch.OnTouch(e)

	case LabelMoga:
		var msg MogaMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}

		return msg.Dispatch(peer.session.Moga())

	default:
		return fmt.Errorf("unknown datachannel: %s", label)
	}
}

func (peer *Peer) attachRumble(dc *webrtc.DataChannel) {
	peer.Lock()
	peer.rumble = dc
	peer.Unlock()

	peer.session.AttachVibrator(peer.hardwareID, peer)

	dc.OnClose(func() {
		peer.Lock()
		peer.rumble = nil
		peer.Unlock()

		peer.session.AttachVibrator(peer.hardwareID, nil)
	})
}

// Vibrate sends a single byte, 1 to start and 0 to stop the motor.
func (peer *Peer) Vibrate(active bool) {
	peer.Lock()
	dc := peer.rumble
	peer.Unlock()

	if dc == nil {
		return
	}

	var b byte
	if active {
		b = 1
	}

	if err := dc.Send([]byte{b}); err != nil {
		peer.log.Error(err.Error(), zap.String("label", LabelRumble))
	}
}

func (peer *Peer) candidateUpdatedHandler() nats.MsgHandler {
	log := peer.log.With(
		zap.String("handler", "candidate_updated"),
	)

	return func(msg *nats.Msg) {
		var candidate webrtc.ICECandidateInit
		if err := json.Unmarshal(msg.Data, &candidate); err != nil {
			log.Error(err.Error())
			return
		}

		if err := peer.AddICECandidate(candidate); err != nil {
			log.Error(err.Error())
			return
		}

		log.Info("candidate added",
			zap.String("candidate", candidate.Candidate))
	}
}

// Close releases everything the peer holds and drops its rumble motor.
func (peer *Peer) Close() {
	peer.closeOnce.Do(func() {
		peer.gamepad.Close()
		peer.session.AttachVibrator(peer.hardwareID, nil)

		if peer.sub != nil {
			peer.sub.Unsubscribe()
		}

		if err := peer.PeerConnection.Close(); err != nil {
			peer.log.Error(err.Error())
		}

		if peer.onClosed != nil {
			peer.onClosed(peer)
		}

		peer.log.Info("peer closed")
	})
}
