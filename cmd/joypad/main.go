package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-echarts/statsview"
	statsviewer "github.com/go-echarts/statsview/viewer"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/joypad"
	"github.com/flarexio/joypad/core"
	"github.com/flarexio/joypad/sdlinput"
	"github.com/flarexio/joypad/tty"
	"github.com/flarexio/joypad/viewer"
)

const (
	Version string = "0.0.0"
)

func main() {
	app := &cli.App{
		Name:  "joypad",
		Usage: "N64 controller input mapping for a remote emulator core",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Usage:   "Specifies the working directory for the Joypad service.",
				EnvVars: []string{"JOYPAD_PATH"},
			},
			&cli.StringFlag{
				Name:    "nats",
				EnvVars: []string{"NATS_URL"},
				Value:   "wss://nats.flarex.io",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Runs against an in-memory core without NATS.",
			},
			&cli.BoolFlag{
				Name:  "sdl",
				Usage: "Reads local joysticks through SDL.",
			},
			&cli.BoolFlag{
				Name:  "tty",
				Usage: "Reads the keyboard from the terminal.",
			},
			&cli.BoolFlag{
				Name:  "viewer",
				Usage: "Serves the raw input viewer on the configured address.",
			},
			&cli.StringFlag{
				Name:  "statsview",
				Usage: "Serves runtime stats on the given address.",
			},
			&cli.BoolFlag{
				Name: "production",
			},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(cli *cli.Context) error {
	newLogger := zap.NewDevelopment
	if cli.Bool("production") {
		newLogger = zap.NewProduction
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	path := cli.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = homeDir + "/.flarex/joypad"
	}

	f, err := os.Open(path + "/config.yaml")
	if err != nil {
		return err
	}
	defer f.Close()

	var cfg *joypad.Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return err
	}

	cfg.Path = path
	cfg.Defaults()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if addr := cli.String("statsview"); addr != "" {
		go func() {
			statsviewer.SetConfiguration(statsviewer.WithAddr(addr))
			mgr := statsview.New()
			mgr.Start()
		}()

		log.Info("stats server available",
			zap.String("url", "http://"+addr+"/debug/statsview"))
	}

	var nc *nats.Conn
	var c core.Core

	if cli.Bool("offline") {
		c = core.NewMemory()
	} else {
		natsURL := cli.String("nats")
		natsCreds := path + "/user.creds"

		nc, err = nats.Connect(natsURL,
			nats.Name("joypad"),
			nats.UserCredentials(natsCreds),
		)
		if err != nil {
			return err
		}
		defer nc.Drain()

		bridge, err := core.NewNATS(nc, cfg.Core.Subject)
		if err != nil {
			return err
		}
		defer bridge.Close()

		c = bridge
	}

	var hub *viewer.Hub
	if cli.Bool("viewer") {
		hub = viewer.NewHub()
		go hub.Run(ctx)

		c = viewer.Tee(c, hub)
	}

	session, err := joypad.NewSession(cfg, c)
	if err != nil {
		return err
	}

	svc := joypad.NewService(cfg, session, nc)
	svc = joypad.LoggingMiddleware(log)(svc)
	defer svc.Close()

	if nc != nil {
		srv, err := micro.AddService(nc, micro.Config{
			Name:    "joypad",
			Version: Version,
		})
		if err != nil {
			return err
		}
		defer srv.Stop()

		peers := srv.AddGroup("peers")
		peers.AddEndpoint("iceservers", joypad.ICEServersHandler(svc))
		peers.AddEndpoint("negotiation", joypad.AcceptPeerHandler(svc))

		maps := srv.AddGroup("maps")
		maps.AddEndpoint("input", joypad.InputMapHandler(svc))
		maps.AddEndpoint("input_set", joypad.SetInputMapHandler(svc))
		maps.AddEndpoint("player", joypad.PlayerMapHandler(svc))
		maps.AddEndpoint("player_set", joypad.SetPlayerMapHandler(svc))
		maps.AddEndpoint("device", joypad.MapDeviceHandler(svc))

		controllers := srv.AddGroup("controllers")
		controllers.AddEndpoint("state", joypad.ControllerStateHandler(svc))
		controllers.AddEndpoint("sensor", joypad.SensorHandler(svc))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if hub != nil {
		session.Keys().Register(hub)
		session.Axes().Register(hub)
		session.Moga().Register(hub)

		mux := http.NewServeMux()
		mux.Handle("/ws", viewer.Handler(hub))

		server := &http.Server{
			Addr:    cfg.Viewer.Addr,
			Handler: mux,
		}

		go func() {
			log.Info("viewer listening", zap.String("addr", cfg.Viewer.Addr))

			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(err.Error(), zap.String("component", "viewer"))
			}
		}()

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			server.Shutdown(ctx)
		}()
	}

	if cli.Bool("sdl") {
		reader := sdlinput.NewReader(session.Bus())

		go func() {
			if err := reader.Run(ctx); err != nil {
				log.Error(err.Error(), zap.String("component", "sdl"))
			}
		}()
	}

	if cli.Bool("tty") {
		term, err := tty.Open(os.Stdin)
		if err != nil {
			return err
		}
		defer term.Close()

		keyboard := tty.NewKeyboard(session.Keys(), cfg.Terminal.HardwareID, cfg.Terminal.Hold)

		go func() {
			err := keyboard.Run(ctx, os.Stdin)
			if errors.Is(err, tty.ErrInterrupted) {
				quit <- syscall.SIGINT
				return
			}

			if err != nil {
				log.Error(err.Error(), zap.String("component", "tty"))
			}
		}()
	}

	sign := <-quit // Wait for a termination signal

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}
