package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/okjune/mirrorlink/internal/config"
	"github.com/okjune/mirrorlink/internal/input"
	"github.com/okjune/mirrorlink/internal/peer"
	"github.com/okjune/mirrorlink/internal/signaling"
)

type cli struct {
	Signaling string         `help:"Signaling server WebSocket URL." default:"ws://localhost:8080"`
	ID        string         `help:"Controller ID (auto-generated if empty)."`
	Host      string         `help:"Host ID to connect to." required:""`
	LogLevel  string         `help:"Log level." enum:"trace,debug,info,warn,error" default:"info"`
	Scale     float64        `help:"Initial canvas scale." default:"1.0"`
	Session   config.Session `embed:"" prefix:"session."`
}

// viewportState tracks the geometry the engine maps pointer samples against.
// The display rectangle arrives from the host over the input channel; scale
// and canvas size belong to the embedding view.
type viewportState struct {
	mu sync.Mutex
	vp input.Viewport
}

func (s *viewportState) Viewport() input.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vp
}

func (s *viewportState) setRect(r input.DisplayRect) {
	s.mu.Lock()
	s.vp.Rect = &r
	s.mu.Unlock()
}

// displayAnnouncement is the host's geometry message on the input channel.
type displayAnnouncement struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func main() {
	var args cli
	kctx := kong.Parse(&args, kong.Name("mirrorlink-controller"),
		kong.Description("Remote-control client: forwards local input to a host."))

	level, err := zerolog.ParseLevel(args.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if args.ID == "" {
		args.ID = "controller-" + uuid.NewString()[:8]
	}
	kctx.FatalIfErrorf(run(args, logger))
}

func run(args cli, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.New()
	logger.Info().
		Str("controller", args.ID).
		Str("host", args.Host).
		Str("signaling", args.Signaling).
		Msg("starting controller")

	vp := &viewportState{vp: input.Viewport{Scale: args.Scale}}

	var (
		mu       sync.Mutex
		ctrlPeer *peer.Controller
		engine   *input.Engine
	)

	var sig *signaling.Client
	sig = signaling.NewClient(args.Signaling, args.ID, signaling.Handler{
		OnRegistered: func() {
			logger.Info().Msg("registered with signaling server")

			p, err := peer.NewController(sig, args.Host, logger)
			if err != nil {
				logger.Error().Err(err).Msg("create controller peer")
				stop()
				return
			}
			e := input.New(sessionID, args.Session, p.Transport(), vp, logger)

			p.Transport().OnMessage(func(data []byte) {
				var ann displayAnnouncement
				if err := json.Unmarshal(data, &ann); err != nil || ann.Type != "display" {
					return
				}
				vp.setRect(input.DisplayRect{X: ann.X, Y: ann.Y, W: ann.Width, H: ann.Height})
				logger.Info().
					Float64("width", ann.Width).
					Float64("height", ann.Height).
					Msg("display geometry received")
			})

			mu.Lock()
			ctrlPeer, engine = p, e
			mu.Unlock()

			if err := p.Connect(); err != nil {
				logger.Error().Err(err).Msg("controller connect")
			}
		},
		OnAnswer: func(_ string, payload json.RawMessage) {
			mu.Lock()
			p := ctrlPeer
			mu.Unlock()
			if p == nil {
				return
			}
			if err := p.HandleAnswer(payload); err != nil {
				logger.Warn().Err(err).Msg("handle answer")
			}
		},
		OnICECandidate: func(_ string, payload json.RawMessage) {
			mu.Lock()
			p := ctrlPeer
			mu.Unlock()
			if p == nil {
				return
			}
			if err := p.HandleICECandidate(payload); err != nil {
				logger.Warn().Err(err).Msg("handle ICE candidate")
			}
		},
		OnPeerGone: func(peerID string) {
			logger.Info().Str("peer", peerID).Msg("host disconnected")
			stop()
		},
		OnError: func(msg string) {
			logger.Warn().Str("error", msg).Msg("signaling error")
		},
	}, logger)

	if err := sig.Connect(); err != nil {
		return err
	}
	defer sig.Close()

	<-ctx.Done()

	// Outstanding modifier keys must be released before the connection goes
	// away, and the momentum timer awaited, so teardown is engine first.
	mu.Lock()
	defer mu.Unlock()
	if engine != nil {
		engine.Close()
	}
	if ctrlPeer != nil {
		ctrlPeer.Close()
	}
	return nil
}
