package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/actors"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/viewer"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/vizserver"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configFile := flag.String("config", "", "configuration file (.json, .yaml or .toml), defaults are used when empty")
	addr := flag.String("addr", "", "also stream snapshots to websocket viewers on this address, e.g. :8080")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			logger.Fatal("invalid configuration", zap.String("file", *configFile), zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fromWorld := make(chan *simulation.Snapshot, 10) // Buffer to avoid blocking
	system, pid, err := actors.Start(ctx, "Flock", actors.NewWorldActor(cfg, fromWorld, logger),
		golog.New(golog.InfoLevel, os.Stderr))
	if err != nil {
		logger.Fatal("failed to start world", zap.Error(err))
	}
	defer system.Stop(ctx)

	toGame := fromWorld
	g, gctx := errgroup.WithContext(ctx)
	if *addr != "" {
		hub := vizserver.NewHub(logger)
		sink := func(cmd simulation.Command) error { return actors.Send(gctx, pid, cmd) }
		toGame = make(chan *simulation.Snapshot, 10)
		toHub := make(chan *simulation.Snapshot, 10)
		g.Go(func() error { return tee(gctx, fromWorld, toGame, toHub) })
		g.Go(func() error { return hub.Pump(gctx, toHub) })
		g.Go(func() error { return vizserver.NewServer(*addr, hub, sink, logger).Run(gctx) })
	}

	ebiten.SetWindowSize(viewer.ScreenWidth, viewer.ScreenHeight)
	ebiten.SetWindowTitle("Boids Flocking Simulation")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := viewer.NewGame(ctx, cfg, pid, toGame, logger)
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("viewer stopped", zap.Error(err))
	}
	cancel()
	if err := g.Wait(); err != nil {
		logger.Error("background task failed", zap.Error(err))
	}
}

// tee copies every snapshot to all outputs, dropping it for an output that is full.
func tee(ctx context.Context, in <-chan *simulation.Snapshot, outs ...chan *simulation.Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-in:
			for _, out := range outs {
				select {
				case out <- s:
				default:
				}
			}
		}
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
