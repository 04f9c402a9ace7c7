package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/actors"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/vizserver"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configFile := flag.String("config", "", "configuration file (.json, .yaml or .toml), defaults are used when empty")
	ticks := flag.Int("ticks", 1000, "number of ticks to run, 0 runs until interrupted")
	rate := flag.Float64("rate", 0, "ticks per second, 0 runs as fast as possible")
	addr := flag.String("addr", "", "stream snapshots to websocket viewers on this address, e.g. :8080")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *ticks, *rate, *addr, logger); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *simulation.Config, ticks int, rate float64, addr string, logger *zap.Logger) error {
	var snapshots chan *simulation.Snapshot
	if addr != "" {
		snapshots = make(chan *simulation.Snapshot, 16)
	}
	system, pid, err := actors.Start(ctx, "FlockHeadless", actors.NewWorldActor(cfg, snapshots, logger),
		golog.New(golog.InfoLevel, os.Stderr))
	if err != nil {
		return err
	}
	defer system.Stop(context.Background())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if addr != "" {
		hub := vizserver.NewHub(logger)
		sink := func(cmd simulation.Command) error { return actors.Send(gctx, pid, cmd) }
		g.Go(func() error { return hub.Pump(gctx, snapshots) })
		g.Go(func() error { return vizserver.NewServer(addr, hub, sink, logger).Run(gctx) })
	}

	g.Go(func() error {
		defer cancel()
		return drive(gctx, pid, ticks, rate)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	snap, err := actors.Snapshot(context.Background(), pid, 5*time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("run %s: tick %d, %d boids, digest %016x\n", snap.RunID, snap.Tick, len(snap.Boids), snap.Digest)
	return nil
}

// drive sends ticks to the world until the count is reached or ctx is done.
func drive(ctx context.Context, pid *actor.PID, ticks int, rate float64) error {
	var throttle <-chan time.Time
	dt := time.Duration(0)
	if rate > 0 {
		dt = time.Duration(float64(time.Second) / rate)
		t := time.NewTicker(dt)
		defer t.Stop()
		throttle = t.C
	}

	for i := 0; ticks == 0 || i < ticks; i++ {
		if throttle != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-throttle:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		if err := actors.Tick(ctx, pid, dt); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
