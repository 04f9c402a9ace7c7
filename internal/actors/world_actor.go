// Package actors hosts the simulation World inside a goakt actor,
// so that the viewer and the streaming server only ever exchange messages with it.
package actors

import (
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pb"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/dynamicpb"
)

// WorldActor is the single owner of a simulation.World.
// Every Tick, Command and GetSnapshot message is handled on the actor goroutine,
// other goroutines only see snapshot copies.
type WorldActor struct {
	cfg        *simulation.Config
	logger     *zap.Logger
	world      *simulation.World
	snapshotCh chan<- *simulation.Snapshot

	// --- Benchmark Stats ---
	tickCount    int
	frameTime    time.Duration // sum of the Tick deltas since the last log
	commandCount int
	droppedCount int
	lastLogTime  time.Time
}

// Enforce interface compliance
var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit. The World itself is built in PreStart.
// snapshotCh may be nil when nobody watches the simulation.
func NewWorldActor(cfg *simulation.Config, snapshotCh chan<- *simulation.Snapshot, logger *zap.Logger) *WorldActor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorldActor{
		cfg:         cfg,
		logger:      logger,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	world, err := simulation.NewWorld(w.cfg, simulation.WithLogger(w.logger))
	if err != nil {
		return fmt.Errorf("failed to create world: %w", err)
	}
	w.world = world
	ctx.ActorSystem().Logger().Infof("World %s is populated with %d boids", world.RunID(), world.Len())
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started.")
		w.pushSnapshot()

	case *dynamicpb.Message:
		switch pb.Name(msg) {
		// The Main Simulation Step (Driven by Game Loop)
		case pb.TickName:
			w.world.Tick()
			w.tickCount++
			w.frameTime += time.Duration(pb.DeltaTime(msg)) * time.Millisecond
			w.logBenchmarks(ctx)
			w.pushSnapshot()

		case pb.CommandName:
			cmd, err := pb.DecodeCommand(msg)
			if err == nil {
				err = w.world.Apply(cmd)
			}
			if err != nil {
				ctx.Logger().Errorf("command %q rejected: %v", cmd.Op, err)
				return
			}
			w.commandCount++
			w.pushSnapshot()

		case pb.GetSnapshotName:
			ctx.Response(pb.FromSnapshot(w.world.Snapshot()))

		default:
			ctx.Unhandled()
		}

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		var avg time.Duration
		if w.tickCount > 0 {
			avg = w.frameTime / time.Duration(w.tickCount)
		}
		ctx.Logger().Infof("📊 TICK RATE: %d/sec, avg frame %v (Commands: %d, Dropped frames: %d) | Boids: %d",
			w.tickCount, avg, w.commandCount, w.droppedCount, w.world.Len())
		w.tickCount = 0
		w.frameTime = 0
		w.commandCount = 0
		w.droppedCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.world.Snapshot():
	default:
		// UI busy, skip frame
		w.droppedCount++
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	if w.world == nil {
		return nil
	}
	ctx.ActorSystem().Logger().Infof("World %s is shutdown after %d ticks", w.world.RunID(), w.world.TickCount())
	return nil
}
