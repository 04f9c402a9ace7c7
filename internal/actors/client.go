package actors

import (
	"context"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pb"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
)

// WorldName is the actor name of the world in the actor system.
const WorldName = "world"

// Start creates and starts an actor system named name hosting a WorldActor.
func Start(ctx context.Context, name string, world *WorldActor, logger golog.Logger) (actor.ActorSystem, *actor.PID, error) {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	system, err := actor.NewActorSystem(name,
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start actor system: %w", err)
	}
	pid, err := system.Spawn(ctx, WorldName, world)
	if err != nil {
		_ = system.Stop(ctx)
		return nil, nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	return system, pid, nil
}

// Tick asks the world for one simulation step, dt is the frame duration.
func Tick(ctx context.Context, pid *actor.PID, dt time.Duration) error {
	return actor.Tell(ctx, pid, pb.NewTick(dt.Milliseconds()))
}

// Send delivers a command to the world without waiting for it to be applied.
func Send(ctx context.Context, pid *actor.PID, cmd simulation.Command) error {
	return actor.Tell(ctx, pid, pb.NewCommand(cmd))
}

// Snapshot asks the world for a copy of its state. Messages told before are handled first.
func Snapshot(ctx context.Context, pid *actor.PID, timeout time.Duration) (*simulation.Snapshot, error) {
	reply, err := actor.Ask(ctx, pid, pb.NewGetSnapshot(), timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	msg, ok := any(reply).(proto.Message)
	if !ok {
		return nil, fmt.Errorf("unexpected snapshot reply %T", reply)
	}
	return pb.ToSnapshot(msg)
}
