package pb

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ============================================================================
// Field access helpers
// ============================================================================

func set(m protoreflect.Message, name protoreflect.Name, v protoreflect.Value) {
	m.Set(m.Descriptor().Fields().ByName(name), v)
}

func get(m protoreflect.Message, name protoreflect.Name) protoreflect.Value {
	return m.Get(m.Descriptor().Fields().ByName(name))
}

func appendTo(m protoreflect.Message, name protoreflect.Name, v protoreflect.Value) {
	m.Mutable(m.Descriptor().Fields().ByName(name)).List().Append(v)
}

func vector(v geometry.Vector3D) protoreflect.Value {
	m := New(Vector3Name)
	set(m, "x", protoreflect.ValueOfFloat64(v.X))
	set(m, "y", protoreflect.ValueOfFloat64(v.Y))
	set(m, "z", protoreflect.ValueOfFloat64(v.Z))
	return protoreflect.ValueOfMessage(m)
}

func toVector(v protoreflect.Value) geometry.Vector3D {
	m := v.Message()
	return geometry.Vector3D{
		X: get(m, "x").Float(),
		Y: get(m, "y").Float(),
		Z: get(m, "z").Float(),
	}
}

func trail(m protoreflect.Message, name protoreflect.Name, points []geometry.Vector3D) {
	for _, p := range points {
		appendTo(m, name, vector(p))
	}
}

func toTrail(v protoreflect.Value) []geometry.Vector3D {
	l := v.List()
	out := make([]geometry.Vector3D, l.Len())
	for i := range out {
		out[i] = toVector(l.Get(i))
	}
	return out
}

// ============================================================================
// Snapshots
// ============================================================================

// FromSnapshot converts a world snapshot to a WorldSnapshot message.
func FromSnapshot(s *simulation.Snapshot) *dynamicpb.Message {
	m := New(WorldSnapshotName)
	set(m, "run_id", protoreflect.ValueOfString(s.RunID))
	set(m, "tick", protoreflect.ValueOfUint64(s.Tick))
	set(m, "half_extent", protoreflect.ValueOfFloat64(s.HalfExtent))
	set(m, "goal", vector(s.Goal))
	set(m, "paused", protoreflect.ValueOfBool(s.Paused))
	set(m, "show_trails", protoreflect.ValueOfBool(s.ShowTrails))
	set(m, "show_banking", protoreflect.ValueOfBool(s.ShowBanking))
	set(m, "digest", protoreflect.ValueOfUint64(s.Digest))

	for _, b := range s.Boids {
		bm := New(BoidName)
		set(bm, "id", protoreflect.ValueOfString(b.ID))
		set(bm, "position", vector(b.Position))
		set(bm, "velocity", vector(b.Velocity))
		cm := New(ColorName)
		set(cm, "r", protoreflect.ValueOfFloat64(b.Color.R))
		set(cm, "g", protoreflect.ValueOfFloat64(b.Color.G))
		set(cm, "b", protoreflect.ValueOfFloat64(b.Color.B))
		set(bm, "color", protoreflect.ValueOfMessage(cm))
		set(bm, "bank_angle", protoreflect.ValueOfFloat64(b.BankAngle))
		trail(bm, "trail", b.Trail)
		appendTo(m, "boids", protoreflect.ValueOfMessage(bm))
	}

	pm := New(PredatorName)
	set(pm, "position", vector(s.Predator.Position))
	set(pm, "velocity", vector(s.Predator.Velocity))
	trail(pm, "trail", s.Predator.Trail)
	set(pm, "enabled", protoreflect.ValueOfBool(s.Predator.Enabled))
	set(m, "predator", protoreflect.ValueOfMessage(pm))

	for _, o := range s.Obstacles {
		om := New(ObstacleName)
		set(om, "position", vector(o.Position))
		set(om, "radius", protoreflect.ValueOfFloat64(o.Radius))
		appendTo(m, "obstacles", protoreflect.ValueOfMessage(om))
	}
	for _, bs := range s.Behaviors {
		sm := New(BehaviorSettingName)
		set(sm, "behavior", protoreflect.ValueOfString(string(bs.Behavior)))
		set(sm, "enabled", protoreflect.ValueOfBool(bs.Enabled))
		set(sm, "weight", protoreflect.ValueOfFloat64(bs.Weight))
		appendTo(m, "behaviors", protoreflect.ValueOfMessage(sm))
	}
	return m
}

// ToSnapshot converts a WorldSnapshot message back to a world snapshot.
func ToSnapshot(msg proto.Message) (*simulation.Snapshot, error) {
	if !Is(msg, WorldSnapshotName) {
		return nil, fmt.Errorf("pb: expected %s, got %s", WorldSnapshotName, Name(msg))
	}
	m := msg.ProtoReflect()
	s := &simulation.Snapshot{
		RunID:       get(m, "run_id").String(),
		Tick:        get(m, "tick").Uint(),
		HalfExtent:  get(m, "half_extent").Float(),
		Goal:        toVector(get(m, "goal")),
		Paused:      get(m, "paused").Bool(),
		ShowTrails:  get(m, "show_trails").Bool(),
		ShowBanking: get(m, "show_banking").Bool(),
		Digest:      get(m, "digest").Uint(),
	}

	boids := get(m, "boids").List()
	s.Boids = make([]simulation.BoidState, boids.Len())
	for i := range s.Boids {
		bm := boids.Get(i).Message()
		cm := get(bm, "color").Message()
		s.Boids[i] = simulation.BoidState{
			ID:        get(bm, "id").String(),
			Position:  toVector(get(bm, "position")),
			Velocity:  toVector(get(bm, "velocity")),
			Color:     simulation.Color{R: get(cm, "r").Float(), G: get(cm, "g").Float(), B: get(cm, "b").Float()},
			BankAngle: get(bm, "bank_angle").Float(),
			Trail:     toTrail(get(bm, "trail")),
		}
	}

	pm := get(m, "predator").Message()
	s.Predator = simulation.PredatorState{
		Position: toVector(get(pm, "position")),
		Velocity: toVector(get(pm, "velocity")),
		Trail:    toTrail(get(pm, "trail")),
		Enabled:  get(pm, "enabled").Bool(),
	}

	obstacles := get(m, "obstacles").List()
	s.Obstacles = make([]behavior.Obstacle, obstacles.Len())
	for i := range s.Obstacles {
		om := obstacles.Get(i).Message()
		s.Obstacles[i] = behavior.Obstacle{Position: toVector(get(om, "position")), Radius: get(om, "radius").Float()}
	}

	settings := get(m, "behaviors").List()
	s.Behaviors = make([]simulation.BehaviorSetting, settings.Len())
	for i := range s.Behaviors {
		sm := settings.Get(i).Message()
		s.Behaviors[i] = simulation.BehaviorSetting{
			Behavior: simulation.Behavior(get(sm, "behavior").String()),
			Enabled:  get(sm, "enabled").Bool(),
			Weight:   get(sm, "weight").Float(),
		}
	}
	return s, nil
}

// ============================================================================
// Control messages
// ============================================================================

// NewTick returns a Tick message, dt is the elapsed time in milliseconds.
func NewTick(dt int64) *dynamicpb.Message {
	m := New(TickName)
	set(m, "delta_time", protoreflect.ValueOfInt64(dt))
	return m
}

// DeltaTime returns the elapsed time carried by a Tick message.
func DeltaTime(msg proto.Message) int64 {
	if !Is(msg, TickName) {
		return 0
	}
	return get(msg.ProtoReflect(), "delta_time").Int()
}

func NewGetSnapshot() *dynamicpb.Message {
	return New(GetSnapshotName)
}

// NewCommand encodes a world command.
func NewCommand(cmd simulation.Command) *dynamicpb.Message {
	m := New(CommandName)
	set(m, "op", protoreflect.ValueOfString(string(cmd.Op)))
	set(m, "behavior", protoreflect.ValueOfString(string(cmd.Behavior)))
	set(m, "enabled", protoreflect.ValueOfBool(cmd.Enabled))
	set(m, "weight", protoreflect.ValueOfFloat64(cmd.Weight))
	set(m, "count", protoreflect.ValueOfInt32(int32(cmd.Count)))
	return m
}

// DecodeCommand extracts the world command carried by a Command message.
// An empty behavior is accepted, an unknown one is an error wrapping simulation.ErrUnknownBehavior.
func DecodeCommand(msg proto.Message) (simulation.Command, error) {
	if !Is(msg, CommandName) {
		return simulation.Command{}, fmt.Errorf("pb: expected %s, got %s", CommandName, Name(msg))
	}
	m := msg.ProtoReflect()
	var b simulation.Behavior
	if name := get(m, "behavior").String(); name != "" {
		var err error
		if b, err = simulation.ParseBehavior(name); err != nil {
			return simulation.Command{}, fmt.Errorf("pb: decoding %s: %w", CommandName, err)
		}
	}
	return simulation.Command{
		Op:       simulation.CommandOp(get(m, "op").String()),
		Behavior: b,
		Enabled:  get(m, "enabled").Bool(),
		Weight:   get(m, "weight").Float(),
		Count:    int(get(m, "count").Int()),
	}, nil
}

// ============================================================================
// Wire formats
// ============================================================================

var jsonOptions = protojson.MarshalOptions{EmitUnpopulated: true}

// MarshalJSON encodes m with protojson, zero values included.
func MarshalJSON(m proto.Message) ([]byte, error) {
	return jsonOptions.Marshal(m)
}

// UnmarshalJSON decodes a protojson document into a new message of type name.
func UnmarshalJSON(name protoreflect.Name, b []byte) (*dynamicpb.Message, error) {
	m := New(name)
	if err := protojson.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("pb: decoding %s: %w", name, err)
	}
	return m, nil
}

// MarshalBinary encodes m in the protobuf wire format.
func MarshalBinary(m proto.Message) ([]byte, error) {
	return proto.Marshal(m)
}

// UnmarshalBinary decodes wire format bytes into a new message of type name.
func UnmarshalBinary(name protoreflect.Name, b []byte) (*dynamicpb.Message, error) {
	m := New(name)
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("pb: decoding %s: %w", name, err)
	}
	return m, nil
}
