package pb

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func newSnapshot(t *testing.T) *simulation.Snapshot {
	t.Helper()
	cfg := simulation.DefaultConfig()
	cfg.Seed = 11
	cfg.InitialBoidCount = 5
	w, err := simulation.NewWorld(cfg)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		w.Tick()
	}
	return w.Snapshot()
}

func TestDescriptor(t *testing.T) {
	require.NotNil(t, File)
	assert.Equal(t, Package, string(File.Package()))
	for _, name := range []string{"Vector3", "Color", "Boid", "Predator", "Obstacle",
		"BehaviorSetting", "WorldSnapshot", "Tick", "GetSnapshot", "Command"} {
		assert.NotNil(t, File.Messages().ByName(protoreflect.Name(name)), name)
	}
	assert.Panics(t, func() { Descriptor("Nope") })
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := newSnapshot(t)

	got, err := ToSnapshot(FromSnapshot(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSnapshotWireFormats(t *testing.T) {
	want := newSnapshot(t)
	msg := FromSnapshot(want)

	t.Run("binary", func(t *testing.T) {
		b, err := MarshalBinary(msg)
		require.NoError(t, err)
		decoded, err := UnmarshalBinary(WorldSnapshotName, b)
		require.NoError(t, err)
		got, err := ToSnapshot(decoded)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("json", func(t *testing.T) {
		b, err := MarshalJSON(msg)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"runId"`)
		assert.Contains(t, string(b), `"bankAngle"`)
		decoded, err := UnmarshalJSON(WorldSnapshotName, b)
		require.NoError(t, err)
		got, err := ToSnapshot(decoded)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := UnmarshalJSON(WorldSnapshotName, []byte(`{"tick":`))
		assert.Error(t, err)
	})
}

func TestCommandRoundTrip(t *testing.T) {
	tests := []simulation.Command{
		{Op: simulation.OpPause},
		{Op: simulation.OpSetWeight, Behavior: simulation.Cohesion, Weight: 2.5},
		{Op: simulation.OpSetEnabled, Behavior: simulation.GoalSeeking, Enabled: true},
		{Op: simulation.OpAddBoids, Count: 10},
	}
	for _, want := range tests {
		t.Run(string(want.Op), func(t *testing.T) {
			msg := NewCommand(want)
			assert.True(t, Is(msg, CommandName))

			b, err := MarshalBinary(msg)
			require.NoError(t, err)
			decoded, err := UnmarshalBinary(CommandName, b)
			require.NoError(t, err)

			got, err := DecodeCommand(decoded)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestMessageKinds(t *testing.T) {
	tick := NewTick(16)
	assert.Equal(t, TickName, Name(tick))
	assert.True(t, Is(tick, TickName))
	assert.False(t, Is(tick, CommandName))
	assert.Equal(t, int64(16), DeltaTime(tick))
	assert.Equal(t, int64(0), DeltaTime(NewGetSnapshot()))
	assert.True(t, Is(NewGetSnapshot(), GetSnapshotName))
	assert.False(t, Is(nil, TickName))

	_, err := DecodeCommand(tick)
	assert.Error(t, err)

	_, err = DecodeCommand(NewCommand(simulation.Command{Op: simulation.OpSetEnabled, Behavior: "flocking"}))
	assert.ErrorIs(t, err, simulation.ErrUnknownBehavior)
	cmd, err := DecodeCommand(NewCommand(simulation.Command{Op: simulation.OpReset}))
	require.NoError(t, err)
	assert.Equal(t, simulation.Behavior(""), cmd.Behavior)
	_, err = ToSnapshot(tick)
	assert.Error(t, err)
}
