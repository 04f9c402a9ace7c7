package simulation

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestWorld(t testing.TB, mutate func(cfg *Config)) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 1
	if mutate != nil {
		mutate(cfg)
	}
	w, err := NewWorld(cfg)
	require.NoError(t, err)
	return w
}

// onlyBehaviors disables every optional behavior except the given ones.
func onlyBehaviors(cfg *Config, keep ...Behavior) {
	cfg.Enabled = Toggles{}
	for _, b := range keep {
		_ = cfg.Enabled.Set(b, true)
	}
}

func TestNewWorld_Population(t *testing.T) {
	w := newTestWorld(t, nil)

	require.Equal(t, 100, w.Len())
	assert.NotEmpty(t, w.RunID())
	assert.Equal(t, uint64(0), w.TickCount())

	limit := 0.8 * 50
	seen := map[string]bool{}
	for i := 0; i < w.Len(); i++ {
		b := w.Boid(i)
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
		assert.LessOrEqual(t, math.Abs(b.Position.X), limit)
		assert.LessOrEqual(t, math.Abs(b.Position.Y), limit)
		assert.LessOrEqual(t, math.Abs(b.Position.Z), limit)
		speed := b.Velocity.Len()
		assert.GreaterOrEqual(t, speed, 0.5-1e-9)
		assert.LessOrEqual(t, speed, 2+1e-9)
		assert.Equal(t, 0, b.Trail.Len())
	}

	p := w.Predator()
	assert.Equal(t, geometry.Zero, p.Position)
	assert.InDelta(t, 1, p.Velocity.Len(), 1e-9)
	assert.LessOrEqual(t, math.Abs(w.Goal().X), 0.6*50)
}

func TestNewWorld_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxForce = 0
	_, err := NewWorld(cfg)
	assert.Error(t, err)
}

func TestNewWorld_CopiesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	w, err := NewWorld(cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	cfg.Weights.Separation = 99
	assert.Equal(t, 1.5, w.Weights().Separation)
}

func TestWorld_SpeedBoundHoldsEveryTick(t *testing.T) {
	for _, order := range []UpdateOrder{UpdateSequential, UpdateSnapshot} {
		t.Run(string(order), func(t *testing.T) {
			w := newTestWorld(t, func(cfg *Config) {
				cfg.UpdateOrder = order
				cfg.Enabled.Goal = true
			})
			for tick := 0; tick < 200; tick++ {
				w.Tick()
				for i := 0; i < w.Len(); i++ {
					b := w.Boid(i)
					speed := b.Velocity.Len()
					if speed == 0 {
						continue
					}
					require.GreaterOrEqual(t, speed, 0.5-1e-9, "tick %d boid %s", tick, b.ID)
					require.LessOrEqual(t, speed, 2+1e-9, "tick %d boid %s", tick, b.ID)
					require.True(t, b.Acceleration.IsZero())
					require.LessOrEqual(t, b.Trail.Len(), 30)
				}
			}
			assert.Equal(t, uint64(200), w.TickCount())
		})
	}
}

func TestWorld_PausedTickIsANoOp(t *testing.T) {
	paused := newTestWorld(t, func(cfg *Config) { cfg.Enabled.Goal = true; cfg.GoalRelocateChance = 0.5 })
	running := newTestWorld(t, func(cfg *Config) { cfg.Enabled.Goal = true; cfg.GoalRelocateChance = 0.5 })

	paused.Tick()
	running.Tick()

	paused.SetPaused(true)
	before := paused.Snapshot()
	for i := 0; i < 10; i++ {
		paused.Tick()
	}
	after := paused.Snapshot()
	assert.Equal(t, before, after)

	// the random source is untouched while paused, so both runs stay in lockstep
	paused.SetPaused(false)
	for i := 0; i < 20; i++ {
		paused.Tick()
		running.Tick()
	}
	assert.Equal(t, running.Digest(), paused.Digest())
}

func TestWorld_SameSeedSameDigest(t *testing.T) {
	a := newTestWorld(t, func(cfg *Config) { cfg.Seed = 7 })
	b := newTestWorld(t, func(cfg *Config) { cfg.Seed = 7 })
	c := newTestWorld(t, func(cfg *Config) { cfg.Seed = 8 })

	for i := 0; i < 50; i++ {
		a.Tick()
		b.Tick()
		c.Tick()
	}
	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestWorld_ContainmentBringsBoidsBack(t *testing.T) {
	w := newTestWorld(t, func(cfg *Config) {
		onlyBehaviors(cfg)
		cfg.InitialBoidCount = 0
	})
	b := NewBoid("lost", geometry.NewVector(70, 0, 0), SpeedLimits{Min: 0.5, Max: 2}, 30)
	// a purely axial flight could never turn around at minimum speed
	b.Velocity = geometry.NewVector(2, 0.5, 0)
	w.boids = []*Boid{b}

	back := -1
	for tick := 0; tick < 200; tick++ {
		w.Tick()
		require.Less(t, math.Abs(b.Position.X), 100.0)
		require.Less(t, math.Abs(b.Position.Y), 100.0)
		if back < 0 && math.Abs(b.Position.X) < 50 {
			back = tick
		}
	}
	assert.GreaterOrEqual(t, back, 0, "boid never came back inside the world")
	assert.Less(t, math.Abs(b.Position.X), 50.0)
	assert.Equal(t, 0.0, b.Position.Z)
}

func TestWorld_ContainmentFromRest(t *testing.T) {
	w := newTestWorld(t, func(cfg *Config) {
		onlyBehaviors(cfg)
		cfg.InitialBoidCount = 0
	})
	margin := w.cfg.BoundaryMargin * w.cfg.WorldHalfExtent
	b := NewBoid("resting", geometry.NewVector(70, 0, 0), SpeedLimits{Min: w.cfg.MinSpeed, Max: w.cfg.MaxSpeed}, 30)
	w.boids = []*Boid{b}

	// moves straight back to the margin, never away from it
	ticks := 0
	for b.Position.X > margin {
		previous := b.Position.X
		w.Tick()
		ticks++
		require.Less(t, b.Position.X, previous, "tick %d", ticks)
		require.Equal(t, 0.0, b.Position.Y)
		require.Equal(t, 0.0, b.Position.Z)
		require.LessOrEqual(t, ticks, 40, "boid did not reach the margin")
	}

	// a purely axial flight keeps at least minimum speed: the opposite wall only
	// slows it down to MinSpeed and the boid leaves the world on the other side
	for i := 0; i < 400; i++ {
		w.Tick()
		require.LessOrEqual(t, b.Velocity.X, 0.0)
	}
	assert.Less(t, b.Position.X, -w.cfg.WorldHalfExtent)
	assert.InDelta(t, -w.cfg.MinSpeed, b.Velocity.X, 1e-9)
	assert.Equal(t, geometry.Vector3D{X: b.Velocity.X}, b.Velocity)
}

func TestWorld_UpdateOrder(t *testing.T) {
	// two close boids with separation only, ticked in both population orders
	run := func(order UpdateOrder, reversed bool) map[string]geometry.Vector3D {
		w := newTestWorld(t, func(cfg *Config) {
			onlyBehaviors(cfg, Separation)
			cfg.InitialBoidCount = 0
			cfg.UpdateOrder = order
		})
		a := NewBoid("a", geometry.NewVector(0, 0, 0), SpeedLimits{Min: 0.5, Max: 2}, 30)
		a.Velocity = geometry.NewVector(0, 1, 0)
		c := NewBoid("c", geometry.NewVector(2, 0, 0), SpeedLimits{Min: 0.5, Max: 2}, 30)
		c.Velocity = geometry.NewVector(0, 1, 0)
		w.boids = []*Boid{a, c}
		if reversed {
			w.boids = []*Boid{c, a}
		}
		w.Tick()
		return map[string]geometry.Vector3D{"a": a.Position, "c": c.Position}
	}

	t.Run("snapshot is order independent", func(t *testing.T) {
		assert.Equal(t, run(UpdateSnapshot, false), run(UpdateSnapshot, true))
	})

	t.Run("sequential lets later boids see earlier moves", func(t *testing.T) {
		forward := run(UpdateSequential, false)
		backward := run(UpdateSequential, true)
		assert.NotEqual(t, forward["c"], backward["c"])
		// the first boid of each order sees the untouched state, as in snapshot mode
		assert.Equal(t, run(UpdateSnapshot, false)["a"], forward["a"])
	})

	t.Run("separation pushes the pair apart", func(t *testing.T) {
		pos := run(UpdateSequential, false)
		assert.Less(t, pos["a"].X, 0.0)
		assert.Greater(t, pos["c"].X, 2.0)
	})
}

func TestWorld_PredatorChasesOnlyWhenEnabled(t *testing.T) {
	w := newTestWorld(t, func(cfg *Config) { cfg.Enabled.Predator = false })
	start := w.Predator().Position
	w.Tick()
	assert.Equal(t, start, w.Predator().Position)

	require.NoError(t, w.SetEnabled(PredatorEvasion, true))
	w.Tick()
	assert.NotEqual(t, start, w.Predator().Position)
	assert.Equal(t, 1, w.Predator().Trail.Len())
}

func TestWorld_GoalRelocation(t *testing.T) {
	t.Run("disabled goal never moves", func(t *testing.T) {
		w := newTestWorld(t, func(cfg *Config) { cfg.GoalRelocateChance = 1 })
		goal := w.Goal()
		w.Tick()
		assert.Equal(t, goal, w.Goal())
	})

	t.Run("enabled goal relocates with the configured chance", func(t *testing.T) {
		w := newTestWorld(t, func(cfg *Config) {
			cfg.Enabled.Goal = true
			cfg.GoalRelocateChance = 1
		})
		goal := w.Goal()
		w.Tick()
		assert.NotEqual(t, goal, w.Goal())
	})

	t.Run("on demand", func(t *testing.T) {
		w := newTestWorld(t, nil)
		goal := w.Goal()
		w.RelocateGoal()
		assert.NotEqual(t, goal, w.Goal())
		assert.LessOrEqual(t, math.Abs(w.Goal().Z), 0.6*50)
	})
}

func TestWorld_AddBoidsAndReset(t *testing.T) {
	w := newTestWorld(t, func(cfg *Config) { cfg.InitialBoidCount = 20 })
	runID := w.RunID()
	require.NoError(t, w.SetWeight(Cohesion, 4))
	require.NoError(t, w.SetEnabled(Alignment, false))

	require.NoError(t, w.AddBoids(5))
	assert.Equal(t, 25, w.Len())
	assert.Equal(t, "24", w.Boid(24).ID)
	assert.ErrorIs(t, w.AddBoids(0), ErrInvalidCount)

	for i := 0; i < 10; i++ {
		w.Tick()
	}
	w.Reset()

	assert.Equal(t, 20, w.Len())
	assert.Equal(t, uint64(0), w.TickCount())
	assert.NotEqual(t, runID, w.RunID())
	assert.Equal(t, geometry.Zero, w.Predator().Position)
	// settings survive a reset
	assert.Equal(t, 4.0, w.Weights().Cohesion)
	assert.False(t, w.Enabled().Alignment)
}

func TestWorld_SnapshotIsADeepCopy(t *testing.T) {
	w := newTestWorld(t, func(cfg *Config) { cfg.InitialBoidCount = 3 })
	w.Tick()

	s := w.Snapshot()
	require.Len(t, s.Boids, 3)
	require.Len(t, s.Boids[0].Trail, 1)
	assert.Equal(t, w.Boid(0).Position, s.Boids[0].Position)
	assert.Equal(t, w.Boid(0).Position, s.Boids[0].Trail[0])
	assert.Equal(t, w.Digest(), s.Digest)
	assert.Equal(t, 50.0, s.HalfExtent)
	assert.Len(t, s.Obstacles, 5)
	assert.Len(t, s.Behaviors, len(Behaviors))
	assert.True(t, s.Setting(BoundaryContainment).Enabled)
	assert.Equal(t, 1.5, s.Setting(BoundaryContainment).Weight)
	assert.False(t, s.Setting(GoalSeeking).Enabled)

	s.Boids[0].Trail[0] = geometry.NewVector(99, 99, 99)
	s.Obstacles[0].Radius = 0
	assert.NotEqual(t, geometry.NewVector(99, 99, 99), w.Boid(0).Trail.At(0))
	assert.Equal(t, 8.0, w.Snapshot().Obstacles[0].Radius)

	pos := s.Boids[1].Position
	w.Tick()
	assert.Equal(t, pos, s.Boids[1].Position)
	assert.Equal(t, uint64(1), s.Tick)
}

func TestWorld_LogsLifecycle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w, err := NewWorld(DefaultConfig(), WithLogger(zap.New(core)))
	require.NoError(t, err)
	first := w.RunID()
	w.Reset()
	require.NoError(t, w.AddBoids(1))
	require.NoError(t, w.SetWeight(Cohesion, 2)) // debug, not recorded

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "world created", entries[0].Message)
	assert.Equal(t, "world reset", entries[1].Message)
	assert.Equal(t, first, entries[1].ContextMap()["previous_run_id"])
	assert.Equal(t, w.RunID(), entries[1].ContextMap()["run_id"])
	assert.Equal(t, "boids added", entries[2].Message)
	assert.Equal(t, int64(101), entries[2].ContextMap()["boids"])
}

func BenchmarkWorldTick(b *testing.B) {
	for _, order := range []UpdateOrder{UpdateSequential, UpdateSnapshot} {
		b.Run(string(order), func(b *testing.B) {
			w := newTestWorld(b, func(cfg *Config) { cfg.UpdateOrder = order })
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w.Tick()
			}
		})
	}
}
