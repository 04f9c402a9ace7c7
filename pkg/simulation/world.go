// Package simulation hosts the flock: boids, the predator, the obstacles and the goal,
// and advances them one tick at a time by combining the steering behaviors.
package simulation

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"go.uber.org/zap"
)

// World owns the authoritative state of a simulation run.
// It is not safe for concurrent use: exactly one goroutine may call its methods.
type World struct {
	cfg    Config
	logger *zap.Logger
	rng    *rand.Rand

	runID     string
	tick      uint64
	nextID    int
	boids     []*Boid
	predator  *Predator
	obstacles []behavior.Obstacle
	goal      geometry.Vector3D

	weights     Weights
	enabled     Toggles
	paused      bool
	showTrails  bool
	showBanking bool

	limits behavior.Limits
	bounds behavior.Bounds

	// reused by two phase ticks
	frozen behavior.Bodies
	forces []geometry.Vector3D
}

// Option customizes a World at construction.
type Option func(*World)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorld validates cfg and populates a new World from it.
// The World keeps its own copy of cfg.
func NewWorld(cfg *Config, opts ...Option) (*World, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	w := &World{
		cfg:         *cfg,
		logger:      zap.NewNop(),
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		obstacles:   append([]behavior.Obstacle(nil), cfg.Obstacles...),
		weights:     cfg.Weights,
		enabled:     cfg.Enabled,
		showTrails:  cfg.ShowTrails,
		showBanking: cfg.ShowBanking,
		limits:      cfg.Limits(),
		bounds:      cfg.Bounds(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.populate()
	w.logger.Info("world created",
		zap.String("run_id", w.runID),
		zap.Uint64("seed", seed),
		zap.Int("boids", len(w.boids)),
		zap.String("update_order", string(w.cfg.UpdateOrder)))
	return w, nil
}

// populate (re)creates the flock, the predator and the goal under a new run id.
func (w *World) populate() {
	w.runID = uuid.NewString()
	w.tick = 0
	w.nextID = 0
	w.boids = make([]*Boid, 0, w.cfg.InitialBoidCount)
	w.spawnBoids(w.cfg.InitialBoidCount)

	dir := w.randomDirection()
	w.predator = NewPredator(geometry.Zero, dir.Mul(w.cfg.Predator.InitialSpeed), w.cfg.Predator.TrailLength)
	w.goal = w.randomPoint(w.cfg.GoalSpread)
}

func (w *World) spawnBoids(n int) {
	speed := SpeedLimits{Min: w.cfg.MinSpeed, Max: w.cfg.MaxSpeed}
	size := 2 * w.cfg.WorldHalfExtent
	for i := 0; i < n; i++ {
		pos := w.randomPoint(w.cfg.SpawnSpread)
		b := NewBoid(strconv.Itoa(w.nextID), pos, speed, w.cfg.TrailLength)
		w.nextID++
		s := speed.Min + w.rng.Float64()*(speed.Max-speed.Min)
		b.Velocity = w.randomDirection().Mul(s)
		b.Color = ColorFromHSV((pos.X+w.cfg.WorldHalfExtent)/size*360, 0.8, 1.0)
		w.boids = append(w.boids, b)
	}
}

// randomPoint is uniform in the cube of half side spread*WorldHalfExtent.
func (w *World) randomPoint(spread float64) geometry.Vector3D {
	side := 2 * w.cfg.WorldHalfExtent * spread
	return geometry.Vector3D{
		X: (w.rng.Float64() - 0.5) * side,
		Y: (w.rng.Float64() - 0.5) * side,
		Z: (w.rng.Float64() - 0.5) * side,
	}
}

func (w *World) randomDirection() geometry.Vector3D {
	return geometry.Vector3D{
		X: w.rng.Float64() - 0.5,
		Y: w.rng.Float64() - 0.5,
		Z: w.rng.Float64() - 0.5,
	}.Normalize()
}

// ============================================================================
// Tick
// ============================================================================

// Tick advances the simulation by one step. It does nothing while paused.
func (w *World) Tick() {
	if w.paused {
		return
	}
	w.tick++

	if w.enabled.Predator {
		w.predator.Update(flockView(w.boids), w.cfg.Predator, w.limits, w.cfg.WorldHalfExtent)
	}
	if w.enabled.Goal && w.rng.Float64() < w.cfg.GoalRelocateChance {
		w.RelocateGoal()
	}

	switch w.cfg.UpdateOrder {
	case UpdateSnapshot:
		w.tickTwoPhase()
	default:
		w.tickSequential()
	}
}

func (w *World) tickSequential() {
	flock := flockView(w.boids)
	for _, b := range w.boids {
		b.ApplyForce(w.steeringForce(b.Body(), flock))
		b.Update()
	}
}

func (w *World) tickTwoPhase() {
	w.frozen = w.frozen[:0]
	for _, b := range w.boids {
		w.frozen = append(w.frozen, b.Body())
	}
	w.forces = w.forces[:0]
	for i := range w.frozen {
		w.forces = append(w.forces, w.steeringForce(w.frozen[i], w.frozen))
	}
	for i, b := range w.boids {
		b.ApplyForce(w.forces[i])
		b.Update()
	}
}

// steeringForce sums the weighted forces of every enabled behavior plus the boundary containment.
func (w *World) steeringForce(self behavior.Body, flock behavior.Neighborhood) geometry.Vector3D {
	var force geometry.Vector3D
	if w.enabled.Separation {
		force = force.Add(behavior.Separate(self, flock, w.cfg.SeparationRadius, w.limits).Mul(w.weights.Separation))
	}
	if w.enabled.Alignment {
		force = force.Add(behavior.Align(self, flock, w.cfg.AlignmentRadius, w.limits).Mul(w.weights.Alignment))
	}
	if w.enabled.Cohesion {
		force = force.Add(behavior.Cohere(self, flock, w.cfg.CohesionRadius, w.limits).Mul(w.weights.Cohesion))
	}
	if w.enabled.Obstacle {
		force = force.Add(behavior.AvoidObstacles(self, w.obstacles, w.cfg.ObstacleMargin, w.limits).Mul(w.weights.Obstacle))
	}
	if w.enabled.Predator {
		force = force.Add(behavior.Flee(self, w.predator.Position, w.cfg.Predator.Radius, w.limits).Mul(w.weights.Predator))
	}
	if w.enabled.Goal {
		force = force.Add(behavior.Seek(self, w.goal, w.limits).Mul(w.weights.Goal))
	}
	return force.Add(behavior.ContainWithinBounds(self, w.bounds, w.limits).Mul(w.weights.Boundary))
}

// ============================================================================
// Mutable surface
// ============================================================================

// SetEnabled turns a behavior on or off. Boundary containment cannot be turned off.
func (w *World) SetEnabled(b Behavior, enabled bool) error {
	if err := w.enabled.Set(b, enabled); err != nil {
		return err
	}
	w.logger.Debug("behavior toggled", zap.String("behavior", string(b)), zap.Bool("enabled", enabled))
	return nil
}

// SetWeight changes the scale of a behavior force.
func (w *World) SetWeight(b Behavior, weight float64) error {
	if err := w.weights.Set(b, weight); err != nil {
		return err
	}
	w.logger.Debug("behavior weight changed", zap.String("behavior", string(b)), zap.Float64("weight", weight))
	return nil
}

func (w *World) SetPaused(paused bool) { w.paused = paused }

// TogglePause flips the pause flag and returns its new value.
func (w *World) TogglePause() bool {
	w.paused = !w.paused
	return w.paused
}

func (w *World) SetShowTrails(show bool) { w.showTrails = show }

func (w *World) SetShowBanking(show bool) { w.showBanking = show }

// AddBoids appends n randomly initialized boids to the flock.
func (w *World) AddBoids(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	w.spawnBoids(n)
	w.logger.Info("boids added", zap.Int("added", n), zap.Int("boids", len(w.boids)))
	return nil
}

// Reset reinitializes the flock, the predator and the goal.
// Weights, toggles, obstacles and display flags are kept.
func (w *World) Reset() {
	previous := w.runID
	w.populate()
	w.logger.Info("world reset",
		zap.String("previous_run_id", previous),
		zap.String("run_id", w.runID),
		zap.Int("boids", len(w.boids)))
}

// RelocateGoal moves the goal to a new random point.
func (w *World) RelocateGoal() {
	w.goal = w.randomPoint(w.cfg.GoalSpread)
	w.logger.Debug("goal relocated", zap.Stringer("goal", w.goal), zap.Uint64("tick", w.tick))
}

// ============================================================================
// Accessors
// ============================================================================

func (w *World) RunID() string { return w.runID }

// TickCount returns the number of ticks done since the last reset.
func (w *World) TickCount() uint64 { return w.tick }

func (w *World) Paused() bool { return w.paused }

// Len returns the population size.
func (w *World) Len() int { return len(w.boids) }

// Boid returns the i-th boid of the population. The pointer must not be kept across ticks.
func (w *World) Boid(i int) *Boid { return w.boids[i] }

func (w *World) Predator() *Predator { return w.predator }

func (w *World) Goal() geometry.Vector3D { return w.goal }

func (w *World) Weights() Weights { return w.weights }

func (w *World) Enabled() Toggles { return w.enabled }

// Config returns a copy of the configuration the World was built with.
func (w *World) Config() Config { return w.cfg }
