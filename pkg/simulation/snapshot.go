package simulation

import (
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// BoidState is the rendered view of a boid.
type BoidState struct {
	ID        string              `json:"id"`
	Position  geometry.Vector3D   `json:"position"`
	Velocity  geometry.Vector3D   `json:"velocity"`
	Color     Color               `json:"color"`
	BankAngle float64             `json:"bankAngle"`
	Trail     []geometry.Vector3D `json:"trail"` // most recent first
}

// PredatorState is the rendered view of the predator.
type PredatorState struct {
	Position geometry.Vector3D   `json:"position"`
	Velocity geometry.Vector3D   `json:"velocity"`
	Trail    []geometry.Vector3D `json:"trail"`
	Enabled  bool                `json:"enabled"`
}

// BehaviorSetting reports the current toggle and weight of one behavior.
type BehaviorSetting struct {
	Behavior Behavior `json:"behavior"`
	Enabled  bool     `json:"enabled"`
	Weight   float64  `json:"weight"`
}

// Snapshot is a deep copy of the World, safe to hand to another goroutine.
type Snapshot struct {
	RunID       string              `json:"runId"`
	Tick        uint64              `json:"tick"`
	HalfExtent  float64             `json:"halfExtent"`
	Boids       []BoidState         `json:"boids"`
	Predator    PredatorState       `json:"predator"`
	Obstacles   []behavior.Obstacle `json:"obstacles"`
	Goal        geometry.Vector3D   `json:"goal"`
	Paused      bool                `json:"paused"`
	ShowTrails  bool                `json:"showTrails"`
	ShowBanking bool                `json:"showBanking"`
	Behaviors   []BehaviorSetting   `json:"behaviors"`
	Digest      uint64              `json:"digest"`
}

// Setting returns the setting of b, the zero value when b is not reported.
func (s *Snapshot) Setting(b Behavior) BehaviorSetting {
	for _, bs := range s.Behaviors {
		if bs.Behavior == b {
			return bs
		}
	}
	return BehaviorSetting{}
}

// Snapshot copies the current state of the World.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		RunID:      w.runID,
		Tick:       w.tick,
		HalfExtent: w.cfg.WorldHalfExtent,
		Boids:      make([]BoidState, len(w.boids)),
		Predator: PredatorState{
			Position: w.predator.Position,
			Velocity: w.predator.Velocity,
			Trail:    w.predator.Trail.Points(),
			Enabled:  w.enabled.Predator,
		},
		Obstacles:   append([]behavior.Obstacle(nil), w.obstacles...),
		Goal:        w.goal,
		Paused:      w.paused,
		ShowTrails:  w.showTrails,
		ShowBanking: w.showBanking,
		Behaviors:   make([]BehaviorSetting, 0, len(Behaviors)),
		Digest:      w.Digest(),
	}
	for i, b := range w.boids {
		s.Boids[i] = BoidState{
			ID:        b.ID,
			Position:  b.Position,
			Velocity:  b.Velocity,
			Color:     b.Color,
			BankAngle: b.BankAngle,
			Trail:     b.Trail.Points(),
		}
	}
	for _, b := range Behaviors {
		s.Behaviors = append(s.Behaviors, BehaviorSetting{
			Behavior: b,
			Enabled:  w.enabled.Of(b),
			Weight:   w.weights.Of(b),
		})
	}
	return s
}
