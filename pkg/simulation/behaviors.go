package simulation

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownBehavior  = errors.New("unknown behavior")
	ErrInvalidWeight    = errors.New("weight must be a finite non-negative number")
	ErrBoundaryAlwaysOn = errors.New("boundary containment cannot be disabled")
	ErrInvalidCount     = errors.New("boid count must be positive")
	ErrUnknownCommand   = errors.New("unknown command")
)

// Behavior names one of the steering rules combined by the World.
type Behavior string

const (
	Separation        Behavior = "separation"
	Alignment         Behavior = "alignment"
	Cohesion          Behavior = "cohesion"
	ObstacleAvoidance Behavior = "obstacle"
	PredatorEvasion   Behavior = "predator"
	GoalSeeking       Behavior = "goal"
	// BoundaryContainment is always active, only its weight can change.
	BoundaryContainment Behavior = "boundary"
)

// Behaviors lists every behavior in the order forces are summed.
var Behaviors = []Behavior{
	Separation, Alignment, Cohesion, ObstacleAvoidance, PredatorEvasion, GoalSeeking, BoundaryContainment,
}

// ParseBehavior returns the Behavior named s.
func ParseBehavior(s string) (Behavior, error) {
	for _, b := range Behaviors {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBehavior, s)
}

// Weights scales the force of each behavior before they are summed.
type Weights struct {
	Separation float64 `json:"separation"`
	Alignment  float64 `json:"alignment"`
	Cohesion   float64 `json:"cohesion"`
	Obstacle   float64 `json:"obstacle"`
	Predator   float64 `json:"predator"`
	Goal       float64 `json:"goal"`
	Boundary   float64 `json:"boundary"`
}

func (w *Weights) field(b Behavior) (*float64, error) {
	switch b {
	case Separation:
		return &w.Separation, nil
	case Alignment:
		return &w.Alignment, nil
	case Cohesion:
		return &w.Cohesion, nil
	case ObstacleAvoidance:
		return &w.Obstacle, nil
	case PredatorEvasion:
		return &w.Predator, nil
	case GoalSeeking:
		return &w.Goal, nil
	case BoundaryContainment:
		return &w.Boundary, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBehavior, b)
}

// Of returns the weight of b, 0 for an unknown behavior.
func (w Weights) Of(b Behavior) float64 {
	f, err := w.field(b)
	if err != nil {
		return 0
	}
	return *f
}

// Set changes the weight of b.
func (w *Weights) Set(b Behavior, weight float64) error {
	if !validWeight(weight) {
		return fmt.Errorf("%w: %s=%v", ErrInvalidWeight, b, weight)
	}
	f, err := w.field(b)
	if err != nil {
		return err
	}
	*f = weight
	return nil
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// Toggles enables or disables the optional behaviors.
type Toggles struct {
	Separation bool `json:"separation"`
	Alignment  bool `json:"alignment"`
	Cohesion   bool `json:"cohesion"`
	Obstacle   bool `json:"obstacle"`
	Predator   bool `json:"predator"`
	Goal       bool `json:"goal"`
}

// Of reports whether b is enabled. Boundary containment is always enabled.
func (t Toggles) Of(b Behavior) bool {
	switch b {
	case Separation:
		return t.Separation
	case Alignment:
		return t.Alignment
	case Cohesion:
		return t.Cohesion
	case ObstacleAvoidance:
		return t.Obstacle
	case PredatorEvasion:
		return t.Predator
	case GoalSeeking:
		return t.Goal
	case BoundaryContainment:
		return true
	}
	return false
}

// Set enables or disables b.
func (t *Toggles) Set(b Behavior, enabled bool) error {
	switch b {
	case Separation:
		t.Separation = enabled
	case Alignment:
		t.Alignment = enabled
	case Cohesion:
		t.Cohesion = enabled
	case ObstacleAvoidance:
		t.Obstacle = enabled
	case PredatorEvasion:
		t.Predator = enabled
	case GoalSeeking:
		t.Goal = enabled
	case BoundaryContainment:
		if !enabled {
			return ErrBoundaryAlwaysOn
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBehavior, b)
	}
	return nil
}
