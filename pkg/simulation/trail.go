package simulation

import "github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"

// Trail is a bounded history of positions, most recent first.
// It is a fixed size ring: pushing on a full trail evicts the oldest point.
type Trail struct {
	points []geometry.Vector3D
	head   int // index of the most recent point
	size   int
}

// NewTrail returns an empty trail holding at most capacity points.
func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{points: make([]geometry.Vector3D, capacity), head: -1}
}

// Push inserts p at the front, evicting the back when the trail is full.
func (t *Trail) Push(p geometry.Vector3D) {
	if len(t.points) == 0 {
		return
	}
	t.head = (t.head + 1) % len(t.points)
	t.points[t.head] = p
	if t.size < len(t.points) {
		t.size++
	}
}

// Len returns the number of recorded points.
func (t *Trail) Len() int { return t.size }

// Cap returns the maximum number of points.
func (t *Trail) Cap() int { return len(t.points) }

// At returns the i-th most recent point, At(0) being the latest.
// It panics when i is out of [0, Len()).
func (t *Trail) At(i int) geometry.Vector3D {
	if i < 0 || i >= t.size {
		panic("simulation: trail index out of range")
	}
	n := len(t.points)
	return t.points[(t.head-i+n)%n]
}

// Points returns a copy of the trail, most recent first.
func (t *Trail) Points() []geometry.Vector3D {
	out := make([]geometry.Vector3D, t.size)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}
