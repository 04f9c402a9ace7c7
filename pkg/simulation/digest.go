package simulation

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// Digest fingerprints the kinematic state: tick count, boid and predator
// positions and velocities, and the goal. Two runs with the same seed and the
// same commands produce the same digest at the same tick.
func (w *World) Digest() uint64 {
	d := xxhash.New()
	var buf [8]byte
	putUint := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		_, _ = d.Write(buf[:])
	}
	putVec := func(v geometry.Vector3D) {
		putUint(math.Float64bits(v.X))
		putUint(math.Float64bits(v.Y))
		putUint(math.Float64bits(v.Z))
	}

	putUint(w.tick)
	putUint(uint64(len(w.boids)))
	for _, b := range w.boids {
		putVec(b.Position)
		putVec(b.Velocity)
	}
	putVec(w.predator.Position)
	putVec(w.predator.Velocity)
	putVec(w.goal)
	return d.Sum64()
}
