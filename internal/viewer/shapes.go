package viewer

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

const boidSize = 1.5

// boidShape returns the nose and the two wing tips of a boid heading along velocity.
// With banking the wings roll by bankAngle degrees around the heading.
func boidShape(position, velocity geometry.Vector3D, bankAngle float64, banking bool) [3]geometry.Vector3D {
	dir := worldUp
	if velocity.Len() > 0.001 {
		dir = velocity.Normalize()
	}
	side := dir.Cross(worldUp)
	if side.Len() < 0.001 {
		side = geometry.NewVector(1, 0, 0)
	}
	side = side.Normalize()
	if banking && bankAngle != 0 {
		a := bankAngle * math.Pi / 180
		side = side.Mul(math.Cos(a)).Add(dir.Cross(side).Mul(math.Sin(a)))
	}

	tail := position.Sub(dir.Mul(boidSize))
	return [3]geometry.Vector3D{
		position.Add(dir.Mul(boidSize * 2)),
		tail.Add(side.Mul(boidSize)),
		tail.Sub(side.Mul(boidSize)),
	}
}

// cubeEdges returns the 12 edges of the axis aligned cube of half extent h.
func cubeEdges(h float64) [12][2]geometry.Vector3D {
	var corners [8]geometry.Vector3D
	for i := range corners {
		x, y, z := -h, -h, -h
		if i&1 != 0 {
			x = h
		}
		if i&2 != 0 {
			y = h
		}
		if i&4 != 0 {
			z = h
		}
		corners[i] = geometry.NewVector(x, y, z)
	}
	var edges [12][2]geometry.Vector3D
	n := 0
	for i := range corners {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				edges[n] = [2]geometry.Vector3D{corners[i], corners[i|bit]}
				n++
			}
		}
	}
	return edges
}

// trailAlpha fades a trail segment from 0.5 at the head to 0 at the tail.
func trailAlpha(i, n int) float64 {
	return (1 - float64(i)/float64(n)) * 0.5
}

// goalEase is the fraction of the remaining distance the goal marker covers per frame.
const goalEase = 0.15

// marker glides towards a moving target, it jumps when the run changes.
type marker struct {
	pos   geometry.Vector3D
	runID string
}

func (m *marker) follow(target geometry.Vector3D, runID string) {
	if runID != m.runID {
		m.pos, m.runID = target, runID
		return
	}
	m.pos = m.pos.Lerp(target, goalEase)
}
