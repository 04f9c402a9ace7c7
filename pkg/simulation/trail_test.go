package simulation

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

func TestTrail_PushKeepsMostRecentFirst(t *testing.T) {
	tr := NewTrail(3)
	for i := 1; i <= 5; i++ {
		tr.Push(geometry.NewVector(float64(i), 0, 0))
	}

	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 3, tr.Cap())
	assert.Equal(t, []geometry.Vector3D{
		geometry.NewVector(5, 0, 0),
		geometry.NewVector(4, 0, 0),
		geometry.NewVector(3, 0, 0),
	}, tr.Points())
}

func TestTrail_PartiallyFilled(t *testing.T) {
	tr := NewTrail(30)
	tr.Push(geometry.NewVector(1, 2, 3))
	tr.Push(geometry.NewVector(4, 5, 6))

	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, geometry.NewVector(4, 5, 6), tr.At(0))
	assert.Equal(t, geometry.NewVector(1, 2, 3), tr.At(1))
	assert.Panics(t, func() { tr.At(2) })
	assert.Panics(t, func() { tr.At(-1) })
}

func TestTrail_ZeroCapacityRecordsNothing(t *testing.T) {
	tr := NewTrail(0)
	tr.Push(geometry.NewVector(1, 1, 1))
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Points())
}

func TestTrail_PointsIsACopy(t *testing.T) {
	tr := NewTrail(2)
	tr.Push(geometry.NewVector(1, 0, 0))
	pts := tr.Points()
	pts[0] = geometry.NewVector(9, 9, 9)
	assert.Equal(t, geometry.NewVector(1, 0, 0), tr.At(0))
}
