package viewer

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

const (
	minPitch    = -89.0
	maxPitch    = 89.0
	minDistance = 50.0
	maxDistance = 300.0
)

var worldUp = geometry.NewVector(0, 1, 0)

// Camera orbits the origin and projects world points with a perspective lens.
// Angles are in degrees.
type Camera struct {
	Pitch    float64
	Yaw      float64
	Distance float64
	FOV      float64
	Near     float64
	Width    float64
	Height   float64
}

func NewCamera(width, height float64) Camera {
	return Camera{
		Pitch:    30,
		Yaw:      45,
		Distance: 150,
		FOV:      45,
		Near:     1,
		Width:    width,
		Height:   height,
	}
}

// Eye is the camera position in world space.
func (c Camera) Eye() geometry.Vector3D {
	pitch := c.Pitch * math.Pi / 180
	yaw := c.Yaw * math.Pi / 180
	return geometry.NewVector(
		c.Distance*math.Sin(yaw)*math.Cos(pitch),
		c.Distance*math.Sin(pitch),
		c.Distance*math.Cos(yaw)*math.Cos(pitch),
	)
}

// Orbit rotates the camera, pitch stays within ±89°.
func (c *Camera) Orbit(dPitch, dYaw float64) {
	c.Pitch = math.Max(minPitch, math.Min(maxPitch, c.Pitch+dPitch))
	c.Yaw = math.Mod(c.Yaw+dYaw, 360)
}

// Zoom moves the camera along its line of sight, the distance stays within [50, 300].
func (c *Camera) Zoom(d float64) {
	c.Distance = math.Max(minDistance, math.Min(maxDistance, c.Distance+d))
}

func (c Camera) focal() float64 {
	return c.Height / 2 / math.Tan(c.FOV*math.Pi/360)
}

// view holds the camera frame computed once per frame.
type view struct {
	eye, right, up, forward geometry.Vector3D
	focal, cx, cy, near     float64
}

func (c Camera) view() view {
	eye := c.Eye()
	forward := eye.Mul(-1).Normalize()
	right := forward.Cross(worldUp).Normalize()
	return view{
		eye:     eye,
		right:   right,
		up:      right.Cross(forward),
		forward: forward,
		focal:   c.focal(),
		cx:      c.Width / 2,
		cy:      c.Height / 2,
		near:    c.Near,
	}
}

// Project returns the screen position of p, its distance along the line of sight,
// and false when p is behind the near plane.
func (c Camera) Project(p geometry.Vector3D) (x, y, depth float64, ok bool) {
	return c.view().project(p)
}

func (v view) project(p geometry.Vector3D) (x, y, depth float64, ok bool) {
	d := p.Sub(v.eye)
	depth = d.Dot(v.forward)
	if depth < v.near {
		return 0, 0, depth, false
	}
	s := v.focal / depth
	return v.cx + d.Dot(v.right)*s, v.cy - d.Dot(v.up)*s, depth, true
}

// scale is the on-screen size of one world unit at depth.
func (v view) scale(depth float64) float64 {
	return v.focal / depth
}
