package simulation

import "math"

// Color is a linear RGB triplet with components in [0, 1].
// It implements color.Color so the view layer can hand it to any image API.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// RGBA implements color.Color, the color is always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return channel(c.R), channel(c.G), channel(c.B), 0xffff
}

func channel(v float64) uint32 {
	v = math.Max(0, math.Min(1, v))
	return uint32(math.Round(v * 0xffff))
}

// ColorFromHSV converts a hue in degrees [0, 360) and saturation/value in [0, 1] to RGB.
func ColorFromHSV(h, s, v float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	sector := int(h/60) % 6
	f := h/60 - float64(sector)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	switch sector {
	case 0:
		return Color{v, t, p}
	case 1:
		return Color{q, v, p}
	case 2:
		return Color{p, v, t}
	case 3:
		return Color{p, q, v}
	case 4:
		return Color{t, p, v}
	default:
		return Color{v, p, q}
	}
}
