package ui

import "github.com/hajimehoshi/ebiten/v2"

// Rect is the screen area covered by a widget.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point (mx, my) is inside r, edges included.
func (r Rect) Contains(mx, my int) bool {
	x, y := float64(mx), float64(my)
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// press tracks the left mouse button over an area so a held button fires once.
type press struct {
	down bool
}

// fired returns true on the first frame the button is pressed over area.
func (p *press) fired(area Rect) bool {
	mx, my := ebiten.CursorPosition()
	return p.step(area.Contains(mx, my) && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

func (p *press) step(pressed bool) bool {
	if !pressed {
		p.down = false
		return false
	}
	if p.down {
		return false
	}
	p.down = true
	return true
}
