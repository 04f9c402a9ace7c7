package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a float64 within [Min, Max] by dragging along its bar.
type Slider struct {
	Label      string
	Value      float64
	Min, Max   float64
	X, Y, W, H float64
	// Format is the fmt verb used to print Value next to the bar
	Format   string
	OnChange func(v float64)
}

func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label:  label,
		Min:    min,
		Max:    max,
		X:      x,
		Y:      y,
		W:      w,
		H:      10,
		Format: "%.2f",
	}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// SetValue clamps v into range and reports whether Value changed.
// OnChange is not called.
func (s *Slider) SetValue(v float64) bool {
	v = s.clamp(v)
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

// Ratio is the position of Value along the bar, in [0, 1].
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// ValueAt maps a cursor x coordinate to a slider value.
func (s *Slider) ValueAt(mx int) float64 {
	if s.W <= 0 {
		return s.Min
	}
	ratio := (float64(mx) - s.X) / s.W
	return s.clamp(s.Min + ratio*(s.Max-s.Min))
}

func (s *Slider) Bounds() Rect {
	return Rect{X: s.X, Y: s.Y, W: s.W, H: s.H}
}

// Update follows the cursor while the left button is held over the bar.
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || !s.Bounds().Contains(mx, my) {
		return
	}
	if s.SetValue(s.ValueAt(mx)) && s.OnChange != nil {
		s.OnChange(s.Value)
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H),
		color.RGBA{R: 80, G: 80, B: 90, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.Ratio()), float32(s.H),
		color.RGBA{R: 100, G: 170, B: 230, A: 255}, true)

	txt := fmt.Sprintf(s.Format, s.Value)
	ebitenutil.DebugPrintAt(screen, txt, int(s.X+s.W)-len(txt)*6, int(s.Y)-15)
}
