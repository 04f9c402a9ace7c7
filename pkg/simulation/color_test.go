package simulation

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorFromHSV(t *testing.T) {
	tests := []struct {
		hue  float64
		want Color
	}{
		{0, Color{1, 0.2, 0.2}},
		{120, Color{0.2, 1, 0.2}},
		{240, Color{0.2, 0.2, 1}},
		{360, Color{1, 0.2, 0.2}},
		{-120, Color{0.2, 0.2, 1}},
		{60, Color{1, 1, 0.2}},
	}
	for _, tt := range tests {
		got := ColorFromHSV(tt.hue, 0.8, 1)
		assert.InDelta(t, tt.want.R, got.R, 1e-9, "hue %v red", tt.hue)
		assert.InDelta(t, tt.want.G, got.G, 1e-9, "hue %v green", tt.hue)
		assert.InDelta(t, tt.want.B, got.B, 1e-9, "hue %v blue", tt.hue)
	}
}

func TestColor_ImplementsColor(t *testing.T) {
	var c color.Color = Color{R: 1, G: 0, B: 0.5}
	got := color.RGBAModel.Convert(c).(color.RGBA)
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 128, A: 255}, got)
}
