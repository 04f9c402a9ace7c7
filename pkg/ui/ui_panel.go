package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
)

// UIWidget is implemented by everything a UIPanel can hold.
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	// place moves the widget so its label starts at y
	place(y float64)
	labelled() bool
}

type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 { return s.H + 25 }
func (s *SliderWrapper) place(y float64)    { s.Y = y + labelHeight }
func (s *SliderWrapper) labelled() bool     { return true }

type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 { return c.Size + 8 }
func (c *CheckboxWrapper) place(y float64)    { c.Y = y }
func (c *CheckboxWrapper) labelled() bool     { return true }

type ButtonWrapper struct {
	*Button
}

func (b *ButtonWrapper) GetHeight() float64 { return b.Height + 6 }
func (b *ButtonWrapper) place(y float64)    { b.Y = y }
func (b *ButtonWrapper) labelled() bool     { return false }

// UIPanel stacks widgets in titled sections and scrolls with the mouse wheel.
type UIPanel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	Widgets       []UIWidget
	Labels        []string
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []PanelSection
	// visible[i] is true when Widgets[i] lies inside the panel after scrolling
	visible []bool
}

// PanelSection groups the widgets in [StartIndex, EndIndex).
type PanelSection struct {
	Title      string
	StartIndex int
	EndIndex   int
}

func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       "Configuration",
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a section, widgets added afterwards belong to it until EndSection.
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   -1,
	})
}

func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) add(w UIWidget, label string) {
	p.Widgets = append(p.Widgets, w)
	p.Labels = append(p.Labels, label)
	p.layout()
}

func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(&SliderWrapper{s}, label)
	return s
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+p.Width-30, 0, label, value)
	p.add(&CheckboxWrapper{c}, label)
	return c
}

func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 20, label, onClick)
	p.add(&ButtonWrapper{b}, label)
	return b
}

// Contains reports whether the cursor position is over the panel.
func (p *UIPanel) Contains(mx, my int) bool {
	return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}.Contains(mx, my)
}

// section returns the index of the section holding widget i, -1 when none does.
func (p *UIPanel) section(i int) int {
	for s := len(p.sections) - 1; s >= 0; s-- {
		sec := p.sections[s]
		if i >= sec.StartIndex && (sec.EndIndex < 0 || i < sec.EndIndex) {
			return s
		}
	}
	return -1
}

// walk visits the section headers and widgets in display order with their unscrolled y.
func (p *UIPanel) walk(header func(s int, y float64), widget func(i int, y float64)) float64 {
	y := p.Y + titleHeight
	current := -1
	for i, w := range p.Widgets {
		if s := p.section(i); s != current {
			for next := current + 1; next <= s; next++ {
				header(next, y)
				y += sectionHeight
			}
			current = s
		}
		widget(i, y)
		y += w.GetHeight()
	}
	for next := current + 1; next < len(p.sections); next++ {
		header(next, y)
		y += sectionHeight
	}
	return y - p.Y
}

// ContentHeight is the height of the panel content without scrolling.
func (p *UIPanel) ContentHeight() float64 {
	return p.walk(func(int, float64) {}, func(int, float64) {})
}

func (p *UIPanel) maxScroll() float64 {
	m := p.ContentHeight() - p.Height + 10
	if m < 0 {
		return 0
	}
	return m
}

// Scroll moves the content by dy pixels, clamped to the content height.
func (p *UIPanel) Scroll(dy float64) {
	p.ScrollOffset += dy
	if p.ScrollOffset > p.maxScroll() {
		p.ScrollOffset = p.maxScroll()
	}
	if p.ScrollOffset < 0 {
		p.ScrollOffset = 0
	}
	p.layout()
}

func (p *UIPanel) layout() {
	p.visible = make([]bool, len(p.Widgets))
	p.walk(func(int, float64) {}, func(i int, y float64) {
		y -= p.ScrollOffset
		p.Widgets[i].place(y)
		p.visible[i] = y >= p.Y+titleHeight && y+p.Widgets[i].GetHeight() <= p.Y+p.Height
	})
}

// Visible reports whether widget i is drawn and receives input.
func (p *UIPanel) Visible(i int) bool {
	return i >= 0 && i < len(p.visible) && p.visible[i]
}

func (p *UIPanel) Update() {
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(mx, my) {
		p.Scroll(-dy * 20)
	}
	for i, w := range p.Widgets {
		if p.Visible(i) {
			w.Update()
		}
	}
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	headerBG := color.RGBA{R: 60, G: 60, B: 70, A: 255}
	p.walk(func(s int, y float64) {
		y -= p.ScrollOffset
		if y < p.Y+titleHeight || y+sectionHeight > p.Y+p.Height {
			return
		}
		vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, headerBG, true)
		ebitenutil.DebugPrintAt(screen, p.sections[s].Title, int(p.X+10), int(y+2))
	}, func(i int, y float64) {
		if !p.Visible(i) {
			return
		}
		w := p.Widgets[i]
		if w.labelled() {
			ebitenutil.DebugPrintAt(screen, p.Labels[i], int(p.X+10), int(y-p.ScrollOffset))
		}
		w.Draw(screen)
	})
}
