package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
)

const (
	patternButtonWidth  = 110
	patternButtonHeight = 32
	patternButtonGap    = 12
	patternBarMargin    = 24
)

// PatternBar is a row of buttons along the bottom edge, one per configured
// pattern.
type PatternBar struct {
	patterns []config.PatternConfig
	active   int
	visible  bool
}

// NewPatternBar creates a visible bar for patterns.
func NewPatternBar(patterns []config.PatternConfig) *PatternBar {
	return &PatternBar{patterns: patterns, active: -1, visible: true}
}

// Toggle switches bar visibility.
func (b *PatternBar) Toggle() bool {
	b.visible = !b.visible
	return b.visible
}

// SetActive marks the pattern at index as the current one.
func (b *PatternBar) SetActive(index int) {
	b.active = index
}

// Layout returns the button rectangles, centred horizontally near the
// bottom of a screenW x screenH screen.
func (b *PatternBar) Layout(screenW, screenH int32) []rl.Rectangle {
	n := int32(len(b.patterns))
	if n == 0 {
		return nil
	}

	total := n*patternButtonWidth + (n-1)*patternButtonGap
	x := float32(screenW-total) / 2
	y := float32(screenH - patternBarMargin - patternButtonHeight)

	rects := make([]rl.Rectangle, n)
	for i := range rects {
		rects[i] = rl.Rectangle{
			X:      x + float32(int32(i)*(patternButtonWidth+patternButtonGap)),
			Y:      y,
			Width:  patternButtonWidth,
			Height: patternButtonHeight,
		}
	}
	return rects
}

// ButtonCenter returns the centre of a button rectangle, the point new
// particles burst out from.
func ButtonCenter(rect rl.Rectangle) components.Position {
	return components.Position{
		X: float64(rect.X + rect.Width/2),
		Y: float64(rect.Y + rect.Height/2),
	}
}

// Draw renders the bar and returns the clicked pattern with the centre of
// its button. ok is false when nothing was clicked.
func (b *PatternBar) Draw(screenW, screenH int32) (pattern config.PatternConfig, origin components.Position, ok bool) {
	if !b.visible {
		return config.PatternConfig{}, components.Position{}, false
	}

	for i, rect := range b.Layout(screenW, screenH) {
		label := b.patterns[i].Name
		if i == b.active {
			label = "> " + label
		}
		if gui.Button(rect, label) {
			b.active = i
			pattern, origin, ok = b.patterns[i], ButtonCenter(rect), true
		}
	}
	return pattern, origin, ok
}
