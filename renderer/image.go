package renderer

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// ImageCanvas draws into an offscreen image. It backs headless runs and
// PNG snapshots.
type ImageCanvas struct {
	dc         *gg.Context
	background color.Color
}

// NewImageCanvas creates a width x height offscreen canvas. A nil
// background clears to transparent.
func NewImageCanvas(width, height int, background color.Color) *ImageCanvas {
	if background == nil {
		background = color.Transparent
	}
	c := &ImageCanvas{dc: gg.NewContext(width, height), background: background}
	c.Clear()
	return c
}

// Clear fills the canvas with its background.
func (c *ImageCanvas) Clear() {
	c.dc.SetColor(c.background)
	c.dc.Clear()
}

// FillCircle draws a filled circle.
func (c *ImageCanvas) FillCircle(x, y, radius float64, col color.NRGBA) {
	c.dc.DrawCircle(x, y, radius)
	c.dc.SetColor(col)
	c.dc.Fill()
}

// Size returns the canvas dimensions.
func (c *ImageCanvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

// Image returns the rendered frame.
func (c *ImageCanvas) Image() image.Image {
	return c.dc.Image()
}

// SavePNG writes the current frame to path.
func (c *ImageCanvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}
