// Package renderer draws the particle field onto a 2D surface.
package renderer

import "image/color"

// Canvas is a 2D drawing surface matching the viewport in pixels.
type Canvas interface {
	// Clear wipes the whole surface to transparent/background.
	Clear()
	// FillCircle draws a filled circle centred at (x, y).
	FillCircle(x, y, radius float64, c color.NRGBA)
	// Size returns the surface dimensions.
	Size() (width, height int)
}
