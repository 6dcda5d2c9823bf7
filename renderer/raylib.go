package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaylibCanvas draws onto the current raylib window. Calls must happen
// between rl.BeginDrawing and rl.EndDrawing.
type RaylibCanvas struct {
	Background rl.Color
}

// NewRaylibCanvas returns a canvas for the open window, or nil if no window
// is ready.
func NewRaylibCanvas(background rl.Color) *RaylibCanvas {
	if !rl.IsWindowReady() {
		return nil
	}
	return &RaylibCanvas{Background: background}
}

// Clear fills the window with the background colour.
func (c *RaylibCanvas) Clear() {
	rl.ClearBackground(c.Background)
}

// FillCircle draws a filled circle.
func (c *RaylibCanvas) FillCircle(x, y, radius float64, col color.NRGBA) {
	rl.DrawCircleV(rl.Vector2{X: float32(x), Y: float32(y)}, float32(radius), rl.Color{R: col.R, G: col.G, B: col.B, A: col.A})
}

// Size returns the window's render dimensions.
func (c *RaylibCanvas) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Volatile reports that the back buffer must be redrawn every presented
// frame, including frames the scheduler skips.
func (c *RaylibCanvas) Volatile() bool {
	return true
}
