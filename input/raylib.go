package input

import rl "github.com/gen2brain/raylib-go/raylib"

// PollRaylib reads the current frame's input state from the raylib window.
func PollRaylib() Sample {
	mouse := rl.GetMousePosition()
	s := Sample{
		MouseX:        float64(mouse.X),
		MouseY:        float64(mouse.Y),
		MouseOnScreen: rl.IsCursorOnScreen(),
		Touches:       int(rl.GetTouchPointCount()),
		Resized:       rl.IsWindowResized(),
		Width:         rl.GetScreenWidth(),
		Height:        rl.GetScreenHeight(),
	}
	if s.Touches > 0 {
		touch := rl.GetTouchPosition(0)
		s.TouchX, s.TouchY = float64(touch.X), float64(touch.Y)
	}
	return s
}

// WindowOrigin returns the window's top-left corner in screen coordinates.
func WindowOrigin() (int, int) {
	pos := rl.GetWindowPosition()
	return int(pos.X), int(pos.Y)
}
