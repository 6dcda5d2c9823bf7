package input

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Pointer reads the desktop-wide pointer position, so the field reacts
// to the cursor even when the window is unfocused or sits behind others.
type X11Pointer struct {
	conn *xgb.Conn
	root xproto.Window
}

// NewX11Pointer connects to the display named by $DISPLAY.
func NewX11Pointer() (*X11Pointer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	return &X11Pointer{conn: conn, root: setup.DefaultScreen(conn).Root}, nil
}

// Position returns the pointer position on the root window.
func (p *X11Pointer) Position() (int, int, error) {
	reply, err := xproto.QueryPointer(p.conn, p.root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("querying pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// Close releases the X connection.
func (p *X11Pointer) Close() {
	p.conn.Close()
}

// Overlay replaces the mouse fields of s with a global pointer sample at
// (rootX, rootY), translated into a window whose top-left corner sits at
// (winX, winY).
func Overlay(s Sample, rootX, rootY, winX, winY int) Sample {
	x := rootX - winX
	y := rootY - winY
	s.MouseX, s.MouseY = float64(x), float64(y)
	s.MouseOnScreen = x >= 0 && y >= 0 && x < s.Width && y < s.Height
	return s
}
