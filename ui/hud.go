package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/telemetry"
)

// HUDData holds all the data needed to render the debug HUD.
type HUDData struct {
	Title       string
	Pattern     string
	Tier        string
	Particles   int
	Drawn       int
	Ticks       uint64
	FPS         int32
	SwapPending bool
	Running     bool
}

// HUD renders the debug heads-up display. It starts hidden.
type HUD struct {
	renderer *Renderer
	visible  bool
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Toggle switches HUD visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// IsVisible returns whether the HUD is shown.
func (h *HUD) IsVisible() bool {
	return h.visible
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	if !h.visible {
		return
	}

	r := h.renderer
	x := r.Theme.Padding
	y := r.Theme.Padding

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 25

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Drawn: %d | Tick: %d | FPS: %d", data.Particles, data.Drawn, data.Ticks, data.FPS),
		x, y, 16, rl.LightGray,
	)
	y += 20

	rl.DrawText(fmt.Sprintf("Pattern: %s | Tier: %s", data.Pattern, data.Tier), x, y, 16, rl.LightGray)
	y += 20

	status := "Running"
	switch {
	case data.SwapPending:
		status = "Swapping"
	case !data.Running:
		status = "Idle"
	}
	rl.DrawText(status, x, y, 16, r.Theme.SectionHeader)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	if !h.visible {
		return
	}
	rl.DrawText(controls, h.renderer.Theme.Padding, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// PerfPanelPhases is the display order of tick phases.
var PerfPanelPhases = []string{
	telemetry.PhaseEvents,
	telemetry.PhasePointer,
	telemetry.PhaseParticles,
	telemetry.PhasePrune,
	telemetry.PhaseDraw,
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	padding := r.Theme.Padding
	height := r.Theme.LineHeight*4 + (r.Theme.LineHeight+2)*int32(len(PerfPanelPhases)) + padding*2

	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Tick Performance")
	y = r.DrawLabelValue(x, y, "avg", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "p95", stats.P95TickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "max", stats.MaxTickDuration.Round(time.Microsecond).String())

	for _, phase := range PerfPanelPhases {
		y = r.DrawBar(x, y, phase, stats.PhasePct[phase], p.width-padding*2)
	}
}
