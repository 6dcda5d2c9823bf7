package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/systems"
)

// ParticleRenderer renders field particles.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders every live particle of the field. Invisible particles are
// skipped.
func (r *ParticleRenderer) Draw(canvas Canvas, field *systems.Field) int {
	drawn := 0
	field.Each(func(pt *components.Particle) {
		c := ParticleColor(pt)
		if c.A == 0 {
			return
		}
		canvas.FillCircle(pt.Pos.X, pt.Pos.Y, pt.Size, c)
		drawn++
	})
	return drawn
}

// ParticleColor returns the particle's colour with its base alpha modulated
// by the current opacity.
func ParticleColor(pt *components.Particle) color.NRGBA {
	a := pt.Color.A * pt.Opacity * 255
	a = math.Max(0, math.Min(255, math.Round(a)))
	return color.NRGBA{R: pt.Color.R, G: pt.Color.G, B: pt.Color.B, A: uint8(a)}
}
