// Package components defines the ECS components of the particle field.
package components

// Position is a point in viewport pixels.
type Position struct {
	X, Y float64
}

// Velocity is a per-frame displacement in viewport pixels.
type Velocity struct {
	X, Y float64
}

// RGBA is a colour with 8-bit channels and a base alpha in [0, 1].
// The rendered alpha is A scaled by the particle's current opacity.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Phase distinguishes burst-spawned particles that are still settling
// from particles under the normal spring/repulsion model.
type Phase uint8

const (
	PhaseFree     Phase = iota // Spring + pointer repulsion
	PhaseSettling              // Launched from an emission origin, not yet home
)

func (p Phase) String() string {
	switch p {
	case PhaseFree:
		return "free"
	case PhaseSettling:
		return "settling"
	}
	return "unknown"
}

// Seed is one sampled image point used to construct a particle.
type Seed struct {
	X, Y  float64
	Color RGBA
	Size  float64
}

// Particle is the complete state of one point of the field.
// Home, Size, Color and Density never change after construction.
type Particle struct {
	Pos  Position
	Vel  Velocity
	Home Position

	Size    float64
	Color   RGBA
	Density float64 // Scales repulsion response

	Opacity       float64
	TargetOpacity float64

	Phase       Phase
	SpreadDelay int // Frames left before a settling particle starts moving
}

// Settling reports whether the particle is still in its post-spawn spread phase.
func (p *Particle) Settling() bool {
	return p.Phase == PhaseSettling
}
