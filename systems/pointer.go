package systems

import (
	"math"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
)

// PointerParams holds the interaction radius model.
type PointerParams struct {
	BaseRadius    float64
	SpeedGain     float64
	MaxBonus      float64
	Smoothing     float64
	VelocityDecay float64
	RelaxSpeed    float64
}

// PointerParamsFromConfig extracts the pointer model from the loaded config.
func PointerParamsFromConfig(cfg *config.Config) PointerParams {
	p := cfg.Pointer
	return PointerParams{
		BaseRadius:    p.BaseRadius,
		SpeedGain:     p.SpeedGain,
		MaxBonus:      p.MaxBonus,
		Smoothing:     p.Smoothing,
		VelocityDecay: p.VelocityDecay,
		RelaxSpeed:    p.RelaxSpeed,
	}
}

// MovePointer records a pointer sample. The first sample after a reset only
// places the pointer; later samples derive velocity and widen the target
// radius in proportion to speed.
func MovePointer(ptr *components.Pointer, x, y float64, params PointerParams) {
	if ptr.Active {
		ptr.VelX = x - ptr.LastX
		ptr.VelY = y - ptr.LastY

		speed := velocityMagnitude(ptr.VelX, ptr.VelY)
		ptr.TargetRadius = ptr.BaseRadius + math.Min(speed*params.SpeedGain, params.MaxBonus)
	}

	ptr.LastX, ptr.LastY = x, y
	ptr.X, ptr.Y = x, y
	ptr.Active = true
}

// TouchPointer places the pointer at a new contact without deriving velocity
// from the previous contact, which may be anywhere on screen.
func TouchPointer(ptr *components.Pointer, x, y float64) {
	ptr.LastX, ptr.LastY = x, y
	ptr.X, ptr.Y = x, y
	ptr.VelX, ptr.VelY = 0, 0
	ptr.Active = true
}

// ResetPointer clears the pointer after it leaves the surface.
func ResetPointer(ptr *components.Pointer) {
	ptr.Active = false
	ptr.X, ptr.Y = 0, 0
	ptr.Radius = ptr.BaseRadius
	ptr.TargetRadius = ptr.BaseRadius
	ptr.VelX, ptr.VelY = 0, 0
}

// AdvancePointer runs the once-per-frame pointer update: ease the radius
// toward its target, decay velocity and relax the target once the pointer
// is nearly still.
func AdvancePointer(ptr *components.Pointer, params PointerParams) {
	ptr.Radius += (ptr.TargetRadius - ptr.Radius) * params.Smoothing
	if ptr.Radius < 0 {
		ptr.Radius = 0
	}

	ptr.VelX *= params.VelocityDecay
	ptr.VelY *= params.VelocityDecay

	if velocityMagnitude(ptr.VelX, ptr.VelY) < params.RelaxSpeed {
		ptr.TargetRadius = ptr.BaseRadius
	}
}
