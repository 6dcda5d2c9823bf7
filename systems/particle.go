package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
)

// PhysicsParams holds the per-particle force model coefficients.
type PhysicsParams struct {
	DensityMin     float64
	DensityRange   float64
	Spring         float64
	Friction       float64
	SpreadFriction float64
	Turbulence     float64
	SettleDistance float64
	PullBase       float64
	PullScale      float64
	PullMax        float64
	RepulsionScale float64
	EllipseStretch float64
	InteractionCap float64 // Pointer distance beyond which repulsion is never evaluated

	BurstSpeedMin   float64
	BurstSpeedRange float64
	SpreadDelayMax  int
	SpawnOpacity    float64

	FadeIn  float64
	FadeOut float64
}

// PhysicsParamsFromConfig extracts the force model from the loaded config.
func PhysicsParamsFromConfig(cfg *config.Config) PhysicsParams {
	p := cfg.Particle
	return PhysicsParams{
		DensityMin:      p.DensityMin,
		DensityRange:    p.DensityRange,
		Spring:          p.Spring,
		Friction:        p.Friction,
		SpreadFriction:  p.SpreadFriction,
		Turbulence:      p.Turbulence,
		SettleDistance:  p.SettleDistance,
		PullBase:        p.PullBase,
		PullScale:       p.PullScale,
		PullMax:         p.PullMax,
		RepulsionScale:  p.RepulsionScale,
		EllipseStretch:  p.EllipseStretch,
		InteractionCap:  cfg.Derived.InteractionCap,
		BurstSpeedMin:   p.BurstSpeedMin,
		BurstSpeedRange: p.BurstSpeedRange,
		SpreadDelayMax:  p.SpreadDelayMax,
		SpawnOpacity:    p.SpawnOpacity,
		FadeIn:          p.FadeIn,
		FadeOut:         p.FadeOut,
	}
}

// NewParticle builds a particle from a seed. With a nil origin the particle
// rests at home fully visible; otherwise it is launched from origin in a
// random direction and settles home over the following frames.
func NewParticle(seed components.Seed, origin *components.Position, params PhysicsParams, rng *rand.Rand) components.Particle {
	pt := components.Particle{
		Home:          components.Position{X: seed.X, Y: seed.Y},
		Size:          seed.Size,
		Color:         seed.Color,
		Density:       rng.Float64()*params.DensityRange + params.DensityMin,
		TargetOpacity: 1,
	}

	if origin == nil {
		pt.Pos = pt.Home
		pt.Opacity = 1
		pt.Phase = components.PhaseFree
		return pt
	}

	angle := rng.Float64() * 2 * math.Pi
	speed := rng.Float64()*params.BurstSpeedRange + params.BurstSpeedMin
	pt.Pos = *origin
	pt.Vel = components.Velocity{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	pt.Opacity = params.SpawnOpacity
	pt.Phase = components.PhaseSettling
	if params.SpreadDelayMax > 0 {
		pt.SpreadDelay = rng.Intn(params.SpreadDelayMax + 1)
	}
	return pt
}

// UpdateParticle advances one particle by one frame.
func UpdateParticle(pt *components.Particle, ptr *components.Pointer, params PhysicsParams, rng *rand.Rand) {
	if pt.Phase == components.PhaseSettling {
		if pt.SpreadDelay > 0 {
			// Staggered launch: hold position, keep fading in.
			pt.SpreadDelay--
			UpdateOpacity(pt, params)
			return
		}
		applySpread(pt, params, rng)
	} else {
		ApplyRepulsion(pt, ptr, params)
		applySpring(pt, params)
	}

	pt.Pos.X += pt.Vel.X
	pt.Pos.Y += pt.Vel.Y

	UpdateOpacity(pt, params)
}

// applySpread pulls a settling particle home with turbulence and exits the
// spread phase once it is within the settle distance.
func applySpread(pt *components.Particle, params PhysicsParams, rng *rand.Rand) {
	dx := pt.Home.X - pt.Pos.X
	dy := pt.Home.Y - pt.Pos.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	pt.Vel.X += (rng.Float64() - 0.5) * params.Turbulence
	pt.Vel.Y += (rng.Float64() - 0.5) * params.Turbulence

	if dist < params.SettleDistance {
		pt.Phase = components.PhaseFree
		return
	}

	// dist >= SettleDistance > 0 here, so the inverse term is finite.
	pull := math.Min(params.PullMax, params.PullBase+params.PullScale/dist)
	pt.Vel.X += dx * pull
	pt.Vel.Y += dy * pull
	pt.Vel.X *= params.SpreadFriction
	pt.Vel.Y *= params.SpreadFriction
}

// ApplyRepulsion pushes the particle away from an active pointer when it lies
// inside the pointer's morphed radius. The field is stretched along the
// pointer's direction of travel.
func ApplyRepulsion(pt *components.Particle, ptr *components.Pointer, params PhysicsParams) {
	if ptr == nil || !ptr.Active {
		return
	}

	dx := ptr.X - pt.Pos.X
	dy := ptr.Y - pt.Pos.Y
	distSq := distanceSq(ptr.X, ptr.Y, pt.Pos.X, pt.Pos.Y)

	// Reject far particles before any trig.
	if params.InteractionCap > 0 && distSq >= params.InteractionCap*params.InteractionCap {
		return
	}

	bearing := math.Atan2(dy, dx)
	relative := bearing - math.Atan2(ptr.VelY, ptr.VelX)
	stretch := 1 + math.Abs(math.Cos(relative))*params.EllipseStretch
	morphed := ptr.Radius * stretch
	if morphed <= 0 || distSq >= morphed*morphed {
		return
	}

	dist := math.Sqrt(distSq)
	force := (morphed - dist) / morphed
	push := force * pt.Density * params.RepulsionScale

	pt.Vel.X -= math.Cos(bearing) * push
	pt.Vel.Y -= math.Sin(bearing) * push
}

// applySpring pulls the particle toward home and applies friction.
func applySpring(pt *components.Particle, params PhysicsParams) {
	pt.Vel.X += (pt.Home.X - pt.Pos.X) * params.Spring
	pt.Vel.Y += (pt.Home.Y - pt.Pos.Y) * params.Spring
	pt.Vel.X *= params.Friction
	pt.Vel.Y *= params.Friction
}

// UpdateOpacity moves opacity toward its target, rising faster than it falls.
func UpdateOpacity(pt *components.Particle, params PhysicsParams) {
	switch {
	case pt.Opacity < pt.TargetOpacity:
		pt.Opacity = math.Min(pt.Opacity+params.FadeIn, pt.TargetOpacity)
	case pt.Opacity > pt.TargetOpacity:
		pt.Opacity = math.Max(pt.Opacity-params.FadeOut, pt.TargetOpacity)
	}
	pt.Opacity = clamp01(pt.Opacity)
}
