package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pixeldust/components"
)

// Field owns the live particle population and the pointer that disturbs it.
// Particles are ECS entities carrying a single Particle component; their
// order is irrelevant to simulation and rendering.
type Field struct {
	world  *ecs.World
	mapper *ecs.Map1[components.Particle]
	filter *ecs.Filter1[components.Particle]

	pointer components.Pointer

	physics  PhysicsParams
	pointers PointerParams
	rng      *rand.Rand

	width, height int
	count         int
	generation    uint64

	// Reused between passes that must finish iterating before removing.
	scratch []ecs.Entity
}

// NewField creates an empty field for a width x height viewport.
func NewField(width, height int, physics PhysicsParams, pointers PointerParams, rng *rand.Rand) *Field {
	world := ecs.NewWorld()
	return &Field{
		world:    world,
		mapper:   ecs.NewMap1[components.Particle](world),
		filter:   ecs.NewFilter1[components.Particle](world),
		pointer:  components.NewPointer(pointers.BaseRadius),
		physics:  physics,
		pointers: pointers,
		rng:      rng,
		width:    width,
		height:   height,
	}
}

// Len returns the number of live particles.
func (f *Field) Len() int {
	return f.count
}

// Size returns the viewport dimensions.
func (f *Field) Size() (int, int) {
	return f.width, f.height
}

// Resize records new viewport dimensions. Existing particles keep their
// homes until the next population swap.
func (f *Field) Resize(width, height int) {
	f.width, f.height = width, height
}

// Generation counts population swaps since creation.
func (f *Field) Generation() uint64 {
	return f.generation
}

// Pointer exposes the pointer state for event handling.
func (f *Field) Pointer() *components.Pointer {
	return &f.pointer
}

// PointerMove records a pointer sample.
func (f *Field) PointerMove(x, y float64) {
	MovePointer(&f.pointer, x, y, f.pointers)
}

// TouchStart places the pointer at a new touch contact.
func (f *Field) TouchStart(x, y float64) {
	TouchPointer(&f.pointer, x, y)
}

// PointerLeave disables repulsion until the next sample.
func (f *Field) PointerLeave() {
	ResetPointer(&f.pointer)
}

// FadeOutAll sets every live particle fading toward zero. Particles are not
// removed here; the prune pass drops them once invisible.
func (f *Field) FadeOutAll() {
	query := f.filter.Query()
	for query.Next() {
		pt := query.Get()
		pt.TargetOpacity = 0
	}
}

// Replace discards the current population and builds a new one from seeds.
// With a non-nil origin every new particle bursts out from that point.
func (f *Field) Replace(seeds []components.Seed, origin *components.Position) {
	f.Clear()
	f.Add(seeds, origin)
}

// Add builds particles from seeds alongside the current population.
func (f *Field) Add(seeds []components.Seed, origin *components.Position) {
	for i := range seeds {
		pt := NewParticle(seeds[i], origin, f.physics, f.rng)
		f.mapper.NewEntity(&pt)
	}
	f.count += len(seeds)
	f.generation++
}

// Clear removes every particle.
func (f *Field) Clear() {
	f.scratch = f.scratch[:0]
	query := f.filter.Query()
	for query.Next() {
		f.scratch = append(f.scratch, query.Entity())
	}
	f.removeScratch()
}

// Step advances the pointer and every particle by one frame.
func (f *Field) Step() {
	f.StepPointer()
	f.StepParticles()
}

// StepPointer eases the pointer radius and decays its velocity.
func (f *Field) StepPointer() {
	AdvancePointer(&f.pointer, f.pointers)
}

// StepParticles integrates every particle against the current pointer.
func (f *Field) StepParticles() {
	query := f.filter.Query()
	for query.Next() {
		UpdateParticle(query.Get(), &f.pointer, f.physics, f.rng)
	}
}

// Prune removes particles whose opacity has decayed to threshold or below
// and returns how many were removed.
func (f *Field) Prune(threshold float64) int {
	f.scratch = f.scratch[:0]
	query := f.filter.Query()
	for query.Next() {
		if query.Get().Opacity <= threshold {
			f.scratch = append(f.scratch, query.Entity())
		}
	}
	return f.removeScratch()
}

// Each calls fn for every live particle.
func (f *Field) Each(fn func(pt *components.Particle)) {
	query := f.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

func (f *Field) removeScratch() int {
	// Entities collected first: the world is locked while a query is open.
	for _, e := range f.scratch {
		f.world.RemoveEntity(e)
	}
	n := len(f.scratch)
	f.count -= n
	f.scratch = f.scratch[:0]
	return n
}
