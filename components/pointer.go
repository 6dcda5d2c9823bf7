package components

// Pointer tracks the pointer or touch contact driving repulsion.
// When Active is false there is no pointer and repulsion is disabled.
type Pointer struct {
	Active bool
	X, Y   float64

	// Previous sample, used to derive velocity on the next move.
	LastX, LastY float64

	VelX, VelY float64

	Radius       float64
	BaseRadius   float64
	TargetRadius float64
}

// NewPointer returns an inactive pointer resting at its base radius.
func NewPointer(baseRadius float64) Pointer {
	return Pointer{
		Radius:       baseRadius,
		BaseRadius:   baseRadius,
		TargetRadius: baseRadius,
	}
}
