package systems

import "math"

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// velocityMagnitude returns the magnitude of a velocity vector.
func velocityMagnitude(vx, vy float64) float64 {
	return math.Sqrt(vx*vx + vy*vy)
}
