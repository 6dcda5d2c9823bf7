package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
)

func testPointerParams() PointerParams {
	return PointerParamsFromConfig(config.Defaults())
}

func TestMovePointerFirstSample(t *testing.T) {
	params := testPointerParams()
	ptr := components.NewPointer(params.BaseRadius)

	MovePointer(&ptr, 300, 200, params)

	if !ptr.Active || ptr.X != 300 || ptr.Y != 200 {
		t.Errorf("pointer = %+v, want active at (300, 200)", ptr)
	}
	if ptr.VelX != 0 || ptr.VelY != 0 {
		t.Errorf("first sample produced velocity (%v, %v)", ptr.VelX, ptr.VelY)
	}
	if ptr.TargetRadius != params.BaseRadius {
		t.Errorf("target radius = %v, want base %v", ptr.TargetRadius, params.BaseRadius)
	}
}

func TestMovePointerTargetRadius(t *testing.T) {
	params := testPointerParams()

	tests := []struct {
		name   string
		dx, dy float64
		want   float64
	}{
		{"still", 0, 0, 200},
		{"slow", 3, 4, 215},       // speed 5 -> +15
		{"medium", 30, 40, 350},   // speed 50 -> +150 (exactly at cap)
		{"fast", 300, 0, 350},     // capped bonus
		{"diagonal", -6, -8, 230}, // speed 10 -> +30
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptr := components.NewPointer(params.BaseRadius)
			MovePointer(&ptr, 100, 100, params)
			MovePointer(&ptr, 100+tt.dx, 100+tt.dy, params)

			if ptr.VelX != tt.dx || ptr.VelY != tt.dy {
				t.Errorf("velocity = (%v, %v), want (%v, %v)", ptr.VelX, ptr.VelY, tt.dx, tt.dy)
			}
			if math.Abs(ptr.TargetRadius-tt.want) > 1e-9 {
				t.Errorf("target radius = %v, want %v", ptr.TargetRadius, tt.want)
			}
		})
	}
}

func TestRadiusConvergesWithoutOvershoot(t *testing.T) {
	params := testPointerParams()
	ptr := components.NewPointer(params.BaseRadius)

	x := 0.0
	MovePointer(&ptr, x, 50, params)

	prev := ptr.Radius
	for i := 0; i < 150; i++ {
		x += 10
		MovePointer(&ptr, x, 50, params)
		AdvancePointer(&ptr, params)

		if ptr.Radius < prev {
			t.Fatalf("frame %d: radius decreased from %v to %v", i, prev, ptr.Radius)
		}
		if ptr.Radius > ptr.TargetRadius {
			t.Fatalf("frame %d: radius %v overshot target %v", i, ptr.Radius, ptr.TargetRadius)
		}
		prev = ptr.Radius
	}

	if math.Abs(ptr.Radius-230) > 0.01 {
		t.Errorf("radius = %v after 150 frames, want ~230", ptr.Radius)
	}
}

func TestPointerRelaxesWhenStill(t *testing.T) {
	params := testPointerParams()
	ptr := components.NewPointer(params.BaseRadius)

	MovePointer(&ptr, 0, 0, params)
	MovePointer(&ptr, 40, 0, params)
	for i := 0; i < 10; i++ {
		AdvancePointer(&ptr, params)
	}
	if ptr.Radius <= params.BaseRadius {
		t.Fatalf("radius %v should have grown after a fast move", ptr.Radius)
	}

	for i := 0; i < 300; i++ {
		AdvancePointer(&ptr, params)
		if ptr.Radius < 0 {
			t.Fatalf("radius went negative: %v", ptr.Radius)
		}
	}
	if ptr.TargetRadius != params.BaseRadius {
		t.Errorf("target radius = %v, want base %v", ptr.TargetRadius, params.BaseRadius)
	}
	if math.Abs(ptr.Radius-params.BaseRadius) > 0.01 {
		t.Errorf("radius = %v, want ~%v", ptr.Radius, params.BaseRadius)
	}
}

func TestResetPointer(t *testing.T) {
	params := testPointerParams()
	ptr := components.NewPointer(params.BaseRadius)
	MovePointer(&ptr, 0, 0, params)
	MovePointer(&ptr, 60, 80, params)
	AdvancePointer(&ptr, params)

	ResetPointer(&ptr)

	if ptr.Active {
		t.Error("pointer still active after reset")
	}
	if ptr.VelX != 0 || ptr.VelY != 0 {
		t.Errorf("velocity = (%v, %v), want zero", ptr.VelX, ptr.VelY)
	}
	if ptr.Radius != params.BaseRadius || ptr.TargetRadius != params.BaseRadius {
		t.Errorf("radius = %v target = %v, want base %v", ptr.Radius, ptr.TargetRadius, params.BaseRadius)
	}

	// The next sample after a reset must not produce a velocity spike.
	MovePointer(&ptr, 900, 900, params)
	if ptr.VelX != 0 || ptr.VelY != 0 {
		t.Errorf("velocity after re-entry = (%v, %v), want zero", ptr.VelX, ptr.VelY)
	}
}

func TestTouchPointerDoesNotInheritVelocity(t *testing.T) {
	params := testPointerParams()
	ptr := components.NewPointer(params.BaseRadius)
	MovePointer(&ptr, 0, 0, params)
	MovePointer(&ptr, 20, 0, params)

	TouchPointer(&ptr, 700, 500)

	if !ptr.Active || ptr.X != 700 || ptr.Y != 500 {
		t.Errorf("pointer = %+v, want active at (700, 500)", ptr)
	}
	if ptr.VelX != 0 || ptr.VelY != 0 {
		t.Errorf("touch start produced velocity (%v, %v)", ptr.VelX, ptr.VelY)
	}

	MovePointer(&ptr, 705, 500, params)
	if ptr.VelX != 5 {
		t.Errorf("touch move velocity = %v, want 5", ptr.VelX)
	}
}
