package renderer

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/systems"
)

func TestParticleColor(t *testing.T) {
	tests := []struct {
		name    string
		alpha   float64
		opacity float64
		want    uint8
	}{
		{"opaque", 1, 1, 255},
		{"base alpha", 0.8, 1, 204},
		{"half faded", 0.8, 0.5, 102},
		{"invisible", 0.8, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := components.Particle{
				Color:   components.RGBA{R: 10, G: 20, B: 30, A: tt.alpha},
				Opacity: tt.opacity,
			}
			got := ParticleColor(&pt)
			if got.A != tt.want {
				t.Errorf("alpha = %d, want %d", got.A, tt.want)
			}
			if got.R != 10 || got.G != 20 || got.B != 30 {
				t.Errorf("rgb = (%d, %d, %d), want (10, 20, 30)", got.R, got.G, got.B)
			}
		})
	}
}

func TestDrawFieldToImage(t *testing.T) {
	cfg := config.Defaults()
	field := systems.NewField(64, 64,
		systems.PhysicsParamsFromConfig(cfg),
		systems.PointerParamsFromConfig(cfg),
		rand.New(rand.NewSource(1)))
	field.Replace([]components.Seed{
		{X: 16, Y: 16, Color: components.RGBA{R: 255, G: 0, B: 0, A: 1}, Size: 4},
		{X: 48, Y: 48, Color: components.RGBA{R: 0, G: 0, B: 255, A: 1}, Size: 4},
	}, nil)

	canvas := NewImageCanvas(64, 64, color.Black)
	drawn := NewParticleRenderer().Draw(canvas, field)
	if drawn != 2 {
		t.Fatalf("drew %d particles, want 2", drawn)
	}

	img := canvas.Image()
	r, g, b, _ := img.At(16, 16).RGBA()
	if r>>8 < 200 || g>>8 > 40 || b>>8 > 40 {
		t.Errorf("pixel at red particle = (%d, %d, %d), want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(48, 48).RGBA()
	if b>>8 < 200 || r>>8 > 40 || g>>8 > 40 {
		t.Errorf("pixel at blue particle = (%d, %d, %d), want blue", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(32, 5).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("background pixel = (%d, %d, %d), want black", r>>8, g>>8, b>>8)
	}

	canvas.Clear()
	r, _, _, _ = canvas.Image().At(16, 16).RGBA()
	if r != 0 {
		t.Error("Clear did not wipe the frame")
	}
}

func TestDrawSkipsInvisible(t *testing.T) {
	cfg := config.Defaults()
	field := systems.NewField(32, 32,
		systems.PhysicsParamsFromConfig(cfg),
		systems.PointerParamsFromConfig(cfg),
		rand.New(rand.NewSource(2)))
	field.Replace([]components.Seed{{X: 8, Y: 8, Color: components.RGBA{R: 255, A: 1}, Size: 3}}, nil)
	field.Each(func(pt *components.Particle) { pt.Opacity = 0 })

	if drawn := NewParticleRenderer().Draw(NewImageCanvas(32, 32, nil), field); drawn != 0 {
		t.Errorf("drew %d invisible particles", drawn)
	}
}
