// Field preview tool - renders the particle population for an image to PNG.
//
// Usage: go run ./cmd/fieldpreview -image assets/bloom.png -out preview.png
package main

import (
	"context"
	"flag"
	"image/color"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/game"
	"github.com/pthm-cable/pixeldust/renderer"
	"github.com/pthm-cable/pixeldust/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	imageRef := flag.String("image", "", "Image path or URL (empty = fallback pattern)")
	out := flag.String("out", "preview.png", "Output PNG path")
	width := flag.Int("width", 0, "Viewport width (0 = screen.width)")
	height := flag.Int("height", 0, "Viewport height (0 = screen.height)")
	lowPower := flag.Bool("low-power", false, "Sample on the low tier grid")
	steps := flag.Int("steps", 0, "Simulation steps to run before rendering")
	burst := flag.Bool("burst", false, "Spawn particles from the viewport centre")
	seed := flag.Int64("seed", 1, "RNG seed")
	timeout := flag.Duration("timeout", 30*time.Second, "Image load timeout")

	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	w, h := *width, *height
	if w <= 0 {
		w = cfg.Screen.Width
	}
	if h <= 0 {
		h = cfg.Screen.Height
	}

	rng := rand.New(rand.NewSource(*seed))
	seeds, err := loadSeeds(cfg, *imageRef, w, h, *lowPower, *timeout, rng)
	if err != nil {
		slog.Error("failed to build seeds", "error", err)
		os.Exit(1)
	}

	field := systems.NewField(w, h, systems.PhysicsParamsFromConfig(cfg), systems.PointerParamsFromConfig(cfg), rng)
	var origin *components.Position
	if *burst {
		origin = &components.Position{X: float64(w) / 2, Y: float64(h) / 2}
	}
	field.Replace(seeds, origin)
	for i := 0; i < *steps; i++ {
		field.Step()
	}

	canvas := renderer.NewImageCanvas(w, h, color.Black)
	drawn := renderer.NewParticleRenderer().Draw(canvas, field)
	if err := canvas.SavePNG(*out); err != nil {
		slog.Error("failed to write preview", "path", *out, "error", err)
		os.Exit(1)
	}

	slog.Info("preview written",
		"path", *out,
		"seeds", len(seeds),
		"drawn", drawn,
		"steps", *steps,
	)
}

func loadSeeds(cfg *config.Config, ref string, w, h int, lowPower bool, timeout time.Duration, rng *rand.Rand) ([]components.Seed, error) {
	if ref != "" {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		img, err := game.SourceLoader{}.Load(ctx, ref)
		if err == nil {
			return systems.SampleImage(img, w, h, systems.SamplerParamsFromConfig(cfg, lowPower)), nil
		}
		slog.Warn("image load failed, using fallback", "ref", ref, "error", err)
	}

	params, err := systems.FallbackParamsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return systems.FallbackSeeds(w, h, params, rng), nil
}
