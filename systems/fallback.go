package systems

import (
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
)

// FallbackParams describes the placeholder population used when no image
// data is available.
type FallbackParams struct {
	Gap        int
	FillChance float64
	Size       float64
	Palette    []components.RGBA
}

// FallbackParamsFromConfig parses the configured palette.
func FallbackParamsFromConfig(cfg *config.Config) (FallbackParams, error) {
	palette, err := ParsePalette(cfg.Fallback.Palette)
	if err != nil {
		return FallbackParams{}, err
	}
	return FallbackParams{
		Gap:        cfg.Fallback.Gap,
		FillChance: cfg.Fallback.FillChance,
		Size:       cfg.Fallback.Size,
		Palette:    palette,
	}, nil
}

// ParsePalette converts hex palette entries to colours.
func ParsePalette(entries []config.PaletteEntry) ([]components.RGBA, error) {
	palette := make([]components.RGBA, 0, len(entries))
	for i, e := range entries {
		c, err := colorful.Hex(e.Color)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		r, g, b := c.RGB255()
		palette = append(palette, components.RGBA{R: r, G: g, B: b, A: e.Alpha})
	}
	return palette, nil
}

// FallbackSeeds scatters seeds over a sparse grid, keeping each cell with
// probability FillChance and colouring it from the palette.
func FallbackSeeds(w, h int, params FallbackParams, rng *rand.Rand) []components.Seed {
	if params.Gap < 1 || len(params.Palette) == 0 {
		return nil
	}

	var seeds []components.Seed
	for y := 0; y < h; y += params.Gap {
		for x := 0; x < w; x += params.Gap {
			if rng.Float64() >= params.FillChance {
				continue
			}
			seeds = append(seeds, components.Seed{
				X:     float64(x),
				Y:     float64(y),
				Color: params.Palette[rng.Intn(len(params.Palette))],
				Size:  params.Size,
			})
		}
	}
	return seeds
}
