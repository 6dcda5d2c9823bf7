package systems

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
)

// SamplerParams controls how an image is reduced to seeds.
type SamplerParams struct {
	Gap             int
	MinAlpha        int
	MinBrightness   float64
	LargeBrightness float64
	SmallSize       float64
	LargeSize       float64
	AlphaScale      float64
}

// SamplerParamsFromConfig extracts sampling thresholds, picking the coarser
// grid on low-power devices.
func SamplerParamsFromConfig(cfg *config.Config, lowPower bool) SamplerParams {
	s := cfg.Sampler
	gap := s.Gap
	if lowPower {
		gap = s.LowPowerGap
	}
	return SamplerParams{
		Gap:             gap,
		MinAlpha:        s.MinAlpha,
		MinBrightness:   s.MinBrightness,
		LargeBrightness: s.LargeBrightness,
		SmallSize:       s.SmallSize,
		LargeSize:       s.LargeSize,
		AlphaScale:      s.AlphaScale,
	}
}

// CoverFit returns the destination rectangle that scales a srcW x srcH image
// to cover a w x h viewport, centred, preserving aspect ratio.
func CoverFit(srcW, srcH, w, h int) image.Rectangle {
	scale := math.Max(float64(w)/float64(srcW), float64(h)/float64(srcH))
	scaledW := float64(srcW) * scale
	scaledH := float64(srcH) * scale
	offX := (float64(w) - scaledW) / 2
	offY := (float64(h) - scaledH) / 2
	return image.Rect(
		int(math.Round(offX)), int(math.Round(offY)),
		int(math.Round(offX+scaledW)), int(math.Round(offY+scaledH)),
	)
}

// Rasterize draws img onto a transparent w x h surface using cover fit.
func Rasterize(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := img.Bounds()
	if sb.Empty() || w <= 0 || h <= 0 {
		return dst
	}
	draw.BiLinear.Scale(dst, CoverFit(sb.Dx(), sb.Dy(), w, h), img, sb, draw.Src, nil)
	return dst
}

// SampleImage rasterizes img to the viewport and returns one seed per grid
// cell whose pixel is visible and not too dark. The result depends only on
// its inputs.
func SampleImage(img image.Image, w, h int, params SamplerParams) []components.Seed {
	if params.Gap < 1 || w <= 0 || h <= 0 {
		return nil
	}
	surface := Rasterize(img, w, h)

	seeds := make([]components.Seed, 0, (w/params.Gap+1)*(h/params.Gap+1))
	for y := 0; y < h; y += params.Gap {
		for x := 0; x < w; x += params.Gap {
			// Canvas pixel reads are straight alpha.
			c := color.NRGBAModel.Convert(surface.RGBAAt(x, y)).(color.NRGBA)
			if seed, ok := seedFromPixel(x, y, c, params); ok {
				seeds = append(seeds, seed)
			}
		}
	}
	return seeds
}

func seedFromPixel(x, y int, c color.NRGBA, params SamplerParams) (components.Seed, bool) {
	brightness := (float64(c.R) + float64(c.G) + float64(c.B)) / 3
	if int(c.A) <= params.MinAlpha || brightness <= params.MinBrightness {
		return components.Seed{}, false
	}

	size := params.SmallSize
	if brightness > params.LargeBrightness {
		size = params.LargeSize
	}

	return components.Seed{
		X: float64(x),
		Y: float64(y),
		Color: components.RGBA{
			R: c.R, G: c.G, B: c.B,
			A: float64(c.A) / 255 * params.AlphaScale,
		},
		Size: size,
	}, true
}
