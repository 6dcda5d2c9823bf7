// Package config provides configuration loading and access for the particle field.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all particle field configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Device    DeviceConfig    `yaml:"device"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Fallback  FallbackConfig  `yaml:"fallback"`
	Particle  ParticleConfig  `yaml:"particle"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Patterns  []PatternConfig `yaml:"patterns"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// DeviceConfig selects the quality tier.
type DeviceConfig struct {
	Tier         string `yaml:"tier"`           // auto, high or low
	LowPowerCPUs int    `yaml:"low_power_cpus"` // auto resolves to low at or below this many CPUs
}

// SamplerConfig holds image sampling thresholds.
type SamplerConfig struct {
	Gap             int     `yaml:"gap"`              // Grid stride on the high tier
	LowPowerGap     int     `yaml:"low_power_gap"`    // Grid stride on the low tier
	MinAlpha        int     `yaml:"min_alpha"`        // Pixels with alpha <= this are skipped
	MinBrightness   float64 `yaml:"min_brightness"`   // Pixels with (r+g+b)/3 <= this are skipped
	LargeBrightness float64 `yaml:"large_brightness"` // Brightness above this selects the large size
	SmallSize       float64 `yaml:"small_size"`
	LargeSize       float64 `yaml:"large_size"`
	AlphaScale      float64 `yaml:"alpha_scale"` // Seed alpha = pixel alpha / 255 * this
}

// PaletteEntry is one colour of the fallback palette.
type PaletteEntry struct {
	Color string  `yaml:"color"` // Hex colour, e.g. "#ff69b4"
	Alpha float64 `yaml:"alpha"`
}

// FallbackConfig holds the placeholder population used when an image fails to load.
type FallbackConfig struct {
	Gap        int            `yaml:"gap"`
	FillChance float64        `yaml:"fill_chance"`
	Size       float64        `yaml:"size"`
	Palette    []PaletteEntry `yaml:"palette"`
}

// ParticleConfig holds the per-particle force model coefficients.
type ParticleConfig struct {
	DensityMin      float64 `yaml:"density_min"`
	DensityRange    float64 `yaml:"density_range"`
	Spring          float64 `yaml:"spring"`          // Pull toward home per frame
	Friction        float64 `yaml:"friction"`        // Velocity multiplier in normal mode
	SpreadFriction  float64 `yaml:"spread_friction"` // Velocity multiplier while settling
	Turbulence      float64 `yaml:"turbulence"`      // Full width of the uniform velocity noise
	SettleDistance  float64 `yaml:"settle_distance"`
	PullBase        float64 `yaml:"pull_base"`
	PullScale       float64 `yaml:"pull_scale"`
	PullMax         float64 `yaml:"pull_max"`
	RepulsionScale  float64 `yaml:"repulsion_scale"`
	EllipseStretch  float64 `yaml:"ellipse_stretch"`
	BurstSpeedMin   float64 `yaml:"burst_speed_min"`
	BurstSpeedRange float64 `yaml:"burst_speed_range"`
	SpreadDelayMax  int     `yaml:"spread_delay_max"` // Frames
	SpawnOpacity    float64 `yaml:"spawn_opacity"`
	FadeIn          float64 `yaml:"fade_in"`
	FadeOut         float64 `yaml:"fade_out"`
}

// PointerConfig holds the interaction radius model.
type PointerConfig struct {
	BaseRadius    float64 `yaml:"base_radius"`
	SpeedGain     float64 `yaml:"speed_gain"`
	MaxBonus      float64 `yaml:"max_bonus"`
	Smoothing     float64 `yaml:"smoothing"`
	VelocityDecay float64 `yaml:"velocity_decay"`
	RelaxSpeed    float64 `yaml:"relax_speed"`
}

// SchedulerConfig holds loop timing parameters.
type SchedulerConfig struct {
	FrameCapFPS      int     `yaml:"frame_cap_fps"`
	PruneEvery       int     `yaml:"prune_every"`
	PruneThreshold   float64 `yaml:"prune_threshold"`
	SwapDelayMS      int     `yaml:"swap_delay_ms"`
	ResizeDebounceMS int     `yaml:"resize_debounce_ms"`
	HeadlessFPS      int     `yaml:"headless_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // Frames averaged per perf sample
	LogEvery   int `yaml:"log_every"`   // Frames between perf log lines (0 = never)
}

// PatternConfig names a selectable source image.
type PatternConfig struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	InteractionCap   float64       // Largest radius a pointer can ever reach after morphing
	FrameInterval    time.Duration // Minimum time between ticks on the low tier (0 = uncapped)
	SwapDelay        time.Duration
	ResizeDebounce   time.Duration
	HeadlessInterval time.Duration
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load returns the embedded defaults overlaid with the YAML file at path.
// Keys absent from the file keep their default; unknown keys are an error.
// An empty path loads the defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := decodeStrict(bytes.NewReader(defaultsYAML), cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		err = decodeStrict(f, cfg)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func decodeStrict(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Device.Tier {
	case "auto", "high", "low":
	default:
		return fmt.Errorf("device.tier: unknown tier %q", c.Device.Tier)
	}
	if c.Sampler.Gap < 1 || c.Sampler.LowPowerGap < 1 || c.Fallback.Gap < 1 {
		return fmt.Errorf("sampler/fallback gap must be at least 1")
	}
	if len(c.Fallback.Palette) == 0 {
		return fmt.Errorf("fallback.palette must not be empty")
	}
	if c.Scheduler.PruneEvery < 1 {
		return fmt.Errorf("scheduler.prune_every must be at least 1")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.InteractionCap = (c.Pointer.BaseRadius + c.Pointer.MaxBonus) * (1 + c.Particle.EllipseStretch)

	c.Derived.FrameInterval = 0
	if c.Scheduler.FrameCapFPS > 0 {
		c.Derived.FrameInterval = time.Duration(math.Round(float64(time.Second) / float64(c.Scheduler.FrameCapFPS)))
	}

	c.Derived.SwapDelay = time.Duration(c.Scheduler.SwapDelayMS) * time.Millisecond
	c.Derived.ResizeDebounce = time.Duration(c.Scheduler.ResizeDebounceMS) * time.Millisecond

	fps := c.Scheduler.HeadlessFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.HeadlessInterval = time.Second / time.Duration(fps)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
