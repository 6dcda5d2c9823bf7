package main

import (
	"context"
	"errors"
	"flag"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/game"
	"github.com/pthm-cable/pixeldust/input"
	"github.com/pthm-cable/pixeldust/renderer"
	"github.com/pthm-cable/pixeldust/telemetry"
	"github.com/pthm-cable/pixeldust/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	imageRef := flag.String("image", "", "Initial image: path, file:// or http(s) URL (empty = first configured pattern)")
	headless := flag.Bool("headless", false, "Run without graphics")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for perf CSV and config snapshot")
	tier := flag.String("tier", "", "Override device tier: auto, high or low")
	snapshot := flag.String("snapshot", "", "Headless only: write the final frame to this PNG")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")
	globalPointer := flag.Bool("global-pointer", false, "Track the desktop-wide X11 pointer instead of window events")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *tier != "" {
		cfg.Device.Tier = *tier
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	opts := game.Options{
		Seed:     rngSeed,
		Tier:     game.DetectTier(cfg),
		LogStats: *logStats,
		Output:   output,
	}

	ref, active := initialPattern(cfg, *imageRef)

	if *headless {
		runHeadless(cfg, opts, ref, *maxTicks, *snapshot)
		return
	}
	runWindow(cfg, opts, ref, active, *maxTicks, *globalPointer)
}

// initialPattern picks the first image to show and its pattern bar index
// (-1 when it is not a configured pattern).
func initialPattern(cfg *config.Config, flagRef string) (string, int) {
	if flagRef == "" && len(cfg.Patterns) > 0 {
		return cfg.Patterns[0].Image, 0
	}
	for i, p := range cfg.Patterns {
		if p.Image == flagRef {
			return flagRef, i
		}
	}
	return flagRef, -1
}

// runHeadless drives the game against an offscreen canvas on a simulated
// clock, as fast as the CPU allows.
func runHeadless(cfg *config.Config, opts game.Options, ref string, maxTicks int, snapshot string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	canvas := renderer.NewImageCanvas(cfg.Screen.Width, cfg.Screen.Height, color.Black)
	g, err := game.New(cfg, canvas, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"image", ref,
		"max_ticks", maxTicks,
	)

	now := time.Now()
	g.LoadPattern(ref, nil)
	g.Update(now)
	g.WaitLoads()

	for ctx.Err() == nil {
		now = now.Add(cfg.Derived.HeadlessInterval)
		g.Update(now)

		if maxTicks > 0 && g.Ticks() >= uint64(maxTicks) {
			slog.Info("max ticks reached", "tick", g.Ticks())
			break
		}
	}

	slog.Info("headless run finished",
		"ticks", g.Ticks(),
		"particles", g.Field().Len(),
		"stats", g.PerfStats(),
	)

	if snapshot != "" {
		if err := canvas.SavePNG(snapshot); err != nil {
			slog.Error("failed to write snapshot", "path", snapshot, "error", err)
			return
		}
		slog.Info("snapshot written", "path", snapshot)
	}
}

func runWindow(cfg *config.Config, opts game.Options, ref string, active, maxTicks int, globalPointer bool) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	var canvas renderer.Canvas
	if c := renderer.NewRaylibCanvas(rl.Black); c != nil {
		canvas = c
	}
	g, err := game.New(cfg, canvas, opts)
	if err != nil && !errors.Is(err, game.ErrNoSurface) {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	var pointer *input.X11Pointer
	if globalPointer {
		if pointer, err = input.NewX11Pointer(); err != nil {
			slog.Warn("global pointer unavailable, using window events", "error", err)
			pointer = nil
		} else {
			defer pointer.Close()
		}
	}

	bar := ui.NewPatternBar(cfg.Patterns)
	bar.SetActive(active)
	hud := ui.NewHUD()
	perfPanel := ui.NewPerfPanel(int32(cfg.Screen.Width)-250, 10, 240)

	var tracker input.Tracker

	g.LoadPattern(ref, nil)

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyF3) {
			hud.Toggle()
		}
		if rl.IsKeyPressed(rl.KeyH) {
			bar.Toggle()
		}
		if rl.IsKeyPressed(rl.KeyF11) {
			rl.ToggleFullscreen()
		}

		sample := input.PollRaylib()
		if pointer != nil {
			if x, y, err := pointer.Position(); err == nil {
				wx, wy := input.WindowOrigin()
				sample = input.Overlay(sample, x, y, wx, wy)
			}
		}
		tracker.Apply(sample, g)

		screenW, screenH := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

		rl.BeginDrawing()
		if !g.Enabled() {
			rl.ClearBackground(rl.Black)
		}
		g.Update(time.Now())

		if p, origin, ok := bar.Draw(screenW, screenH); ok {
			slog.Info("pattern selected", "name", p.Name, "image", p.Image)
			g.LoadPattern(p.Image, &origin)
		}

		hud.Draw(ui.HUDData{
			Title:       cfg.Screen.Title,
			Pattern:     g.Pattern(),
			Tier:        g.Tier().String(),
			Particles:   fieldLen(g),
			Drawn:       g.Drawn(),
			Ticks:       g.Ticks(),
			FPS:         rl.GetFPS(),
			SwapPending: g.SwapPending(),
			Running:     g.Running(),
		})
		if hud.IsVisible() {
			perfPanel.SetPosition(screenW-250, 10)
			perfPanel.Draw(g.PerfStats())
		}
		hud.DrawControls(screenH, "[F3] HUD  [H] patterns  [F11] fullscreen  [Esc] quit")
		rl.EndDrawing()

		if maxTicks > 0 && g.Ticks() >= uint64(maxTicks) {
			break
		}
	}
}

func fieldLen(g *game.Game) int {
	if !g.Enabled() {
		return 0
	}
	return g.Field().Len()
}
