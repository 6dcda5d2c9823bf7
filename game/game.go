// Package game wires the particle field, image loading and the frame
// scheduler together.
package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/pixeldust/components"
	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/renderer"
	"github.com/pthm-cable/pixeldust/systems"
	"github.com/pthm-cable/pixeldust/telemetry"
)

// ErrNoSurface is returned by New when there is no drawing surface. The
// returned Game is still usable: every operation on it is a no-op.
var ErrNoSurface = errors.New("game: no drawing surface")

// Options configures a Game.
type Options struct {
	Seed     int64
	Tier     Tier
	Loader   ImageLoader // Defaults to SourceLoader
	LogStats bool        // Log perf stats every telemetry.log_every ticks
	Output   *telemetry.OutputManager
}

// pendingSwap is the single outstanding population swap. A newer load
// request replaces or cancels it.
type pendingSwap struct {
	due    time.Time
	gen    uint64
	seeds  []components.Seed
	origin *components.Position
}

// Game is the particle field controller.
type Game struct {
	cfg      *config.Config
	canvas   renderer.Canvas
	disabled bool

	rng       *rand.Rand
	field     *systems.Field
	particles *renderer.ParticleRenderer
	scheduler *Scheduler
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	tier     Tier
	sampler  systems.SamplerParams
	fallback systems.FallbackParams
	loader   ImageLoader

	queue  eventQueue
	events []event

	// Repopulation state, touched only by Update.
	current    string
	loadGen    uint64
	cancelLoad context.CancelFunc
	loads      sync.WaitGroup
	pending    *pendingSwap

	resizePending bool
	resizeDue     time.Time
	resizeW       int
	resizeH       int

	lastDrawn int
}

// New creates a game drawing onto canvas. With a nil canvas it logs a
// warning and returns a disabled game together with ErrNoSurface.
func New(cfg *config.Config, canvas renderer.Canvas, opts Options) (*Game, error) {
	if canvas == nil {
		slog.Warn("no drawing surface, particle field disabled")
		return &Game{cfg: cfg, disabled: true}, ErrNoSurface
	}

	fallback, err := systems.FallbackParamsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	loader := opts.Loader
	if loader == nil {
		loader = SourceLoader{}
	}

	w, h := canvas.Size()
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:       cfg,
		canvas:    canvas,
		rng:       rng,
		field:     systems.NewField(w, h, systems.PhysicsParamsFromConfig(cfg), systems.PointerParamsFromConfig(cfg), rng),
		particles: renderer.NewParticleRenderer(),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    opts.Output,
		logStats:  opts.LogStats,
		tier:      opts.Tier,
		sampler:   systems.SamplerParamsFromConfig(cfg, opts.Tier == TierLow),
		fallback:  fallback,
		loader:    loader,
	}

	var interval time.Duration
	if opts.Tier == TierLow {
		interval = cfg.Derived.FrameInterval
	}
	g.scheduler = NewScheduler(interval, g.tick)

	slog.Info("particle field ready",
		"width", w,
		"height", h,
		"tier", opts.Tier.String(),
		"gap", g.sampler.Gap,
		"seed", opts.Seed,
	)

	return g, nil
}

// Enabled reports whether the game has a drawing surface.
func (g *Game) Enabled() bool {
	return !g.disabled
}

// LoadPattern requests a population rebuilt from the image at ref. With a
// non-nil origin the new particles burst out from that point.
func (g *Game) LoadPattern(ref string, origin *components.Position) {
	if g.disabled {
		return
	}
	var o *components.Position
	if origin != nil {
		c := *origin
		o = &c
	}
	g.queue.push(event{kind: evLoadPattern, ref: ref, origin: o})
}

// Resize reports new viewport dimensions. Repopulation is debounced.
func (g *Game) Resize(width, height int) {
	if g.disabled {
		return
	}
	g.queue.push(event{kind: evResize, width: width, height: height})
}

// PointerMove records a pointer position sample.
func (g *Game) PointerMove(x, y float64) {
	if g.disabled {
		return
	}
	g.queue.push(event{kind: evPointerMove, x: x, y: y})
}

// PointerLeave reports that the pointer left the surface.
func (g *Game) PointerLeave() {
	if g.disabled {
		return
	}
	g.queue.push(event{kind: evPointerLeave})
}

// TouchStart reports a new touch contact.
func (g *Game) TouchStart(x, y float64) {
	if g.disabled {
		return
	}
	g.queue.push(event{kind: evTouchStart, x: x, y: y})
}

// TouchMove reports movement of the primary touch contact.
func (g *Game) TouchMove(x, y float64) {
	if g.disabled {
		return
	}
	g.queue.push(event{kind: evTouchMove, x: x, y: y})
}

// TouchEnd reports that the touch contact lifted.
func (g *Game) TouchEnd() {
	if g.disabled {
		return
	}
	g.queue.push(event{kind: evTouchEnd})
}

// Update processes queued events and due timers, then runs one scheduler
// frame. It must be called from the goroutine that owns the canvas.
func (g *Game) Update(now time.Time) {
	if g.disabled {
		return
	}

	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseEvents)
	g.events = g.queue.drain(g.events)
	for i := range g.events {
		g.apply(&g.events[i], now)
	}
	clear(g.events)

	if g.resizePending && !now.Before(g.resizeDue) {
		g.resizePending = false
		g.applyResize()
	}
	if g.pending != nil && !now.Before(g.pending.due) {
		g.swap(now)
	}

	g.perf.RecordFrame(now)
	if !g.scheduler.Frame(now) {
		if v, ok := g.canvas.(interface{ Volatile() bool }); ok && v.Volatile() {
			g.canvas.Clear()
			g.lastDrawn = g.particles.Draw(g.canvas, g.field)
		}
	}
}

// Stop halts the frame loop and abandons any in-flight load.
func (g *Game) Stop() {
	if g.disabled {
		return
	}
	g.scheduler.Stop()
	g.cancelPending()
	// Results already queued by the abandoned load carry the old generation.
	g.loadGen++
}

// Close stops the game and waits for loader goroutines to exit.
func (g *Game) Close() {
	g.Stop()
	g.loads.Wait()
}

// WaitLoads blocks until every started load has posted its result.
func (g *Game) WaitLoads() {
	g.loads.Wait()
}

// Field exposes the particle field.
func (g *Game) Field() *systems.Field {
	return g.field
}

// Running reports whether the frame loop is active.
func (g *Game) Running() bool {
	return !g.disabled && g.scheduler.Running()
}

// Ticks returns the number of executed scheduler ticks.
func (g *Game) Ticks() uint64 {
	if g.disabled {
		return 0
	}
	return g.scheduler.Ticks()
}

// Tier returns the quality tier the game was built for.
func (g *Game) Tier() Tier {
	return g.tier
}

// Pattern returns the reference of the most recently requested image.
func (g *Game) Pattern() string {
	return g.current
}

// SwapPending reports whether a loaded population is waiting for its swap.
func (g *Game) SwapPending() bool {
	return g.pending != nil
}

// Drawn returns the number of particles drawn in the last frame.
func (g *Game) Drawn() int {
	return g.lastDrawn
}

// PerfStats returns the rolling performance statistics.
func (g *Game) PerfStats() telemetry.PerfStats {
	if g.disabled {
		return telemetry.PerfStats{}
	}
	return g.perf.Stats()
}

func (g *Game) apply(ev *event, now time.Time) {
	switch ev.kind {
	case evPointerMove, evTouchMove:
		g.field.PointerMove(ev.x, ev.y)
	case evTouchStart:
		g.field.TouchStart(ev.x, ev.y)
	case evPointerLeave, evTouchEnd:
		g.field.PointerLeave()
	case evResize:
		g.resizePending = true
		g.resizeDue = now.Add(g.cfg.Derived.ResizeDebounce)
		g.resizeW, g.resizeH = ev.width, ev.height
	case evLoadPattern:
		g.startLoad(ev.ref, ev.origin)
	case evLoaded:
		g.finishLoad(ev, now)
	}
}

// startLoad fades out the current population and samples ref in the
// background. Any older load or pending swap is abandoned.
func (g *Game) startLoad(ref string, origin *components.Position) {
	g.field.FadeOutAll()
	g.cancelPending()

	g.current = ref
	g.loadGen++
	gen := g.loadGen

	ctx, cancel := context.WithCancel(context.Background())
	g.cancelLoad = cancel

	w, h := g.field.Size()
	params := g.sampler
	loader := g.loader

	slog.Debug("loading pattern", "ref", ref, "gen", gen)

	g.loads.Add(1)
	go func() {
		defer g.loads.Done()

		img, err := loader.Load(ctx, ref)
		if ctx.Err() != nil {
			return
		}
		var seeds []components.Seed
		if err == nil {
			seeds = systems.SampleImage(img, w, h, params)
		}
		g.queue.push(event{kind: evLoaded, gen: gen, ref: ref, origin: origin, seeds: seeds, err: err})
	}()
}

func (g *Game) finishLoad(ev *event, now time.Time) {
	if ev.gen != g.loadGen {
		return
	}
	g.cancelLoad = nil

	if ev.err != nil {
		slog.Warn("pattern load failed, using fallback", "ref", ev.ref, "error", ev.err)
		w, h := g.field.Size()
		g.field.Add(systems.FallbackSeeds(w, h, g.fallback, g.rng), nil)
		g.scheduler.Start()
		return
	}

	g.pending = &pendingSwap{
		due:    now.Add(g.cfg.Derived.SwapDelay),
		gen:    ev.gen,
		seeds:  ev.seeds,
		origin: ev.origin,
	}
}

func (g *Game) swap(now time.Time) {
	p := g.pending
	g.pending = nil

	g.field.Replace(p.seeds, p.origin)
	g.scheduler.Start()

	slog.Info("population swapped",
		"ref", g.current,
		"particles", len(p.seeds),
		"burst", p.origin != nil,
		"generation", g.field.Generation(),
	)
}

func (g *Game) cancelPending() {
	if g.cancelLoad != nil {
		g.cancelLoad()
		g.cancelLoad = nil
	}
	g.pending = nil
}

func (g *Game) applyResize() {
	w, h := g.resizeW, g.resizeH
	if cw, ch := g.field.Size(); cw == w && ch == h {
		return
	}
	g.field.Resize(w, h)
	slog.Info("viewport resized", "width", w, "height", h)
	if g.current != "" {
		g.startLoad(g.current, nil)
	}
}

// tick is the scheduler callback: clear, simulate, prune and draw.
func (g *Game) tick(now time.Time, n uint64) {
	g.perf.StartPhase(telemetry.PhasePointer)
	g.canvas.Clear()
	g.field.StepPointer()

	g.perf.StartPhase(telemetry.PhaseParticles)
	g.field.StepParticles()

	if n%uint64(g.cfg.Scheduler.PruneEvery) == 0 {
		g.perf.StartPhase(telemetry.PhasePrune)
		g.field.Prune(g.cfg.Scheduler.PruneThreshold)
	}

	g.perf.StartPhase(telemetry.PhaseDraw)
	g.lastDrawn = g.particles.Draw(g.canvas, g.field)
	g.perf.EndTick(g.field.Len())

	g.reportPerf(n)
}

func (g *Game) reportPerf(n uint64) {
	window := uint64(g.cfg.Telemetry.PerfWindow)
	if g.output != nil && window > 0 && n%window == 0 {
		if err := g.output.WritePerf(g.perf.Stats(), n); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	every := uint64(g.cfg.Telemetry.LogEvery)
	if g.logStats && every > 0 && n%every == 0 {
		slog.Info("perf", "tick", n, "stats", g.perf.Stats())
	}
}
