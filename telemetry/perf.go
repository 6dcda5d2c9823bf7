package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one scheduler tick.
const (
	PhaseEvents    = "events"
	PhasePointer   = "pointer"
	PhaseParticles = "particles"
	PhasePrune     = "prune"
	PhaseDraw      = "draw"
)

var phaseOrder = [...]string{PhaseEvents, PhasePointer, PhaseParticles, PhasePrune, PhaseDraw}

const noPhase = -1

func phaseIndex(name string) int {
	for i, p := range phaseOrder {
		if p == name {
			return i
		}
	}
	return noPhase
}

// tickSample is one finished tick in the ring.
type tickSample struct {
	total     time.Duration
	phases    [len(phaseOrder)]time.Duration
	seen      [len(phaseOrder)]bool
	particles int
}

// PerfCollector keeps the last window of tick timings. It is not safe for
// concurrent use; the game calls it from Update only.
type PerfCollector struct {
	clock func() time.Time

	ring  []tickSample
	next  int
	count int

	open    tickSample
	started time.Time
	mark    time.Time
	phase   int

	lastFrame time.Time
	frame     time.Duration

	scratch []float64
}

// NewPerfCollector keeps stats over the last window ticks (60 when window
// is not positive).
func NewPerfCollector(window int) *PerfCollector {
	return newPerfCollector(window, time.Now)
}

func newPerfCollector(window int, clock func() time.Time) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		clock:   clock,
		ring:    make([]tickSample, window),
		phase:   noPhase,
		scratch: make([]float64, 0, window),
	}
}

// StartTick opens a new tick. Phases timed before EndTick belong to it.
func (p *PerfCollector) StartTick() {
	p.started = p.clock()
	p.mark = p.started
	p.open = tickSample{}
	p.phase = noPhase
}

// StartPhase closes the running phase and starts timing name. Unknown
// names count toward the tick total only.
func (p *PerfCollector) StartPhase(name string) {
	p.split(p.clock())
	p.phase = phaseIndex(name)
}

func (p *PerfCollector) split(now time.Time) {
	if p.phase != noPhase {
		p.open.phases[p.phase] += now.Sub(p.mark)
		p.open.seen[p.phase] = true
	}
	p.mark = now
}

// EndTick closes the tick and stores it with the live particle count.
func (p *PerfCollector) EndTick(particles int) {
	now := p.clock()
	p.split(now)
	p.phase = noPhase

	p.open.total = now.Sub(p.started)
	p.open.particles = particles
	p.ring[p.next] = p.open
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame records the display frame time. now comes from the caller's
// frame clock so headless runs report simulated rather than wall time.
func (p *PerfCollector) RecordFrame(now time.Time) {
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[string]time.Duration // Mean per tick
	PhasePct map[string]float64       // Share of the mean tick, 0..100

	TicksPerSecond float64
	Particles      int // Population at the most recent tick

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var (
		sums [len(phaseOrder)]time.Duration
		seen [len(phaseOrder)]bool
	)
	p.scratch = p.scratch[:0]
	for _, ts := range p.ring[:p.count] {
		p.scratch = append(p.scratch, float64(ts.total))
		for i := range phaseOrder {
			sums[i] += ts.phases[i]
			seen[i] = seen[i] || ts.seen[i]
		}
	}
	slices.Sort(p.scratch)

	mean := stat.Mean(p.scratch, nil)
	s.AvgTickDuration = time.Duration(mean)
	s.MinTickDuration = time.Duration(p.scratch[0])
	s.MaxTickDuration = time.Duration(p.scratch[len(p.scratch)-1])
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, p.scratch, nil))
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}

	for i, name := range phaseOrder {
		if !seen[i] {
			continue
		}
		avg := sums[i] / time.Duration(p.count)
		s.PhaseAvg[name] = avg
		if mean > 0 {
			s.PhasePct[name] = float64(avg) / mean * 100
		}
	}

	newest := (p.next + len(p.ring) - 1) % len(p.ring)
	s.Particles = p.ring[newest].particles
	return s
}

// LogValue implements slog.LogValuer. Phases under 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("particles", s.Particles),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, name := range phaseOrder {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	Particles    int     `csv:"particles"`
	EventsPct    float64 `csv:"events_pct"`
	PointerPct   float64 `csv:"pointer_pct"`
	ParticlesPct float64 `csv:"particles_pct"`
	PrunePct     float64 `csv:"prune_pct"`
	DrawPct      float64 `csv:"draw_pct"`
}

// ToCSV flattens the stats for the window ending at tick windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		Particles:    s.Particles,
		EventsPct:    s.PhasePct[PhaseEvents],
		PointerPct:   s.PhasePct[PhasePointer],
		ParticlesPct: s.PhasePct[PhaseParticles],
		PrunePct:     s.PhasePct[PhasePrune],
		DrawPct:      s.PhasePct[PhaseDraw],
	}
}
