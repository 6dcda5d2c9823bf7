package game

import "time"

// TickFunc performs one frame of work. tick counts executed frames from 1.
type TickFunc func(now time.Time, tick uint64)

// Scheduler drives the per-frame callback. It is either stopped or running;
// starting a running scheduler is a no-op. With a non-zero interval, frames
// arriving sooner than interval after the previous tick are skipped.
type Scheduler struct {
	tick     TickFunc
	interval time.Duration

	running bool
	last    time.Time
	ticks   uint64
	skipped uint64
}

// NewScheduler creates a stopped scheduler. interval 0 runs every frame.
func NewScheduler(interval time.Duration, tick TickFunc) *Scheduler {
	return &Scheduler{tick: tick, interval: interval}
}

// Start moves the scheduler to running. Repeated calls are ignored.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.last = time.Time{}
}

// Stop halts the loop; later frames do nothing until Start.
func (s *Scheduler) Stop() {
	s.running = false
}

// Running reports whether frames are being processed.
func (s *Scheduler) Running() bool {
	return s.running
}

// Ticks returns the number of executed frames.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Skipped returns the number of frames dropped by the frame cap.
func (s *Scheduler) Skipped() uint64 {
	return s.skipped
}

// Frame is called once per display frame. It returns true when the tick
// callback ran.
func (s *Scheduler) Frame(now time.Time) bool {
	if !s.running {
		return false
	}

	if s.interval > 0 && !s.last.IsZero() && now.Sub(s.last) < s.interval {
		s.skipped++
		return false
	}

	s.last = now
	s.ticks++
	s.tick(now, s.ticks)
	return true
}
