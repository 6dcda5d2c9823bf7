package game

import (
	"testing"
	"time"
)

func TestSchedulerStartStop(t *testing.T) {
	var ticks []uint64
	s := NewScheduler(0, func(now time.Time, n uint64) { ticks = append(ticks, n) })
	t0 := time.Unix(100, 0)

	if s.Frame(t0) {
		t.Fatal("stopped scheduler ran a frame")
	}

	s.Start()
	s.Start()
	for i := 0; i < 3; i++ {
		if !s.Frame(t0.Add(time.Duration(i) * time.Millisecond)) {
			t.Fatalf("frame %d did not run", i)
		}
	}
	if len(ticks) != 3 || ticks[0] != 1 || ticks[2] != 3 {
		t.Errorf("ticks = %v, want [1 2 3]", ticks)
	}

	s.Stop()
	if s.Running() {
		t.Error("Running() true after Stop")
	}
	if s.Frame(t0.Add(time.Second)) {
		t.Error("frame ran after Stop")
	}
	if s.Ticks() != 3 {
		t.Errorf("Ticks() = %d, want 3", s.Ticks())
	}
}

func TestSchedulerFrameCap(t *testing.T) {
	interval := time.Second / 30
	ran := 0
	s := NewScheduler(interval, func(time.Time, uint64) { ran++ })
	s.Start()

	// 60 Hz display frames for one second.
	t0 := time.Unix(200, 0)
	for i := 0; i < 60; i++ {
		s.Frame(t0.Add(time.Duration(i) * time.Second / 60))
	}

	if ran < 29 || ran > 31 {
		t.Errorf("ran %d ticks in one second at a 30fps cap, want ~30", ran)
	}
	if s.Skipped() != uint64(60-ran) {
		t.Errorf("Skipped() = %d, want %d", s.Skipped(), 60-ran)
	}
}

func TestSchedulerUncapped(t *testing.T) {
	ran := 0
	s := NewScheduler(0, func(time.Time, uint64) { ran++ })
	s.Start()

	t0 := time.Unix(300, 0)
	for i := 0; i < 120; i++ {
		s.Frame(t0.Add(time.Duration(i) * time.Millisecond))
	}
	if ran != 120 {
		t.Errorf("ran %d ticks, want 120", ran)
	}
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		setting string
		cpus    int
		want    Tier
	}{
		{"auto", 2, TierLow},
		{"auto", 4, TierLow},
		{"auto", 8, TierHigh},
		{"high", 1, TierHigh},
		{"low", 32, TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			if got := ResolveTier(tt.setting, tt.cpus, 4); got != tt.want {
				t.Errorf("ResolveTier(%q, %d) = %v, want %v", tt.setting, tt.cpus, got, tt.want)
			}
		})
	}
}
