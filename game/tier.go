package game

import (
	"runtime"

	"github.com/pthm-cable/pixeldust/config"
)

// Tier is the device quality tier. Low-power devices sample a coarser grid
// and cap the tick rate.
type Tier uint8

const (
	TierHigh Tier = iota
	TierLow
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierLow:
		return "low"
	}
	return "unknown"
}

// ResolveTier maps a tier setting ("auto", "high", "low") to a Tier.
// Auto picks low when the machine has at most lowPowerCPUs cores.
func ResolveTier(setting string, numCPU, lowPowerCPUs int) Tier {
	switch setting {
	case "high":
		return TierHigh
	case "low":
		return TierLow
	}
	if numCPU <= lowPowerCPUs {
		return TierLow
	}
	return TierHigh
}

// DetectTier resolves the configured tier for this machine.
func DetectTier(cfg *config.Config) Tier {
	return ResolveTier(cfg.Device.Tier, runtime.NumCPU(), cfg.Device.LowPowerCPUs)
}
