package module

import (
	"time"

	"sikabook/internal/platform/config"
)

// Options configures the engine module
type Options struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	QueueDepth    int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	ef := cfg.Prefix("CORE_ENGINE_")
	return Options{
		IdleTimeout:   ef.MayDuration("IDLE_TIMEOUT", 0),
		SweepInterval: ef.MayDuration("SWEEP_INTERVAL", 0),
		QueueDepth:    ef.MayInt("QUEUE_DEPTH", 0),
	}
}
