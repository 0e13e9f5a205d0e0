package module

import (
	"sikabook/internal/platform/config"
)

// Options configures the ledger module
type Options struct {
	HardLimit int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	lf := cfg.Prefix("CORE_LEDGER_")
	return Options{
		HardLimit: lf.MayInt("HARD_LIMIT", 100),
	}
}
