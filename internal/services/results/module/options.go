package module

import (
	"time"

	"feasibility/internal/platform/config"
	"feasibility/internal/services/results/service"
)

// Options controls result persistence
type Options struct {
	Service service.Config

	// DisablePG and DisableCH skip a sink even when the store is open
	DisablePG bool
	DisableCH bool
}

// FromConfig reads RESULTS_ keys
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("RESULTS_")
	return Options{
		Service: service.Config{
			QueueSize:    c.MayInt("QUEUE_SIZE", 1024),
			Workers:      c.MayInt("WORKERS", 2),
			BatchSize:    c.MayInt("BATCH_SIZE", 64),
			FlushEvery:   c.MayDuration("FLUSH_EVERY", 500*time.Millisecond),
			DrainTimeout: c.MayDuration("DRAIN_TIMEOUT", 5*time.Second),
		},
		DisablePG: c.MayBool("DISABLE_PG", false),
		DisableCH: c.MayBool("DISABLE_CH", false),
	}
}

func merge(base, o Options) Options {
	if o.Service.QueueSize != 0 {
		base.Service.QueueSize = o.Service.QueueSize
	}
	if o.Service.Workers != 0 {
		base.Service.Workers = o.Service.Workers
	}
	if o.Service.BatchSize != 0 {
		base.Service.BatchSize = o.Service.BatchSize
	}
	if o.Service.FlushEvery != 0 {
		base.Service.FlushEvery = o.Service.FlushEvery
	}
	if o.Service.DrainTimeout != 0 {
		base.Service.DrainTimeout = o.Service.DrainTimeout
	}
	base.DisablePG = base.DisablePG || o.DisablePG
	base.DisableCH = base.DisableCH || o.DisableCH
	return base
}
