// Package module wires result persistence onto the collector
package module

import (
	"context"

	"feasibility/internal/modkit"
	"feasibility/internal/modkit/httpkit"
	perr "feasibility/internal/platform/errors"
	cdom "feasibility/internal/services/collector/domain"
	"feasibility/internal/services/results/domain"
	"feasibility/internal/services/results/service"
)

// Module defines the results module
type Module struct {
	deps   modkit.Deps
	opts   Options
	ports  Ports
	sinks  []string
	remove func()
}

// New builds the sinks available in deps, ensures their schema and subscribes to collector
// Without any store the module does not listen and persists nothing
func New(ctx context.Context, deps modkit.Deps, collector cdom.CollectorPort, overrides Options) (*Module, error) {
	if collector == nil {
		return nil, perr.InvalidArgf("results: nil collector")
	}
	opts := merge(FromConfig(deps.Cfg), overrides)

	var (
		sinks   []domain.Sink
		names   []string
		history domain.HistoryPort
	)
	if deps.PG != nil && !opts.DisablePG {
		pg := service.NewPGSink(deps.PG)
		sinks = append(sinks, pg)
		history = pg
	}
	if deps.CH != nil && !opts.DisableCH {
		sinks = append(sinks, service.NewCHSink(deps.CH))
	}
	for _, s := range sinks {
		names = append(names, s.Name())
	}

	svc := service.New(collector, sinks, opts.Service, deps.Metrics)
	if err := svc.EnsureSchema(ctx); err != nil {
		return nil, perr.WithOp(err, "results.New")
	}
	remove := func() {}
	if len(sinks) > 0 {
		remove = collector.AddResultListener(svc.OnResult)
	}

	deps.Log.Info().Strs("sinks", names).Msg("results module ready")
	return &Module{
		deps:   deps,
		opts:   opts,
		sinks:  names,
		remove: remove,
		ports: Ports{
			Worker:  svc,
			History: history,
		},
	}, nil
}

// Ports returns the module ports (Worker, History)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "results" }

// Sinks lists the active sink names
func (m *Module) Sinks() []string { return m.sinks }

// Close unsubscribes from the collector; queued results are still flushed by Run
func (m *Module) Close() { m.remove() }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
