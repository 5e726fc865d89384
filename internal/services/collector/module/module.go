// Package module wires the result collector and exposes its ports
package module

import (
	"context"

	"feasibility/internal/adapters/fhir"
	"feasibility/internal/modkit"
	"feasibility/internal/modkit/httpkit"
	"feasibility/internal/services/collector/resultstore"
	"feasibility/internal/services/collector/service"
)

// Module defines the collector module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New provisions the FHIR clients and builds the collector
// Config values are the defaults, non zero overrides win
func New(ctx context.Context, deps modkit.Deps, overrides Options) (*Module, error) {
	opts := merge(FromConfig(deps.Cfg), overrides)
	return NewWithProvider(ctx, deps, opts, fhir.NewProvider(opts.FHIR))
}

// NewWithProvider builds the module on an explicit connection provider
func NewWithProvider(ctx context.Context, deps modkit.Deps, opts Options, p fhir.Provider) (*Module, error) {
	c, err := service.New(ctx, p, resultstore.NewSharded(opts.Shards),
		service.WithRegisterer(deps.Metrics),
	)
	if err != nil {
		return nil, err
	}
	return &Module{
		deps: deps,
		opts: opts,
		ports: Ports{
			Collector: c,
			Worker:    c,
		},
	}, nil
}

// Ports returns the module ports (Collector, Worker)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "collector" }

// MountRoutes returns no HTTP routes, the read API lives in api/results
func (m *Module) MountRoutes(_ httpkit.Router) {}
