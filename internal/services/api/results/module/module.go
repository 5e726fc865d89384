// Package module wires the query result read API using modkit
package module

import (
	modkit "feasibility/internal/modkit"
	"feasibility/internal/modkit/httpkit"
	str "feasibility/internal/platform/strings"
	resultshttp "feasibility/internal/services/api/results/http"
	resultssvc "feasibility/internal/services/api/results/service"
	cdom "feasibility/internal/services/collector/domain"
	rdom "feasibility/internal/services/results/domain"
)

// Module implements the results read module
type Module struct {
	name   string
	prefix string
	svc    resultssvc.Service
}

// New constructs the read module over the collector's result reader
// history may be nil; it serves queries answered before the last restart
func New(deps modkit.Deps, reader cdom.ResultReader, history rdom.HistoryPort, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("query-results"),
		modkit.WithPrefix("/query-handler"),
	}, opts...)...)

	return &Module{
		name:   str.MustString(b.Name, "results module name"),
		prefix: str.MustPrefix(b.Prefix),
		svc:    resultssvc.New(reader, history),
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		resultshttp.Register(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports exposes the read service to other modules
func (m *Module) Ports() any { return m.svc }
