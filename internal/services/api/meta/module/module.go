// Package module mounts the meta endpoints
package module

import (
	"time"

	modkit "feasibility/internal/modkit"
	"feasibility/internal/modkit/httpkit"
	str "feasibility/internal/platform/strings"
	metahttp "feasibility/internal/services/api/meta/http"
)

// Ports is what meta consumes from other modules, passed with modkit.WithPorts
// FHIR is the collector worker; readiness fails while its subscription is unbound
type Ports struct {
	FHIR metahttp.Pinger
}

type Module struct {
	name   string
	prefix string
	deps   metahttp.Deps
}

// New builds the meta module, mounted at /meta by default
// The start time is taken here so uptime counts from wiring, not from the first request
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	ports, _ := b.Ports.(Ports)

	return &Module{
		name:   str.MustString(b.Name, "meta module name"),
		prefix: str.MustPrefix(b.Prefix),
		deps: metahttp.Deps{
			ServiceName: "feasibility-api",
			StartedAt:   time.Now(),
			PG:          deps.PG,
			CH:          deps.CH,
			FHIR:        ports.FHIR,
		},
	}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

func (m *Module) Name() string { return m.name }
func (m *Module) Ports() any   { return nil }
