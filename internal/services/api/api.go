// Package api mounts the results API: meta, results, docs and metrics
package api

import (
	"crypto/subtle"

	"feasibility/internal/platform/config"
	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/logger"
	phttp "feasibility/internal/platform/net/http"
	"feasibility/internal/platform/store"

	"feasibility/internal/modkit"
	"feasibility/internal/modkit/httpkit"
	"feasibility/internal/modkit/swaggerkit"

	metamod "feasibility/internal/services/api/meta/module"
	resultsmod "feasibility/internal/services/api/results/module"
	cdom "feasibility/internal/services/collector/domain"
	rdom "feasibility/internal/services/results/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries what Mount wires into the modules
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Collector serves the result reads
	Collector cdom.CollectorPort
	// History answers for queries the collector no longer holds, nil disables it
	History   rdom.HistoryPort
	// Readiness is pinged by /meta/ready, usually the collector worker
	Readiness metamod.Ports

	// Gatherer backs /metrics, nil leaves it unmounted
	Gatherer prometheus.Gatherer

	// APIToken, when set, is the bearer token the result routes require
	APIToken string
}

// Mount registers every route of the API on r
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	meta := metamod.New(deps, modkit.WithPorts(opt.Readiness))
	results := resultsmod.New(deps, opt.Collector, opt.History)

	if opt.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{}))
	}
	if opt.EnableSwagger {
		swaggerkit.Mount(r, "/api/docs")
	}
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		meta.MountRoutes(api)
		if opt.APIToken == "" {
			results.MountRoutes(api)
			return
		}
		httpkit.Protected(api, tokenPort(opt.APIToken), results.MountRoutes)
	})
}

// tokenPort accepts exactly one static bearer token
func tokenPort(token string) *httpkit.Port {
	want := []byte(token)
	return httpkit.NewPortFunc(func(raw string) (string, error) {
		if subtle.ConstantTimeCompare([]byte(raw), want) != 1 {
			return "", perr.Unauthorizedf("unknown api token")
		}
		return "api-client", nil
	})
}
