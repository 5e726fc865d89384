// Package http serves the meta endpoints: health, readiness, version and uptime
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"feasibility/internal/core/version"
	"feasibility/internal/modkit/httpkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
// PG and CH are whatever the store opened, nil when disabled
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	// FHIR reports whether the subscription is bound; nil skips the check
	FHIR Pinger
}

// Readiness states; a disabled dependency is skipped and never lowers the overall status
const (
	statusOK       = "ok"
	statusFail     = "fail"
	statusSkipped  = "skipped"
	statusUnknown  = "unknown"
	statusDegraded = "degraded"
)

const readyTimeout = 2 * time.Second

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"feasibility-api"`
	Started string `json:"started" example:"2026-10-15T08:00:00Z"`
	Now     string `json:"now"     example:"2026-10-15T08:05:00Z"`
}

// ReadyCheck is the outcome for one dependency
type ReadyCheck struct {
	Name   string `json:"name"            example:"fhir"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"websocket not bound"`
}

// ReadyResponse is ok, degraded or fail with the checks behind it
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-15T08:05:00Z"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"feasibility-api"`
	Started string `json:"started" example:"2026-10-15T08:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

func (h *handlers) stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.stamp(h.deps.StartedAt),
		Now:     h.stamp(h.now()),
	}, nil
}

// @Summary Readiness with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	// a nil Pinger inside a non-nil interface would panic on Ping
	var fhir any
	if h.deps.FHIR != nil {
		fhir = h.deps.FHIR
	}
	checks := []ReadyCheck{
		checkDep(ctx, "pg", h.deps.PG),
		checkDep(ctx, "ch", h.deps.CH),
		checkDep(ctx, "fhir", fhir),
	}
	return ReadyResponse{Status: overall(checks), Checks: checks, Now: h.stamp(h.now())}, nil
}

func checkDep(ctx stdctx.Context, name string, dep any) ReadyCheck {
	c := ReadyCheck{Name: name}
	p, ok := dep.(Pinger)
	switch {
	case dep == nil:
		c.Status = statusSkipped
	case !ok:
		c.Status = statusUnknown
	default:
		c.Status = statusOK
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = statusFail, err.Error()
		}
	}
	return c
}

// overall is fail if any check failed, degraded if any is unknown, ok otherwise
func overall(checks []ReadyCheck) string {
	out := statusOK
	for _, c := range checks {
		switch c.Status {
		case statusFail:
			return statusFail
		case statusUnknown:
			out = statusDegraded
		}
	}
	return out
}

// @Summary Build information
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.stamp(h.deps.StartedAt),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
