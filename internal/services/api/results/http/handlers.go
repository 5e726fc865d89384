// Package http provides http transport for query results
package http

import (
	stdhttp "net/http"

	"feasibility/internal/modkit/httpkit"
	phttp "feasibility/internal/platform/net/http"
	"feasibility/internal/services/api/results/domain"
	svc "feasibility/internal/services/api/results/service"
)

// Register mounts the result endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/result/{queryId}", h.queryResult)
	httpkit.Get(r, "/result/{queryId}/site/{siteId}", h.siteResult)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /query-handler/result/{queryId} Results queryResult
// @Summary Collected results of a query
// @Tags Results
// @Produce json
// @Param queryId path string true "Query id"
// @Success 200 {object} domain.QueryResult "ok"
// @Failure 400 {object} phttp.Envelope "invalid id"
// @Router /query-handler/result/{queryId} [get]
func (h *handlers) queryResult(r *stdhttp.Request) (any, error) {
	return h.svc.QueryResult(r.Context(), domain.QueryInput{QueryID: phttp.Param(r, "queryId")})
}

// swagger:route GET /query-handler/result/{queryId}/site/{siteId} Results siteResult
// @Summary Result of one site for a query
// @Tags Results
// @Produce json
// @Param queryId path string true "Query id"
// @Param siteId path string true "Site id"
// @Success 200 {object} domain.SiteResult "ok"
// @Failure 404 {object} phttp.Envelope "no result yet"
// @Router /query-handler/result/{queryId}/site/{siteId} [get]
func (h *handlers) siteResult(r *stdhttp.Request) (any, error) {
	return h.svc.SiteResult(r.Context(), domain.SiteInput{
		QueryID: phttp.Param(r, "queryId"),
		SiteID:  phttp.Param(r, "siteId"),
	})
}
