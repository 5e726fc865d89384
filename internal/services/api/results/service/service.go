// Package service builds query result views from the collector
package service

import (
	"context"

	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/net/http/bind"
	"feasibility/internal/services/api/results/domain"
	cdom "feasibility/internal/services/collector/domain"
	rdom "feasibility/internal/services/results/domain"
)

// Service is the read side of collected results
type Service interface {
	domain.ServicePort
}

type svc struct {
	reader  cdom.ResultReader
	history rdom.HistoryPort
}

// New returns a Service reading from r
// history, when non nil, answers for queries the collector has not seen since start
func New(r cdom.ResultReader, history rdom.HistoryPort) Service {
	return &svc{reader: r, history: history}
}

// QueryResult lists every site answer of in.QueryID in site order
// An unknown query yields an empty result, not an error, since answers may still arrive
func (s *svc) QueryResult(ctx context.Context, in domain.QueryInput) (domain.QueryResult, error) {
	if err := bind.Struct(in); err != nil {
		return domain.QueryResult{}, err
	}

	out := domain.QueryResult{QueryID: in.QueryID, ResultLines: []domain.ResultLine{}}
	sites := s.reader.GetResultSiteIDs(in.QueryID)
	if len(sites) == 0 {
		rows, err := s.persisted(ctx, in.QueryID)
		if err != nil {
			return domain.QueryResult{}, err
		}
		for _, r := range rows {
			out.ResultLines = append(out.ResultLines, domain.ResultLine{SiteName: r.SiteID, NumberOfPatients: r.Result})
			out.TotalNumberOfPatients += r.Result
		}
		return out, nil
	}

	for _, site := range sites {
		n, err := s.reader.GetResultFeasibility(in.QueryID, site)
		if err != nil {
			// listed sites are never removed, so this only happens on a broken reader
			return domain.QueryResult{}, err
		}
		out.ResultLines = append(out.ResultLines, domain.ResultLine{SiteName: site, NumberOfPatients: n})
		out.TotalNumberOfPatients += n
	}
	return out, nil
}

// SiteResult returns a NotFound error until the site has answered
func (s *svc) SiteResult(ctx context.Context, in domain.SiteInput) (domain.SiteResult, error) {
	if err := bind.Struct(in); err != nil {
		return domain.SiteResult{}, err
	}
	n, err := s.reader.GetResultFeasibility(in.QueryID, in.SiteID)
	if err == nil {
		return domain.SiteResult{QueryID: in.QueryID, SiteID: in.SiteID, NumberOfPatients: n}, nil
	}
	if !perr.IsCode(err, perr.ErrorCodeNotFound) || s.history == nil {
		return domain.SiteResult{}, err
	}

	rows, herr := s.persisted(ctx, in.QueryID)
	if herr != nil {
		return domain.SiteResult{}, herr
	}
	for _, r := range rows {
		if r.SiteID == in.SiteID {
			return domain.SiteResult{QueryID: in.QueryID, SiteID: in.SiteID, NumberOfPatients: r.Result}, nil
		}
	}
	return domain.SiteResult{}, err
}

// persisted reads stored rows for queryID, none when no history is configured
func (s *svc) persisted(ctx context.Context, queryID string) ([]rdom.Result, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListByQuery(ctx, queryID)
}
