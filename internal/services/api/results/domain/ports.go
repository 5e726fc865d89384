package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	QueryResult(ctx context.Context, in QueryInput) (QueryResult, error)
	SiteResult(ctx context.Context, in SiteInput) (SiteResult, error)
}
