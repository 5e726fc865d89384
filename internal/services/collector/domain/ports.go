package domain

import "context"

// ResultReader is the read side of the collected results
type ResultReader interface {
	// GetResultFeasibility returns a NotFound error when the pair has no result yet
	GetResultFeasibility(queryID, siteID string) (int, error)
	// GetResultSiteIDs lists the sites with a result for queryID in sorted order
	GetResultSiteIDs(queryID string) []string
}

// ListenerRegistry manages result listeners
type ListenerRegistry interface {
	// AddResultListener registers l; the returned func removes it and is safe to call twice
	AddResultListener(l ResultListener) (remove func())
}

// CollectorPort is what other services use
type CollectorPort interface {
	ResultReader
	ListenerRegistry
}

// WorkerPort drives the inbound subscription until ctx is done
type WorkerPort interface {
	Run(ctx context.Context) error
	// Ping fails while the subscription is not connected
	Ping(ctx context.Context) error
}
