package domain

import "context"

// Sink persists batches of results
// Writes must be idempotent per (QueryID, SiteID)
type Sink interface {
	Name() string
	Write(ctx context.Context, rs []Result) error
}

// SchemaEnsurer is implemented by sinks that can create their tables
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// HistoryPort reads persisted results back
type HistoryPort interface {
	ListByQuery(ctx context.Context, queryID string) ([]Result, error)
}

// WorkerPort drains the result queue into the sinks until ctx is done
type WorkerPort interface {
	Run(ctx context.Context) error
}
