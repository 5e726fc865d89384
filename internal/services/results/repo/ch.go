package repo

import (
	"context"

	"feasibility/internal/platform/store"
	"feasibility/internal/services/results/domain"
)

// EventsTable is the clickhouse table of result events
const EventsTable = "feasibility_result_events"

const eventsSchemaSQL = `
CREATE TABLE IF NOT EXISTS ` + EventsTable + ` (
	query_id    String,
	site_id     LowCardinality(String),
	result_type LowCardinality(String),
	result      UInt32,
	received_at DateTime64(3, 'UTC')
)
ENGINE = ReplacingMergeTree
ORDER BY (query_id, site_id)`

// Events is the append only clickhouse record of result events
type Events struct {
	ch store.Clickhouse
}

// NewCH returns the events repo over the clickhouse seam
func NewCH(ch store.Clickhouse) *Events { return &Events{ch: ch} }

// EnsureSchema creates the events table when missing
func (e *Events) EnsureSchema(ctx context.Context) error {
	return e.ch.Exec(ctx, eventsSchemaSQL)
}

// Append writes rs as one batch
func (e *Events) Append(ctx context.Context, rs []domain.Result) error {
	if len(rs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{r.QueryID, r.SiteID, r.ResultType, uint32(r.Result), r.ReceivedAt.UTC()})
	}
	return e.ch.Insert(ctx, EventsTable, rows)
}
