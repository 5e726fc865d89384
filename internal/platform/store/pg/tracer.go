package pg

import (
	"context"
	"strings"
	"time"

	"feasibility/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer is told about every statement the store runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements at debug and slow or failed ones at warn
// Statements are logged whatever the level of log; only argument counts are, not values
func Tracer(log logger.Logger) QueryTracer {
	return logTracer{log: log.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	e := t.log.Debug()
	if ev.Slow || ev.Err != nil {
		e = t.log.Warn()
	}
	e.Dur("elapsed", ev.Elapsed).
		Bool("slow", ev.Slow).
		Str("sql", squash(ev.SQL)).
		Int("args", len(ev.Args)).
		Err(ev.Err).
		Msg("pg statement")
}

// squash folds whitespace runs to single spaces so multi-line SQL stays on one log line
func squash(sql string) string { return strings.Join(strings.Fields(sql), " ") }
