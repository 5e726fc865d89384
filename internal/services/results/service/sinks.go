package service

import (
	"context"

	"feasibility/internal/modkit/repokit"
	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/store"
	"feasibility/internal/services/results/domain"
	"feasibility/internal/services/results/repo"
)

// PGSink writes results into the postgres result table
type PGSink struct {
	tx   repokit.TxRunner
	repo repokit.Binder[repo.Storage]
}

var (
	_ domain.Sink          = (*PGSink)(nil)
	_ domain.SchemaEnsurer = (*PGSink)(nil)
	_ domain.HistoryPort   = (*PGSink)(nil)
	_ domain.Sink          = (*CHSink)(nil)
	_ domain.SchemaEnsurer = (*CHSink)(nil)
)

// NewPGSink binds the postgres repo to tx
func NewPGSink(tx repokit.TxRunner) *PGSink {
	return &PGSink{tx: tx, repo: repo.NewPG()}
}

// Name implements domain.Sink
func (s *PGSink) Name() string { return "pg" }

// EnsureSchema implements domain.SchemaEnsurer
func (s *PGSink) EnsureSchema(ctx context.Context) error {
	return repokit.MustBind(s.repo, s.tx).EnsureSchema(ctx)
}

// Write implements domain.Sink
func (s *PGSink) Write(ctx context.Context, rs []domain.Result) error {
	err := repokit.WithTx(ctx, s.tx, func(q repokit.Queryer) error {
		_, err := repokit.MustBind(s.repo, q).InsertResults(ctx, rs)
		return err
	})
	return perr.FromPostgresWithField(err, "results: pg insert")
}

// ListByQuery implements domain.HistoryPort
func (s *PGSink) ListByQuery(ctx context.Context, queryID string) ([]domain.Result, error) {
	rs, err := repokit.MustBind(s.repo, s.tx).ListByQuery(ctx, queryID)
	if err != nil {
		return nil, perr.FromPostgres(err, "results: pg list")
	}
	return rs, nil
}

// CHSink appends result events to clickhouse
type CHSink struct {
	events *repo.Events
}

// NewCHSink wraps the clickhouse seam
func NewCHSink(ch store.Clickhouse) *CHSink { return &CHSink{events: repo.NewCH(ch)} }

// Name implements domain.Sink
func (s *CHSink) Name() string { return "ch" }

// EnsureSchema implements domain.SchemaEnsurer
func (s *CHSink) EnsureSchema(ctx context.Context) error { return s.events.EnsureSchema(ctx) }

// Write implements domain.Sink
func (s *CHSink) Write(ctx context.Context, rs []domain.Result) error { return s.events.Append(ctx, rs) }
