// Package repo provides the result repositories for postgres and clickhouse
package repo

import (
	"context"
	"fmt"
	"strings"

	"feasibility/internal/modkit/repokit"
	"feasibility/internal/platform/store"
	"feasibility/internal/services/results/domain"
)

type pg struct{ q repokit.Queryer }

// NewPG returns the binder for the postgres result table
func NewPG() repokit.Binder[Storage] {
	return repokit.BindFunc[Storage](func(q repokit.Queryer) Storage { return &pg{q: q} })
}

// Storage is the postgres result table
type Storage interface {
	EnsureSchema(ctx context.Context) error
	InsertResults(ctx context.Context, rs []domain.Result) (int64, error)
	ListByQuery(ctx context.Context, queryID string) ([]domain.Result, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS result (
	query_id    text        NOT NULL,
	site_id     text        NOT NULL,
	result_type text        NOT NULL,
	result      integer     NOT NULL CHECK (result >= 0),
	received_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (query_id, site_id)
)`

// EnsureSchema creates the result table when missing
func (s *pg) EnsureSchema(ctx context.Context) error {
	_, err := s.q.Exec(ctx, schemaSQL)
	return err
}

// InsertResults writes rs and keeps existing rows for the same pair
func (s *pg) InsertResults(ctx context.Context, rs []domain.Result) (int64, error) {
	if len(rs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO result (query_id, site_id, result_type, result, received_at) VALUES `)
	args := make([]any, 0, len(rs)*5)
	for i, r := range rs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*5 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d)", base, base+1, base+2, base+3, base+4)
		args = append(args, r.QueryID, r.SiteID, r.ResultType, r.Result, r.ReceivedAt)
	}
	// first writer wins, same as the in-memory store
	sb.WriteString(` ON CONFLICT (query_id, site_id) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListByQuery returns the persisted results of queryID ordered by site
func (s *pg) ListByQuery(ctx context.Context, queryID string) ([]domain.Result, error) {
	return store.Many(ctx, s.q, scanResult, `
		SELECT query_id, site_id, result_type, result, received_at
		FROM result
		WHERE query_id = $1
		ORDER BY site_id`, queryID)
}

func scanResult(row store.Row) (domain.Result, error) {
	var r domain.Result
	err := row.Scan(&r.QueryID, &r.SiteID, &r.ResultType, &r.Result, &r.ReceivedAt)
	return r, err
}
