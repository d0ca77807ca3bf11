package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	probeNowSQL = `SELECT now()`

	probeTablesSQL = `
		SELECT DISTINCT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name`
)

// ProbeResult is the outcome of a successful connectivity probe.
type ProbeResult struct {
	Timestamp time.Time
	Tables    []string
}

// Probe performs one trivial round-trip and lists the public tables.
// Tables are distinct and in ascending lexical order, never nil.
func (r *Repository) Probe(ctx context.Context) (ProbeResult, error) {
	var now time.Time
	if err := r.db.QueryRow(ctx, probeNowSQL).Scan(&now); err != nil {
		return ProbeResult{}, fmt.Errorf("query server time: %w", err)
	}

	rows, err := r.db.Query(ctx, probeTablesSQL)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("list tables: %w", err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return ProbeResult{}, fmt.Errorf("scan tables: %w", err)
	}

	return ProbeResult{
		Timestamp: now,
		Tables:    normalizeTables(tables),
	}, nil
}

// normalizeTables sorts and de-duplicates in Go as well, so the ordering does
// not depend on the server's collation.
func normalizeTables(tables []string) []string {
	out := slices.Clone(tables)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
