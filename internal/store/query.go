// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/sb2review/pkg/types"
)

// defaultLimit caps Diagnostics results when Filter.Limit is zero.
const defaultLimit = 100

// Filter selects diagnostics. Zero fields match everything.
type Filter struct {
	PageID   string
	Level    types.DiagnosticLevel
	Contains string // substring of the message
	Limit    int
}

// DiagnosticRow is a stored diagnostic with the page that produced it.
type DiagnosticRow struct {
	PageID           string `json:"page_id" yaml:"page_id"`
	Seq              int    `json:"seq" yaml:"seq"`
	types.Diagnostic `yaml:",inline"`
}

// Diagnostics returns stored diagnostics matching f, ordered by page and
// emission order.
func (s *Store) Diagnostics(ctx context.Context, f Filter) ([]DiagnosticRow, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT page_id, seq, level, message FROM diagnostics WHERE 1=1`)

	if f.PageID != "" {
		qb.WriteString(` AND page_id = ?`)
		args = append(args, f.PageID)
	}
	if f.Level != "" {
		qb.WriteString(` AND level = ?`)
		args = append(args, string(f.Level))
	}
	if f.Contains != "" {
		qb.WriteString(` AND instr(message, ?) > 0`)
		args = append(args, f.Contains)
	}

	qb.WriteString(` ORDER BY page_id, seq LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	var out []DiagnosticRow
	for rows.Next() {
		var (
			r     DiagnosticRow
			level string
		)
		if err := rows.Scan(&r.PageID, &r.Seq, &level, &r.Message); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		r.Level = types.DiagnosticLevel(level)
		out = append(out, r)
	}
	return out, rows.Err()
}
