// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/rfc-engine/internal/sections"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// QueryOptions holds parameters for index searches.
type QueryOptions struct {
	// Query is free text. Each word must appear, as a prefix, in the
	// requirement sentence or its section title.
	Query string

	// Level filters by requirement level.
	Level types.RequirementLevel

	// RFC filters by document.
	RFC int

	// Section filters by section number, descendants included.
	Section string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Level == "" && q.RFC == 0 && q.Section == ""
}

// QueryResult is an indexed requirement with its document title.
type QueryResult struct {
	types.Requirement `yaml:",inline"`
	RFC               int    `json:"rfc" yaml:"rfc"`
	RFCTitle          string `json:"rfcTitle" yaml:"rfc_title"`
}

// Search queries the index. Results are ordered by RFC number and then by
// document order within each RFC.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb    strings.Builder
		args  []any
		match = matchExpr(opts.Query)
	)

	qb.WriteString(
		`SELECT r.id, r.rfc, r.level, r.sentence, r.section, r.section_title,
			r.subject, r.action, r.condition, r.exception, r.full_context, d.title
		FROM requirements r
		LEFT JOIN documents d ON d.rfc = r.rfc
		WHERE 1=1`)

	if match != "" {
		qb.WriteString(` AND r.rowid IN (SELECT docid FROM requirements_fts WHERE requirements_fts MATCH ?)`)
		args = append(args, match)
	}
	if opts.Level != "" {
		qb.WriteString(` AND r.level = ?`)
		args = append(args, string(opts.Level))
	}
	if opts.RFC != 0 {
		qb.WriteString(` AND r.rfc = ?`)
		args = append(args, opts.RFC)
	}
	if sec := sections.Normalize(opts.Section); sec != "" {
		qb.WriteString(` AND (r.section = ? OR r.section LIKE ?)`)
		args = append(args, sec, sec+".%")
	}

	qb.WriteString(` ORDER BY r.rfc, r.rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr    QueryResult
			level string
			title sql.NullString
		)
		if err := rows.Scan(
			&qr.ID, &qr.RFC, &level, &qr.Text, &qr.Section, &qr.SectionTitle,
			&qr.Subject, &qr.Action, &qr.Condition, &qr.Exception, &qr.FullContext, &title,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		qr.Level = types.RequirementLevel(level)
		qr.RFCTitle = title.String
		results = append(results, qr)
	}
	return results, rows.Err()
}

// Count returns the number of indexed RFCs and requirements.
func (s *Store) Count(ctx context.Context) (documents, requirements int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM documents), (SELECT count(*) FROM requirements)`,
	).Scan(&documents, &requirements)
	if err != nil {
		return 0, 0, fmt.Errorf("counting index: %w", err)
	}
	return documents, requirements, nil
}

// matchExpr turns free text into an FTS prefix query. Only letters and
// digits survive, so user input never reaches the query syntax.
func matchExpr(query string) string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		words[i] = w + "*"
	}
	return strings.Join(words, " ")
}
