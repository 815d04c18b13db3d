package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/tasklist-api/internal/store"
)

// selectQuery accumulates positional WHERE conditions for a SELECT.
type selectQuery struct {
	base  string
	conds []string
	args  []any
}

func newSelectQuery(base string) *selectQuery {
	return &selectQuery{base: base}
}

// where adds a condition; format must contain one %d for the placeholder index.
func (q *selectQuery) where(format string, arg any) *selectQuery {
	q.args = append(q.args, arg)
	q.conds = append(q.conds, fmt.Sprintf(format, len(q.args)))
	return q
}

// build returns the SQL ordered by id with LIMIT/OFFSET appended.
// An unbounded page binds LIMIT NULL, which PostgreSQL treats as no limit.
func (q *selectQuery) build(page store.Page) (string, []any) {
	var sb strings.Builder
	sb.WriteString(q.base)
	if len(q.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.conds, " AND "))
	}

	args := append([]any{}, q.args...)
	var limit any
	if page.Limit > 0 {
		limit = page.Limit
	}
	args = append(args, limit, page.Skip)
	fmt.Fprintf(&sb, " ORDER BY id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
