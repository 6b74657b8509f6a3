package history

import (
	"strings"
)

// QueryBuilder rewrites run history statements, written with "?" markers,
// into the placeholder style of its dialect.
type QueryBuilder struct {
	dialect Dialect
}

func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build numbers every "?" outside single-quoted literals, so
//
//	INSERT INTO runs (id, source) VALUES (?, ?)
//
// becomes "VALUES ($1, $2)" on PostgreSQL. SQLite statements pass through.
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Type() == DialectSQLite {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteString(qb.dialect.Placeholder(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
