// Package query builds parameterized SELECT statements for Cloud Spanner.
// Column names come from the m_* field constants, values always travel as
// named parameters.
package query

import (
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction is an ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) keyword() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

type ordering struct {
	column    string
	direction Direction
}

// Builder accumulates the parts of a SELECT statement. The zero value is not
// usable; start with From. Builders are single-use and not safe for
// concurrent mutation.
type Builder struct {
	table      string
	columns    []string
	conditions []Condition
	orderings  []ordering
	limit      int64
}

// From starts a statement against table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select names the columns to fetch. Without it the statement selects *.
func (b *Builder) Select(columns ...string) *Builder {
	b.columns = append(b.columns, columns...)
	return b
}

// Where adds a condition. Conditions are combined with AND.
func (b *Builder) Where(c Condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

// OrderBy appends a sort column. Repeated calls add tie-break columns in
// call order.
func (b *Builder) OrderBy(column string, d Direction) *Builder {
	b.orderings = append(b.orderings, ordering{column: column, direction: d})
	return b
}

// Limit caps the number of returned rows. Zero means no LIMIT clause.
func (b *Builder) Limit(n int64) *Builder {
	b.limit = n
	return b
}

// Count swaps the select list for COUNT(*) and drops ordering and limit,
// keeping the FROM and WHERE parts intact.
func (b *Builder) Count() *Builder {
	b.columns = []string{"COUNT(*)"}
	b.orderings = nil
	b.limit = 0
	return b
}

// Build renders the statement. Parameter names are generated sequentially so
// conditions never collide.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.columns, ", "))
	}
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.conditions) > 0 {
		sql.WriteString(" WHERE ")
		parts := make([]string, 0, len(b.conditions))
		next := 0
		for _, c := range b.conditions {
			fragment, condParams := c.SQL(next)
			parts = append(parts, fragment)
			for k, v := range condParams {
				params[k] = v
			}
			next += len(condParams)
		}
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.orderings) > 0 {
		sql.WriteString(" ORDER BY ")
		parts := make([]string, 0, len(b.orderings))
		for _, o := range b.orderings {
			parts = append(parts, o.column+" "+o.direction.keyword())
		}
		sql.WriteString(strings.Join(parts, ", "))
	}

	if b.limit > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limit
	}

	return spanner.Statement{SQL: sql.String(), Params: params}
}
