package query

import (
	"strconv"
	"strings"
)

// Statement is SQL text with positional "?" placeholders and the ordered
// parameters bound to them. The two must be executed together: reordering or
// truncating Params binds values to the wrong placeholders without any error.
type Statement struct {
	SQL    string
	Params []string

	// Reversed is set on keyset statements fetched in the prev direction.
	// Rows come back in inverted order and must be reversed for display.
	Reversed bool
}

// Args returns Params as the variadic arguments database/sql expects.
func (s Statement) Args() []any {
	args := make([]any, len(s.Params))
	for i, p := range s.Params {
		args[i] = p
	}
	return args
}

// Placeholder is a bind parameter syntax.
type Placeholder int

const (
	// Question is "?", used by SQLite and MySQL.
	Question Placeholder = iota
	// Dollar is "$1", "$2", ... used by PostgreSQL.
	Dollar
)

// Dialect selects the SQL that differs between databases.
type Dialect int

const (
	// Generic compares time columns as stored. It suits native timestamp
	// column types.
	Generic Dialect = iota
	// SQLite stores times as text in several accepted formats. Time sort
	// columns are compared through strftime so every format orders by time.
	SQLite
	// Postgres is PostgreSQL.
	Postgres
)

// Placeholder returns the bind syntax of d.
func (d Dialect) Placeholder() Placeholder {
	if d == Postgres {
		return Dollar
	}
	return Question
}

// Rebind rewrites the statement for the given placeholder syntax.
func (s Statement) Rebind(p Placeholder) Statement {
	s.SQL = Rebind(p, s.SQL)
	return s
}

// Rebind converts "?" placeholders in sql to p. Question marks inside quoted
// literals or identifiers are left alone.
func Rebind(p Placeholder, sql string) string {
	if p == Question {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) + 8)

	n := 0
	walkPlaceholders(sql, func(literal string, isPlaceholder bool) {
		if !isPlaceholder {
			b.WriteString(literal)
			return
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	})
	return b.String()
}

// CountPlaceholders returns the number of "?" placeholders outside quotes.
func CountPlaceholders(sql string) int {
	n := 0
	walkPlaceholders(sql, func(_ string, isPlaceholder bool) {
		if isPlaceholder {
			n++
		}
	})
	return n
}

// walkPlaceholders splits sql into literal runs and placeholders.
func walkPlaceholders(sql string, fn func(literal string, isPlaceholder bool)) {
	var quote byte
	start := 0

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			fn(sql[start:i], false)
			fn("?", true)
			start = i + 1
		}
	}
	fn(sql[start:], false)
}
