// Package query builds parameterized SQL for filtered, sorted listings.
//
// A Builder collects filter conditions with their bind parameters, one sort
// column, a limit and an optional keyset boundary, and emits three statement
// shapes from the same state:
//
//   - BuildCount: SELECT COUNT(*) under the filter conditions only
//   - BuildSimple: offset pagination, ORDER BY ... LIMIT ? OFFSET ?
//   - BuildCTE: keyset pagination through a deferred join
//
// Filter parameters and keyset parameters are tracked separately so one
// filter set drives both the COUNT and the page query.
//
// Example usage:
//
//	b := query.New("reagents").
//	    AddCondition("status = ?", "active").
//	    Sort("total_quantity", "DESC").
//	    Limit(50).
//	    KeysetAfter(100.5, "abc-123", true, query.Next)
//
//	count, _ := b.BuildCount()            // SELECT COUNT(*) FROM reagents WHERE status = ?
//	page, _ := b.BuildCTE(query.Next, true)
//	// page.Params == ["active", "100.5", "100.5", "abc-123", "51"]
//
// Identifiers (table, columns) are spliced into the SQL text and are always
// checked with the whitelist package; values only ever travel as parameters.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/strmangle"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/records-paging/filter"
	"github.com/nrfta/records-paging/whitelist"
)

const (
	// DefaultLimit is the row limit when Limit is not called.
	DefaultLimit = 50

	idColumn = "id"

	// TimestampLayout is the text form time boundaries are bound as. It is
	// fixed width so lexical and chronological order agree.
	TimestampLayout = "2006-01-02T15:04:05.000000Z"

	// sqliteTimeFormat is the strftime format time sort columns are
	// compared in under SQLite.
	sqliteTimeFormat = "%Y-%m-%dT%H:%M:%fZ"
)

// ErrPlaceholderCount is returned when a fragment's placeholders do not
// match the parameters supplied with it.
var ErrPlaceholderCount = errors.New("placeholder count does not match parameters")

// Condition is a WHERE fragment and the parameters bound to its placeholders.
type Condition struct {
	Fragment string
	Params   []string
}

// Builder accumulates listing query state. It is not safe for concurrent
// use; build one per request.
//
// Configuration methods return the builder for chaining. The first error is
// kept and returned by every Build method.
type Builder struct {
	table      string
	columns    []string
	sortColumn string
	timeSort   bool
	order      string
	limit      int
	dialect    Dialect

	conditions   []Condition
	filterParams []string

	keysetOp     string
	keysetParams []string

	guard *whitelist.FieldWhitelist
	err   error
}

// New creates a builder selecting every column of table, sorted by id DESC.
func New(table string) *Builder {
	b := &Builder{
		table:      table,
		columns:    []string{"*"},
		sortColumn: idColumn,
		order:      DESC,
		limit:      DefaultLimit,
	}
	if err := whitelist.ValidateFieldName(table, whitelist.TableFieldConfig()); err != nil {
		b.setErr(errors.Wrap(err, "table"))
	}
	return b
}

// Guard requires every column passed to Sort and AddFilter to be allowed by wl.
func (b *Builder) Guard(wl *whitelist.FieldWhitelist) *Builder {
	b.guard = wl
	return b
}

// Dialect sets the database statements are built for. The default is Generic.
func (b *Builder) Dialect(d Dialect) *Builder {
	b.dialect = d
	return b
}

// Select sets the output columns. No columns, or "*", selects every column.
func (b *Builder) Select(columns ...string) *Builder {
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "*") {
		b.columns = []string{"*"}
		return b
	}
	for _, c := range columns {
		if err := whitelist.ValidateFieldName(c, whitelist.ReportFieldConfig()); err != nil {
			b.setErr(errors.Wrap(err, "select"))
			return b
		}
	}
	b.columns = append([]string(nil), columns...)
	return b
}

// Sort sets the sort column and order. The order is normalized with
// NormalizeOrder, so anything other than "asc" sorts descending.
func (b *Builder) Sort(column, order string) *Builder {
	if err := b.checkColumn(column); err != nil {
		b.setErr(errors.Wrap(err, "sort"))
		return b
	}
	b.sortColumn = column
	b.timeSort = false
	b.order = NormalizeOrder(order)
	return b
}

// SortTime is Sort for a time-valued column. Under SQLite the column is
// ordered and compared as strftime(%Y-%m-%dT%H:%M:%fZ), so rows written as
// "2006-01-02 15:04:05" and rows written in TimestampLayout interleave by
// time rather than by text. SQLite resolves times to the millisecond.
func (b *Builder) SortTime(column, order string) *Builder {
	b.Sort(column, order)
	if b.sortColumn == column {
		b.timeSort = true
	}
	return b
}

// Limit sets the page size. It must be at least 1.
func (b *Builder) Limit(n int) *Builder {
	if n < 1 {
		b.setErr(fmt.Errorf("limit must be at least 1, got %d", n))
		return b
	}
	b.limit = n
	return b
}

// AddCondition adds a fragment with exactly one placeholder, e.g. "status = ?".
func (b *Builder) AddCondition(fragment, param string) *Builder {
	return b.add(fragment, []string{param})
}

// AddRawCondition adds a fragment with no placeholders, e.g. "deleted_at IS NULL".
func (b *Builder) AddRawCondition(fragment string) *Builder {
	return b.add(fragment, nil)
}

// AddSearch adds a fragment with several placeholders, e.g.
// "name LIKE ? OR cas_number LIKE ?". The fragment is parenthesized so its
// ORs do not leak into the surrounding AND chain.
func (b *Builder) AddSearch(fragment string, params ...string) *Builder {
	return b.add("("+fragment+")", params)
}

// AddFilter adds a condition on a whitelisted column for a typed value:
//
//	scalar  → column op ?
//	array   → column IN (?, ...)     (NOT IN when op is "!=")
//	range   → column BETWEEN ? AND ?
//	null    → column IS NULL         (IS NOT NULL when op is "!=")
func (b *Builder) AddFilter(column, op string, v filter.Value) *Builder {
	if err := b.checkColumn(column); err != nil {
		b.setErr(errors.Wrap(err, "filter"))
		return b
	}
	op = strings.ToUpper(strings.TrimSpace(op))
	if _, ok := allowedOperators[op]; !ok {
		b.setErr(fmt.Errorf("filter %s: unsupported operator %q", column, op))
		return b
	}
	negate := op == "!=" || op == "<>"

	kind := v.Kind()
	switch {
	case kind.IsScalar():
		s, _ := v.ToStringValue()
		return b.AddCondition(column+" "+op+" ?", s)

	case kind.IsArray():
		values, _ := v.AsStringArray()
		if len(values) == 0 {
			if negate {
				return b
			}
			return b.AddRawCondition("1 = 0")
		}
		in := " IN ("
		if negate {
			in = " NOT IN ("
		}
		return b.add(column+in+strmangle.Placeholders(false, len(values), 1, 1)+")", values)

	case kind.IsRange():
		from, to, _ := v.AsRangeStrings()
		return b.add(column+" BETWEEN ? AND ?", []string{from, to})
	}

	if negate {
		return b.AddRawCondition(column + " IS NOT NULL")
	}
	return b.AddRawCondition(column + " IS NULL")
}

var allowedOperators = map[string]struct{}{
	"=": {}, "!=": {}, "<>": {}, "<": {}, "<=": {}, ">": {}, ">=": {}, "LIKE": {},
}

// KeysetAfter sets the keyset boundary to the row (value, id). It replaces
// any previous boundary. The fragment is
//
//	((sort OP ?) OR (sort = ? AND id OP ?))
//
// with OP from KeysetOperator, and binds value, value, id.
func (b *Builder) KeysetAfter(value float64, id string, desc bool, dir Direction) *Builder {
	return b.keysetAfter(strconv.FormatFloat(value, 'f', -1, 64), id, desc, dir)
}

// KeysetAfterTime is KeysetAfter for a time-valued sort column. The boundary
// is bound in TimestampLayout and the sort column is treated as with SortTime.
func (b *Builder) KeysetAfterTime(t time.Time, id string, desc bool, dir Direction) *Builder {
	b.timeSort = true
	return b.keysetAfter(t.UTC().Format(TimestampLayout), id, desc, dir)
}

func (b *Builder) keysetAfter(value, id string, desc bool, dir Direction) *Builder {
	b.keysetOp = KeysetOperator(desc, dir)
	b.keysetParams = []string{value, value, id}
	return b
}

// keysetFragment renders the boundary against the current sort column, so
// calling Sort after KeysetAfter still compares the right column.
func (b *Builder) keysetFragment() string {
	if b.keysetOp == "" {
		return ""
	}
	return fmt.Sprintf("((%[1]s %[2]s %[4]s) OR (%[1]s = %[4]s AND %[3]s %[2]s ?))",
		b.SortExpr(), b.keysetOp, idColumn, b.boundary())
}

// SortExpr returns the expression rows are ordered and compared by: the sort
// column, or its strftime form for a time column under SQLite.
func (b *Builder) SortExpr() string {
	if b.timeSort && b.dialect == SQLite {
		return "strftime('" + sqliteTimeFormat + "', " + b.sortColumn + ")"
	}
	return b.sortColumn
}

// boundary is the placeholder expression of the keyset value. It goes
// through the same conversion as SortExpr.
func (b *Builder) boundary() string {
	if b.timeSort && b.dialect == SQLite {
		return "strftime('" + sqliteTimeFormat + "', ?)"
	}
	return "?"
}

// Err returns the first configuration error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Conditions returns the filter conditions in insertion order.
func (b *Builder) Conditions() []Condition {
	out := make([]Condition, len(b.conditions))
	copy(out, b.conditions)
	return out
}

// FilterParams returns the parameters of the filter conditions, in order.
func (b *Builder) FilterParams() []string {
	return append([]string(nil), b.filterParams...)
}

// Keyset returns the keyset fragment and its parameters, or "" when no
// boundary is set.
func (b *Builder) Keyset() (string, []string) {
	return b.keysetFragment(), append([]string(nil), b.keysetParams...)
}

// PageLimit returns the configured row limit.
func (b *Builder) PageLimit() int {
	return b.limit
}

// SortColumn returns the sort column and normalized order.
func (b *Builder) SortColumn() (string, string) {
	return b.sortColumn, b.order
}

// BuildCount returns SELECT COUNT(*) under the filter conditions. The keyset
// boundary does not apply to a total count.
func (b *Builder) BuildCount() (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}
	return Statement{
		SQL:    "SELECT COUNT(*) FROM " + b.table + b.where(false),
		Params: b.FilterParams(),
	}, nil
}

// BuildSimple returns an offset-paginated SELECT. Parameters are the filter
// parameters, then the limit, then the offset.
func (b *Builder) BuildSimple(offset int) (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}
	if offset < 0 {
		return Statement{}, fmt.Errorf("offset must not be negative, got %d", offset)
	}

	sql := "SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table + b.where(false) +
		" ORDER BY " + orderBy(b.SortExpr(), idColumn, b.order) + " LIMIT ? OFFSET ?"

	params := b.FilterParams()
	params = append(params, strconv.Itoa(b.limit), strconv.Itoa(offset))

	return Statement{SQL: sql, Params: params}, nil
}

// BuildCTE returns a keyset-paginated SELECT using a deferred join:
//
//	WITH ids AS (
//	    SELECT id, <sort> AS sort_key FROM <table> WHERE <filters> AND <keyset>
//	    ORDER BY <sort> <dir>, id <dir> LIMIT ?
//	)
//	SELECT <table>.* FROM <table> INNER JOIN ids ON <table>.id = ids.id
//	ORDER BY ids.sort_key <dir>, ids.id <dir>
//
// The inner query touches only (id, sort column) and fetches limit+1 rows;
// the extra row tells the caller another page exists. For Prev the scan
// order is inverted and the returned Statement has Reversed set.
//
// Parameters are the filter parameters, then the keyset parameters, then the limit.
func (b *Builder) BuildCTE(dir Direction, desc bool) (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}

	scan := ScanOrder(desc, dir)
	inner := "SELECT " + idColumn + ", " + b.SortExpr() + " AS sort_key FROM " + b.table +
		b.where(true) + " ORDER BY " + orderBy(b.SortExpr(), idColumn, scan) + " LIMIT ?"

	sql := "WITH ids AS (" + inner + ") SELECT " + b.outerColumns() + " FROM " + b.table +
		" INNER JOIN ids ON " + b.table + "." + idColumn + " = ids." + idColumn +
		" ORDER BY ids.sort_key " + scan + ", ids." + idColumn + " " + scan

	params := make([]string, 0, len(b.filterParams)+len(b.keysetParams)+1)
	params = append(params, b.filterParams...)
	params = append(params, b.keysetParams...)
	params = append(params, strconv.Itoa(b.limit+1))

	return Statement{SQL: sql, Params: params, Reversed: dir == Prev}, nil
}

func (b *Builder) add(fragment string, params []string) *Builder {
	if n := CountPlaceholders(fragment); n != len(params) {
		b.setErr(errors.Wrapf(ErrPlaceholderCount, "%q has %d placeholders, got %d parameters", fragment, n, len(params)))
		return b
	}
	b.conditions = append(b.conditions, Condition{Fragment: fragment, Params: append([]string(nil), params...)})
	b.filterParams = append(b.filterParams, params...)
	return b
}

func (b *Builder) checkColumn(column string) error {
	if b.guard != nil {
		return b.guard.Validate(column)
	}
	return whitelist.ValidateFieldName(column, whitelist.ReportFieldConfig())
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) where(withKeyset bool) string {
	parts := make([]string, 0, len(b.conditions)+1)
	for _, c := range b.conditions {
		parts = append(parts, c.Fragment)
	}
	if keyset := b.keysetFragment(); withKeyset && keyset != "" {
		parts = append(parts, keyset)
	}
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func (b *Builder) outerColumns() string {
	if len(b.columns) == 1 && b.columns[0] == "*" {
		return b.table + ".*"
	}
	qualified := make([]string, len(b.columns))
	for i, c := range b.columns {
		if strings.Contains(c, ".") {
			qualified[i] = c
		} else {
			qualified[i] = b.table + "." + c
		}
	}
	return strings.Join(qualified, ", ")
}

func orderBy(sortColumn, tieBreak, dir string) string {
	if sortColumn == tieBreak {
		return sortColumn + " " + dir
	}
	return sortColumn + " " + dir + ", " + tieBreak + " " + dir
}
