package query

import (
	"strings"

	"github.com/nrfta/records-paging/enum"
)

// Direction is the traversal direction of a keyset page request.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Directions is the enumeration of Direction names ("next", "prev").
var Directions = enum.New(map[Direction]string{
	Next: "next",
	Prev: "prev",
}, enum.FoldCase())

func (d Direction) String() string {
	return Directions.String(d)
}

// ParseDirection returns Prev for "prev" in any case and Next for anything else.
func ParseDirection(s string) Direction {
	return Directions.ParseOr(strings.TrimSpace(s), Next)
}

const (
	ASC  = "ASC"
	DESC = "DESC"
)

// NormalizeOrder returns "ASC" for any casing of "asc" and "DESC" otherwise.
func NormalizeOrder(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), ASC) {
		return ASC
	}
	return DESC
}

// KeysetOperator chooses the comparison against a keyset boundary so rows
// move strictly away from it:
//
//	order  direction  operator
//	DESC   next       <
//	DESC   prev       >
//	ASC    next       >
//	ASC    prev       <
func KeysetOperator(desc bool, dir Direction) string {
	if desc == (dir == Next) {
		return "<"
	}
	return ">"
}

// ScanOrder is the ORDER BY direction used to fetch rows. A prev page is
// fetched in the inverted order so the LIMIT keeps the rows closest to the
// boundary; the caller reverses them back to display order.
func ScanOrder(desc bool, dir Direction) string {
	if desc != (dir == Prev) {
		return DESC
	}
	return ASC
}
