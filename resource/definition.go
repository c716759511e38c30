// Package resource declares the listable lab records: which columns each one
// exposes to filtering and sorting, how request filter values are parsed, and
// which columns free-text search covers.
//
// A Definition turns an untrusted request into query.Builder calls. Filter
// names are looked up in the definition and rejected when unknown; sort keys
// resolve through the sort whitelist with its default as fallback.
package resource

import (
	"sort"
	"strings"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/records-paging/query"
	"github.com/nrfta/records-paging/whitelist"
)

// Definition describes one listable resource.
type Definition struct {
	// Name is the resource name used by callers, e.g. "reagents".
	Name string

	Table string

	// Fields guards every column spliced into SQL for this resource.
	Fields *whitelist.FieldWhitelist

	Sorts *whitelist.SortWhitelist

	// Filters maps request filter names to columns and parsers.
	Filters map[string]FilterSpec

	// Search lists the columns matched with LIKE by a free-text search.
	Search []string

	// Scope is an optional placeholder-free condition applied to every query,
	// e.g. "archived = 0".
	Scope string
}

// Builder returns a query builder over the resource table guarded by Fields.
func (d *Definition) Builder() *query.Builder {
	b := query.New(d.Table).Guard(d.Fields)
	if d.Scope != "" {
		b.AddRawCondition(d.Scope)
	}
	return b
}

// FilterNames returns the accepted filter names, sorted.
func (d *Definition) FilterNames() []string {
	names := make([]string, 0, len(d.Filters))
	for name := range d.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyFilters parses each request filter and adds it to b. Filters are
// applied in name order so the generated SQL is stable. An unknown name fails
// with a whitelist.FieldValidationError; an unparsable value fails with
// ErrInvalidFilterValue.
func (d *Definition) ApplyFilters(b *query.Builder, filters map[string]string) error {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, ok := d.Filters[name]
		if !ok {
			return &whitelist.FieldValidationError{
				Field:  name,
				Rule:   whitelist.RuleNotAllowed,
				Detail: "not a filter of " + d.Name,
			}
		}
		matches, err := spec.Parse(filters[name])
		if err != nil {
			return errors.Wrapf(err, "filter %s", name)
		}
		for _, m := range matches {
			b.AddFilter(spec.Column, m.Op, m.Value)
		}
	}
	return b.Err()
}

// ApplySearch adds a LIKE match of term over the search columns. A blank
// term, or a resource without search columns, adds nothing.
func (d *Definition) ApplySearch(b *query.Builder, term string) {
	term = strings.TrimSpace(term)
	if term == "" || len(d.Search) == 0 {
		return
	}

	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(d.Search))
	params := make([]string, len(d.Search))
	for i, col := range d.Search {
		parts[i] = col + " LIKE ? ESCAPE '\\'"
		params[i] = pattern
	}
	b.AddSearch(strings.Join(parts, " OR "), params...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
