package whitelist

import (
	"fmt"
	"sort"
)

// SortKind is the value type of a sortable column. It decides which cursor
// codec a keyset boundary for the column uses.
type SortKind int

const (
	SortText SortKind = iota
	SortNumeric
	SortTime
)

// SortField maps an API-facing sort key to its backing column.
type SortField struct {
	// Key is the name clients send as sort_by, e.g. "total_quantity".
	Key string

	// Column is the SQL column spliced into ORDER BY. It may be qualified.
	Column string

	Kind SortKind

	// Keyset marks the column as eligible for keyset pagination. Only columns
	// backed by an index on (column, id) should be marked.
	Keyset bool
}

// SortWhitelist resolves sort keys for one resource.
//
// Unknown or empty keys resolve to the default field. This is the one
// sanctioned silent fallback in the package; filter fields are never
// substituted.
//
// Example:
//
//	var reagentSorts = whitelist.NewSortWhitelist().
//	    Field("name", "name", whitelist.SortText).
//	    KeysetField("total_quantity", "total_quantity", whitelist.SortNumeric).
//	    DefaultKeysetField("created_at", "created_at", whitelist.SortTime)
//
//	reagentSorts.Validate("bogus") // "created_at"
type SortWhitelist struct {
	fields   map[string]SortField
	columns  *FieldWhitelist
	fallback *SortField
}

// NewSortWhitelist creates an empty sort whitelist. Register fields with
// Field, KeysetField and one of the Default* methods before sharing it.
func NewSortWhitelist() *SortWhitelist {
	return &SortWhitelist{
		fields:  make(map[string]SortField),
		columns: New(ReportFieldConfig()),
	}
}

// Field registers a sort key that only supports offset pagination.
func (s *SortWhitelist) Field(key, column string, kind SortKind) *SortWhitelist {
	return s.register(SortField{Key: key, Column: column, Kind: kind}, false)
}

// KeysetField registers a sort key eligible for keyset pagination.
func (s *SortWhitelist) KeysetField(key, column string, kind SortKind) *SortWhitelist {
	return s.register(SortField{Key: key, Column: column, Kind: kind, Keyset: true}, false)
}

// DefaultField registers an offset-only sort key and makes it the fallback.
func (s *SortWhitelist) DefaultField(key, column string, kind SortKind) *SortWhitelist {
	return s.register(SortField{Key: key, Column: column, Kind: kind}, true)
}

// DefaultKeysetField registers a keyset-eligible sort key and makes it the fallback.
func (s *SortWhitelist) DefaultKeysetField(key, column string, kind SortKind) *SortWhitelist {
	return s.register(SortField{Key: key, Column: column, Kind: kind, Keyset: true}, true)
}

// register panics on invalid definitions: sort whitelists are package-level
// values and a bad column is a programming error.
func (s *SortWhitelist) register(f SortField, isDefault bool) *SortWhitelist {
	if err := s.columns.Add(f.Column); err != nil {
		panic(fmt.Sprintf("whitelist: sort key %q: %v", f.Key, err))
	}
	if f.Keyset && f.Kind == SortText {
		panic(fmt.Sprintf("whitelist: sort key %q: text columns cannot use keyset pagination", f.Key))
	}

	s.fields[f.Key] = f
	if isDefault {
		s.fallback = &f
	}
	return s
}

// Default returns the fallback field.
func (s *SortWhitelist) Default() SortField {
	if s.fallback == nil {
		return SortField{Key: "id", Column: "id", Kind: SortText}
	}
	return *s.fallback
}

// Lookup returns the field registered under key.
func (s *SortWhitelist) Lookup(key string) (SortField, bool) {
	f, ok := s.fields[key]
	return f, ok
}

// Resolve returns the field for key, or the default field when key is unknown.
func (s *SortWhitelist) Resolve(key string) SortField {
	if f, ok := s.fields[key]; ok {
		return f
	}
	return s.Default()
}

// Validate returns the backing column for key, falling back to the default column.
func (s *SortWhitelist) Validate(key string) string {
	return s.Resolve(key).Column
}

// IsKeysetEligible reports whether key resolves to a keyset-eligible field.
// Callers must fall back to offset pagination when it returns false.
func (s *SortWhitelist) IsKeysetEligible(key string) bool {
	return s.Resolve(key).Keyset
}

// Keys returns the registered sort keys in sorted order.
func (s *SortWhitelist) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Supported projects keys down to the registered ones, preserving order.
func (s *SortWhitelist) Supported(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := s.fields[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
