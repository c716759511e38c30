package resource

import (
	"fmt"
	"sort"

	"github.com/nrfta/records-paging/whitelist"
)

// Validate checks that the table name is well formed and that every filter
// and search column is allowed by Fields.
func (d *Definition) Validate() error {
	if err := whitelist.ValidateFieldName(d.Table, whitelist.TableFieldConfig()); err != nil {
		return fmt.Errorf("resource %s: table: %w", d.Name, err)
	}
	for name, spec := range d.Filters {
		if err := d.Fields.Validate(spec.Column); err != nil {
			return fmt.Errorf("resource %s: filter %s: %w", d.Name, name, err)
		}
	}
	for _, col := range d.Search {
		if err := d.Fields.Validate(col); err != nil {
			return fmt.Errorf("resource %s: search: %w", d.Name, err)
		}
	}
	for _, key := range d.Sorts.Keys() {
		f, _ := d.Sorts.Lookup(key)
		if err := d.Fields.Validate(f.Column); err != nil {
			return fmt.Errorf("resource %s: sort %s: %w", d.Name, key, err)
		}
	}
	return nil
}

var registry = map[string]*Definition{}

func define(d *Definition) *Definition {
	if err := d.Validate(); err != nil {
		panic(err)
	}
	if _, dup := registry[d.Name]; dup {
		panic("resource: duplicate definition " + d.Name)
	}
	registry[d.Name] = d
	return d
}

// Lookup returns the definition registered under name.
func Lookup(name string) (*Definition, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns every registered resource name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
