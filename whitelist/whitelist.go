package whitelist

import (
	"fmt"
	"sort"
	"sync"
)

// FieldWhitelist is an exact allow-list of field names under one FieldConfig.
//
// A field is allowed when it passes ValidateFieldName and is a member of the
// list. Instances are meant to be built once at startup and shared; Add and
// Remove take an exclusive lock so they are safe alongside concurrent readers.
type FieldWhitelist struct {
	mu     sync.RWMutex
	fields map[string]struct{}
	config FieldConfig
}

// New creates a whitelist. Names that fail syntax validation are still
// stored but can never be allowed; use MustNew to catch them at startup.
func New(config FieldConfig, fields ...string) *FieldWhitelist {
	w := &FieldWhitelist{
		fields: make(map[string]struct{}, len(fields)),
		config: config,
	}
	for _, f := range fields {
		w.fields[f] = struct{}{}
	}
	return w
}

// MustNew is New but panics if any field fails syntax validation.
func MustNew(config FieldConfig, fields ...string) *FieldWhitelist {
	for _, f := range fields {
		if err := ValidateFieldName(f, config); err != nil {
			panic(fmt.Sprintf("whitelist: %v", err))
		}
	}
	return New(config, fields...)
}

// Config returns the syntax policy of the whitelist.
func (w *FieldWhitelist) Config() FieldConfig {
	return w.config
}

// IsAllowed reports whether field is syntactically valid and listed.
func (w *FieldWhitelist) IsAllowed(field string) bool {
	return w.Validate(field) == nil
}

// Validate returns a *FieldValidationError naming the broken rule, or nil.
func (w *FieldWhitelist) Validate(field string) error {
	if err := ValidateFieldName(field, w.config); err != nil {
		return err
	}

	w.mu.RLock()
	_, ok := w.fields[field]
	w.mu.RUnlock()

	if !ok {
		return fail(field, RuleNotAllowed, "not in the allowed field list")
	}
	return nil
}

// FilterFields returns the allowed entries of fields, preserving their order.
func (w *FieldWhitelist) FilterFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if w.IsAllowed(f) {
			out = append(out, f)
		}
	}
	return out
}

// Fields returns the listed names in sorted order.
func (w *FieldWhitelist) Fields() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.fields))
	for f := range w.fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Add lists a new field after validating its syntax.
func (w *FieldWhitelist) Add(field string) error {
	if err := ValidateFieldName(field, w.config); err != nil {
		return err
	}

	w.mu.Lock()
	w.fields[field] = struct{}{}
	w.mu.Unlock()
	return nil
}

// Remove unlists a field. Removing an unknown field is a no-op.
func (w *FieldWhitelist) Remove(field string) {
	w.mu.Lock()
	delete(w.fields, field)
	w.mu.Unlock()
}
