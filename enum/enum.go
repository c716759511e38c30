// Package enum provides a named enumeration with string round-trip.
//
// One Enum value describes a whole enumeration: the canonical string of each
// variant and the inverse lookup table, both built once at construction.
//
// Example:
//
//	type Status int
//
//	const (
//	    Available Status = iota
//	    Expired
//	)
//
//	var Statuses = enum.New(map[Status]string{
//	    Available: "available",
//	    Expired:   "expired",
//	})
//
//	Statuses.String(Expired)      // "expired"
//	Statuses.Parse("available")   // Available, nil
package enum

import (
	"fmt"
	"sort"
	"strings"
)

// Enum maps the variants of T to their canonical strings and back.
// It is read-only after New and safe for concurrent use.
type Enum[T comparable] struct {
	names    map[T]string
	values   map[string]T
	ordered  []string
	foldCase bool
}

// Option configures an Enum.
type Option func(*options)

type options struct {
	foldCase bool
}

// FoldCase makes Parse case-insensitive.
func FoldCase() Option {
	return func(o *options) {
		o.foldCase = true
	}
}

// New builds an enumeration from variant to canonical string.
// It panics if two variants share a name, since that is a programming error
// caught at package initialization.
func New[T comparable](names map[T]string, opts ...Option) *Enum[T] {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	e := &Enum[T]{
		names:    make(map[T]string, len(names)),
		values:   make(map[string]T, len(names)),
		ordered:  make([]string, 0, len(names)),
		foldCase: cfg.foldCase,
	}

	for v, name := range names {
		key := e.key(name)
		if _, dup := e.values[key]; dup {
			panic(fmt.Sprintf("enum: duplicate name %q", name))
		}
		e.names[v] = name
		e.values[key] = v
		e.ordered = append(e.ordered, name)
	}
	sort.Strings(e.ordered)

	return e
}

// String returns the canonical name of v, or "" when v is not a variant.
func (e *Enum[T]) String(v T) string {
	return e.names[v]
}

// Parse returns the variant named s.
func (e *Enum[T]) Parse(s string) (T, error) {
	if v, ok := e.values[e.key(s)]; ok {
		return v, nil
	}
	var zero T
	return zero, &ParseError{Value: s, Allowed: e.ordered}
}

// ParseOr returns the variant named s, or fallback when s is unknown.
func (e *Enum[T]) ParseOr(s string, fallback T) T {
	if v, ok := e.values[e.key(s)]; ok {
		return v
	}
	return fallback
}

// Valid reports whether v is a variant of the enumeration.
func (e *Enum[T]) Valid(v T) bool {
	_, ok := e.names[v]
	return ok
}

// Names returns all canonical names sorted alphabetically.
func (e *Enum[T]) Names() []string {
	out := make([]string, len(e.ordered))
	copy(out, e.ordered)
	return out
}

func (e *Enum[T]) key(s string) string {
	if e.foldCase {
		return strings.ToLower(s)
	}
	return s
}

// ParseError is returned by Parse for an unknown name.
type ParseError struct {
	Value   string
	Allowed []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unknown value %q (allowed: %s)", e.Value, strings.Join(e.Allowed, ", "))
}
