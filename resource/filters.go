package resource

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/records-paging/enum"
	"github.com/nrfta/records-paging/filter"
)

// ErrInvalidFilterValue is returned when a raw filter value cannot be parsed.
var ErrInvalidFilterValue = errors.New("invalid filter value")

// Match is a parsed filter: the operator and the typed value it compares with.
type Match struct {
	Op    string
	Value filter.Value
}

// ParseFunc turns a raw request value into the matches it stands for. All
// returned matches apply together.
type ParseFunc func(raw string) ([]Match, error)

// FilterSpec binds an API filter name to a column and a parser.
type FilterSpec struct {
	Column string
	Parse  ParseFunc
}

// Eq filters column = value, treating the raw value as text.
func Eq(column string) FilterSpec {
	return FilterSpec{Column: column, Parse: func(raw string) ([]Match, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, errors.Wrap(ErrInvalidFilterValue, "empty value")
		}
		return []Match{{Op: "=", Value: filter.String(raw)}}, nil
	}}
}

// OneOf filters a column against a comma separated list of enumeration
// names. Names are canonicalized, so "LOW_STOCK" binds as "low_stock".
func OneOf[T comparable](column string, names *enum.Enum[T]) FilterSpec {
	return FilterSpec{Column: column, Parse: func(raw string) ([]Match, error) {
		parts := splitList(raw)
		if len(parts) == 0 {
			return nil, errors.Wrap(ErrInvalidFilterValue, "empty value")
		}
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			v, err := names.Parse(p)
			if err != nil {
				return nil, errors.Wrap(ErrInvalidFilterValue, err.Error())
			}
			out = append(out, names.String(v))
		}
		if len(out) == 1 {
			return []Match{{Op: "=", Value: filter.String(out[0])}}, nil
		}
		return []Match{{Op: "=", Value: filter.Strings(out...)}}, nil
	}}
}

// Flag filters a boolean column from "true", "false", "1" or "0".
func Flag(column string) FilterSpec {
	return FilterSpec{Column: column, Parse: func(raw string) ([]Match, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidFilterValue, "%q is not a boolean", raw)
		}
		return []Match{{Op: "=", Value: filter.Boolean(b)}}, nil
	}}
}

// FloatBetween filters a numeric column with "from..to". Either bound may be
// omitted: "5.." is column >= 5 and "..5" is column <= 5.
func FloatBetween(column string) FilterSpec {
	return FilterSpec{Column: column, Parse: between(parseFloat, filter.Float, filter.FloatRange)}
}

// IntBetween is FloatBetween for integer columns.
func IntBetween(column string) FilterSpec {
	return FilterSpec{Column: column, Parse: between(parseInt, filter.Integer, filter.IntegerRange)}
}

// DateBetween filters a date or timestamp column with "from..to". Bounds are
// compared as text, so they use YYYY-MM-DD or a longer ISO 8601 form. A
// date-only upper bound takes in the whole day: "..2024-01-31" is
// column < '2024-02-01', so timestamps after midnight on the 31st match.
func DateBetween(column string) FilterSpec {
	return FilterSpec{Column: column, Parse: func(raw string) ([]Match, error) {
		from, to, err := splitRange(raw)
		if err != nil {
			return nil, err
		}

		var out []Match
		if from != "" {
			lo, err := parseDate(from)
			if err != nil {
				return nil, err
			}
			out = append(out, Match{Op: ">=", Value: filter.String(lo)})
		}
		if to != "" {
			hi, err := parseDate(to)
			if err != nil {
				return nil, err
			}
			if next, ok := nextDay(hi); ok {
				out = append(out, Match{Op: "<", Value: filter.String(next)})
			} else {
				out = append(out, Match{Op: "<=", Value: filter.String(hi)})
			}
		}
		return out, nil
	}}
}

// between parses "from..to", producing BETWEEN for two bounds and >= or <=
// for one.
func between[T any](parse func(string) (T, error), one func(T) filter.Value, both func(T, T) filter.Value) ParseFunc {
	return func(raw string) ([]Match, error) {
		from, to, err := splitRange(raw)
		if err != nil {
			return nil, err
		}

		var lo, hi T
		if from != "" {
			if lo, err = parse(from); err != nil {
				return nil, err
			}
		}
		if to != "" {
			if hi, err = parse(to); err != nil {
				return nil, err
			}
		}

		switch {
		case from != "" && to != "":
			return []Match{{Op: "=", Value: both(lo, hi)}}, nil
		case from != "":
			return []Match{{Op: ">=", Value: one(lo)}}, nil
		}
		return []Match{{Op: "<=", Value: one(hi)}}, nil
	}
}

// splitRange splits "from..to" into trimmed bounds, at least one non-empty.
func splitRange(raw string) (string, string, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(raw), "..")
	if !ok {
		return "", "", errors.Wrap(ErrInvalidFilterValue, fmt.Sprintf("%q is not a from..to range", raw))
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return "", "", errors.Wrap(ErrInvalidFilterValue, "range has no bounds")
	}
	return from, to, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidFilterValue, "%q is not a number", s)
	}
	return f, nil
}

func parseInt(s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidFilterValue, "%q is not an integer", s)
	}
	return i, nil
}

const dateLayout = "2006-01-02"

func parseDate(s string) (string, error) {
	if len(s) < len(dateLayout) || s[4] != '-' || s[7] != '-' {
		return "", errors.Wrapf(ErrInvalidFilterValue, "%q is not a YYYY-MM-DD date", s)
	}
	return s, nil
}

// nextDay returns the day after a YYYY-MM-DD date. ok is false for longer
// timestamp bounds.
func nextDay(s string) (string, bool) {
	if len(s) != len(dateLayout) {
		return "", false
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", false
	}
	return d.AddDate(0, 0, 1).Format(dateLayout), true
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
