package paging

import (
	"strconv"
	"time"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/records-paging/cursor"
	"github.com/nrfta/records-paging/query"
	"github.com/nrfta/records-paging/whitelist"
)

// FinalizeKeyset turns the rows of a keyset statement into a display page.
//
// rows must be the result of stmt, built with query.Builder.BuildCTE for a
// page of limit rows, so it holds at most limit+1 rows in scan order. The
// lookahead row is dropped, rows of a Reversed statement are put back into
// display order, and the envelope flags and cursors are derived:
//
//	direction  has_next               has_prev
//	next       lookahead row present  request had a cursor
//	prev       request had a cursor   lookahead row present
//
// next_cursor points at the last displayed row and prev_cursor at the first.
// The envelope's Total is left for the caller to fill.
func FinalizeKeyset[T Row](rows []T, stmt query.Statement, limit int, hadCursor bool, field whitelist.SortField) ([]T, PageInfo, error) {
	more := len(rows) > limit
	if more {
		rows = rows[:limit]
	}

	items := make([]T, len(rows))
	copy(items, rows)
	if stmt.Reversed {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	var info PageInfo
	if len(items) == 0 {
		return items, info, nil
	}

	if stmt.Reversed {
		info.HasPrev = more
		info.HasNext = hadCursor
	} else {
		info.HasNext = more
		info.HasPrev = hadCursor
	}

	if info.HasNext {
		c, err := CursorFor(items[len(items)-1], field)
		if err != nil {
			return nil, PageInfo{}, err
		}
		info.NextCursor = &c
	}
	if info.HasPrev {
		c, err := CursorFor(items[0], field)
		if err != nil {
			return nil, PageInfo{}, err
		}
		info.PrevCursor = &c
	}

	return items, info, nil
}

// CursorFor encodes the keyset position of row under field. Numeric fields
// use the float codec and time fields the microsecond codec.
func CursorFor(row Row, field whitelist.SortField) (string, error) {
	raw, ok := row.SortValue(field.Column)
	if !ok {
		return "", errors.Wrapf(ErrMissingSortValue, "row %s: column %s", row.RowID(), field.Column)
	}

	switch field.Kind {
	case whitelist.SortNumeric:
		v, err := sortNumber(raw)
		if err != nil {
			return "", errors.Wrapf(err, "row %s: column %s", row.RowID(), field.Column)
		}
		return cursor.Encode(v, row.RowID()), nil

	case whitelist.SortTime:
		t, err := sortTime(raw)
		if err != nil {
			return "", errors.Wrapf(err, "row %s: column %s", row.RowID(), field.Column)
		}
		return cursor.EncodeTime(t, row.RowID()), nil
	}

	return "", errors.Errorf("sort key %s does not support keyset pagination", field.Key)
}

func sortNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case []byte:
		return sortNumber(string(n))
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, errors.Wrapf(ErrMissingSortValue, "%q is not a number", n)
		}
		return f, nil
	}
	return 0, errors.Wrapf(ErrMissingSortValue, "unsupported numeric type %T", v)
}

// timeLayouts are tried in order when a time column is read back as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func sortTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case []byte:
		return sortTime(string(t))
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, errors.Wrapf(ErrMissingSortValue, "%q is not a timestamp", t)
	}
	return time.Time{}, errors.Wrapf(ErrMissingSortValue, "unsupported time type %T", v)
}

// ValidCursor reports whether token decodes under the codec of field.
// Non-keyset fields accept no cursor.
func ValidCursor(token string, field whitelist.SortField) bool {
	if !field.Keyset {
		return false
	}
	switch field.Kind {
	case whitelist.SortNumeric:
		_, ok := cursor.Decode(token)
		return ok
	case whitelist.SortTime:
		_, ok := cursor.DecodeMicros(token)
		return ok
	}
	return false
}
