// Package cursor encodes keyset pagination positions into opaque tokens.
//
// A position is the pair (sort value, row id) of the boundary row of a page.
// The token is the hex encoding of "<sort value>|<row id>", which keeps it
// free of characters that need escaping in URLs or query strings.
//
// Example usage:
//
//	token := cursor.Encode(100.5, "abc-123")
//	// → "3130302e357c6162632d313233"
//
//	pos, ok := cursor.Decode(token)
//	// pos.Value == 100.5, pos.ID == "abc-123", ok == true
//
// Tokens are not authenticated. A client can hand-build one to seek to any
// position, so the rows a cursor selects must still go through the normal
// row-level authorization of the listing.
package cursor

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const separator = "|"

// Position is a decoded keyset boundary for a numeric sort column.
type Position struct {
	Value float64
	ID    string
}

// TimePosition is a decoded keyset boundary for a time-valued sort column.
// Micros is the boundary time in microseconds since the Unix epoch.
type TimePosition struct {
	Micros int64
	ID     string
}

// Time returns the boundary as a UTC time.Time.
func (p TimePosition) Time() time.Time {
	return time.UnixMicro(p.Micros).UTC()
}

// Encode serializes a numeric sort value and row id into an opaque token.
// It always succeeds.
func Encode(value float64, id string) string {
	return encodeRaw(strconv.FormatFloat(value, 'f', -1, 64), id)
}

// Decode parses a token produced by Encode.
//
// It returns ok == false, never panicking, when the token is not valid hex,
// has odd length, is not UTF-8, has no separator or has a non-numeric value
// part. Everything after the first separator is returned verbatim as the id,
// including further separators.
func Decode(token string) (Position, bool) {
	left, id, ok := decodeRaw(token)
	if !ok {
		return Position{}, false
	}

	value, err := strconv.ParseFloat(left, 64)
	if err != nil {
		return Position{}, false
	}

	return Position{Value: value, ID: id}, true
}

// EncodeMicros serializes a microsecond timestamp and row id into an opaque token.
func EncodeMicros(micros int64, id string) string {
	return encodeRaw(strconv.FormatInt(micros, 10), id)
}

// DecodeMicros parses a token produced by EncodeMicros or EncodeTime.
// It fails in the same cases as Decode.
func DecodeMicros(token string) (TimePosition, bool) {
	left, id, ok := decodeRaw(token)
	if !ok {
		return TimePosition{}, false
	}

	micros, err := strconv.ParseInt(left, 10, 64)
	if err != nil {
		return TimePosition{}, false
	}

	return TimePosition{Micros: micros, ID: id}, true
}

// EncodeTime is EncodeMicros for a time.Time. Precision below a microsecond is dropped.
func EncodeTime(t time.Time, id string) string {
	return EncodeMicros(t.UnixMicro(), id)
}

func encodeRaw(value, id string) string {
	return hex.EncodeToString([]byte(value + separator + id))
}

func decodeRaw(token string) (string, string, bool) {
	if token == "" {
		return "", "", false
	}

	// hex.DecodeString rejects odd length and non-hex characters.
	decoded, err := hex.DecodeString(token)
	if err != nil {
		return "", "", false
	}

	if !utf8.Valid(decoded) {
		return "", "", false
	}

	return strings.Cut(string(decoded), separator)
}
