package paging

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nrfta/records-paging/query"
)

const (
	// DefaultPageSize is the page size when a request does not name one.
	DefaultPageSize = 50

	// DefaultMaxPageSize caps the page size of any request.
	DefaultMaxPageSize = 100
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PaginationQuery is a listing request as parsed from the transport layer.
//
// A non-empty Cursor selects keyset mode; otherwise the request is served in
// offset mode with offset = (page-1) * page_size.
type PaginationQuery struct {
	Page      *int              `json:"page,omitempty" validate:"omitempty,gte=1"`
	PageSize  *int              `json:"page_size,omitempty"`
	Cursor    string            `json:"cursor,omitempty" validate:"max=1024"`
	Direction string            `json:"direction,omitempty" validate:"omitempty,oneof=next prev"`
	Search    string            `json:"search,omitempty" validate:"max=200"`
	Filters   map[string]string `json:"filters,omitempty" validate:"dive,keys,min=1,max=64,endkeys,max=512"`
	SortBy    string            `json:"sort_by,omitempty" validate:"max=128"`
	SortOrder string            `json:"sort_order,omitempty" validate:"omitempty,oneof=ASC DESC"`
}

// Validate checks the request shape. Direction and sort order are compared
// case-insensitively. Page size is not checked here: it is clamped, never
// rejected.
func (q PaginationQuery) Validate() error {
	n := q
	n.Direction = strings.ToLower(strings.TrimSpace(q.Direction))
	n.SortOrder = strings.ToUpper(strings.TrimSpace(q.SortOrder))
	if err := validate.Struct(n); err != nil {
		return &QueryError{Err: err}
	}
	return nil
}

// IsKeyset reports whether the request carries a cursor.
func (q PaginationQuery) IsKeyset() bool {
	return q.Cursor != ""
}

// PageNumber returns the requested page, defaulting to 1.
func (q PaginationQuery) PageNumber() int {
	if q.Page == nil || *q.Page < 1 {
		return 1
	}
	return *q.Page
}

// TraversalDirection returns the keyset direction, defaulting to next.
func (q PaginationQuery) TraversalDirection() query.Direction {
	return query.ParseDirection(q.Direction)
}

// PageConfig holds the page size policy.
//
// Example:
//
//	config := paging.NewPageConfig().WithMaxSize(25).WithStrictCursor(true)
//	limit := config.EffectiveLimit(q)
type PageConfig struct {
	// DefaultSize is used when the request names no page size.
	DefaultSize int

	// MaxSize caps the page size. Larger requests are clamped, not rejected.
	MaxSize int

	// StrictCursor rejects malformed cursors with ErrInvalidCursor instead
	// of restarting from the first page.
	StrictCursor bool
}

// NewPageConfig returns the default policy: 50 per page, at most 100.
func NewPageConfig() *PageConfig {
	return &PageConfig{
		DefaultSize: DefaultPageSize,
		MaxSize:     DefaultMaxPageSize,
	}
}

// WithDefaultSize sets the default page size and returns the config for chaining.
func (c *PageConfig) WithDefaultSize(size int) *PageConfig {
	if size > 0 {
		c.DefaultSize = size
	}
	return c
}

// WithMaxSize sets the maximum page size and returns the config for chaining.
func (c *PageConfig) WithMaxSize(size int) *PageConfig {
	if size > 0 {
		c.MaxSize = size
	}
	return c
}

// WithStrictCursor sets cursor strictness and returns the config for chaining.
func (c *PageConfig) WithStrictCursor(strict bool) *PageConfig {
	c.StrictCursor = strict
	return c
}

// EffectiveLimit returns the page size to use for q:
//   - no page size: DefaultSize
//   - below 1: 1
//   - above MaxSize: MaxSize
func (c *PageConfig) EffectiveLimit(q PaginationQuery) int {
	if c == nil {
		c = NewPageConfig()
	}

	maxSize := c.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}
	defaultSize := c.DefaultSize
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}

	switch {
	case q.PageSize == nil:
		return defaultSize
	case *q.PageSize < 1:
		return 1
	case *q.PageSize > maxSize:
		return maxSize
	}
	return *q.PageSize
}

// Offset returns the row offset of q's page under the effective limit.
func (c *PageConfig) Offset(q PaginationQuery) int {
	return (q.PageNumber() - 1) * c.EffectiveLimit(q)
}
