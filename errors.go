package paging

import "github.com/friendsofgo/errors"

var (
	// ErrInvalidQuery matches every request rejection returned by Paginate.
	ErrInvalidQuery = errors.New("invalid pagination query")

	// ErrInvalidCursor is returned for a malformed cursor under a strict PageConfig.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrMissingSortValue is returned when a row cannot supply the value of
	// the column it is sorted by, so no cursor can be built from it.
	ErrMissingSortValue = errors.New("row has no usable sort value")
)

// QueryError is a request rejection. It matches ErrInvalidQuery with
// errors.Is and unwraps to the specific cause, such as a
// *whitelist.FieldValidationError or ErrInvalidCursor.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return ErrInvalidQuery.Error() + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}
