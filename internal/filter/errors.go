package filter

import "errors"

// Every operation that returns one of these leaves the sequence unchanged
// and pushes nothing to the owner.
var (
	ErrIndexOutOfRange = errors.New("filter: index out of range")
	ErrLimitReached    = errors.New("filter: entities limit reached")
	ErrReadOnly        = errors.New("filter: list is read-only")
	ErrDisabled        = errors.New("filter: list is disabled")
	ErrNotSortable     = errors.New("filter: list is not sortable")
	ErrSuppressed      = errors.New("filter: affordance not available")
	ErrNoRenameTarget  = errors.New("filter: no rename in progress")
	ErrMathUnavailable = errors.New("filter: math not available")
)
