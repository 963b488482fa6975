package engine

import "fmt"

// InvalidStateError reports an operation that is not legal in the current
// gesture state, such as committing when nothing is in progress. The model
// is left untouched.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NotFoundError reports a reference to an annotation id that is not part of
// the session.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("annotation %d not found", e.ID)
}
