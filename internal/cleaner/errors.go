package cleaner

import (
	"errors"
	"fmt"
)

// ErrUnknownCandidate is returned when an operation names a path that is not
// in the review list.
var ErrUnknownCandidate = errors.New("note is not in the review list")

// ReadError wraps a failure to read one note during a scan.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// DeleteError wraps a failure to delete one note.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s: %v", e.Path, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}
