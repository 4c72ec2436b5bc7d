package imgconv

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when the input image does not exist
	ErrInputNotFound = errors.New("imgconv: input not found")

	// ErrWriteFailure is matched by any error writing an output file
	ErrWriteFailure = errors.New("imgconv: write failure")
)

// WriteError records the output file that could not be written. It
// matches ErrWriteFailure with errors.Is.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("imgconv: write failure: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrWriteFailure
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailure
}
