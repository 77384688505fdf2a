package document

import (
	"errors"
	"fmt"
)

// ErrEmptyFile indicates a zero-length input file.
var ErrEmptyFile = errors.New("zero-length file")

// ErrNotDocument indicates a file that is not a valid document container.
var ErrNotDocument = errors.New("not a valid document container")

// DocumentError is the fatal-per-document error: the file is missing,
// empty, or not a readable container. It aborts processing of that
// document only; batch processing continues with the others.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// IsDocumentError reports whether err is (or wraps) a DocumentError.
func IsDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}
