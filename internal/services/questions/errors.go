package questions

import (
	"errors"
	"fmt"
)

// ErrInvalidFile is returned when an import document cannot be parsed
var ErrInvalidFile = errors.New("invalid question file")

// RecordError pinpoints the invalid record in an import document
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("question %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ImportError reports a store failure part way through an import. The first
// Imported records were stored and stay stored.
type ImportError struct {
	Imported int
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import stopped after %d questions: %v", e.Imported, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
