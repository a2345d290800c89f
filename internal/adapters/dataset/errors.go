package dataset

import (
	"errors"
	"fmt"
)

// Sentinel kinds for loader errors.
var (
	ErrNotFound = errors.New("dataset file not found")
	ErrFormat   = errors.New("dataset format error")
)

// LoadError describes where loading failed. It unwraps to ErrNotFound or
// ErrFormat.
type LoadError struct {
	Year   int
	Path   string
	Column string
	Row    int // 1-based data row, 0 when not row specific
	Kind   error
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %d (%s)", e.Year, e.Path)
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
