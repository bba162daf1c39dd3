// Package apperr defines the error kinds shared by the ingest and rebuild pipelines.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrRegionNotFound = errors.New("region not found")
	ErrInvalidRecord  = errors.New("invalid record")
)

// FormatError reports a malformed note source, either a raw text file or a
// rendered article.
type FormatError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("format: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("format: %s %q: %s", e.Field, e.Value, e.Reason)
}

// IsFormat reports whether err wraps a *FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
