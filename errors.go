package vision

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by LookupError when a bank or sprite is missing.
var ErrNotFound = errors.New("vision: not found")

// ResourceLoadError reports an image that is missing, unreadable, or fails to
// decode.
type ResourceLoadError struct {
	Path string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("vision: load %s: %v", e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }

// ParseError reports a record that lacks required fields or holds malformed
// values. Fields names every offending attribute.
type ParseError struct {
	Kind   string // record kind, e.g. "sprite" or "tile"
	Fields []string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("vision: parse ")
	b.WriteString(e.Kind)
	if len(e.Fields) > 0 {
		b.WriteString(": invalid or missing ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// LookupError reports a bank/sprite pair that could not be resolved.
type LookupError struct {
	Bank string
	Name string
}

func (e *LookupError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("vision: bank %q not found", e.Bank)
	}
	return fmt.Sprintf("vision: sprite %q not found in bank %q", e.Name, e.Bank)
}

func (e *LookupError) Unwrap() error { return ErrNotFound }
