// Package apperr defines the error kinds surfaced to users.
//
// Store operations return ParseError, NotFoundError and IOError.
// The materializer records IconConversionError and the same file errors per
// folder. AttributeError is only ever logged.
package apperr

import "fmt"

// ParseError reports a malformed configuration document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed configuration %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports a missing configuration or icon source.
type NotFoundError struct {
	What string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

// IOError reports a disk or permission failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IconConversionError reports an image that could not be decoded or encoded.
type IconConversionError struct {
	Source string
	Err    error
}

func (e *IconConversionError) Error() string {
	return fmt.Sprintf("convert icon %s: %v", e.Source, e.Err)
}

func (e *IconConversionError) Unwrap() error { return e.Err }

// AttributeError reports a failed best-effort shell integration call.
type AttributeError struct {
	Op   string
	Path string
	Err  error
}

func (e *AttributeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }
