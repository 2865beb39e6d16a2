package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure kind. Concrete error types below match
// their sentinel through errors.Is.
var (
	ErrPathSecurity  = errors.New("path escapes permitted base directory")
	ErrNotFound      = errors.New("file not found")
	ErrParse         = errors.New("cannot parse JSON")
	ErrEmptyInput    = errors.New("empty input")
	ErrEmptyData     = errors.New("empty data")
	ErrInvalidShape  = errors.New("data cannot be converted to a table")
	ErrInvalidLimit  = errors.New("invalid row limit")
	ErrInputTooLarge = errors.New("input too large")
)

// PathSecurityError reports a requested path that resolves outside the base
// directory, or a path whose resolution failed.
type PathSecurityError struct {
	Requested string // Path as supplied by the caller
	BaseDir   string // Directory the path must stay within
	Reason    string // Human-readable explanation
	Err       error  // Underlying resolution error (optional)
}

func (e *PathSecurityError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("path %q rejected: %s", e.Requested, e.Reason))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

func (e *PathSecurityError) Unwrap() error { return e.Err }

func (e *PathSecurityError) Is(target error) bool { return target == ErrPathSecurity }

// NotFoundError reports a resolved file that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ParseError wraps a decode, read or JSON syntax failure together with the
// identifier of the source that produced it.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot parse JSON from %s", e.Source)
	}
	return fmt.Sprintf("cannot parse JSON from %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// EmptyInputError reports inline content that is empty or whitespace-only.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "JSON content is empty"
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// EmptyDataError reports parsed JSON that is null or structurally empty.
type EmptyDataError struct {
	Kind string // JSON kind of the empty value, e.g. "null" or "object"
}

func (e *EmptyDataError) Error() string {
	if e.Kind == "" {
		return "JSON data is empty"
	}
	return fmt.Sprintf("JSON data is empty (%s)", e.Kind)
}

func (e *EmptyDataError) Is(target error) bool { return target == ErrEmptyData }

// InvalidShapeError reports JSON whose shape has no table interpretation.
type InvalidShapeError struct {
	Reason string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("invalid JSON shape: %s", e.Reason)
}

func (e *InvalidShapeError) Is(target error) bool { return target == ErrInvalidShape }

// InvalidLimitError reports a negative or malformed row limit.
type InvalidLimitError struct {
	Value string
}

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("invalid row limit %q: must be a non-negative integer", e.Value)
}

func (e *InvalidLimitError) Is(target error) bool { return target == ErrInvalidLimit }

// InputTooLargeError reports a source exceeding the configured byte cap.
type InputTooLargeError struct {
	Source string
	Size   int64
	Max    int64
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, exceeds limit of %d bytes", e.Source, e.Size, e.Max)
}

func (e *InputTooLargeError) Is(target error) bool { return target == ErrInputTooLarge }

// IsPathSecurityError checks if the error is or wraps a PathSecurityError.
func IsPathSecurityError(err error) bool {
	return err != nil && errors.Is(err, ErrPathSecurity)
}

// IsNotFoundError checks if the error is or wraps a NotFoundError.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsParseError checks if the error is or wraps a ParseError.
func IsParseError(err error) bool {
	return err != nil && errors.Is(err, ErrParse)
}

// IsInvalidShapeError checks if the error is or wraps an InvalidShapeError.
func IsInvalidShapeError(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidShape)
}

// Classify maps an error to a stable kind name for history rows and tool
// responses. Unknown errors classify as "internal"; nil as "".
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPathSecurity):
		return "path_security"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrEmptyData):
		return "empty_data"
	case errors.Is(err, ErrInvalidShape):
		return "invalid_shape"
	case errors.Is(err, ErrInvalidLimit):
		return "invalid_limit"
	case errors.Is(err, ErrInputTooLarge):
		return "too_large"
	default:
		return "internal"
	}
}
