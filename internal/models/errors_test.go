package models

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"path security", &PathSecurityError{Requested: "../x", BaseDir: "/data", Reason: "resolves outside base directory"}, "path_security"},
		{"not found", &NotFoundError{Path: "a.json"}, "not_found"},
		{"parse", &ParseError{Source: "a.json", Err: errors.New("bad token")}, "parse"},
		{"empty input", &EmptyInputError{}, "empty_input"},
		{"empty data", &EmptyDataError{Kind: "null"}, "empty_data"},
		{"invalid shape", &InvalidShapeError{Reason: "data must be an object or array"}, "invalid_shape"},
		{"invalid limit", &InvalidLimitError{Value: "-1"}, "invalid_limit"},
		{"too large", &InputTooLargeError{Source: "a.json", Size: 10, Max: 5}, "too_large"},
		{"wrapped", fmt.Errorf("render block 2: %w", &NotFoundError{Path: "b.json"}), "not_found"},
		{"unknown", errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorsMatchOnlyTheirSentinel(t *testing.T) {
	sentinels := []error{
		ErrPathSecurity, ErrNotFound, ErrParse, ErrEmptyInput,
		ErrEmptyData, ErrInvalidShape, ErrInvalidLimit, ErrInputTooLarge,
	}
	errs := []error{
		&PathSecurityError{}, &NotFoundError{}, &ParseError{}, &EmptyInputError{},
		&EmptyDataError{}, &InvalidShapeError{}, &InvalidLimitError{}, &InputTooLargeError{},
	}

	for i, err := range errs {
		for j, sentinel := range sentinels {
			if got := errors.Is(err, sentinel); got != (i == j) {
				t.Errorf("errors.Is(%T, %v) = %v, want %v", err, sentinel, got, i == j)
			}
		}
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	pathErr := &PathSecurityError{Requested: "link", Reason: "cannot resolve path", Err: fs.ErrPermission}
	if !errors.Is(pathErr, fs.ErrPermission) {
		t.Error("PathSecurityError should unwrap to its cause")
	}
	if !strings.Contains(pathErr.Error(), "permission denied") {
		t.Errorf("Error() = %q, want cause included", pathErr.Error())
	}

	parseErr := &ParseError{Source: "<inline>", Err: fs.ErrClosed}
	if !errors.Is(parseErr, fs.ErrClosed) {
		t.Error("ParseError should unwrap to its cause")
	}

	var target *ParseError
	if !errors.As(fmt.Errorf("wrapped: %w", parseErr), &target) || target.Source != "<inline>" {
		t.Error("errors.As should find the ParseError")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&PathSecurityError{Requested: "../x", Reason: "resolves outside base directory"}, `path "../x" rejected: resolves outside base directory`},
		{&NotFoundError{Path: "a.json"}, "file not found: a.json"},
		{&ParseError{Source: "a.json"}, "cannot parse JSON from a.json"},
		{&EmptyInputError{}, "JSON content is empty"},
		{&EmptyDataError{}, "JSON data is empty"},
		{&EmptyDataError{Kind: "object"}, "JSON data is empty (object)"},
		{&InvalidShapeError{Reason: "mixed array item types"}, "invalid JSON shape: mixed array item types"},
		{&InvalidLimitError{Value: "-3"}, `invalid row limit "-3": must be a non-negative integer`},
		{&InputTooLargeError{Source: "a.json", Size: 10, Max: 5}, "a.json is 10 bytes, exceeds limit of 5 bytes"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%T.Error() = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestIsHelpers(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", &InvalidShapeError{Reason: "x"})
	if !IsInvalidShapeError(wrapped) {
		t.Error("IsInvalidShapeError should see through wrapping")
	}
	if IsParseError(wrapped) || IsNotFoundError(wrapped) || IsPathSecurityError(wrapped) {
		t.Error("other helpers must not match")
	}
	if IsParseError(nil) {
		t.Error("nil is not a parse error")
	}
}
