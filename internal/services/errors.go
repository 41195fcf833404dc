package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedType marks uploads whose extension has no extraction path.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrIndexDisabled is returned by search when no vector index is configured.
	ErrIndexDisabled = errors.New("question index is disabled")
)

type UnsupportedTypeError struct {
	Extension string
	MediaType string
}

func (e *UnsupportedTypeError) Error() string {
	if e.MediaType != "" {
		return fmt.Sprintf("unsupported file type: %s", e.MediaType)
	}
	if e.Extension == "" {
		return "unsupported file type: missing extension"
	}
	return fmt.Sprintf("unsupported file type: .%s", e.Extension)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// ExtractionError means the file type is supported but the bytes could not be decoded.
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UpstreamError wraps a failure of the AI provider call.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Provider)
	sb.WriteString(" request failed")
	if e.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf(" (status %d)", e.StatusCode))
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError means the fence-stripped model output is not JSON.
type MalformedResponseError struct {
	Cleaned string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("model returned invalid JSON: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// SchemaMismatchError means the model output is valid JSON of the wrong shape.
type SchemaMismatchError struct {
	Shape    ResultShape
	Problems []string
	Cleaned  string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("model output does not match %s shape: %s", e.Shape, strings.Join(e.Problems, "; "))
}
