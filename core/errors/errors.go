// Package errors provides standardized error types and helpers for the
// highlight-transfer pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline's failure classes
var (
	// ErrConfig indicates missing or unreadable input files, detected before processing starts
	ErrConfig = errors.New("configuration error")
	// ErrDataAccess indicates a highlight source (database) failure
	ErrDataAccess = errors.New("data access error")
	// ErrDocument indicates a document open or save failure
	ErrDocument = errors.New("document error")
	// ErrPlacement indicates a single highlight's locate-or-annotate step failed
	ErrPlacement = errors.New("placement error")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
)

// ConfigError represents a missing or unreadable input with context.
// Config errors are fatal and reported before any processing starts.
type ConfigError struct {
	Input string // Which input (e.g., "pdf", "database")
	Path  string // Path that failed
	Err   error  // Underlying error, if any
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s not usable: %s", e.Input, e.Path)
	}
	return fmt.Sprintf("%s not usable", e.Input)
}

func (e *ConfigError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrConfig
}

// DataAccessError represents a highlight source failure. The pipeline
// treats it as zero highlights and continues with an empty set.
type DataAccessError struct {
	Operation string // Operation being performed (e.g., "open", "query")
	Source    string // Database path or source description
	Err       error  // Underlying error
}

func (e *DataAccessError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("highlight source %s failed for %s: %v", e.Operation, e.Source, e.Err)
	}
	return fmt.Sprintf("highlight source %s failed: %v", e.Operation, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDataAccess
}

// DocumentError represents an open or save failure on the PDF document.
// Fatal for the run; the driver reports what was gathered and aborts.
type DocumentError struct {
	Operation string // "open" or "save"
	Path      string // Document path involved
	Err       error  // Underlying error
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s document %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s document: %v", e.Operation, e.Err)
}

func (e *DocumentError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDocument
}

// PlacementError represents one highlight's locate-or-annotate failure.
// Recovered locally: the record is counted as notFound and the batch
// continues.
type PlacementError struct {
	Stage   string // "locate" or "annotate"
	Snippet string // Short prefix of the highlight text
	Err     error  // Underlying error, if any
}

func (e *PlacementError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("failed to %s highlight %q: %v", e.Stage, e.Snippet, e.Err)
	}
	return fmt.Sprintf("failed to %s highlight: %v", e.Stage, e.Err)
}

func (e *PlacementError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrPlacement
}

// Helper functions for creating common errors

// NewConfig creates a ConfigError
func NewConfig(input, path string, err error) *ConfigError {
	return &ConfigError{
		Input: input,
		Path:  path,
		Err:   err,
	}
}

// NewDataAccess creates a DataAccessError
func NewDataAccess(operation, source string, err error) *DataAccessError {
	return &DataAccessError{
		Operation: operation,
		Source:    source,
		Err:       err,
	}
}

// NewDocument creates a DocumentError
func NewDocument(operation, path string, err error) *DocumentError {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewPlacement creates a PlacementError
func NewPlacement(stage, snippet string, err error) *PlacementError {
	return &PlacementError{
		Stage:   stage,
		Snippet: snippet,
		Err:     err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
