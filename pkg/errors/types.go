// Package errors provides typed errors for census.
//
// This package defines domain-specific error types that provide structured
// error information for the scanner, the repository inspector and the
// configuration layer. All error types implement the standard error interface
// and support errors.Is() and errors.As() from the standard library and
// cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Scan operations recorded on a ScanError.
const (
	OpOpenRoot    = "open-root"
	OpReadDir     = "read-dir"
	OpCheckMarker = "check-marker"
)

// Repository operations recorded on a RepoError.
const (
	OpOpen     = "open"
	OpOrigin   = "origin"
	OpUnpushed = "unpushed"
	OpStatus   = "status"
)

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field   string // Which config field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// ScanError represents a traversal fault on a single directory.
type ScanError struct {
	Path  string
	Op    string // OpOpenRoot, OpReadDir or OpCheckMarker
	Cause error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	switch e.Op {
	case OpOpenRoot:
		return fmt.Sprintf("cannot open root %s: %v", e.Path, e.Cause)
	case OpReadDir:
		return fmt.Sprintf("cannot read directory %s: %v", e.Path, e.Cause)
	default:
		return fmt.Sprintf("scan %s failed for %s: %v", e.Op, e.Path, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// NewScanError creates a new ScanError.
func NewScanError(path, op string, cause error) *ScanError {
	return &ScanError{Path: path, Op: op, Cause: cause}
}

// RepoError represents a failure talking to a repository.
type RepoError struct {
	Path    string
	Op      string // OpOpen, OpOrigin, OpUnpushed or OpStatus
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RepoError) Error() string {
	if e.Op == OpOpen {
		if e.Cause != nil {
			return fmt.Sprintf("repository open failed: %v", e.Cause)
		}
		return "repository open failed: " + e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("repository %s query failed: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("repository %s query failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *RepoError) Unwrap() error {
	return e.Cause
}

// NewRepoError creates a new RepoError.
func NewRepoError(path, op, message string, cause error) *RepoError {
	return &RepoError{Path: path, Op: op, Message: message, Cause: cause}
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsScanError checks if an error or any error in its chain is a ScanError.
func IsScanError(err error) bool {
	var scanErr *ScanError
	return errors.As(err, &scanErr)
}

// IsRepoError checks if an error or any error in its chain is a RepoError.
func IsRepoError(err error) bool {
	var repoErr *RepoError
	return errors.As(err, &repoErr)
}

// IsRepoOpenError reports whether err is the distinct "repository open failed" condition.
func IsRepoOpenError(err error) bool {
	var repoErr *RepoError
	return errors.As(err, &repoErr) && repoErr.Op == OpOpen
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use censuserrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As

	// Cause returns the root cause of an error.
	Cause = errors.Cause
)
