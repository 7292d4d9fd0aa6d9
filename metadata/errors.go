package metadata

import (
	"errors"
	"fmt"
)

type errConfigurationIf interface{ Configuration() bool }

// NoMatchError is returned when the date pattern does not match the file name
type NoMatchError struct {
	FileName string
	Pattern  string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("pattern '%s' does not match '%s'", e.Pattern, e.FileName)
}

// Configuration implements errConfigurationIf
func (e *NoMatchError) Configuration() bool { return true }

// FormatError is returned when the captured date cannot be parsed with the date format
type FormatError struct {
	Value  string
	Format string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse '%s' with format '%s': %v", e.Value, e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Configuration implements errConfigurationIf
func (e *FormatError) Configuration() bool { return true }

// PatternError is returned when the date pattern is invalid or does not have exactly one capturing group
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid date pattern '%s': %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Configuration implements errConfigurationIf
func (e *PatternError) Configuration() bool { return true }

// MalformedNameError is returned when a band token cannot be extracted from a file name
type MalformedNameError struct {
	FileName string
	Reason   string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("malformed file name '%s': %s", e.FileName, e.Reason)
}

// Configuration implements errConfigurationIf
func (e *MalformedNameError) Configuration() bool { return true }

// IsConfigurationError returns true if the error comes from a pattern, a format or a naming convention
// inconsistent with the file names. Such errors must not be retried.
func IsConfigurationError(err error) bool {
	var e errConfigurationIf
	return errors.As(err, &e) && e.Configuration()
}
