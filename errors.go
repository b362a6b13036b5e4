package gazetteer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a query can report back to its caller.
type ErrorKind string

const (
	KindLoad       ErrorKind = "load"
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindTimezone   ErrorKind = "timezone"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrLoad       = errors.New("gazetteer: load failed")
	ErrValidation = errors.New("gazetteer: invalid input")
	ErrNotFound   = errors.New("gazetteer: not found")
	ErrTimezone   = errors.New("gazetteer: invalid timezone")
)

// LoadError reports that the source dataset could not be opened or read.
// It is the only error that should stop a process from serving.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
func (e *LoadError) Is(t error) bool { return t == ErrLoad }
func (e *LoadError) Kind() ErrorKind { return KindLoad }

// ValidationError is returned for malformed query input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Is(t error) bool { return t == ErrValidation }
func (e *ValidationError) Kind() ErrorKind { return KindValidation }

// NotFoundError is returned when a point lookup has no matching record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Is(t error) bool { return t == ErrNotFound }
func (e *NotFoundError) Kind() ErrorKind { return KindNotFound }

// NameNotFoundError is returned by Compare when one or both names fail to
// resolve. It records which side failed so callers can report both flags.
type NameNotFoundError struct {
	City1, City2           string
	City1Found, City2Found bool
	City1Suggestions       []string
	City2Suggestions       []string
}

func (e *NameNotFoundError) Error() string { return "One or both cities not found" }
func (e *NameNotFoundError) Is(t error) bool { return t == ErrNotFound }
func (e *NameNotFoundError) Kind() ErrorKind { return KindNotFound }

// TimezoneError is returned when a record carries a zone name the runtime
// cannot resolve.
type TimezoneError struct {
	Zone string
	Err  error
}

func (e *TimezoneError) Error() string {
	return fmt.Sprintf("unknown timezone %q: %v", e.Zone, e.Err)
}

func (e *TimezoneError) Unwrap() error { return e.Err }
func (e *TimezoneError) Is(t error) bool { return t == ErrTimezone }
func (e *TimezoneError) Kind() ErrorKind { return KindTimezone }

// KindOf returns the ErrorKind carried by err, or "" when err did not come
// from this package.
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}
