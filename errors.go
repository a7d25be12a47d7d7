package relclass

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned by the package.
var (
	ErrNoClasses    = Error{"Number of classes must be >= 1"}
	ErrNoModel      = Error{"Model is nil"}
	ErrNoData       = Error{"DataLoader is nil"}
	ErrNoLogs       = Error{"Logs are nil"}
	ErrBadBatchSize = Error{"Batch size must be >= 1"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// InputError is returned when the predictions or labels handed to the scoring engine are
// malformed: sequences of different lengths, or labels outside of [0, classNum). A well-formed
// DataLoader never produces one, so they are not recoverable within a run.
type InputError struct {
	msg string
}

func (err InputError) Error() string {
	return "invalid input: " + err.msg
}

// InputErrorf returns an InputError with the formatted message, annotated with a stack trace.
func InputErrorf(format string, args ...interface{}) error {
	return errors.WithStack(InputError{fmt.Sprintf(format, args...)})
}

// IsInvalidInput returns whether the cause of err is an InputError.
func IsInvalidInput(err error) bool {
	_, ok := errors.Cause(err).(InputError)
	return ok
}

// ResourceError is returned when a log file or checkpoint cannot be opened or written. The run
// stops when one is encountered; training history is never silently dropped.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (err ResourceError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("resource unavailable: %s: %v", err.Op, err.Err)
	}
	return fmt.Sprintf("resource unavailable: %s %q: %v", err.Op, err.Path, err.Err)
}

// Cause allows errors.Cause to reach the underlying I/O error.
func (err ResourceError) Cause() error {
	return err.Err
}

// NewResourceError returns a ResourceError for the failed operation, annotated with a stack trace.
func NewResourceError(op, path string, err error) error {
	return errors.WithStack(ResourceError{op, path, err})
}

// IsResourceUnavailable returns whether err, or anything it wraps, is a ResourceError.
func IsResourceUnavailable(err error) bool {
	for err != nil {
		if _, ok := err.(ResourceError); ok {
			return true
		}

		c, ok := err.(interface{ Cause() error })
		if !ok {
			return false
		}
		err = c.Cause()
	}

	return false
}
