package cvdnn

import (
	"errors"
	"fmt"

	"github.com/swdee/go-cvdnn/native"
)

var (
	// ErrInvalidArgument is matched by every precondition failure raised
	// before a native call is made
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrClosed is returned when a wrapper is used after Close
	ErrClosed = errors.New("native object already closed")
)

// ArgumentError reports a missing or unusable argument.  It satisfies
// errors.Is(err, ErrInvalidArgument).
type ArgumentError struct {
	// Name of the offending argument
	Name string
	// Reason describes what is wrong with it
	Reason string
	// Err is the underlying cause, if any
	Err error
}

func (e *ArgumentError) Error() string {

	if e.Err != nil {
		return fmt.Sprintf("invalid argument %s: %s: %v", e.Name, e.Reason, e.Err)
	}

	return fmt.Sprintf("invalid argument %s: %s", e.Name, e.Reason)
}

// Is reports ErrInvalidArgument as a match
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// nilArg returns the error for a required argument that was not supplied
func nilArg(name string) error {
	return &ArgumentError{Name: name, Reason: "must not be nil"}
}

// emptyArg returns the error for a required string argument that was empty
func emptyArg(name string) error {
	return &ArgumentError{Name: name, Reason: "must not be empty"}
}

// NativeError carries the diagnostic raised by the native library
type NativeError struct {
	// Op is the native entry point that failed
	Op string
	// Status is the value of the native exception slot
	Status native.Status
	// Message is the native diagnostic text
	Message string
}

func (e *NativeError) Error() string {

	if e.Message == "" {
		return fmt.Sprintf("%s failed with status %d, error: %s",
			e.Op, int(e.Status), e.Status.String())
	}

	return fmt.Sprintf("%s failed with status %d, error: %s",
		e.Op, int(e.Status), e.Message)
}
