package errors

import (
	"errors"
	"fmt"
)

// ErrorClass tells callers how to react to an error.
type ErrorClass int

const (
	// ErrorTransient errors may succeed when the call is repeated.
	ErrorTransient ErrorClass = iota
	// ErrorInvalid errors come from bad input, bad configuration or a broken
	// precondition; repeating the call unchanged fails again.
	ErrorInvalid
	// ErrorFatal errors leave the caller unable to continue the operation.
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

var (
	// Container access
	ErrInvalidAccess       = errors.New("invalid access")
	ErrIteratorInvalidated = errors.New("iterator invalidated")
	ErrInvalidCapacity     = errors.New("invalid capacity")

	// Storage
	ErrAllocationFailure = errors.New("allocation failure")

	// Server lifecycle
	ErrAlreadyStarted = errors.New("already started")

	// Data and configuration
	ErrInvalidData    = errors.New("invalid data format")
	ErrParsingFailed  = errors.New("parsing failed")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingConfig  = errors.New("missing required configuration")
	ErrConfigNotFound = errors.New("configuration not found")
)

// sentinelClasses classifies bare sentinels that reach a caller without a
// ClassifiedError around them. Earlier entries win.
var sentinelClasses = []struct {
	err   error
	class ErrorClass
}{
	{ErrAllocationFailure, ErrorFatal},
	{ErrInvalidAccess, ErrorInvalid},
	{ErrIteratorInvalidated, ErrorInvalid},
	{ErrInvalidCapacity, ErrorInvalid},
	{ErrInvalidData, ErrorInvalid},
	{ErrParsingFailed, ErrorInvalid},
	{ErrInvalidConfig, ErrorInvalid},
	{ErrMissingConfig, ErrorInvalid},
	{ErrConfigNotFound, ErrorInvalid},
	{ErrAlreadyStarted, ErrorInvalid},
}

// ClassifiedError carries an error's class along with where it happened.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// classOf finds the class of err: the outermost ClassifiedError decides,
// then known sentinels. ok is false for unknown errors.
func classOf(err error) (class ErrorClass, ok bool) {
	if err == nil {
		return ErrorTransient, false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class, true
	}

	for _, s := range sentinelClasses {
		if errors.Is(err, s.err) {
			return s.class, true
		}
	}
	return ErrorTransient, false
}

// IsTransient reports whether err was classified transient.
// Unknown errors are not transient.
func IsTransient(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorTransient
}

// IsFatal reports whether err is fatal
func IsFatal(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorFatal
}

// IsInvalid reports whether err stems from invalid input or a broken precondition.
func IsInvalid(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorInvalid
}

// Classify returns the class of err. Unknown errors and nil count as
// transient so callers retry rather than give up on something unexpected.
func Classify(err error) ErrorClass {
	class, _ := classOf(err)
	return class
}

// Wrap adds context in the form "component.method: action failed: err"
// without classifying.
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

func wrapClassified(class ErrorClass, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return &ClassifiedError{
		Class:     class,
		Err:       wrapped,
		Message:   wrapped.Error(),
		Component: component,
		Operation: method,
	}
}

// WrapTransient wraps err with context and classifies it transient.
func WrapTransient(err error, component, method, action string) error {
	return wrapClassified(ErrorTransient, err, component, method, action)
}

// WrapFatal wraps err with context and classifies it fatal.
func WrapFatal(err error, component, method, action string) error {
	return wrapClassified(ErrorFatal, err, component, method, action)
}

// WrapInvalid wraps err with context and classifies it invalid.
func WrapInvalid(err error, component, method, action string) error {
	return wrapClassified(ErrorInvalid, err, component, method, action)
}
