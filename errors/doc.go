// Package errors provides standardized error handling patterns for ringbuf.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, may succeed when repeated), Invalid (bad input or a
// broken precondition, never retry), and Fatal (unrecoverable, stop processing).
//
// Containers in this module never panic and never exit the process. Every
// failure surfaces as an error value built from the helpers here, so callers can
// branch on the class without matching strings.
//
// # Error Classification
//
//   - Invalid: ErrInvalidAccess (Front/Back on an empty buffer, out-of-range
//     index, dereferencing End()), ErrIteratorInvalidated (iterator obtained
//     before a capacity change), ErrInvalidCapacity, ErrInvalidData and the
//     configuration sentinels
//   - Fatal: ErrAllocationFailure (backing storage could not be allocated)
//   - Transient: metrics registration conflicts
//
// A ClassifiedError anywhere in the chain decides the class. Bare sentinels
// fall back to the table above. Is* helpers report false for errors they
// cannot classify, while Classify treats them as transient.
//
// # Quick Start
//
// Wrap errors with context for debugging:
//
//	if index >= rb.Len() {
//	    return errors.WrapInvalid(errors.ErrInvalidAccess, "RingBuffer", "At",
//	        fmt.Sprintf("index %d out of range [0,%d)", index, rb.Len()))
//	}
//
// Check classification at the call site:
//
//	if err := rb.Resize(n); err != nil {
//	    if errors.IsFatal(err) {
//	        // storage could not be allocated, the buffer is unchanged
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// # Integration with errors.As/Is
//
// ClassifiedError implements Unwrap, so the sentinels stay visible through the
// chain:
//
//	if stderrors.Is(err, errors.ErrInvalidAccess) {
//	    // precondition violated
//	}
//
//	var ce *errors.ClassifiedError
//	if stderrors.As(err, &ce) {
//	    slog.Debug("buffer error", "component", ce.Component, "class", ce.Class)
//	}
package errors
