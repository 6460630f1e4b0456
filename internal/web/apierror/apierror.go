// Package apierror maps failures onto the HTTP surface: every handler
// funnels its errors through here so status codes and response bodies stay
// consistent across routes.
package apierror

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"cricket-data-service/internal/upstream"
)

// RateLimitMessage is the fixed body returned whenever the scores provider
// throttles us, regardless of which route triggered the call.
const RateLimitMessage = "SportMonks rate limit reached. Please try again soon."

// Class buckets an error into the HTTP status it maps to.
type Class int

const (
	// ClassUpstream covers provider failures on routes that surface them
	// as an internal error.
	ClassUpstream Class = iota
	// ClassBadGateway covers provider failures on match detail routes,
	// where the failure is clearly the provider's.
	ClassBadGateway
	// ClassValidation covers malformed client input.
	ClassValidation
	// ClassNotFound covers resources the provider does not know.
	ClassNotFound
	// ClassRateLimited covers provider throttling.
	ClassRateLimited
)

var statusByClass = map[Class]int{
	ClassUpstream:    http.StatusInternalServerError,
	ClassBadGateway:  http.StatusBadGateway,
	ClassValidation:  http.StatusBadRequest,
	ClassNotFound:    http.StatusNotFound,
	ClassRateLimited: http.StatusServiceUnavailable,
}

// Error is a classified handler failure.
type Error struct {
	Class   Class
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status code for the error.
func (e *Error) Status() int {
	if status, ok := statusByClass[e.Class]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Body returns the JSON-serializable response body.
func (e *Error) Body() map[string]any {
	return map[string]any{"error": e.Message}
}

// Validation reports malformed client input.
func Validation(message string) *Error {
	return &Error{Class: ClassValidation, Message: message}
}

// NotFound reports a resource the provider does not know.
func NotFound(message string) *Error {
	return &Error{Class: ClassNotFound, Message: message}
}

// FromUpstream classifies a provider error for routes that report provider
// failures as internal errors. Rate limiting and not-found always win over
// the fallback class.
func FromUpstream(err error, message string) *Error {
	return classify(err, message, ClassUpstream)
}

// FromGateway classifies a provider error for match detail routes, where
// generic failures surface as a bad gateway.
func FromGateway(err error, message string) *Error {
	return classify(err, message, ClassBadGateway)
}

func classify(err error, message string, fallback Class) *Error {
	switch {
	case upstream.IsRateLimited(err):
		return &Error{Class: ClassRateLimited, Message: RateLimitMessage, cause: err}
	case upstream.IsNotFound(err):
		return &Error{Class: ClassNotFound, Message: message, cause: err}
	default:
		return &Error{Class: fallback, Message: message, cause: err}
	}
}

// AsError extracts a classified error, wrapping unclassified ones as a
// plain upstream failure.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return FromUpstream(err, "upstream request failed")
}
