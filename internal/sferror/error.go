package sferror

import (
	"net/http"

	"github.com/pkg/errors"
)

// A Kind classifies an error so callers can branch on it.
type Kind int

const (
	// KindInternal is a store or cryptographic failure.
	KindInternal Kind = iota
	// KindUnauthenticated means no valid credentials were presented.
	KindUnauthenticated
	// KindForbidden means the caller is known but not allowed.
	KindForbidden
	// KindValidation means the request payload has a wrong shape.
	KindValidation
	// KindNotFound means the referenced record does not exist.
	KindNotFound
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	default:
		return "internal"
	}
}

// HTTPCode returns the status code rendered for the kind.
func (k Kind) HTTPCode() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type (
	// An SFError represents the error format that can be rendered by the server.
	SFError struct {
		Kind       Kind `json:"-"`
		HTTPCode   int  `json:"-"`
		FieldError err  `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if sferr, ok := errors.Cause(err).(*SFError); ok {
		return sferr.HTTPCode
	}
	return http.StatusInternalServerError
}

// KindOf returns the kind of the given error.
// Errors not created by this package are internal.
func KindOf(err error) Kind {
	if sferr, ok := errors.Cause(err).(*SFError); ok {
		return sferr.Kind
	}
	return KindInternal
}

// Is returns true if err has the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// New returns a new SFError of the given kind tagged with the kind's name.
func New(kind Kind, message string) *SFError {
	return NewWithTag(kind, kind.String(), message)
}

// NewWithTag returns a new SFError with the given kind, tag and message.
func NewWithTag(kind Kind, tag, message string) *SFError {
	return &SFError{
		Kind:       kind,
		HTTPCode:   kind.HTTPCode(),
		FieldError: err{Tag: tag, Message: message},
	}
}

// Unauthenticated returns an error for a missing or invalid token.
func Unauthenticated(message string) *SFError {
	return NewWithTag(KindUnauthenticated, "invalid-auth", message)
}

// Forbidden returns an error for a denied policy decision.
func Forbidden(message string) *SFError {
	return New(KindForbidden, message)
}

// Validation returns an error for a malformed payload.
func Validation(message string) *SFError {
	return New(KindValidation, message)
}

// NotFound returns an error for a missing record.
func NotFound(message string) *SFError {
	return New(KindNotFound, message)
}

// Error implements error interface.
func (e *SFError) Error() string {
	return e.FieldError.Message
}

// Tag returns the machine readable tag of the error.
func (e *SFError) Tag() string {
	return e.FieldError.Tag
}
