package ccp

import (
	"errors"
	"fmt"
)

// Category classifies a CCP retrieval failure. Callers branch on the
// category to decide remediation (retry, fix input, check identifiers);
// the client itself never retries.
type Category int

const (
	// CategoryGeneral covers failures that match no more specific rule.
	CategoryGeneral Category = iota
	// CategoryValidation indicates caller-supplied criteria were rejected,
	// either locally or by the CCP web service.
	CategoryValidation
	// CategoryAuthentication indicates the application identity could not
	// be authenticated (for example a missing or bad client certificate).
	CategoryAuthentication
	// CategoryAuthorization indicates the application is authenticated but
	// not permitted to retrieve the requested account.
	CategoryAuthorization
	// CategoryAccountNotFound indicates no account (or too many accounts)
	// matched the search criteria.
	CategoryAccountNotFound
	// CategoryConnection indicates a network-level failure, either between
	// this client and the CCP or between the CCP and its vault.
	CategoryConnection
	// CategoryTimeout indicates the request did not complete within the
	// configured timeout.
	CategoryTimeout
)

func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryAuthentication:
		return "authentication"
	case CategoryAuthorization:
		return "authorization"
	case CategoryAccountNotFound:
		return "account_not_found"
	case CategoryConnection:
		return "connection"
	case CategoryTimeout:
		return "timeout"
	default:
		return "general"
	}
}

// Error is the single error type returned by this package. Every failure,
// whether raised locally (validation) or mapped from a CCP response,
// carries a Category plus whatever upstream detail was available.
type Error struct {
	Category   Category
	StatusCode int    // HTTP status, 0 when the request never completed
	ErrorCode  string // CCP error code such as APPAP306E, empty if unknown
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "ccp: " + e.Category.String() + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newAPIError builds the message format used for classified CCP responses:
// the rule's summary, the upstream error code, and the upstream message.
func newAPIError(category Category, status int, code, summary, detail string) *Error {
	return &Error{
		Category:   category,
		StatusCode: status,
		ErrorCode:  code,
		Message:    fmt.Sprintf("%s (%s): %s", summary, code, detail),
	}
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{
		Category: CategoryValidation,
		Message:  fmt.Sprintf(format, args...),
	}
}

func categoryIs(err error, c Category) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Category == c
}

// IsValidation reports whether err is a criteria or parameter validation
// failure.
func IsValidation(err error) bool { return categoryIs(err, CategoryValidation) }

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool { return categoryIs(err, CategoryAuthentication) }

// IsAuthorization reports whether err is an authorization failure.
func IsAuthorization(err error) bool { return categoryIs(err, CategoryAuthorization) }

// IsNotFound reports whether err means no single account matched the
// search criteria.
func IsNotFound(err error) bool { return categoryIs(err, CategoryAccountNotFound) }

// IsConnection reports whether err is a network-level failure.
func IsConnection(err error) bool { return categoryIs(err, CategoryConnection) }

// IsTimeout reports whether err means the request timed out.
func IsTimeout(err error) bool { return categoryIs(err, CategoryTimeout) }
