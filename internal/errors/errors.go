package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// RetrievalError adds CLI-facing context to a failed CCP retrieval. The
// suggestion is derived from the error text so the user gets a concrete
// next step instead of a raw API code.
func RetrievalError(operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("CCP error during %s", operation),
		Details:    err.Error(),
		Suggestion: retrievalSuggestion(err),
		Err:        err,
	}
}

// retrievalSuggestion returns a next step for common CCP failures.
func retrievalSuggestion(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "authentication failed"):
		return "Check that the client certificate matches the application's configured authentication in PVWA"
	case strings.Contains(errStr, "user not defined"), strings.Contains(errStr, "authorization failed"):
		return "Verify the application ID is authorized on the safe (Safe Members → add the AppID with Retrieve permission)"
	case strings.Contains(errStr, "too many objects"):
		return "Narrow the search criteria so exactly one account matches, or use a Query with Exact format"
	case strings.Contains(errStr, "safe not found"), strings.Contains(errStr, "resource not found"):
		return "Verify the safe and object names. Account identifiers are case-sensitive"
	case strings.Contains(errStr, "timed out"):
		return "The CCP did not answer in time. Check the network path and consider raising --connection-timeout"
	case strings.Contains(errStr, "connection"):
		return "Unable to reach the CCP. Check the base URL and that the AIMWebService is running"
	case strings.Contains(errStr, "password change in progress"):
		return "The CPM is changing this password. Retry shortly, or set --fail-on-password-change=false to accept the previous value"
	}

	return ""
}
