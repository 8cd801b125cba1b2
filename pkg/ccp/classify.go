package ccp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// apiError is the structured error body the CCP returns alongside non-2xx
// statuses.
type apiError struct {
	ErrorCode    string `json:"ErrorCode"`
	ErrorMessage string `json:"ErrorMessage"`
}

// codeRule maps a set of CCP error codes (within one HTTP status) to a
// category and message summary.
type codeRule struct {
	codes    []string
	category Category
	summary  string
}

func (r codeRule) matches(code string) bool {
	for _, c := range r.codes {
		if c == code {
			return true
		}
	}
	return false
}

// statusRules is the CCP error catalogue. Rules are checked in order
// within their status; unmatched codes fall through to statusDefaults.
// Kept as data so catalogue growth is an entry here, not a new branch.
var statusRules = map[int][]codeRule{
	http.StatusBadRequest: {
		{[]string{"AIMWS030E"}, CategoryValidation, "Invalid query format"},
		{[]string{"APPAP227E", "APPAP228E", "APPAP229E"}, CategoryAccountNotFound, "Too many objects"},
		{[]string{"APPAP007E"}, CategoryConnection, "Connection to Vault failed"},
		{[]string{"APPAP081E", "CASVL010E", "AIMWS031E"}, CategoryValidation, "Request validation error"},
	},
	http.StatusForbidden: {
		{[]string{"APPAP306E"}, CategoryAuthentication, "Authentication failed"},
		{[]string{"APPAP008E"}, CategoryAuthorization, "User not defined"},
	},
	http.StatusNotFound: {
		{[]string{"APPAP004E"}, CategoryAccountNotFound, "Safe not found"},
	},
	http.StatusInternalServerError: {
		// APPAP282E (password change in progress) deliberately stays in the
		// base category, matching the CCP documentation; only the message
		// distinguishes it.
		{[]string{"APPAP282E"}, CategoryGeneral, "Password change in progress"},
	},
}

var statusDefaults = map[int]codeRule{
	http.StatusBadRequest:          {nil, CategoryGeneral, "Bad Request"},
	http.StatusForbidden:           {nil, CategoryAuthorization, "Authorization failed"},
	http.StatusNotFound:            {nil, CategoryAccountNotFound, "Resource not found"},
	http.StatusInternalServerError: {nil, CategoryGeneral, "Internal server error"},
}

// classifyResponse maps a completed non-2xx exchange to an *Error. It
// prefers the embedded {ErrorCode, ErrorMessage} body; when the body is
// not structured JSON it falls back to status-only classification with the
// raw body text in the message.
func classifyResponse(status int, body []byte) *Error {
	var ae apiError
	if err := json.Unmarshal(body, &ae); err != nil {
		return classifyByStatus(status, body)
	}

	code := ae.ErrorCode
	if code == "" {
		code = "Unknown"
	}
	detail := ae.ErrorMessage
	if detail == "" {
		detail = "No message provided"
	}

	for _, rule := range statusRules[status] {
		if rule.matches(ae.ErrorCode) {
			return newAPIError(rule.category, status, code, rule.summary, detail)
		}
	}
	if def, ok := statusDefaults[status]; ok {
		return newAPIError(def.category, status, code, def.summary, detail)
	}
	return &Error{
		Category:   CategoryGeneral,
		StatusCode: status,
		ErrorCode:  code,
		Message:    fmt.Sprintf("CCP API error %d (%s): %s", status, code, detail),
	}
}

// classifyByStatus handles responses without a parseable JSON error body.
func classifyByStatus(status int, body []byte) *Error {
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(status)
	}

	var category Category
	var summary string
	switch status {
	case http.StatusBadRequest:
		category, summary = CategoryValidation, "Bad Request"
	case http.StatusForbidden:
		category, summary = CategoryAuthentication, "Forbidden"
	case http.StatusNotFound:
		category, summary = CategoryAccountNotFound, "Not Found"
	case http.StatusInternalServerError:
		category, summary = CategoryGeneral, "Internal Server Error"
	default:
		return &Error{
			Category:   CategoryGeneral,
			StatusCode: status,
			Message:    fmt.Sprintf("HTTP error %d: %s", status, text),
		}
	}
	return &Error{
		Category:   category,
		StatusCode: status,
		Message:    fmt.Sprintf("%s (HTTP %d): %s", summary, status, text),
	}
}
