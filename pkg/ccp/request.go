package ccp

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryFormat controls how the CCP matches a free-form Query string.
type QueryFormat int

const (
	// QueryFormatExact matches account properties exactly.
	QueryFormatExact QueryFormat = iota
	// QueryFormatRegexp matches account properties as regular expressions.
	QueryFormatRegexp
)

func (f QueryFormat) String() string {
	if f == QueryFormatRegexp {
		return "Regexp"
	}
	return "Exact"
}

// Request holds the search criteria for a single retrieval. All fields are
// optional pointers: a nil field is never sent, so the CCP's server-side
// defaults apply. Use the String, Int and Bool helpers for literals.
//
// A request must carry at least one of Account, Safe, Object, Username,
// Address, Database, PolicyID or Query. When Query is set, the discrete
// search fields are ignored entirely and only Query (plus QueryFormat,
// Reason, ConnectionTimeout and FailRequestOnPasswordChange) go on the
// wire.
type Request struct {
	// Account satisfies the minimum-criteria check but has no wire
	// parameter of its own.
	Account *string

	Safe     *string
	Folder   *string
	Object   *string
	Username *string
	Address  *string
	Database *string
	PolicyID *string

	// Reason is recorded in the Credential Provider audit log.
	Reason *string

	// Query is a free query over account properties.
	Query       *string
	QueryFormat *QueryFormat

	// ConnectionTimeout is the number of seconds the CCP itself will spend
	// retrieving the password. Must be strictly positive when set.
	ConnectionTimeout *int

	// FailRequestOnPasswordChange makes the CCP return an error instead of
	// the previous password while a change is in progress.
	FailRequestOnPasswordChange *bool
}

// String returns a pointer to s, for use in Request literals.
func String(s string) *string { return &s }

// Int returns a pointer to i, for use in Request literals.
func Int(i int) *int { return &i }

// Bool returns a pointer to b, for use in Request literals.
func Bool(b bool) *bool { return &b }

// Format returns a pointer to f, for use in Request literals.
func Format(f QueryFormat) *QueryFormat { return &f }

// param is one wire query parameter. Parameters keep their build order so
// AppID always leads the query string.
type param struct {
	name  string
	value string
}

type params []param

// Encode renders the parameters as a URL query string in build order.
func (p params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
	return b.String()
}

func (p params) get(name string) (string, bool) {
	for _, kv := range p {
		if kv.name == name {
			return kv.value, true
		}
	}
	return "", false
}

// restrictedChars are rejected by the CCP web service in parameter values.
const restrictedChars = "+&%;"

// validateParamValue enforces the CCP character rules on a value that is
// about to go on the wire.
func validateParamValue(value, name string) error {
	for _, c := range restrictedChars {
		if strings.ContainsRune(value, c) {
			return validationError(
				"Parameter '%s' contains invalid character '%c' (characters \"%s\" are not supported)",
				name, c, restrictedChars)
		}
	}
	if strings.Contains(value, " ") {
		return validationError("Parameter '%s' contains spaces which are not allowed in URLs", name)
	}
	return nil
}

func isSet(s *string) bool { return s != nil && *s != "" }

// buildParams validates the request and maps it to wire parameters.
func buildParams(appID string, req Request) (params, error) {
	if !isSet(req.Query) && !isSet(req.Account) && !isSet(req.Safe) &&
		!isSet(req.Object) && !isSet(req.Username) && !isSet(req.Address) &&
		!isSet(req.Database) && !isSet(req.PolicyID) {
		return nil, validationError("The query must contain the application ID and at least one other parameter")
	}

	p := params{{name: "AppID", value: appID}}

	if isSet(req.Query) {
		// A free query supersedes every discrete search field.
		if err := validateParamValue(*req.Query, "Query"); err != nil {
			return nil, err
		}
		p = append(p, param{"Query", *req.Query})
		if req.QueryFormat != nil {
			p = append(p, param{"Query Format", req.QueryFormat.String()})
		}
	} else {
		fields := []struct {
			name  string
			value *string
		}{
			{"Safe", req.Safe},
			{"Folder", req.Folder},
			{"Object", req.Object},
			{"UserName", req.Username},
			{"Address", req.Address},
			{"Database", req.Database},
			{"PolicyID", req.PolicyID},
		}
		for _, f := range fields {
			if !isSet(f.value) {
				continue
			}
			if err := validateParamValue(*f.value, f.name); err != nil {
				return nil, err
			}
			p = append(p, param{f.name, *f.value})
		}
	}

	if isSet(req.Reason) {
		if err := validateParamValue(*req.Reason, "Reason"); err != nil {
			return nil, err
		}
		p = append(p, param{"Reason", *req.Reason})
	}

	if req.ConnectionTimeout != nil {
		if *req.ConnectionTimeout <= 0 {
			return nil, validationError("Connection timeout must be positive")
		}
		p = append(p, param{"Connection Timeout", strconv.Itoa(*req.ConnectionTimeout)})
	}

	if req.FailRequestOnPasswordChange != nil {
		p = append(p, param{"FailRequestOnPasswordChange", strconv.FormatBool(*req.FailRequestOnPasswordChange)})
	}

	return p, nil
}
