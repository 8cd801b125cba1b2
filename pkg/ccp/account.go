package ccp

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Account is the decoded CCP response for one retrieved account. The five
// typed fields cover the documented response; anything else the platform
// attaches (custom account properties, CPM status fields) lands in
// Properties with its value rendered as a string.
type Account struct {
	// Content is the secret value.
	Content string
	// UserName is the account's UserName property, empty when absent.
	UserName string
	// Address is the account's Address property, empty when absent.
	Address string
	// Database is the account's Database property, empty when absent.
	Database string
	// PasswordChangeInProcess reports whether the CPM is currently
	// changing this password.
	PasswordChangeInProcess bool

	// Properties holds every other field of the response object.
	Properties map[string]string
}

// UnmarshalJSON decodes the full response object, keeping unknown fields.
// The CCP serializes most values as strings but booleans and numbers do
// appear, so values are normalized through stringify.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	take := func(key string) (string, bool) {
		v, ok := raw[key]
		if !ok {
			return "", false
		}
		delete(raw, key)
		return stringify(v), true
	}

	a.Content, _ = take("Content")
	a.UserName, _ = take("UserName")
	a.Address, _ = take("Address")
	a.Database, _ = take("Database")
	if v, ok := take("PasswordChangeInProcess"); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			a.PasswordChangeInProcess = b
		}
	}

	if len(raw) > 0 {
		a.Properties = make(map[string]string, len(raw))
		for k, v := range raw {
			a.Properties[k] = stringify(v)
		}
	}
	return nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
