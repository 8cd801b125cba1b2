package config

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	dserrors "github.com/systmms/cyberark-ccp/internal/errors"
)

// definitionSchema is the JSON schema the parsed ccp.yaml must satisfy.
// Validation happens before environment overrides, so url and app_id are
// checked separately (they may arrive via CCP_URL / CCP_APP_ID).
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer", "enum": [0]},
    "endpoint": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "url": {"type": "string"},
        "app_id": {"type": "string"},
        "cert": {"type": "string"},
        "ca_cert": {"type": "string"},
        "skip_verify": {"type": "boolean"},
        "timeout_seconds": {"type": "integer", "minimum": 1}
      }
    },
    "defaults": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "reason": {"type": "string"},
        "query_format": {"type": "string", "enum": ["exact", "regexp"]},
        "fail_on_password_change": {"type": "boolean"}
      }
    }
  }
}`

// validateSchema checks the parsed definition against definitionSchema.
// The YAML is re-marshaled through JSON because gojsonschema validates
// JSON documents.
func validateSchema(def *Definition) error {
	jsonData, err := json.Marshal(def)
	if err != nil {
		return dserrors.UserError{
			Message: "Failed to prepare configuration for validation",
			Err:     err,
		}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(definitionSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return dserrors.UserError{
			Message: "Schema validation error",
			Err:     err,
		}
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return dserrors.ConfigError{
			Message:    "configuration does not match the expected schema:\n  - " + strings.Join(problems, "\n  - "),
			Suggestion: "Compare your ccp.yaml against the documented fields",
		}
	}

	return nil
}
