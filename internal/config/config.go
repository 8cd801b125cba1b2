package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	dserrors "github.com/systmms/cyberark-ccp/internal/errors"
	"github.com/systmms/cyberark-ccp/internal/logging"
	"github.com/systmms/cyberark-ccp/pkg/ccp"
)

// Config holds the runtime configuration
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition represents the ccp.yaml structure
type Definition struct {
	Version  int      `yaml:"version" json:"version,omitempty"`
	Endpoint Endpoint `yaml:"endpoint" json:"endpoint,omitempty"`
	Defaults Defaults `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// Endpoint describes the CCP web service to talk to.
type Endpoint struct {
	URL            string `yaml:"url" json:"url,omitempty"`
	AppID          string `yaml:"app_id" json:"app_id,omitempty"`
	Cert           string `yaml:"cert,omitempty" json:"cert,omitempty"`
	CACert         string `yaml:"ca_cert,omitempty" json:"ca_cert,omitempty"`
	SkipVerify     bool   `yaml:"skip_verify,omitempty" json:"skip_verify,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// Defaults are criteria applied to every retrieval unless overridden on
// the command line.
type Defaults struct {
	Reason               string `yaml:"reason,omitempty" json:"reason,omitempty"`
	QueryFormat          string `yaml:"query_format,omitempty" json:"query_format,omitempty"`
	FailOnPasswordChange *bool  `yaml:"fail_on_password_change,omitempty" json:"fail_on_password_change,omitempty"`
}

// Load reads and parses the ccp.yaml file, validates it against the
// embedded schema, then applies CCP_* environment overrides.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return dserrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create a ccp.yaml with an 'endpoint' section, or set CCP_URL and CCP_APP_ID",
			}
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	if err := validateSchema(&def); err != nil {
		return err
	}

	applyEnvOverrides(&def)

	if def.Endpoint.URL == "" {
		return dserrors.ConfigError{
			Field:      "endpoint.url",
			Message:    "the CCP base URL is required",
			Suggestion: "Set endpoint.url in ccp.yaml or export CCP_URL",
		}
	}
	if def.Endpoint.AppID == "" {
		return dserrors.ConfigError{
			Field:      "endpoint.app_id",
			Message:    "the application ID is required",
			Suggestion: "Set endpoint.app_id in ccp.yaml or export CCP_APP_ID",
		}
	}

	c.Definition = &def
	return nil
}

// applyEnvOverrides lets the environment win over the file, mirroring how
// operators inject per-host endpoint settings in CI.
func applyEnvOverrides(def *Definition) {
	if v := os.Getenv("CCP_URL"); v != "" {
		def.Endpoint.URL = v
	}
	if v := os.Getenv("CCP_APP_ID"); v != "" {
		def.Endpoint.AppID = v
	}
	if v := os.Getenv("CCP_CERT"); v != "" {
		def.Endpoint.Cert = v
	}
	if v := os.Getenv("CCP_CA_CERT"); v != "" {
		def.Endpoint.CACert = v
	}
	if v := os.Getenv("CCP_SKIP_VERIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			def.Endpoint.SkipVerify = b
		}
	}
	if v := os.Getenv("CCP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			def.Endpoint.TimeoutSeconds = n
		}
	}
}

// ClientConfig maps the loaded definition to a ccp.Config.
func (c *Config) ClientConfig() ccp.Config {
	ep := c.Definition.Endpoint
	cfg := ccp.Config{
		BaseURL:            ep.URL,
		AppID:              ep.AppID,
		CertPath:           ep.Cert,
		CACertPath:         ep.CACert,
		InsecureSkipVerify: ep.SkipVerify,
		Logger:             c.Logger,
	}
	if ep.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(ep.TimeoutSeconds) * time.Second
	}
	return cfg
}

// DefaultQueryFormat returns the configured default query format, nil when
// unset so the CCP's own default applies.
func (c *Config) DefaultQueryFormat() *ccp.QueryFormat {
	switch strings.ToLower(c.Definition.Defaults.QueryFormat) {
	case "exact":
		return ccp.Format(ccp.QueryFormatExact)
	case "regexp":
		return ccp.Format(ccp.QueryFormatRegexp)
	default:
		return nil
	}
}

// ApplyDefaults fills request fields from the defaults section when the
// caller left them unset. Explicit command-line values always win.
func (c *Config) ApplyDefaults(req *ccp.Request) {
	d := c.Definition.Defaults
	if req.Reason == nil && d.Reason != "" {
		req.Reason = ccp.String(d.Reason)
	}
	if req.QueryFormat == nil && req.Query != nil {
		req.QueryFormat = c.DefaultQueryFormat()
	}
	if req.FailRequestOnPasswordChange == nil && d.FailOnPasswordChange != nil {
		v := *d.FailOnPasswordChange
		req.FailRequestOnPasswordChange = &v
	}
}
