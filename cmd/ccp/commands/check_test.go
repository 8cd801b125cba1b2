package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/cyberark-ccp/internal/config"
	"github.com/systmms/cyberark-ccp/internal/logging"
)

func TestCheckCommand_ValidConfig(t *testing.T) {
	cfg := writeTestConfig(t, "version: 0\nendpoint:\n  url: https://ccp.example.com\n  app_id: test-app\n")

	cmd := NewCheckCommand(cfg)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
}

func TestCheckCommand_MissingConfig(t *testing.T) {
	cfg := &config.Config{
		Path:   filepath.Join(t.TempDir(), "missing.yaml"),
		Logger: logging.New(false, true),
	}

	cmd := NewCheckCommand(cfg)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCheckCommand_SchemaViolation(t *testing.T) {
	cfg := writeTestConfig(t, "version: 7\nendpoint:\n  url: https://x\n  app_id: a\n")

	cmd := NewCheckCommand(cfg)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestCheckCommand_BadCertPath(t *testing.T) {
	cfg := writeTestConfig(t,
		"version: 0\nendpoint:\n  url: https://ccp.example.com\n  app_id: test-app\n  cert: /nonexistent/client.pem\n")

	cmd := NewCheckCommand(cfg)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client construction failed")
}