package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
service:
  name: chirpgw
  log_level: debug
webhook:
  listen: "127.0.0.1:3000"
  secret: ${TEST_WEBHOOK_SECRET}
workspace:
  app_id: app-id
  app_secret: app-secret
twitter:
  consumer_key: ck
  consumer_secret: cs
  access_token_key: atk
  access_token_secret: ats
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "chirpgw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_SECRET", "s3cret")

	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Webhook.Secret)
	assert.Equal(t, "debug", cfg.Service.LogLevel)
	assert.Equal(t, "app-id", cfg.Workspace.AppID)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_SECRET", "s3cret")

	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "@twitter", cfg.Relay.Keyword)
	assert.Equal(t, 3, cfg.Relay.MaxResults)
	assert.Equal(t, 64, cfg.Relay.QueueSize)
	assert.Equal(t, "#1DA1F2", cfg.Relay.Color)
	assert.Equal(t, "https://api.watsonwork.ibm.com", cfg.Workspace.BaseURL)
	assert.False(t, cfg.API.Enabled)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	// TEST_WEBHOOK_SECRET unset: ${...} expands to empty string.
	t.Setenv("TEST_WEBHOOK_SECRET", "")

	_, err := Load(writeConfig(t, validConfigYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.secret")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_IncompleteTwitterCreds(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_SECRET", "s3cret")

	cfgYAML := `
webhook:
  listen: ":3000"
  secret: ${TEST_WEBHOOK_SECRET}
workspace:
  app_id: app-id
  app_secret: app-secret
twitter:
  consumer_key: ck
`
	_, err := Load(writeConfig(t, cfgYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twitter credentials")
}

func TestParseMaxBodySize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		hasError bool
	}{
		{"empty defaults", "", DefaultMaxBodySize, false},
		{"plain bytes", "65536", 65536, false},
		{"kilobytes", "64KB", 64 * 1024, false},
		{"megabytes", "2MB", 2 * 1024 * 1024, false},
		{"lowercase", "1mb", 1024 * 1024, false},
		{"zero", "0", 0, true},
		{"garbage", "lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMaxBodySize(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}
