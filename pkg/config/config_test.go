package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/ticketbridge/pkg/config"
)

func validConfig() *config.AdapterConfig {
	cfg := config.NewAdapterConfig("https://dev1234.service-now.com", "change_request")
	cfg.Credentials.Username = "u"
	cfg.Credentials.Password = "p"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := &config.AdapterConfig{
		URL:       "https://x.example",
		TableName: "change_request",
		Credentials: config.Credentials{
			Username: "u",
			Password: "p",
		},
	}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Second, cfg.Timeouts.Request)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Connection)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.AdapterConfig)
	}{
		{"missing url", func(c *config.AdapterConfig) { c.URL = "" }},
		{"missing table", func(c *config.AdapterConfig) { c.TableName = "" }},
		{"missing credentials", func(c *config.AdapterConfig) { c.Credentials = config.Credentials{} }},
		{"password without username", func(c *config.AdapterConfig) { c.Credentials.Username = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_OAuthCredentialsSuffice(t *testing.T) {
	cfg := config.NewAdapterConfig("https://x.example", "change_request")
	cfg.Credentials.ClientID = "cid"
	cfg.Credentials.ClientSecret = "secret"
	cfg.Credentials.TokenURL = "https://x.example/oauth_token.do"

	assert.NoError(t, cfg.Validate())
}

func TestClone_Isolated(t *testing.T) {
	cfg := validConfig()
	clone := cfg.Clone()

	clone.TableName = "incident"
	assert.Equal(t, "change_request", cfg.TableName)
}

func TestLoad_SubstitutesEnvVars(t *testing.T) {
	t.Setenv("TB_TEST_PASSWORD", "s3cret")

	path := filepath.Join(t.TempDir(), "adapter.yaml")
	content := `
url: https://dev1234.service-now.com
table_name: change_request
credentials:
  username: svc_bridge
  password: ${TB_TEST_PASSWORD}
timeouts:
  request: 15s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := &config.AdapterConfig{}
	require.NoError(t, config.Load(path, cfg))

	assert.Equal(t, "s3cret", cfg.Credentials.Password)
	assert.Equal(t, 15*time.Second, cfg.Timeouts.Request)
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	cfg := validConfig()
	cfg.Timeouts.Request = 15 * time.Second
	cfg.Observability.EnableTracing = true

	path := filepath.Join(t.TempDir(), "adapter.yaml")
	require.NoError(t, config.Save(path, cfg))

	// Durations are written back as strings Load understands
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "request: 15s")

	loaded := &config.AdapterConfig{}
	require.NoError(t, config.Load(path, loaded))
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := &config.AdapterConfig{}
	assert.Error(t, config.Load(filepath.Join(t.TempDir(), "absent.yaml"), cfg))
}
