// Package config provides the unified configuration system for ticketbridge.
// It defines a single AdapterConfig structure that every adapter instance is
// constructed from, ensuring consistent configuration across the system.
//
// The configuration is organized into logical sections:
//   - Core: remote instance URL, credentials, table name
//   - Timeouts: connection and request timeouts
//   - Observability: logging, metrics and tracing settings
//
// Example usage:
//
//	cfg := config.NewAdapterConfig("https://dev1234.service-now.com", "change_request")
//	cfg.Credentials.Username = "svc_bridge"
//	cfg.Credentials.Password = os.Getenv("SN_PASSWORD")
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// AdapterConfig is the single configuration structure an adapter instance is
// bound to. It is copied at construction time and never mutated afterwards.
type AdapterConfig struct {
	// URL is the base URL of the remote ticketing instance
	URL string `yaml:"url" json:"url"`
	// TableName is the remote table resource the adapter operates on
	TableName string `yaml:"table_name" json:"table_name"`

	// Credentials holds authentication material for the transport connector
	Credentials Credentials `yaml:"credentials" json:"credentials"`

	// Timeouts define transport timeout durations
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// Credentials stores authentication credentials. Username/Password drive HTTP
// basic auth; when TokenURL is set the OAuth2 client-credentials flow is used
// instead.
type Credentials struct {
	Username     string `yaml:"username" json:"username"`
	Password     string `yaml:"password" json:"password"`
	ClientID     string `yaml:"client_id" json:"client_id"`
	ClientSecret string `yaml:"client_secret" json:"client_secret"`
	TokenURL     string `yaml:"token_url" json:"token_url"`
}

// TimeoutConfig contains transport timeout settings. These prevent a single
// request from hanging indefinitely; there is no retry on top of them.
type TimeoutConfig struct {
	// Request timeout for one complete request/response cycle
	Request time.Duration `yaml:"request" json:"request"`
	// Connection timeout for establishing connections
	Connection time.Duration `yaml:"connection" json:"connection"`
	// KeepAlive interval for transport keep-alives
	KeepAlive time.Duration `yaml:"keep_alive" json:"keep_alive"`
}

// UnmarshalYAML accepts Go duration strings ("30s", "1m") for timeout fields
func (t *TimeoutConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Request    string `yaml:"request"`
		Connection string `yaml:"connection"`
		KeepAlive  string `yaml:"keep_alive"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	for _, field := range []struct {
		value  string
		target *time.Duration
	}{
		{raw.Request, &t.Request},
		{raw.Connection, &t.Connection},
		{raw.KeepAlive, &t.KeepAlive},
	} {
		if field.value == "" {
			continue
		}
		d, err := time.ParseDuration(field.value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", field.value, err)
		}
		*field.target = d
	}

	return nil
}

// MarshalYAML emits timeout fields as Go duration strings, matching what
// UnmarshalYAML accepts
func (t TimeoutConfig) MarshalYAML() (interface{}, error) {
	return map[string]string{
		"request":    t.Request.String(),
		"connection": t.Connection.String(),
		"keep_alive": t.KeepAlive.String(),
	}, nil
}

// ObservabilityConfig contains monitoring settings
type ObservabilityConfig struct {
	// LogLevel sets the minimum log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// EnableMetrics activates Prometheus metrics collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing activates OpenTelemetry tracing
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
}

// NewAdapterConfig creates a configuration with sensible defaults for the
// given instance URL and table
func NewAdapterConfig(url, tableName string) *AdapterConfig {
	return &AdapterConfig{
		URL:       url,
		TableName: tableName,
		Timeouts: TimeoutConfig{
			Request:    30 * time.Second,
			Connection: 10 * time.Second,
			KeepAlive:  30 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			EnableMetrics: true,
		},
	}
}

// Validate checks that required fields are present and applies defaults for
// optional ones. Structural validation of the URL itself is the transport
// connector's concern.
func (c *AdapterConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.TableName == "" {
		return fmt.Errorf("table_name is required")
	}

	hasBasic := c.Credentials.Username != "" && c.Credentials.Password != ""
	hasOAuth := c.Credentials.TokenURL != "" && c.Credentials.ClientID != ""
	if !hasBasic && !hasOAuth {
		return fmt.Errorf("credentials are required: either username/password or token_url/client_id")
	}

	if c.Timeouts.Request <= 0 {
		c.Timeouts.Request = 30 * time.Second
	}
	if c.Timeouts.Connection <= 0 {
		c.Timeouts.Connection = 10 * time.Second
	}
	if c.Timeouts.KeepAlive <= 0 {
		c.Timeouts.KeepAlive = 30 * time.Second
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}

	return nil
}

// Clone returns a copy of the configuration. Adapters clone at construction
// so later mutation by the caller cannot leak in.
func (c *AdapterConfig) Clone() *AdapterConfig {
	clone := *c
	return &clone
}
