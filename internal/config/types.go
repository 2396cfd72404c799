// Package config loads the vmdash client configuration: which backend
// to talk to and how to present results. The backend base URL is an
// environment-specific value and never hardcoded; it can come from a
// YAML file, the VMDASH_API_URL environment variable, or a flag (the
// caller applies flag overrides after Load).
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gemops/vmdash/internal/output"
)

// EnvAPIBaseURL overrides the configured base URL when set.
const EnvAPIBaseURL = "VMDASH_API_URL"

const (
	defaultBaseURL        = "http://localhost:8000/api"
	defaultTimeoutSeconds = 30
	defaultOutput         = string(output.FormatTable)
)

// Config is the complete client configuration.
type Config struct {
	// APIBaseURL is the backend base URL, including any path prefix
	// (e.g. "http://localhost:8000/api").
	APIBaseURL string `yaml:"api_base_url"`

	// RequestTimeoutSeconds bounds a single request/response cycle.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds,omitempty"`

	// Output is the default output format: table, yaml, or json.
	Output string `yaml:"output,omitempty"`

	// Verbose enables debug-level diagnostic logging.
	Verbose bool `yaml:"verbose,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		APIBaseURL:            defaultBaseURL,
		RequestTimeoutSeconds: defaultTimeoutSeconds,
		Output:                defaultOutput,
	}
}

// RequestTimeout returns the request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Normalize sanitizes user input to consistent formats and fills in
// defaults. Called automatically by Load and LoadFromFile before
// validation.
func (c *Config) Normalize() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))

	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultBaseURL
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Output == "" {
		c.Output = defaultOutput
	}
}

// Validate checks the configuration for errors. Does not probe the
// backend; only the config structure is validated.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url %q: %w", c.APIBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api_base_url must be an http or https URL, got %q", c.APIBaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("api_base_url is missing a host: %q", c.APIBaseURL)
	}

	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be > 0, got %d", c.RequestTimeoutSeconds)
	}

	if err := output.ValidateFormat(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	return nil
}

// applyEnv overlays environment overrides onto the configuration.
func (c *Config) applyEnv() {
	if baseURL := os.Getenv(EnvAPIBaseURL); baseURL != "" {
		c.APIBaseURL = baseURL
	}
}

// LoadFromFile loads a configuration from a YAML file, applies
// environment overrides, and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.applyEnv()
	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Load resolves the configuration for a session. When path is empty,
// the defaults (plus environment overrides) are used; a missing
// explicit file is an error.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}

	config := Default()
	config.applyEnv()
	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
