// Package config loads flok configuration from the environment.
//
// Every value can be overridden by a CLI flag; precedence is
// flag > FLOK_* environment variable > default.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the process configuration. Fields map to FLOK_* environment
// variables via envconfig.
type Config struct {
	// ClientID is the Azure AD application (client) id used for the
	// device-code flow. Required for login.
	ClientID string `envconfig:"CLIENT_ID"`

	// TenantID selects the Azure AD tenant; "common" allows any account.
	TenantID string `envconfig:"TENANT_ID" default:"common"`

	// Account is the account id commands act on when set; otherwise the
	// usual resolution order applies.
	Account string `envconfig:"ACCOUNT"`

	// ReadOnly disables all write operations in the CLI and MCP tools.
	ReadOnly bool `envconfig:"READ_ONLY"`

	// APIVersion is the Graph API version prefix.
	APIVersion string `envconfig:"API_VERSION" default:"v1.0"`

	// GraphBaseURL overrides the Graph API root, e.g. for sovereign clouds.
	GraphBaseURL string `envconfig:"GRAPH_BASE_URL" default:"https://graph.microsoft.com"`

	// Authority overrides the identity provider endpoint root.
	Authority string `envconfig:"AUTHORITY" default:"https://login.microsoftonline.com"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is "text" or "json".
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads configuration from FLOK_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("flok", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}

// BaseURL returns the versioned Graph API base URL.
func (c *Config) BaseURL() string {
	return c.GraphBaseURL + "/" + c.APIVersion
}
