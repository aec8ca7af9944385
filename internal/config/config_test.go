package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, env := range []string{"FLOK_CLIENT_ID", "FLOK_TENANT_ID", "FLOK_ACCOUNT", "FLOK_READ_ONLY",
		"FLOK_API_VERSION", "FLOK_GRAPH_BASE_URL", "FLOK_AUTHORITY", "FLOK_LOG_LEVEL", "FLOK_LOG_FORMAT"} {
		t.Setenv(env, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TenantID != "common" {
		t.Errorf("TenantID = %q, want common", cfg.TenantID)
	}
	if cfg.APIVersion != "v1.0" {
		t.Errorf("APIVersion = %q, want v1.0", cfg.APIVersion)
	}
	if cfg.GraphBaseURL != "https://graph.microsoft.com" {
		t.Errorf("GraphBaseURL = %q", cfg.GraphBaseURL)
	}
	if cfg.Authority != "https://login.microsoftonline.com" {
		t.Errorf("Authority = %q", cfg.Authority)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ReadOnly {
		t.Error("ReadOnly should default to false")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FLOK_CLIENT_ID", "client-abc")
	t.Setenv("FLOK_TENANT_ID", "contoso.onmicrosoft.com")
	t.Setenv("FLOK_ACCOUNT", "work")
	t.Setenv("FLOK_READ_ONLY", "true")
	t.Setenv("FLOK_API_VERSION", "beta")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ClientID != "client-abc" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
	if cfg.TenantID != "contoso.onmicrosoft.com" {
		t.Errorf("TenantID = %q", cfg.TenantID)
	}
	if cfg.Account != "work" {
		t.Errorf("Account = %q", cfg.Account)
	}
	if !cfg.ReadOnly {
		t.Error("ReadOnly = false, want true")
	}
	if cfg.APIVersion != "beta" {
		t.Errorf("APIVersion = %q", cfg.APIVersion)
	}
}

func TestBaseURL(t *testing.T) {
	cfg := &Config{GraphBaseURL: "https://graph.microsoft.com", APIVersion: "v1.0"}
	if got := cfg.BaseURL(); got != "https://graph.microsoft.com/v1.0" {
		t.Errorf("BaseURL() = %q", got)
	}
}
