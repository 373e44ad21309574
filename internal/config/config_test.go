package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{Address: ":8080", EnableTUI: true},
		Global: GlobalConfig{
			Interval: 60 * time.Second,
			Timeout:  15 * time.Second,
			Window:   10,
			DataDir:  "./data",
		},
		Probe:   ProbeConfig{Method: "GET", UserAgent: "vigil/1.0"},
		Logging: LoggingConfig{Format: "text"},
		Targets: []Target{
			{Name: "VIES API", URL: "https://ec.europa.eu/taxation_customs/vies/rest-api/ms/CZ/vat/CZ26185610"},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"no targets", func(c *Config) { c.Targets = nil }, true},
		{"missing name", func(c *Config) { c.Targets[0].Name = "" }, true},
		{"missing url", func(c *Config) { c.Targets[0].URL = "" }, true},
		{"bad scheme", func(c *Config) { c.Targets[0].URL = "ftp://example.org/x" }, true},
		{"no host", func(c *Config) { c.Targets[0].URL = "http://" }, true},
		{"duplicate names", func(c *Config) {
			c.Targets = append(c.Targets, Target{Name: "VIES API", URL: "https://example.org"})
		}, true},
		{"second target ok", func(c *Config) {
			c.Targets = append(c.Targets, Target{Name: "Other", URL: "https://example.org"})
		}, false},
		{"zero interval", func(c *Config) { c.Global.Interval = 0 }, true},
		{"zero timeout", func(c *Config) { c.Global.Timeout = 0 }, true},
		{"timeout >= interval", func(c *Config) { c.Global.Timeout = c.Global.Interval }, true},
		{"zero window", func(c *Config) { c.Global.Window = 0 }, true},
		{"empty method", func(c *Config) { c.Probe.Method = "" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"json log format", func(c *Config) { c.Logging.Format = "json" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
global:
  interval: 2m
  timeout: 20s
  window: 5

targets:
  - name: "VIES API"
    url: "https://ec.europa.eu/taxation_customs/vies/rest-api/ms/CZ/vat/CZ26185610"
    expected_content: "isValid"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Global.Interval != 2*time.Minute {
		t.Errorf("Interval = %v, want 2m", cfg.Global.Interval)
	}
	if cfg.Global.Window != 5 {
		t.Errorf("Window = %d, want 5", cfg.Global.Window)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].ExpectedContent != "isValid" {
		t.Errorf("Targets = %+v, want one VIES target with expected_content", cfg.Targets)
	}

	// Defaults fill in everything the file leaves out.
	if cfg.Server.Address != ":8080" {
		t.Errorf("Address = %q, want default :8080", cfg.Server.Address)
	}
	if cfg.Probe.UserAgent != "vigil/1.0" {
		t.Errorf("UserAgent = %q, want default", cfg.Probe.UserAgent)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Format = %q, want default text", cfg.Logging.Format)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
targets:
  - name: "Broken"
    url: "not a url"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should reject an invalid target url")
	}
}
