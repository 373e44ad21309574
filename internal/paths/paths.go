package paths

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
)

// Paths holds the resolved locations for the config file and the data
// directory that receives the measurement logs and summary document.
type Paths struct {
	ConfigFile string
	DataDir    string
}

// DefaultPaths returns the default locations based on the current user.
// Root: /etc/vigil/config.yaml and /var/lib/vigil.
// Non-root: ~/.vigil/config.yaml and ~/.vigil/data.
func DefaultPaths() (*Paths, error) {
	if os.Geteuid() == 0 {
		return &Paths{
			ConfigFile: "/etc/vigil/config.yaml",
			DataDir:    "/var/lib/vigil",
		}, nil
	}

	usr, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	baseDir := filepath.Join(usr.HomeDir, ".vigil")
	return &Paths{
		ConfigFile: filepath.Join(baseDir, "config.yaml"),
		DataDir:    filepath.Join(baseDir, "data"),
	}, nil
}

// EnsureDirectories creates the config and data directories if needed.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(p.ConfigFile),
		p.DataDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ConfigExists checks if the config file exists
func (p *Paths) ConfigExists() bool {
	_, err := os.Stat(p.ConfigFile)
	return err == nil
}

// String returns a human-readable representation of the paths
func (p *Paths) String() string {
	return fmt.Sprintf("Config: %s, Data: %s", p.ConfigFile, p.DataDir)
}

// CreateDefaultConfig writes a commented sample config if none exists.
// Returns true if a new config was created, false if it already existed.
func (p *Paths) CreateDefaultConfig() (bool, error) {
	if p.ConfigExists() {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(p.ConfigFile), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# vigil configuration
# Edit this file to configure the endpoints you want to monitor.

server:
  address: ":8080"
  enable_tui: true

global:
  interval: 60s
  timeout: 15s
  window: 10

probe:
  method: GET
  user_agent: "vigil/1.0"

publish:
  enabled: false
  message_prefix: "vigil results update"

logging:
  format: text

targets:
  - name: "VIES API"
    url: "https://ec.europa.eu/taxation_customs/vies/rest-api/ms/CZ/vat/CZ26185610"
    expected_content: "isValid"
    description: "EU VIES VAT validation endpoint"
`
	if err := os.WriteFile(p.ConfigFile, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}
