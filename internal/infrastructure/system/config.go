// Package system loads repository-level settings for the presubmit gate
// from <repo>/.naclports.yaml.
package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	"github.com/naclports/naclports/internal/application/services"
	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/infrastructure/canned"
)

// ConfigFileName is the settings file looked up at the repository root.
const ConfigFileName = ".naclports.yaml"

// Defaults for the presubmit section.
const (
	DefaultProjectName    = "Native Client"
	DefaultMaxOutputBytes = presubmit.DefaultMaxOutputSize
)

// DefaultExcludedPaths are skipped by the project checks.
var DefaultExcludedPaths = []string{`^build_tools[\\/]patch_configure.py`}

// Config represents the repository settings file.
type Config struct {
	Presubmit PresubmitConfig `yaml:"presubmit"`
	Redaction RedactionConfig `yaml:"redaction"`
}

// PresubmitConfig configures the gate and its project checks.
type PresubmitConfig struct {
	ProjectName   string   `yaml:"project_name"`
	TreeStatusURL string   `yaml:"tree_status_url"`
	ExcludedPaths []string `yaml:"excluded_paths"`
	// MaxLineLength of -1 disables the long-line check.
	MaxLineLength  int `yaml:"max_line_length"`
	MaxOutputBytes int `yaml:"max_output_bytes"`
	// Concurrency bounds parallel file scanning in the project checks.
	Concurrency int `yaml:"concurrency"`
	// DisableSecrets turns off gitleaks scanning of added lines.
	DisableSecrets bool `yaml:"disable_secrets"`
	// RequiredVersion is a semver constraint the naclports binary must
	// satisfy, e.g. ">= 1.2".
	RequiredVersion string `yaml:"required_version"`
}

// RedactionConfig configures how secrets in captured script output are sanitized.
type RedactionConfig struct {
	HashMode HashModeConfig `yaml:"hash_mode"`
	Patterns []string       `yaml:"patterns"`
}

// HashModeConfig controls hash-based redaction.
type HashModeConfig struct {
	Salt    string `yaml:"salt"`
	Enabled bool   `yaml:"enabled"`
}

// ConfigLoader loads repository settings from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new settings loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with the built-in presubmit settings.
// This is used when no settings file exists.
func DefaultConfig() *Config {
	return &Config{
		Presubmit: PresubmitConfig{
			ProjectName:    DefaultProjectName,
			TreeStatusURL:  services.DefaultTreeStatusURL,
			ExcludedPaths:  append([]string(nil), DefaultExcludedPaths...),
			MaxLineLength:  canned.DefaultMaxLineLength,
			MaxOutputBytes: DefaultMaxOutputBytes,
		},
		Redaction: RedactionConfig{
			Patterns: []string{},
		},
	}
}

// Load loads the settings from the specified path.
// If the file does not exist, returns DefaultConfig(). Fields left empty
// in the file take their default values.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	//nolint:gosec // G304: path is the user's repository settings file
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig().Presubmit
	p := &c.Presubmit

	if p.ProjectName == "" {
		p.ProjectName = d.ProjectName
	}
	if p.TreeStatusURL == "" {
		p.TreeStatusURL = d.TreeStatusURL
	}
	if p.ExcludedPaths == nil {
		p.ExcludedPaths = d.ExcludedPaths
	}
	if p.MaxLineLength == 0 {
		p.MaxLineLength = d.MaxLineLength
	}
	if p.MaxOutputBytes == 0 {
		p.MaxOutputBytes = d.MaxOutputBytes
	}
}

// Validate rejects settings that cannot be applied.
func (c *Config) Validate() error {
	if c.Presubmit.MaxLineLength < -1 {
		return fmt.Errorf("presubmit.max_line_length must be positive or -1, got %d", c.Presubmit.MaxLineLength)
	}
	if c.Presubmit.MaxOutputBytes < 0 {
		return fmt.Errorf("presubmit.max_output_bytes must not be negative, got %d", c.Presubmit.MaxOutputBytes)
	}
	if c.Presubmit.Concurrency < 0 {
		return fmt.Errorf("presubmit.concurrency must not be negative, got %d", c.Presubmit.Concurrency)
	}
	if c.Presubmit.RequiredVersion != "" {
		if _, err := semver.NewConstraint(c.Presubmit.RequiredVersion); err != nil {
			return fmt.Errorf("presubmit.required_version %q: %w", c.Presubmit.RequiredVersion, err)
		}
	}
	return nil
}
