package container

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/naclports/naclports/internal/application/errors"
	"github.com/naclports/naclports/internal/application/services"
	"github.com/naclports/naclports/internal/infrastructure/system"
	"github.com/naclports/naclports/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()

	c, err := New(Options{RepoRoot: dir})
	require.NoError(t, err)

	require.NotNil(t, c.Gate())
	require.NotNil(t, c.Prompter())
	assert.Equal(t, system.DefaultProjectName, c.Settings().Presubmit.ProjectName)
	assert.Equal(t, services.DefaultTreeStatusURL, c.Settings().Presubmit.TreeStatusURL)
	assert.True(t, filepath.IsAbs(c.RepoRoot()))
	assert.NotNil(t, c.Logger())
}

func TestNew_SettingsFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	settings := "presubmit:\n  project_name: WebPorts\n  disable_secrets: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, system.ConfigFileName), []byte(settings), 0o600))

	c, err := New(Options{RepoRoot: dir, TreeStatusURL: "http://localhost:1/status"})
	require.NoError(t, err)
	assert.Equal(t, "WebPorts", c.Settings().Presubmit.ProjectName)
	assert.Equal(t, "http://localhost:1/status", c.Settings().Presubmit.TreeStatusURL)
}

func TestNew_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	settings := "presubmit:\n  excluded_paths: [\"(\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, system.ConfigFileName), []byte(settings), 0o600))

	_, err := New(Options{RepoRoot: dir})
	require.Error(t, err)

	var cfgErr *apperrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "settings", cfgErr.Aspect)
}

func TestNew_RequiredVersion(t *testing.T) {
	original := version.Version
	t.Cleanup(func() { version.Version = original })

	dir := t.TempDir()
	settings := "presubmit:\n  required_version: \">= 1.2\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, system.ConfigFileName), []byte(settings), 0o600))

	version.Version = "1.3.0"
	_, err := New(Options{RepoRoot: dir})
	require.NoError(t, err)

	version.Version = "1.1.0"
	_, err = New(Options{RepoRoot: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `naclports 1.1.0 does not satisfy required_version ">= 1.2"`)
}
