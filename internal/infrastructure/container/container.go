// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"log/slog"
	"path/filepath"

	apperrors "github.com/naclports/naclports/internal/application/errors"
	"github.com/naclports/naclports/internal/application/ports"
	"github.com/naclports/naclports/internal/application/services"
	"github.com/naclports/naclports/internal/infrastructure/canned"
	"github.com/naclports/naclports/internal/infrastructure/git"
	"github.com/naclports/naclports/internal/infrastructure/process"
	"github.com/naclports/naclports/internal/infrastructure/prompt"
	"github.com/naclports/naclports/internal/infrastructure/redaction"
	"github.com/naclports/naclports/internal/infrastructure/system"
	"github.com/naclports/naclports/internal/infrastructure/treestatus"
	"github.com/naclports/naclports/internal/version"
)

// Container holds all application dependencies.
type Container struct {
	gate     *services.Gate
	prompter ports.Prompter
	settings *system.Config
	logger   *slog.Logger
	repoRoot string
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	// RepoRoot is the checkout the gate runs against.
	RepoRoot string
	// SettingsPath overrides <RepoRoot>/.naclports.yaml.
	SettingsPath string
	// DiffBase overrides the revision the change is diffed against.
	DiffBase string
	// TreeStatusURL overrides the settings file.
	TreeStatusURL string
	// Prompter overrides the terminal prompter.
	Prompter ports.Prompter
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	repoRoot, err := filepath.Abs(opts.RepoRoot)
	if err != nil {
		return nil, apperrors.NewConfigurationError("repo", "cannot resolve repository root", err)
	}

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = filepath.Join(repoRoot, system.ConfigFileName)
	}

	settings, err := system.NewConfigLoader().Load(settingsPath)
	if err != nil {
		return nil, apperrors.NewConfigurationError("settings", "failed to load "+settingsPath, err)
	}
	if constraint := settings.Presubmit.RequiredVersion; constraint != "" {
		info := version.Get()
		ok, err := info.Satisfies(constraint)
		if err != nil {
			return nil, apperrors.NewConfigurationError("settings", "cannot check required_version", err)
		}
		if !ok {
			return nil, apperrors.NewConfigurationError("settings",
				fmt.Sprintf("naclports %s does not satisfy required_version %q", info.Version, constraint), nil)
		}
	}
	if opts.TreeStatusURL != "" {
		settings.Presubmit.TreeStatusURL = opts.TreeStatusURL
	}

	redactor, err := redaction.New(redaction.Config{
		Patterns: settings.Redaction.Patterns,
		HashMode: settings.Redaction.HashMode.Enabled,
		Salt:     settings.Redaction.HashMode.Salt,
	})
	if err != nil {
		return nil, apperrors.NewConfigurationError("redaction", "invalid redaction settings", err)
	}

	var secrets canned.SecretDetector
	if !settings.Presubmit.DisableSecrets {
		secrets = redactor
	}

	checker, err := canned.NewChecker(canned.Settings{
		ProjectName:   settings.Presubmit.ProjectName,
		ExcludedPaths: settings.Presubmit.ExcludedPaths,
		MaxLineLength: settings.Presubmit.MaxLineLength,
		Concurrency:   settings.Presubmit.Concurrency,
	}, secrets, opts.Logger)
	if err != nil {
		return nil, apperrors.NewConfigurationError("settings", "invalid project check settings", err)
	}

	treeClient, err := treestatus.NewClient(nil, opts.Logger)
	if err != nil {
		return nil, apperrors.NewConfigurationError("tree", "failed to create tree status client", err)
	}

	gate := services.NewGate(
		process.NewRunner(opts.Logger, settings.Presubmit.MaxOutputBytes),
		git.NewChangeSource(repoRoot, opts.DiffBase, opts.Logger),
		checker,
		treeClient,
		services.GateSettings{
			RepoRoot:      repoRoot,
			ProjectName:   settings.Presubmit.ProjectName,
			TreeStatusURL: settings.Presubmit.TreeStatusURL,
			Version:       version.Get().String(),
		},
		services.WithLogger(opts.Logger),
		services.WithRedactor(redactor),
	)

	prompter := opts.Prompter
	if prompter == nil {
		prompter = prompt.NewTerminalPrompter()
	}

	return &Container{
		gate:     gate,
		prompter: prompter,
		settings: settings,
		logger:   opts.Logger,
		repoRoot: repoRoot,
	}, nil
}

// Gate returns the presubmit gate.
func (c *Container) Gate() *services.Gate {
	return c.gate
}

// Prompter returns the prompter used to confirm warnings.
func (c *Container) Prompter() ports.Prompter {
	return c.prompter
}

// Settings returns the repository settings.
func (c *Container) Settings() *system.Config {
	return c.settings
}

// RepoRoot returns the absolute repository root.
func (c *Container) RepoRoot() string {
	return c.repoRoot
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
