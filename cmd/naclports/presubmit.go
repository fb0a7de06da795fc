package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/naclports/naclports/internal/application/dto"
	"github.com/naclports/naclports/internal/application/ports"
	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
	"github.com/naclports/naclports/internal/infrastructure/container"
	"github.com/naclports/naclports/internal/infrastructure/output"
	"github.com/naclports/naclports/internal/infrastructure/prompt"
	"github.com/spf13/cobra"
)

// errWarningsNotAccepted is returned when the gate produced only
// non-error findings that were not confirmed interactively.
var errWarningsNotAccepted = errors.New("presubmit warnings were not accepted")

type presubmitOptions struct {
	common        CommonOptions
	repo          string
	settings      string
	base          string
	treeStatusURL string
	checks        []string
	skip          []string
	filter        string
	noPrompt      bool
	noColor       bool
}

var presubmitOpts = presubmitOptions{
	common: DefaultCommonOptions("table", "json", "yaml", "junit", "sarif"),
	repo:   ".",
}

// presubmitCmd runs the commit gate.
var presubmitCmd = &cobra.Command{
	Use:       "presubmit <upload|commit>",
	Short:     "Run the presubmit checks of the ports tree",
	ValidArgs: []string{string(values.TriggerUpload), string(values.TriggerCommit)},
	Long: `Run the presubmit checks against the change in the repository.

Triggers:
  upload   unit tests, dependency check, buildbot partition, project checks
  commit   everything in upload, then mirror freshness and tree status

Filtering:
  --check deps,unittests        Run only these checks (exclusive)
  --skip mirror                 Skip these checks
  --filter "'script' in tags"   Advanced filter expression over id, name, tags, trigger

The command exits non-zero unless the gate produced no findings. When only
warnings are found and the terminal is interactive the warnings may be
accepted at a prompt.`,
	Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPresubmitAction(cmd, args[0], &presubmitOpts, nil)
	},
}

func init() {
	rootCmd.AddCommand(presubmitCmd)

	presubmitOpts.common.RegisterFlags(presubmitCmd)
	presubmitOpts.common.RegisterTimeoutFlag(presubmitCmd)

	flags := presubmitCmd.Flags()
	flags.StringVar(&presubmitOpts.repo, "repo", presubmitOpts.repo, "Root of the ports checkout")
	flags.StringVar(&presubmitOpts.settings, "settings", "", "Presubmit settings file (default: <repo>/.naclports.yaml)")
	flags.StringVar(&presubmitOpts.base, "base", "", "Revision the change is diffed against (default: upstream, else HEAD)")
	flags.StringVar(&presubmitOpts.treeStatusURL, "tree-status-url", "", "Override the tree status endpoint")
	flags.StringSliceVar(&presubmitOpts.checks, "check", nil, "Run specific checks by ID (exclusive, comma-separated)")
	flags.StringSliceVar(&presubmitOpts.skip, "skip", nil, "Skip checks by ID (comma-separated)")
	flags.StringVar(&presubmitOpts.filter, "filter", "", "Advanced filter expression (e.g. \"'network' not in tags\")")
	flags.BoolVar(&presubmitOpts.noPrompt, "no-prompt", false, "Never ask to accept warnings")
	flags.BoolVar(&presubmitOpts.noColor, "no-color", false, "Disable colored table output")
}

// runPresubmitAction implements the presubmit command. A nil prompter
// means the container's terminal prompter.
func runPresubmitAction(cmd *cobra.Command, trigger string, opts *presubmitOptions, prompter ports.Prompter) error {
	if err := opts.common.ValidateFlags(); err != nil {
		return err
	}

	t, err := values.ParseTrigger(trigger)
	if err != nil {
		return err
	}

	c, err := container.New(container.Options{
		Logger:        slog.Default(),
		RepoRoot:      opts.repo,
		SettingsPath:  opts.settings,
		DiffBase:      opts.base,
		TreeStatusURL: opts.treeStatusURL,
		Prompter:      prompter,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, cancel := opts.common.ApplyToContext(cmd.Context())
	defer cancel()

	resp, err := c.Gate().Run(ctx, dto.RunGateRequest{
		Trigger: t,
		Filters: dto.FilterOptions{
			FilterExpression: opts.filter,
			IncludeCheckIDs:  opts.checks,
			ExcludeCheckIDs:  opts.skip,
		},
		Metadata: dto.RequestMetadata{RequestID: uuid.NewString()},
	})
	if err != nil {
		return err
	}
	result := resp.Result

	slog.Info("presubmit complete",
		"trigger", t,
		"duration", resp.Metadata.Duration,
		"checks", result.Summary.TotalChecks,
		"errors", result.Summary.Errors,
		"warnings", result.Summary.Warnings)

	writer, closeWriter, err := opts.common.OpenWriter(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeWriter() // Best-effort cleanup
	}()

	formatter, err := output.NewFormatterFactory().Create(opts.common.Format, writer, output.FormatterOptions{
		RepoRoot: c.RepoRoot(),
		Indent:   true,
		NoColor:  opts.noColor || opts.common.OutputFile != "",
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return verdict(ctx, result, c.Prompter(), opts.noPrompt)
}

// verdict turns a gate result into the command's exit error.
func verdict(ctx context.Context, result *presubmit.GateResult, prompter ports.Prompter, noPrompt bool) error {
	if result.Passed() {
		return nil
	}
	if result.HasErrors() {
		return fmt.Errorf("presubmit failed: %d errors, %d warnings",
			result.Summary.Errors, result.Summary.Warnings)
	}
	if noPrompt || !prompter.IsInteractive() {
		return errWarningsNotAccepted
	}

	ok, err := prompter.Confirm(ctx, prompt.WarningsQuestion)
	if err != nil {
		return fmt.Errorf("failed to confirm warnings: %w", err)
	}
	if !ok {
		return errWarningsNotAccepted
	}
	slog.Debug("presubmit warnings accepted")
	return nil
}
