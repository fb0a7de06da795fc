// Package process runs repository check scripts as subprocesses.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/naclports/naclports/internal/application/ports"
	"github.com/naclports/naclports/internal/domain/presubmit"
)

// waitDelay bounds how long output copying may outlive a cancelled command.
const waitDelay = 2 * time.Second

// Runner executes commands with combined stdout and stderr captured.
type Runner struct {
	logger        *slog.Logger
	maxOutputSize int
}

// NewRunner creates a Runner. maxOutputSize bounds the captured output
// kept per command; zero selects presubmit.DefaultMaxOutputSize.
func NewRunner(logger *slog.Logger, maxOutputSize int) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if maxOutputSize <= 0 {
		maxOutputSize = presubmit.DefaultMaxOutputSize
	}
	return &Runner{logger: logger, maxOutputSize: maxOutputSize}
}

// Run executes argv with dir as working directory. A relative argv[0]
// containing a path separator is resolved against dir.
func (r *Runner) Run(ctx context.Context, dir string, argv []string) (ports.CommandResult, error) {
	if len(argv) == 0 {
		return ports.CommandResult{}, errors.New("empty command")
	}

	name := argv[0]
	if !filepath.IsAbs(name) && filepath.Base(name) != name {
		name = filepath.Join(dir, filepath.FromSlash(name))
	}

	//nolint:gosec // G204: argv comes from the fixed check table
	cmd := exec.CommandContext(ctx, name, argv[1:]...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	r.logger.Debug("starting command", "argv", argv, "dir", dir)

	if err := cmd.Start(); err != nil {
		return ports.CommandResult{}, err
	}

	err := cmd.Wait()
	output, meta := presubmit.TruncateOutput(buf.String(), r.maxOutputSize)
	result := ports.CommandResult{Output: output, OutputMeta: meta}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("command interrupted: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.logger.Debug("command failed", "argv", argv, "exit_code", result.ExitCode)
			return result, nil
		}
		return result, err
	}

	r.logger.Debug("command succeeded", "argv", argv)
	return result, nil
}
