package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// CommonOptions contains the output and execution flags shared by commands.
type CommonOptions struct {
	// Output
	Format     string
	OutputFile string

	// Execution
	Timeout time.Duration

	formats []string
}

// DefaultCommonOptions returns the defaults for a command accepting the
// given output formats. The first format is the default.
func DefaultCommonOptions(formats ...string) CommonOptions {
	return CommonOptions{
		Format:  formats[0],
		formats: formats,
	}
}

// RegisterFlags adds the output flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: "+strings.Join(opts.formats, ", "))
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "",
		"Output file path (default: stdout)")
}

// RegisterTimeoutFlag adds --timeout for commands that run blocking work.
func (opts *CommonOptions) RegisterTimeoutFlag(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Global timeout for entire execution (0 to disable)")
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	if opts.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}
	if !slices.Contains(opts.formats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", opts.Format, strings.Join(opts.formats, ", "))
	}
	return nil
}

// OpenWriter returns the writer output goes to and a function closing it.
func (opts *CommonOptions) OpenWriter(cmd *cobra.Command) (io.Writer, func() error, error) {
	if opts.OutputFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.Create(opts.OutputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, file.Close, nil
}
