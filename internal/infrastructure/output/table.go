package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
)

// maxOutputLines bounds the script output shown under a failed check.
const maxOutputLines = 20

// TableFormatter formats gate results for a terminal.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns text rendered in c if color is enabled.
func (f *TableFormatter) colorize(text string, c color.Color) string {
	if !f.EnableColor {
		return text
	}
	return c.Sprint(text)
}

func (f *TableFormatter) rule() string {
	return f.colorize(strings.Repeat("─", 80), color.Gray)
}

// Format writes the gate result as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(result *presubmit.GateResult) error {
	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "Presubmit: %s (%s)\n", f.colorize(string(result.Trigger), color.Bold), result.Project)
	fmt.Fprintf(f.writer, "Gate ID: %s\n", result.ID)
	if result.Status != "" {
		_, c := f.getStatusInfo(result.Status)
		fmt.Fprintf(f.writer, "Status: %s\n", f.colorize(strings.ToUpper(string(result.Status)), c))
	}
	fmt.Fprintf(f.writer, "Executed: %s\n", result.StartTime.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintln(f.writer)

	if len(result.Checks) == 0 {
		fmt.Fprintln(f.writer, "No checks executed.")
		return nil
	}

	fmt.Fprintln(f.writer, f.colorize("Checks:", color.Bold))
	fmt.Fprintln(f.writer, f.rule())

	for _, check := range result.Checks {
		f.formatCheck(check)
	}

	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintln(f.writer)

	f.formatSummary(result)

	return nil
}

// formatCheck formats a single check.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatCheck(check presubmit.CheckResult) {
	symbol, c := f.getStatusInfo(check.Status)
	fmt.Fprintf(f.writer, "%s %s: %s\n", f.colorize(symbol, c), f.colorize(check.ID, c), check.Name)

	if len(check.Tags) > 0 {
		fmt.Fprintf(f.writer, "  Tags: %s\n", strings.Join(check.Tags, ", "))
	}

	statusText := f.colorize(strings.ToUpper(string(check.Status)), c)
	if check.ExitCode != 0 {
		statusText += fmt.Sprintf(" (exit %d)", check.ExitCode)
	}
	fmt.Fprintf(f.writer, "  Status: %s\n", statusText)

	if check.SkipReason != "" {
		fmt.Fprintf(f.writer, "  Skip Reason: %s\n", check.SkipReason)
	}
	if len(check.Command) > 0 {
		fmt.Fprintf(f.writer, "  Command: %s\n", strings.Join(check.Command, " "))
	}
	if check.Status != values.StatusSkipped {
		fmt.Fprintf(f.writer, "  Duration: %s\n", check.Duration.Round(time.Millisecond))
	}

	for _, finding := range check.Findings {
		f.formatFinding(finding)
	}

	if check.Status.IsFailure() && check.Output != "" {
		f.formatOutput(check)
	}

	fmt.Fprintln(f.writer)
}

// formatFinding formats one finding with its long text and items.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatFinding(finding presubmit.Finding) {
	label, c := f.getLevelInfo(finding.Level)
	fmt.Fprintf(f.writer, "  %s %s\n", f.colorize(label, c), finding.Message)

	for _, item := range finding.Items {
		fmt.Fprintf(f.writer, "      %s\n", item)
	}
	if finding.LongText != "" {
		for _, line := range strings.Split(finding.LongText, "\n") {
			fmt.Fprintf(f.writer, "      %s\n", line)
		}
	}
}

// formatOutput prints the tail of captured script output.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatOutput(check presubmit.CheckResult) {
	lines := strings.Split(strings.TrimRight(check.Output, "\n"), "\n")
	if len(lines) > maxOutputLines {
		lines = lines[len(lines)-maxOutputLines:]
	}

	header := "  Output:"
	if check.OutputMeta != nil && check.OutputMeta.Truncated {
		header = fmt.Sprintf("  Output (truncated from %d bytes):", check.OutputMeta.OriginalSize)
	}
	fmt.Fprintln(f.writer, f.colorize(header, color.Cyan))
	for _, line := range lines {
		fmt.Fprintf(f.writer, "    %s\n", line)
	}
}

// formatSummary formats the summary statistics and the verdict.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatSummary(result *presubmit.GateResult) {
	summary := result.Summary

	fmt.Fprintln(f.writer, f.colorize("Summary:", color.Bold))
	fmt.Fprintln(f.writer, f.rule())

	fmt.Fprintf(f.writer, "Checks:   %d total\n", summary.TotalChecks)
	fmt.Fprintf(f.writer, "  %s Passed:   %d\n", f.colorize("✓", color.Green), summary.PassedChecks)
	fmt.Fprintf(f.writer, "  %s Failed:   %d\n", f.colorize("✗", color.Red), summary.FailedChecks)
	fmt.Fprintf(f.writer, "  %s Errors:   %d\n", f.colorize("⚠", color.Yellow), summary.ErrorChecks)
	fmt.Fprintf(f.writer, "  %s Skipped:  %d\n", f.colorize("⊘", color.Gray), summary.SkippedChecks)
	fmt.Fprintln(f.writer)

	fmt.Fprintf(f.writer, "Findings: %d errors, %d warnings, %d notifications\n",
		summary.Errors, summary.Warnings, summary.Notifications)
	fmt.Fprintln(f.writer, f.rule())

	switch {
	case summary.Errors > 0:
		fmt.Fprintln(f.writer, f.colorize("Presubmit ERRORS", color.Red))
	case summary.Warnings > 0:
		fmt.Fprintln(f.writer, f.colorize("There were presubmit warnings.", color.Yellow))
	case summary.Notifications > 0:
		fmt.Fprintln(f.writer, f.colorize("Presubmit messages", color.Cyan))
	default:
		fmt.Fprintln(f.writer, f.colorize("Presubmit checks passed.", color.Green))
	}
}

// getStatusInfo returns a symbol and color for the given status.
func (f *TableFormatter) getStatusInfo(status values.Status) (string, color.Color) {
	switch status {
	case values.StatusPass:
		return "✓", color.Green
	case values.StatusFail:
		return "✗", color.Red
	case values.StatusError:
		return "⚠", color.Yellow
	case values.StatusSkipped:
		return "⊘", color.Gray
	default:
		return "?", color.Normal
	}
}

// getLevelInfo returns the heading and color for a finding level.
func (f *TableFormatter) getLevelInfo(level values.Level) (string, color.Color) {
	switch {
	case level.Equals(values.LvlError):
		return "** ERROR **", color.Red
	case level.Equals(values.LvlWarning):
		return "** WARNING **", color.Yellow
	default:
		return "** NOTICE **", color.Cyan
	}
}
