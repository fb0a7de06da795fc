// Package output provides formatters for presubmit gate results.
package output

import (
	"fmt"
	"io"

	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
)

// toolInformationURI is reported as the SARIF driver's home page.
const toolInformationURI = "https://chromium.googlesource.com/webports"

// SARIFFormatter formats gate results as SARIF 2.1.0 JSON.
// Checks map to rules and findings map to results; findings that list
// file locations carry them as SARIF locations.
type SARIFFormatter struct {
	writer   io.Writer
	repoRoot string
}

// NewSARIFFormatter creates a new SARIF formatter.
// repoRoot is reported as the invocation's working directory.
func NewSARIFFormatter(writer io.Writer, repoRoot string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:   writer,
		repoRoot: repoRoot,
	}
}

// Format writes the gate result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(result *presubmit.GateResult) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("naclports presubmit", toolInformationURI)
	if result.Version != "" {
		run.Tool.Driver.Version = &result.Version
	}
	run.Tool.Driver.Organization = ptrString(result.Project)

	mapper := newSARIFMapper(result, f.repoRoot)
	mapper.mapToRun(run)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}
