// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"

	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
)

// CommandResult is the outcome of a command that was started.
type CommandResult struct {
	Output     string
	OutputMeta *presubmit.OutputMeta
	ExitCode   int
}

// Succeeded reports whether the command exited with status zero.
func (r CommandResult) Succeeded() bool {
	return r.ExitCode == 0
}

// CommandRunner runs external check scripts.
type CommandRunner interface {
	// Run executes argv in dir. A non-zero exit is reported through
	// CommandResult; the error is non-nil only when the command could
	// not be started or waited for.
	Run(ctx context.Context, dir string, argv []string) (CommandResult, error)
}

// FileAction describes how a change touched a file.
type FileAction string

// File actions, as reported by the version control system.
const (
	FileAdded    FileAction = "A"
	FileModified FileAction = "M"
	FileDeleted  FileAction = "D"
)

// AddedLine is one line introduced by the change.
type AddedLine struct {
	Text   string
	Number int
}

// AffectedFile is a file touched by the change under review.
type AffectedFile struct {
	// Path is relative to the repository root, using forward slashes.
	Path       string
	Action     FileAction
	AddedLines []AddedLine
}

// ChangeSource describes the pending change.
type ChangeSource interface {
	// AffectedFiles lists the files touched by the change, deletions included.
	AffectedFiles(ctx context.Context) ([]AffectedFile, error)

	// ReadFile returns the new contents of an affected file.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// TreeStatus is the state reported by the tree-status service.
type TreeStatus struct {
	GeneralState    string `json:"general_state"`
	Message         string `json:"message"`
	CanCommitFreely bool   `json:"can_commit_freely"`
}

// TreeStatusClient fetches the current tree status.
type TreeStatusClient interface {
	Fetch(ctx context.Context, url string) (TreeStatus, error)
}

// CannedChecks runs the generic project lint checks over affected files.
type CannedChecks interface {
	Run(ctx context.Context, trigger values.Trigger, files []AffectedFile, source ChangeSource) ([]presubmit.Finding, error)
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	IsInteractive() bool
	Confirm(ctx context.Context, question string) (bool, error)
}

// OutputFormatter formats gate results.
type OutputFormatter interface {
	Format(result *presubmit.GateResult) error
}

// OutputRedactor scrubs secrets from captured command output.
type OutputRedactor interface {
	ScrubString(input string) string
}
