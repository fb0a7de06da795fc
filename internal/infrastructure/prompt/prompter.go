// Package prompt asks the user to confirm presubmit warnings.
package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// WarningsQuestion is asked when the gate found only warnings.
const WarningsQuestion = "There were presubmit warnings. Are you sure you wish to continue?"

// TerminalPrompter asks yes/no questions on the controlling terminal.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// IsInteractive reports whether both stdin and stdout are terminals.
func (p *TerminalPrompter) IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Confirm asks question and reports the answer. Aborting the prompt
// counts as "no".
func (p *TerminalPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	var ok bool

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
