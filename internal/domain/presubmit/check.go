package presubmit

import "github.com/naclports/naclports/internal/domain/values"

// CheckDescriptor describes a check independently of how it runs.
type CheckDescriptor struct {
	ID   string
	Name string
	Tags []string
	// CommitOnly checks are skipped entirely by the upload trigger.
	CommitOnly bool
}

// RunsOn reports whether the check belongs to the trigger's check list.
func (d CheckDescriptor) RunsOn(trigger values.Trigger) bool {
	if d.CommitOnly {
		return trigger.IsCommit()
	}
	return true
}
