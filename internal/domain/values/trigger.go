package values

import "fmt"

// Trigger names the point in the change workflow that runs the gate.
type Trigger string

const (
	// TriggerUpload runs before a change is uploaded for review
	TriggerUpload Trigger = "upload"
	// TriggerCommit runs before a change lands
	TriggerCommit Trigger = "commit"
)

// ParseTrigger converts a command-line word into a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	t := Trigger(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// IsCommit reports whether this trigger is the stricter commit gate.
func (t Trigger) IsCommit() bool {
	return t == TriggerCommit
}

// Validate returns an error if the trigger value is invalid
func (t Trigger) Validate() error {
	switch t {
	case TriggerUpload, TriggerCommit:
		return nil
	default:
		return fmt.Errorf("invalid trigger: %q (valid: upload, commit)", string(t))
	}
}
