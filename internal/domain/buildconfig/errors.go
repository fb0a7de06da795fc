package buildconfig

import "fmt"

// InvalidArchError is returned when the resolved architecture is not in
// the valid-architecture table.
type InvalidArchError struct {
	Arch string
}

func (e *InvalidArchError) Error() string {
	return fmt.Sprintf("invalid arch: %s", e.Arch)
}
