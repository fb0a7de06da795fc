package values

import "fmt"

// Status represents the outcome of a single presubmit check.
type Status string

const (
	// StatusPass indicates the check ran and reported nothing
	StatusPass Status = "pass"
	// StatusFail indicates the check ran and reported findings
	StatusFail Status = "fail"
	// StatusError indicates the check could not be run at all
	StatusError Status = "error"
	// StatusSkipped indicates the check was filtered out of this run
	StatusSkipped Status = "skipped"
)

// Precedence returns the numeric precedence of this status.
// Higher values indicate higher priority in aggregation.
//
// Precedence: Fail (3) > Error (2) > Skipped (1) > Pass (0)
func (s Status) Precedence() int {
	switch s {
	case StatusFail:
		return 3
	case StatusError:
		return 2
	case StatusSkipped:
		return 1
	case StatusPass:
		return 0
	default:
		return -1
	}
}

// IsFailure returns true if this status represents a failure or error
func (s Status) IsFailure() bool {
	return s == StatusFail || s == StatusError
}

// IsSuccess returns true if this status represents success
func (s Status) IsSuccess() bool {
	return s == StatusPass
}

// IsSkipped returns true if this status represents a skip
func (s Status) IsSkipped() bool {
	return s == StatusSkipped
}

// Validate returns an error if the status value is invalid
func (s Status) Validate() error {
	switch s {
	case StatusPass, StatusFail, StatusError, StatusSkipped:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", s)
	}
}
