// Package presubmit provides the domain model for presubmit gate results.
package presubmit

import (
	"sort"
	"time"

	"github.com/naclports/naclports/internal/domain/values"
)

// Finding is one error, warning or notification produced by a check.
type Finding struct {
	Check    string       `json:"check" yaml:"check"`
	Level    values.Level `json:"level" yaml:"level"`
	Message  string       `json:"message" yaml:"message"`
	LongText string       `json:"long_text,omitempty" yaml:"long_text,omitempty"`
	Items    []string     `json:"items,omitempty" yaml:"items,omitempty"`
}

// NewError creates an error-level finding.
func NewError(check, message string) Finding {
	return Finding{Check: check, Level: values.LvlError, Message: message}
}

// NewWarning creates a warning-level finding.
func NewWarning(check, message string) Finding {
	return Finding{Check: check, Level: values.LvlWarning, Message: message}
}

// NewNotify creates a notification finding.
func NewNotify(check, message string) Finding {
	return Finding{Check: check, Level: values.LvlNotify, Message: message}
}

// WithLongText returns a copy of the finding carrying extra detail.
func (f Finding) WithLongText(text string) Finding {
	f.LongText = text
	return f
}

// WithItems returns a copy of the finding listing the offending items.
func (f Finding) WithItems(items []string) Finding {
	f.Items = append([]string(nil), items...)
	return f
}

// CheckResult is the outcome of running one check.
type CheckResult struct {
	ID         string        `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Tags       []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Status     values.Status `json:"status" yaml:"status"`
	SkipReason string        `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
	Command    []string      `json:"command,omitempty" yaml:"command,omitempty"`
	ExitCode   int           `json:"exit_code,omitempty" yaml:"exit_code,omitempty"`
	Output     string        `json:"output,omitempty" yaml:"output,omitempty"`
	OutputMeta *OutputMeta   `json:"output_meta,omitempty" yaml:"output_meta,omitempty"`
	Findings   []Finding     `json:"findings" yaml:"findings"`
	Index      int           `json:"index" yaml:"index"`
	Duration   time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// Summary provides aggregate statistics about a gate run.
type Summary struct {
	TotalChecks   int `json:"total_checks" yaml:"total_checks"`
	PassedChecks  int `json:"passed_checks" yaml:"passed_checks"`
	FailedChecks  int `json:"failed_checks" yaml:"failed_checks"`
	ErrorChecks   int `json:"error_checks" yaml:"error_checks"`
	SkippedChecks int `json:"skipped_checks" yaml:"skipped_checks"`
	Errors        int `json:"errors" yaml:"errors"`
	Warnings      int `json:"warnings" yaml:"warnings"`
	Notifications int `json:"notifications" yaml:"notifications"`
}

// GateResult is the complete report of one gate run.
type GateResult struct {
	ID        values.GateID  `json:"id" yaml:"id"`
	Trigger   values.Trigger `json:"trigger" yaml:"trigger"`
	Status    values.Status  `json:"status" yaml:"status"`
	Project   string         `json:"project" yaml:"project"`
	Version   string         `json:"version,omitempty" yaml:"version,omitempty"`
	StartTime time.Time      `json:"start_time" yaml:"start_time"`
	EndTime   time.Time      `json:"end_time" yaml:"end_time"`
	Duration  time.Duration  `json:"duration_ns" yaml:"duration_ns"`
	Checks    []CheckResult  `json:"checks" yaml:"checks"`
	Summary   Summary        `json:"summary" yaml:"summary"`
}

// NewGateResult creates an empty result for the given trigger.
func NewGateResult(trigger values.Trigger, project string) *GateResult {
	return NewGateResultWithID(values.NewGateID(), trigger, project)
}

// NewGateResultWithID creates an empty result with a specific ID.
func NewGateResultWithID(id values.GateID, trigger values.Trigger, project string) *GateResult {
	return &GateResult{
		ID:        id,
		Trigger:   trigger,
		Project:   project,
		StartTime: time.Now(),
		Checks:    make([]CheckResult, 0),
	}
}

// AddCheckResult appends a check result.
func (r *GateResult) AddCheckResult(cr CheckResult) {
	r.Checks = append(r.Checks, cr)
}

// CheckResultByID returns the result of the check with the given ID, or nil.
func (r *GateResult) CheckResultByID(id string) *CheckResult {
	for i := range r.Checks {
		if r.Checks[i].ID == id {
			return &r.Checks[i]
		}
	}
	return nil
}

// Findings returns the concatenation of every check's findings in check order.
func (r *GateResult) Findings() []Finding {
	var out []Finding
	for _, c := range r.Checks {
		out = append(out, c.Findings...)
	}
	return out
}

// CheckStatuses returns every check's status in check order.
func (r *GateResult) CheckStatuses() []values.Status {
	out := make([]values.Status, 0, len(r.Checks))
	for _, c := range r.Checks {
		out = append(out, c.Status)
	}
	return out
}

// Passed reports whether the gate produced no findings at all.
func (r *GateResult) Passed() bool {
	return len(r.Findings()) == 0
}

// HasErrors reports whether any finding is error level.
func (r *GateResult) HasErrors() bool {
	for _, f := range r.Findings() {
		if f.Level.IsError() {
			return true
		}
	}
	return false
}

// Finalize stamps the end time, restores definition order and computes
// the summary.
func (r *GateResult) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	sort.SliceStable(r.Checks, func(i, j int) bool {
		return r.Checks[i].Index < r.Checks[j].Index
	})

	r.calculateSummary()
}

func (r *GateResult) calculateSummary() {
	r.Summary = Summary{TotalChecks: len(r.Checks)}

	for _, c := range r.Checks {
		switch c.Status {
		case values.StatusPass:
			r.Summary.PassedChecks++
		case values.StatusFail:
			r.Summary.FailedChecks++
		case values.StatusError:
			r.Summary.ErrorChecks++
		case values.StatusSkipped:
			r.Summary.SkippedChecks++
		}

		for _, f := range c.Findings {
			switch {
			case f.Level.Equals(values.LvlError):
				r.Summary.Errors++
			case f.Level.Equals(values.LvlWarning):
				r.Summary.Warnings++
			case f.Level.Equals(values.LvlNotify):
				r.Summary.Notifications++
			}
		}
	}
}
