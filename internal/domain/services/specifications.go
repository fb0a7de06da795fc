package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/naclports/naclports/internal/domain/presubmit"
)

// CheckSpecification defines a condition that a check must meet.
type CheckSpecification interface {
	// IsSatisfiedBy checks if the check meets the specification.
	// Returns true if satisfied, along with a reason if not.
	IsSatisfiedBy(check presubmit.CheckDescriptor) (bool, string)
}

// AndSpecification combines multiple specifications with logical AND.
type AndSpecification struct {
	specs []CheckSpecification
}

// NewAndSpecification creates a new AndSpecification.
func NewAndSpecification(specs ...CheckSpecification) *AndSpecification {
	return &AndSpecification{specs: specs}
}

// IsSatisfiedBy checks if all specifications are satisfied.
func (s *AndSpecification) IsSatisfiedBy(check presubmit.CheckDescriptor) (bool, string) {
	for _, spec := range s.specs {
		if satisfied, reason := spec.IsSatisfiedBy(check); !satisfied {
			return false, reason
		}
	}
	return true, ""
}

// ExclusiveChecksSpecification includes only the listed check IDs.
type ExclusiveChecksSpecification struct {
	ids map[string]bool
}

// NewExclusiveChecksSpecification creates a new ExclusiveChecksSpecification.
func NewExclusiveChecksSpecification(ids map[string]bool) *ExclusiveChecksSpecification {
	return &ExclusiveChecksSpecification{ids: ids}
}

// IsSatisfiedBy checks if the check ID is in the exclusive list.
func (s *ExclusiveChecksSpecification) IsSatisfiedBy(check presubmit.CheckDescriptor) (bool, string) {
	if len(s.ids) == 0 {
		return true, ""
	}
	if s.ids[check.ID] {
		return true, ""
	}
	return false, "excluded by --check filter"
}

// SkippedChecksSpecification excludes the listed check IDs.
type SkippedChecksSpecification struct {
	ids map[string]bool
}

// NewSkippedChecksSpecification creates a new SkippedChecksSpecification.
func NewSkippedChecksSpecification(ids map[string]bool) *SkippedChecksSpecification {
	return &SkippedChecksSpecification{ids: ids}
}

// IsSatisfiedBy checks if the check ID is NOT in the skipped list.
func (s *SkippedChecksSpecification) IsSatisfiedBy(check presubmit.CheckDescriptor) (bool, string) {
	if s.ids[check.ID] {
		return false, "excluded by --skip"
	}
	return true, ""
}

// ExpressionSpecification filters checks using an expr program.
type ExpressionSpecification struct {
	program *vm.Program
	trigger string
}

// NewExpressionSpecification creates a new ExpressionSpecification.
func NewExpressionSpecification(program *vm.Program, trigger string) *ExpressionSpecification {
	return &ExpressionSpecification{program: program, trigger: trigger}
}

// IsSatisfiedBy evaluates the expr program against the check.
func (s *ExpressionSpecification) IsSatisfiedBy(check presubmit.CheckDescriptor) (bool, string) {
	if s.program == nil {
		return true, ""
	}

	env := CheckEnv{
		ID:      check.ID,
		Name:    check.Name,
		Tags:    check.Tags,
		Trigger: s.trigger,
	}

	output, err := expr.Run(s.program, env)
	if err != nil {
		return false, fmt.Sprintf("filter expression error: %v", err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Sprintf("filter expression did not return boolean: %v", output)
	}

	if !result {
		return false, "excluded by --filter expression"
	}

	return true, ""
}
