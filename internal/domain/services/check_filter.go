package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/naclports/naclports/internal/domain/presubmit"
)

// CheckEnv defines the variables available during filter expression evaluation.
type CheckEnv struct {
	ID      string   `expr:"id"`
	Name    string   `expr:"name"`
	Trigger string   `expr:"trigger"`
	Tags    []string `expr:"tags"`
}

// CompileFilter compiles a --filter expression once, up front.
func CompileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(CheckEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return program, nil
}

// CheckFilter selects which checks of a trigger actually run.
type CheckFilter struct {
	// Exclusive mode: only include specified checks
	exclusiveIDs map[string]bool

	skipIDs map[string]bool

	filterProgram *vm.Program
}

// NewCheckFilter initializes a new empty filter that admits every check.
func NewCheckFilter() *CheckFilter {
	return &CheckFilter{
		exclusiveIDs: make(map[string]bool),
		skipIDs:      make(map[string]bool),
	}
}

// WithExclusiveChecks restricts execution to ONLY the specified check IDs.
// If set, all other filters are ignored.
func (f *CheckFilter) WithExclusiveChecks(ids []string) *CheckFilter {
	f.exclusiveIDs = toSet(ids)
	return f
}

// WithSkippedChecks excludes specific check IDs.
func (f *CheckFilter) WithSkippedChecks(ids []string) *CheckFilter {
	f.skipIDs = toSet(ids)
	return f
}

// WithFilterExpression applies a compiled expr program for advanced filtering.
func (f *CheckFilter) WithFilterExpression(program *vm.Program) *CheckFilter {
	f.filterProgram = program
	return f
}

// IsEmpty reports whether the filter admits everything.
func (f *CheckFilter) IsEmpty() bool {
	return len(f.exclusiveIDs) == 0 && len(f.skipIDs) == 0 && f.filterProgram == nil
}

// ShouldRun evaluates whether a check matches the filter criteria.
// It returns true if the check should run, along with a reason if skipped.
func (f *CheckFilter) ShouldRun(check presubmit.CheckDescriptor, trigger string) (bool, string) {
	if len(f.exclusiveIDs) > 0 {
		return NewExclusiveChecksSpecification(f.exclusiveIDs).IsSatisfiedBy(check)
	}

	var specs []CheckSpecification

	if len(f.skipIDs) > 0 {
		specs = append(specs, NewSkippedChecksSpecification(f.skipIDs))
	}

	if f.filterProgram != nil {
		specs = append(specs, NewExpressionSpecification(f.filterProgram, trigger))
	}

	return NewAndSpecification(specs...).IsSatisfiedBy(check)
}

// toSet converts a slice to a map (set)
func toSet(slice []string) map[string]bool {
	s := make(map[string]bool, len(slice))
	for _, item := range slice {
		s[item] = true
	}
	return s
}
