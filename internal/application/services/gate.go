// Package services contains application use cases.
package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/naclports/naclports/internal/application/dto"
	apperrors "github.com/naclports/naclports/internal/application/errors"
	"github.com/naclports/naclports/internal/application/ports"
	"github.com/naclports/naclports/internal/domain/presubmit"
	domainservices "github.com/naclports/naclports/internal/domain/services"
	"github.com/naclports/naclports/internal/domain/values"
)

// GateSettings parameterizes the gate for one repository.
type GateSettings struct {
	RepoRoot      string
	ProjectName   string
	TreeStatusURL string
	Version       string
}

// Gate runs the presubmit check list for a trigger and aggregates the
// findings into one report. An empty report means the change may proceed.
type Gate struct {
	runner     ports.CommandRunner
	changes    ports.ChangeSource
	canned     ports.CannedChecks
	tree       ports.TreeStatusClient
	redactor   ports.OutputRedactor
	aggregator *domainservices.StatusAggregator
	logger     *slog.Logger
	settings   GateSettings
}

// GateOption configures optional Gate collaborators.
type GateOption func(*Gate)

// WithLogger sets the gate's logger.
func WithLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRedactor scrubs captured script output before it is reported.
func WithRedactor(r ports.OutputRedactor) GateOption {
	return func(g *Gate) {
		g.redactor = r
	}
}

// NewGate creates a new presubmit gate.
func NewGate(
	runner ports.CommandRunner,
	changes ports.ChangeSource,
	canned ports.CannedChecks,
	tree ports.TreeStatusClient,
	settings GateSettings,
	opts ...GateOption,
) *Gate {
	g := &Gate{
		runner:     runner,
		changes:    changes,
		canned:     canned,
		tree:       tree,
		settings:   settings,
		aggregator: domainservices.NewStatusAggregator(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckChangeOnUpload runs the upload check list with no filter.
func (g *Gate) CheckChangeOnUpload(ctx context.Context) *presubmit.GateResult {
	return g.runChecks(ctx, values.TriggerUpload, domainservices.NewCheckFilter())
}

// CheckChangeOnCommit runs every upload check, then the commit-only checks.
func (g *Gate) CheckChangeOnCommit(ctx context.Context) *presubmit.GateResult {
	return g.runChecks(ctx, values.TriggerCommit, domainservices.NewCheckFilter())
}

// Run validates the request, builds the check filter and runs the gate.
// Check failures are reported in the result, never as an error.
func (g *Gate) Run(ctx context.Context, req dto.RunGateRequest) (*dto.RunGateResponse, error) {
	start := time.Now()

	if err := req.Trigger.Validate(); err != nil {
		return nil, apperrors.NewValidationError("trigger", err.Error())
	}

	filter, err := g.buildFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	result := g.runChecks(ctx, req.Trigger, filter)

	return &dto.RunGateResponse{
		Result: result,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(start),
		},
	}, nil
}

func (g *Gate) buildFilter(opts dto.FilterOptions) (*domainservices.CheckFilter, error) {
	known := g.CheckIDs()

	var unknown []string
	for _, id := range append(slices.Clone(opts.IncludeCheckIDs), opts.ExcludeCheckIDs...) {
		if !slices.Contains(known, id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, apperrors.NewValidationError("check",
			"unknown check IDs: "+strings.Join(unknown, ", ")+" (valid: "+strings.Join(known, ", ")+")",
			unknown...)
	}

	filter := domainservices.NewCheckFilter().
		WithExclusiveChecks(opts.IncludeCheckIDs).
		WithSkippedChecks(opts.ExcludeCheckIDs)

	if opts.FilterExpression != "" {
		program, err := domainservices.CompileFilter(opts.FilterExpression)
		if err != nil {
			return nil, apperrors.NewConfigurationError("filter", "failed to compile --filter", err)
		}
		filter = filter.WithFilterExpression(program)
	}
	return filter, nil
}

func (g *Gate) runChecks(ctx context.Context, trigger values.Trigger, filter *domainservices.CheckFilter) *presubmit.GateResult {
	result := presubmit.NewGateResult(trigger, g.settings.ProjectName)
	result.Version = g.settings.Version

	g.logger.Info("running presubmit", "trigger", trigger, "gate_id", result.ID.String())

	index := 0
	for _, check := range g.Checks() {
		if !check.RunsOn(trigger) {
			continue
		}

		cr := presubmit.CheckResult{
			ID:    check.ID,
			Name:  check.Name,
			Tags:  check.Tags,
			Index: index,
		}
		index++

		if ok, reason := filter.ShouldRun(check.CheckDescriptor, string(trigger)); !ok {
			cr.Status = values.StatusSkipped
			cr.SkipReason = reason
			g.logger.Debug("check skipped", "check", check.ID, "reason", reason)
			result.AddCheckResult(cr)
			continue
		}

		checkStart := time.Now()
		out := check.run(ctx, trigger)
		cr.Duration = time.Since(checkStart)

		cr.Command = out.command
		cr.ExitCode = out.exitCode
		cr.Output = out.output
		cr.OutputMeta = out.outputMeta
		cr.Findings = out.findings
		cr.Status = g.aggregator.AggregateCheckStatus(out.findings, out.startErr)

		if out.startErr != nil {
			g.logger.Warn("check could not run", "check", check.ID, "error", out.startErr)
		}
		g.logger.Debug("check finished", "check", check.ID, "status", cr.Status, "findings", len(cr.Findings), "duration", cr.Duration)

		result.AddCheckResult(cr)
	}

	result.Finalize()
	result.Status = g.aggregator.AggregateGateStatus(result.CheckStatuses())

	g.logger.Info("presubmit finished",
		"trigger", trigger,
		"status", result.Status,
		"passed", result.Passed(),
		"errors", result.Summary.Errors,
		"warnings", result.Summary.Warnings)

	return result
}
