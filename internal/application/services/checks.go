package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/naclports/naclports/internal/application/errors"
	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
)

// Check IDs, in definition order.
const (
	CheckUnittests = "unittests"
	CheckDeps      = "deps"
	CheckPartition = "partition"
	CheckCanned    = "canned"
	CheckMirror    = "mirror"
	CheckTree      = "tree"
)

// DefaultTreeStatusURL is the tree-status endpoint consulted on commit.
const DefaultTreeStatusURL = "http://naclports-status.appspot.com/current?format=json"

// checkOutcome is what a single check run produced before status aggregation.
type checkOutcome struct {
	startErr   error
	outputMeta *presubmit.OutputMeta
	command    []string
	output     string
	findings   []presubmit.Finding
	exitCode   int
}

// Check is one entry of the gate's check list.
type Check struct {
	run func(ctx context.Context, trigger values.Trigger) checkOutcome
	presubmit.CheckDescriptor
}

// scriptCheck describes a check that runs a repository script and fails
// on a non-zero exit.
type scriptCheck struct {
	message  string
	longText string
	argv     []string
}

var scriptChecks = map[string]scriptCheck{
	CheckUnittests: {
		argv:     []string{"lib/naclports_test.py"},
		message:  "lib/naclports_test.py failed.",
		longText: "Run lib/naclports_test.py to see the failing tests.",
	},
	CheckDeps: {
		argv:     []string{"build_tools/check_deps.py"},
		message:  "build_tools/check_deps.py failed.",
		longText: "Run build_tools/check_deps.py to see the broken dependencies.",
	},
	CheckPartition: {
		argv:    []string{"build_tools/partition.py", "--check"},
		message: "[build_tools/partition.py --check] failed",
	},
	CheckMirror: {
		argv:     []string{"build_tools/update_mirror.py", "--check"},
		message:  "update_mirror.py --check failed.",
		longText: "Run build_tools/update_mirror.py to update.",
	},
}

// Checks returns the gate's full check list in definition order.
// Commit-only checks are flagged and dropped by the upload trigger.
func (g *Gate) Checks() []Check {
	return []Check{
		{
			CheckDescriptor: presubmit.CheckDescriptor{ID: CheckUnittests, Name: "Unit tests", Tags: []string{"script"}},
			run:             g.runScript(CheckUnittests),
		},
		{
			CheckDescriptor: presubmit.CheckDescriptor{ID: CheckDeps, Name: "Port dependencies", Tags: []string{"script"}},
			run:             g.runScript(CheckDeps),
		},
		{
			CheckDescriptor: presubmit.CheckDescriptor{ID: CheckPartition, Name: "Buildbot partition", Tags: []string{"script"}},
			run:             g.runScript(CheckPartition),
		},
		{
			CheckDescriptor: presubmit.CheckDescriptor{ID: CheckCanned, Name: "Project checks", Tags: []string{"lint"}},
			run:             g.runCanned,
		},
		{
			CheckDescriptor: presubmit.CheckDescriptor{ID: CheckMirror, Name: "Mirror freshness", Tags: []string{"script"}, CommitOnly: true},
			run:             g.runScript(CheckMirror),
		},
		{
			CheckDescriptor: presubmit.CheckDescriptor{ID: CheckTree, Name: "Tree status", Tags: []string{"network"}, CommitOnly: true},
			run:             g.runTreeStatus,
		},
	}
}

// CheckIDs returns the IDs of every known check.
func (g *Gate) CheckIDs() []string {
	checks := g.Checks()
	ids := make([]string, 0, len(checks))
	for _, c := range checks {
		ids = append(ids, c.ID)
	}
	return ids
}

func (g *Gate) runScript(id string) func(context.Context, values.Trigger) checkOutcome {
	sc := scriptChecks[id]
	return func(ctx context.Context, _ values.Trigger) checkOutcome {
		out := checkOutcome{command: sc.argv}

		g.logger.Debug("running check script", "check", id, "argv", sc.argv, "dir", g.settings.RepoRoot)

		res, err := g.runner.Run(ctx, g.settings.RepoRoot, sc.argv)
		if err != nil {
			out.startErr = apperrors.NewExecutionError(id, "failed to start command", err)
			out.findings = []presubmit.Finding{
				presubmit.NewError(id, fmt.Sprintf("failed to run %s: %v", strings.Join(sc.argv, " "), err)),
			}
			return out
		}

		out.exitCode = res.ExitCode
		out.output = res.Output
		out.outputMeta = res.OutputMeta
		if g.redactor != nil {
			out.output = g.redactor.ScrubString(out.output)
		}

		if !res.Succeeded() {
			f := presubmit.NewError(id, sc.message)
			if sc.longText != "" {
				f = f.WithLongText(sc.longText)
			}
			out.findings = []presubmit.Finding{f}
		}
		return out
	}
}

func (g *Gate) runCanned(ctx context.Context, trigger values.Trigger) checkOutcome {
	var out checkOutcome

	files, err := g.changes.AffectedFiles(ctx)
	if err != nil {
		out.startErr = apperrors.NewExecutionError(CheckCanned, "failed to list affected files", err)
		out.findings = []presubmit.Finding{
			presubmit.NewError(CheckCanned, fmt.Sprintf("failed to list affected files: %v", err)),
		}
		return out
	}

	findings, err := g.canned.Run(ctx, trigger, files, g.changes)
	if err != nil {
		out.startErr = apperrors.NewExecutionError(CheckCanned, "project checks aborted", err)
		out.findings = []presubmit.Finding{
			presubmit.NewError(CheckCanned, fmt.Sprintf("project checks aborted: %v", err)),
		}
		return out
	}

	out.findings = findings
	return out
}

func (g *Gate) runTreeStatus(ctx context.Context, _ values.Trigger) checkOutcome {
	var out checkOutcome

	url := g.settings.TreeStatusURL
	if url == "" {
		url = DefaultTreeStatusURL
	}

	ctx, cancel := context.WithTimeout(ctx, treeStatusTimeout)
	defer cancel()

	status, err := g.tree.Fetch(ctx, url)
	if err != nil {
		out.findings = []presubmit.Finding{
			presubmit.NewError(CheckTree, "Error fetching tree status.").WithLongText(err.Error()),
		}
		return out
	}

	if !status.CanCommitFreely {
		out.findings = []presubmit.Finding{
			presubmit.NewError(CheckTree, "Tree state is: "+status.GeneralState).
				WithLongText(status.Message + "\n" + url),
		}
	}
	return out
}

const treeStatusTimeout = 30 * time.Second
