// Package canned implements the generic project checks run over every
// change: banned markers, whitespace, line length, TODO owners, license
// headers and leaked secrets.
package canned

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"

	"github.com/naclports/naclports/internal/application/ports"
	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
	"github.com/naclports/naclports/internal/infrastructure/redaction"
	"golang.org/x/sync/errgroup"
)

// CheckID is the ID reported on every finding of this package.
const CheckID = "canned"

// DefaultMaxLineLength is the column limit for added lines.
const DefaultMaxLineLength = 80

// licenseHeaderBytes bounds how much of a file is searched for the license.
const licenseHeaderBytes = 2048

// SecretDetector finds secrets in text.
type SecretDetector interface {
	Detect(text string) []redaction.Leak
}

// Settings parameterizes the checks for one project.
type Settings struct {
	ProjectName string
	// ExcludedPaths are regular expressions matched against forward-slash
	// paths; matching files are not checked at all.
	ExcludedPaths []string
	MaxLineLength int
	// Concurrency bounds the number of files scanned at once; zero
	// selects GOMAXPROCS.
	Concurrency int
}

// Checker runs the project checks.
type Checker struct {
	secrets  SecretDetector
	logger   *slog.Logger
	license  *regexp.Regexp
	excluded []*regexp.Regexp
	settings Settings
}

// NewChecker compiles settings into a Checker. secrets may be nil, in which
// case the secrets rule is not run.
func NewChecker(settings Settings, secrets SecretDetector, logger *slog.Logger) (*Checker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.MaxLineLength == 0 {
		settings.MaxLineLength = DefaultMaxLineLength
	}
	if settings.Concurrency <= 0 {
		settings.Concurrency = runtime.GOMAXPROCS(0)
	}

	c := &Checker{settings: settings, secrets: secrets, logger: logger}

	for _, p := range settings.ExcludedPaths {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid excluded path pattern %q: %w", p, err)
		}
		c.excluded = append(c.excluded, re)
	}

	if settings.ProjectName != "" {
		c.license = regexp.MustCompile(`Copyright (\(c\) )?\d{4} The ` +
			regexp.QuoteMeta(settings.ProjectName) + ` Authors\. All rights reserved\.`)
	}

	return c, nil
}

// fileReport holds the violations found in one file, keyed by rule.
type fileReport struct {
	items map[string][]string
}

// Run checks the affected files. Findings are grouped per rule in a fixed
// rule order, with offending locations listed in file order.
func (c *Checker) Run(ctx context.Context, trigger values.Trigger, files []ports.AffectedFile, source ports.ChangeSource) ([]presubmit.Finding, error) {
	selected := c.filterFiles(files)
	reports := make([]fileReport, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.settings.Concurrency)

	for i, f := range selected {
		g.Go(func() error {
			report, err := c.scanFile(gctx, f, source)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("project checks scanned files", "files", len(selected), "skipped", len(files)-len(selected))

	merged := make(map[string][]string)
	for _, r := range reports {
		for rule, items := range r.items {
			merged[rule] = append(merged[rule], items...)
		}
	}

	var findings []presubmit.Finding
	for _, rule := range ruleOrder {
		items := merged[rule]
		if len(items) == 0 {
			continue
		}
		findings = append(findings, c.finding(rule, trigger, items))
	}
	return findings, nil
}

func (c *Checker) filterFiles(files []ports.AffectedFile) []ports.AffectedFile {
	var out []ports.AffectedFile
	for _, f := range files {
		if f.Action == ports.FileDeleted || c.isExcluded(f.Path) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (c *Checker) isExcluded(p string) bool {
	for _, re := range c.excluded {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

func (c *Checker) scanFile(ctx context.Context, f ports.AffectedFile, source ports.ChangeSource) (fileReport, error) {
	if err := ctx.Err(); err != nil {
		return fileReport{}, err
	}

	report := fileReport{items: c.lineViolations(f)}

	if c.license != nil && isSource(f.Path) && source != nil {
		data, err := source.ReadFile(ctx, f.Path)
		if err != nil {
			return fileReport{}, err
		}
		header := data
		if len(header) > licenseHeaderBytes {
			header = header[:licenseHeaderBytes]
		}
		if len(bytes.TrimSpace(data)) > 0 && !c.license.Match(header) {
			report.items[RuleLicense] = append(report.items[RuleLicense], f.Path)
		}
	}

	if c.secrets != nil {
		report.items[RuleSecrets] = append(report.items[RuleSecrets], c.scanSecrets(f)...)
	}

	return report, nil
}

func (c *Checker) scanSecrets(f ports.AffectedFile) []string {
	if len(f.AddedLines) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, l := range f.AddedLines {
		buf.WriteString(l.Text)
		buf.WriteByte('\n')
	}

	var items []string
	for _, leak := range c.secrets.Detect(buf.String()) {
		idx := leak.Line - 1
		if idx < 0 || idx >= len(f.AddedLines) {
			continue
		}
		items = append(items, fmt.Sprintf("%s (%s)", location(f.Path, f.AddedLines[idx].Number), leak.RuleID))
	}
	return items
}

func (c *Checker) finding(rule string, trigger values.Trigger, items []string) presubmit.Finding {
	var f presubmit.Finding

	switch rule {
	case RuleDoNotSubmit:
		f = presubmit.NewError(CheckID, "DO NOT "+"SUBMIT found in:")
	case RuleTabs:
		f = presubmit.NewError(CheckID, "Found a tab character in:")
	case RuleStrayWhitespace:
		f = presubmit.NewError(CheckID, "Found line ending with white spaces in:")
	case RuleLongLines:
		msg := fmt.Sprintf("Found lines longer than %d characters:", c.settings.MaxLineLength)
		if trigger.IsCommit() {
			f = presubmit.NewError(CheckID, msg)
		} else {
			f = presubmit.NewWarning(CheckID, msg)
		}
	case RuleTodoOwner:
		f = presubmit.NewWarning(CheckID, "Found TODO with no owner in:")
	case RuleLicense:
		f = presubmit.NewError(CheckID, "Found a bad license header in these files:").
			WithLongText("License must match:\n" + c.license.String())
	case RuleSecrets:
		f = presubmit.NewError(CheckID, "Found possible secrets in:")
	}

	return f.WithItems(items)
}
