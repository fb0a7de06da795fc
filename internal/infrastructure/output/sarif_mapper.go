package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
)

// itemLocation matches finding items that start with a file path, alone or
// followed by ":line" or ", line N".
var itemLocation = regexp.MustCompile(`^([^\s:,]*[./][^\s:,]*)(?::(\d+)|, line (\d+))?(?:$|[\s,(])`)

type sarifMapper struct {
	result    *presubmit.GateResult
	repoRoot  string
	artifacts map[string]*sarif.Artifact
	order     []string
}

func newSARIFMapper(result *presubmit.GateResult, repoRoot string) *sarifMapper {
	return &sarifMapper{
		result:    result,
		repoRoot:  repoRoot,
		artifacts: make(map[string]*sarif.Artifact),
	}
}

// mapToRun populates the SARIF run with rules, results, artifacts, and invocations.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addArtifacts(run)
	m.addInvocation(run)
	m.addProperties(run)
}

// addRules converts checks to SARIF rules.
func (m *sarifMapper) addRules(run *sarif.Run) {
	for _, check := range m.result.Checks {
		rule := sarif.NewReportingDescriptor().WithID(check.ID)
		rule.WithName(check.Name)

		name := check.Name
		rule.WithShortDescription(&sarif.MultiformatMessageString{
			Text: &name,
		})

		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: "error",
		})

		props := sarif.NewPropertyBag()
		if len(check.Tags) > 0 {
			props.WithTags(check.Tags)
		}
		if len(check.Command) > 0 {
			props.Add("command", check.Command)
		}
		rule.WithProperties(props)

		run.Tool.Driver.AddRule(rule)
	}
}

// addResults emits one result per finding, and one pass or
// not-applicable result for checks without findings.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, check := range m.result.Checks {
		if len(check.Findings) == 0 {
			run.AddResult(m.mapCheckWithoutFindings(check))
			continue
		}
		for _, finding := range check.Findings {
			run.AddResult(m.mapFinding(check, finding))
		}
	}
}

func (m *sarifMapper) mapCheckWithoutFindings(check presubmit.CheckResult) *sarif.Result {
	result := sarif.NewRuleResult(check.ID)

	if check.Status == values.StatusSkipped {
		result.Kind = "notApplicable"
		result.Level = "none"
		result.Message = sarif.NewTextMessage(fmt.Sprintf("Check %s was skipped: %s", check.ID, check.SkipReason))
	} else {
		result.Kind = "pass"
		result.Level = "none"
		result.Message = sarif.NewTextMessage(fmt.Sprintf("Check %s passed", check.ID))
	}

	props := sarif.NewPropertyBag()
	props.Add("duration_ms", check.Duration.Milliseconds())
	result.WithProperties(props)

	return result
}

func (m *sarifMapper) mapFinding(check presubmit.CheckResult, finding presubmit.Finding) *sarif.Result {
	result := sarif.NewRuleResult(check.ID)
	result.Kind = "fail"
	result.Level = m.mapLevel(finding.Level)

	msg := finding.Message
	if finding.LongText != "" {
		msg += "\n" + finding.LongText
	}
	result.Message = sarif.NewTextMessage(msg)

	for _, item := range finding.Items {
		if loc := m.itemToLocation(item); loc != nil {
			result.Locations = append(result.Locations, loc)
		}
	}

	props := sarif.NewPropertyBag()
	props.Add("status", string(check.Status))
	if len(finding.Items) > 0 {
		props.Add("items", finding.Items)
	}
	if check.ExitCode != 0 {
		props.Add("exitCode", check.ExitCode)
	}
	result.WithProperties(props)

	return result
}

// mapLevel converts a finding level to a SARIF level.
func (m *sarifMapper) mapLevel(level values.Level) string {
	switch {
	case level.Equals(values.LvlError):
		return "error"
	case level.Equals(values.LvlWarning):
		return "warning"
	default:
		return "note"
	}
}

// itemToLocation parses a finding item into a location, or returns nil
// when the item does not name a file.
func (m *sarifMapper) itemToLocation(item string) *sarif.Location {
	match := itemLocation.FindStringSubmatch(item)
	if match == nil {
		return nil
	}

	path := filepath.ToSlash(match[1])
	m.registerArtifact(path)

	pLoc := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithURI(path))

	lineText := match[2]
	if lineText == "" {
		lineText = match[3]
	}
	if line, err := strconv.Atoi(lineText); err == nil && line > 0 {
		pLoc.WithRegion(sarif.NewRegion().WithStartLine(line))
	}

	return sarif.NewLocation().WithPhysicalLocation(pLoc)
}

// registerArtifact adds a file to the artifacts map (deduplicated).
func (m *sarifMapper) registerArtifact(uri string) {
	if _, exists := m.artifacts[uri]; exists {
		return
	}
	m.artifacts[uri] = sarif.NewArtifact().
		WithLocation(sarif.NewArtifactLocation().WithURI(uri))
	m.order = append(m.order, uri)
}

// addArtifacts adds collected artifacts to the run in first-seen order.
func (m *sarifMapper) addArtifacts(run *sarif.Run) {
	for _, uri := range m.order {
		run.AddArtifact(m.artifacts[uri])
	}
}

// addInvocation adds execution metadata to the run.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()

	invocation.ExecutionSuccessful = ptrBool(m.result.Summary.ErrorChecks == 0)

	startTime := m.result.StartTime.UTC().Format("2006-01-02T15:04:05.000Z")
	endTime := m.result.EndTime.UTC().Format("2006-01-02T15:04:05.000Z")
	invocation.StartTimeUtc = &startTime
	invocation.EndTimeUtc = &endTime

	if hostname, err := os.Hostname(); err == nil {
		invocation.Machine = &hostname
	}

	if m.repoRoot != "" {
		if abs, err := filepath.Abs(m.repoRoot); err == nil {
			invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI("file://" + filepath.ToSlash(abs))
		}
	}

	props := sarif.NewPropertyBag()
	props.Add("gateId", m.result.ID.String())
	props.Add("trigger", string(m.result.Trigger))
	props.Add("project", m.result.Project)
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

// addProperties adds summary statistics to run properties.
func (m *sarifMapper) addProperties(run *sarif.Run) {
	props := sarif.NewPropertyBag()
	props.Add("summary", m.result.Summary)
	if m.result.Status != "" {
		props.Add("status", string(m.result.Status))
	}
	run.WithProperties(props)
}

func ptrBool(b bool) *bool {
	return &b
}
