package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
)

// JUnitFormatter formats gate results as JUnit XML, one test case per check.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{
		writer: w,
	}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName    xml.Name         `xml:"testsuite"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Properties *JUnitProperties `xml:"properties,omitempty"`
	TestCases  []JUnitTestCase  `xml:"testcase"`
}

type JUnitProperties struct {
	Properties []JUnitProperty `xml:"property"`
}

type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Format writes the gate result as JUnit XML.
func (f *JUnitFormatter) Format(result *presubmit.GateResult) error {
	suite := JUnitTestSuite{
		Name:     fmt.Sprintf("presubmit %s", result.Trigger),
		Tests:    result.Summary.TotalChecks,
		Failures: result.Summary.FailedChecks,
		Errors:   result.Summary.ErrorChecks,
		Skipped:  result.Summary.SkippedChecks,
		Time:     result.Duration.Seconds(),
	}
	if result.Status != "" {
		suite.Properties = &JUnitProperties{Properties: []JUnitProperty{
			{Name: "status", Value: string(result.Status)},
			{Name: "gate_id", Value: result.ID.String()},
		}}
	}

	for _, check := range result.Checks {
		c := JUnitTestCase{
			Name:      check.ID,
			ClassName: check.Name,
			Time:      check.Duration.Seconds(),
			SystemOut: check.Output,
		}

		switch check.Status {
		case values.StatusFail:
			c.Failure = &JUnitFailure{
				Message: firstMessage(check),
				Content: formatFindings(check.Findings),
			}
		case values.StatusError:
			c.Error = &JUnitError{
				Message: firstMessage(check),
				Content: formatFindings(check.Findings),
			}
		case values.StatusSkipped:
			c.Skipped = &JUnitSkipped{
				Message: check.SkipReason,
			}
		}

		suite.TestCases = append(suite.TestCases, c)
	}

	suites := JUnitTestSuites{
		Name:       result.Project,
		Tests:      result.Summary.TotalChecks,
		Failures:   result.Summary.FailedChecks,
		Errors:     result.Summary.ErrorChecks,
		Time:       result.Duration.Seconds(),
		TestSuites: []JUnitTestSuite{suite},
	}

	_, err := f.writer.Write([]byte(xml.Header))
	if err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err = f.writer.Write([]byte("\n"))
	return err
}

func firstMessage(check presubmit.CheckResult) string {
	if len(check.Findings) == 0 {
		return string(check.Status)
	}
	return check.Findings[0].Message
}

func formatFindings(findings []presubmit.Finding) string {
	var b strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&b, "[%s] %s\n", f.Level, f.Message)
		for _, item := range f.Items {
			fmt.Fprintf(&b, "  %s\n", item)
		}
		if f.LongText != "" {
			fmt.Fprintf(&b, "%s\n", f.LongText)
		}
	}
	return b.String()
}
