package presubmit_test

import (
	"strings"
	"testing"

	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateResult_FindingsConcatenateInCheckOrder(t *testing.T) {
	t.Parallel()

	r := presubmit.NewGateResult(values.TriggerCommit, "Native Client")
	r.AddCheckResult(presubmit.CheckResult{
		ID: "mirror", Index: 2, Status: values.StatusFail,
		Findings: []presubmit.Finding{presubmit.NewError("mirror", "mirror stale")},
	})
	r.AddCheckResult(presubmit.CheckResult{
		ID: "deps", Index: 0, Status: values.StatusFail,
		Findings: []presubmit.Finding{
			presubmit.NewError("deps", "deps broken"),
			presubmit.NewWarning("deps", "deps slow"),
		},
	})
	r.AddCheckResult(presubmit.CheckResult{ID: "unittests", Index: 1, Status: values.StatusPass})
	r.Finalize()

	findings := r.Findings()
	require.Len(t, findings, 3)
	assert.Equal(t, "deps broken", findings[0].Message)
	assert.Equal(t, "deps slow", findings[1].Message)
	assert.Equal(t, "mirror stale", findings[2].Message)

	assert.False(t, r.Passed())
	assert.True(t, r.HasErrors())
	assert.Equal(t, []string{"deps", "unittests", "mirror"}, []string{r.Checks[0].ID, r.Checks[1].ID, r.Checks[2].ID})
}

func TestGateResult_Summary(t *testing.T) {
	t.Parallel()

	r := presubmit.NewGateResult(values.TriggerUpload, "Native Client")
	r.AddCheckResult(presubmit.CheckResult{ID: "a", Index: 0, Status: values.StatusPass})
	r.AddCheckResult(presubmit.CheckResult{
		ID: "b", Index: 1, Status: values.StatusFail,
		Findings: []presubmit.Finding{
			presubmit.NewWarning("b", "w"),
			presubmit.NewNotify("b", "n"),
		},
	})
	r.AddCheckResult(presubmit.CheckResult{
		ID: "c", Index: 2, Status: values.StatusError,
		Findings: []presubmit.Finding{presubmit.NewError("c", "e")},
	})
	r.AddCheckResult(presubmit.CheckResult{ID: "d", Index: 3, Status: values.StatusSkipped})
	r.Finalize()

	assert.Equal(t, presubmit.Summary{
		TotalChecks:   4,
		PassedChecks:  1,
		FailedChecks:  1,
		ErrorChecks:   1,
		SkippedChecks: 1,
		Errors:        1,
		Warnings:      1,
		Notifications: 1,
	}, r.Summary)
	assert.False(t, r.EndTime.Before(r.StartTime))
}

func TestGateResult_EmptyPasses(t *testing.T) {
	t.Parallel()

	r := presubmit.NewGateResult(values.TriggerUpload, "Native Client")
	r.AddCheckResult(presubmit.CheckResult{ID: "a", Status: values.StatusPass})
	r.Finalize()

	assert.True(t, r.Passed())
	assert.False(t, r.HasErrors())
	assert.Empty(t, r.Findings())
}

func TestGateResult_WarningsOnlyHasNoErrors(t *testing.T) {
	t.Parallel()

	r := presubmit.NewGateResult(values.TriggerUpload, "Native Client")
	r.AddCheckResult(presubmit.CheckResult{
		ID: "canned", Status: values.StatusFail,
		Findings: []presubmit.Finding{presubmit.NewWarning("canned", "long line")},
	})

	assert.False(t, r.Passed())
	assert.False(t, r.HasErrors())
}

func TestGateResult_CheckResultByID(t *testing.T) {
	t.Parallel()

	r := presubmit.NewGateResult(values.TriggerUpload, "Native Client")
	r.AddCheckResult(presubmit.CheckResult{ID: "deps", Status: values.StatusPass})

	require.NotNil(t, r.CheckResultByID("deps"))
	assert.Nil(t, r.CheckResultByID("missing"))
}

func TestFinding_Builders(t *testing.T) {
	t.Parallel()

	items := []string{"a.c:3"}
	f := presubmit.NewError("canned", "tabs").WithLongText("detail").WithItems(items)
	items[0] = "mutated"

	assert.Equal(t, "detail", f.LongText)
	assert.Equal(t, []string{"a.c:3"}, f.Items)
	assert.True(t, f.Level.IsError())
}

func TestTruncateOutput(t *testing.T) {
	t.Parallel()

	out, meta := presubmit.TruncateOutput("short", 100)
	assert.Equal(t, "short", out)
	assert.Nil(t, meta)

	out, meta = presubmit.TruncateOutput(strings.Repeat("a", 50), 0)
	assert.Len(t, out, 50)
	assert.Nil(t, meta)

	long := strings.Repeat("x", 200) + "the real error"
	out, meta = presubmit.TruncateOutput(long, 64)
	require.NotNil(t, meta)
	assert.True(t, meta.Truncated)
	assert.Equal(t, len(long), meta.OriginalSize)
	assert.Equal(t, 64, meta.TruncatedAt)
	assert.Len(t, out, 64)
	assert.True(t, strings.HasSuffix(out, "the real error"))
	assert.Contains(t, out, "[TRUNCATED]")
}
