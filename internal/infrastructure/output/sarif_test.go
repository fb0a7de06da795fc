package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sarifDoc struct {
	Version string `json:"version"`
	Runs    []struct {
		Tool struct {
			Driver struct {
				Name    string `json:"name"`
				Version string `json:"version"`
				Rules   []struct {
					ID string `json:"id"`
				} `json:"rules"`
			} `json:"driver"`
		} `json:"tool"`
		Results []struct {
			RuleID  string `json:"ruleId"`
			Level   string `json:"level"`
			Kind    string `json:"kind"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
			Locations []struct {
				PhysicalLocation struct {
					ArtifactLocation struct {
						URI string `json:"uri"`
					} `json:"artifactLocation"`
					Region struct {
						StartLine int `json:"startLine"`
					} `json:"region"`
				} `json:"physicalLocation"`
			} `json:"locations"`
		} `json:"results"`
		Properties struct {
			Status string `json:"status"`
		} `json:"properties"`
		Artifacts []struct {
			Location struct {
				URI string `json:"uri"`
			} `json:"location"`
		} `json:"artifacts"`
	} `json:"runs"`
}

func TestSARIFFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSARIFFormatter(&buf, t.TempDir()).Format(sampleResult()))

	var doc sarifDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]

	assert.Equal(t, "naclports presubmit", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Len(t, run.Tool.Driver.Rules, 4)
	assert.Equal(t, "unittests", run.Tool.Driver.Rules[0].ID)

	// unittests pass, two canned findings, one mirror finding, tree skipped.
	require.Len(t, run.Results, 5)

	assert.Equal(t, "pass", run.Results[0].Kind)

	todo := run.Results[1]
	assert.Equal(t, "canned", todo.RuleID)
	assert.Equal(t, "warning", todo.Level)
	require.Len(t, todo.Locations, 1)
	assert.Equal(t, "ports/zlib/build.sh", todo.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 5, todo.Locations[0].PhysicalLocation.Region.StartLine)

	long := run.Results[2]
	assert.Equal(t, "error", long.Level)
	require.Len(t, long.Locations, 1)
	assert.Equal(t, "lib/naclports/util.py", long.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 12, long.Locations[0].PhysicalLocation.Region.StartLine)

	mirror := run.Results[3]
	assert.Equal(t, "mirror", mirror.RuleID)
	assert.Equal(t, "fail", mirror.Kind)
	assert.Contains(t, mirror.Message.Text, "Run build_tools/update_mirror.py to update.")
	assert.Empty(t, mirror.Locations)

	assert.Equal(t, "notApplicable", run.Results[4].Kind)

	assert.Equal(t, "fail", run.Properties.Status)

	require.Len(t, run.Artifacts, 2)
	assert.Equal(t, "ports/zlib/build.sh", run.Artifacts[0].Location.URI)
}

func TestItemToLocation(t *testing.T) {
	m := newSARIFMapper(sampleResult(), "")

	tests := []struct {
		item     string
		wantPath string
		wantNil  bool
	}{
		{item: "ports/zlib/build.sh:5", wantPath: "ports/zlib/build.sh"},
		{item: "lib/x.py, line 3, 90 chars", wantPath: "lib/x.py"},
		{item: "lib/bad.py", wantPath: "lib/bad.py"},
		{item: "secret in ports/curl/build.sh:42 (rule)", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			loc := m.itemToLocation(tt.item)
			if tt.wantNil {
				assert.Nil(t, loc)
				return
			}
			require.NotNil(t, loc)
			require.NotNil(t, loc.PhysicalLocation)
			require.NotNil(t, loc.PhysicalLocation.ArtifactLocation)
			assert.Equal(t, tt.wantPath, *loc.PhysicalLocation.ArtifactLocation.URI)
		})
	}
}
