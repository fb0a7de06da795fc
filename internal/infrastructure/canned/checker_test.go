package canned

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/naclports/naclports/internal/application/ports"
	"github.com/naclports/naclports/internal/domain/presubmit"
	"github.com/naclports/naclports/internal/domain/values"
	"github.com/naclports/naclports/internal/infrastructure/redaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodLicense = "# Copyright (c) 2014 The Native Client Authors. All rights reserved.\n"

type memSource struct {
	files map[string]string
	err   error
}

func (s *memSource) AffectedFiles(context.Context) ([]ports.AffectedFile, error) {
	return nil, nil
}

func (s *memSource) ReadFile(_ context.Context, p string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.files[p]), nil
}

type fakeDetector struct{}

func (fakeDetector) Detect(text string) []redaction.Leak {
	var leaks []redaction.Leak
	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "sekrit") {
			leaks = append(leaks, redaction.Leak{RuleID: "fake-rule", Secret: "sekrit", Line: i + 1})
		}
	}
	return leaks
}

func added(p string, lines ...string) ports.AffectedFile {
	f := ports.AffectedFile{Path: p, Action: ports.FileModified}
	for i, l := range lines {
		f.AddedLines = append(f.AddedLines, ports.AddedLine{Number: i + 1, Text: l})
	}
	return f
}

func newTestChecker(t *testing.T, secrets SecretDetector) *Checker {
	t.Helper()
	c, err := NewChecker(Settings{
		ProjectName:   "Native Client",
		ExcludedPaths: []string{`^build_tools[\\/]patch_configure.py`},
	}, secrets, nil)
	require.NoError(t, err)
	return c
}

func findingFor(t *testing.T, findings []presubmit.Finding, prefix string) presubmit.Finding {
	t.Helper()
	for _, f := range findings {
		if strings.HasPrefix(f.Message, prefix) {
			return f
		}
	}
	t.Fatalf("no finding starting with %q in %v", prefix, findings)
	return presubmit.Finding{}
}

func TestChecker_CleanChange(t *testing.T) {
	c := newTestChecker(t, fakeDetector{})
	src := &memSource{files: map[string]string{"lib/naclports/util.py": goodLicense + "import os\n"}}

	findings, err := c.Run(context.Background(), values.TriggerUpload,
		[]ports.AffectedFile{added("lib/naclports/util.py", "import os")}, src)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestChecker_LineRules(t *testing.T) {
	c := newTestChecker(t, nil)
	long := strings.Repeat("x", 81)

	files := []ports.AffectedFile{
		added("ports/zlib/build.sh",
			"# DO NOT "+"SUBMIT",
			"\tindented",
			"trailing ",
			long,
			"# TODO: fix me",
			"# TODO(sbc): owned",
			"# see https://example.com/"+long,
		),
		added("ports/zlib/Makefile", "\tcc -o $@ $<"),
		added("ports/zlib/nacl.patch", "+\tupstream code ", "+"+long),
	}

	findings, err := c.Run(context.Background(), values.TriggerUpload, files, nil)
	require.NoError(t, err)

	var messages []string
	for _, f := range findings {
		messages = append(messages, f.Message)
		assert.Equal(t, CheckID, f.Check)
	}
	assert.Equal(t, []string{
		"DO NOT " + "SUBMIT found in:",
		"Found a tab character in:",
		"Found line ending with white spaces in:",
		"Found lines longer than 80 characters:",
		"Found TODO with no owner in:",
	}, messages)

	assert.Equal(t, []string{"ports/zlib/build.sh:2"}, findingFor(t, findings, "Found a tab").Items)
	assert.Equal(t, []string{"ports/zlib/build.sh:3"}, findingFor(t, findings, "Found line ending").Items)
	assert.Equal(t, []string{"ports/zlib/build.sh, line 4, 81 chars"}, findingFor(t, findings, "Found lines longer").Items)
	assert.Equal(t, []string{"ports/zlib/build.sh:5"}, findingFor(t, findings, "Found TODO").Items)
}

func TestChecker_LongLineLevelDependsOnTrigger(t *testing.T) {
	c := newTestChecker(t, nil)
	files := []ports.AffectedFile{added("a.txt", strings.Repeat("y", 90))}

	upload, err := c.Run(context.Background(), values.TriggerUpload, files, nil)
	require.NoError(t, err)
	require.Len(t, upload, 1)
	assert.Equal(t, values.LvlWarning, upload[0].Level)

	commit, err := c.Run(context.Background(), values.TriggerCommit, files, nil)
	require.NoError(t, err)
	require.Len(t, commit, 1)
	assert.Equal(t, values.LvlError, commit[0].Level)
}

func TestChecker_JavaAllowsLongerLines(t *testing.T) {
	c := newTestChecker(t, nil)
	files := []ports.AffectedFile{added("a.txt", strings.Repeat("y", 90)), added("Main.txt.java", strings.Repeat("y", 90))}

	findings, err := c.Run(context.Background(), values.TriggerUpload, files, &memSource{files: map[string]string{"Main.txt.java": "// Copyright 2014 The Native Client Authors. All rights reserved.\n"}})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"a.txt, line 1, 90 chars"}, findings[0].Items)
}

func TestChecker_ExcludedAndDeletedFiles(t *testing.T) {
	c := newTestChecker(t, nil)

	deleted := added("ports/old/build.sh", "\t")
	deleted.Action = ports.FileDeleted

	files := []ports.AffectedFile{
		added("build_tools/patch_configure.py", "\tbad ", "# DO NOT "+"SUBMIT"),
		deleted,
	}

	findings, err := c.Run(context.Background(), values.TriggerCommit, files, &memSource{})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestChecker_License(t *testing.T) {
	c := newTestChecker(t, nil)
	src := &memSource{files: map[string]string{
		"lib/good.py":  goodLicense,
		"lib/bad.py":   "# Copyright (c) 2014 Somebody Else. All rights reserved.\n",
		"lib/empty.py": "",
		"README.md":    "no license needed",
	}}

	files := []ports.AffectedFile{
		added("lib/good.py", "x = 1"),
		added("lib/bad.py", "x = 1"),
		added("lib/empty.py"),
		added("README.md", "docs"),
	}

	findings, err := c.Run(context.Background(), values.TriggerUpload, files, src)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Found a bad license header in these files:", findings[0].Message)
	assert.Equal(t, []string{"lib/bad.py"}, findings[0].Items)
	assert.Contains(t, findings[0].LongText, "Native Client Authors")
	assert.True(t, findings[0].Level.IsError())
}

func TestChecker_Secrets(t *testing.T) {
	c := newTestChecker(t, fakeDetector{})

	f := ports.AffectedFile{Path: "ports/curl/build.sh", Action: ports.FileModified, AddedLines: []ports.AddedLine{
		{Number: 10, Text: "echo hello"},
		{Number: 42, Text: "TOKEN=sekrit"},
	}}

	findings, err := c.Run(context.Background(), values.TriggerUpload, []ports.AffectedFile{f}, &memSource{
		files: map[string]string{"ports/curl/build.sh": "# Copyright 2014 The Native Client Authors. All rights reserved.\n"},
	})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Found possible secrets in:", findings[0].Message)
	assert.Equal(t, []string{"ports/curl/build.sh:42 (fake-rule)"}, findings[0].Items)
}

func TestChecker_ItemsKeepFileOrder(t *testing.T) {
	c, err := NewChecker(Settings{Concurrency: 4}, nil, nil)
	require.NoError(t, err)

	var files []ports.AffectedFile
	var want []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files = append(files, added(name+".txt", "trailing "))
		want = append(want, name+".txt:1")
	}

	findings, err := c.Run(context.Background(), values.TriggerUpload, files, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, want, findings[0].Items)
}

func TestChecker_ReadErrorAborts(t *testing.T) {
	c := newTestChecker(t, nil)

	_, err := c.Run(context.Background(), values.TriggerUpload,
		[]ports.AffectedFile{added("lib/x.py", "x")}, &memSource{err: errors.New("disk gone")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lib/x.py")
}

func TestNewChecker_InvalidPattern(t *testing.T) {
	_, err := NewChecker(Settings{ExcludedPaths: []string{"("}}, nil, nil)
	require.Error(t, err)
}
