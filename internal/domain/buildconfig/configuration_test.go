package buildconfig

import (
	"fmt"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, arch, toolchain string, debug bool) Configuration {
	t.Helper()
	cfg, err := Resolve(Options{Arch: arch, Toolchain: toolchain, Debug: &debug}, Environment{}, nil)
	require.NoError(t, err)
	return cfg
}

func TestConfiguration_String(t *testing.T) {
	cfg := mustResolve(t, "arm", "bionic", false)

	assert.Equal(t, "arm/bionic/release", cfg.String())
	assert.Equal(t, "arm/bionic/release", fmt.Sprint(cfg))
	assert.Equal(t, "<Configuration arm/bionic/release>", fmt.Sprintf("%#v", cfg))
}

func TestConfiguration_EqualIgnoresArch(t *testing.T) {
	a := mustResolve(t, "x86_64", "newlib", false)
	b := mustResolve(t, "i686", "newlib", false)
	c := mustResolve(t, "x86_64", "newlib", true)

	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, Compare(a, b))
	assert.Equal(t, a.Key(), b.Key())

	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestConfiguration_KeyAsMapKey(t *testing.T) {
	seen := map[Key]string{}
	seen[mustResolve(t, "x86_64", "glibc", false).Key()] = "first"
	seen[mustResolve(t, "i686", "glibc", false).Key()] = "second"
	seen[mustResolve(t, "pnacl", "pnacl", false).Key()] = "third"

	assert.Len(t, seen, 2)
	assert.Equal(t, "second", seen[Key{Libc: LibcGlibc, Toolchain: ToolchainGlibc}])
}

func TestCompare_Ordering(t *testing.T) {
	configs := []Configuration{
		mustResolve(t, "pnacl", "pnacl", false),
		mustResolve(t, "x86_64", "newlib", true),
		mustResolve(t, "arm", "bionic", false),
		mustResolve(t, "x86_64", "glibc", false),
		mustResolve(t, "x86_64", "newlib", false),
	}

	sort.Slice(configs, func(i, j int) bool { return Compare(configs[i], configs[j]) < 0 })

	var got []string
	for _, c := range configs {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"arm/bionic/release",
		"x86_64/glibc/release",
		"x86_64/newlib/release",
		"x86_64/newlib/debug",
		"pnacl/newlib/release",
	}, got)

	a := mustResolve(t, "x86_64", "newlib", false)
	b := mustResolve(t, "x86_64", "newlib", true)
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
}

func TestConfiguration_Summarize(t *testing.T) {
	cfg := mustResolve(t, "x86_64", "pnacl", true)

	s := cfg.Summarize()
	assert.Equal(t, "x86_64", s.Arch)
	assert.Equal(t, "x86-64", s.PkgArch)
	assert.Equal(t, "pnacl", s.Toolchain)
	assert.Equal(t, "newlib", s.Libc)
	assert.Equal(t, "debug", s.ConfigName)
	assert.True(t, s.Debug)
	assert.Equal(t, "x86_64/newlib/debug", s.String)
}

func TestConfiguration_LogValue(t *testing.T) {
	cfg := mustResolve(t, "arm", "bionic", true)

	v := cfg.LogValue()
	require.Equal(t, slog.KindGroup, v.Kind())

	attrs := map[string]string{}
	for _, a := range v.Group() {
		attrs[a.Key] = a.Value.String()
	}
	assert.Equal(t, map[string]string{
		"arch":      "arm",
		"toolchain": "bionic",
		"libc":      "bionic",
		"config":    "debug",
	}, attrs)
}

func TestArch(t *testing.T) {
	assert.True(t, ArchX86_64.IsValid())
	assert.False(t, Arch("mips").IsValid())
	assert.Equal(t, "x86-64", ArchX86_64.PkgArch())
	assert.Equal(t, "arm", ArchARM.PkgArch())

	arch, err := ParsePkgArch("x86-64")
	require.NoError(t, err)
	assert.Equal(t, ArchX86_64, arch)

	_, err = ParsePkgArch("x86_64")
	assert.Error(t, err)

	assert.Equal(t, []Arch{ArchARM, ArchI686, ArchPNaCl, ArchX86_64}, Arches())
}

func TestToolchain(t *testing.T) {
	for _, tc := range Toolchains() {
		assert.True(t, tc.IsKnown(), tc)
	}
	assert.False(t, Toolchain("clang").IsKnown())
	assert.Equal(t, LibcNewlib, ToolchainPNaCl.Libc())
	assert.Equal(t, LibcGlibc, ToolchainGlibc.Libc())
}
