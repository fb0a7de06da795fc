// Package buildconfig models the build configuration that selects a
// per-package build variant: target architecture, toolchain, the libc the
// toolchain implies, and debug versus release.
package buildconfig

import (
	"cmp"
	"fmt"
	"log/slog"
)

// Configuration is an immutable build configuration. Construct it with
// Resolve; the zero value is not a valid configuration.
//
// Equality, ordering and Key are defined over (libc, toolchain, debug).
// Two configurations that differ only in arch compare equal.
type Configuration struct {
	arch      Arch
	toolchain Toolchain
	debug     bool
}

// Key is the comparable identity of a Configuration, suitable as a map key.
type Key struct {
	Libc      Libc
	Toolchain Toolchain
	Debug     bool
}

// Arch returns the target architecture.
func (c Configuration) Arch() Arch { return c.arch }

// Toolchain returns the toolchain.
func (c Configuration) Toolchain() Toolchain { return c.toolchain }

// Debug reports whether this is a debug build.
func (c Configuration) Debug() bool { return c.debug }

// Libc returns the C library derived from the toolchain.
func (c Configuration) Libc() Libc { return c.toolchain.Libc() }

// ConfigName is "debug" or "release".
func (c Configuration) ConfigName() string {
	if c.debug {
		return "debug"
	}
	return "release"
}

// Key returns the identity tuple used for equality and hashing.
func (c Configuration) Key() Key {
	return Key{Libc: c.Libc(), Toolchain: c.toolchain, Debug: c.debug}
}

// Equal reports whether c and other have the same identity tuple.
func (c Configuration) Equal(other Configuration) bool {
	return c.Key() == other.Key()
}

// Compare orders configurations by libc, then toolchain, then debug
// (release before debug). It returns -1, 0 or +1.
func Compare(a, b Configuration) int {
	if r := cmp.Compare(a.Libc(), b.Libc()); r != 0 {
		return r
	}
	if r := cmp.Compare(a.toolchain, b.toolchain); r != 0 {
		return r
	}
	switch {
	case a.debug == b.debug:
		return 0
	case !a.debug:
		return -1
	default:
		return 1
	}
}

// String renders "<arch>/<libc>/<config_name>".
func (c Configuration) String() string {
	return fmt.Sprintf("%s/%s/%s", c.arch, c.Libc(), c.ConfigName())
}

// GoString implements fmt.GoStringer for %#v.
func (c Configuration) GoString() string {
	return "<Configuration " + c.String() + ">"
}

// LogValue implements slog.LogValuer.
func (c Configuration) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("arch", string(c.arch)),
		slog.String("toolchain", string(c.toolchain)),
		slog.String("libc", string(c.Libc())),
		slog.String("config", c.ConfigName()),
	)
}

// Summary is a serializable view of a Configuration.
type Summary struct {
	Arch       string `json:"arch" yaml:"arch"`
	PkgArch    string `json:"pkg_arch" yaml:"pkg_arch"`
	Toolchain  string `json:"toolchain" yaml:"toolchain"`
	Libc       string `json:"libc" yaml:"libc"`
	ConfigName string `json:"config_name" yaml:"config_name"`
	Debug      bool   `json:"debug" yaml:"debug"`
	String     string `json:"string" yaml:"string"`
}

// Summarize returns the serializable view.
func (c Configuration) Summarize() Summary {
	return Summary{
		Arch:       string(c.arch),
		PkgArch:    c.arch.PkgArch(),
		Toolchain:  string(c.toolchain),
		Libc:       string(c.Libc()),
		ConfigName: c.ConfigName(),
		Debug:      c.debug,
		String:     c.String(),
	}
}
