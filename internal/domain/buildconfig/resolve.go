package buildconfig

import "strings"

// Options carries explicitly requested values. Empty strings and a nil
// Debug mean "not specified" and fall through to the environment.
type Options struct {
	Arch      string
	Toolchain string
	Debug     *bool
}

// MachineProbe reports the native machine name, as `uname -m` would.
type MachineProbe func() string

// Resolve derives a Configuration from explicit options overlaid on the
// environment snapshot. Each value is filled only if still absent:
//
//  1. debug: explicit, else NACL_DEBUG == "1", else false
//  2. toolchain: explicit, else TOOLCHAIN, else pnacl when the arch
//     (explicit or NACL_ARCH) is pnacl, else newlib
//  3. arch: explicit, else NACL_ARCH, else derived from the toolchain
//     (pnacl, bionic -> arm) or from the native machine
//
// The only failure is an arch outside the valid-architecture table.
func Resolve(opts Options, env Environment, probe MachineProbe) (Configuration, error) {
	debug := env.DebugEnabled()
	if opts.Debug != nil {
		debug = *opts.Debug
	}

	arch := opts.Arch
	if arch == "" {
		arch = env.Arch
	}

	toolchain := Toolchain(opts.Toolchain)
	if toolchain == "" {
		toolchain = Toolchain(env.Toolchain)
	}
	if toolchain == "" {
		if arch == string(ArchPNaCl) {
			toolchain = ToolchainPNaCl
		} else {
			toolchain = DefaultToolchain
		}
	}

	if arch == "" {
		arch = string(defaultArch(toolchain, probe))
	}

	if !Arch(arch).IsValid() {
		return Configuration{}, &InvalidArchError{Arch: arch}
	}

	return Configuration{
		arch:      Arch(arch),
		toolchain: toolchain,
		debug:     debug,
	}, nil
}

func defaultArch(toolchain Toolchain, probe MachineProbe) Arch {
	switch toolchain {
	case ToolchainPNaCl:
		return ArchPNaCl
	case ToolchainBionic:
		return ArchARM
	}
	if probe != nil && Is32BitX86(probe()) {
		return ArchI686
	}
	return ArchX86_64
}

// Is32BitX86 reports whether a machine name denotes a 32-bit x86 host.
func Is32BitX86(machine string) bool {
	switch strings.ToLower(machine) {
	case "i386", "i486", "i586", "i686", "x86", "386":
		return true
	default:
		return false
	}
}
