package buildconfig

// Toolchain is the compiler and runtime family a package is built with.
type Toolchain string

const (
	ToolchainNewlib Toolchain = "newlib"
	ToolchainGlibc  Toolchain = "glibc"
	ToolchainBionic Toolchain = "bionic"
	ToolchainPNaCl  Toolchain = "pnacl"
)

// DefaultToolchain is used when neither an explicit value, the environment,
// nor the architecture selects one.
const DefaultToolchain = ToolchainNewlib

// Toolchains lists the known toolchains in a stable order.
func Toolchains() []Toolchain {
	return []Toolchain{ToolchainNewlib, ToolchainGlibc, ToolchainBionic, ToolchainPNaCl}
}

// IsKnown reports whether t is one of the known toolchains.
func (t Toolchain) IsKnown() bool {
	switch t {
	case ToolchainNewlib, ToolchainGlibc, ToolchainBionic, ToolchainPNaCl:
		return true
	default:
		return false
	}
}

// Libc returns the C library implied by the toolchain. PNaCl links
// against newlib; every other toolchain is named after its libc.
func (t Toolchain) Libc() Libc {
	if t == ToolchainPNaCl {
		return LibcNewlib
	}
	return Libc(t)
}

func (t Toolchain) String() string {
	return string(t)
}

// Libc is the C standard library variant.
type Libc string

const (
	LibcNewlib Libc = "newlib"
	LibcGlibc  Libc = "glibc"
	LibcBionic Libc = "bionic"
)

func (l Libc) String() string {
	return string(l)
}
