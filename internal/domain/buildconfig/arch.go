package buildconfig

import (
	"fmt"
	"sort"
)

// Arch is a target architecture identifier as used in build output
// directories and on the command line.
type Arch string

const (
	ArchX86_64 Arch = "x86_64"
	ArchI686   Arch = "i686"
	ArchARM    Arch = "arm"
	ArchPNaCl  Arch = "pnacl"
)

// archToPkgArch is the table of valid architectures. Binary package
// names spell x86_64 with a dash, so the value is the package spelling.
var archToPkgArch = map[Arch]string{
	ArchX86_64: "x86-64",
	ArchI686:   "i686",
	ArchARM:    "arm",
	ArchPNaCl:  "pnacl",
}

var pkgArchToArch = func() map[string]Arch {
	m := make(map[string]Arch, len(archToPkgArch))
	for arch, pkg := range archToPkgArch {
		m[pkg] = arch
	}
	return m
}()

// IsValid reports whether the architecture is in the valid-architecture table.
func (a Arch) IsValid() bool {
	_, ok := archToPkgArch[a]
	return ok
}

// PkgArch returns the spelling used in binary package file names.
func (a Arch) PkgArch() string {
	return archToPkgArch[a]
}

func (a Arch) String() string {
	return string(a)
}

// ParsePkgArch maps a package-arch spelling back to its Arch.
func ParsePkgArch(s string) (Arch, error) {
	arch, ok := pkgArchToArch[s]
	if !ok {
		return "", fmt.Errorf("invalid package arch: %s", s)
	}
	return arch, nil
}

// Arches returns every valid architecture, sorted.
func Arches() []Arch {
	out := make([]Arch, 0, len(archToPkgArch))
	for a := range archToPkgArch {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
