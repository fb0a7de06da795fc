// Package machine reports the hardware name of the host, as `uname -m` does.
package machine

import (
	"runtime"
	"strings"
)

// goarchMachines maps GOARCH values to the names uname reports for them.
var goarchMachines = map[string]string{
	"386":   "i686",
	"amd64": "x86_64",
	"arm":   "armv7l",
	"arm64": "aarch64",
}

// Probe returns the host machine name. It asks the kernel where the
// platform supports it and otherwise derives the name from the Go target.
func Probe() string {
	if m, ok := uname(); ok && m != "" {
		return strings.TrimSpace(m)
	}
	return fromGOARCH(runtime.GOARCH)
}

func fromGOARCH(goarch string) string {
	if m, ok := goarchMachines[goarch]; ok {
		return m
	}
	return goarch
}
