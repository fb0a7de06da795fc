//go:build linux || darwin || freebsd || netbsd || openbsd

package machine

import "golang.org/x/sys/unix"

func uname() (string, bool) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", false
	}
	return unix.ByteSliceToString(uts.Machine[:]), true
}
