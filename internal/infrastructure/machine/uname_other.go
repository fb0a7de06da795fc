//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package machine

func uname() (string, bool) {
	return "", false
}
