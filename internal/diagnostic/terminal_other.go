//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd

package diagnostic

// IsTerminal always reports false where terminal detection is unavailable.
func IsTerminal(fd uintptr) bool {
	return false
}
