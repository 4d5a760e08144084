//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package resource

// PeakRSS is not available on this platform.
func PeakRSS() (int64, bool) {
	return 0, false
}
