//go:build linux || darwin || freebsd || netbsd || openbsd

package resource

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PeakRSS returns the peak resident set size of the process in bytes.
func PeakRSS() (int64, bool) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, false
	}
	maxrss := int64(ru.Maxrss)
	// Linux and the BSDs report kilobytes; darwin reports bytes.
	if runtime.GOOS != "darwin" {
		maxrss *= 1024
	}
	return maxrss, maxrss > 0
}
