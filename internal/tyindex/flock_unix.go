//go:build unix

package tyindex

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive takes an advisory exclusive flock on f for the duration of
// a Save, mirroring the teacher's per-OS build-tag split for syscall-level
// file operations (internal/runtime/asyncio's zerocopy_unix_file.go /
// zerocopy_windows_file.go / zerocopy_generic_file.go). It returns an
// unlock func to defer.
func lockExclusive(f *os.File) (func(), error) {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return nil, err
	}

	return func() { _ = unix.Flock(int(f.Fd()), unix.LOCK_UN) }, nil
}
