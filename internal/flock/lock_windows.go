//go:build windows

package flock

import "golang.org/x/sys/windows"

// LockFileEx parameters: lock one byte at offset zero, which covers the
// whole lock file for every cooperating process.
const (
	reserved  = 0
	bytesLow  = 1
	bytesHigh = 0
)

// Exclusive takes an exclusive lock on fd without blocking.
func Exclusive(fd uintptr) error {
	return windows.LockFileEx(
		windows.Handle(fd),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		reserved, bytesLow, bytesHigh,
		&windows.Overlapped{},
	)
}

// Unlock drops the lock on fd.
func Unlock(fd uintptr) error {
	return windows.UnlockFileEx(windows.Handle(fd), reserved, bytesLow, bytesHigh, &windows.Overlapped{})
}
