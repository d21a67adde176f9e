//go:build unix

package static

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

func errnoName(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	return unix.ErrnoName(errno)
}
