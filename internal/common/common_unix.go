// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package common

import (
	"os"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// SysV ipc flags and commands.
const (
	IpcCreate = 0x00000200 /* create the object, if the key is unused */
	IpcExcl   = 0x00000400 /* fail, if the key is in use */
	IpcNoWait = 0x00000800 /* return an error instead of waiting */

	IpcRmid = 0 /* remove the object */
)

// Key is a SysV ipc key.
type Key uint64

// KeyForName returns a SysV ipc key for the given object name.
// SysV objects are identified by keys, not names, so an empty file
// is created in the temp directory, and its identity is folded into
// a key the way ftok(3) does. The file stays on disk for the lifetime
// of the object and is removed when the object is destroyed.
func KeyForName(name string) (Key, error) {
	path := TmpFilename(name)
	file, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create a key file for the name")
	}
	file.Close()
	k, err := ftok(path)
	if err != nil {
		os.Remove(path)
		return 0, errors.Wrap(err, "failed to make a key for the name")
	}
	return k, nil
}

// TmpFilename returns the path of the key file for the given object name.
func TmpFilename(name string) string {
	return os.TempDir() + "/" + name
}

func ftok(path string) (Key, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, err
	}
	return Key(uint64(st.Ino)&0xFFFF | ((uint64(st.Dev) & 0xFF) << 16)), nil
}

// TimeoutToTimeSpec converts a timeout value into a relative timespec.
// Negative timeouts mean 'wait forever' and produce a nil timespec.
func TimeoutToTimeSpec(timeout time.Duration) *unix.Timespec {
	if timeout < 0 {
		return nil
	}
	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	return &ts
}

// IsInterruptedSyscallErr reports whether err is a EINTR syscall error.
func IsInterruptedSyscallErr(err error) bool {
	return SyscallErrHasCode(err, syscall.EINTR)
}

// IsTemporarilyUnavailableErr reports whether err is a EAGAIN syscall error.
func IsTemporarilyUnavailableErr(err error) bool {
	return SyscallErrHasCode(err, syscall.EAGAIN)
}

// UninterruptedSyscall runs f, retrying it as long as it fails with EINTR.
func UninterruptedSyscall(f func() error) error {
	for {
		err := f()
		if !IsInterruptedSyscallErr(err) {
			return err
		}
	}
}

// UninterruptedSyscallTimeout runs f, which performs a syscall bounded by
// a relative timeout, retrying it on EINTR. On every retry the remaining
// part of the timeout is recalculated from the original deadline. The
// deadline arithmetic uses the monotonic clock reading carried by
// time.Time values, so wall clock adjustments do not affect it.
// A negative timeout means no deadline and is passed to f as is.
func UninterruptedSyscallTimeout(f func(timeout time.Duration) error, timeout time.Duration) error {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		err := f(timeout)
		if !IsInterruptedSyscallErr(err) {
			return err
		}
		if timeout >= 0 {
			if timeout = time.Until(deadline); timeout < 0 {
				timeout = 0
			}
		}
	}
}
