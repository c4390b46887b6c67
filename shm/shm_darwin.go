// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package shm

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/untyper/sasm-go/internal/allocator"
)

const maxNameLen = 30

// shmName builds the path passed to shm_open. POSIX requires a leading
// slash; callers are not expected to provide it themselves.
func shmName(name string) (string, error) {
	if len(name) == 0 {
		return "", errors.New("invalid shm name")
	}
	if name[0] != '/' {
		name = "/" + name
	}
	// darwin's shm_open gives objects of different users the same
	// namespace entry unless the name is made user-specific, see
	// apple's Libc shm_open.c.
	newName := fmt.Sprintf("%s\t%d", name, unix.Geteuid())
	if len(newName) < maxNameLen {
		name = newName
	}
	return name, nil
}

func shmOpen(path string, flag int, perm os.FileMode) (*os.File, error) {
	flag |= unix.O_CLOEXEC
	fd, err := sysShmOpen(path, flag, int(perm))
	if err != nil {
		return nil, err
	}
	return os.NewFile(fd, path), nil
}

func doUnlinkMemoryObject(path string) error {
	if err := sysShmUnlink(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// syscalls

// golang.org/x/sys/unix dropped raw syscall numbers on darwin, but the
// frozen stdlib syscall package still carries them.
const (
	sysNumShmOpen   = syscall.SYS_SHM_OPEN
	sysNumShmUnlink = syscall.SYS_SHM_UNLINK
)

func sysShmOpen(name string, flags, mode int) (uintptr, error) {
	nameBytes, err := unix.BytePtrFromString(name)
	if err != nil {
		return 0, err
	}
	bytes := unsafe.Pointer(nameBytes)
	fd, _, errno := unix.Syscall(sysNumShmOpen, uintptr(bytes), uintptr(flags), uintptr(mode))
	allocator.Use(bytes)
	if errno != syscall.Errno(0) {
		if errno == unix.ENOENT || errno == unix.EEXIST {
			return 0, &os.PathError{Op: "shm_open", Path: name, Err: errno}
		}
		return 0, os.NewSyscallError("shm_open", errno)
	}
	return fd, nil
}

func sysShmUnlink(name string) error {
	nameBytes, err := unix.BytePtrFromString(name)
	if err != nil {
		return err
	}
	bytes := unsafe.Pointer(nameBytes)
	_, _, errno := unix.Syscall(sysNumShmUnlink, uintptr(bytes), 0, 0)
	allocator.Use(bytes)
	if errno != syscall.Errno(0) {
		if errno == unix.ENOENT {
			return &os.PathError{Op: "shm_unlink", Path: name, Err: errno}
		}
		return os.NewSyscallError("shm_unlink", errno)
	}
	return nil
}
