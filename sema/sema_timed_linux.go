// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sema

import (
	"os"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/untyper/sasm-go/internal/allocator"
	"github.com/untyper/sasm-go/internal/common"
)

// timedWait performs a bounded wait via semtimedop. The syscall takes a
// relative timespec, so an interrupted wait is restarted with the time
// remaining until the original deadline.
func (obj *semaObject) timedWait(timeout time.Duration) bool {
	err := common.UninterruptedSyscallTimeout(func(curTimeout time.Duration) error {
		b := sembuf{semnum: 0, semop: -1, semflg: 0}
		return semtimedop(obj.id, []sembuf{b}, common.TimeoutToTimeSpec(curTimeout))
	}, timeout)
	return err == nil
}

func semtimedop(id int, ops []sembuf, timeout *unix.Timespec) error {
	if len(ops) == 0 {
		return nil
	}
	pOps := unsafe.Pointer(&ops[0])
	pTimeout := unsafe.Pointer(timeout)
	_, _, err := unix.Syscall6(unix.SYS_SEMTIMEDOP, uintptr(id), uintptr(pOps), uintptr(len(ops)), uintptr(pTimeout), 0, 0)
	allocator.Use(pOps)
	allocator.Use(pTimeout)
	if err != syscall.Errno(0) {
		return os.NewSyscallError("SEMTIMEDOP", err)
	}
	return nil
}
