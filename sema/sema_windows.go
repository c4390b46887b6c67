// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sema

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// cSemMaxCount is the maximum count of a windows semaphore object,
// passed to CreateSemaphore. Matches LONG_MAX.
const cSemMaxCount = 0x7FFFFFFF

// semaObject is a named windows kernel semaphore. There is no persistent
// namespace on windows: the kernel destroys the object once the last
// handle to it is closed, system-wide, so close has no unlink step.
type semaObject struct {
	name   string
	handle windows.Handle
}

func newSemaObject(name string, initial int) (*semaObject, error) {
	handle, err := openOrCreateSemaphore(name, os.O_CREATE, initial, cSemMaxCount)
	if err != nil {
		return nil, err
	}
	return &semaObject{name: name, handle: handle}, nil
}

func (obj *semaObject) waitTimeout(timeout time.Duration) bool {
	waitMillis := uint32(windows.INFINITE)
	if timeout >= 0 {
		waitMillis = uint32(timeout.Nanoseconds() / 1e6)
	}
	ev, _ := windows.WaitForSingleObject(obj.handle, waitMillis)
	return ev == windows.WAIT_OBJECT_0
}

func (obj *semaObject) signal(count int) error {
	if _, err := sysReleaseSemaphore(obj.handle, count); err != nil {
		return err
	}
	return nil
}

func (obj *semaObject) close() error {
	if err := windows.CloseHandle(obj.handle); err != nil {
		return errors.Wrap(err, "failed to close windows handle")
	}
	return nil
}
