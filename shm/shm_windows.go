// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package shm

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/untyper/sasm-go/internal/common"
)

// memoryObject is a named file mapping backed by the system paging file,
// like it is done by the boost c++ library for windows native shared
// memory. There is no persistent namespace: the kernel destroys the
// mapping once its last handle is closed, system-wide.
type memoryObject struct {
	objName string
	handle  windows.Handle
}

// newMemoryObjectSize opens or creates a paging-file-backed mapping under
// the given name. The mapping is sized at creation by CreateFileMapping
// itself, so there is no separate truncate step to roll back.
func newMemoryObjectSize(name string, size int64) (*memoryObject, bool, error) {
	maxSizeHigh := uint32(size >> 32)
	maxSizeLow := uint32(size & 0xFFFFFFFF)
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, false, err
	}
	var handle windows.Handle
	creator := func(create bool) error {
		var creatorErr error
		if create {
			handle, creatorErr = windows.CreateFileMapping(
				windows.InvalidHandle,
				nil,
				windows.PAGE_READWRITE,
				maxSizeHigh,
				maxSizeLow,
				namep)
			if os.IsExist(creatorErr) {
				// CreateFileMapping opens the existing object in this case;
				// drop the handle and let the open path take it.
				windows.CloseHandle(handle)
				return creatorErr
			}
		} else {
			handle, creatorErr = sysOpenFileMapping(windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, name)
		}
		return creatorErr
	}
	created, err := common.OpenOrCreate(creator, os.O_CREATE)
	if err != nil {
		return nil, false, errors.Wrap(err, "create mapping file failed")
	}
	return &memoryObject{objName: name, handle: handle}, created, nil
}

func (obj *memoryObject) name() string {
	return obj.objName
}

func (obj *memoryObject) fd() uintptr {
	return uintptr(obj.handle)
}

func (obj *memoryObject) close() error {
	if err := windows.CloseHandle(obj.handle); err != nil {
		return errors.Wrap(err, "close handle failed")
	}
	return nil
}

// unlink is a no-op on windows: names do not outlive their handles.
func (obj *memoryObject) unlink() error {
	return nil
}
