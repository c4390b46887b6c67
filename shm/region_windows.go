// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package shm

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/untyper/sasm-go/internal/allocator"
)

// mappedRegion is a view of a file mapping object
// in the address space of the current process.
type mappedRegion struct {
	data []byte
}

func newMappedRegion(obj *memoryObject, size int) (*mappedRegion, error) {
	if size <= 0 {
		return nil, errors.New("mapping length must be positive")
	}
	addr, err := windows.MapViewOfFile(
		obj.handle,
		windows.FILE_MAP_READ|windows.FILE_MAP_WRITE,
		0,
		0,
		uintptr(size))
	if err != nil {
		return nil, os.NewSyscallError("MapViewOfFile", err)
	}
	return &mappedRegion{data: allocator.ByteSliceFromUnsafePointer(unsafe.Pointer(addr), size, size)}, nil
}

func (region *mappedRegion) bytes() []byte {
	return region.data
}

func (region *mappedRegion) addr() uintptr {
	if region.data == nil {
		return 0
	}
	return uintptr(allocator.ByteSliceData(region.data))
}

func (region *mappedRegion) flush(async bool) error {
	// FlushViewOfFile starts the writeback without waiting for it, which
	// matches the async contract; for a paging-file-backed mapping there
	// is no stronger synchronous flush to perform.
	if err := windows.FlushViewOfFile(region.addr(), uintptr(len(region.data))); err != nil {
		return os.NewSyscallError("FlushViewOfFile", err)
	}
	return nil
}

func (region *mappedRegion) close() error {
	if region.data == nil {
		return nil
	}
	err := windows.UnmapViewOfFile(region.addr())
	region.data = nil
	if err != nil {
		return os.NewSyscallError("UnmapViewOfFile", err)
	}
	return nil
}
