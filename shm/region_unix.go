// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

//go:build linux || darwin

package shm

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/untyper/sasm-go/internal/allocator"
)

// mappedRegion is a shared mapping of a memory object
// into the address space of the current process.
type mappedRegion struct {
	data []byte
}

func newMappedRegion(obj *memoryObject, size int) (*mappedRegion, error) {
	if size <= 0 {
		return nil, errors.New("mapping length must be positive")
	}
	data, err := unix.Mmap(int(obj.fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, os.NewSyscallError("MMAP", err)
	}
	return &mappedRegion{data: data}, nil
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
	flag := unix.MS_SYNC
	if async {
		flag = unix.MS_ASYNC
	}
	if err := unix.Msync(region.data, flag); err != nil {
		return os.NewSyscallError("MSYNC", err)
	}
	return nil
}

func (region *mappedRegion) close() error {
	if region.data == nil {
		return nil
	}
	err := unix.Munmap(region.data)
	region.data = nil
	if err != nil {
		return os.NewSyscallError("MUNMAP", err)
	}
	return nil
}
