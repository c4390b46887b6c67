// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package shm

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/untyper/sasm-go/internal/allocator"
)

var (
	modkernel32         = windows.NewLazySystemDLL("kernel32.dll")
	procOpenFileMapping = modkernel32.NewProc("OpenFileMappingW")
)

func sysOpenFileMapping(access uint32, inheritHandle uint32, name string) (windows.Handle, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	nameu := unsafe.Pointer(namep)
	h, _, err := procOpenFileMapping.Call(uintptr(access), uintptr(inheritHandle), uintptr(nameu))
	allocator.Use(nameu)
	if h == 0 {
		if err == windows.ERROR_FILE_NOT_FOUND {
			return 0, &os.PathError{Op: "OpenFileMapping", Path: name, Err: err}
		}
		return 0, os.NewSyscallError("OpenFileMapping", err)
	}
	return windows.Handle(h), nil
}
