// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sema

import (
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/untyper/sasm-go/internal/allocator"
	"github.com/untyper/sasm-go/internal/common"
)

const cSEMAPHORE_MODIFY_STATE = 0x0002

var (
	modkernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procCreateSemaphore  = modkernel32.NewProc("CreateSemaphoreW")
	procOpenSemaphore    = modkernel32.NewProc("OpenSemaphoreW")
	procReleaseSemaphore = modkernel32.NewProc("ReleaseSemaphore")
)

func sysCreateSemaphore(name string, initial, maximum int, attrs *windows.SecurityAttributes) (windows.Handle, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	h, _, err := procCreateSemaphore.Call(
		uintptr(unsafe.Pointer(attrs)),
		uintptr(initial),
		uintptr(maximum),
		uintptr(unsafe.Pointer(namep)))
	allocator.Use(unsafe.Pointer(attrs))
	allocator.Use(unsafe.Pointer(namep))
	if h == 0 {
		if err == windows.ERROR_FILE_EXISTS || err == windows.ERROR_ALREADY_EXISTS {
			return 0, &os.PathError{Op: "CreateSemaphore", Path: name, Err: err}
		}
		return 0, os.NewSyscallError("CreateSemaphore", err)
	} else if err == syscall.Errno(0) {
		err = nil
	}
	return windows.Handle(h), err
}

func sysOpenSemaphore(name string, desiredAccess uint32, inheritHandle uint32) (windows.Handle, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	h, _, err := procOpenSemaphore.Call(uintptr(desiredAccess), uintptr(inheritHandle), uintptr(unsafe.Pointer(namep)))
	allocator.Use(unsafe.Pointer(namep))
	if h == 0 {
		if err == windows.ERROR_FILE_NOT_FOUND {
			return 0, &os.PathError{Op: "OpenSemaphore", Path: name, Err: err}
		}
		return 0, os.NewSyscallError("OpenSemaphore", err)
	}
	return windows.Handle(h), nil
}

func sysReleaseSemaphore(h windows.Handle, count int) (int, error) {
	var prev int32
	prevPtr := unsafe.Pointer(&prev)
	ok, _, err := procReleaseSemaphore.Call(
		uintptr(h),
		uintptr(count),
		uintptr(prevPtr))
	allocator.Use(prevPtr)
	if ok == 0 {
		return 0, os.NewSyscallError("ReleaseSemaphore", err)
	}
	return int(prev), nil
}

func openOrCreateSemaphore(name string, flag int, initial, maximum int) (windows.Handle, error) {
	var handle windows.Handle
	creator := func(create bool) error {
		var err error
		if create {
			handle, err = sysCreateSemaphore(name, initial, maximum, nil)
			if os.IsExist(err) {
				windows.CloseHandle(handle)
				return err
			}
		} else {
			handle, err = sysOpenSemaphore(name, windows.SYNCHRONIZE|cSEMAPHORE_MODIFY_STATE, 0)
		}
		if handle != windows.Handle(0) {
			return nil
		}
		return err
	}
	_, err := common.OpenOrCreate(creator, flag)
	return handle, err
}
