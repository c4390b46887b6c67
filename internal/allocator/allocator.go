// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package allocator

import (
	"runtime"
	"unsafe"
)

// ByteSliceFromUnsafePointer returns a byte slice of the given length and
// capacity, which uses the memory pointed to by memory as its backing array.
func ByteSliceFromUnsafePointer(memory unsafe.Pointer, length, capacity int) []byte {
	return unsafe.Slice((*byte)(memory), capacity)[:length]
}

// ByteSliceData returns a pointer to the backing array of the given slice.
func ByteSliceData(slice []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(slice))
}

// Use keeps the object pointed to by p reachable at the point of the call.
// It must be called after passing a pointer to a raw syscall, so that the
// garbage collector cannot reclaim the object before the call returns.
func Use(p unsafe.Pointer) {
	runtime.KeepAlive(p)
}
