// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package shm

// this is to ensure, that all platform implementations of the shm
// backends satisfy the same minimal interfaces.
var (
	_ iMemoryObject = (*memoryObject)(nil)
	_ iMappedRegion = (*mappedRegion)(nil)
)

type iMemoryObject interface {
	name() string
	fd() uintptr
	close() error
	unlink() error
}

type iMappedRegion interface {
	bytes() []byte
	addr() uintptr
	flush(async bool) error
	close() error
}
