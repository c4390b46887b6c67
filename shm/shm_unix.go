// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

//go:build linux || darwin

package shm

import (
	"os"

	"github.com/pkg/errors"

	"github.com/untyper/sasm-go/internal/common"
)

// memoryObject is a file in the POSIX shared memory namespace.
// The namespace is persistent: the object outlives the creating process
// and keeps existing until some process unlinks it.
type memoryObject struct {
	file *os.File
}

// newMemoryObjectSize opens or creates a shared memory object under the
// given name and sizes it to exactly size bytes. It returns the object
// and a flag telling whether the object was created by this call. If the
// object cannot be sized, everything acquired so far is released before
// returning, including the name if this call created it.
func newMemoryObjectSize(name string, size int64) (*memoryObject, bool, error) {
	path, err := shmName(name)
	if err != nil {
		return nil, false, err
	}
	var file *os.File
	creator := func(create bool) error {
		flag := os.O_RDWR
		if create {
			flag |= os.O_CREATE | os.O_EXCL
		}
		var creatorErr error
		file, creatorErr = shmOpen(path, flag, 0666)
		return creatorErr
	}
	created, err := common.OpenOrCreate(creator, os.O_CREATE)
	if err != nil {
		return nil, false, err
	}
	obj := &memoryObject{file: file}
	// An existing object of the right length is left as is: some systems
	// allow a shm object to be truncated only once after its creation.
	if created || obj.size() != size {
		if err = obj.file.Truncate(size); err != nil {
			obj.close()
			if created {
				obj.unlink()
			}
			return nil, false, errors.Wrap(err, "failed to size the object")
		}
	}
	return obj, created, nil
}

func (obj *memoryObject) name() string {
	return obj.file.Name()
}

func (obj *memoryObject) size() int64 {
	fileInfo, err := obj.file.Stat()
	if err != nil {
		return 0
	}
	return fileInfo.Size()
}

func (obj *memoryObject) fd() uintptr {
	return obj.file.Fd()
}

func (obj *memoryObject) close() error {
	return obj.file.Close()
}

// unlink removes the object's name from the shared memory namespace.
// Mappings and descriptors already held stay valid until released by
// their owners. A name already removed by another process counts as
// unlinked.
func (obj *memoryObject) unlink() error {
	return doUnlinkMemoryObject(obj.file.Name())
}
