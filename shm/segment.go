// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

// Package shm implements named shared memory segments: fixed-size memory
// regions backed by an OS object, which several processes can map into
// their own address spaces to read and write the same bytes. The actual
// OS object is:
//
//	a file in the POSIX shared memory namespace on unix
//	a paging-file-backed file mapping on windows
//
// The package gives the mapped bytes no mutual exclusion protection;
// callers are expected to pair a segment with a semaphore, or another
// mechanism of their choice.
package shm

import (
	"runtime"

	"github.com/pkg/errors"

	sasm "github.com/untyper/sasm-go"
)

// Segment is a named shared memory segment, mapped read-write into the
// address space of the calling process for its whole lifetime. The zero
// value is a valid, not-yet-created segment; call Create to attach it to
// an OS object. A Segment wraps a single OS handle and must not be copied.
type Segment struct {
	name   string
	size   int
	object *memoryObject
	region *mappedRegion
}

// New returns a segment created under the given name,
// as if by a call to Create.
func New(name string, size int) (*Segment, error) {
	s := &Segment{}
	if err := s.Create(name, size); err != nil {
		return nil, err
	}
	return s, nil
}

// Create opens the shared memory object with the given name, creating it
// if no process has created it yet, sizes it to exactly size bytes and
// maps it into the address space. The size is fixed: mapping an existing
// object under a different size requires a full close/create cycle under
// a new name. If the segment is already open, it is closed first.
// On failure everything acquired so far is released; in particular a
// freshly created object is removed again, so a failed Create leaves
// no kernel object behind. A finalizer is registered, so an abandoned
// segment is eventually closed; explicit Close is still the expected
// way to release it.
func (s *Segment) Create(name string, size int) error {
	if len(name) == 0 {
		return sasm.ErrEmptyName
	}
	if size <= 0 {
		return sasm.ErrZeroSize
	}
	if s.object != nil {
		if err := s.Close(); err != nil {
			return errors.Wrap(err, "failed to close the previous object")
		}
	}
	object, created, err := newMemoryObjectSize(name, int64(size))
	if err != nil {
		return errors.Wrap(err, "failed to open/create shm object")
	}
	region, err := newMappedRegion(object, size)
	if err != nil {
		// The object is useless without a mapping.
		object.close()
		if created {
			object.unlink()
		}
		return errors.Wrap(err, "failed to map shm object")
	}
	s.name, s.size, s.object, s.region = name, size, object, region
	runtime.SetFinalizer(s, (*Segment).Close)
	return nil
}

// Close unmaps the segment from the address space, releases the OS
// object and resets the segment to the not-created state, from which
// Create can be called again. On unix the name is also removed from the
// system namespace; mappings held by other processes stay valid until
// those processes unmap. Close is idempotent: closing a segment that is
// not open is a no-op.
func (s *Segment) Close() error {
	if s.object == nil {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	var result error
	if s.region != nil {
		result = s.region.close()
		s.region = nil
	}
	if err := s.object.close(); err != nil && result == nil {
		result = err
	}
	if err := s.object.unlink(); err != nil && result == nil {
		result = err
	}
	s.name, s.size, s.object = "", 0, nil
	return result
}

// Name returns the name the segment was created under,
// or an empty string if the segment is not open.
func (s *Segment) Name() string {
	return s.name
}

// Size returns the segment length in bytes, or 0 if the segment is not open.
func (s *Segment) Size() int {
	return s.size
}

// Bytes returns the mapped region as a byte slice of length Size().
// It returns nil, if the segment is not open. The slice stays valid
// until Close; writes through it are visible to every process which
// has the same named segment mapped.
func (s *Segment) Bytes() []byte {
	if s.region == nil {
		return nil
	}
	return s.region.bytes()
}

// Addr returns the address the region is mapped at,
// or 0 if the segment is not open.
func (s *Segment) Addr() uintptr {
	if s.region == nil {
		return 0
	}
	return s.region.addr()
}

// Fd returns the native handle of the underlying OS object: a file
// descriptor on unix, a file mapping handle on windows. It returns
// ^uintptr(0), if the segment is not open.
func (s *Segment) Fd() uintptr {
	if s.object == nil {
		return ^uintptr(0)
	}
	return s.object.fd()
}

// Flush synchronizes the mapped region with the backing object.
// If async is true, the call returns without waiting for the writeback
// to finish.
func (s *Segment) Flush(async bool) error {
	if s.region == nil {
		return sasm.ErrNotOpen
	}
	return s.region.flush(async)
}
