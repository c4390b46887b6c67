// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

// Package sema implements named counting semaphores, which can be used
// for signaling between processes. The actual OS primitive is:
//
//	a SysV semaphore set on unix
//	a kernel semaphore object on windows
package sema

import (
	"runtime"
	"time"

	"github.com/pkg/errors"

	sasm "github.com/untyper/sasm-go"
)

// Infinite makes Wait block until a unit is available,
// no matter how long it takes.
const Infinite time.Duration = -1

// maxRelease is the release budget used to wake the remaining waiters
// when the semaphore is being closed.
const maxRelease = 1024

// Semaphore is a named counting semaphore. Any process which knows the
// name can wait on it and release it. The zero value is a valid,
// not-yet-created semaphore; call Create to attach it to an OS object.
// A Semaphore wraps a single OS handle and must not be copied.
type Semaphore struct {
	name   string
	object *semaObject
}

// New returns a semaphore created under the given name,
// as if by a call to Create.
func New(name string, initial int) (*Semaphore, error) {
	s := &Semaphore{}
	if err := s.Create(name, initial); err != nil {
		return nil, err
	}
	return s, nil
}

// Create opens the semaphore with the given name, creating the OS object
// if no process has created it yet. initial is the starting count; it is
// applied only when the object is actually created by this call, and is
// ignored when an existing object is reattached. If the semaphore is
// already open, it is closed first. On failure the semaphore is left in
// the not-created state and no OS resource is leaked.
// A finalizer is registered, so an abandoned semaphore is eventually
// closed; explicit Close is still the expected way to release it.
func (s *Semaphore) Create(name string, initial int) error {
	if len(name) == 0 {
		return sasm.ErrEmptyName
	}
	if s.object != nil {
		if err := s.Close(); err != nil {
			return errors.Wrap(err, "failed to close the previous object")
		}
	}
	object, err := newSemaObject(name, initial)
	if err != nil {
		return errors.Wrap(err, "failed to open/create semaphore")
	}
	s.name, s.object = name, object
	runtime.SetFinalizer(s, (*Semaphore).Close)
	return nil
}

// Wait blocks until the semaphore's count is greater than zero, consumes
// one unit and returns true. It returns false, if the semaphore has not
// been created, if timeout expires first, or on an OS error; those
// outcomes are deliberately not distinguished. A non-negative timeout
// bounds the wait; Infinite (or any negative value) blocks indefinitely.
// The deadline is tracked on the monotonic clock.
func (s *Semaphore) Wait(timeout time.Duration) bool {
	if s.object == nil {
		return false
	}
	return s.object.waitTimeout(timeout)
}

// TryWait consumes one unit if it can be done without blocking.
func (s *Semaphore) TryWait() bool {
	return s.Wait(0)
}

// Increment raises the semaphore's count by count, waking up to count
// blocked waiters. The release is performed with a single OS call on
// both platforms, so it either takes effect entirely or not at all.
func (s *Semaphore) Increment(count int) error {
	if s.object == nil {
		return sasm.ErrNotOpen
	}
	if count < 1 {
		return errors.Errorf("invalid release count %d", count)
	}
	return s.object.signal(count)
}

// Close releases the OS object and resets the semaphore to the
// not-created state, from which Create can be called again. Before the
// object is released, the count is raised by a large release budget, so
// that threads of other processes still blocked in Wait are woken
// instead of deadlocking on shutdown; such waiters report success.
// On unix the name is also removed from the system namespace, so a later
// Create starts fresh. Close is idempotent: closing a semaphore that is
// not open is a no-op.
func (s *Semaphore) Close() error {
	if s.object == nil {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	// Wake anyone still blocked in Wait. Best effort: the object may be
	// at its maximum count, or already removed by another process.
	s.object.signal(maxRelease)
	err := s.object.close()
	s.name, s.object = "", nil
	return err
}

// Name returns the name the semaphore was created under,
// or an empty string if the semaphore is not open.
func (s *Semaphore) Name() string {
	return s.name
}

// IsOpen reports whether the semaphore is attached to an OS object.
func (s *Semaphore) IsOpen() bool {
	return s.object != nil
}
