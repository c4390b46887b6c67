// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package common

import (
	"os"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestOpenOrCreateOpenOnly(t *testing.T) {
	a := assert.New(t)
	notExist := &os.PathError{Op: "open", Path: "x", Err: syscall.ENOENT}
	created, err := OpenOrCreate(func(create bool) error {
		a.False(create)
		return notExist
	}, 0)
	a.False(created)
	a.Equal(notExist, err)
}

func TestOpenOrCreateCreateOnly(t *testing.T) {
	a := assert.New(t)
	calls := 0
	created, err := OpenOrCreate(func(create bool) error {
		a.True(create)
		calls++
		return nil
	}, os.O_CREATE|os.O_EXCL)
	a.True(created)
	a.NoError(err)
	a.Equal(1, calls)

	exist := &os.PathError{Op: "open", Path: "x", Err: syscall.EEXIST}
	created, err = OpenOrCreate(func(create bool) error {
		return exist
	}, os.O_CREATE|os.O_EXCL)
	a.False(created)
	a.Equal(exist, err)
}

func TestOpenOrCreateFallsBackToOpen(t *testing.T) {
	a := assert.New(t)
	created, err := OpenOrCreate(func(create bool) error {
		if create {
			return &os.PathError{Op: "open", Path: "x", Err: syscall.EEXIST}
		}
		return nil
	}, os.O_CREATE)
	a.False(created)
	a.NoError(err)
}

func TestOpenOrCreateRetriesRace(t *testing.T) {
	a := assert.New(t)
	attempt := 0
	created, err := OpenOrCreate(func(create bool) error {
		if create {
			attempt++
			if attempt > 2 {
				return nil
			}
			return &os.PathError{Op: "open", Path: "x", Err: syscall.EEXIST}
		}
		// the object disappears before every open attempt.
		return &os.PathError{Op: "open", Path: "x", Err: syscall.ENOENT}
	}, os.O_CREATE)
	a.True(created)
	a.NoError(err)
	a.Equal(3, attempt)
}

func TestOpenOrCreatePermanentFailure(t *testing.T) {
	a := assert.New(t)
	denied := &os.PathError{Op: "open", Path: "x", Err: syscall.EACCES}
	calls := 0
	_, err := OpenOrCreate(func(create bool) error {
		calls++
		return denied
	}, os.O_CREATE)
	a.Error(err)
	a.Equal(1, calls)
}

func TestOpenOrCreateUnknownFlag(t *testing.T) {
	a := assert.New(t)
	_, err := OpenOrCreate(func(create bool) error { return nil }, os.O_EXCL)
	a.Error(err)
}

func TestSyscallErrHasCode(t *testing.T) {
	a := assert.New(t)
	a.True(SyscallErrHasCode(os.NewSyscallError("OP", syscall.EINTR), syscall.EINTR))
	a.False(SyscallErrHasCode(os.NewSyscallError("OP", syscall.EINTR), syscall.EAGAIN))
	a.False(SyscallErrHasCode(errors.New("EINTR"), syscall.EINTR))
	a.False(SyscallErrHasCode(nil, syscall.EINTR))
}
