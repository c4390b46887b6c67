// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

//go:build linux || darwin

package sema

import (
	"os"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/untyper/sasm-go/internal/common"
)

// semaObject is a SysV semaphore set with a single semaphore in it.
// The set is identified by a key derived from the object name. SysV
// objects live in a persistent system namespace: the set stays alive
// after the creating process exits, until close removes it.
type semaObject struct {
	name string
	id   int
}

func newSemaObject(name string, initial int) (*semaObject, error) {
	k, err := common.KeyForName(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate a key for the name")
	}
	var id int
	creator := func(create bool) error {
		flags := 0666
		if create {
			flags |= common.IpcCreate | common.IpcExcl
		}
		var creatorErr error
		id, creatorErr = semget(k, 1, flags)
		return creatorErr
	}
	created, err := common.OpenOrCreate(creator, os.O_CREATE)
	if err != nil {
		return nil, errors.Wrap(err, "semget failed")
	}
	result := &semaObject{name: name, id: id}
	if created && initial > 0 {
		if err = result.signal(initial); err != nil {
			result.close()
			return nil, errors.Wrap(err, "failed to add initial semaphore value")
		}
	}
	return result, nil
}

func (obj *semaObject) waitTimeout(timeout time.Duration) bool {
	if timeout < 0 {
		err := common.UninterruptedSyscall(func() error {
			return semAdd(obj.id, -1, 0)
		})
		return err == nil
	}
	return obj.timedWait(timeout)
}

func (obj *semaObject) signal(count int) error {
	return common.UninterruptedSyscall(func() error {
		return semAdd(obj.id, count, 0)
	})
}

// close removes the semaphore set and its key file from the system,
// so that a later create under the same name starts fresh. Mutual
// teardown is tolerated: a set already removed by another process
// counts as closed.
func (obj *semaObject) close() error {
	err := semctl(obj.id, 0, common.IpcRmid)
	if err != nil && !isGoneErr(err) {
		return errors.Wrap(err, "semctl(IPC_RMID) failed")
	}
	if err = os.Remove(common.TmpFilename(obj.name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove the key file")
	}
	return nil
}

// isGoneErr reports whether err means the semaphore set no longer exists.
func isGoneErr(err error) bool {
	return common.SyscallErrHasCode(err, syscall.EINVAL) ||
		common.SyscallErrHasCode(err, syscall.EIDRM) ||
		os.IsNotExist(err)
}

func semAdd(id, value int, flags int16) error {
	b := sembuf{semnum: 0, semop: int16(value), semflg: flags}
	return semop(id, []sembuf{b})
}
