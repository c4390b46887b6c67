// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sema

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/untyper/sasm-go/internal/common"
)

const (
	pollInitialInterval = 100 * time.Microsecond
	pollMaxInterval     = 5 * time.Millisecond
)

// timedWait performs a bounded wait. Darwin has no semtimedop, so the
// semaphore is polled with IPC_NOWAIT under an exponential backoff until
// a unit is consumed or the timeout elapses.
func (obj *semaObject) timedWait(timeout time.Duration) bool {
	tryWait := func() error {
		return common.UninterruptedSyscall(func() error {
			return semAdd(obj.id, -1, int16(common.IpcNoWait))
		})
	}
	if timeout == 0 {
		return tryWait() == nil
	}
	op := func() error {
		err := tryWait()
		if err != nil && !common.IsTemporarilyUnavailableErr(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = pollInitialInterval
	bo.MaxInterval = pollMaxInterval
	bo.MaxElapsedTime = timeout
	return backoff.Retry(op, bo) == nil
}
