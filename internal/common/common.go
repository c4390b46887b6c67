// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package common

import (
	"os"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

const openOrCreateAttempts = 16

// OpenOrCreate resolves the create/open race for named objects.
// creator performs the actual OS call: with 'true' it must create the
// object exclusively, failing with an IsExist error if the name is taken;
// with 'false' it must open an existing object, failing with an IsNotExist
// error if the name is free. flag is a combination of open flags from the
// 'os' package:
//
//	os.O_CREATE            - open the object, creating it if needed.
//	os.O_CREATE|os.O_EXCL  - create the object, fail if the name is taken.
//	0                      - open an existing object.
//
// It returns true, if the object was created by this call.
func OpenOrCreate(creator func(create bool) error, flag int) (bool, error) {
	switch flag & (os.O_CREATE | os.O_EXCL) {
	case 0:
		return false, creator(false)
	case os.O_CREATE | os.O_EXCL:
		if err := creator(true); err != nil {
			return false, err
		}
		return true, nil
	case os.O_CREATE:
		// Another process can create or unlink the name between our two
		// attempts, so the create/open pair is retried with a backoff.
		var created bool
		op := func() error {
			if err := creator(true); !os.IsExist(err) {
				created = true
				if err != nil {
					return backoff.Permanent(err)
				}
				return nil
			}
			if err := creator(false); !os.IsNotExist(err) {
				created = false
				if err != nil {
					return backoff.Permanent(err)
				}
				return nil
			}
			return errors.New("the object was unlinked between create and open")
		}
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = time.Millisecond
		bo.MaxInterval = 100 * time.Millisecond
		if err := backoff.Retry(op, backoff.WithMaxRetries(bo, openOrCreateAttempts)); err != nil {
			return false, err
		}
		return created, nil
	default:
		return false, errors.Errorf("unknown open flag %#x", flag)
	}
}

// SyscallErrHasCode reports whether err is an os.SyscallError
// with the given errno.
func SyscallErrHasCode(err error, code syscall.Errno) bool {
	if sysErr, ok := err.(*os.SyscallError); ok {
		if errno, ok := sysErr.Err.(syscall.Errno); ok {
			return errno == code
		}
	}
	return false
}
