// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sasm

import "github.com/pkg/errors"

// Errors common to both primitives. OS-level failures are returned
// wrapped around the original syscall error; these sentinels cover the
// argument and state checks performed before any OS call is made.
var (
	// ErrEmptyName is returned by Create when the object name is empty.
	ErrEmptyName = errors.New("object name must not be empty")

	// ErrZeroSize is returned by shm.Segment.Create when the requested
	// segment size is not positive.
	ErrZeroSize = errors.New("segment size must be positive")

	// ErrNotOpen is returned by operations which require a created object,
	// when the object has not been created yet, or has been closed.
	ErrNotOpen = errors.New("object is not open")
)
