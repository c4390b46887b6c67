// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sema

import "time"

// this is to ensure, that all platform implementations of the semaphore
// backend satisfy the same minimal interface.
var _ iSemaObject = (*semaObject)(nil)

type iSemaObject interface {
	waitTimeout(timeout time.Duration) bool
	signal(count int) error
	close() error
}
