// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

// Package sasm provides named, cross-process coordination primitives:
//
//	sema - named counting semaphores (unix, windows)
//	shm  - named shared memory segments (unix, windows)
//
// Both primitives rendezvous by a caller-supplied name in a system-global
// namespace. Collisions with unrelated applications using the same name are
// possible and are the intended rendezvous mechanism, so callers should
// choose sufficiently unique names, e.g. with an application-specific
// prefix. Platform naming conventions (such as a leading separator on some
// systems) are applied internally, so a single naming convention works
// everywhere.
//
// Persistence differs between the two platform families. On unix both
// objects live in a persistent namespace: they survive process exit and
// keep existing until some process closes them, or until reboot. On
// windows the kernel destroys an object once its last open handle closes,
// system-wide, with no explicit unlink step.
//
// Neither primitive protects the contents of a shared memory segment.
// The usual composition is external: create a segment and a semaphore
// under related names and use the semaphore to gate access to the
// segment's bytes.
//
// A Semaphore or Segment value wraps a single OS handle and must not be
// copied; pass pointers instead. Instances are not internally synchronized,
// so concurrent calls on the same instance from several goroutines must be
// serialized by the caller. The underlying OS objects, in contrast, are
// safe to share between processes - that is the feature.
package sasm
