// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sema

import "syscall"

// golang.org/x/sys/unix dropped raw syscall numbers on darwin, but the
// frozen stdlib syscall package still carries them.
const (
	sysSemGet = syscall.SYS_SEMGET
	sysSemCtl = syscall.SYS_SEMCTL
	sysSemOp  = syscall.SYS_SEMOP
)
