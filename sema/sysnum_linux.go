// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sema

import "golang.org/x/sys/unix"

const (
	sysSemGet = unix.SYS_SEMGET
	sysSemCtl = unix.SYS_SEMCTL
	sysSemOp  = unix.SYS_SEMOP
)
