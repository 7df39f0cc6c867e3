//go:build windows

/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package impl

import "syscall"

// SyscallReuseAddr does nothing on Windows.
func SyscallReuseAddr(network string, address string, c syscall.RawConn) error {
	return nil
}

// SyscallSetReceiveBuffer does nothing on Windows.
func SyscallSetReceiveBuffer(c syscall.RawConn, size int) error {
	return nil
}
