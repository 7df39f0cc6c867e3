//go:build !windows

/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package impl holds the platform-specific socket options used by face transports.
package impl

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// SyscallReuseAddr sets SO_REUSEADDR. It is used as the Control function of a net.Dialer or net.ListenConfig.
func SyscallReuseAddr(network string, address string, c syscall.RawConn) error {
	var err error
	ctrlErr := c.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return err
}

// SyscallSetReceiveBuffer sets SO_RCVBUF to the specified size.
func SyscallSetReceiveBuffer(c syscall.RawConn, size int) error {
	var err error
	ctrlErr := c.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, size)
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return err
}
