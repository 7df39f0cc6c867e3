/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import "errors"

// ErrDecode matches every error returned while decoding a malformed packet.
var ErrDecode = errors.New("malformed packet")

// DecodeError reports which element of a packet could not be decoded.
type DecodeError struct {
	Element string
	Err     error
}

func (e *DecodeError) Error() string {
	return "error decoding " + e.Element + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes every DecodeError match ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func decodeErr(element string, err error) error {
	return &DecodeError{Element: element, Err: err}
}
