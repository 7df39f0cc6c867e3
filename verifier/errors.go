/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package verifier

import "errors"

// Reasons a verification fails. They only reach the log; callers see the failure continuation.
var (
	ErrFormat           = errors.New("malformed packet")
	ErrUnsupportedType  = errors.New("unsupported signature type")
	ErrNoKeyLocator     = errors.New("signature has no KeyLocator name")
	ErrKeyMissing       = errors.New("key not found")
	ErrBadSignature     = errors.New("signature mismatch")
	ErrFetchTimeout     = errors.New("certificate fetch timed out")
	ErrCertInvalid      = errors.New("invalid certificate")
	ErrScratchExhausted = errors.New("no scratch block available")
	ErrExpressFailed    = errors.New("unable to express certificate Interest")
	ErrReplay           = errors.New("signed Interest is stale or replayed")
)
