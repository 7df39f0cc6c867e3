/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package security

import "strconv"

// SignatureType represents the type of a signature.
type SignatureType uint64

// The various possible values of SignatureType.
const (
	DigestSha256Type             SignatureType = 0
	SignatureSha256WithRsaType   SignatureType = 1
	reservedSignatureType        SignatureType = 2
	SignatureSha256WithEcdsaType SignatureType = 3
	SignatureHmacWithSha256Type  SignatureType = 4
)

// IsKnown returns whether the type lies in the numeric range this stack recognizes.
func (t SignatureType) IsKnown() bool {
	return t <= SignatureHmacWithSha256Type
}

// IsSupported returns whether signatures of this type can be verified.
// RSA and the reserved code are known but not supported.
func (t SignatureType) IsSupported() bool {
	switch t {
	case DigestSha256Type, SignatureSha256WithEcdsaType, SignatureHmacWithSha256Type:
		return true
	}
	return false
}

// RequiresKey returns whether verifying this type needs a key named by a KeyLocator.
func (t SignatureType) RequiresKey() bool {
	return t != DigestSha256Type
}

func (t SignatureType) String() string {
	switch t {
	case DigestSha256Type:
		return "DigestSha256"
	case SignatureSha256WithRsaType:
		return "SignatureSha256WithRsa"
	case reservedSignatureType:
		return "Reserved"
	case SignatureSha256WithEcdsaType:
		return "SignatureSha256WithEcdsa"
	case SignatureHmacWithSha256Type:
		return "SignatureHmacWithSha256"
	}
	return "Unknown(" + strconv.FormatUint(uint64(t), 10) + ")"
}
