/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import "strconv"

// Range is a half-open byte range [Start, End) within a raw packet buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Of returns the bytes of raw covered by the range, or false if the range does not fit in raw.
func (r Range) Of(raw []byte) ([]byte, bool) {
	if r.Start < 0 || r.End < r.Start || r.End > len(raw) {
		return nil, false
	}
	return raw[r.Start:r.End], true
}

func (r Range) String() string {
	return "[" + strconv.Itoa(r.Start) + "," + strconv.Itoa(r.End) + ")"
}
