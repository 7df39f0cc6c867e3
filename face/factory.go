/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

// MakeTransport creates the transport for a face URI.
func MakeTransport(uri string) (Transport, error) {
	remoteURI, err := DecodeURIString(uri)
	if err != nil {
		return nil, err
	}

	var t Transport
	switch remoteURI.Scheme() {
	case "null":
		t = MakeNullTransport()
	case "unix":
		t, err = asTransport(MakeUnixStreamTransport(remoteURI))
	case "udp", "udp4", "udp6":
		t, err = asTransport(MakeUnicastUDPTransport(remoteURI))
	case "ws", "wss":
		t, err = asTransport(MakeWebSocketTransport(remoteURI))
	default:
		return nil, ErrUnsupportedScheme
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func asTransport[T Transport](t T, err error) (Transport, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}
