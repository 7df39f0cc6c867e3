/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"net"
	"net/url"
	"strconv"

	"github.com/named-data/ndn-verifier/core"
)

// ErrUnsupportedScheme is returned for face URIs that no transport can serve.
var ErrUnsupportedScheme = errors.New("unsupported face URI scheme")

// URI represents a URI for a face
type URI struct {
	scheme string
	host   string
	port   uint16
	path   string
}

// MakeNullFaceURI constructs a null face URI.
func MakeNullFaceURI() *URI {
	return &URI{scheme: "null"}
}

// MakeUDPFaceURI constructs a URI for a UDP face.
func MakeUDPFaceURI(ipVersion int, host string, port uint16) *URI {
	return &URI{scheme: "udp" + strconv.Itoa(ipVersion), host: host, port: port}
}

// MakeUnixFaceURI constructs a URI for a Unix stream face.
func MakeUnixFaceURI(path string) *URI {
	return &URI{scheme: "unix", path: path}
}

// DecodeURIString decodes a face URI.
func DecodeURIString(str string) (*URI, error) {
	u, err := url.Parse(str)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "null":
		return MakeNullFaceURI(), nil
	case "unix":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" {
			return nil, errors.New("unix face URI has no path")
		}
		return MakeUnixFaceURI(path), nil
	case "udp", "udp4", "udp6":
		if u.Hostname() == "" {
			return nil, errors.New("UDP face URI has no host")
		}
		port := uint64(NDNUnicastUDPPort)
		if u.Port() != "" {
			if port, err = strconv.ParseUint(u.Port(), 10, 16); err != nil {
				return nil, errors.New("invalid port in UDP face URI")
			}
		}
		return &URI{scheme: u.Scheme, host: u.Hostname(), port: uint16(port)}, nil
	case "ws", "wss":
		if u.Host == "" {
			return nil, errors.New("WebSocket face URI has no host")
		}
		port := uint64(0)
		if u.Port() != "" {
			if port, err = strconv.ParseUint(u.Port(), 10, 16); err != nil {
				return nil, errors.New("invalid port in WebSocket face URI")
			}
		}
		return &URI{scheme: u.Scheme, host: u.Hostname(), port: uint16(port), path: u.RequestURI()}, nil
	}
	return nil, ErrUnsupportedScheme
}

// Scheme returns the scheme of the face URI.
func (u *URI) Scheme() string {
	return u.scheme
}

// Path returns the path of the face URI (Unix) or its request URI (WebSocket).
func (u *URI) Path() string {
	return u.path
}

// PathHost returns the host of the face URI.
func (u *URI) PathHost() string {
	return u.host
}

// Port returns the port of the face URI, or 0 if none.
func (u *URI) Port() uint16 {
	return u.port
}

// IsCanonical returns whether the face URI can be used without resolution.
func (u *URI) IsCanonical() bool {
	switch u.scheme {
	case "null", "unix", "ws", "wss":
		return true
	case "udp4":
		ip := net.ParseIP(u.host)
		return ip != nil && ip.To4() != nil && u.port > 0
	case "udp6":
		ip := net.ParseIP(u.host)
		return ip != nil && ip.To4() == nil && u.port > 0
	}
	return false
}

// Canonize resolves the host of a UDP face URI into an IP address of the matching family.
func (u *URI) Canonize() error {
	if u.IsCanonical() {
		return nil
	}

	network := "ip"
	switch u.scheme {
	case "udp4":
		network = "ip4"
	case "udp6":
		network = "ip6"
	case "udp":
	default:
		return core.ErrNotCanonical
	}
	addr, err := net.ResolveIPAddr(network, u.host)
	if err != nil {
		return err
	}
	u.host = addr.IP.String()
	if addr.IP.To4() != nil {
		u.scheme = "udp4"
	} else {
		u.scheme = "udp6"
	}
	return nil
}

func (u *URI) String() string {
	switch u.scheme {
	case "null":
		return "null://"
	case "unix":
		return "unix://" + u.path
	case "udp", "udp4", "udp6":
		return u.scheme + "://" + net.JoinHostPort(u.host, strconv.FormatUint(uint64(u.port), 10))
	case "ws", "wss":
		host := u.host
		if u.port != 0 {
			host = net.JoinHostPort(u.host, strconv.FormatUint(uint64(u.port), 10))
		} else if net.ParseIP(host) != nil && net.ParseIP(host).To4() == nil {
			host = "[" + host + "]"
		}
		return u.scheme + "://" + host + u.path
	}
	return "unknown://"
}
