/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"time"

	"github.com/named-data/ndn-verifier/core"
)

// NDNUnicastUDPPort is the standard unicast UDP port for NDN.
const NDNUnicastUDPPort = 6363

// NDNUnixSocketFile is the standard Unix socket file for NDN.
const NDNUnixSocketFile = "/run/nfd.sock"

// DefaultFaceURI is the URI of the local forwarder socket.
const DefaultFaceURI = "unix://" + NDNUnixSocketFile

// faceQueueSize is the number of packets the receive buffer of a datagram socket should hold.
var faceQueueSize = 1024

// minInterestLifetime and maxInterestLifetime bound the lifetime of expressed Interests.
var minInterestLifetime = 10 * time.Millisecond
var maxInterestLifetime = 60 * time.Second

// FaceURI is the URI of the face used to reach the forwarder.
var FaceURI = DefaultFaceURI

// Configure configures the face system.
func Configure() {
	faceQueueSize = core.GetConfigIntDefault("faces.queue_size", 1024)
	maxInterestLifetime = time.Duration(core.GetConfigIntDefault("faces.interest_lifetime_ms", 60000)) * time.Millisecond
	FaceURI = core.GetConfigStringDefault("faces.uri", DefaultFaceURI)
}
