// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cs104

import (
	"github.com/riclolsen/qtester104/asdu"
)

// Transport is the byte-stream contract the host supplies. The engine owns
// the transport for the duration of a session and never touches it between
// an observed disconnect and the next successful Connect.
//
// Read and Write report the number of bytes moved; zero means nothing was
// available (reads never block). WaitBytes blocks until at least n bytes are
// buffered or the timeout in milliseconds elapses, returning the number
// buffered. Implementations must deliver their ready-to-read notifications
// and the engine's method calls on a single goroutine.
type Transport interface {
	Connect(host string, port uint16) error
	Write(p []byte) int
	Read(p []byte) int
	WaitBytes(n, msTimeout int) int
	BytesAvailable() int
	Close()
}

// ClientHandlerInterface is the interface of the client (controlling
// station) upcall handler.
type ClientHandlerInterface interface {
	// DataIndication delivers decoded monitoring objects, one call per ASDU.
	DataIndication(objs []asdu.InfoObject)
	// CommandActRespIndication delivers an activation confirmation or
	// termination for a previously issued command or parameter.
	CommandActRespIndication(obj *asdu.InfoObject)
	// InterrogationActConfIndication signals the ACT-CON of a general
	// interrogation; the object counter has just been reset.
	InterrogationActConfIndication()
	// InterrogationActTermIndication signals the ACT-TERM of a general
	// interrogation with the number of objects received during the sweep.
	InterrogationActTermIndication(objectCount int)
	// ConnectIndication and DisconnectIndication follow the TCP session.
	ConnectIndication()
	DisconnectIndication()
}

// FrameRecorder receives every APDU moved on the wire, in both directions.
// The trace package provides a pcap-writing implementation.
type FrameRecorder interface {
	Record(apdu []byte, isSend bool) error
}
