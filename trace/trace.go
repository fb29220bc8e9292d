// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package trace records protocol traffic to pcap files. Each APDU is
// wrapped in a synthetic Ethernet/IPv4/TCP frame carrying the configured
// server port, so a capture opens directly in Wireshark with its IEC-104
// dissector applied.
package trace

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// synthetic endpoints of the recorded session
var (
	masterMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	slaveMAC  = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
	masterIP  = net.IP{10, 0, 0, 1}
	slaveIP   = net.IP{10, 0, 0, 2}
)

const masterPort = 40404

// Recorder appends wire frames to a pcap file. It is safe for use from a
// single engine goroutine per session; the mutex only guards the shared
// file when several sessions record into one capture.
type Recorder struct {
	mu        sync.Mutex
	f         *os.File
	w         *pcapgo.Writer
	port      uint16
	masterSeq uint32
	slaveSeq  uint32
}

// NewRecorder creates the capture file. port is the server port stamped on
// the synthetic TCP headers; zero selects 2404.
func NewRecorder(path string, port uint16) (*Recorder, error) {
	if port == 0 {
		port = 2404
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		f.Close()
		return nil, err
	}
	return &Recorder{f: f, w: w, port: port, masterSeq: 1000, slaveSeq: 2000}, nil
}

// Record appends one APDU. isSend selects the master-to-slave direction.
func (sf *Recorder) Record(apdu []byte, isSend bool) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	eth := &layers.Ethernet{
		SrcMAC:       masterMAC,
		DstMAC:       slaveMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    masterIP,
		DstIP:    slaveIP,
	}
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(masterPort),
		DstPort: layers.TCPPort(sf.port),
		Seq:     sf.masterSeq,
		Ack:     sf.slaveSeq,
		PSH:     true,
		ACK:     true,
		Window:  65535,
	}
	if isSend {
		sf.masterSeq += uint32(len(apdu))
	} else {
		eth.SrcMAC, eth.DstMAC = slaveMAC, masterMAC
		ip.SrcIP, ip.DstIP = slaveIP, masterIP
		tcp.SrcPort, tcp.DstPort = layers.TCPPort(sf.port), layers.TCPPort(masterPort)
		tcp.Seq, tcp.Ack = sf.slaveSeq, sf.masterSeq
		sf.slaveSeq += uint32(len(apdu))
	}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		return err
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload(apdu)); err != nil {
		return err
	}
	data := buf.Bytes()
	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(data),
		Length:        len(data),
	}
	return sf.w.WritePacket(ci, data)
}

// Close flushes and closes the capture file.
func (sf *Recorder) Close() error {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.f.Close()
}
