// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

const (
	dialTimeout  = 5 * time.Second
	waitPollStep = 8 * time.Millisecond
)

// tcpTransport adapts a TCP (optionally TLS wrapped) connection to the
// cs104.Transport contract. A reader goroutine drains the socket into an
// internal buffer and signals the session loop; the engine itself only ever
// sees buffered bytes, so its reads never block.
type tcpTransport struct {
	mu   sync.Mutex
	conn net.Conn
	buf  []byte
	gen  int // connection generation, detaches stale readers

	tlsConfig *tls.Config

	// Ready is signalled when received bytes are available, Lost when the
	// connection drops. Both carry at most one pending notification.
	Ready chan struct{}
	Lost  chan struct{}
}

func newTCPTransport(cfg *RTUConfig) (*tcpTransport, error) {
	t := &tcpTransport{
		Ready: make(chan struct{}, 1),
		Lost:  make(chan struct{}, 1),
	}
	if cfg.CertFile == "" && cfg.CACertFile == "" && !cfg.Insecure {
		return t, nil
	}
	tc := &tls.Config{InsecureSkipVerify: cfg.Insecure}
	if cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load certificate: %w", err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	if cfg.CACertFile != "" {
		pem, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("load ca certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in %s", cfg.CACertFile)
		}
		tc.RootCAs = pool
	}
	t.tlsConfig = tc
	return t, nil
}

func (sf *tcpTransport) Connect(host string, port uint16) error {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	d := net.Dialer{Timeout: dialTimeout}
	var conn net.Conn
	var err error
	if sf.tlsConfig != nil {
		conn, err = tls.DialWithDialer(&d, "tcp", addr, sf.tlsConfig)
	} else {
		conn, err = d.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}

	sf.mu.Lock()
	sf.conn = conn
	sf.buf = sf.buf[:0]
	sf.gen++
	gen := sf.gen
	sf.mu.Unlock()

	go sf.readLoop(conn, gen)
	return nil
}

// readLoop drains the socket until it fails or a newer connection replaces it.
func (sf *tcpTransport) readLoop(conn net.Conn, gen int) {
	chunk := make([]byte, 4096)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			sf.mu.Lock()
			if sf.gen == gen {
				sf.buf = append(sf.buf, chunk[:n]...)
			}
			sf.mu.Unlock()
			notifyChan(sf.Ready)
		}
		if err != nil {
			sf.mu.Lock()
			stale := sf.gen != gen
			if !stale {
				sf.conn = nil
			}
			sf.mu.Unlock()
			if !stale {
				notifyChan(sf.Lost)
			}
			return
		}
	}
}

func (sf *tcpTransport) Read(p []byte) int {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	n := copy(p, sf.buf)
	sf.buf = sf.buf[n:]
	return n
}

func (sf *tcpTransport) Write(p []byte) int {
	sf.mu.Lock()
	conn := sf.conn
	sf.mu.Unlock()
	if conn == nil {
		return 0
	}
	n, err := conn.Write(p)
	if err != nil {
		return 0
	}
	return n
}

func (sf *tcpTransport) WaitBytes(n, msTimeout int) int {
	deadline := time.Now().Add(time.Duration(msTimeout) * time.Millisecond)
	for {
		sf.mu.Lock()
		avail := len(sf.buf)
		sf.mu.Unlock()
		if avail >= n || time.Now().After(deadline) {
			return avail
		}
		time.Sleep(waitPollStep)
	}
}

func (sf *tcpTransport) BytesAvailable() int {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return len(sf.buf)
}

func (sf *tcpTransport) Close() {
	sf.mu.Lock()
	conn := sf.conn
	sf.conn = nil
	sf.gen++
	sf.buf = sf.buf[:0]
	sf.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func notifyChan(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
