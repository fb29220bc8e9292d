// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package clog provides the prefix logger shared by the protocol packages.
package clog

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// LogProvider is the minimal logging surface a protocol engine needs.
type LogProvider interface {
	Critical(format string, v ...interface{})
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Clog is a leveled prefix logger. The zero value is silent; obtain a working
// instance with NewLogger. It may be embedded so the owner gains the log methods.
type Clog struct {
	provider LogProvider
	// has log output enabled, 1: enable, 0: disable
	hasLog uint32
}

// NewLogger returns a Clog writing to stderr with the given prefix.
// Logging starts disabled; call LogMode(true) to enable it.
func NewLogger(prefix string) Clog {
	return Clog{
		provider: defaultProvider{logger: log.New(os.Stderr, prefix, log.LstdFlags)},
		hasLog:   0,
	}
}

// LogMode enables or disables log output.
func (sf *Clog) LogMode(enable bool) {
	if enable {
		atomic.StoreUint32(&sf.hasLog, 1)
	} else {
		atomic.StoreUint32(&sf.hasLog, 0)
	}
}

// IsLogging reports whether log output is currently enabled.
func (sf *Clog) IsLogging() bool {
	return atomic.LoadUint32(&sf.hasLog) == 1
}

// SetLogProvider replaces the underlying provider. A nil provider is ignored.
func (sf *Clog) SetLogProvider(p LogProvider) {
	if p != nil {
		sf.provider = p
	}
}

// Critical logs a critical-level message.
func (sf *Clog) Critical(format string, v ...interface{}) {
	if sf.IsLogging() && sf.provider != nil {
		sf.provider.Critical(format, v...)
	}
}

// Error logs an error-level message.
func (sf *Clog) Error(format string, v ...interface{}) {
	if sf.IsLogging() && sf.provider != nil {
		sf.provider.Error(format, v...)
	}
}

// Warn logs a warning-level message.
func (sf *Clog) Warn(format string, v ...interface{}) {
	if sf.IsLogging() && sf.provider != nil {
		sf.provider.Warn(format, v...)
	}
}

// Debug logs a debug-level message.
func (sf *Clog) Debug(format string, v ...interface{}) {
	if sf.IsLogging() && sf.provider != nil {
		sf.provider.Debug(format, v...)
	}
}

// HexDump renders a frame the way the tester logs traffic:
// "T<-- 016: 68 0e 00 00 ..." for sent frames, "R--> ..." for received ones.
// Frames longer than 100 bytes are truncated with an ellipsis.
func HexDump(data []byte, isSend bool) string {
	var b strings.Builder
	if isSend {
		fmt.Fprintf(&b, "T<-- %03d: ", len(data))
	} else {
		fmt.Fprintf(&b, "R--> %03d: ", len(data))
	}
	const lim = 100
	for i, c := range data {
		if i >= lim {
			b.WriteString("...")
			break
		}
		fmt.Fprintf(&b, "%02x ", c)
	}
	return strings.TrimRight(b.String(), " ")
}

type defaultProvider struct {
	logger *log.Logger
}

func (sf defaultProvider) Critical(format string, v ...interface{}) { sf.println("[C]", format, v...) }
func (sf defaultProvider) Error(format string, v ...interface{})    { sf.println("[E]", format, v...) }
func (sf defaultProvider) Warn(format string, v ...interface{})     { sf.println("[W]", format, v...) }
func (sf defaultProvider) Debug(format string, v ...interface{})    { sf.println("[D]", format, v...) }

func (sf defaultProvider) println(level, format string, v ...interface{}) {
	sf.logger.Output(2, fmt.Sprintf(level+" "+format, v...))
}
