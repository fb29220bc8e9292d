// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cs104

import (
	"errors"
)

// Constants defining default values and ranges for CS104 parameters.
const (
	// DefaultPort is the IEC 60870-5-104 TCP port.
	DefaultPort uint16 = 2404

	// Timer defaults, in seconds of the one-second tick.
	DefaultTimeoutStartDtAct  = 30 // t1: STARTDT-act retry
	DefaultTimeoutSupervisory = 10 // t2: supervisory acknowledge
	DefaultTimeoutTestfr      = 20 // t3: test frame probe

	TimeoutMin = 1
	TimeoutMax = 255

	// DefaultGIPeriod is the general interrogation cycle period.
	DefaultGIPeriod = 5*60 + 30
	// DefaultGIRetryPeriod re-arms the GI timer after an unanswered solicitation.
	DefaultGIRetryPeriod = 30
	// firstGIDelay schedules the first interrogation after STARTDT-con.
	firstGIDelay = 15

	// reconnectTickSpacing is the number of ticks between connect attempts
	// while disconnected.
	reconnectTickSpacing = 5

	// incompleteFrameWaitMs bounds the wait for the remainder of a
	// partially arrived frame.
	incompleteFrameWaitMs = 500
)

// Config defines an IEC 60870-5-104 controlling station configuration.
type Config struct {
	// SecondaryIP is the controlled station address; SecondaryIPBackup, when
	// not empty, is tried on every other connect attempt.
	SecondaryIP       string
	SecondaryIPBackup string
	// Port of the controlled station, default 2404.
	Port uint16

	// SecondaryAddr is the common address of ASDU of the controlled station.
	SecondaryAddr uint16
	// PrimaryAddr is the originator address of this station.
	PrimaryAddr uint8

	// GIPeriod is the general interrogation cycle in seconds;
	// GIRetryPeriod applies after an unanswered solicitation.
	GIPeriod      int
	GIRetryPeriod int

	// Timeouts in seconds: t1 STARTDT retry, t2 supervisory, t3 test frame.
	TimeoutStartDtAct  int
	TimeoutSupervisory int
	TimeoutTestfr      int
}

// Valid applies defaults and checks configuration validity.
func (sf *Config) Valid() error {
	if sf == nil {
		return errors.New("invalid nil config")
	}
	if sf.Port == 0 {
		sf.Port = DefaultPort
	}
	if sf.GIPeriod == 0 {
		sf.GIPeriod = DefaultGIPeriod
	} else if sf.GIPeriod < 0 {
		return errors.New("GI period must be positive")
	}
	if sf.GIRetryPeriod == 0 {
		sf.GIRetryPeriod = DefaultGIRetryPeriod
	} else if sf.GIRetryPeriod < 0 {
		return errors.New("GI retry period must be positive")
	}
	if sf.TimeoutStartDtAct == 0 {
		sf.TimeoutStartDtAct = DefaultTimeoutStartDtAct
	} else if sf.TimeoutStartDtAct < TimeoutMin || sf.TimeoutStartDtAct > TimeoutMax {
		return errors.New("timeout t1 out of range [1, 255]s")
	}
	if sf.TimeoutSupervisory == 0 {
		sf.TimeoutSupervisory = DefaultTimeoutSupervisory
	} else if sf.TimeoutSupervisory < TimeoutMin || sf.TimeoutSupervisory > TimeoutMax {
		return errors.New("timeout t2 out of range [1, 255]s")
	}
	if sf.TimeoutTestfr == 0 {
		sf.TimeoutTestfr = DefaultTimeoutTestfr
	} else if sf.TimeoutTestfr < TimeoutMin || sf.TimeoutTestfr > TimeoutMax {
		return errors.New("timeout t3 out of range [1, 255]s")
	}
	return nil
}

// DefaultConfig provides a default CS104 configuration.
// NOTE: SecondaryIP and SecondaryAddr must be set explicitly.
func DefaultConfig() Config {
	return Config{
		Port:               DefaultPort,
		GIPeriod:           DefaultGIPeriod,
		GIRetryPeriod:      DefaultGIRetryPeriod,
		TimeoutStartDtAct:  DefaultTimeoutStartDtAct,
		TimeoutSupervisory: DefaultTimeoutSupervisory,
		TimeoutTestfr:      DefaultTimeoutTestfr,
	}
}
