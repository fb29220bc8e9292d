// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cs104

// ClientOption client (controlling station) configuration options
type ClientOption struct {
	config ClientConfig
}

// ClientConfig is the resolved option set of a client.
type ClientConfig struct {
	Config

	// MsgSupervisory batches acknowledgements on the t2 timer; when false an
	// S frame answers every received I frame immediately.
	MsgSupervisory bool
	// SeqOrderCheck makes a receive sequence mismatch fatal (closes the TCP
	// connection); when false the mismatch is logged and the receive counter
	// adopts the peer's value.
	SeqOrderCheck bool
	// InitialSeqTolerance accepts an initial I frame carrying send number 1,
	// as some non-conformant controlled stations transmit after start.
	InitialSeqTolerance bool
	// AutoReconnect drives the 5-tick reconnect cycle while disconnected.
	AutoReconnect bool
}

// NewOption creates a new ClientOption with the default CS104 config,
// supervisory batching, strict sequence checking and auto reconnection.
func NewOption() *ClientOption {
	return &ClientOption{
		config: ClientConfig{
			Config:              DefaultConfig(),
			MsgSupervisory:      true,
			SeqOrderCheck:       true,
			InitialSeqTolerance: true,
			AutoReconnect:       true,
		},
	}
}

// SetConfig sets the main CS104 configuration. Uses DefaultConfig() if the
// provided cfg is invalid.
func (sf *ClientOption) SetConfig(cfg Config) *ClientOption {
	if err := cfg.Valid(); err != nil {
		sf.config.Config = DefaultConfig()
	} else {
		sf.config.Config = cfg
	}
	return sf
}

// SetMsgSupervisory enables or disables supervisory batching on t2.
func (sf *ClientOption) SetMsgSupervisory(b bool) *ClientOption {
	sf.config.MsgSupervisory = b
	return sf
}

// SetSeqOrderCheck selects whether a sequence mismatch closes the connection.
func (sf *ClientOption) SetSeqOrderCheck(b bool) *ClientOption {
	sf.config.SeqOrderCheck = b
	return sf
}

// SetInitialSequenceTolerance selects whether the initial out-of-order I
// frame some slaves send (send number 1) is accepted.
func (sf *ClientOption) SetInitialSequenceTolerance(b bool) *ClientOption {
	sf.config.InitialSeqTolerance = b
	return sf
}

// SetAutoReconnect enables or disables automatic reconnection attempts.
func (sf *ClientOption) SetAutoReconnect(b bool) *ClientOption {
	sf.config.AutoReconnect = b
	return sf
}
