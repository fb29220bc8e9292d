// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package cs104 implements the controlling station (master) side of the
// IEC 60870-5-104 protocol over a host supplied TCP transport.
package cs104

import (
	"fmt"
	"strings"
	"time"

	"github.com/riclolsen/qtester104/asdu"
	"github.com/riclolsen/qtester104/clog"
)

// Client is an IEC104 controlling station (master).
//
// The client is single threaded and cooperative: the host must serialise the
// one-second tick, the bytes-ready notification, the transport event hooks
// and every command call onto one goroutine. All state transitions happen
// inside those calls; nothing here blocks except the bounded wait for the
// tail of a partially arrived frame.
type Client struct {
	option    ClientConfig
	handler   ClientHandlerInterface
	transport Transport
	recorder  FrameRecorder

	// link state
	connectedTCP bool
	txOk         bool
	vs           uint16 // send sequence number, stored shifted left by one
	vr           uint16 // receive sequence number, stored shifted left by one

	// countdown timers, one-second resolution, idle when negative
	toutStartDtAct  int
	toutSupervisory int
	toutTestfr      int
	toutGI          int

	// receive reassembly
	rxBuf     [APDULenMax + 2]byte
	brokenMsg bool

	giObjectCnt      int
	testCommandCount uint16
	connectCnt       uint32 // primary/backup alternation
	tickCnt          uint32
	allowConnect     bool

	clog.Clog
}

// NewClient creates a new IEC104 controlling station bound to the given
// handler and transport. A nil option selects the defaults.
func NewClient(handler ClientHandlerInterface, transport Transport, o *ClientOption) *Client {
	if o == nil {
		o = NewOption()
	}
	c := &Client{
		option:          o.config,
		handler:         handler,
		transport:       transport,
		toutStartDtAct:  -1,
		toutSupervisory: -1,
		toutTestfr:      -1,
		toutGI:          -1,
		allowConnect:    true,
		Clog:            clog.NewLogger(fmt.Sprintf("cs104 client [%s] => ", o.config.SecondaryIP)),
	}
	return c
}

// SetFrameRecorder attaches a wire trace recorder; nil detaches it.
func (sf *Client) SetFrameRecorder(r FrameRecorder) {
	sf.recorder = r
}

// SetPrimaryAddress sets the originator address of this station.
func (sf *Client) SetPrimaryAddress(oa uint8) { sf.option.PrimaryAddr = oa }

// GetPrimaryAddress returns the originator address of this station.
func (sf *Client) GetPrimaryAddress() uint8 { return sf.option.PrimaryAddr }

// SetSecondaryAddress sets the common address of ASDU of the controlled station.
func (sf *Client) SetSecondaryAddress(ca uint16) { sf.option.SecondaryAddr = ca }

// GetSecondaryAddress returns the common address of ASDU of the controlled station.
func (sf *Client) GetSecondaryAddress() uint16 { return sf.option.SecondaryAddr }

// SetSecondaryIP sets the controlled station address.
func (sf *Client) SetSecondaryIP(ip string) { sf.option.SecondaryIP = ip }

// SetSecondaryIPBackup sets the alternate controlled station address.
func (sf *Client) SetSecondaryIPBackup(ip string) { sf.option.SecondaryIPBackup = ip }

// SetPort sets the TCP port of the controlled station.
func (sf *Client) SetPort(port uint16) { sf.option.Port = port }

// GetPort returns the TCP port of the controlled station.
func (sf *Client) GetPort() uint16 { return sf.option.Port }

// SetGIPeriod sets the general interrogation cycle period in seconds.
func (sf *Client) SetGIPeriod(seconds int) { sf.option.GIPeriod = seconds }

// SetGIRetryPeriod sets the re-arm period after an unanswered interrogation.
func (sf *Client) SetGIRetryPeriod(seconds int) { sf.option.GIRetryPeriod = seconds }

// DisableSequenceOrderCheck makes receive sequence mismatches non-fatal.
func (sf *Client) DisableSequenceOrderCheck() { sf.option.SeqOrderCheck = false }

// EnableConnect allows the reconnect cycle to run.
func (sf *Client) EnableConnect() { sf.allowConnect = true }

// DisableConnect stops the reconnect cycle and drops an established connection.
func (sf *Client) DisableConnect() {
	sf.allowConnect = false
	if sf.connectedTCP {
		sf.transport.Close()
		sf.OnDisconnectTCP()
	}
}

// IsConnected reports whether the TCP session is up.
func (sf *Client) IsConnected() bool { return sf.connectedTCP }

// TxOk reports whether data transfer is enabled (STARTDT confirmed).
func (sf *Client) TxOk() bool { return sf.txOk }

// VS returns the send sequence number in its shifted wire form.
func (sf *Client) VS() uint16 { return sf.vs }

// VR returns the receive sequence number in its shifted wire form.
func (sf *Client) VR() uint16 { return sf.vr }

// GIObjectCount returns the objects accumulated in the running interrogation.
func (sf *Client) GIObjectCount() int { return sf.giObjectCnt }

// OnConnectTCP must be invoked when the transport reports an established
// connection. Sequence numbers reset and a STARTDT activation is sent.
func (sf *Client) OnConnectTCP() {
	sf.connectedTCP = true
	sf.txOk = false
	sf.vs = 0
	sf.vr = 0
	sf.testCommandCount = 0
	sf.brokenMsg = false
	sf.Debug("*** TCP CONNECT!")
	if sf.handler != nil {
		sf.handler.ConnectIndication()
	}
	sf.sendStartDtAct()
}

// OnDisconnectTCP must be invoked when the transport reports a closed or
// failed connection. All timers disarm and data transfer stops.
func (sf *Client) OnDisconnectTCP() {
	if !sf.connectedTCP {
		return
	}
	sf.connectedTCP = false
	sf.txOk = false
	sf.toutStartDtAct = -1
	sf.toutSupervisory = -1
	sf.toutTestfr = -1
	sf.toutGI = -1
	sf.brokenMsg = false
	sf.Debug("*** TCP DISCONNECT!")
	if sf.handler != nil {
		sf.handler.DisconnectIndication()
	}
}

// OnTimerSecond must be invoked exactly once per second by the host. It
// drives the four protocol timers and, while disconnected, the reconnect
// cycle alternating primary and backup addresses.
func (sf *Client) OnTimerSecond() {
	sf.tickCnt++
	if !sf.connectedTCP && sf.option.AutoReconnect && sf.allowConnect &&
		sf.tickCnt%reconnectTickSpacing == 0 {
		sf.connectTCP()
	}

	if sf.connectedTCP {
		if sf.toutStartDtAct > 0 {
			sf.toutStartDtAct--
		}
		if sf.toutStartDtAct == 0 { // timeout of startdtact: retry
			sf.sendStartDtAct()
		}

		if sf.toutGI > 0 {
			sf.toutGI--
			if sf.toutGI == 0 {
				sf.SolicitGI()
			}
		}

		if sf.option.MsgSupervisory {
			// the supervisory countdown runs at double rate
			if sf.toutSupervisory > 0 {
				sf.toutSupervisory--
			}
			if sf.toutSupervisory > 0 {
				sf.toutSupervisory--
			}
			if sf.toutSupervisory == 0 {
				sf.toutSupervisory = -1
				sf.sendSupervisory()
			}
		}
	}

	// if connected and no data received, probe with TESTFR-act
	if sf.connectedTCP && sf.txOk {
		if sf.toutTestfr > 0 {
			sf.toutTestfr--
			if sf.toutTestfr == 0 {
				sf.sendFrame(newUFrame(uTestFrAct))
				sf.Debug("     TESTFRACT")
			}
		}
	}
}

// connectTCP asks the transport for a connection, alternating between the
// primary and backup addresses when a backup is configured.
func (sf *Client) connectTCP() {
	sf.connectCnt++
	host := sf.option.SecondaryIP
	if sf.connectCnt%2 == 0 && sf.option.SecondaryIPBackup != "" {
		host = sf.option.SecondaryIPBackup
	}
	sf.Debug("Try to connect IP: %s", host)
	if err := sf.transport.Connect(host, sf.option.Port); err != nil {
		sf.Error("Connect failed: %v", err)
		return
	}
	sf.OnConnectTCP()
}

// OnPacketReady must be invoked when the transport has bytes available.
// It resynchronises on the start octet, assembles complete APDUs (waiting a
// bounded time for partially arrived tails) and processes each one.
func (sf *Client) OnPacketReady() {
	for {
		if !sf.brokenMsg {
			// look for a START
			for {
				if n := sf.transport.Read(sf.rxBuf[0:1]); n == 0 {
					return
				}
				if sf.rxBuf[0] == startByte {
					break
				}
			}
			if n := sf.transport.Read(sf.rxBuf[1:2]); n == 0 {
				return
			}
		}

		length := int(sf.rxBuf[1])
		if length < APDULenMin || length > APDULenMax { // apdu length must be in [4, 253]
			sf.brokenMsg = false
			sf.Error("R--> ERROR: INVALID FRAME")
			continue
		}

		sf.transport.WaitBytes(length, incompleteFrameWaitMs)
		n := sf.transport.Read(sf.rxBuf[2 : 2+length])
		if n == 0 {
			sf.Warn("R--> Broken apdu")
			sf.brokenMsg = true
			return
		}
		if n < length {
			missing := length - n
			sf.Warn("R--> There should be more to read (%d of %d)", missing, length)
			sf.transport.WaitBytes(missing, incompleteFrameWaitMs)
			n2 := sf.transport.Read(sf.rxBuf[2+n : 2+length])
			sf.Warn("R--> Readed more %d", n2)
			if n2 != missing {
				sf.Warn("R--> Broken apdu!")
				sf.brokenMsg = true
				return
			}
		}
		sf.brokenMsg = false

		frame := sf.rxBuf[:length+2]
		if sf.IsLogging() {
			sf.Debug("%s", clog.HexDump(frame, false))
		}
		if sf.recorder != nil {
			_ = sf.recorder.Record(frame, false)
		}
		sf.parseAPDU(frame)
		if sf.transport.BytesAvailable() == 0 {
			return
		}
	}
}

// parseAPDU processes one assembled frame: control frames transition the
// link state, I frames are accounted and dispatched.
func (sf *Client) parseAPDU(frame []byte) {
	apdu, err := ParseAPDU(frame)
	if err != nil {
		sf.Error("R--> ERROR: INVALID FRAME")
		return
	}

	if len(frame) == APCISize && apdu.Format() != FrameI {
		sf.handleControl(apdu)
		return
	}

	// data message
	vrNew := apdu.NS & 0xFFFE
	if vrNew != sf.vr && !(sf.option.InitialSeqTolerance && sf.vr == 0 && vrNew == 2) {
		// sequence error, must close and reopen the connection
		sf.Error("*** SEQUENCE ERROR! **************************")
		if sf.option.SeqOrderCheck {
			sf.transport.Close()
			sf.OnDisconnectTCP()
			return
		}
	}
	sf.vr = vrNew + 2

	sf.handleASDU(apdu.ASDU)

	sf.toutTestfr = sf.option.TimeoutTestfr
	if sf.option.MsgSupervisory {
		// wait t2 seconds or enough messages to acknowledge the window
		if sf.toutSupervisory < 0 {
			sf.toutSupervisory = sf.option.TimeoutSupervisory
		}
		if sf.toutSupervisory > 0 {
			sf.toutSupervisory--
		}
		if sf.toutSupervisory == 0 {
			sf.toutSupervisory = -1
			sf.sendSupervisory()
		}
	} else {
		sf.sendSupervisory()
	}
}

func (sf *Client) handleControl(apdu APDU) {
	switch apdu.NS {
	case uStartDtAct:
		sf.Debug("     STARTDTACT")
		sf.sendFrame(newUFrame(uStartDtCon))
		sf.Debug("     STARTDTCON")

	case uTestFrAct:
		sf.Debug("     TESTFRACT")
		sf.sendFrame(newUFrame(uTestFrCon))
		sf.Debug("     TESTFRCON")

	case uStartDtCon:
		sf.Debug("     STARTDTCON")
		sf.toutStartDtAct = -1 // confirmed, do not retry
		sf.txOk = true
		sf.toutGI = firstGIDelay // request GI when communication starts

	case uStopDtAct:
		sf.Debug("     STOPDTACT")
		// only the controlled station responds

	case uStopDtCon:
		sf.Debug("     STOPDTCON")

	case uTestFrCon:
		sf.Debug("     TESTFRCON")

	case sSupervisory:
		sf.Debug("     SUPERVISORY")

	default:
		sf.Error("     ERROR: UNKNOWN CONTROL MESSAGE")
	}
}

// monitoring reports whether the type carries process information in the
// monitor direction handled by the data indication path.
func monitoring(t asdu.TypeID) bool {
	switch t {
	case asdu.M_SP_NA_1, asdu.M_DP_NA_1, asdu.M_ST_NA_1, asdu.M_BO_NA_1,
		asdu.M_ME_NA_1, asdu.M_ME_NB_1, asdu.M_ME_NC_1, asdu.M_IT_NA_1,
		asdu.M_PS_NA_1, asdu.M_ME_ND_1,
		asdu.M_SP_TB_1, asdu.M_DP_TB_1, asdu.M_ST_TB_1, asdu.M_BO_TB_1,
		asdu.M_ME_TD_1, asdu.M_ME_TE_1, asdu.M_ME_TF_1, asdu.M_IT_TB_1,
		asdu.M_EP_TD_1, asdu.M_EP_TE_1, asdu.M_EP_TF_1:
		return true
	}
	return false
}

func (sf *Client) handleASDU(raw []byte) {
	id, err := asdu.ParseIdentifier(raw)
	if err != nil {
		sf.Error("R--> ERROR: INVALID FRAME")
		return
	}
	sf.Debug("     %s", id)

	var a asdu.ASDU
	switch err := a.UnmarshalBinary(raw); err {
	case nil:
	case asdu.ErrTypeNotImplemented:
		sf.Error("!!! TYPE NOT IMPLEMENTED")
		return
	default:
		sf.Error("R--> ERROR: %v", err)
		return
	}

	switch {
	case monitoring(a.Type):
		if a.Cause.IsInterrogation() {
			sf.giObjectCnt += len(a.Objects)
		}
		sf.logPoints(a.Objects)
		if sf.handler != nil {
			sf.handler.DataIndication(a.Objects)
		}

	case a.Type == asdu.C_IC_NA_1:
		sf.toutGI = sf.option.GIPeriod // restart count to next GI
		switch a.Cause {
		case asdu.ActivationCon:
			sf.giObjectCnt = 0
			sf.Debug("     INTERROGATION ACT CON ------------------------------------------------------------------------")
			if sf.handler != nil {
				sf.handler.InterrogationActConfIndication()
			}
		case asdu.ActivationTerm:
			sf.Debug("     INTERROGATION ACT TERM ------------------------------------------------------------------------")
			sf.Debug("     Total objects in Interrogation: %d", sf.giObjectCnt)
			if sf.handler != nil {
				sf.handler.InterrogationActTermIndication(sf.giObjectCnt)
			}
		default:
			sf.Debug("     INTERROGATION")
		}

	case a.Type == asdu.C_TS_NA_1 || a.Type == asdu.C_TS_TA_1:
		if len(a.Objects) > 0 && a.Objects[0].TimeTag != nil {
			sf.Debug("     TEST COMMAND TSC %d %s", a.Objects[0].TSC, a.Objects[0].TimeTag)
		} else {
			sf.Debug("     TEST COMMAND")
		}
		if a.Cause == asdu.Activation {
			sf.confTestCommand()
		}

	case a.Type == asdu.M_EI_NA_1:
		sf.Debug("R--> END OF INITIALIZATION")

	case a.Type == asdu.C_CI_NA_1:
		if len(a.Objects) > 0 {
			sf.Debug("     COUNTER INTERROGATION COMMAND, ADDRESS %d FRZ %d RQT %d",
				a.Objects[0].Address, a.Objects[0].FRZ, a.Objects[0].RQT)
		}

	case a.Type == asdu.C_CS_NA_1:
		if len(a.Objects) > 0 && a.Objects[0].TimeTag != nil {
			sf.Debug("     CLOCK SYNC COMMAND %s", a.Objects[0].TimeTag)
		}

	default:
		// command, set-point, read and parameter confirmations
		if len(a.Objects) == 0 {
			return
		}
		obj := &a.Objects[0]
		sf.logCommandResp(&a.Identifier, obj)
		if sf.handler != nil {
			sf.handler.CommandActRespIndication(obj)
		}
	}
}

// logPoints renders the decoded points of one ASDU on a single log line, in
// the tester's "[address value quality timetag]" form.
func (sf *Client) logPoints(objs []asdu.InfoObject) {
	if !sf.IsLogging() || len(objs) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("     ")
	for i := range objs {
		obj := &objs[i]
		s := obj.String()
		if obj.TimeTag != nil {
			s = s[:len(s)-1] + " " + obj.TimeTag.String() + "]"
		}
		b.WriteString(s + " ")
	}
	sf.Debug("%s", strings.TrimRight(b.String(), " "))
}

func (sf *Client) logCommandResp(id *asdu.Identifier, obj *asdu.InfoObject) {
	if !sf.IsLogging() {
		return
	}
	var b strings.Builder
	b.WriteString("     ")
	switch id.Cause {
	case asdu.ActivationCon:
		b.WriteString("ACTIVATION CONFIRMATION ")
	case asdu.ActivationTerm:
		b.WriteString("ACTIVATION TERMINATION ")
	}
	if id.Negative {
		b.WriteString("NEGATIVE ")
	} else {
		b.WriteString("POSITIVE ")
	}
	switch id.Type {
	case asdu.C_SC_NA_1, asdu.C_SC_TA_1:
		fmt.Fprintf(&b, "SINGLE COMMAND ADDRESS %d SCS %d QU %d SE %d", obj.Address, obj.SCS, obj.QU, obj.SE)
	case asdu.C_DC_NA_1, asdu.C_DC_TA_1:
		fmt.Fprintf(&b, "DOUBLE COMMAND ADDRESS %d DCS %d QU %d SE %d", obj.Address, obj.DCS, obj.QU, obj.SE)
	case asdu.C_RC_NA_1, asdu.C_RC_TA_1:
		fmt.Fprintf(&b, "STEP REG. COMMAND ADDRESS %d RCS %d QU %d SE %d", obj.Address, obj.RCS, obj.QU, obj.SE)
	case asdu.C_SE_NA_1, asdu.C_SE_TA_1:
		fmt.Fprintf(&b, "NORMALISED COMMAND ADDRESS %d VAL %d QL %d SE %d", obj.Address, obj.NVA, obj.QL, obj.SE)
	case asdu.C_SE_NB_1, asdu.C_SE_TB_1:
		fmt.Fprintf(&b, "SCALED COMMAND ADDRESS %d VAL %d QL %d SE %d", obj.Address, obj.SVA, obj.QL, obj.SE)
	case asdu.C_SE_NC_1, asdu.C_SE_TC_1:
		fmt.Fprintf(&b, "FLOAT COMMAND ADDRESS %d VAL %g QL %d SE %d", obj.Address, obj.R32, obj.QL, obj.SE)
	case asdu.C_RD_NA_1:
		fmt.Fprintf(&b, "READ COMMAND ADDRESS %d", obj.Address)
	case asdu.P_ME_NA_1:
		fmt.Fprintf(&b, "PARAMETER OF MEASURED NORMALIZED VALUE, ADDRESS %d VAL %d KPA %d LPC %d POP %d", obj.Address, obj.NVA, obj.KPA, obj.LPC, obj.POP)
	case asdu.P_ME_NB_1:
		fmt.Fprintf(&b, "PARAMETER OF MEASURED SCALED VALUE, ADDRESS %d VAL %d KPA %d LPC %d POP %d", obj.Address, obj.SVA, obj.KPA, obj.LPC, obj.POP)
	case asdu.P_ME_NC_1:
		fmt.Fprintf(&b, "PARAMETER OF MEASURED FLOAT VALUE, ADDRESS %d VAL %g KPA %d LPC %d POP %d", obj.Address, obj.R32, obj.KPA, obj.LPC, obj.POP)
	case asdu.P_AC_NA_1:
		fmt.Fprintf(&b, "PARAMETER ACTIVATION, ADDRESS %d QPA %d", obj.Address, obj.QPA)
	default:
		fmt.Fprintf(&b, "COMMAND RESPONSE TYPE %s ADDRESS %d", id.Type, obj.Address)
	}
	sf.Debug("%s", b.String())
}

// sendFrame marshals and writes one APDU, mirroring it to the log and the
// trace recorder.
func (sf *Client) sendFrame(apdu APDU) {
	if !sf.connectedTCP {
		return
	}
	data := apdu.MarshalBinary()
	sf.transport.Write(data)
	if sf.IsLogging() {
		sf.Debug("%s", clog.HexDump(data, true))
	}
	if sf.recorder != nil {
		_ = sf.recorder.Record(data, true)
	}
}

// sendIFrame stamps the current sequence numbers on an ASDU, writes the
// frame and advances the send number.
func (sf *Client) sendIFrame(asduData []byte) {
	sf.sendFrame(newIFrame(sf.vs, sf.vr, asduData))
	sf.vs += 2
}

func (sf *Client) sendStartDtAct() {
	sf.sendFrame(newUFrame(uStartDtAct))
	sf.Debug("     STARTDTACT")
	sf.toutStartDtAct = sf.option.TimeoutStartDtAct
}

func (sf *Client) sendSupervisory() {
	sf.sendFrame(newSFrame(sf.vr))
	sf.Debug("     SUPERVISORY %x", sf.vr)
}

// SolicitGI transmits a station general interrogation (qualifier 20).
func (sf *Client) SolicitGI() {
	sf.solicit(20, "    GENERAL INTERROGATION ")
}

// SolicitInterrogation transmits an interrogation of one group in [1, 16].
func (sf *Client) SolicitInterrogation(group int) error {
	if group < 1 || group > 16 {
		return ErrGroupOutOfRange
	}
	sf.solicit(20+group, fmt.Sprintf("     INTERROGATION GROUP %d", group))
	return nil
}

func (sf *Client) solicit(qoi int, logMsg string) {
	a := asdu.ASDU{
		Identifier: asdu.Identifier{
			Type:       asdu.C_IC_NA_1,
			Cause:      asdu.Activation,
			OrigAddr:   sf.option.PrimaryAddr,
			CommonAddr: sf.option.SecondaryAddr,
		},
		Objects: []asdu.InfoObject{{QOI: uint8(qoi)}},
	}
	raw, err := a.MarshalBinary()
	if err != nil {
		sf.Error("interrogation: %v", err)
		return
	}
	sf.sendIFrame(raw)
	sf.Debug("%s", logMsg)
	sf.toutGI = sf.option.GIRetryPeriod
}

// confTestCommand answers a received test command activation with the
// type 107 confirmation carrying the current wall clock.
func (sf *Client) confTestCommand() {
	now := asdu.CP56Time2aFromTime(time.Now())
	a := asdu.ASDU{
		Identifier: asdu.Identifier{
			Type:       asdu.C_TS_TA_1,
			Cause:      asdu.ActivationCon,
			OrigAddr:   sf.option.PrimaryAddr,
			CommonAddr: sf.option.SecondaryAddr,
		},
		Objects: []asdu.InfoObject{{TimeTag: &now}},
	}
	raw, err := a.MarshalBinary()
	if err != nil {
		sf.Error("test command confirmation: %v", err)
		return
	}
	sf.sendIFrame(raw)
	sf.Debug("     TEST COMMAND CONF ")
}

// SendCommand builds and transmits one command, set-point, read, counter
// interrogation, clock sync, reset process, test or parameter ASDU from the
// object. The cause is forced to activation and a zero common address is
// replaced by the configured secondary address. Time-tagged variants are
// stamped with the local clock. Returns false, with no side effects, for
// any other type identification.
func (sf *Client) SendCommand(obj *asdu.InfoObject) bool {
	var summary string

	switch obj.Type {
	case asdu.C_SC_NA_1, asdu.C_SC_TA_1:
		summary = fmt.Sprintf("     SINGLE COMMAND ADDRESS %d SCS %d CA %%d QU %d SE %d", obj.Address, obj.SCS, obj.QU, obj.SE)
	case asdu.C_DC_NA_1, asdu.C_DC_TA_1:
		summary = fmt.Sprintf("     DOUBLE COMMAND ADDRESS %d DCS %d CA %%d QU %d SE %d", obj.Address, obj.DCS, obj.QU, obj.SE)
	case asdu.C_RC_NA_1, asdu.C_RC_TA_1:
		summary = fmt.Sprintf("     STEP REG. COMMAND ADDRESS %d RCS %d CA %%d QU %d SE %d", obj.Address, obj.RCS, obj.QU, obj.SE)
	case asdu.C_SE_NA_1, asdu.C_SE_TA_1:
		summary = fmt.Sprintf("     NORMALISED COMMAND ADDRESS %d VAL %d CA %%d SE %d", obj.Address, int16(obj.Value), obj.SE)
	case asdu.C_SE_NB_1, asdu.C_SE_TB_1:
		summary = fmt.Sprintf("     SCALED COMMAND ADDRESS %d VAL %d CA %%d SE %d", obj.Address, int16(obj.Value), obj.SE)
	case asdu.C_SE_NC_1, asdu.C_SE_TC_1:
		summary = fmt.Sprintf("     FLOAT COMMAND ADDRESS %d VAL %g CA %%d SE %d", obj.Address, obj.Value, obj.SE)
	case asdu.C_CS_NA_1:
		summary = "     CLOCK SYNC COMMAND CA %d"
	case asdu.C_RP_NA_1:
		summary = fmt.Sprintf("     RESET PROCESS COMMAND QRP %d CA %%d", obj.QRP)
	case asdu.C_TS_TA_1:
		summary = fmt.Sprintf("     TEST COMMAND WITH TIME TAG TSC %d CA %%d", sf.testCommandCount)
	case asdu.C_CI_NA_1:
		summary = fmt.Sprintf("     COUNTER INTERROGATION COMMAND, ADDRESS %d FRZ %d RQT %d CA %%d", obj.Address, obj.FRZ, obj.RQT)
	case asdu.C_RD_NA_1:
		summary = fmt.Sprintf("     READ COMMAND, ADDRESS %d CA %%d", obj.Address)
	case asdu.P_ME_NA_1:
		summary = fmt.Sprintf("     PARAMETER OF MEASURED NORMALIZED VALUE, ADDRESS %d VAL %d KPA %d POP %d LPC %d CA %%d", obj.Address, int16(obj.Value), obj.KPA, obj.POP, obj.LPC)
	case asdu.P_ME_NB_1:
		summary = fmt.Sprintf("     PARAMETER OF MEASURED SCALED VALUE, ADDRESS %d VAL %d KPA %d POP %d LPC %d CA %%d", obj.Address, int16(obj.Value), obj.KPA, obj.POP, obj.LPC)
	case asdu.P_ME_NC_1:
		summary = fmt.Sprintf("     PARAMETER OF MEASURED FLOAT VALUE, ADDRESS %d VAL %g KPA %d POP %d LPC %d CA %%d", obj.Address, obj.Value, obj.KPA, obj.POP, obj.LPC)
	case asdu.P_AC_NA_1:
		summary = fmt.Sprintf("     PARAMETER ACTIVATION, ADDRESS %d QPA %d CA %%d", obj.Address, obj.QPA)
	default:
		return false
	}

	obj.Cause = asdu.Activation
	if obj.CA == 0 {
		obj.CA = sf.option.SecondaryAddr
	}

	switch obj.Type {
	case asdu.C_SC_TA_1, asdu.C_DC_TA_1, asdu.C_RC_TA_1,
		asdu.C_SE_TA_1, asdu.C_SE_TB_1, asdu.C_SE_TC_1:
		now := asdu.CP56Time2aFromTime(time.Now())
		obj.TimeTag = &now
	case asdu.C_CS_NA_1, asdu.C_TS_TA_1:
		if obj.TimeTag == nil {
			now := asdu.CP56Time2aFromTime(time.Now())
			obj.TimeTag = &now
		}
	}
	if obj.Type == asdu.C_TS_TA_1 {
		obj.TSC = sf.testCommandCount
		sf.testCommandCount++
	}

	a := asdu.ASDU{
		Identifier: asdu.Identifier{
			Type:       obj.Type,
			Cause:      obj.Cause,
			OrigAddr:   sf.option.PrimaryAddr,
			CommonAddr: obj.CA,
		},
		Objects: []asdu.InfoObject{*obj},
	}
	raw, err := a.MarshalBinary()
	if err != nil {
		sf.Error("send command: %v", err)
		return false
	}
	sf.sendIFrame(raw)
	sf.Debug(summary, obj.CA)
	return true
}
