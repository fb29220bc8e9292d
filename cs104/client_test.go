// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cs104

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riclolsen/qtester104/asdu"
)

// mockTransport scripts the byte stream of a controlled station and records
// everything the engine writes.
type mockTransport struct {
	rx         []byte
	tx         [][]byte
	hosts      []string
	connectErr error
	closed     int
}

func (sf *mockTransport) Connect(host string, port uint16) error {
	sf.hosts = append(sf.hosts, host)
	return sf.connectErr
}

func (sf *mockTransport) Read(p []byte) int {
	n := copy(p, sf.rx)
	sf.rx = sf.rx[n:]
	return n
}

func (sf *mockTransport) Write(p []byte) int {
	sf.tx = append(sf.tx, append([]byte(nil), p...))
	return len(p)
}

func (sf *mockTransport) WaitBytes(n, msTimeout int) int { return len(sf.rx) }
func (sf *mockTransport) BytesAvailable() int            { return len(sf.rx) }
func (sf *mockTransport) Close()                         { sf.closed++ }

func (sf *mockTransport) feed(data []byte) { sf.rx = append(sf.rx, data...) }

// frames returns the written APDUs whose ASDU type matches t.
func (sf *mockTransport) frames(t asdu.TypeID) [][]byte {
	var out [][]byte
	for _, f := range sf.tx {
		if len(f) > APCISize && asdu.TypeID(f[6]) == t {
			out = append(out, f)
		}
	}
	return out
}

// uFrames returns the written U frames with the given control word.
func (sf *mockTransport) uFrames(cmd byte) [][]byte {
	var out [][]byte
	for _, f := range sf.tx {
		if len(f) == APCISize && f[2] == cmd && f[3] == 0 {
			out = append(out, f)
		}
	}
	return out
}

type mockHandler struct {
	data        [][]asdu.InfoObject
	cmds        []asdu.InfoObject
	confs       int
	terms       []int
	connects    int
	disconnects int
}

func (sf *mockHandler) DataIndication(objs []asdu.InfoObject) {
	sf.data = append(sf.data, objs)
}
func (sf *mockHandler) CommandActRespIndication(obj *asdu.InfoObject) {
	sf.cmds = append(sf.cmds, *obj)
}
func (sf *mockHandler) InterrogationActConfIndication() { sf.confs++ }
func (sf *mockHandler) InterrogationActTermIndication(n int) {
	sf.terms = append(sf.terms, n)
}
func (sf *mockHandler) ConnectIndication()    { sf.connects++ }
func (sf *mockHandler) DisconnectIndication() { sf.disconnects++ }

func newTestClient(opts ...func(*ClientOption)) (*Client, *mockTransport, *mockHandler) {
	tr := &mockTransport{}
	h := &mockHandler{}
	o := NewOption().SetConfig(Config{
		SecondaryIP:   "192.168.0.10",
		SecondaryAddr: 1,
		PrimaryAddr:   1,
	})
	for _, f := range opts {
		f(o)
	}
	return NewClient(h, tr, o), tr, h
}

// iFrame builds the wire frame of one I format APDU. ns and nr are the
// unshifted sequence numbers.
func iFrame(t *testing.T, ns, nr uint16, a *asdu.ASDU) []byte {
	t.Helper()
	raw, err := a.MarshalBinary()
	require.NoError(t, err)
	apdu := newIFrame(ns<<1, nr<<1, raw)
	return apdu.MarshalBinary()
}

var startDtCon = []byte{0x68, 0x04, 0x0B, 0x00, 0x00, 0x00}

// startData brings a fresh client to the data transfer enabled state.
func startData(t *testing.T, c *Client, tr *mockTransport) {
	t.Helper()
	c.OnConnectTCP()
	tr.feed(startDtCon)
	c.OnPacketReady()
	require.True(t, c.TxOk())
}

func measuredFloat(addr uint32, val float32, ns uint16) func(t *testing.T) []byte {
	return func(t *testing.T) []byte {
		return iFrame(t, ns, 0, &asdu.ASDU{
			Identifier: asdu.Identifier{Type: asdu.M_ME_NC_1, Cause: asdu.Spontaneous, CommonAddr: 1},
			Objects:    []asdu.InfoObject{{Address: addr, R32: val, Value: float64(val)}},
		})
	}
}

func TestControlHandshake(t *testing.T) {
	c, tr, _ := newTestClient()

	c.OnConnectTCP()
	require.Len(t, tr.tx, 1)
	assert.Equal(t, []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00}, tr.tx[0])
	assert.False(t, c.TxOk())

	tr.feed(startDtCon)
	c.OnPacketReady()
	assert.True(t, c.TxOk())

	// the first general interrogation is scheduled 15 ticks ahead
	for i := 0; i < 14; i++ {
		c.OnTimerSecond()
	}
	require.Empty(t, tr.frames(asdu.C_IC_NA_1))
	c.OnTimerSecond()
	gi := tr.frames(asdu.C_IC_NA_1)
	require.Len(t, gi, 1)
	assert.Equal(t, []byte{
		0x68, 0x0e, 0x00, 0x00, 0x00, 0x00,
		0x64, 0x01, 0x06, 0x01, 0x01, 0x00,
		0x00, 0x00, 0x00, 0x14,
	}, gi[0])
}

func TestStartDtActRetry(t *testing.T) {
	c, tr, _ := newTestClient()
	c.OnConnectTCP()
	require.Len(t, tr.uFrames(0x07), 1)

	for i := 0; i < DefaultTimeoutStartDtAct-1; i++ {
		c.OnTimerSecond()
	}
	assert.Len(t, tr.uFrames(0x07), 1)
	c.OnTimerSecond()
	assert.Len(t, tr.uFrames(0x07), 2)
}

func TestTestFrameProbe(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)

	// any I frame arms the idle probe timer
	tr.feed(measuredFloat(100, 1.0, 0)(t))
	c.OnPacketReady()

	for i := 0; i < DefaultTimeoutTestfr-1; i++ {
		c.OnTimerSecond()
	}
	require.Empty(t, tr.uFrames(0x43))
	c.OnTimerSecond()
	probes := tr.uFrames(0x43)
	require.Len(t, probes, 1)
	assert.Equal(t, []byte{0x68, 0x04, 0x43, 0x00, 0x00, 0x00}, probes[0])

	// the confirmation only produces a log entry
	tr.feed([]byte{0x68, 0x04, 0x83, 0x00, 0x00, 0x00})
	c.OnPacketReady()
	assert.True(t, c.IsConnected())
}

func TestTestFrameActAnswered(t *testing.T) {
	c, tr, _ := newTestClient()
	c.OnConnectTCP()

	tr.feed([]byte{0x68, 0x04, 0x43, 0x00, 0x00, 0x00})
	c.OnPacketReady()
	require.Len(t, tr.uFrames(0x83), 1)
}

func TestStartDtActAnswered(t *testing.T) {
	c, tr, _ := newTestClient()
	c.OnConnectTCP()

	tr.feed([]byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00})
	c.OnPacketReady()
	require.Len(t, tr.uFrames(0x0B), 1)
}

func TestMeasuredFloatIndication(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	tr.feed(measuredFloat(100, 12.5, 0)(t))
	c.OnPacketReady()

	require.Len(t, h.data, 1)
	require.Len(t, h.data[0], 1)
	obj := h.data[0][0]
	assert.Equal(t, uint32(100), obj.Address)
	assert.Equal(t, 12.5, obj.Value)
	assert.False(t, obj.IV)
	assert.Equal(t, uint16(1)<<1, c.VR())
}

func TestSupervisoryOnT2(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)

	tr.feed(measuredFloat(100, 1.0, 0)(t))
	c.OnPacketReady()
	for _, f := range tr.tx {
		require.NotEqual(t, byte(0x01), f[2], "no immediate acknowledge expected")
	}

	// t2 runs at double rate: 10s arm minus the receive decrement fires
	// after five ticks
	var sFrames int
	for i := 0; i < 5; i++ {
		c.OnTimerSecond()
	}
	for _, f := range tr.tx {
		if len(f) == APCISize && f[2] == 0x01 {
			sFrames++
			assert.Equal(t, []byte{0x68, 0x04, 0x01, 0x00, 0x02, 0x00}, f)
		}
	}
	assert.Equal(t, 1, sFrames)
}

func TestImmediateSupervisory(t *testing.T) {
	c, tr, _ := newTestClient(func(o *ClientOption) { o.SetMsgSupervisory(false) })
	startData(t, c, tr)

	tr.feed(measuredFloat(100, 1.0, 0)(t))
	c.OnPacketReady()

	var sFrames [][]byte
	for _, f := range tr.tx {
		if len(f) == APCISize && f[2] == 0x01 {
			sFrames = append(sFrames, f)
		}
	}
	require.Len(t, sFrames, 1)
	assert.Equal(t, []byte{0x68, 0x04, 0x01, 0x00, 0x02, 0x00}, sFrames[0])
}

func TestSingleCommandActivation(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)
	before := len(tr.tx)

	ok := c.SendCommand(&asdu.InfoObject{Type: asdu.C_SC_NA_1, Address: 42, SCS: 1, CA: 1})
	require.True(t, ok)
	require.Len(t, tr.tx, before+1)
	frame := tr.tx[before]
	assert.Equal(t, []byte{
		0x68, 0x0e, 0x00, 0x00, 0x00, 0x00,
		0x2d, 0x01, 0x06, 0x01, 0x01, 0x00,
		0x2a, 0x00, 0x00, 0x01,
	}, frame)
}

func TestSendCommandDefaults(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)
	before := len(tr.tx)

	// zero CA falls back to the configured secondary address
	require.True(t, c.SendCommand(&asdu.InfoObject{Type: asdu.C_SE_NC_1, Address: 7, Value: 2.5}))
	frame := tr.tx[before]
	apdu, err := ParseAPDU(frame)
	require.NoError(t, err)
	var a asdu.ASDU
	require.NoError(t, a.UnmarshalBinary(apdu.ASDU))
	assert.Equal(t, asdu.Activation, a.Cause)
	assert.Equal(t, uint16(1), a.CommonAddr)
	assert.Equal(t, 2.5, a.Objects[0].Value)
}

func TestSendCommandTimeTagged(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)
	before := len(tr.tx)

	require.True(t, c.SendCommand(&asdu.InfoObject{Type: asdu.C_SC_TA_1, Address: 9, SCS: 1}))
	apdu, err := ParseAPDU(tr.tx[before])
	require.NoError(t, err)
	var a asdu.ASDU
	require.NoError(t, a.UnmarshalBinary(apdu.ASDU))
	require.NotNil(t, a.Objects[0].TimeTag)
	diff := time.Since(a.Objects[0].TimeTag.Time(time.Local))
	assert.Less(t, diff.Abs(), time.Second)
}

func TestSendCommandUnsupported(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)
	before := len(tr.tx)
	vs := c.VS()

	assert.False(t, c.SendCommand(&asdu.InfoObject{Type: asdu.M_SP_NA_1, Address: 1}))
	assert.Len(t, tr.tx, before)
	assert.Equal(t, vs, c.VS())
}

func TestTestCommandSequenceCounter(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)

	for want := 0; want < 3; want++ {
		before := len(tr.tx)
		require.True(t, c.SendCommand(&asdu.InfoObject{Type: asdu.C_TS_TA_1}))
		apdu, err := ParseAPDU(tr.tx[before])
		require.NoError(t, err)
		var a asdu.ASDU
		require.NoError(t, a.UnmarshalBinary(apdu.ASDU))
		assert.Equal(t, uint16(want), a.Objects[0].TSC)
	}
}

func TestSequencedMonitoring(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	frame := iFrame(t, 0, 0, &asdu.ASDU{
		Identifier: asdu.Identifier{Type: asdu.M_SP_NA_1, SQ: true, Cause: asdu.Spontaneous, CommonAddr: 1},
		Objects: []asdu.InfoObject{
			{Address: 10, SP: 1, Value: 1},
			{Address: 11},
			{Address: 12, SP: 1, Value: 1},
		},
	})
	tr.feed(frame)
	c.OnPacketReady()

	require.Len(t, h.data, 1)
	require.Len(t, h.data[0], 3)
	assert.Equal(t, uint32(10), h.data[0][0].Address)
	assert.Equal(t, uint32(11), h.data[0][1].Address)
	assert.Equal(t, uint32(12), h.data[0][2].Address)
}

func TestTestCommandReply(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)

	tt := asdu.CP56Time2aFromTime(time.Now())
	frame := iFrame(t, 0, 0, &asdu.ASDU{
		Identifier: asdu.Identifier{Type: asdu.C_TS_TA_1, Cause: asdu.Activation, CommonAddr: 1},
		Objects:    []asdu.InfoObject{{TSC: 5, TimeTag: &tt}},
	})
	tr.feed(frame)
	c.OnPacketReady()

	replies := tr.frames(asdu.C_TS_TA_1)
	require.Len(t, replies, 1)
	apdu, err := ParseAPDU(replies[0])
	require.NoError(t, err)
	var a asdu.ASDU
	require.NoError(t, a.UnmarshalBinary(apdu.ASDU))
	assert.Equal(t, asdu.ActivationCon, a.Cause)
	require.NotNil(t, a.Objects[0].TimeTag)
	diff := time.Since(a.Objects[0].TimeTag.Time(time.Local))
	assert.Less(t, diff.Abs(), time.Second)
}

// Arbitrary garbage ahead of a valid APDU must yield exactly that APDU.
func TestResynchronisation(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	tr.feed([]byte{0x00, 0xff, 0x13, 0x37, 0x21})
	tr.feed(measuredFloat(100, 12.5, 0)(t))
	c.OnPacketReady()

	require.Len(t, h.data, 1)
	assert.Equal(t, 12.5, h.data[0][0].Value)
}

func TestResynchronisationBadLength(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	// a start byte followed by an illegal length restarts the scan
	tr.feed([]byte{0x68, 0x02})
	tr.feed(measuredFloat(100, 3.0, 0)(t))
	c.OnPacketReady()

	require.Len(t, h.data, 1)
	assert.Equal(t, 3.0, h.data[0][0].Value)
}

func TestBrokenFrameResume(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	frame := measuredFloat(100, 7.0, 0)(t)
	tr.feed(frame[:2])
	c.OnPacketReady()
	require.Empty(t, h.data)

	tr.feed(frame[2:])
	c.OnPacketReady()
	require.Len(t, h.data, 1)
	assert.Equal(t, 7.0, h.data[0][0].Value)
}

func TestSequenceDiscipline(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)

	const k = 5
	for i := uint16(0); i <= k; i++ {
		tr.feed(measuredFloat(100, 1.0, i)(t))
		c.OnPacketReady()
	}
	assert.True(t, c.IsConnected())
	assert.Equal(t, uint16(k+1)<<1, c.VR())
}

func TestSequenceViolationDisconnects(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	tr.feed(measuredFloat(100, 1.0, 0)(t))
	c.OnPacketReady()
	tr.feed(measuredFloat(100, 1.0, 1)(t))
	c.OnPacketReady()
	require.True(t, c.IsConnected())

	// frame 2 replaced by send number 3
	tr.feed(measuredFloat(100, 1.0, 3)(t))
	c.OnPacketReady()
	assert.False(t, c.IsConnected())
	assert.Equal(t, 1, tr.closed)
	assert.Equal(t, 1, h.disconnects)
}

func TestSequenceViolationLoggedOnly(t *testing.T) {
	c, tr, h := newTestClient()
	c.DisableSequenceOrderCheck()
	startData(t, c, tr)

	tr.feed(measuredFloat(100, 1.0, 7)(t))
	c.OnPacketReady()
	assert.True(t, c.IsConnected())
	// the receive counter adopts the peer's value
	assert.Equal(t, uint16(8)<<1, c.VR())
	assert.Len(t, h.data, 1)
}

func TestInitialSequenceTolerance(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	// a non-conformant slave starts transmitting with send number 1
	tr.feed(measuredFloat(100, 1.0, 1)(t))
	c.OnPacketReady()
	assert.True(t, c.IsConnected())
	assert.Equal(t, uint16(2)<<1, c.VR())
	assert.Len(t, h.data, 1)
}

func TestInitialSequenceToleranceDisabled(t *testing.T) {
	c, tr, _ := newTestClient(func(o *ClientOption) { o.SetInitialSequenceTolerance(false) })
	startData(t, c, tr)

	tr.feed(measuredFloat(100, 1.0, 1)(t))
	c.OnPacketReady()
	assert.False(t, c.IsConnected())
}

func TestVSMonotonicity(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)
	before := len(tr.tx)

	const n = 4
	for i := 0; i < n; i++ {
		require.True(t, c.SendCommand(&asdu.InfoObject{Type: asdu.C_SC_NA_1, Address: 1, SCS: 1}))
	}
	require.Len(t, tr.tx, before+n)
	for i := 0; i < n; i++ {
		apdu, err := ParseAPDU(tr.tx[before+i])
		require.NoError(t, err)
		assert.Equal(t, uint16(i)<<1, apdu.NS)
	}
	assert.Equal(t, uint16(n)<<1, c.VS())
}

func TestGIPeriodTimer(t *testing.T) {
	c, tr, _ := newTestClient(func(o *ClientOption) {
		o.config.GIPeriod = 30
	})
	startData(t, c, tr)

	// an interrogation termination re-arms the cycle timer to the full period
	term := iFrame(t, 0, 0, &asdu.ASDU{
		Identifier: asdu.Identifier{Type: asdu.C_IC_NA_1, Cause: asdu.ActivationTerm, CommonAddr: 1},
		Objects:    []asdu.InfoObject{{QOI: 20}},
	})
	tr.feed(term)
	c.OnPacketReady()

	for i := 0; i < 29; i++ {
		c.OnTimerSecond()
	}
	require.Empty(t, tr.frames(asdu.C_IC_NA_1))
	c.OnTimerSecond()
	assert.Len(t, tr.frames(asdu.C_IC_NA_1), 1)
}

func TestGIAccounting(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	feed := func(ns uint16, a *asdu.ASDU) {
		tr.feed(iFrame(t, ns, 0, a))
		c.OnPacketReady()
	}

	feed(0, &asdu.ASDU{
		Identifier: asdu.Identifier{Type: asdu.C_IC_NA_1, Cause: asdu.ActivationCon, CommonAddr: 1},
		Objects:    []asdu.InfoObject{{QOI: 20}},
	})
	require.Equal(t, 1, h.confs)
	require.Equal(t, 0, c.GIObjectCount())

	feed(1, &asdu.ASDU{
		Identifier: asdu.Identifier{Type: asdu.M_SP_NA_1, SQ: true, Cause: asdu.InterrogatedByStation, CommonAddr: 1},
		Objects:    []asdu.InfoObject{{Address: 10, SP: 1, Value: 1}, {Address: 11}, {Address: 12}},
	})
	feed(2, &asdu.ASDU{
		Identifier: asdu.Identifier{Type: asdu.M_ME_NC_1, Cause: asdu.InterrogatedByGroup1, CommonAddr: 1},
		Objects:    []asdu.InfoObject{{Address: 20, R32: 1, Value: 1}, {Address: 21, R32: 2, Value: 2}},
	})
	require.Equal(t, 5, c.GIObjectCount())

	feed(3, &asdu.ASDU{
		Identifier: asdu.Identifier{Type: asdu.C_IC_NA_1, Cause: asdu.ActivationTerm, CommonAddr: 1},
		Objects:    []asdu.InfoObject{{QOI: 20}},
	})
	require.Equal(t, []int{5}, h.terms)
}

func TestCommandActRespIndication(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	frame := iFrame(t, 0, 0, &asdu.ASDU{
		Identifier: asdu.Identifier{Type: asdu.C_SC_NA_1, Cause: asdu.ActivationCon, CommonAddr: 1},
		Objects:    []asdu.InfoObject{{Address: 42, SCS: 1, Value: 1}},
	})
	tr.feed(frame)
	c.OnPacketReady()

	require.Len(t, h.cmds, 1)
	assert.Equal(t, uint32(42), h.cmds[0].Address)
	assert.Equal(t, asdu.ActivationCon, h.cmds[0].Cause)
	assert.Equal(t, uint8(1), h.cmds[0].SCS)
}

func TestUnknownTypeDiscarded(t *testing.T) {
	c, tr, h := newTestClient()
	startData(t, c, tr)

	// file transfer types are not implemented
	raw := (&asdu.Identifier{Type: asdu.F_FR_NA_1, Num: 1, Cause: asdu.FileTransfer, CommonAddr: 1}).AppendBinary(nil)
	raw = append(raw, 0, 0, 0, 0)
	apdu := newIFrame(0, 0, raw)
	tr.feed(apdu.MarshalBinary())
	c.OnPacketReady()

	assert.Empty(t, h.data)
	assert.Empty(t, h.cmds)
	assert.True(t, c.IsConnected())
	// the frame is still accounted
	assert.Equal(t, uint16(1)<<1, c.VR())
}

func TestReconnectAlternation(t *testing.T) {
	c, tr, _ := newTestClient(func(o *ClientOption) {
		o.config.SecondaryIPBackup = "192.168.0.11"
	})
	tr.connectErr = ErrUseClosedConnection

	for i := 0; i < 15; i++ {
		c.OnTimerSecond()
	}
	require.Equal(t, []string{"192.168.0.10", "192.168.0.11", "192.168.0.10"}, tr.hosts)
}

func TestReconnectPrimaryOnly(t *testing.T) {
	c, tr, _ := newTestClient()
	tr.connectErr = ErrUseClosedConnection

	for i := 0; i < 10; i++ {
		c.OnTimerSecond()
	}
	require.Equal(t, []string{"192.168.0.10", "192.168.0.10"}, tr.hosts)
}

func TestReconnectSuccessStartsHandshake(t *testing.T) {
	c, tr, h := newTestClient()

	for i := 0; i < 5; i++ {
		c.OnTimerSecond()
	}
	assert.True(t, c.IsConnected())
	assert.Equal(t, 1, h.connects)
	require.Len(t, tr.uFrames(0x07), 1)
}

func TestDisableConnect(t *testing.T) {
	c, tr, h := newTestClient()
	c.OnConnectTCP()
	require.True(t, c.IsConnected())

	c.DisableConnect()
	assert.False(t, c.IsConnected())
	assert.Equal(t, 1, tr.closed)
	assert.Equal(t, 1, h.disconnects)

	for i := 0; i < 10; i++ {
		c.OnTimerSecond()
	}
	assert.Empty(t, tr.hosts)

	c.EnableConnect()
	for i := 0; i < 5; i++ {
		c.OnTimerSecond()
	}
	assert.NotEmpty(t, tr.hosts)
}

func TestSolicitInterrogationGroups(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)

	require.NoError(t, c.SolicitInterrogation(5))
	gi := tr.frames(asdu.C_IC_NA_1)
	require.Len(t, gi, 1)
	// the qualifier of group G is 20+G
	assert.Equal(t, byte(25), gi[0][len(gi[0])-1])

	assert.ErrorIs(t, c.SolicitInterrogation(0), ErrGroupOutOfRange)
	assert.ErrorIs(t, c.SolicitInterrogation(17), ErrGroupOutOfRange)
}

func TestDisconnectClearsState(t *testing.T) {
	c, tr, _ := newTestClient()
	startData(t, c, tr)
	tr.feed(measuredFloat(100, 1.0, 0)(t))
	c.OnPacketReady()
	require.NotZero(t, c.VR())

	c.OnDisconnectTCP()
	assert.False(t, c.IsConnected())
	assert.False(t, c.TxOk())

	// no probe or interrogation fires after the disconnect; reconnect
	// attempts keep failing
	tr.connectErr = ErrUseClosedConnection
	before := len(tr.tx)
	for i := 0; i < 60; i++ {
		c.OnTimerSecond()
	}
	for _, f := range tr.tx[before:] {
		t.Errorf("unexpected frame after disconnect: % x", f)
	}
}

func TestSetters(t *testing.T) {
	c, _, _ := newTestClient()
	c.SetPrimaryAddress(7)
	assert.Equal(t, uint8(7), c.GetPrimaryAddress())
	c.SetSecondaryAddress(0x0102)
	assert.Equal(t, uint16(0x0102), c.GetSecondaryAddress())
	c.SetPort(12404)
	assert.Equal(t, uint16(12404), c.GetPort())
	c.SetSecondaryIP("10.1.1.1")
	c.SetSecondaryIPBackup("10.1.1.2")
	c.SetGIPeriod(60)
	c.SetGIRetryPeriod(10)
}
