// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package asdu

import "fmt"

// StatusChange is the 32-bit status and status-change word of M_PS_NA_1:
// 16 point states plus 16 change-detection bits.
type StatusChange struct {
	ST uint16
	CD uint16
}

// StartEvents is the SPE field of packed protection start events.
type StartEvents struct {
	GS  bool // general start
	SL1 bool
	SL2 bool
	SL3 bool
	SIE bool // earth current
	SRD bool // reverse direction
}

func parseStartEvents(b byte) StartEvents {
	return StartEvents{
		GS:  b&0x01 != 0,
		SL1: b&0x02 != 0,
		SL2: b&0x04 != 0,
		SL3: b&0x08 != 0,
		SIE: b&0x10 != 0,
		SRD: b&0x20 != 0,
	}
}

func (sf StartEvents) value() byte {
	var b byte
	if sf.GS {
		b |= 0x01
	}
	if sf.SL1 {
		b |= 0x02
	}
	if sf.SL2 {
		b |= 0x04
	}
	if sf.SL3 {
		b |= 0x08
	}
	if sf.SIE {
		b |= 0x10
	}
	if sf.SRD {
		b |= 0x20
	}
	return b
}

// OutputCircuit is the OCI field of packed protection output circuit information.
type OutputCircuit struct {
	GC  bool // general command to output circuit
	CL1 bool
	CL2 bool
	CL3 bool
}

func parseOutputCircuit(b byte) OutputCircuit {
	return OutputCircuit{
		GC:  b&0x01 != 0,
		CL1: b&0x02 != 0,
		CL2: b&0x04 != 0,
		CL3: b&0x08 != 0,
	}
}

func (sf OutputCircuit) value() byte {
	var b byte
	if sf.GC {
		b |= 0x01
	}
	if sf.CL1 {
		b |= 0x02
	}
	if sf.CL2 {
		b |= 0x04
	}
	if sf.CL3 {
		b |= 0x08
	}
	return b
}

// InfoObject is the uniform view of one information object, in either
// direction. Value holds the numeric payload for every variant; the typed
// fields carry the exact wire fields of the variant that produced the
// object, and the remaining fields are left at their zero values.
type InfoObject struct {
	Address  uint32 // 24-bit information object address
	CA       uint16
	Cause    Cause
	Negative bool
	Test     bool
	Type     TypeID

	Value float64

	// monitor direction
	SP   uint8 // single point state
	DP   uint8 // double point state
	BSI  uint32
	STCD StatusChange
	NVA  int16   // normalized value
	SVA  int16   // scaled value
	R32  float32 // short floating point
	BCR  uint32  // binary counter reading
	Seq  uint8   // counter sequence notation
	CY   bool    // counter carry
	CAdj bool    // counter adjusted
	SPE  StartEvents
	OCI  OutputCircuit

	// control direction
	SCS uint8 // single command state
	DCS uint8 // double command state
	RCS uint8 // regulating step command
	QU  uint8 // command qualifier, 5 bits
	QL  uint8 // set-point qualifier, 7 bits
	SE  uint8 // select (1) / execute (0)
	QOI uint8 // qualifier of interrogation
	RQT uint8 // counter interrogation request, 6 bits
	FRZ uint8 // counter interrogation freeze, 2 bits
	QRP uint8 // qualifier of reset process
	QPA uint8 // qualifier of parameter activation
	KPA uint8 // kind of parameter, 6 bits
	POP uint8 // parameter operation flag
	LPC uint8 // local parameter change flag
	TSC uint16 // test sequence counter
	FBP uint16 // fixed test bit pattern
	COI uint8  // cause of initialization

	// quality descriptor
	OV bool // overflow
	BL bool // blocked
	SB bool // substituted
	NT bool // not topical
	IV bool // invalid
	T  bool // transient (step position)
	EI bool // elapsed time invalid

	Elapsed uint16      // CP16Time2a relay time, protection events only
	TimeTag *CP56Time2a // nil for variants without a time tag
}

// QualityString renders the set quality flags the way point log lines show
// them ("ov bl nt sb iv ").
func (sf *InfoObject) QualityString() string {
	s := ""
	if sf.T {
		s += "t "
	}
	if sf.OV {
		s += "ov "
	}
	if sf.BL {
		s += "bl "
	}
	if sf.NT {
		s += "nt "
	}
	if sf.SB {
		s += "sb "
	}
	if sf.IV {
		s += "iv "
	}
	if sf.EI {
		s += "ei "
	}
	return s
}

// qds packs the standard quality descriptor byte (OV in bit 0).
func (sf *InfoObject) qds() byte {
	var b byte
	if sf.OV {
		b |= 0x01
	}
	b |= sf.qualityHighBits()
	return b
}

// qualityHighBits packs BL/SB/NT/IV into bits 4..7.
func (sf *InfoObject) qualityHighBits() byte {
	var b byte
	if sf.BL {
		b |= 0x10
	}
	if sf.SB {
		b |= 0x20
	}
	if sf.NT {
		b |= 0x40
	}
	if sf.IV {
		b |= 0x80
	}
	return b
}

func (sf *InfoObject) setQDS(b byte) {
	sf.OV = b&0x01 != 0
	sf.setQualityHighBits(b)
}

func (sf *InfoObject) setQualityHighBits(b byte) {
	sf.BL = b&0x10 != 0
	sf.SB = b&0x20 != 0
	sf.NT = b&0x40 != 0
	sf.IV = b&0x80 != 0
}

// String gives a compact point rendering used by the log path.
func (sf *InfoObject) String() string {
	if v := sf.Value; v == float64(int64(v)) {
		return fmt.Sprintf("[%d %1.0f %s]", sf.Address, v, sf.QualityString())
	}
	return fmt.Sprintf("[%d %1.3f %s]", sf.Address, sf.Value, sf.QualityString())
}
