// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package cs104

import (
	"encoding/binary"
	"fmt"
)

// APCI constants.
const (
	// startByte opens every APDU
	startByte byte = 0x68
	// APDULenMin is the minimum value of the length octet (the four control octets)
	APDULenMin = 4
	// APDULenMax is the maximum value of the length octet
	APDULenMax = 253
	// APCISize is the fixed header size: start, length and two control words
	APCISize = 6
	// IFrameLenMin is the minimum length octet accepted for an I frame (the four
	// control octets, the six-octet ASDU header and two more octets)
	IFrameLenMin = 12
)

// Unnumbered control function words and the supervisory word, as the value of
// the first 16-bit control field with the second control field zero.
const (
	uStartDtAct  uint16 = 0x0007
	uStartDtCon  uint16 = 0x000B
	uStopDtAct   uint16 = 0x0013
	uStopDtCon   uint16 = 0x0023
	uTestFrAct   uint16 = 0x0043
	uTestFrCon   uint16 = 0x0083
	sSupervisory uint16 = 0x0001
)

// FrameFormat is the APDU frame format, taken from the low two bits of the
// first control octet.
type FrameFormat byte

// Frame formats.
const (
	FrameI FrameFormat = iota // numbered information transfer
	FrameS                    // supervisory acknowledge
	FrameU                    // unnumbered control
)

func (sf FrameFormat) String() string {
	switch sf {
	case FrameI:
		return "I"
	case FrameS:
		return "S"
	default:
		return "U"
	}
}

// APDU is one application protocol data unit. NS and NR are the two 16-bit
// little-endian control fields: for I frames the shifted send and receive
// sequence numbers, for S frames the supervisory word and the shifted
// receive number, for U frames the one-hot command word and zero.
type APDU struct {
	NS   uint16
	NR   uint16
	ASDU []byte // raw ASDU octets, empty for S and U frames
}

// Format returns the frame format encoded in the low bits of NS.
func (sf *APDU) Format() FrameFormat {
	switch {
	case sf.NS&0x01 == 0:
		return FrameI
	case sf.NS&0x03 == 1:
		return FrameS
	default:
		return FrameU
	}
}

// MarshalBinary encodes the APDU into its length+2 wire octets.
func (sf *APDU) MarshalBinary() []byte {
	buf := make([]byte, 0, APCISize+len(sf.ASDU))
	buf = append(buf, startByte, byte(APDULenMin+len(sf.ASDU)))
	buf = binary.LittleEndian.AppendUint16(buf, sf.NS)
	buf = binary.LittleEndian.AppendUint16(buf, sf.NR)
	return append(buf, sf.ASDU...)
}

// ParseAPDU decodes a complete frame (start octet through last ASDU octet).
// The slice must hold exactly length+2 octets as assembled by the receive
// path; the ASDU slice aliases data.
func ParseAPDU(data []byte) (APDU, error) {
	if len(data) < APCISize || data[0] != startByte {
		return APDU{}, ErrInvalidFrame
	}
	if int(data[1])+2 != len(data) || data[1] < APDULenMin {
		return APDU{}, ErrInvalidFrame
	}
	apdu := APDU{
		NS:   binary.LittleEndian.Uint16(data[2:4]),
		NR:   binary.LittleEndian.Uint16(data[4:6]),
		ASDU: data[6:],
	}
	if apdu.Format() == FrameI && data[1] < IFrameLenMin {
		return APDU{}, ErrInvalidFrame
	}
	return apdu, nil
}

func newUFrame(cmd uint16) APDU {
	return APDU{NS: cmd}
}

func newSFrame(vr uint16) APDU {
	return APDU{NS: sSupervisory, NR: vr}
}

func newIFrame(vs, vr uint16, asduData []byte) APDU {
	return APDU{NS: vs, NR: vr, ASDU: asduData}
}

// String gives a short frame description for log lines.
func (sf *APDU) String() string {
	switch sf.Format() {
	case FrameI:
		return fmt.Sprintf("I<NS=%d NR=%d len=%d>", sf.NS>>1, sf.NR>>1, len(sf.ASDU))
	case FrameS:
		return fmt.Sprintf("S<NR=%d>", sf.NR>>1)
	default:
		return fmt.Sprintf("U<0x%02X>", sf.NS)
	}
}
