// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package asdu implements the application service data units of
// IEC 60870-5-104: the data unit identifier, the information object
// variants used in the control direction and in the monitor direction,
// and the CP56Time2a/CP16Time2a time tags. All multi-byte fields are
// little-endian and bit-fields are packed LSB-first, as on the wire.
package asdu

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// TypeID is the ASDU type identification.
type TypeID uint8

// Type identification values.
const (
	M_UNDEF   TypeID = 0   // not used
	M_SP_NA_1 TypeID = 1   // single point information
	M_SP_TA_1 TypeID = 2   // single point with CP24 time (not supported)
	M_DP_NA_1 TypeID = 3   // double point information
	M_DP_TA_1 TypeID = 4   // double point with CP24 time (not supported)
	M_ST_NA_1 TypeID = 5   // step position
	M_ST_TA_1 TypeID = 6   // step position with CP24 time (not supported)
	M_BO_NA_1 TypeID = 7   // bitstring of 32 bits
	M_BO_TA_1 TypeID = 8   // bitstring with CP24 time (not supported)
	M_ME_NA_1 TypeID = 9   // measured value, normalized
	M_ME_TA_1 TypeID = 10  // normalized with CP24 time (not supported)
	M_ME_NB_1 TypeID = 11  // measured value, scaled
	M_ME_TB_1 TypeID = 12  // scaled with CP24 time (not supported)
	M_ME_NC_1 TypeID = 13  // measured value, short floating point
	M_ME_TC_1 TypeID = 14  // float with CP24 time (not supported)
	M_IT_NA_1 TypeID = 15  // integrated totals
	M_IT_TA_1 TypeID = 16  // integrated totals with CP24 time (not supported)
	M_EP_TA_1 TypeID = 17  // protection event (not supported)
	M_EP_TB_1 TypeID = 18  // packed protection start events (not supported)
	M_EP_TC_1 TypeID = 19  // packed protection output circuit (not supported)
	M_PS_NA_1 TypeID = 20  // packed single point with status change detection
	M_ME_ND_1 TypeID = 21  // measured value, normalized, without quality
	M_SP_TB_1 TypeID = 30  // single point with CP56Time2a
	M_DP_TB_1 TypeID = 31  // double point with CP56Time2a
	M_ST_TB_1 TypeID = 32  // step position with CP56Time2a
	M_BO_TB_1 TypeID = 33  // bitstring with CP56Time2a
	M_ME_TD_1 TypeID = 34  // normalized with CP56Time2a
	M_ME_TE_1 TypeID = 35  // scaled with CP56Time2a
	M_ME_TF_1 TypeID = 36  // float with CP56Time2a
	M_IT_TB_1 TypeID = 37  // integrated totals with CP56Time2a
	M_EP_TD_1 TypeID = 38  // protection event with CP56Time2a
	M_EP_TE_1 TypeID = 39  // packed protection start events with CP56Time2a
	M_EP_TF_1 TypeID = 40  // packed protection output circuit with CP56Time2a
	C_SC_NA_1 TypeID = 45  // single command
	C_DC_NA_1 TypeID = 46  // double command
	C_RC_NA_1 TypeID = 47  // regulating step command
	C_SE_NA_1 TypeID = 48  // set-point command, normalized
	C_SE_NB_1 TypeID = 49  // set-point command, scaled
	C_SE_NC_1 TypeID = 50  // set-point command, short floating point
	C_BO_NA_1 TypeID = 51  // bitstring command (not supported)
	C_SC_TA_1 TypeID = 58  // single command with CP56Time2a
	C_DC_TA_1 TypeID = 59  // double command with CP56Time2a
	C_RC_TA_1 TypeID = 60  // regulating step command with CP56Time2a
	C_SE_TA_1 TypeID = 61  // set-point normalized with CP56Time2a
	C_SE_TB_1 TypeID = 62  // set-point scaled with CP56Time2a
	C_SE_TC_1 TypeID = 63  // set-point float with CP56Time2a
	C_BO_TA_1 TypeID = 64  // bitstring command with CP56Time2a (not supported)
	M_EI_NA_1 TypeID = 70  // end of initialization
	C_IC_NA_1 TypeID = 100 // interrogation command
	C_CI_NA_1 TypeID = 101 // counter interrogation command
	C_RD_NA_1 TypeID = 102 // read command
	C_CS_NA_1 TypeID = 103 // clock synchronization command
	C_TS_NA_1 TypeID = 104 // test command
	C_RP_NA_1 TypeID = 105 // reset process command
	C_CD_NA_1 TypeID = 106 // delay acquisition command
	C_TS_TA_1 TypeID = 107 // test command with CP56Time2a
	P_ME_NA_1 TypeID = 110 // parameter of measured value, normalized
	P_ME_NB_1 TypeID = 111 // parameter of measured value, scaled
	P_ME_NC_1 TypeID = 112 // parameter of measured value, short floating point
	P_AC_NA_1 TypeID = 113 // parameter activation
	F_FR_NA_1 TypeID = 120 // file ready (not supported)
	F_SR_NA_1 TypeID = 121 // section ready (not supported)
	F_SC_NA_1 TypeID = 122 // call directory (not supported)
	F_LS_NA_1 TypeID = 123 // last section (not supported)
	F_FA_NA_1 TypeID = 124 // ack file (not supported)
	F_SG_NA_1 TypeID = 125 // segment (not supported)
	F_DR_TA_1 TypeID = 126 // directory (not supported)
)

var typeIDName = map[TypeID]string{
	M_UNDEF: "M_UNDEF", M_SP_NA_1: "M_SP_NA_1", M_SP_TA_1: "M_SP_TA_1",
	M_DP_NA_1: "M_DP_NA_1", M_DP_TA_1: "M_DP_TA_1", M_ST_NA_1: "M_ST_NA_1",
	M_ST_TA_1: "M_ST_TA_1", M_BO_NA_1: "M_BO_NA_1", M_BO_TA_1: "M_BO_TA_1",
	M_ME_NA_1: "M_ME_NA_1", M_ME_TA_1: "M_ME_TA_1", M_ME_NB_1: "M_ME_NB_1",
	M_ME_TB_1: "M_ME_TB_1", M_ME_NC_1: "M_ME_NC_1", M_ME_TC_1: "M_ME_TC_1",
	M_IT_NA_1: "M_IT_NA_1", M_IT_TA_1: "M_IT_TA_1", M_EP_TA_1: "M_EP_TA_1",
	M_EP_TB_1: "M_EP_TB_1", M_EP_TC_1: "M_EP_TC_1", M_PS_NA_1: "M_PS_NA_1",
	M_ME_ND_1: "M_ME_ND_1", M_SP_TB_1: "M_SP_TB_1", M_DP_TB_1: "M_DP_TB_1",
	M_ST_TB_1: "M_ST_TB_1", M_BO_TB_1: "M_BO_TB_1", M_ME_TD_1: "M_ME_TD_1",
	M_ME_TE_1: "M_ME_TE_1", M_ME_TF_1: "M_ME_TF_1", M_IT_TB_1: "M_IT_TB_1",
	M_EP_TD_1: "M_EP_TD_1", M_EP_TE_1: "M_EP_TE_1", M_EP_TF_1: "M_EP_TF_1",
	C_SC_NA_1: "C_SC_NA_1", C_DC_NA_1: "C_DC_NA_1", C_RC_NA_1: "C_RC_NA_1",
	C_SE_NA_1: "C_SE_NA_1", C_SE_NB_1: "C_SE_NB_1", C_SE_NC_1: "C_SE_NC_1",
	C_BO_NA_1: "C_BO_NA_1", C_SC_TA_1: "C_SC_TA_1", C_DC_TA_1: "C_DC_TA_1",
	C_RC_TA_1: "C_RC_TA_1", C_SE_TA_1: "C_SE_TA_1", C_SE_TB_1: "C_SE_TB_1",
	C_SE_TC_1: "C_SE_TC_1", C_BO_TA_1: "C_BO_TA_1", M_EI_NA_1: "M_EI_NA_1",
	C_IC_NA_1: "C_IC_NA_1", C_CI_NA_1: "C_CI_NA_1", C_RD_NA_1: "C_RD_NA_1",
	C_CS_NA_1: "C_CS_NA_1", C_TS_NA_1: "C_TS_NA_1", C_RP_NA_1: "C_RP_NA_1",
	C_CD_NA_1: "C_CD_NA_1", C_TS_TA_1: "C_TS_TA_1", P_ME_NA_1: "P_ME_NA_1",
	P_ME_NB_1: "P_ME_NB_1", P_ME_NC_1: "P_ME_NC_1", P_AC_NA_1: "P_AC_NA_1",
	F_FR_NA_1: "F_FR_NA_1", F_SR_NA_1: "F_SR_NA_1", F_SC_NA_1: "F_SC_NA_1",
	F_LS_NA_1: "F_LS_NA_1", F_FA_NA_1: "F_FA_NA_1", F_SG_NA_1: "F_SG_NA_1",
	F_DR_TA_1: "F_DR_TA_1",
}

// String returns the standard mnemonic, or the reserved-range label the
// tester log uses for identifiers it has no name for.
func (sf TypeID) String() string {
	if s, ok := typeIDName[sf]; ok {
		return s
	}
	if sf >= 127 {
		return "USER_RESERVED"
	}
	return "STD_RESERVED"
}

// Cause is the cause of transmission (6 bits on the wire).
type Cause uint8

// Cause of transmission values.
const (
	Unused                  Cause = 0
	Periodic                Cause = 1
	Background              Cause = 2
	Spontaneous             Cause = 3
	Initialized             Cause = 4
	Request                 Cause = 5
	Activation              Cause = 6
	ActivationCon           Cause = 7
	Deactivation            Cause = 8
	DeactivationCon         Cause = 9
	ActivationTerm          Cause = 10
	ReturnInfoRemote        Cause = 11
	ReturnInfoLocal         Cause = 12
	FileTransfer            Cause = 13
	InterrogatedByStation   Cause = 20
	InterrogatedByGroup1    Cause = 21
	InterrogatedByGroup16   Cause = 36
	RequestByGeneralCounter Cause = 37
	RequestByGroup1Counter  Cause = 38
	RequestByGroup4Counter  Cause = 41
	UnknownTypeID           Cause = 44
	UnknownCause            Cause = 45
	UnknownCommonAddr       Cause = 46
	UnknownObjAddr          Cause = 47
)

var causeName = map[Cause]string{
	0: "UNUSED", 1: "CYCLIC", 2: "BACKGND", 3: "SPONT", 4: "INIT", 5: "REQ",
	6: "ACT", 7: "ACT_CON", 8: "DEACT", 9: "DEACT_CON", 10: "ACT_TERM",
	11: "RETREM", 12: "RETLOC", 13: "FILE",
	20: "INROGEN", 21: "INRO1", 22: "INRO2", 23: "INRO3", 24: "INRO4",
	25: "INRO5", 26: "INRO6", 27: "INRO7", 28: "INRO8", 29: "INRO9",
	30: "INRO10", 31: "INRO11", 32: "INRO12", 33: "INRO13", 34: "INRO14",
	35: "INRO15", 36: "INRO16",
	37: "REQCOGEN", 38: "REQCO1", 39: "REQCO2", 40: "REQCO3", 41: "REQCO4",
	44: "UNKNOWN_TYPE", 45: "UNKNOWN_CAUSE", 46: "UNKNOWN_ASDU_ADDR",
	47: "UNKNOWN_OBJ_ADDR",
}

// String returns the short form the tester log uses.
func (sf Cause) String() string {
	if s, ok := causeName[sf]; ok {
		return s
	}
	return fmt.Sprintf("COT_%d", uint8(sf))
}

// IsInterrogation reports whether the cause is an interrogation response
// (station or group, causes 20..36).
func (sf Cause) IsInterrogation() bool {
	return sf >= InterrogatedByStation && sf <= InterrogatedByGroup16
}

// IdentifierSize is the encoded size of the data unit identifier:
// type, variable structure qualifier, cause+flags, originator address
// and the two-octet common address.
const IdentifierSize = 6

// ASDUSizeMax bounds a whole ASDU inside an APDU (253 minus the 4 control octets).
const ASDUSizeMax = 249

// Identifier is the data unit identifier heading every ASDU.
type Identifier struct {
	Type     TypeID
	Num      uint8 // number of information objects, 7 bits
	SQ       bool  // sequential object addressing
	Cause    Cause // 6 bits
	Negative bool  // P/N confirmation bit
	Test     bool
	OrigAddr   uint8
	CommonAddr uint16
}

// errors of the asdu codec
var (
	ErrIdentifierShort    = errors.New("asdu: data shorter than identifier")
	ErrTypeNotImplemented = errors.New("asdu: type identification not implemented")
	ErrSizeMismatch       = errors.New("asdu: size does not match object count")
	ErrNumOutOfRange      = errors.New("asdu: number of objects out of range")
	ErrLengthExceeded     = errors.New("asdu: encoded size exceeds maximum")
)

// ParseIdentifier decodes the 6-byte data unit identifier.
func ParseIdentifier(data []byte) (Identifier, error) {
	if len(data) < IdentifierSize {
		return Identifier{}, ErrIdentifierShort
	}
	return Identifier{
		Type:       TypeID(data[0]),
		Num:        data[1] & 0x7f,
		SQ:         data[1]&0x80 != 0,
		Cause:      Cause(data[2] & 0x3f),
		Negative:   data[2]&0x40 != 0,
		Test:       data[2]&0x80 != 0,
		OrigAddr:   data[3],
		CommonAddr: binary.LittleEndian.Uint16(data[4:6]),
	}, nil
}

// AppendBinary appends the encoded identifier.
func (sf Identifier) AppendBinary(buf []byte) []byte {
	b1 := sf.Num & 0x7f
	if sf.SQ {
		b1 |= 0x80
	}
	b2 := uint8(sf.Cause) & 0x3f
	if sf.Negative {
		b2 |= 0x40
	}
	if sf.Test {
		b2 |= 0x80
	}
	buf = append(buf, uint8(sf.Type), b1, b2, sf.OrigAddr)
	return binary.LittleEndian.AppendUint16(buf, sf.CommonAddr)
}

// String renders the summary line the tester logs for every data ASDU.
func (sf Identifier) String() string {
	pn := " POSITIVE"
	if sf.Negative {
		pn = " NEGATIVE"
	}
	test := ""
	if sf.Test {
		test = " TEST"
	}
	sq := 0
	if sf.SQ {
		sq = 1
	}
	return fmt.Sprintf("OA %d CA %d TI TYPE %d:%s CAUSE %d:%s SQ %d ITEMS %d%s%s",
		sf.OrigAddr, sf.CommonAddr, uint8(sf.Type), sf.Type,
		uint8(sf.Cause), sf.Cause, sq, sf.Num, pn, test)
}

// AppendIOA appends a 24-bit information object address, little-endian.
func AppendIOA(buf []byte, addr uint32) []byte {
	return append(buf, byte(addr), byte(addr>>8), byte(addr>>16))
}

// ParseIOA reads a 24-bit information object address, little-endian.
func ParseIOA(data []byte) uint32 {
	return uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
}
