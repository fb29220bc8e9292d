// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package asdu

import (
	"encoding/binary"
	"math"
)

// elementSize is the encoded size of one information element, excluding the
// information object address, for every supported type identification.
var elementSize = map[TypeID]int{
	M_SP_NA_1: 1, M_DP_NA_1: 1, M_ST_NA_1: 2, M_BO_NA_1: 5,
	M_ME_NA_1: 3, M_ME_NB_1: 3, M_ME_NC_1: 5, M_IT_NA_1: 5,
	M_PS_NA_1: 5, M_ME_ND_1: 2,
	M_SP_TB_1: 8, M_DP_TB_1: 8, M_ST_TB_1: 9, M_BO_TB_1: 12,
	M_ME_TD_1: 10, M_ME_TE_1: 10, M_ME_TF_1: 12, M_IT_TB_1: 12,
	M_EP_TD_1: 10, M_EP_TE_1: 11, M_EP_TF_1: 11,
	C_SC_NA_1: 1, C_DC_NA_1: 1, C_RC_NA_1: 1,
	C_SE_NA_1: 3, C_SE_NB_1: 3, C_SE_NC_1: 5,
	C_SC_TA_1: 8, C_DC_TA_1: 8, C_RC_TA_1: 8,
	C_SE_TA_1: 10, C_SE_TB_1: 10, C_SE_TC_1: 12,
	M_EI_NA_1: 1,
	C_IC_NA_1: 1, C_CI_NA_1: 1, C_RD_NA_1: 0, C_CS_NA_1: 7,
	C_TS_NA_1: 2, C_RP_NA_1: 1, C_CD_NA_1: 2, C_TS_TA_1: 9,
	P_ME_NA_1: 3, P_ME_NB_1: 3, P_ME_NC_1: 5, P_AC_NA_1: 1,
}

// ElementSize returns the encoded information element size for a type
// identification, and whether the type is supported at all.
func ElementSize(t TypeID) (int, bool) {
	n, ok := elementSize[t]
	return n, ok
}

// ASDU is one application service data unit: the data unit identifier and
// its information objects in the uniform record form.
type ASDU struct {
	Identifier
	Objects []InfoObject
}

// UnmarshalBinary decodes a complete ASDU. Identifier fields are copied
// into every object. Decoding is all or nothing: any structural problem
// returns an error and no objects.
func (sf *ASDU) UnmarshalBinary(data []byte) error {
	id, err := ParseIdentifier(data)
	if err != nil {
		return err
	}
	esize, ok := ElementSize(id.Type)
	if !ok {
		return ErrTypeNotImplemented
	}
	num := int(id.Num)
	expected := IdentifierSize
	if id.SQ {
		if num > 0 {
			expected += 3 + num*esize
		}
	} else {
		expected += num * (3 + esize)
	}
	if len(data) != expected {
		return ErrSizeMismatch
	}

	sf.Identifier = id
	sf.Objects = make([]InfoObject, num)
	offset := IdentifierSize
	var addr uint32
	for i := 0; i < num; i++ {
		if id.SQ {
			if i == 0 {
				addr = ParseIOA(data[offset:])
				offset += 3
			} else {
				addr++
			}
		} else {
			addr = ParseIOA(data[offset:])
			offset += 3
		}
		obj := &sf.Objects[i]
		obj.Address = addr
		obj.CA = id.CommonAddr
		obj.Cause = id.Cause
		obj.Negative = id.Negative
		obj.Test = id.Test
		obj.Type = id.Type
		decodeElement(obj, id.Type, data[offset:offset+esize])
		offset += esize
	}
	return nil
}

// MarshalBinary encodes the ASDU, honouring the SQ flag of the identifier:
// with SQ set a single leading address covers all objects, otherwise each
// object carries its own. Num is taken from the object count.
func (sf *ASDU) MarshalBinary() ([]byte, error) {
	num := len(sf.Objects)
	if num > 127 {
		return nil, ErrNumOutOfRange
	}
	esize, ok := ElementSize(sf.Type)
	if !ok {
		return nil, ErrTypeNotImplemented
	}
	total := IdentifierSize
	if sf.SQ {
		if num > 0 {
			total += 3 + num*esize
		}
	} else {
		total += num * (3 + esize)
	}
	if total > ASDUSizeMax {
		return nil, ErrLengthExceeded
	}

	sf.Num = uint8(num)
	buf := sf.Identifier.AppendBinary(make([]byte, 0, total))
	for i := range sf.Objects {
		obj := &sf.Objects[i]
		if !sf.SQ || i == 0 {
			buf = AppendIOA(buf, obj.Address)
		}
		buf = encodeElement(buf, obj, sf.Type)
	}
	return buf, nil
}

func decodeElement(obj *InfoObject, t TypeID, data []byte) {
	switch t {
	case M_SP_NA_1, M_SP_TB_1:
		obj.SP = data[0] & 0x01
		obj.setQualityHighBits(data[0])
		obj.Value = float64(obj.SP)
		decodeTimeTag(obj, t, data[1:])

	case M_DP_NA_1, M_DP_TB_1:
		obj.DP = data[0] & 0x03
		obj.setQualityHighBits(data[0])
		obj.Value = float64(obj.DP)
		decodeTimeTag(obj, t, data[1:])

	case M_ST_NA_1, M_ST_TB_1:
		obj.Value = float64(data[0] & 0x7f)
		obj.T = data[0]&0x80 != 0
		obj.setQDS(data[1])
		decodeTimeTag(obj, t, data[2:])

	case M_BO_NA_1, M_BO_TB_1:
		obj.BSI = binary.LittleEndian.Uint32(data[0:4])
		obj.Value = float64(obj.BSI)
		obj.setQDS(data[4])
		decodeTimeTag(obj, t, data[5:])

	case M_ME_NA_1, M_ME_TD_1:
		obj.NVA = int16(binary.LittleEndian.Uint16(data[0:2]))
		obj.Value = float64(obj.NVA)
		obj.setQDS(data[2])
		decodeTimeTag(obj, t, data[3:])

	case M_ME_ND_1:
		obj.NVA = int16(binary.LittleEndian.Uint16(data[0:2]))
		obj.Value = float64(obj.NVA)

	case M_ME_NB_1, M_ME_TE_1:
		obj.SVA = int16(binary.LittleEndian.Uint16(data[0:2]))
		obj.Value = float64(obj.SVA)
		obj.setQDS(data[2])
		decodeTimeTag(obj, t, data[3:])

	case M_ME_NC_1, M_ME_TF_1:
		obj.R32 = math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
		obj.Value = float64(obj.R32)
		obj.setQDS(data[4])
		decodeTimeTag(obj, t, data[5:])

	case M_IT_NA_1, M_IT_TB_1:
		obj.BCR = binary.LittleEndian.Uint32(data[0:4])
		obj.Value = float64(obj.BCR)
		obj.Seq = data[4] & 0x1f
		obj.CY = data[4]&0x20 != 0
		obj.CAdj = data[4]&0x40 != 0
		obj.IV = data[4]&0x80 != 0
		decodeTimeTag(obj, t, data[5:])

	case M_PS_NA_1:
		obj.STCD.ST = binary.LittleEndian.Uint16(data[0:2])
		obj.STCD.CD = binary.LittleEndian.Uint16(data[2:4])
		obj.Value = float64(obj.STCD.ST)
		obj.setQDS(data[4])

	case M_EP_TD_1:
		obj.DP = data[0] & 0x03 // event state
		obj.EI = data[0]&0x08 != 0
		obj.setQualityHighBits(data[0])
		obj.Value = float64(obj.DP)
		obj.Elapsed = ParseCP16Time2a(data[1:3])
		decodeTimeTag(obj, t, data[3:])

	case M_EP_TE_1:
		obj.SPE = parseStartEvents(data[0])
		obj.EI = data[1]&0x08 != 0
		obj.setQualityHighBits(data[1])
		if obj.SPE.GS {
			obj.Value = 1
		}
		obj.Elapsed = ParseCP16Time2a(data[2:4])
		decodeTimeTag(obj, t, data[4:])

	case M_EP_TF_1:
		obj.OCI = parseOutputCircuit(data[0])
		obj.EI = data[1]&0x08 != 0
		obj.setQualityHighBits(data[1])
		if obj.OCI.GC {
			obj.Value = 1
		}
		obj.Elapsed = ParseCP16Time2a(data[2:4])
		decodeTimeTag(obj, t, data[4:])

	case C_SC_NA_1, C_SC_TA_1:
		obj.SCS = data[0] & 0x01
		obj.QU = data[0] >> 2 & 0x1f
		obj.SE = data[0] >> 7
		obj.Value = float64(obj.SCS)
		decodeTimeTag(obj, t, data[1:])

	case C_DC_NA_1, C_DC_TA_1:
		obj.DCS = data[0] & 0x03
		obj.QU = data[0] >> 2 & 0x1f
		obj.SE = data[0] >> 7
		obj.Value = float64(obj.DCS)
		decodeTimeTag(obj, t, data[1:])

	case C_RC_NA_1, C_RC_TA_1:
		obj.RCS = data[0] & 0x03
		obj.QU = data[0] >> 2 & 0x1f
		obj.SE = data[0] >> 7
		obj.Value = float64(obj.RCS)
		decodeTimeTag(obj, t, data[1:])

	case C_SE_NA_1, C_SE_TA_1:
		obj.NVA = int16(binary.LittleEndian.Uint16(data[0:2]))
		obj.QL = data[2] & 0x7f
		obj.SE = data[2] >> 7
		obj.Value = float64(obj.NVA)
		decodeTimeTag(obj, t, data[3:])

	case C_SE_NB_1, C_SE_TB_1:
		obj.SVA = int16(binary.LittleEndian.Uint16(data[0:2]))
		obj.QL = data[2] & 0x7f
		obj.SE = data[2] >> 7
		obj.Value = float64(obj.SVA)
		decodeTimeTag(obj, t, data[3:])

	case C_SE_NC_1, C_SE_TC_1:
		obj.R32 = math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
		obj.QL = data[4] & 0x7f
		obj.SE = data[4] >> 7
		obj.Value = float64(obj.R32)
		decodeTimeTag(obj, t, data[5:])

	case M_EI_NA_1:
		obj.COI = data[0]
		obj.Value = float64(data[0] & 0x7f)

	case C_IC_NA_1:
		obj.QOI = data[0]
		obj.Value = float64(obj.QOI)

	case C_CI_NA_1:
		obj.RQT = data[0] & 0x3f
		obj.FRZ = data[0] >> 6
		obj.Value = float64(obj.RQT)

	case C_RD_NA_1:
		// address only

	case C_CS_NA_1:
		decodeTimeTag(obj, t, data)

	case C_TS_NA_1:
		obj.FBP = binary.LittleEndian.Uint16(data[0:2])

	case C_RP_NA_1:
		obj.QRP = data[0]
		obj.Value = float64(obj.QRP)

	case C_CD_NA_1:
		obj.Elapsed = ParseCP16Time2a(data[0:2])
		obj.Value = float64(obj.Elapsed)

	case C_TS_TA_1:
		obj.TSC = binary.LittleEndian.Uint16(data[0:2])
		decodeTimeTag(obj, t, data[2:])

	case P_ME_NA_1:
		obj.NVA = int16(binary.LittleEndian.Uint16(data[0:2]))
		obj.Value = float64(obj.NVA)
		decodeQPM(obj, data[2])

	case P_ME_NB_1:
		obj.SVA = int16(binary.LittleEndian.Uint16(data[0:2]))
		obj.Value = float64(obj.SVA)
		decodeQPM(obj, data[2])

	case P_ME_NC_1:
		obj.R32 = math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
		obj.Value = float64(obj.R32)
		decodeQPM(obj, data[4])

	case P_AC_NA_1:
		obj.QPA = data[0]
		obj.QU = data[0]
		obj.Value = float64(obj.QPA)
	}
}

// decodeTimeTag attaches the trailing CP56Time2a for the time-tagged variants.
func decodeTimeTag(obj *InfoObject, t TypeID, data []byte) {
	switch t {
	case M_SP_TB_1, M_DP_TB_1, M_ST_TB_1, M_BO_TB_1, M_ME_TD_1, M_ME_TE_1,
		M_ME_TF_1, M_IT_TB_1, M_EP_TD_1, M_EP_TE_1, M_EP_TF_1,
		C_SC_TA_1, C_DC_TA_1, C_RC_TA_1, C_SE_TA_1, C_SE_TB_1, C_SE_TC_1,
		C_CS_NA_1, C_TS_TA_1:
		tt := ParseCP56Time2a(data[0:CP56Time2aSize])
		obj.TimeTag = &tt
	}
}

func decodeQPM(obj *InfoObject, b byte) {
	obj.KPA = b & 0x3f
	obj.POP = b >> 6 & 0x01
	obj.LPC = b >> 7
	obj.QU = obj.KPA
}

func encodeElement(buf []byte, obj *InfoObject, t TypeID) []byte {
	switch t {
	case M_SP_NA_1, M_SP_TB_1:
		buf = append(buf, obj.SP&0x01|obj.qualityHighBits())
		buf = appendTimeTag(buf, obj, t)

	case M_DP_NA_1, M_DP_TB_1:
		buf = append(buf, obj.DP&0x03|obj.qualityHighBits())
		buf = appendTimeTag(buf, obj, t)

	case M_ST_NA_1, M_ST_TB_1:
		vti := byte(uint8(obj.Value)) & 0x7f
		if obj.T {
			vti |= 0x80
		}
		buf = append(buf, vti, obj.qds())
		buf = appendTimeTag(buf, obj, t)

	case M_BO_NA_1, M_BO_TB_1:
		buf = binary.LittleEndian.AppendUint32(buf, obj.BSI)
		buf = append(buf, obj.qds())
		buf = appendTimeTag(buf, obj, t)

	case M_ME_NA_1, M_ME_TD_1:
		buf = binary.LittleEndian.AppendUint16(buf, uint16(obj.NVA))
		buf = append(buf, obj.qds())
		buf = appendTimeTag(buf, obj, t)

	case M_ME_ND_1:
		buf = binary.LittleEndian.AppendUint16(buf, uint16(obj.NVA))

	case M_ME_NB_1, M_ME_TE_1:
		buf = binary.LittleEndian.AppendUint16(buf, uint16(obj.SVA))
		buf = append(buf, obj.qds())
		buf = appendTimeTag(buf, obj, t)

	case M_ME_NC_1, M_ME_TF_1:
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(obj.R32))
		buf = append(buf, obj.qds())
		buf = appendTimeTag(buf, obj, t)

	case M_IT_NA_1, M_IT_TB_1:
		buf = binary.LittleEndian.AppendUint32(buf, obj.BCR)
		b := obj.Seq & 0x1f
		if obj.CY {
			b |= 0x20
		}
		if obj.CAdj {
			b |= 0x40
		}
		if obj.IV {
			b |= 0x80
		}
		buf = append(buf, b)
		buf = appendTimeTag(buf, obj, t)

	case M_PS_NA_1:
		buf = binary.LittleEndian.AppendUint16(buf, obj.STCD.ST)
		buf = binary.LittleEndian.AppendUint16(buf, obj.STCD.CD)
		buf = append(buf, obj.qds())

	case M_EP_TD_1:
		b := obj.DP & 0x03
		if obj.EI {
			b |= 0x08
		}
		buf = append(buf, b|obj.qualityHighBits())
		buf = AppendCP16Time2a(buf, obj.Elapsed)
		buf = appendTimeTag(buf, obj, t)

	case M_EP_TE_1:
		b := byte(0)
		if obj.EI {
			b |= 0x08
		}
		buf = append(buf, obj.SPE.value(), b|obj.qualityHighBits())
		buf = AppendCP16Time2a(buf, obj.Elapsed)
		buf = appendTimeTag(buf, obj, t)

	case M_EP_TF_1:
		b := byte(0)
		if obj.EI {
			b |= 0x08
		}
		buf = append(buf, obj.OCI.value(), b|obj.qualityHighBits())
		buf = AppendCP16Time2a(buf, obj.Elapsed)
		buf = appendTimeTag(buf, obj, t)

	case C_SC_NA_1, C_SC_TA_1:
		buf = append(buf, obj.SCS&0x01|(obj.QU&0x1f)<<2|obj.SE<<7)
		buf = appendTimeTag(buf, obj, t)

	case C_DC_NA_1, C_DC_TA_1:
		buf = append(buf, obj.DCS&0x03|(obj.QU&0x1f)<<2|obj.SE<<7)
		buf = appendTimeTag(buf, obj, t)

	case C_RC_NA_1, C_RC_TA_1:
		buf = append(buf, obj.RCS&0x03|(obj.QU&0x1f)<<2|obj.SE<<7)
		buf = appendTimeTag(buf, obj, t)

	case C_SE_NA_1, C_SE_TA_1:
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(obj.Value)))
		buf = append(buf, obj.QL&0x7f|obj.SE<<7)
		buf = appendTimeTag(buf, obj, t)

	case C_SE_NB_1, C_SE_TB_1:
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(obj.Value)))
		buf = append(buf, obj.QL&0x7f|obj.SE<<7)
		buf = appendTimeTag(buf, obj, t)

	case C_SE_NC_1, C_SE_TC_1:
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(obj.Value)))
		buf = append(buf, obj.QL&0x7f|obj.SE<<7)
		buf = appendTimeTag(buf, obj, t)

	case M_EI_NA_1:
		buf = append(buf, obj.COI)

	case C_IC_NA_1:
		buf = append(buf, obj.QOI)

	case C_CI_NA_1:
		buf = append(buf, obj.RQT&0x3f|obj.FRZ<<6)

	case C_RD_NA_1:
		// address only

	case C_CS_NA_1:
		buf = appendTimeTag(buf, obj, t)

	case C_TS_NA_1:
		buf = binary.LittleEndian.AppendUint16(buf, obj.FBP)

	case C_RP_NA_1:
		buf = append(buf, obj.QRP)

	case C_CD_NA_1:
		buf = AppendCP16Time2a(buf, obj.Elapsed)

	case C_TS_TA_1:
		buf = binary.LittleEndian.AppendUint16(buf, obj.TSC)
		buf = appendTimeTag(buf, obj, t)

	case P_ME_NA_1, P_ME_NB_1:
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(obj.Value)))
		buf = append(buf, obj.KPA&0x3f|(obj.POP&0x01)<<6|obj.LPC<<7)

	case P_ME_NC_1:
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(obj.Value)))
		buf = append(buf, obj.KPA&0x3f|(obj.POP&0x01)<<6|obj.LPC<<7)

	case P_AC_NA_1:
		buf = append(buf, obj.QPA)
	}
	return buf
}

// appendTimeTag writes the trailing CP56Time2a for the time-tagged variants.
// A nil tag encodes as all zeros.
func appendTimeTag(buf []byte, obj *InfoObject, t TypeID) []byte {
	switch t {
	case M_SP_TB_1, M_DP_TB_1, M_ST_TB_1, M_BO_TB_1, M_ME_TD_1, M_ME_TE_1,
		M_ME_TF_1, M_IT_TB_1, M_EP_TD_1, M_EP_TE_1, M_EP_TF_1,
		C_SC_TA_1, C_DC_TA_1, C_RC_TA_1, C_SE_TA_1, C_SE_TB_1, C_SE_TC_1,
		C_CS_NA_1, C_TS_TA_1:
		if obj.TimeTag == nil {
			return append(buf, make([]byte, CP56Time2aSize)...)
		}
		return obj.TimeTag.AppendBinary(buf)
	}
	return buf
}
