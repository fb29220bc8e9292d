// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package asdu

import (
	"encoding/binary"
	"fmt"
	"time"
)

// CP56Time2aSize is the encoded size of a CP56Time2a time tag.
const CP56Time2aSize = 7

// CP56Time2a is the 7-octet absolute time tag. Msec carries milliseconds
// plus seconds*1000 (0..59999). Year is the offset from 2000 and Month is
// 1-based, both as transmitted.
type CP56Time2a struct {
	Msec  uint16
	Min   uint8 // 0..59
	IV    bool  // time invalid
	Hour  uint8 // 0..23
	SU    bool  // summer time
	Mday  uint8 // 1..31
	Wday  uint8 // 1..7, 0 when unused
	Month uint8 // 1..12
	Year  uint8 // 0..99, offset from 2000
}

// ParseCP56Time2a decodes a time tag from 7 bytes.
func ParseCP56Time2a(data []byte) CP56Time2a {
	return CP56Time2a{
		Msec:  binary.LittleEndian.Uint16(data[0:2]),
		Min:   data[2] & 0x3f,
		IV:    data[2]&0x80 != 0,
		Hour:  data[3] & 0x1f,
		SU:    data[3]&0x80 != 0,
		Mday:  data[4] & 0x1f,
		Wday:  data[4] >> 5,
		Month: data[5] & 0x0f,
		Year:  data[6] & 0x7f,
	}
}

// AppendBinary appends the 7-byte encoding of the time tag.
func (sf CP56Time2a) AppendBinary(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint16(buf, sf.Msec)
	b2 := sf.Min & 0x3f
	if sf.IV {
		b2 |= 0x80
	}
	b3 := sf.Hour & 0x1f
	if sf.SU {
		b3 |= 0x80
	}
	return append(buf,
		b2,
		b3,
		sf.Mday&0x1f|sf.Wday<<5,
		sf.Month&0x0f,
		sf.Year&0x7f)
}

// CP56Time2aFromTime converts a wall-clock instant to the wire representation.
func CP56Time2aFromTime(t time.Time) CP56Time2a {
	wday := uint8(t.Weekday())
	if wday == 0 {
		wday = 7 // Sunday
	}
	return CP56Time2a{
		Msec:  uint16(t.Second()*1000 + t.Nanosecond()/int(time.Millisecond)),
		Min:   uint8(t.Minute()),
		Hour:  uint8(t.Hour()),
		Mday:  uint8(t.Day()),
		Wday:  wday,
		Month: uint8(t.Month()),
		Year:  uint8(t.Year() % 100),
		SU:    t.IsDST(),
	}
}

// Time converts the tag to a time.Time in the given location.
// Out-of-range fields are normalised by time.Date: an all-zero tag (month
// and day 0) yields 1999-11-30 00:00:00.
func (sf CP56Time2a) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(2000+int(sf.Year), time.Month(sf.Month), int(sf.Mday),
		int(sf.Hour), int(sf.Min), int(sf.Msec)/1000,
		int(sf.Msec)%1000*int(time.Millisecond), loc)
}

// String renders the tag the way point log lines show it, with the
// invalid and summer-time markers appended when set.
func (sf CP56Time2a) String() string {
	s := fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d.%03d",
		2000+int(sf.Year), sf.Month, sf.Mday, sf.Hour, sf.Min,
		sf.Msec/1000, sf.Msec%1000)
	if sf.IV {
		s += ".iv"
	}
	if sf.SU {
		s += ".su"
	}
	return s
}

// CP16Time2aSize is the encoded size of a CP16Time2a elapsed time.
const CP16Time2aSize = 2

// ParseCP16Time2a decodes an elapsed time in milliseconds.
func ParseCP16Time2a(data []byte) uint16 {
	return binary.LittleEndian.Uint16(data[0:2])
}

// AppendCP16Time2a appends an elapsed time in milliseconds.
func AppendCP16Time2a(buf []byte, msec uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, msec)
}
