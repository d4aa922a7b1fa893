// Copyright (c) 2025-2026, The OT-RadioHAL Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package wpan dissects IEEE 802.15.4 MAC headers, for diagnostics display
// and logging. It decodes up to the addressing fields; payload and IEs are
// not parsed.

package wpan

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

type FrameType = uint16

const (
	FrameTypeBeacon  FrameType = 0
	FrameTypeData    FrameType = 1
	FrameTypeAck     FrameType = 2
	FrameTypeCommand FrameType = 3
)

// Values for both Src and Dst addressing modes, Table 7-3, 802.15.4-2015.
const (
	AddrModeNone     = 0
	AddrModeReserved = 1
	AddrModeShort    = 2
	AddrModeExtended = 3
)

type FrameControl uint16

func (fc FrameControl) String() string {
	return fmt.Sprintf("0x%04x", uint16(fc))
}

func (fc FrameControl) FrameType() FrameType {
	return FrameType(fc & 0x0007)
}

func (fc FrameControl) SecurityEnabled() bool {
	return (fc & 0x0008) != 0
}

func (fc FrameControl) FramePending() bool {
	return (fc & 0x0010) != 0
}

func (fc FrameControl) AckRequest() bool {
	return (fc & 0x0020) != 0
}

func (fc FrameControl) PanidCompression() bool {
	return (fc & 0x0040) != 0
}

func (fc FrameControl) SequenceNumberSuppression() bool {
	return (fc & 0x0100) != 0
}

func (fc FrameControl) IEPresent() bool {
	return (fc & 0x0200) != 0
}

func (fc FrameControl) DestAddrMode() uint16 {
	return uint16((fc & 0x0c00) >> 10)
}

func (fc FrameControl) SourceAddrMode() uint16 {
	return uint16((fc & 0xc000) >> 14)
}

func (fc FrameControl) FrameVersion() uint16 {
	return uint16((fc & 0x3000) >> 12)
}

// HasDestPanIdField applies the 2015 PAN-ID-compression rules, Table 7-2.
func (fc FrameControl) HasDestPanIdField() bool {
	if fc.FrameVersion() <= 1 {
		return fc.DestAddrMode() != AddrModeNone
	}
	dam := fc.DestAddrMode()
	sam := fc.SourceAddrMode()
	if dam == AddrModeExtended && sam == AddrModeExtended {
		return !fc.PanidCompression()
	}
	if dam != AddrModeNone && sam != AddrModeNone {
		return true
	}
	pc := fc.PanidCompression()
	if sam == AddrModeNone && dam != AddrModeNone && !pc {
		return true
	}
	if sam == AddrModeNone && dam == AddrModeNone && pc {
		return true
	}
	return false
}

func (fc FrameControl) HasSourcePanIdField() bool {
	dam := fc.DestAddrMode()
	sam := fc.SourceAddrMode()
	pc := fc.PanidCompression()
	if fc.FrameVersion() <= 1 {
		return sam != AddrModeNone && !pc
	}
	if dam == AddrModeExtended && sam == AddrModeExtended && !pc {
		return false
	}
	if sam == AddrModeNone {
		return false
	}
	return !pc
}

// MacFrame holds the dissected MAC header fields of one PSDU. Address fields
// are valid only for the addressing modes the FrameControl indicates.
type MacFrame struct {
	FrameControl    FrameControl
	Seq             uint8
	DstPanId        uint16
	SrcPanId        uint16
	DstAddrShort    uint16
	SrcAddrShort    uint16
	DstAddrExtended uint64
	SrcAddrExtended uint64
	LengthBytes     uint16
}

func frameTypeName(tp FrameType) string {
	switch tp {
	case FrameTypeBeacon:
		return "BEACON"
	case FrameTypeData:
		return "DATA"
	case FrameTypeAck:
		return "ACK"
	case FrameTypeCommand:
		return "CMD"
	default:
		return "RSVD"
	}
}

func (f *MacFrame) addrString(mode uint16, short uint16, ext uint64) string {
	switch mode {
	case AddrModeShort:
		return fmt.Sprintf("%04x", short)
	case AddrModeExtended:
		return fmt.Sprintf("%016x", ext)
	default:
		return "-"
	}
}

func (f *MacFrame) String() string {
	s := fmt.Sprintf("%s,FC:%s,Seq:%d", frameTypeName(f.FrameControl.FrameType()), f.FrameControl, f.Seq)
	if f.FrameControl.FrameType() == FrameTypeAck && f.FrameControl.FrameVersion() <= 1 {
		return s // imm-acks carry no addressing
	}
	s += fmt.Sprintf(",Src:%s,Dst:%s",
		f.addrString(f.FrameControl.SourceAddrMode(), f.SrcAddrShort, f.SrcAddrExtended),
		f.addrString(f.FrameControl.DestAddrMode(), f.DstAddrShort, f.DstAddrExtended))
	if f.FrameControl.SecurityEnabled() {
		s += ",sec"
	}
	return s
}

// Dissect decodes the MAC header of the given PSDU. Truncated headers and
// reserved frame types return an error.
func Dissect(psdu []byte) (*MacFrame, error) {
	if len(psdu) < 2 {
		return nil, errors.New("psdu shorter than frame control field")
	}

	frame := &MacFrame{LengthBytes: uint16(len(psdu))}
	frame.FrameControl = FrameControl(binary.LittleEndian.Uint16(psdu[:2]))
	if frame.FrameControl.FrameType() > FrameTypeCommand {
		return nil, errors.Errorf("reserved frame type %d", frame.FrameControl.FrameType())
	}

	n := 2
	need := func(k int) bool { return n+k <= len(psdu) }

	if !frame.FrameControl.SequenceNumberSuppression() {
		if !need(1) {
			return nil, errors.New("psdu truncated in sequence number")
		}
		frame.Seq = psdu[n]
		n += 1
	}
	if frame.FrameControl.HasDestPanIdField() {
		if !need(2) {
			return nil, errors.New("psdu truncated in destination pan id")
		}
		frame.DstPanId = binary.LittleEndian.Uint16(psdu[n : n+2])
		n += 2
	}

	switch frame.FrameControl.DestAddrMode() {
	case AddrModeExtended:
		if !need(8) {
			return nil, errors.New("psdu truncated in destination address")
		}
		frame.DstAddrExtended = binary.LittleEndian.Uint64(psdu[n : n+8])
		n += 8
	case AddrModeShort:
		if !need(2) {
			return nil, errors.New("psdu truncated in destination address")
		}
		frame.DstAddrShort = binary.LittleEndian.Uint16(psdu[n : n+2])
		n += 2
	}

	if frame.FrameControl.HasSourcePanIdField() {
		if !need(2) {
			return nil, errors.New("psdu truncated in source pan id")
		}
		frame.SrcPanId = binary.LittleEndian.Uint16(psdu[n : n+2])
		n += 2
	}

	switch frame.FrameControl.SourceAddrMode() {
	case AddrModeExtended:
		if !need(8) {
			return nil, errors.New("psdu truncated in source address")
		}
		frame.SrcAddrExtended = binary.LittleEndian.Uint64(psdu[n : n+8])
	case AddrModeShort:
		if !need(2) {
			return nil, errors.New("psdu truncated in source address")
		}
		frame.SrcAddrShort = binary.LittleEndian.Uint16(psdu[n : n+2])
	}

	return frame, nil
}
