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

// IEEE 802.15.4-2015 MAC frame header accessors, the Go counterpart of the
// OpenThread utils/mac_frame helpers. All offsets are into RadioFrame.Psdu
// (no PHR length byte; len(Psdu) is the frame length).

package types

import (
	"bytes"
	"encoding/binary"
)

// Frame Control Field bits (FCF interpreted as little-endian uint16).
const (
	fcfFrameTypeMask   = 0x0007
	fcfFrameTypeAck    = 0x0002
	fcfSecurityEnabled = 1 << 3
	fcfFramePending    = 1 << 4
	fcfAckRequest      = 1 << 5
	fcfPanidCompressed = 1 << 6
	fcfSeqSuppressed   = 1 << 8
	fcfIePresent       = 1 << 9
	fcfDstAddrMask     = 0x0c00
	fcfDstAddrShort    = 0x0800
	fcfDstAddrExt      = 0x0c00
	fcfVersionMask     = 0x3000
	fcfVersion2015     = 0x2000
	fcfSrcAddrMask     = 0xc000
	fcfSrcAddrShort    = 0x8000
	fcfSrcAddrExt      = 0xc000
)

// Auxiliary security header, security control byte.
const (
	secLevelMask        = 0x07
	secKeyIdModeMask    = 0x18
	secKeyIdMode1       = 0x08
	secFrameCounterSupp = 0x20
)

// FcsSize is the size of the trailing frame check sequence included in the
// PSDU length.
const FcsSize = 2

// MIC length in bytes per security level 1..3 / 5..7.
func MicSize(secLevel uint8) int {
	switch secLevel & 0x03 {
	case 0:
		return 0
	case 1:
		return 4
	case 2:
		return 8
	default:
		return 16
	}
}

// Header IE constants. The CSL IE header is the fixed two-byte encoding of
// {length=4, element id=0x1a}, transmitted low byte first.
const (
	IeHeaderSize            = 2
	CslIeSize               = 4
	CslIeHeaderLo           = 0x04
	CslIeHeaderHi           = 0x0d
	AckIeMaxSize            = 16
	VendorIeHeaderLen       = 6 // IE header + OUI + subtype
	EnhProbingIeDataMaxSize = 2
)

// ThreadVendorOui is the Thread Group OUI used in vendor-specific IEs,
// transmitted little-endian.
var threadVendorOui = []byte{0x9b, 0xb8, 0xea}

const vendorIeSubtypeProbing = 1

func fcf(psdu []byte) uint16 {
	return binary.LittleEndian.Uint16(psdu)
}

func (f *RadioFrame) IsAckRequested() bool {
	return len(f.Psdu) >= 2 && fcf(f.Psdu)&fcfAckRequest != 0
}

func (f *RadioFrame) IsSecurityEnabled() bool {
	return len(f.Psdu) >= 2 && fcf(f.Psdu)&fcfSecurityEnabled != 0
}

func (f *RadioFrame) IsFramePending() bool {
	return len(f.Psdu) >= 2 && fcf(f.Psdu)&fcfFramePending != 0
}

func (f *RadioFrame) IsVersion2015() bool {
	return len(f.Psdu) >= 2 && fcf(f.Psdu)&fcfVersionMask == fcfVersion2015
}

func (f *RadioFrame) IsAck() bool {
	return len(f.Psdu) >= 2 && fcf(f.Psdu)&fcfFrameTypeMask == fcfFrameTypeAck
}

func addrSize(mode uint16, shortBits uint16, extBits uint16) int {
	switch mode {
	case shortBits:
		return ShortAddressSize
	case extBits:
		return ExtAddressSize
	default:
		return 0
	}
}

// securityHeaderOffset returns the offset of the auxiliary security header in
// Psdu, or -1 when the frame carries no security header or is malformed.
//
// PAN ID presence follows the pre-2015 rules (dst PAN present with a dst
// address, src PAN elided under PAN ID compression), which covers all frames
// the Thread stack hands to this platform.
func (f *RadioFrame) securityHeaderOffset() int {
	if !f.IsSecurityEnabled() {
		return -1
	}

	fc := fcf(f.Psdu)
	offset := 2
	if fc&fcfSeqSuppressed == 0 {
		offset++
	}

	dstSize := addrSize(fc&fcfDstAddrMask, fcfDstAddrShort, fcfDstAddrExt)
	srcSize := addrSize(fc&fcfSrcAddrMask, fcfSrcAddrShort, fcfSrcAddrExt)

	if dstSize > 0 {
		offset += 2 + dstSize // dst PAN + dst address
	}
	if srcSize > 0 {
		if fc&fcfPanidCompressed == 0 {
			offset += 2
		}
		offset += srcSize
	}

	if offset >= len(f.Psdu) {
		return -1
	}
	return offset
}

func (f *RadioFrame) secControl() (uint8, int) {
	offset := f.securityHeaderOffset()
	if offset < 0 {
		return 0, -1
	}
	return f.Psdu[offset], offset
}

func (f *RadioFrame) SecurityLevel() uint8 {
	sc, offset := f.secControl()
	if offset < 0 {
		return 0
	}
	return sc & secLevelMask
}

func (f *RadioFrame) IsKeyIdMode1() bool {
	sc, offset := f.secControl()
	return offset >= 0 && sc&secKeyIdModeMask == secKeyIdMode1
}

// frameCounterOffset assumes the security header is present.
func (f *RadioFrame) frameCounterOffset() int {
	_, offset := f.secControl()
	if offset < 0 {
		return -1
	}
	return offset + 1
}

// keyIdOffset returns the offset of the 1-byte key index for key-id-mode 1.
func (f *RadioFrame) keyIdOffset() int {
	sc, offset := f.secControl()
	if offset < 0 || sc&secKeyIdModeMask != secKeyIdMode1 {
		return -1
	}
	offset++ // security control
	if sc&secFrameCounterSupp == 0 {
		offset += 4
	}
	if offset >= len(f.Psdu) {
		return -1
	}
	return offset
}

// PayloadOffset returns the offset of the first byte after the auxiliary
// security header, or -1 when the frame has no security header. For an
// Enh-ACK this is where the header IEs begin.
func (f *RadioFrame) PayloadOffset() int {
	sc, offset := f.secControl()
	if offset < 0 {
		return -1
	}
	offset++ // security control
	if sc&secFrameCounterSupp == 0 {
		offset += 4
	}
	switch sc & secKeyIdModeMask {
	case secKeyIdMode1:
		offset++
	case 0x10: // mode 2: 4-byte key source + index
		offset += 5
	case 0x18: // mode 3: 8-byte key source + index
		offset += 9
	}
	if offset > len(f.Psdu) {
		return -1
	}
	return offset
}

func (f *RadioFrame) KeyId() uint8 {
	offset := f.keyIdOffset()
	if offset < 0 {
		return 0
	}
	return f.Psdu[offset]
}

func (f *RadioFrame) SetKeyId(keyId uint8) {
	if offset := f.keyIdOffset(); offset >= 0 {
		f.Psdu[offset] = keyId
	}
}

func (f *RadioFrame) FrameCounter() uint32 {
	offset := f.frameCounterOffset()
	if offset < 0 || offset+4 > len(f.Psdu) {
		return 0
	}
	return binary.LittleEndian.Uint32(f.Psdu[offset:])
}

func (f *RadioFrame) SetFrameCounter(counter uint32) {
	offset := f.frameCounterOffset()
	if offset >= 0 && offset+4 <= len(f.Psdu) {
		binary.LittleEndian.PutUint32(f.Psdu[offset:], counter)
	}
}

// DstAddr extracts the destination address, used for per-destination Enh-ACK
// probing IE data.
func (f *RadioFrame) DstAddr() MacAddress {
	var addr MacAddress
	if len(f.Psdu) < 2 {
		return addr
	}

	fc := fcf(f.Psdu)
	offset := 2
	if fc&fcfSeqSuppressed == 0 {
		offset++
	}
	offset += 2 // dst PAN

	switch fc & fcfDstAddrMask {
	case fcfDstAddrShort:
		if offset+ShortAddressSize <= len(f.Psdu) {
			addr.Type = MacAddressTypeShort
			addr.Short = binary.LittleEndian.Uint16(f.Psdu[offset:])
		}
	case fcfDstAddrExt:
		if offset+ExtAddressSize <= len(f.Psdu) {
			addr.Type = MacAddressTypeExt
			copy(addr.Ext[:], f.Psdu[offset:])
		}
	}
	return addr
}

// findIe scans the PSDU for a header IE starting with the given two bytes.
// It returns the offset of the IE content, or -1. Scanning is how the radio
// locates IEs injected by the driver's ACK data table, where no offset
// bookkeeping exists.
func (f *RadioFrame) findIe(lo, hi byte) int {
	for i := 2; i+IeHeaderSize <= len(f.Psdu); i++ {
		if f.Psdu[i] == lo && f.Psdu[i+1] == hi {
			return i + IeHeaderSize
		}
	}
	return -1
}

// SetCslIe writes the CSL period and phase into the frame's CSL IE. The
// transmit path records the IE offset in TxInfo at frame construction; ACKs
// built by the driver are located by scanning for the IE header.
func (f *RadioFrame) SetCslIe(period uint16, phase uint16) bool {
	offset := f.TxInfo.CslIeOffset
	if offset == 0 {
		offset = f.findIe(CslIeHeaderLo, CslIeHeaderHi)
	}
	if offset < 0 || offset+CslIeSize > len(f.Psdu) {
		return false
	}
	binary.LittleEndian.PutUint16(f.Psdu[offset:], phase)
	binary.LittleEndian.PutUint16(f.Psdu[offset+2:], period)
	return true
}

// GenerateEnhAckProbingIe renders a Thread vendor-specific header IE carrying
// link-metrics data, as placed into the driver's ACK IE table.
func GenerateEnhAckProbingIe(data []byte) []byte {
	contentLen := len(threadVendorOui) + 1 + len(data)
	// Header IE encoding: bits 0..6 length, bits 7..14 element id 0x00 (vendor).
	header := uint16(contentLen) & 0x7f
	ie := make([]byte, 0, IeHeaderSize+contentLen)
	ie = append(ie, byte(header), byte(header>>8))
	ie = append(ie, threadVendorOui...)
	ie = append(ie, vendorIeSubtypeProbing)
	ie = append(ie, data...)
	return ie
}

// SetEnhAckProbingIe fills in the link-metrics data of a previously reserved
// probing IE, locating it by the vendor OUI.
func (f *RadioFrame) SetEnhAckProbingIe(data []byte) bool {
	idx := bytes.Index(f.Psdu, threadVendorOui)
	if idx < 0 {
		return false
	}
	offset := idx + len(threadVendorOui) + 1
	if offset+len(data) > len(f.Psdu) {
		return false
	}
	copy(f.Psdu[offset:], data)
	return true
}
