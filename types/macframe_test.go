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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// securedDataFrame builds a data frame with dst/src short addressing, PAN ID
// compression and a key-id-mode-1 security header (level 5).
func securedDataFrame() *RadioFrame {
	return &RadioFrame{Psdu: []byte{
		0x69, 0x88, // FCF: data, sec, AR, pan id compression, short/short
		0x42,       // seq
		0xce, 0xfa, // dst pan
		0x34, 0x12, // dst short
		0x78, 0x56, // src short
		0x0d,                   // sec ctl: level 5, key id mode 1
		0x0a, 0x00, 0x00, 0x00, // frame counter 10
		0x07,       // key id
		0xde, 0xad, // payload
		0x00, 0x00, // FCS
	}}
}

func TestFcfFlags(t *testing.T) {
	f := securedDataFrame()
	assert.True(t, f.IsAckRequested())
	assert.True(t, f.IsSecurityEnabled())
	assert.False(t, f.IsFramePending())
	assert.False(t, f.IsVersion2015())
	assert.False(t, f.IsAck())

	ack := &RadioFrame{Psdu: []byte{0x02, 0x20, 0x42, 0x00, 0x00}}
	assert.True(t, ack.IsAck())
	assert.True(t, ack.IsVersion2015())
	assert.False(t, ack.IsSecurityEnabled())

	empty := &RadioFrame{}
	assert.False(t, empty.IsAckRequested())
	assert.False(t, empty.IsAck())
}

func TestSecurityHeaderAccessors(t *testing.T) {
	f := securedDataFrame()

	assert.Equal(t, uint8(5), f.SecurityLevel())
	assert.True(t, f.IsKeyIdMode1())
	assert.Equal(t, uint8(7), f.KeyId())
	assert.Equal(t, uint32(10), f.FrameCounter())
	assert.Equal(t, 15, f.PayloadOffset())

	f.SetKeyId(9)
	assert.Equal(t, uint8(9), f.KeyId())
	f.SetFrameCounter(0xdeadbeef)
	assert.Equal(t, uint32(0xdeadbeef), f.FrameCounter())

	// no security header: every accessor degrades to a zero value
	plain := &RadioFrame{Psdu: []byte{0x61, 0x88, 0x42, 0xce, 0xfa, 0x34, 0x12, 0x78, 0x56, 0x00, 0x00}}
	assert.Equal(t, uint8(0), plain.SecurityLevel())
	assert.False(t, plain.IsKeyIdMode1())
	assert.Equal(t, uint8(0), plain.KeyId())
	assert.Equal(t, uint32(0), plain.FrameCounter())
	assert.Equal(t, -1, plain.PayloadOffset())
}

func TestMicSize(t *testing.T) {
	assert.Equal(t, 0, MicSize(0))
	assert.Equal(t, 4, MicSize(1))
	assert.Equal(t, 8, MicSize(2))
	assert.Equal(t, 16, MicSize(3))
	assert.Equal(t, 0, MicSize(4))
	assert.Equal(t, 4, MicSize(5))
	assert.Equal(t, 8, MicSize(6))
	assert.Equal(t, 16, MicSize(7))
}

func TestDstAddr(t *testing.T) {
	f := securedDataFrame()
	addr := f.DstAddr()
	assert.Equal(t, MacAddressTypeShort, addr.Type)
	assert.Equal(t, uint16(0x1234), addr.Short)

	ext := &RadioFrame{Psdu: []byte{
		0x61, 0x8c, // dst ext, src short
		0x42,
		0xce, 0xfa,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x78, 0x56,
		0x00, 0x00,
	}}
	addr = ext.DstAddr()
	assert.Equal(t, MacAddressTypeExt, addr.Type)
	assert.Equal(t, ExtAddress{1, 2, 3, 4, 5, 6, 7, 8}, addr.Ext)

	none := &RadioFrame{Psdu: []byte{0x02, 0x00, 0x42, 0x00, 0x00}}
	assert.Equal(t, MacAddressTypeNone, none.DstAddr().Type)
}

func TestSetCslIeByScan(t *testing.T) {
	// Enh-ACK with a zeroed CSL IE at offset 5
	ack := &RadioFrame{Psdu: []byte{
		0x02, 0x22, // FCF: ack, version 2, IE present
		0x42,
		CslIeHeaderLo, CslIeHeaderHi,
		0x00, 0x00, 0x00, 0x00, // CSL phase + period placeholder
		0x00, 0x00, // FCS
	}}
	assert.True(t, ack.SetCslIe(0x0271, 0x0020))
	assert.Equal(t, []byte{0x20, 0x00, 0x71, 0x02}, ack.Psdu[5:9])

	noIe := &RadioFrame{Psdu: []byte{0x02, 0x20, 0x42, 0x00, 0x00}}
	assert.False(t, noIe.SetCslIe(1, 1))
}

func TestEnhAckProbingIe(t *testing.T) {
	ie := GenerateEnhAckProbingIe([]byte{0x00, 0x00})
	assert.Equal(t, []byte{0x06, 0x00, 0x9b, 0xb8, 0xea, 0x01, 0x00, 0x00}, ie)

	ack := &RadioFrame{Psdu: append([]byte{0x02, 0x22, 0x42}, append(ie, 0x00, 0x00)...)}
	assert.True(t, ack.SetEnhAckProbingIe([]byte{0x50, 0x60}))
	assert.Equal(t, []byte{0x50, 0x60}, ack.Psdu[9:11])

	plain := &RadioFrame{Psdu: []byte{0x02, 0x20, 0x42, 0x00, 0x00}}
	assert.False(t, plain.SetEnhAckProbingIe([]byte{0x50}))
}
