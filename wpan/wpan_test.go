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

package wpan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDissectImmAck(t *testing.T) {
	frame, err := Dissect([]byte{0x02, 0x00, 0x8e, 0xaa, 0xbb})
	require.Nil(t, err)
	assert.Equal(t, FrameTypeAck, frame.FrameControl.FrameType())
	assert.Equal(t, uint8(0x8e), frame.Seq)
	assert.Equal(t, "ACK,FC:0x0002,Seq:142", frame.String())
}

func TestDissectDataShortAddr(t *testing.T) {
	// dst pan + dst short + src short, pan id compression
	psdu := []byte{
		0x61, 0x88, // FCF: data, sec off, AR, pan id compression, short/short
		0x42,       // seq
		0xce, 0xfa, // dst pan 0xface
		0x34, 0x12, // dst 0x1234
		0x78, 0x56, // src 0x5678
		0x00, 0x00, // payload + FCS stub
	}
	frame, err := Dissect(psdu)
	require.Nil(t, err)
	assert.Equal(t, FrameTypeData, frame.FrameControl.FrameType())
	assert.True(t, frame.FrameControl.AckRequest())
	assert.Equal(t, uint16(0xface), frame.DstPanId)
	assert.Equal(t, uint16(0x1234), frame.DstAddrShort)
	assert.Equal(t, uint16(0x5678), frame.SrcAddrShort)
	assert.Equal(t, uint16(len(psdu)), frame.LengthBytes)
	assert.Equal(t, "DATA,FC:0x8861,Seq:66,Src:5678,Dst:1234", frame.String())
}

func TestDissectVersion2015ExtExt(t *testing.T) {
	// version 2015, ext/ext, pan id compression: no pan id fields at all
	psdu := []byte{
		0x41, 0xec, // FCF: data, pan id compression, version 2, ext/ext
		0x01,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, // dst ext
		0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, // src ext
	}
	frame, err := Dissect(psdu)
	require.Nil(t, err)
	assert.False(t, frame.FrameControl.HasDestPanIdField())
	assert.False(t, frame.FrameControl.HasSourcePanIdField())
	assert.Equal(t, uint64(0x0807060504030201), frame.DstAddrExtended)
	assert.Equal(t, uint64(0x1817161514131211), frame.SrcAddrExtended)
}

func TestDissectSecuredEnhAck(t *testing.T) {
	psdu := []byte{
		0x0a, 0x20, // FCF: ack, sec on, version 2, no addressing
		0x55,
		0x0d,                   // aux sec: level 5, key id mode 1
		0x64, 0x00, 0x00, 0x00, // frame counter
		0x05, // key id
	}
	frame, err := Dissect(psdu)
	require.Nil(t, err)
	assert.Equal(t, FrameTypeAck, frame.FrameControl.FrameType())
	assert.True(t, frame.FrameControl.SecurityEnabled())
	assert.Equal(t, uint16(2), frame.FrameControl.FrameVersion())
	assert.Contains(t, frame.String(), ",sec")
}

func TestDissectErrors(t *testing.T) {
	_, err := Dissect([]byte{0x61})
	assert.NotNil(t, err)

	_, err = Dissect([]byte{0x04, 0x00, 0x00}) // reserved frame type
	assert.NotNil(t, err)

	_, err = Dissect([]byte{0x61, 0x88, 0x42, 0xce}) // truncated in dst pan id
	assert.NotNil(t, err)

	_, err = Dissect([]byte{0x61, 0x88, 0x42, 0xce, 0xfa, 0x34}) // truncated in dst addr
	assert.NotNil(t, err)
}
