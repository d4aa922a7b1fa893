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

package pcap

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ot-radiohal/types"
)

func TestParseFrameTypeStr(t *testing.T) {
	assert.Equal(t, FrameTypeOff, ParseFrameTypeStr("off"))
	assert.Equal(t, FrameTypeWpan, ParseFrameTypeStr("wpan"))
	assert.Equal(t, FrameTypeWpanTap, ParseFrameTypeStr("tap"))
	assert.Equal(t, FrameTypeUnknown, ParseFrameTypeStr("bogus"))
}

func TestNewFileInvalidType(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "x.pcap"), FrameTypeOff)
	assert.NotNil(t, err)
}

func TestPcapFile(t *testing.T) {
	pcapFilename := filepath.Join(t.TempDir(), "test.pcap")
	pcap, err := NewFile(pcapFilename, FrameTypeWpan)
	require.Nil(t, err)

	defer func() {
		_ = pcap.Close()
	}()

	require.Nil(t, pcap.Sync())
	assert.Equal(t, pcapFileHeaderSize, getFileSize(t, pcapFilename))

	for i := 0; i < 10; i++ {
		frame := Frame{
			Timestamp: uint64(i) * 1000,
			Psdu:      []byte{0x12, 0x10, 0xa6, 0x80, 0x65},
			Channel:   12,
			Rssi:      -60,
			Lqi:       100,
		}
		require.Nil(t, pcap.AppendFrame(frame))
		require.Nil(t, pcap.Sync())
		assert.Equal(t, pcapFileHeaderSize+(pcapFrameHeaderSize+5)*(i+1), getFileSize(t, pcapFilename))
	}

	data, err := os.ReadFile(pcapFilename)
	require.Nil(t, err)
	assert.Equal(t, uint32(pcapMagicNumber), binary.LittleEndian.Uint32(data[:4]))
	assert.Equal(t, uint32(dltIeee802154), binary.LittleEndian.Uint32(data[20:24]))
}

func TestPcapTapFile(t *testing.T) {
	pcapFilename := filepath.Join(t.TempDir(), "test_tap.pcap")
	pcap, err := NewFile(pcapFilename, FrameTypeWpanTap)
	require.Nil(t, err)

	defer func() {
		_ = pcap.Close()
	}()

	require.Nil(t, pcap.Sync())
	assert.Equal(t, pcapFileHeaderSize, getFileSize(t, pcapFilename))

	for i := 0; i < 10; i++ {
		frame := Frame{
			Timestamp: uint64(i) * 1000,
			Psdu:      []byte{0x12, 0x10, 0x30, 0x3f, 0x94},
			Channel:   types.ChannelId(i + 11),
			Rssi:      int8(-60 + i),
			Lqi:       uint8(40 + i),
		}
		require.Nil(t, pcap.AppendFrame(frame))
		require.Nil(t, pcap.Sync())
		assert.Equal(t, pcapFileHeaderSize+(pcapFrameHeaderSize+pcapTapFrameHeaderSize+5)*(i+1),
			getFileSize(t, pcapFilename))
	}

	data, err := os.ReadFile(pcapFilename)
	require.Nil(t, err)
	assert.Equal(t, uint32(dltIeee802154Tap), binary.LittleEndian.Uint32(data[20:24]))
}

func getFileSize(t *testing.T, fp string) int {
	info, err := os.Stat(fp)
	require.Nil(t, err)
	return int(info.Size())
}
