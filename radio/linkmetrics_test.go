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

package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/types"
)

func TestConfigureEnhAckProbing(t *testing.T) {
	rc, drv, _, _ := newTestRadio(t)

	short := types.ShortAddress(0x1234)
	ext := types.ExtAddress{1, 2, 3, 4, 5, 6, 7, 8}
	shortKey := []byte{0x34, 0x12}

	// PDU count is not measurable by the radio.
	err := rc.ConfigureEnhAckProbing(LinkMetrics{PduCount: true}, short, ext)
	assert.Equal(t, types.ErrorInvalidArgs, err)

	// At most two metrics fit the probing IE.
	err = rc.ConfigureEnhAckProbing(LinkMetrics{Lqi: true, LinkMargin: true, Rssi: true}, short, ext)
	assert.Equal(t, types.ErrorInvalidArgs, err)

	err = rc.ConfigureEnhAckProbing(LinkMetrics{Lqi: true, Rssi: true}, short, ext)
	assert.Equal(t, types.ErrorNone, err)

	ie := drv.AckDataFor(shortKey, false, driver.AckDataIe)
	// Header (2) + OUI (3) + subtype (1) + two metric bytes.
	assert.Len(t, ie, 8)
	assert.Equal(t, ie, drv.AckDataFor(ext[:], true, driver.AckDataIe))

	// Empty selection removes the configuration.
	err = rc.ConfigureEnhAckProbing(LinkMetrics{}, short, ext)
	assert.Equal(t, types.ErrorNone, err)
	assert.Nil(t, drv.AckDataFor(shortKey, false, driver.AckDataIe))
}

func TestProbingIePatchedInAck(t *testing.T) {
	rc, drv, _, _ := newTestRadio(t)

	short := types.ShortAddress(0x1234)
	ext := types.ExtAddress{1, 2, 3, 4, 5, 6, 7, 8}
	err := rc.ConfigureEnhAckProbing(LinkMetrics{Lqi: true, Rssi: true}, short, ext)
	assert.Equal(t, types.ErrorNone, err)

	// Enh-ACK to the initiator with the probing IE embedded by the driver.
	ack := []byte{
		0x02, 0x28, // FCF: ACK, version 2015, short dst
		0x2a,       // sequence
		0xcd, 0xab, // dst PAN
		0x34, 0x12, // dst short address
	}
	ack = append(ack, types.GenerateEnhAckProbingIe(make([]byte, 2))...)
	ack = append(ack, 0x00, 0x00) // FCS

	drv.StartAck(ack, -65, 80)

	data := ack[len(ack)-2-2 : len(ack)-2]
	assert.Equal(t, uint8(80), data[0]) // LQI as measured
	// RSSI -65 dBm shifted into the unsigned wire range.
	assert.Equal(t, uint8((-65+130)*255/130), data[1])
}

func TestEnhAckProbingData(t *testing.T) {
	data := enhAckProbingData(LinkMetrics{Lqi: true}, -60, 42)
	assert.Equal(t, []byte{42}, data)

	data = enhAckProbingData(LinkMetrics{LinkMargin: true}, -60, 42)
	// Margin over the -100 dBm sensitivity floor: 40 dB, scaled to 0..255.
	assert.Equal(t, []byte{uint8(40 * 255 / 130)}, data)

	// A signal below the sensitivity floor: the margin clamps to zero and
	// -128 dBm lands near the bottom of the RSSI wire range.
	data = enhAckProbingData(LinkMetrics{LinkMargin: true, Rssi: true}, -128, 0)
	assert.Equal(t, []byte{0, uint8((-128 + 130) * 255 / 130)}, data)
}
