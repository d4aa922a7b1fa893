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

package simdriver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openthread/ot-radiohal/driver"
)

type captureSink struct {
	frames []driver.ReceivedFrame
}

func (s *captureSink) ReceivedTimestamp(frame driver.ReceivedFrame) {
	s.frames = append(s.frames, frame)
}

func (s *captureSink) ReceiveFailed(reason driver.RxError)                         {}
func (s *captureSink) TxStarted(psdu []byte)                                       {}
func (s *captureSink) TxAckStarted(ackPsdu []byte, power int8, lqi uint8)          {}
func (s *captureSink) TransmittedTimestamp(psdu []byte, ack *driver.ReceivedFrame) {}
func (s *captureSink) TransmitFailed(psdu []byte, reason driver.TxError)           {}
func (s *captureSink) EnergyDetected(level uint8)                                  {}
func (s *captureSink) RandomUint32() uint32                                        { return 4 }

func TestInjectRssiNoiseFloor(t *testing.T) {
	d := New()
	sink := &captureSink{}
	d.Init(sink)

	psdu := []byte{0x01, 0x00, 0x2a, 0x00, 0x00}

	// The default floor is far below the signal: the signal power passes
	// through unchanged.
	assert.True(t, d.InjectFrame(psdu, -60, 100, 1000))

	// Noise at the same power as the signal adds 3 dB.
	d.SetNoiseFloor(-60)
	assert.True(t, d.InjectFrame(psdu, -60, 100, 2000))

	if assert.Len(t, sink.frames, 2) {
		assert.Equal(t, int8(-60), sink.frames[0].Rssi)
		assert.Equal(t, int8(-57), sink.frames[1].Rssi)
	}
	assert.Equal(t, int8(-57), d.RssiLast())
}
