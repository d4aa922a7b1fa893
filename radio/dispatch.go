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
	"github.com/openthread/ot-radiohal/event"
	"github.com/openthread/ot-radiohal/types"
)

// Process drains the pending-event set once and returns promptly; it is the
// task-context half of the platform, called once per scheduling pass. Every
// asynchronous operation outcome is delivered exactly once, failures
// included. Busy-retried requests (Sleep, EnergyDetectionStart) stay pending
// until the driver accepts them; a final wake keeps the scheduler polling.
func (rc *RadioContext) Process() {
	for i := range rc.rxFrames {
		rx := &rc.rxFrames[i]
		if !rx.IsPresent() {
			continue
		}
		rc.handler.ReceiveDone(rx, types.ErrorNone)
		rc.drv.FreeBuffer(rx.Slot)
		rx.Clear()
	}

	if rc.pending.IsSet(event.FrameTransmitted) {
		rc.pending.Clear(event.FrameTransmitted)

		var ack *types.RadioFrame
		if rc.ackFrame.IsPresent() {
			ack = &rc.ackFrame
		}
		rc.handler.TransmitDone(&rc.txFrame, ack, types.ErrorNone)
		// The ACK buffer goes back to the pool only after the upper layer
		// has seen it.
		rc.freeAckFrame()
	}

	if rc.pending.IsSet(event.ChannelAccessFailure) {
		rc.pending.Clear(event.ChannelAccessFailure)
		rc.freeAckFrame()
		rc.handler.TransmitDone(&rc.txFrame, nil, types.ErrorChannelAccessFailure)
	}

	if rc.pending.IsSet(event.InvalidOrNoAck) {
		rc.pending.Clear(event.InvalidOrNoAck)
		rc.freeAckFrame()
		rc.handler.TransmitDone(&rc.txFrame, nil, types.ErrorNoAck)
	}

	if rc.pending.IsSet(event.ReceiveFailed) {
		rc.pending.Clear(event.ReceiveFailed)

		err := rc.rxError
		if err == types.ErrorNone {
			err = types.ErrorFailed
		}
		rc.rxError = types.ErrorNone
		rc.handler.ReceiveDone(nil, err)
	}

	if rc.pending.IsSet(event.EnergyDetected) {
		rc.pending.Clear(event.EnergyDetected)
		rc.handler.EnergyScanDone(rc.energyDetected)
	}

	if rc.pending.IsSet(event.Sleep) {
		if rc.drv.SleepIfIdle() {
			rc.femDisable()
			rc.pending.Clear(event.Sleep)
		}
	}

	if rc.pending.IsSet(event.EnergyDetectionStart) {
		rc.drv.SetChannel(rc.energyDetectionChannel)
		if rc.drv.EnergyDetection(rc.energyDetectionTimeUs) {
			rc.pending.Clear(event.EnergyDetectionStart)
		}
	}

	if rc.pending.Load() != 0 {
		rc.waker.SignalPending()
	}
}

// freeAckFrame returns a held ACK buffer to the driver pool. Failure paths
// can leave a half-populated ACK frame behind; it must be freed exactly once
// either way.
func (rc *RadioContext) freeAckFrame() {
	if rc.ackFrame.IsPresent() {
		if rc.ackFrame.Slot != types.InvalidSlot {
			rc.drv.FreeBuffer(rc.ackFrame.Slot)
		}
		rc.ackFrame.Clear()
	}
}
