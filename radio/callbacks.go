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

// Driver callback handlers, the interrupt-context half of the platform. Each
// handler writes its results into single-writer state first and publishes the
// matching event bit (or wake signal) last, so the task context never observes
// a half-written frame.

package radio

import (
	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/event"
	"github.com/openthread/ot-radiohal/prng"
	"github.com/openthread/ot-radiohal/types"
)

// driverSink is the EventSink registered with the driver. A separate type so
// the callback surface does not leak into the RadioContext API.
type driverSink RadioContext

var _ driver.EventSink = (*driverSink)(nil)

func (s *driverSink) ReceivedTimestamp(frame driver.ReceivedFrame) {
	rc := (*RadioContext)(s)

	slot := -1
	for i := range rc.rxFrames {
		if !rc.rxFrames[i].IsPresent() {
			slot = i
			break
		}
	}
	if slot < 0 {
		// No room to hold the frame; return the buffer and report the loss.
		rc.drv.FreeBuffer(frame.Slot)
		rc.rxError = types.ErrorNoBufs
		rc.pending.Signal(event.ReceiveFailed)
		return
	}

	rx := &rc.rxFrames[slot]
	rx.Psdu = frame.Psdu
	rx.Slot = frame.Slot
	rx.Channel = rc.drv.Channel()
	rx.RxInfo = types.RxInfo{
		Rssi:      frame.Rssi,
		Lqi:       frame.Lqi,
		Timestamp: rc.drv.TimestampToPhr(frame.Timestamp, len(frame.Psdu)),
	}

	// The staged ACK info belongs to this frame only if it requested an ACK;
	// the security fields only apply to a 2015-version (Enh-ACK) exchange.
	if rx.IsAckRequested() {
		rx.RxInfo.AckedWithFramePending = rc.ackedWithFramePending
		if rx.IsVersion2015() {
			rx.RxInfo.AckedWithSecEnhAck = rc.ackedWithSecEnhAck
			rx.RxInfo.AckFrameCounter = rc.ackFrameCounter
			rx.RxInfo.AckKeyId = rc.ackKeyId
		}
	}

	rc.ackedWithFramePending = false
	rc.ackedWithSecEnhAck = false

	rc.waker.SignalPending()
}

func (s *driverSink) ReceiveFailed(reason driver.RxError) {
	rc := (*RadioContext)(s)

	rc.ackedWithFramePending = false
	rc.ackedWithSecEnhAck = false

	switch reason {
	case driver.RxErrorInvalidFrame:
		rc.rxError = types.ErrorNoFrameReceived
	case driver.RxErrorInvalidFcs:
		rc.rxError = types.ErrorFcs
	case driver.RxErrorInvalidDestAddr:
		rc.rxError = types.ErrorDestinationAddressFiltered
	case driver.RxErrorDelayedTimeout, driver.RxErrorTimeslotEnded:
		// The receive window elapsed without a frame; the radio already went
		// back to sleep. Not a receive failure.
		rc.rxError = types.ErrorNone
		rc.pending.Signal(event.Sleep)
		return
	default:
		rc.rxError = types.ErrorFailed
	}

	rc.pending.Signal(event.ReceiveFailed)
}

func (s *driverSink) TxStarted(psdu []byte) {
	rc := (*RadioContext)(s)
	rc.updateCslIe(&rc.txFrame)
}

func (s *driverSink) TxAckStarted(ackPsdu []byte, power int8, lqi uint8) {
	rc := (*RadioContext)(s)

	ack := types.RadioFrame{Psdu: ackPsdu, Slot: types.InvalidSlot}

	rc.ackedWithFramePending = ack.IsFramePending()

	rc.updateCslIe(&ack)

	if metrics, ok := rc.probing.lookup(ack.DstAddr()); ok {
		ack.SetEnhAckProbingIe(enhAckProbingData(metrics, power, lqi))
	}

	rc.txAckProcessSecurity(&ack)
}

func (s *driverSink) TransmittedTimestamp(psdu []byte, ack *driver.ReceivedFrame) {
	rc := (*RadioContext)(s)

	if ack != nil {
		rc.ackFrame.Psdu = ack.Psdu
		rc.ackFrame.Slot = ack.Slot
		rc.ackFrame.Channel = rc.drv.Channel()
		rc.ackFrame.RxInfo.Rssi = ack.Rssi
		rc.ackFrame.RxInfo.Lqi = ack.Lqi
		rc.ackFrame.RxInfo.Timestamp = rc.drv.TimestampToPhr(ack.Timestamp, len(ack.Psdu))
	} else {
		rc.ackFrame.Clear()
	}

	rc.pending.Signal(event.FrameTransmitted)
}

func (s *driverSink) TransmitFailed(psdu []byte, reason driver.TxError) {
	rc := (*RadioContext)(s)

	switch reason {
	case driver.TxErrorInvalidAck, driver.TxErrorNoAck, driver.TxErrorNoMem:
		rc.pending.Signal(event.InvalidOrNoAck)
	default:
		rc.pending.Signal(event.ChannelAccessFailure)
	}
}

func (s *driverSink) EnergyDetected(level uint8) {
	rc := (*RadioContext)(s)
	rc.energyDetected = rc.drv.DbmFromEnergyLevel(level)
	rc.pending.Signal(event.EnergyDetected)
}

func (s *driverSink) RandomUint32() uint32 {
	return prng.RandomUint32()
}
