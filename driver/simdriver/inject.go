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
	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/energy"
)

// Injection and inspection surface: the caller plays the role of the air
// interface and the radio hardware's event machinery.

// allocSlot claims a pool buffer and copies psdu into it. Returns -1 when the
// pool is exhausted.
func (d *Driver) allocSlot(psdu []byte) int {
	for i := range d.inUse {
		if !d.inUse[i] {
			d.inUse[i] = true
			d.nAlloc++
			d.pool[i] = append(d.pool[i][:0], psdu...)
			return i
		}
	}
	return -1
}

// InjectFrame delivers a frame as if received over the air. rssi is the pure
// signal power; the reported RSSI combines it with the ambient noise floor.
// Returns false when the pool is exhausted (the hardware would have dropped
// it too).
func (d *Driver) InjectFrame(psdu []byte, rssi int8, lqi uint8, timestamp uint32) bool {
	d.mu.Lock()
	slot := d.allocSlot(psdu)
	sink := d.sink
	reported := energy.ClipRssi(energy.AddSignalPowersDbm(energy.DbValue(rssi), d.noiseFloor))
	d.rssi = reported
	var frame driver.ReceivedFrame
	if slot >= 0 {
		frame = driver.ReceivedFrame{
			Psdu:      d.pool[slot][:len(psdu)],
			Slot:      slot,
			Rssi:      reported,
			Lqi:       lqi,
			Timestamp: timestamp,
		}
	}
	d.mu.Unlock()

	if slot < 0 || sink == nil {
		return false
	}
	sink.ReceivedTimestamp(frame)
	return true
}

// InjectReceiveFailure reports a receive failure with the given reason.
func (d *Driver) InjectReceiveFailure(reason driver.RxError) {
	d.mu.Lock()
	sink := d.sink
	d.schedRx = false
	d.mu.Unlock()
	if sink != nil {
		sink.ReceiveFailed(reason)
	}
}

// StartTransmit fires the TxStarted callback for the in-flight frame, the
// point where the platform patches IEs in place.
func (d *Driver) StartTransmit() {
	d.mu.Lock()
	sink := d.sink
	psdu := d.lastTx
	d.mu.Unlock()
	if sink != nil {
		sink.TxStarted(psdu)
	}
}

// StartAck fires the TxAckStarted callback as if the hardware began sending
// an Enhanced ACK it built for an inbound frame. The platform mutates ackPsdu
// in place (CSL IE, probing IE, security).
func (d *Driver) StartAck(ackPsdu []byte, rssi int8, lqi uint8) {
	d.mu.Lock()
	sink := d.sink
	d.mu.Unlock()
	if sink != nil {
		sink.TxAckStarted(ackPsdu, rssi, lqi)
	}
}

// FinishTransmit completes the in-flight transmission. ackPsdu is the
// received ACK payload, nil when none was requested; it occupies a pool slot
// like any received frame.
func (d *Driver) FinishTransmit(ackPsdu []byte, ackRssi int8, ackLqi uint8, ackTimestamp uint32) {
	d.mu.Lock()
	sink := d.sink
	psdu := d.lastTx
	d.state = driver.StateReceive

	var ack *driver.ReceivedFrame
	if ackPsdu != nil {
		if slot := d.allocSlot(ackPsdu); slot >= 0 {
			ack = &driver.ReceivedFrame{
				Psdu:      d.pool[slot][:len(ackPsdu)],
				Slot:      slot,
				Rssi:      ackRssi,
				Lqi:       ackLqi,
				Timestamp: ackTimestamp,
			}
		}
	}
	d.mu.Unlock()

	if sink != nil {
		sink.TransmittedTimestamp(psdu, ack)
	}
}

// FailTransmit fails the in-flight transmission with the given reason.
func (d *Driver) FailTransmit(reason driver.TxError) {
	d.mu.Lock()
	sink := d.sink
	psdu := d.lastTx
	d.state = driver.StateReceive
	d.mu.Unlock()
	if sink != nil {
		sink.TransmitFailed(psdu, reason)
	}
}

// FinishEnergyDetection completes the energy detection procedure with a raw
// maximum energy level.
func (d *Driver) FinishEnergyDetection(level uint8) {
	d.mu.Lock()
	sink := d.sink
	d.state = driver.StateReceive
	d.mu.Unlock()
	if sink != nil {
		sink.EnergyDetected(level)
	}
}

// SetRssi sets the value returned by RssiLast.
func (d *Driver) SetRssi(rssi int8) {
	d.mu.Lock()
	d.rssi = rssi
	d.mu.Unlock()
}

// SetNoiseFloor sets the ambient noise power (dBm) combined into the RSSI of
// injected frames.
func (d *Driver) SetNoiseFloor(dbm energy.DbValue) {
	d.mu.Lock()
	d.noiseFloor = dbm
	d.mu.Unlock()
}

// LastTransmit returns the most recently transmitted PSDU.
func (d *Driver) LastTransmit() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastTx
}

// LiveBuffers reports how many pool buffers are currently held outside the
// driver, for leak checks.
func (d *Driver) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, used := range d.inUse {
		if used {
			n++
		}
	}
	return n
}

// AckDataFor returns the registered per-address ACK data, nil when absent.
func (d *Driver) AckDataFor(addr []byte, extended bool, kind driver.AckDataKind) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ackData[ackDataKey{string(addr), extended, kind}]
}

// HasPendingBit reports whether an address is in the source-match table.
func (d *Driver) HasPendingBit(addr []byte, extended bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if extended {
		var key [8]byte
		copy(key[:], addr)
		_, ok := d.pendingExt[key]
		return ok
	}
	var key [2]byte
	copy(key[:], addr)
	_, ok := d.pendingShort[key]
	return ok
}
