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

// Package simdriver is a deterministic in-memory implementation of the
// peripheral driver, used by the diag tool and the platform tests. All radio
// effects (frames on air, transmit outcomes, energy levels) are injected by
// the caller; the driver keeps the state machine, the buffer pool, and the
// filter/ACK-data tables faithful to a real peripheral, including synchronous
// rejections that can be scripted per call.

package simdriver

import (
	"sync"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/energy"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/types"
)

// DefaultPoolSize is the number of receive pool buffers.
const DefaultPoolSize = 8

// srcMatchCapacity bounds each pending-bit table, like real hardware.
const srcMatchCapacity = 16

// Octet time at 250 kbit/s: 2 symbols of 16 µs.
const usPerOctet = 32

// defaultNoiseFloorDbm is the ambient noise power combined into reported
// RSSI values, far enough below the receive sensitivity to be negligible.
const defaultNoiseFloorDbm = energy.DbValue(-120)

type ackDataKey struct {
	addr     string
	extended bool
	kind     driver.AckDataKind
}

// Driver implements driver.Driver. Exported Reject* fields script the next
// synchronous rejections; they decrement per refused call.
type Driver struct {
	RejectSleep           int
	RejectReceive         int
	RejectTransmit        int
	RejectEnergyDetection int
	RejectCarrier         int

	mu    sync.Mutex
	sink  driver.EventSink
	state driver.State

	channel         types.ChannelId
	txPower         int8
	cca             driver.CcaConfig
	promiscuous     bool
	panId           [types.ShortAddressSize]byte
	shortAddr       [types.ShortAddressSize]byte
	extAddr         [types.ExtAddressSize]byte
	maxCsmaBackoffs uint8
	autoPendingBit  bool
	rssi            int8
	noiseFloor      energy.DbValue

	pendingShort map[[types.ShortAddressSize]byte]struct{}
	pendingExt   map[[types.ExtAddressSize]byte]struct{}
	ackData      map[ackDataKey][]byte

	pool    [][]byte
	inUse   []bool
	nAlloc  int
	nFreed  int
	lastTx  []byte
	schedRx bool
}

var _ driver.Driver = (*Driver)(nil)

func New() *Driver {
	d := &Driver{
		state:      driver.StateSleep,
		channel:    types.MinChannelNumber,
		rssi:       energy.RssiMinusInfinity,
		noiseFloor: defaultNoiseFloorDbm,
	}
	d.pool = make([][]byte, DefaultPoolSize)
	d.inUse = make([]bool, DefaultPoolSize)
	for i := range d.pool {
		d.pool[i] = make([]byte, 0, types.MacFrameLenBytes)
	}
	d.resetTables()
	return d
}

func (d *Driver) resetTables() {
	d.pendingShort = make(map[[types.ShortAddressSize]byte]struct{})
	d.pendingExt = make(map[[types.ExtAddressSize]byte]struct{})
	d.ackData = make(map[ackDataKey][]byte)
}

func (d *Driver) Init(sink driver.EventSink) {
	d.mu.Lock()
	d.sink = sink
	d.state = driver.StateReceive
	d.mu.Unlock()
	logger.Debugf("simdriver: initialized")
}

func (d *Driver) Deinit() {
	d.mu.Lock()
	d.sink = nil
	d.state = driver.StateSleep
	d.mu.Unlock()
}

func (d *Driver) State() driver.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) SetChannel(channel types.ChannelId) {
	d.mu.Lock()
	d.channel = channel
	d.mu.Unlock()
}

func (d *Driver) Channel() types.ChannelId {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.channel
}

func (d *Driver) SetTxPower(dbm int8) {
	d.mu.Lock()
	d.txPower = dbm
	d.mu.Unlock()
}

func (d *Driver) TxPower() int8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txPower
}

func (d *Driver) Receive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RejectReceive > 0 {
		d.RejectReceive--
		return false
	}
	d.state = driver.StateReceive
	return true
}

func (d *Driver) ReceiveAt(startUs uint32, delayUs uint32, durationUs uint32, channel types.ChannelId) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RejectReceive > 0 {
		d.RejectReceive--
		return false
	}
	d.channel = channel
	d.schedRx = true
	return true
}

func (d *Driver) Transmit(psdu []byte, cca bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RejectTransmit > 0 {
		d.RejectTransmit--
		return false
	}
	d.lastTx = psdu
	if cca {
		d.state = driver.StateCca
	} else {
		d.state = driver.StateTransmit
	}
	return true
}

func (d *Driver) TransmitCsmaCa(psdu []byte) {
	d.mu.Lock()
	d.lastTx = psdu
	d.state = driver.StateCca
	d.mu.Unlock()
}

func (d *Driver) TransmitAt(psdu []byte, baseTimeUs uint32, delayUs uint32, channel types.ChannelId) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RejectTransmit > 0 {
		d.RejectTransmit--
		return false
	}
	d.channel = channel
	d.lastTx = psdu
	return true
}

func (d *Driver) SetMaxCsmaBackoffs(n uint8) {
	d.mu.Lock()
	d.maxCsmaBackoffs = n
	d.mu.Unlock()
}

func (d *Driver) SleepIfIdle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RejectSleep > 0 {
		d.RejectSleep--
		return false
	}
	switch d.state {
	case driver.StateTransmit, driver.StateCca, driver.StateEnergyDetection:
		return false
	}
	d.state = driver.StateSleep
	return true
}

func (d *Driver) EnergyDetection(durationUs uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RejectEnergyDetection > 0 {
		d.RejectEnergyDetection--
		return false
	}
	d.state = driver.StateEnergyDetection
	return true
}

func (d *Driver) ContinuousCarrier() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RejectCarrier > 0 {
		d.RejectCarrier--
		return false
	}
	d.state = driver.StateContinuousCarrier
	return true
}

func (d *Driver) CcaConfig() driver.CcaConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cca
}

func (d *Driver) SetCcaConfig(cfg driver.CcaConfig) {
	d.mu.Lock()
	d.cca = cfg
	d.mu.Unlock()
}

func (d *Driver) EdThresholdFromDbm(dbm int8) uint8 {
	return energy.LevelFromDbm(dbm)
}

func (d *Driver) DbmFromEdThreshold(raw uint8) int8 {
	return energy.DbmFromLevel(raw)
}

func (d *Driver) DbmFromEnergyLevel(level uint8) int8 {
	return energy.DbmFromLevel(level)
}

// TimestampToPhr backs off the air time of the PHR octet and the PSDU from
// the end-of-frame timestamp.
func (d *Driver) TimestampToPhr(timestamp uint32, psduLen int) uint64 {
	return uint64(timestamp) - uint64(psduLen+1)*usPerOctet
}

func (d *Driver) SetPromiscuous(enable bool) {
	d.mu.Lock()
	d.promiscuous = enable
	d.mu.Unlock()
}

func (d *Driver) Promiscuous() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.promiscuous
}

func (d *Driver) SetPanId(panId [types.ShortAddressSize]byte) {
	d.mu.Lock()
	d.panId = panId
	d.mu.Unlock()
}

func (d *Driver) SetShortAddress(addr [types.ShortAddressSize]byte) {
	d.mu.Lock()
	d.shortAddr = addr
	d.mu.Unlock()
}

func (d *Driver) SetExtendedAddress(addr [types.ExtAddressSize]byte) {
	d.mu.Lock()
	d.extAddr = addr
	d.mu.Unlock()
}

func (d *Driver) SetAutoPendingBit(enable bool) {
	d.mu.Lock()
	d.autoPendingBit = enable
	d.mu.Unlock()
}

func (d *Driver) PendingBitSet(addr []byte, extended bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if extended {
		if len(d.pendingExt) >= srcMatchCapacity {
			return false
		}
		var key [types.ExtAddressSize]byte
		copy(key[:], addr)
		d.pendingExt[key] = struct{}{}
	} else {
		if len(d.pendingShort) >= srcMatchCapacity {
			return false
		}
		var key [types.ShortAddressSize]byte
		copy(key[:], addr)
		d.pendingShort[key] = struct{}{}
	}
	return true
}

func (d *Driver) PendingBitClear(addr []byte, extended bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if extended {
		var key [types.ExtAddressSize]byte
		copy(key[:], addr)
		if _, ok := d.pendingExt[key]; !ok {
			return false
		}
		delete(d.pendingExt, key)
	} else {
		var key [types.ShortAddressSize]byte
		copy(key[:], addr)
		if _, ok := d.pendingShort[key]; !ok {
			return false
		}
		delete(d.pendingShort, key)
	}
	return true
}

func (d *Driver) PendingBitReset(extended bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if extended {
		d.pendingExt = make(map[[types.ExtAddressSize]byte]struct{})
	} else {
		d.pendingShort = make(map[[types.ShortAddressSize]byte]struct{})
	}
}

func (d *Driver) AckDataSet(addr []byte, extended bool, data []byte, kind driver.AckDataKind) {
	d.mu.Lock()
	d.ackData[ackDataKey{string(addr), extended, kind}] = append([]byte(nil), data...)
	d.mu.Unlock()
}

func (d *Driver) AckDataClear(addr []byte, extended bool, kind driver.AckDataKind) {
	d.mu.Lock()
	delete(d.ackData, ackDataKey{string(addr), extended, kind})
	d.mu.Unlock()
}

func (d *Driver) RssiMeasureBegin() {}

func (d *Driver) RssiLast() int8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rssi
}

func (d *Driver) FreeBuffer(slot int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	logger.AssertTruef(slot >= 0 && slot < len(d.inUse), "free of invalid slot %d", slot)
	logger.AssertTruef(d.inUse[slot], "double free of slot %d", slot)
	d.inUse[slot] = false
	d.nFreed++
}
