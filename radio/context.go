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

// Package radio implements the OpenThread radio platform contract on top of
// an IEEE 802.15.4 peripheral driver. One RadioContext bridges the driver's
// callback context to a single cooperative task context: callbacks record
// results into single-writer state, publish an event bit, and wake the
// scheduler; Process() drains the bits once per scheduling pass.

package radio

import (
	"sync"

	"github.com/openthread/ot-radiohal/aesecb"
	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/event"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/types"
)

// RxBuffers is the number of receive pool slots mirrored from the driver.
const RxBuffers = 8

const (
	// rssiSettleTimeUs is the settle time needed before an RSSI measurement
	// after a channel switch.
	rssiSettleTimeUs = 40
	// safeDelta is a safe value for the `dt` parameter of delayed operations.
	safeDelta = 1000
	// cslUncertainty is the CSL transmit-scheduling uncertainty, in ±10 µs units.
	cslUncertainty = 20
)

// Handler receives the upper-layer completion callbacks, all invoked from
// task context by Process (TxStarted excepted, which fires inside Transmit).
type Handler interface {
	ReceiveDone(frame *types.RadioFrame, err types.RadioError)
	TransmitDone(frame *types.RadioFrame, ack *types.RadioFrame, err types.RadioError)
	EnergyScanDone(maxRssiDbm int8)
	TxStarted(frame *types.RadioFrame)
}

// Clock abstracts the platform microsecond timebase.
type Clock interface {
	NowMicros() uint64
	// XtalAccuracyPpm is the crystal accuracy used to derive CSL accuracy.
	XtalAccuracyPpm() uint8
}

// Fem controls an optional front-end module, powered down during sleep.
type Fem interface {
	Enable()
	Disable()
}

// Config carries the static platform configuration applied at Init.
type Config struct {
	Board types.BoardConfig
	// FactoryDeviceId is the production device identifier used for EUI-64
	// derivation.
	FactoryDeviceId uint64
	// RegionChanged is called after a successful SetRegion, for
	// board-specific regulatory adjustments. Optional.
	RegionChanged func(regionCode uint16)
}

// RadioContext is the whole mutable state of one radio platform instance.
// It is passed by reference to every operation; its lifetime equals the
// driver's operational lifetime.
type RadioContext struct {
	drv     driver.Driver
	handler Handler
	clock   Clock
	fem     Fem
	waker   event.Waker
	pending *event.Set
	cfg     Config

	disabled bool

	// Single-writer-per-field state written from driver callback context and
	// read from task context only after the corresponding event bit was
	// observed (write-then-publish order).
	rxFrames [RxBuffers]types.RadioFrame
	ackFrame types.RadioFrame
	rxError  types.RadioError

	txFrame types.RadioFrame
	txPsdu  [types.MacFrameLenBytes]byte

	ackedWithFramePending bool
	ackedWithSecEnhAck    bool
	ackFrameCounter       uint32
	ackKeyId              uint8

	// mu guards the key slots and frame counters during multi-field updates;
	// steady-state single-field reads take it too, which keeps the race
	// detector quiet.
	mu                  sync.Mutex
	keyId               uint8
	prevKey             types.KeyMaterial
	currKey             types.KeyMaterial
	nextKey             types.KeyMaterial
	macFrameCounter     uint32
	prevMacFrameCounter uint32

	extAddress types.ExtAddress // on-air byte order, for the CCM nonce

	maxTxPowerTable [types.MaxChannelNumber - types.MinChannelNumber + 1]int8
	defaultTxPower  int8
	lnaGain         int8
	regionCode      uint16

	energyDetectionTimeUs  uint32
	energyDetectionChannel types.ChannelId
	energyDetected         int8

	cslPeriod     uint32 // in 10-symbol units; 0 disables CSL IE insertion
	cslSampleTime uint32

	probing *probingTable

	aes *aesecb.Cipher
}

// New creates a radio context over the given driver. The waker is signaled
// whenever pending work exists for the task context.
func New(drv driver.Driver, handler Handler, clock Clock, waker event.Waker, fem Fem, cfg Config) *RadioContext {
	rc := &RadioContext{
		drv:     drv,
		handler: handler,
		clock:   clock,
		fem:     fem,
		waker:   waker,
		cfg:     cfg,
		probing: newProbingTable(),
		aes:     aesecb.New(),
	}
	rc.pending = event.NewSet(waker)
	rc.dataInit()
	return rc
}

func (rc *RadioContext) dataInit() {
	rc.disabled = true
	rc.defaultTxPower = types.PowerInvalid
	// The upper layer re-slices Psdu down to the frame length it builds.
	rc.txFrame.Psdu = rc.txPsdu[:]
	rc.txFrame.Slot = types.InvalidSlot
	rc.rxError = types.ErrorNone

	for i := range rc.rxFrames {
		rc.rxFrames[i].Clear()
	}
	for i := range rc.maxTxPowerTable {
		rc.maxTxPowerTable[i] = types.PowerInvalid
	}
	rc.ackFrame.Clear()
	rc.prevMacFrameCounter = 0

	rc.applyBoardConfig()
}

func (rc *RadioContext) applyBoardConfig() {
	board := rc.cfg.Board
	if board.DefaultTxPower != nil {
		rc.defaultTxPower = *board.DefaultTxPower
	}
	for ch, max := range board.ChannelMaxPower {
		rc.maxTxPowerTable[ch-types.MinChannelNumber] = max
	}
	rc.lnaGain = board.LnaGain
	rc.regionCode = board.RegionCode
}

// Init starts the peripheral driver and registers the callback sink.
func (rc *RadioContext) Init() {
	rc.drv.Init((*driverSink)(rc))
	if rc.cfg.Board.CcaEdThreshold != nil {
		if err := rc.SetCcaEnergyDetectThreshold(*rc.cfg.Board.CcaEdThreshold); err != types.ErrorNone {
			logger.Errorf("radio: board cca-ed-threshold %d dBm rejected: %v",
				*rc.cfg.Board.CcaEdThreshold, err)
		}
	}
}

// Deinit puts the driver to sleep and drops all pending events and buffers.
func (rc *RadioContext) Deinit() {
	rc.drv.SleepIfIdle()
	rc.drv.Deinit()
	rc.pending.Reset()

	for i := range rc.rxFrames {
		if rc.rxFrames[i].IsPresent() {
			rc.drv.FreeBuffer(rc.rxFrames[i].Slot)
			rc.rxFrames[i].Clear()
		}
	}
}

// TransmitBuffer returns the single transmit frame owned by the platform.
// The upper layer writes the PSDU in place and passes the frame to Transmit.
func (rc *RadioContext) TransmitBuffer() *types.RadioFrame {
	return &rc.txFrame
}

func (rc *RadioContext) femEnable() {
	if rc.fem != nil {
		rc.fem.Enable()
	}
}

func (rc *RadioContext) femDisable() {
	if rc.fem != nil {
		rc.fem.Disable()
	}
}
