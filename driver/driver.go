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

// Package driver defines the contract between the radio platform core and an
// IEEE 802.15.4 radio peripheral driver (the Go rendition of the nRF 802.15.4
// driver API). The driver is an opaque, trusted collaborator: it raises
// EventSink callbacks from its own goroutine ("interrupt context") and
// accepts request calls from task context.

package driver

import (
	"github.com/openthread/ot-radiohal/types"
	"github.com/simonlingoogle/go-simplelogger"
)

// State is the peripheral driver's own state machine, narrower than the
// platform-level radio state.
type State byte

const (
	StateSleep State = iota
	StateReceive
	StateTransmit
	StateCca
	StateContinuousCarrier
	StateEnergyDetection
)

func (s State) String() string {
	switch s {
	case StateSleep:
		return "sleep"
	case StateReceive:
		return "receive"
	case StateTransmit:
		return "transmit"
	case StateCca:
		return "cca"
	case StateContinuousCarrier:
		return "continuous-carrier"
	case StateEnergyDetection:
		return "energy-detection"
	default:
		simplelogger.Panicf("invalid driver State: %d", byte(s))
		return "invalid"
	}
}

// RxError is the closed set of receive failure reasons raised by the driver.
type RxError byte

const (
	RxErrorNone RxError = iota
	RxErrorInvalidFrame
	RxErrorInvalidFcs
	RxErrorInvalidDestAddr
	RxErrorRuntime
	RxErrorTimeslotEnded
	RxErrorAborted
	RxErrorDelayedTimeout
	RxErrorDelayedTimeslotDenied
	RxErrorInvalidLength
	RxErrorDelayedAborted
)

// TxError is the closed set of transmit failure reasons raised by the driver.
type TxError byte

const (
	TxErrorNone TxError = iota
	TxErrorBusyChannel
	TxErrorTimeslotEnded
	TxErrorAborted
	TxErrorTimeslotDenied
	TxErrorInvalidAck
	TxErrorNoAck
	TxErrorNoMem
)

// CcaConfig mirrors the driver's CCA configuration. EdThreshold is the raw
// hardware threshold, not dBm; the platform converts via the driver's
// calibration offset.
type CcaConfig struct {
	EdThreshold uint8
}

// AckDataKind selects which per-address ACK data table an entry goes to.
type AckDataKind byte

const (
	AckDataIe AckDataKind = iota
	AckDataPendingBit
)

// ReceivedFrame is one frame delivered by the driver, with the pool slot that
// the platform must eventually return via FreeBuffer.
type ReceivedFrame struct {
	Psdu      []byte
	Slot      int
	Rssi      int8
	Lqi       uint8
	Timestamp uint32 // raw end-of-frame driver timestamp
}

// EventSink is implemented by the platform core and invoked by the driver
// from its callback goroutine. Callbacks must run to completion without
// blocking.
type EventSink interface {
	// ReceivedTimestamp delivers a received frame; ownership of the pool
	// buffer transfers to the sink.
	ReceivedTimestamp(frame ReceivedFrame)

	// ReceiveFailed reports an aborted or filtered reception.
	ReceiveFailed(reason RxError)

	// TxStarted fires when the radio starts sending the transmit frame,
	// allowing in-place mutation (IE updates, securing) before the bytes
	// leave the antenna.
	TxStarted(psdu []byte)

	// TxAckStarted fires when the radio starts sending an Enhanced ACK for
	// an inbound frame, allowing in-place IE and security mutation.
	TxAckStarted(ackPsdu []byte, power int8, lqi uint8)

	// TransmittedTimestamp reports transmit completion. ack is nil when no
	// ACK was requested/received; otherwise its buffer transfers to the sink.
	TransmittedTimestamp(psdu []byte, ack *ReceivedFrame)

	// TransmitFailed reports transmit failure with a closed reason.
	TransmitFailed(psdu []byte, reason TxError)

	// EnergyDetected reports the raw maximum energy level of a completed
	// energy detection procedure.
	EnergyDetected(level uint8)

	// RandomUint32 supplies driver-internal randomness (CSMA backoff jitter).
	RandomUint32() uint32
}

// Driver is the request surface of the radio peripheral. Boolean returns
// follow the C driver convention: false means the request was rejected
// synchronously (peripheral busy or invalid for its state).
type Driver interface {
	Init(sink EventSink)
	Deinit()

	State() State
	SetChannel(channel types.ChannelId)
	Channel() types.ChannelId
	SetTxPower(dbm int8)
	TxPower() int8

	Receive() bool
	ReceiveAt(startUs uint32, delayUs uint32, durationUs uint32, channel types.ChannelId) bool

	// Transmit sends psdu immediately, with an optional preceding CCA.
	Transmit(psdu []byte, cca bool) bool
	// TransmitCsmaCa queues a CSMA-CA transmission; failures arrive via
	// EventSink.TransmitFailed only.
	TransmitCsmaCa(psdu []byte)
	// TransmitAt schedules a delayed transmission.
	TransmitAt(psdu []byte, baseTimeUs uint32, delayUs uint32, channel types.ChannelId) bool
	SetMaxCsmaBackoffs(n uint8)

	// SleepIfIdle returns true when the radio entered sleep, false when a
	// mid-operation state prevented idling.
	SleepIfIdle() bool

	EnergyDetection(durationUs uint32) bool
	ContinuousCarrier() bool

	CcaConfig() CcaConfig
	SetCcaConfig(cfg CcaConfig)
	// EdThresholdFromDbm converts a dBm threshold to the raw hardware value.
	EdThresholdFromDbm(dbm int8) uint8
	// DbmFromEdThreshold converts a raw hardware threshold back to dBm.
	DbmFromEdThreshold(raw uint8) int8
	// DbmFromEnergyLevel converts a raw energy detection level to dBm.
	DbmFromEnergyLevel(level uint8) int8
	// TimestampToPhr converts a raw end-of-frame timestamp to the µs time
	// of PHR (SFD) reception for a frame of psduLen bytes.
	TimestampToPhr(timestamp uint32, psduLen int) uint64

	SetPromiscuous(enable bool)
	Promiscuous() bool
	SetPanId(panId [types.ShortAddressSize]byte)
	SetShortAddress(addr [types.ShortAddressSize]byte)
	SetExtendedAddress(addr [types.ExtAddressSize]byte)

	// Source-match (pending bit) table management.
	SetAutoPendingBit(enable bool)
	PendingBitSet(addr []byte, extended bool) bool
	PendingBitClear(addr []byte, extended bool) bool
	PendingBitReset(extended bool)

	// Per-address Enhanced-ACK data (injected IEs).
	AckDataSet(addr []byte, extended bool, data []byte, kind AckDataKind)
	AckDataClear(addr []byte, extended bool, kind AckDataKind)

	RssiMeasureBegin()
	RssiLast() int8

	// FreeBuffer returns a receive pool buffer to the driver. Freeing a slot
	// twice is a fatal programming error.
	FreeBuffer(slot int)
}
