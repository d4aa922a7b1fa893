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

// Package event implements the pending-event set bridging the radio driver's
// callback context to the platform's single task context. The C original used
// an LDREX/STREX retry loop on a shared word; the Go rendition uses the same
// whole-word CAS retry on a uint32.

package event

import (
	"sync/atomic"

	"github.com/simonlingoogle/go-simplelogger"
)

// Kind identifies one outstanding-event class. Bit i of the set corresponds
// to Kind i.
type Kind uint8

const (
	Sleep                Kind = iota // requested to enter Sleep state
	FrameTransmitted                 // transmitted frame and received ACK (if requested)
	ChannelAccessFailure             // failed to transmit frame (channel busy)
	InvalidOrNoAck                   // failed to transmit frame (invalid or no ACK)
	ReceiveFailed                    // failed to receive a valid frame
	EnergyDetectionStart             // requested to start energy detection
	EnergyDetected                   // energy detection finished

	numKinds
)

func (k Kind) String() string {
	switch k {
	case Sleep:
		return "Sleep"
	case FrameTransmitted:
		return "FrameTransmitted"
	case ChannelAccessFailure:
		return "ChannelAccessFailure"
	case InvalidOrNoAck:
		return "InvalidOrNoAck"
	case ReceiveFailed:
		return "ReceiveFailed"
	case EnergyDetectionStart:
		return "EnergyDetectionStart"
	case EnergyDetected:
		return "EnergyDetected"
	default:
		simplelogger.Panicf("invalid event kind: %d", uint8(k))
		return "invalid"
	}
}

// Waker receives the pending-work signal. Set always wakes, even when the bit
// was already set: spurious wakes are acceptable, lost wakes are not.
type Waker interface {
	SignalPending()
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

func (f WakerFunc) SignalPending() { f() }

// Set is the pending-event bitmask. Bits are set from driver callback context
// and cleared from task context, both lock-free. The zero value is usable
// once a waker is attached.
type Set struct {
	bits  uint32
	waker Waker
}

func NewSet(waker Waker) *Set {
	return &Set{waker: waker}
}

// Signal set/clear use a CAS retry loop over the whole word so that
// concurrent updates of distinct bits never lose each other.

func (s *Set) Signal(k Kind) {
	bit := uint32(1) << k
	for {
		old := atomic.LoadUint32(&s.bits)
		if atomic.CompareAndSwapUint32(&s.bits, old, old|bit) {
			break
		}
	}
	if s.waker != nil {
		s.waker.SignalPending()
	}
}

func (s *Set) Clear(k Kind) {
	mask := ^(uint32(1) << k)
	for {
		old := atomic.LoadUint32(&s.bits)
		if atomic.CompareAndSwapUint32(&s.bits, old, old&mask) {
			break
		}
	}
}

func (s *Set) IsSet(k Kind) bool {
	return atomic.LoadUint32(&s.bits)&(uint32(1)<<k) != 0
}

// ClearStale clears events that could race with a newly issued radio request.
// The Sleep bit survives: an in-flight sleep request must not be lost by an
// unrelated mass-clear.
func (s *Set) ClearStale() {
	mask := uint32(1) << Sleep
	for {
		old := atomic.LoadUint32(&s.bits)
		if atomic.CompareAndSwapUint32(&s.bits, old, old&mask) {
			break
		}
	}
}

// Reset drops every pending event, Sleep included. Only used at radio deinit,
// when no driver callbacks can arrive anymore.
func (s *Set) Reset() {
	atomic.StoreUint32(&s.bits, 0)
}

// Load returns the raw bitmask, for tests and debug output.
func (s *Set) Load() uint32 {
	return atomic.LoadUint32(&s.bits)
}
