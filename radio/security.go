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
	"github.com/openthread/ot-radiohal/types"
)

// SetMacKey replaces the three key rotation slots and the tracked current
// key-id. The whole update happens under the key mutex so that a concurrent
// Enh-ACK securing sees either the old or the new generation, never a mix.
// The outgoing counter of the outgoing Current slot carries over into the
// Previous slot; the Next slot's counter restarts at zero.
func (rc *RadioContext) SetMacKey(keyIdMode uint8, keyId uint8,
	prevKey *types.KeyMaterial, currKey *types.KeyMaterial, nextKey *types.KeyMaterial) {

	if keyIdMode != 1 {
		return
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.keyId = keyId
	rc.prevKey = *prevKey
	rc.currKey = *currKey
	rc.nextKey = *nextKey
	rc.prevMacFrameCounter = rc.macFrameCounter
}

// SetMacFrameCounter overwrites the Current slot's outgoing frame counter.
func (rc *RadioContext) SetMacFrameCounter(counter uint32) {
	rc.mu.Lock()
	rc.macFrameCounter = counter
	rc.mu.Unlock()
}

// SetMacFrameCounterIfLarger overwrites the counter only when the new value
// is larger, preserving monotonicity across stack restarts.
func (rc *RadioContext) SetMacFrameCounterIfLarger(counter uint32) {
	rc.mu.Lock()
	if counter > rc.macFrameCounter {
		rc.macFrameCounter = counter
	}
	rc.mu.Unlock()
}

// stampTxSecurity binds an outgoing frame to the current key generation: key
// index and frame counter are written into the aux security header and the
// Current counter advances. Frames the upper layer already secured keep their
// header untouched.
func (rc *RadioContext) stampTxSecurity(frame *types.RadioFrame) {
	if frame.TxInfo.IsSecurityProcessed {
		return
	}

	rc.mu.Lock()
	frame.SetKeyId(rc.keyId)
	frame.SetFrameCounter(rc.macFrameCounter)
	rc.macFrameCounter++
	rc.mu.Unlock()
}

// txAckProcessSecurity secures an outgoing Enh-ACK in place, invoked from the
// driver callback while the radio is already transmitting the ACK preamble.
// Slot selection compares the ACK's key index, mirrored from the inbound
// frame, against the current rotation id. A key index outside the
// current-generation window leaves the ACK unsecured, which is defined
// behavior for stale or future generations the radio does not track.
func (rc *RadioContext) txAckProcessSecurity(ack *types.RadioFrame) {
	rc.ackedWithSecEnhAck = false

	keyId := ack.KeyId()
	if !ack.IsSecurityEnabled() || keyId == 0 {
		return
	}

	var key types.KeyMaterial
	var frameCounter uint32

	rc.mu.Lock()
	switch keyId {
	case rc.keyId:
		key = rc.currKey
		frameCounter = rc.macFrameCounter
		rc.macFrameCounter++
	case rc.keyId - 1:
		key = rc.prevKey
		frameCounter = rc.prevMacFrameCounter
		rc.prevMacFrameCounter++
	case rc.keyId + 1:
		// The Next counter is never advanced locally. Frames secured with
		// the Next key right after rotation may be dropped by peers with a
		// strict counter check; a known limitation.
		key = rc.nextKey
		frameCounter = 0
	default:
		rc.mu.Unlock()
		return
	}
	rc.mu.Unlock()

	ack.SetFrameCounter(frameCounter)

	if rc.aes.SetKey(key.Key[:]) != types.ErrorNone {
		return
	}
	if rc.ccmSecureFrame(ack, frameCounter) != types.ErrorNone {
		return
	}

	rc.ackedWithSecEnhAck = true
	rc.ackFrameCounter = frameCounter
	rc.ackKeyId = keyId
}
