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

package types

// InvalidSlot marks a RadioFrame that does not reference a driver pool buffer
// (e.g. the transmit frame, which is owned by the platform).
const InvalidSlot = -1

// RxInfo carries receive-path metadata of a RadioFrame.
type RxInfo struct {
	Timestamp             uint64 // time of SFD reception, µs
	AckFrameCounter       uint32
	AckKeyId              uint8
	Rssi                  int8
	Lqi                   uint8
	AckedWithFramePending bool
	AckedWithSecEnhAck    bool
}

// TxInfo carries transmit-path parameters of a RadioFrame.
type TxInfo struct {
	TxDelay             uint32 // µs; 0 means no delayed transmission
	TxDelayBaseTime     uint32
	MaxCsmaBackoffs     uint8
	CsmaCaEnabled       bool
	IsARetx             bool
	IsSecurityProcessed bool
	CslIeOffset         int // offset of the CSL IE content in Psdu, 0 if absent
}

// RadioFrame is a view over one PSDU buffer: the frame length is len(Psdu)
// and the pool buffer backing it is referenced by Slot. A frame is
// exclusively owned by whichever side
// currently holds it; ownership transfers exactly once per lifecycle
// (driver -> platform on receive, platform -> driver on FreeBuffer).
type RadioFrame struct {
	Psdu    []byte
	Channel ChannelId
	Slot    int // driver pool slot backing Psdu, or InvalidSlot

	RxInfo RxInfo
	TxInfo TxInfo
}

// IsPresent reports whether the frame currently references a PSDU. Cleared
// frames (Psdu == nil) mark empty receive slots.
func (f *RadioFrame) IsPresent() bool {
	return f.Psdu != nil
}

// Clear drops the PSDU reference; the caller is responsible for having
// returned the backing buffer to the driver pool first.
func (f *RadioFrame) Clear() {
	f.Psdu = nil
	f.Slot = InvalidSlot
}
