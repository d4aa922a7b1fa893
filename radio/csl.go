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
	"encoding/binary"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/types"
)

// cslPhase computes the CSL phase for a frame under construction: the time
// from now until the peer's next channel sample, in 10-symbol units, offset
// by one so the value is never zero. Must be recomputed at the moment the
// frame (or ACK) is built; "now" moves between scheduling and transmission.
func (rc *RadioContext) cslPhase() uint16 {
	periodUs := rc.cslPeriod * types.UsPerTenSymbols
	now := uint32(rc.clock.NowMicros())

	diff := ((periodUs - now%periodUs) + rc.cslSampleTime%periodUs) % periodUs
	return uint16(diff/types.UsPerTenSymbols + 1)
}

// EnableCsl enables CSL receiver operation with the given period (10-symbol
// units; 0 disables), registering a placeholder CSL IE in the driver's ACK
// data table for the peer so Enh-ACKs reserve room for phase and period. The
// real values are patched in when the ACK transmission starts.
func (rc *RadioContext) EnableCsl(period uint32, shortAddr types.ShortAddress, extAddr *types.ExtAddress) types.RadioError {
	rc.cslPeriod = period

	short := convertShortAddress(shortAddr)

	if period == 0 {
		rc.drv.AckDataClear(short[:], false, driver.AckDataIe)
		if extAddr != nil {
			rc.drv.AckDataClear(extAddr[:], true, driver.AckDataIe)
		}
		return types.ErrorNone
	}

	ie := placeholderCslIe()
	rc.drv.AckDataSet(short[:], false, ie, driver.AckDataIe)
	if extAddr != nil {
		rc.drv.AckDataSet(extAddr[:], true, ie, driver.AckDataIe)
	}
	return types.ErrorNone
}

// UpdateCslSampleTime records the upper layer's most recent sample time, the
// anchor the phase calculation counts from.
func (rc *RadioContext) UpdateCslSampleTime(sampleTime uint32) {
	rc.cslSampleTime = sampleTime
}

// CslAccuracy reports the clock accuracy used by peers to widen their sample
// window, half the crystal's ppm rating for a symmetric error bound.
func (rc *RadioContext) CslAccuracy() uint8 {
	return rc.clock.XtalAccuracyPpm() / 2
}

// CslUncertainty reports the fixed scheduling uncertainty in ±10 µs units.
func (rc *RadioContext) CslUncertainty() uint8 {
	return cslUncertainty
}

// updateCslIe patches the current phase and period into a frame's CSL IE.
func (rc *RadioContext) updateCslIe(frame *types.RadioFrame) {
	if rc.cslPeriod == 0 {
		return
	}
	frame.SetCslIe(uint16(rc.cslPeriod), rc.cslPhase())
}

func placeholderCslIe() []byte {
	ie := make([]byte, types.IeHeaderSize+types.CslIeSize)
	ie[0] = types.CslIeHeaderLo
	ie[1] = types.CslIeHeaderHi
	binary.LittleEndian.PutUint16(ie[2:], 0) // phase, patched at tx time
	binary.LittleEndian.PutUint16(ie[4:], 0) // period, patched at tx time
	return ie
}
