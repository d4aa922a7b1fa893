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

// Package energy holds the energy-detection and signal-power math shared by
// the platform core and the simulated peripheral driver.

package energy

import (
	"math"

	"github.com/openthread/ot-radiohal/types"
)

// DbValue is a dB or dBm quantity during calculation; converted to int8 only
// at the radio API boundary.
type DbValue = float64

const (
	RssiMinusInfinity int8 = -127
	RssiMin           int8 = -126
	RssiMax           int8 = 0
)

// The hardware reports energy detection results as a raw level with 0.25 dB
// resolution, starting at the minimum CCA ED threshold.
const edLevelsPerDb = 4

// DbmFromLevel converts a raw energy detection level to dBm.
func DbmFromLevel(level uint8) int8 {
	dbm := int(types.MinCcaEdThresholdDbm) + int(level)/edLevelsPerDb
	if dbm > int(RssiMax) {
		dbm = int(RssiMax)
	}
	return int8(dbm)
}

// LevelFromDbm converts a dBm value to the raw energy detection level,
// clamping to the representable range.
func LevelFromDbm(dbm int8) uint8 {
	if dbm < types.MinCcaEdThresholdDbm {
		return 0
	}
	level := (int(dbm) - int(types.MinCcaEdThresholdDbm)) * edLevelsPerDb
	if level > 255 {
		level = 255
	}
	return uint8(level)
}

// AddSignalPowersDbm calculates signal power in dBm of two added,
// uncorrelated, signals with powers p1 and p2 (dBm).
func AddSignalPowersDbm(p1 DbValue, p2 DbValue) DbValue {
	if p1 > p2+15.0 { // avoid costly calculation where possible
		return p1
	}
	if p2 > p1+15.0 {
		return p2
	}
	return 10.0 * math.Log10(math.Pow(10, p1/10.0)+math.Pow(10, p2/10.0))
}

// ClipRssi clips an RSSI value (dBm, as DbValue) to the int8 range reported
// at the radio API.
func ClipRssi(rssi DbValue) int8 {
	if rssi > DbValue(RssiMax) {
		rssi = DbValue(RssiMax)
	} else if rssi < DbValue(RssiMin) {
		return RssiMinusInfinity
	}
	return int8(math.Round(rssi))
}
