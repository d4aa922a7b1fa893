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

func (rc *RadioContext) channelMaxPower(channel types.ChannelId) int8 {
	if channel < types.MinChannelNumber || channel > types.MaxChannelNumber {
		return types.PowerInvalid
	}
	return rc.maxTxPowerTable[channel-types.MinChannelNumber]
}

// transmitPowerForChannel resolves the effective TX power for a channel: the
// lower of the per-channel regulatory maximum and the default power. When
// neither is configured the effective power is 0 dBm.
func (rc *RadioContext) transmitPowerForChannel(channel types.ChannelId) int8 {
	maxPower := rc.channelMaxPower(channel)
	power := rc.defaultTxPower

	switch {
	case maxPower == types.PowerInvalid && power == types.PowerInvalid:
		power = 0
	case power == types.PowerInvalid || (maxPower != types.PowerInvalid && power > maxPower):
		power = maxPower
	}
	return power
}

// TransmitPower reports the effective power for the current channel, so a
// caller always sees the value the next transmission would use.
func (rc *RadioContext) TransmitPower() (int8, types.RadioError) {
	return rc.transmitPowerForChannel(rc.drv.Channel()), types.ErrorNone
}

// SetTransmitPower sets the default TX power. It takes effect for the current
// channel immediately, still clamped by the per-channel maximum.
func (rc *RadioContext) SetTransmitPower(power int8) types.RadioError {
	rc.defaultTxPower = power
	rc.drv.SetTxPower(rc.transmitPowerForChannel(rc.drv.Channel()))
	return types.ErrorNone
}

// SetChannelMaxTransmitPower sets the regulatory maximum for one channel.
// PowerInvalid clears the entry.
func (rc *RadioContext) SetChannelMaxTransmitPower(channel types.ChannelId, maxPower int8) types.RadioError {
	if channel < types.MinChannelNumber || channel > types.MaxChannelNumber {
		return types.ErrorInvalidArgs
	}

	rc.maxTxPowerTable[channel-types.MinChannelNumber] = maxPower
	if channel == rc.drv.Channel() {
		rc.drv.SetTxPower(rc.transmitPowerForChannel(channel))
	}
	return types.ErrorNone
}
