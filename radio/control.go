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
	"github.com/openthread/ot-radiohal/event"
	"github.com/openthread/ot-radiohal/types"
)

// State maps the driver state machine to the platform-level radio state.
func (rc *RadioContext) State() types.RadioState {
	if rc.disabled {
		return types.RadioDisabled
	}

	switch rc.drv.State() {
	case driver.StateSleep:
		return types.RadioSleep
	case driver.StateReceive:
		return types.RadioReceive
	case driver.StateEnergyDetection:
		return types.RadioEnergyDetection
	case driver.StateTransmit, driver.StateCca, driver.StateContinuousCarrier:
		return types.RadioTransmit
	default:
		return types.RadioReceive // default driver state
	}
}

func (rc *RadioContext) IsEnabled() bool {
	return !rc.disabled
}

// Enable powers the platform on; only valid from the Disabled state.
func (rc *RadioContext) Enable() types.RadioError {
	if !rc.disabled {
		return types.ErrorInvalidState
	}
	rc.disabled = false
	return types.ErrorNone
}

// Disable succeeds only from Sleep or while a sleep request is outstanding.
// Disabling an already-disabled radio is a no-op.
func (rc *RadioContext) Disable() types.RadioError {
	if !rc.IsEnabled() {
		return types.ErrorNone
	}
	if rc.State() != types.RadioSleep && !rc.pending.IsSet(event.Sleep) {
		return types.ErrorInvalidState
	}
	rc.disabled = true
	return types.ErrorNone
}

// Sleep is best-effort: when the driver cannot idle mid-operation, the
// request is queued as a pending event and retried by the dispatcher.
func (rc *RadioContext) Sleep() types.RadioError {
	if rc.drv.SleepIfIdle() {
		rc.femDisable()
		rc.pending.ClearStale()
	} else {
		rc.pending.ClearStale()
		rc.pending.Signal(event.Sleep)
	}
	return types.ErrorNone
}

// Receive switches to receive on the given channel, applying the per-channel
// power policy.
func (rc *RadioContext) Receive(channel types.ChannelId) types.RadioError {
	rc.drv.SetChannel(channel)
	if rc.drv.State() == driver.StateSleep {
		// Enable FEM before the radio leaves the sleep state.
		rc.femEnable()
	}

	rc.drv.SetTxPower(rc.transmitPowerForChannel(channel))
	result := rc.drv.Receive()
	rc.pending.ClearStale()

	if !result {
		return types.ErrorInvalidState
	}
	return types.ErrorNone
}

// ReceiveAt schedules a receive window (CSL receiver operation).
func (rc *RadioContext) ReceiveAt(channel types.ChannelId, start uint32, duration uint32) types.RadioError {
	rc.drv.SetTxPower(rc.transmitPowerForChannel(channel))
	result := rc.drv.ReceiveAt(start-safeDelta, safeDelta, duration, channel)
	rc.pending.ClearStale()

	if !result {
		return types.ErrorFailed
	}
	return types.ErrorNone
}

// Transmit hands the frame to the driver. All transmit failures, including a
// synchronous driver refusal, are reported asynchronously through the event
// path as ChannelAccessFailure; the call itself only fails for a frame that
// is not the platform transmit buffer.
func (rc *RadioContext) Transmit(frame *types.RadioFrame) types.RadioError {
	if frame != &rc.txFrame {
		return types.ErrorInvalidArgs
	}

	if rc.drv.State() == driver.StateSleep {
		// Enable FEM before the radio leaves the sleep state.
		rc.femEnable()
	}

	if frame.IsSecurityEnabled() && frame.IsKeyIdMode1() && !frame.TxInfo.IsARetx {
		rc.stampTxSecurity(frame)
	}

	result := true

	if frame.TxInfo.TxDelay != 0 {
		result = rc.drv.TransmitAt(frame.Psdu, frame.TxInfo.TxDelayBaseTime,
			frame.TxInfo.TxDelay, frame.Channel)
	} else {
		rc.drv.SetChannel(frame.Channel)
		rc.drv.SetTxPower(rc.transmitPowerForChannel(frame.Channel))

		if frame.TxInfo.CsmaCaEnabled {
			rc.drv.SetMaxCsmaBackoffs(frame.TxInfo.MaxCsmaBackoffs)
			rc.drv.TransmitCsmaCa(frame.Psdu)
		} else {
			result = rc.drv.Transmit(frame.Psdu, false)
		}
	}

	rc.pending.ClearStale()
	rc.handler.TxStarted(frame)

	if !result {
		rc.pending.Signal(event.ChannelAccessFailure)
	}

	return types.ErrorNone
}

// EnergyScan requests an energy detection procedure. A busy driver leaves
// EnergyDetectionStart pending, retried on every dispatch pass until granted.
func (rc *RadioContext) EnergyScan(channel types.ChannelId, durationMs uint16) types.RadioError {
	rc.energyDetectionTimeUs = uint32(durationMs) * types.UsPerMs
	rc.energyDetectionChannel = channel

	rc.pending.ClearStale()

	rc.drv.SetChannel(channel)
	if rc.drv.EnergyDetection(rc.energyDetectionTimeUs) {
		rc.pending.Clear(event.EnergyDetectionStart)
	} else {
		rc.pending.Signal(event.EnergyDetectionStart)
	}
	return types.ErrorNone
}

// ContinuousCarrier starts an unmodulated carrier on the given channel, a
// regulatory-test mode. A receive request stops it.
func (rc *RadioContext) ContinuousCarrier(channel types.ChannelId) types.RadioError {
	rc.drv.SetChannel(channel)
	rc.drv.SetTxPower(rc.transmitPowerForChannel(channel))
	if !rc.drv.ContinuousCarrier() {
		return types.ErrorFailed
	}
	return types.ErrorNone
}

// Rssi measures and returns the last RSSI value. The driver is responsible
// for the post-channel-switch settle time.
func (rc *RadioContext) Rssi() int8 {
	rc.drv.RssiMeasureBegin()
	return rc.drv.RssiLast()
}

// Channel reports the channel the driver is currently configured for.
func (rc *RadioContext) Channel() types.ChannelId {
	return rc.drv.Channel()
}

func (rc *RadioContext) Caps() types.RadioCaps {
	return types.CapEnergyScan | types.CapAckTimeout | types.CapCsmaBackoff |
		types.CapTransmitSec | types.CapTransmitTiming | types.CapReceiveTiming |
		types.CapSleepToTx
}

func (rc *RadioContext) ReceiveSensitivity() int8 {
	return types.ReceiveSensitivityDbm
}

func (rc *RadioContext) Promiscuous() bool {
	return rc.drv.Promiscuous()
}

func (rc *RadioContext) SetPromiscuous(enable bool) {
	rc.drv.SetPromiscuous(enable)
}

func convertShortAddress(addr types.ShortAddress) [types.ShortAddressSize]byte {
	var b [types.ShortAddressSize]byte
	binary.LittleEndian.PutUint16(b[:], addr)
	return b
}

func (rc *RadioContext) SetPanId(panId uint16) {
	rc.drv.SetPanId(convertShortAddress(panId))
}

func (rc *RadioContext) SetShortAddress(addr types.ShortAddress) {
	rc.drv.SetShortAddress(convertShortAddress(addr))
}

func (rc *RadioContext) SetExtendedAddress(addr types.ExtAddress) {
	// Kept in on-air byte order for Enh-ACK nonce construction.
	rc.extAddress = addr.Reversed()
	rc.drv.SetExtendedAddress(addr)
}

// IeeeEui64 derives the factory-assigned EUI-64 from the vendor OUI and the
// production device identifier.
func (rc *RadioContext) IeeeEui64() [8]byte {
	var eui [8]byte
	oui := rc.cfg.Board.VendorOui
	eui[0] = byte(oui >> 16)
	eui[1] = byte(oui >> 8)
	eui[2] = byte(oui)
	id := rc.cfg.FactoryDeviceId
	for i := 3; i < 8; i++ {
		eui[i] = byte(id >> uint(8*(7-i)))
	}
	return eui
}

// Source-match (pending bit) table management.

func (rc *RadioContext) EnableSrcMatch(enable bool) {
	rc.drv.SetAutoPendingBit(enable)
}

func (rc *RadioContext) AddSrcMatchShortEntry(addr types.ShortAddress) types.RadioError {
	b := convertShortAddress(addr)
	if !rc.drv.PendingBitSet(b[:], false) {
		return types.ErrorNoBufs
	}
	return types.ErrorNone
}

func (rc *RadioContext) AddSrcMatchExtEntry(addr types.ExtAddress) types.RadioError {
	if !rc.drv.PendingBitSet(addr[:], true) {
		return types.ErrorNoBufs
	}
	return types.ErrorNone
}

func (rc *RadioContext) ClearSrcMatchShortEntry(addr types.ShortAddress) types.RadioError {
	b := convertShortAddress(addr)
	if !rc.drv.PendingBitClear(b[:], false) {
		return types.ErrorNoAddress
	}
	return types.ErrorNone
}

func (rc *RadioContext) ClearSrcMatchExtEntry(addr types.ExtAddress) types.RadioError {
	if !rc.drv.PendingBitClear(addr[:], true) {
		return types.ErrorNoAddress
	}
	return types.ErrorNone
}

func (rc *RadioContext) ClearSrcMatchShortEntries() {
	rc.drv.PendingBitReset(false)
}

func (rc *RadioContext) ClearSrcMatchExtEntries() {
	rc.drv.PendingBitReset(true)
}

// CCA energy-detect threshold, corrected for the configured LNA gain.

func (rc *RadioContext) CcaEnergyDetectThreshold() (int8, types.RadioError) {
	cfg := rc.drv.CcaConfig()
	return rc.drv.DbmFromEdThreshold(cfg.EdThreshold) - rc.lnaGain, types.ErrorNone
}

func (rc *RadioContext) SetCcaEnergyDetectThreshold(threshold int8) types.RadioError {
	threshold += rc.lnaGain

	// The minimum ED threshold the driver accepts is -94 dBm.
	if threshold < types.MinCcaEdThresholdDbm {
		return types.ErrorInvalidArgs
	}

	rc.drv.SetCcaConfig(driver.CcaConfig{
		EdThreshold: rc.drv.EdThresholdFromDbm(threshold),
	})
	return types.ErrorNone
}

func (rc *RadioContext) FemLnaGain() int8 {
	return rc.lnaGain
}

func (rc *RadioContext) SetFemLnaGain(gain int8) types.RadioError {
	threshold, err := rc.CcaEnergyDetectThreshold()
	if err != types.ErrorNone {
		return err
	}

	oldGain := rc.lnaGain
	rc.lnaGain = gain
	if err := rc.SetCcaEnergyDetectThreshold(threshold); err != types.ErrorNone {
		rc.lnaGain = oldGain
		return err
	}
	return types.ErrorNone
}

func (rc *RadioContext) Region() uint16 {
	return rc.regionCode
}

func (rc *RadioContext) SetRegion(regionCode uint16) types.RadioError {
	rc.regionCode = regionCode
	if rc.cfg.RegionChanged != nil {
		rc.cfg.RegionChanged(regionCode)
	}
	return types.ErrorNone
}
