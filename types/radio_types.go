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

// Radio platform types and IEEE 802.15.4-2015 constants shared by all packages.

package types

import (
	"github.com/simonlingoogle/go-simplelogger"
)

type ChannelId = uint8

// IEEE 802.15.4-2015 2.4 GHz O-QPSK PHY parameters. These assumptions are
// hardcoded into the OT stack and reproduced here.
const (
	MinChannelNumber ChannelId = 11
	MaxChannelNumber ChannelId = 26
	MacFrameLenBytes           = 127 // aMaxPhyPacketSize
	TimeUsPerBit               = 4
	UsPerTenSymbols            = 160 // CSL period/phase unit
	UsPerMs                    = 1000
)

// Radio hardware limits of the nRF528xx peripheral.
const (
	ReceiveSensitivityDbm int8 = -100
	MinCcaEdThresholdDbm  int8 = -94
)

// PowerInvalid marks an unset TX power value (OT_RADIO_POWER_INVALID).
const PowerInvalid int8 = 127

type RadioState byte

const (
	RadioDisabled        RadioState = 0
	RadioSleep           RadioState = 1
	RadioReceive         RadioState = 2
	RadioTransmit        RadioState = 3
	RadioEnergyDetection RadioState = 4
)

func (s RadioState) String() string {
	switch s {
	case RadioDisabled:
		return "disabled"
	case RadioSleep:
		return "sleep"
	case RadioReceive:
		return "receive"
	case RadioTransmit:
		return "transmit"
	case RadioEnergyDetection:
		return "energy-detection"
	default:
		simplelogger.Panicf("invalid RadioState: %d", byte(s))
		return "invalid"
	}
}

// RadioCaps bit values follow OT_RADIO_CAPS_* from OpenThread radio.h.
type RadioCaps uint16

const (
	CapAckTimeout      RadioCaps = 1 << 0
	CapEnergyScan      RadioCaps = 1 << 1
	CapTransmitRetries RadioCaps = 1 << 2
	CapCsmaBackoff     RadioCaps = 1 << 3
	CapSleepToTx       RadioCaps = 1 << 4
	CapTransmitSec     RadioCaps = 1 << 5
	CapTransmitTiming  RadioCaps = 1 << 6
	CapReceiveTiming   RadioCaps = 1 << 7
)

type ShortAddress = uint16

const (
	ShortAddressSize = 2
	ExtAddressSize   = 8
)

// ExtAddress is an IEEE 802.15.4 extended (EUI-64) address, in the byte order
// used by the upper layer (big-endian as transmitted in the MAC header is the
// reverse of this).
type ExtAddress [ExtAddressSize]byte

// Reversed returns the address with byte order swapped, as it appears on air.
func (a ExtAddress) Reversed() (r ExtAddress) {
	for i := 0; i < ExtAddressSize; i++ {
		r[i] = a[ExtAddressSize-1-i]
	}
	return r
}

// KeySize is the 802.15.4-2015 MAC security key length (AES-128).
const KeySize = 16

// KeyMaterial holds one literal MAC security key.
type KeyMaterial struct {
	Key [KeySize]byte
}

// MacAddressType discriminates the union in MacAddress.
type MacAddressType byte

const (
	MacAddressTypeNone  MacAddressType = 0
	MacAddressTypeShort MacAddressType = 1
	MacAddressTypeExt   MacAddressType = 2
)

type MacAddress struct {
	Type  MacAddressType
	Short ShortAddress
	Ext   ExtAddress
}
