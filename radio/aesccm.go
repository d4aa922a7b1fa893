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

// CCM* (IEEE 802.15.4-2015 clause 9) over the single-block ECB shim, used to
// authenticate outgoing Enh-ACKs. An Enh-ACK carries no private MAC payload,
// so the whole frame before the MIC is a-data and securing reduces to MIC
// computation (plus the CTR transform of the MIC itself for encrypting
// security levels).

package radio

import (
	"encoding/binary"

	"github.com/openthread/ot-radiohal/aesecb"
	"github.com/openthread/ot-radiohal/types"
)

const ccmNonceSize = 13

// ccmNonce builds the 802.15.4 CCM* nonce: source extended address in on-air
// byte order, frame counter big-endian, security level.
func (rc *RadioContext) ccmNonce(frameCounter uint32, secLevel uint8) [ccmNonceSize]byte {
	var nonce [ccmNonceSize]byte
	copy(nonce[:8], rc.extAddress[:])
	binary.BigEndian.PutUint32(nonce[8:12], frameCounter)
	nonce[12] = secLevel
	return nonce
}

// cbcMacBlock xors one padded block into mac and encrypts in place.
func cbcMacBlock(aes *aesecb.Cipher, mac []byte, block []byte) types.RadioError {
	for i := range block {
		mac[i] ^= block[i]
	}
	return aes.Encrypt(mac, mac)
}

// ccmSecureFrame computes the CCM* MIC over the frame and writes it in front
// of the FCS. The key must already be loaded into rc.aes.
func (rc *RadioContext) ccmSecureFrame(frame *types.RadioFrame, frameCounter uint32) types.RadioError {
	secLevel := frame.SecurityLevel()
	micSize := types.MicSize(secLevel)
	if micSize == 0 {
		return types.ErrorNone
	}

	end := len(frame.Psdu) - types.FcsSize - micSize
	if end < 2 {
		return types.ErrorParse
	}
	aData := frame.Psdu[:end]
	nonce := rc.ccmNonce(frameCounter, secLevel)

	// B0: flags | nonce | message length. No private payload, l(m) = 0.
	var b0 [aesecb.BlockSize]byte
	b0[0] = 0x40 | byte((micSize-2)/2)<<3 | 0x01 // Adata, M', L=2
	copy(b0[1:1+ccmNonceSize], nonce[:])

	mac := make([]byte, aesecb.BlockSize)
	if err := rc.aes.Encrypt(b0[:], mac); err != types.ErrorNone {
		return err
	}

	// First a-data block is prefixed by the 2-byte a-data length.
	var block [aesecb.BlockSize]byte
	binary.BigEndian.PutUint16(block[:2], uint16(len(aData)))
	n := copy(block[2:], aData)
	if err := cbcMacBlock(rc.aes, mac, block[:]); err != types.ErrorNone {
		return err
	}
	for off := n; off < len(aData); off += aesecb.BlockSize {
		block = [aesecb.BlockSize]byte{}
		copy(block[:], aData[off:])
		if err := cbcMacBlock(rc.aes, mac, block[:]); err != types.ErrorNone {
			return err
		}
	}

	// Encrypt the MIC with the CTR block A0.
	var a0 [aesecb.BlockSize]byte
	a0[0] = 0x01 // L=2
	copy(a0[1:1+ccmNonceSize], nonce[:])
	var s0 [aesecb.BlockSize]byte
	if err := rc.aes.Encrypt(a0[:], s0[:]); err != types.ErrorNone {
		return err
	}
	for i := 0; i < micSize; i++ {
		frame.Psdu[end+i] = mac[i] ^ s0[i]
	}
	return types.ErrorNone
}
