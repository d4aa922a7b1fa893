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

// Package aesecb is the AES-ECB crypto shim: a set-key/encrypt two-call
// wrapper mirroring the hardware ECB peripheral contract. Higher-level modes
// (CCM*) are built on single-block encryption only.

package aesecb

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/openthread/ot-radiohal/types"
)

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// Cipher holds one loaded key. The zero value is unusable until SetKey.
type Cipher struct {
	block cipher.Block
}

func New() *Cipher {
	return &Cipher{}
}

// SetKey loads a 128-bit key. Only 16-byte keys are supported, matching the
// hardware peripheral.
func (c *Cipher) SetKey(key []byte) types.RadioError {
	if len(key) != BlockSize {
		return types.ErrorInvalidArgs
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return types.ErrorFailed
	}
	c.block = block
	return types.ErrorNone
}

// Encrypt encrypts exactly one 16-byte block of input into output. Input and
// output may alias.
func (c *Cipher) Encrypt(input []byte, output []byte) types.RadioError {
	if c.block == nil {
		return types.ErrorInvalidState
	}
	if len(input) < BlockSize || len(output) < BlockSize {
		return types.ErrorInvalidArgs
	}
	c.block.Encrypt(output[:BlockSize], input[:BlockSize])
	return types.ErrorNone
}

// Free drops the loaded key.
func (c *Cipher) Free() {
	c.block = nil
}
