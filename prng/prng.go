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

// Package prng provides the non-cryptographic randomness backing the radio
// driver's random-number request (CSMA backoff jitter) and test scenarios.
// A fixed root seed gives reproducible runs.

package prng

import (
	"math/rand"
	"sync"
	"time"
)

var (
	mu               sync.Mutex
	backoffGenerator *rand.Rand
	unitGenerator    *rand.Rand
)

func init() {
	Init(0)
}

// Init initializes the prng package, either with a fixed PRNG seed
// (rootSeed != 0) or a 'random' time-based PRNG seed (if rootSeed == 0).
func Init(rootSeed int64) {
	if rootSeed == 0 {
		rootSeed = time.Now().UnixNano()
	}
	mu.Lock()
	defer mu.Unlock()
	backoffGenerator = rand.New(rand.NewSource(rootSeed))
	unitGenerator = rand.New(rand.NewSource(rootSeed + 1))
}

// RandomUint32 serves the driver's pseudo-random-number source request. Safe
// from any goroutine; the driver calls it from callback context.
func RandomUint32() uint32 {
	mu.Lock()
	defer mu.Unlock()
	return backoffGenerator.Uint32()
}

// UnitRandom generates a random unit [0, 1) float, usable as a probability.
func UnitRandom() float64 {
	mu.Lock()
	defer mu.Unlock()
	return unitGenerator.Float64()
}
