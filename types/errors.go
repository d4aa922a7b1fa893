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

// RadioError numeric codes follow OpenThread error.h, so that values crossing
// the platform boundary stay byte-compatible with the stack.
type RadioError uint8

const (
	ErrorNone                       RadioError = 0
	ErrorFailed                     RadioError = 1
	ErrorNoBufs                     RadioError = 3
	ErrorBusy                       RadioError = 5
	ErrorParse                      RadioError = 6
	ErrorInvalidArgs                RadioError = 7
	ErrorInvalidState               RadioError = 13
	ErrorNoAck                      RadioError = 14
	ErrorChannelAccessFailure       RadioError = 15
	ErrorAbort                      RadioError = 16
	ErrorFcs                        RadioError = 17
	ErrorNoFrameReceived            RadioError = 18
	ErrorNoAddress                  RadioError = 22
	ErrorDestinationAddressFiltered RadioError = 29
)

func (e RadioError) String() string {
	switch e {
	case ErrorNone:
		return "none"
	case ErrorFailed:
		return "failed"
	case ErrorNoBufs:
		return "no-bufs"
	case ErrorBusy:
		return "busy"
	case ErrorParse:
		return "parse"
	case ErrorInvalidArgs:
		return "invalid-args"
	case ErrorInvalidState:
		return "invalid-state"
	case ErrorNoAck:
		return "no-ack"
	case ErrorChannelAccessFailure:
		return "channel-access-failure"
	case ErrorAbort:
		return "abort"
	case ErrorFcs:
		return "fcs"
	case ErrorNoFrameReceived:
		return "no-frame-received"
	case ErrorNoAddress:
		return "no-address"
	case ErrorDestinationAddressFiltered:
		return "destination-address-filtered"
	default:
		return "unknown"
	}
}

// Error makes RadioError usable where a Go error is expected. ErrorNone is a
// value, not nil, so callers test `err == ErrorNone` rather than `err == nil`.
func (e RadioError) Error() string {
	return e.String()
}
