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

// Package diag is the factory diagnostics console of the radio platform: an
// interactive command surface over one RadioContext, driving the simulated
// peripheral.

package diag

import (
	"strconv"

	"github.com/alecthomas/participle"
)

// noinspection GoStructTag
type Command struct {
	CcaThreshold *CcaThresholdCmd `  @@` //nolint
	Channel      *ChannelCmd      `| @@` //nolint
	Carrier      *CarrierCmd      `| @@` //nolint
	Ed           *EdCmd           `| @@` //nolint
	Eui64        *Eui64Cmd        `| @@` //nolint
	Exit         *ExitCmd         `| @@` //nolint
	Gain         *GainCmd         `| @@` //nolint
	Help         *HelpCmd         `| @@` //nolint
	Inject       *InjectCmd       `| @@` //nolint
	Listen       *ListenCmd       `| @@` //nolint
	LogLevel     *LogLevelCmd     `| @@` //nolint
	Pcap         *PcapCmd         `| @@` //nolint
	Power        *PowerCmd        `| @@` //nolint
	Region       *RegionCmd       `| @@` //nolint
	Rssi         *RssiCmd         `| @@` //nolint
	Send         *SendCmd         `| @@` //nolint
	Sleep        *SleepCmd        `| @@` //nolint
	State        *StateCmd        `| @@` //nolint
	Stats        *StatsCmd        `| @@` //nolint
}

// Dbm captures a possibly negative integer argument.
type Dbm struct {
	Val string `@( "-"? Int )` //nolint
}

func (d *Dbm) Int() (int, error) {
	return strconv.Atoi(d.Val)
}

// noinspection GoStructTag
type ChannelCmd struct {
	Cmd struct{} `"channel"` //nolint
	Val *int     `[ @Int ]`  //nolint
}

// noinspection GoStructTag
type PowerCmd struct {
	Cmd struct{} `"power"` //nolint
	Val *Dbm     `[ @@ ]`  //nolint
}

// noinspection GoStructTag
type CcaThresholdCmd struct {
	Cmd struct{} `"ccathreshold"` //nolint
	Val *Dbm     `[ @@ ]`         //nolint
}

// noinspection GoStructTag
type GainCmd struct {
	Cmd struct{} `"gain"` //nolint
	Val *Dbm     `[ @@ ]` //nolint
}

// noinspection GoStructTag
type RegionCmd struct {
	Cmd struct{} `"region"`   //nolint
	Val *string  `[ @Ident ]` //nolint
}

// noinspection GoStructTag
type ListenCmd struct {
	Cmd struct{} `"listen"` //nolint
	Val *int     `[ @Int ]` //nolint
}

// noinspection GoStructTag
type SleepCmd struct {
	Cmd struct{} `"sleep"` //nolint
}

// noinspection GoStructTag
type StateCmd struct {
	Cmd struct{} `"state"` //nolint
}

// noinspection GoStructTag
type SendCmd struct {
	Cmd    struct{} `"send"` //nolint
	Count  int      `@Int`   //nolint
	Length int      `@Int`   //nolint
}

// noinspection GoStructTag
type CarrierCmd struct {
	Cmd  struct{}  `"carrier"` //nolint
	Stop *StopFlag `[ @@ ]`    //nolint
}

// noinspection GoStructTag
type StopFlag struct {
	Dummy struct{} `"stop"` //nolint
}

// noinspection GoStructTag
type EdCmd struct {
	Cmd      struct{} `"ed"`     //nolint
	Duration *int     `[ @Int ]` //nolint
}

// noinspection GoStructTag
type RssiCmd struct {
	Cmd struct{} `"rssi"` //nolint
}

// noinspection GoStructTag
type Eui64Cmd struct {
	Cmd struct{} `"eui64"` //nolint
}

// noinspection GoStructTag
// The PSDU hex must carry a 0x prefix so that it lexes as a single token.
type InjectCmd struct {
	Cmd  struct{} `"inject"`         //nolint
	Hex  string   `@( Int | Ident )` //nolint
	Rssi *Dbm     `[ @@ ]`           //nolint
}

// noinspection GoStructTag
type StatsCmd struct {
	Cmd   struct{}   `"stats"` //nolint
	Clear *ClearFlag `[ @@ ]`  //nolint
}

// noinspection GoStructTag
type ClearFlag struct {
	Dummy struct{} `"clear"` //nolint
}

// noinspection GoStructTag
type LogLevelCmd struct {
	Cmd   struct{} `"loglevel"`                                                   //nolint
	Level string   `[ @( "micro"|"trace"|"debug"|"info"|"warn"|"error"|"off" ) ]` //nolint
}

// noinspection GoStructTag
type PcapCmd struct {
	Cmd  struct{} `"pcap"`                          //nolint
	Mode string   `[ @( "off" | "wpan" | "tap" ) ]` //nolint
	File *string  `[ @String ]`                     //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`     //nolint
	HelpTopic string   `[ @Ident ]` //nolint
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

var (
	commandParser = participle.MustBuild(&Command{})
)

func ParseBytes(b []byte, cmd *Command) error {
	err := commandParser.ParseBytes(b, cmd)
	return err
}
