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

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BoardConfig is the static radio configuration of one board, applied at
// platform start. Zero/absent power values mean "unset".
type BoardConfig struct {
	DefaultTxPower  *int8          `yaml:"default-tx-power,omitempty"`
	ChannelMaxPower map[uint8]int8 `yaml:"channel-max-power,omitempty"`
	CcaEdThreshold  *int8          `yaml:"cca-ed-threshold,omitempty"`
	LnaGain         int8           `yaml:"lna-gain,omitempty"`
	RegionCode      uint16         `yaml:"region-code,omitempty"`
	VendorOui       uint32         `yaml:"vendor-oui,omitempty"`
}

func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		VendorOui: 0xf4ce36, // Nordic Semiconductor OUI
	}
}

// LoadBoardConfig reads a BoardConfig from a YAML file and validates ranges.
func LoadBoardConfig(path string) (BoardConfig, error) {
	cfg := DefaultBoardConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading board config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing board config")
	}

	for ch := range cfg.ChannelMaxPower {
		if ch < MinChannelNumber || ch > MaxChannelNumber {
			return cfg, errors.Errorf("channel %d out of range [%d, %d]",
				ch, MinChannelNumber, MaxChannelNumber)
		}
	}
	if cfg.CcaEdThreshold != nil && *cfg.CcaEdThreshold < MinCcaEdThresholdDbm {
		return cfg, errors.Errorf("cca-ed-threshold %d below minimum %d dBm",
			*cfg.CcaEdThreshold, MinCcaEdThresholdDbm)
	}
	return cfg, nil
}
