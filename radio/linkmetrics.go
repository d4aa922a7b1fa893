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

// Enhanced-ACK probing (link metrics): per-initiator metric selections whose
// values are measured on the probe frame and carried back in a Thread vendor
// IE inside the Enh-ACK.

package radio

import (
	"sync"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/types"
)

// LinkMetrics selects which metrics an initiator asked to be probed. At most
// two of Lqi/LinkMargin/Rssi may be set; PduCount is not measurable by the
// radio and is always rejected.
type LinkMetrics struct {
	PduCount   bool
	Lqi        bool
	LinkMargin bool
	Rssi       bool
}

func (m LinkMetrics) count() int {
	n := 0
	for _, b := range []bool{m.Lqi, m.LinkMargin, m.Rssi} {
		if b {
			n++
		}
	}
	return n
}

func (m LinkMetrics) isEmpty() bool {
	return !m.PduCount && m.count() == 0
}

// probingTable holds the per-initiator metric configuration. Written from
// task context, read from driver callback context at ACK construction, hence
// its own lock.
type probingTable struct {
	mu      sync.Mutex
	byShort map[types.ShortAddress]LinkMetrics
	byExt   map[types.ExtAddress]LinkMetrics
}

func newProbingTable() *probingTable {
	return &probingTable{
		byShort: make(map[types.ShortAddress]LinkMetrics),
		byExt:   make(map[types.ExtAddress]LinkMetrics),
	}
}

func (t *probingTable) set(short types.ShortAddress, ext types.ExtAddress, m LinkMetrics) {
	t.mu.Lock()
	t.byShort[short] = m
	t.byExt[ext] = m
	t.mu.Unlock()
}

func (t *probingTable) remove(short types.ShortAddress, ext types.ExtAddress) {
	t.mu.Lock()
	delete(t.byShort, short)
	delete(t.byExt, ext)
	t.mu.Unlock()
}

func (t *probingTable) lookup(addr types.MacAddress) (LinkMetrics, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch addr.Type {
	case types.MacAddressTypeShort:
		m, ok := t.byShort[addr.Short]
		return m, ok
	case types.MacAddressTypeExt:
		m, ok := t.byExt[addr.Ext]
		return m, ok
	}
	return LinkMetrics{}, false
}

// ConfigureEnhAckProbing installs or removes the probing configuration for an
// initiator. An empty metrics selection removes it. A placeholder vendor IE
// is registered in the driver's ACK data table so Enh-ACKs to the initiator
// reserve room; measured values are patched in when the ACK starts.
func (rc *RadioContext) ConfigureEnhAckProbing(metrics LinkMetrics, shortAddr types.ShortAddress, extAddr types.ExtAddress) types.RadioError {
	short := convertShortAddress(shortAddr)

	if metrics.isEmpty() {
		rc.probing.remove(shortAddr, extAddr)
		rc.drv.AckDataClear(short[:], false, driver.AckDataIe)
		rc.drv.AckDataClear(extAddr[:], true, driver.AckDataIe)
		return types.ErrorNone
	}

	if metrics.PduCount || metrics.count() > types.EnhProbingIeDataMaxSize {
		return types.ErrorInvalidArgs
	}

	rc.probing.set(shortAddr, extAddr, metrics)

	ie := types.GenerateEnhAckProbingIe(make([]byte, metrics.count()))
	rc.drv.AckDataSet(short[:], false, ie, driver.AckDataIe)
	rc.drv.AckDataSet(extAddr[:], true, ie, driver.AckDataIe)
	return types.ErrorNone
}

// enhAckProbingData measures the configured metrics against the probe frame
// just received. Byte encoding follows the Thread link-metrics sub-TLV order:
// LQI, link margin, RSSI.
func enhAckProbingData(m LinkMetrics, rssi int8, lqi uint8) []byte {
	data := make([]byte, 0, types.EnhProbingIeDataMaxSize)
	if m.Lqi {
		data = append(data, lqi)
	}
	if m.LinkMargin {
		margin := int(rssi) - int(types.ReceiveSensitivityDbm)
		if margin < 0 {
			margin = 0
		} else if margin > 130 {
			margin = 130
		}
		// Scale to the 0..255 wire range.
		data = append(data, uint8(margin*255/130))
	}
	if m.Rssi {
		// Shift from [-130, 0] dBm to the 0..255 wire range.
		v := int(rssi) + 130
		if v < 0 {
			v = 0
		} else if v > 130 {
			v = 130
		}
		data = append(data, uint8(v*255/130))
	}
	return data
}
