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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/driver/simdriver"
	"github.com/openthread/ot-radiohal/event"
	"github.com/openthread/ot-radiohal/types"
)

type rxResult struct {
	frame *types.RadioFrame
	err   types.RadioError
}

type txResult struct {
	ack *types.RadioFrame
	err types.RadioError
}

type testHandler struct {
	rxDone    []rxResult
	txDone    []txResult
	energy    []int8
	txStarted int
}

// snapshotFrame copies a delivered frame; the dispatcher recycles the frame
// and its pool buffer once the callback returns.
func snapshotFrame(frame *types.RadioFrame) *types.RadioFrame {
	if frame == nil {
		return nil
	}
	cp := *frame
	cp.Psdu = append([]byte(nil), frame.Psdu...)
	return &cp
}

func (h *testHandler) ReceiveDone(frame *types.RadioFrame, err types.RadioError) {
	h.rxDone = append(h.rxDone, rxResult{snapshotFrame(frame), err})
}

func (h *testHandler) TransmitDone(frame *types.RadioFrame, ack *types.RadioFrame, err types.RadioError) {
	h.txDone = append(h.txDone, txResult{snapshotFrame(ack), err})
}

func (h *testHandler) EnergyScanDone(maxRssiDbm int8) {
	h.energy = append(h.energy, maxRssiDbm)
}

func (h *testHandler) TxStarted(frame *types.RadioFrame) {
	h.txStarted++
}

type testClock struct {
	now uint64
	ppm uint8
}

func (c *testClock) NowMicros() uint64      { return c.now }
func (c *testClock) XtalAccuracyPpm() uint8 { return c.ppm }

func newTestRadio(t *testing.T) (*RadioContext, *simdriver.Driver, *testHandler, *testClock) {
	t.Helper()
	drv := simdriver.New()
	h := &testHandler{}
	clk := &testClock{ppm: 40}
	rc := New(drv, h, clk, event.WakerFunc(func() {}), nil, Config{Board: types.DefaultBoardConfig()})
	rc.Init()
	assert.Equal(t, types.ErrorNone, rc.Enable())
	return rc, drv, h, clk
}

func TestEnableDisable(t *testing.T) {
	rc, _, _, _ := newTestRadio(t)

	assert.Equal(t, types.ErrorInvalidState, rc.Enable())

	// Disable from Receive is invalid; from Sleep it succeeds.
	assert.Equal(t, types.ErrorNone, rc.Receive(11))
	assert.Equal(t, types.ErrorInvalidState, rc.Disable())

	assert.Equal(t, types.ErrorNone, rc.Sleep())
	assert.Equal(t, types.ErrorNone, rc.Disable())
	assert.Equal(t, types.RadioDisabled, rc.State())
	assert.Equal(t, types.ErrorNone, rc.Disable()) // no-op when already disabled

	assert.Equal(t, types.ErrorNone, rc.Enable())
}

func TestSleepBusyRetry(t *testing.T) {
	rc, drv, _, _ := newTestRadio(t)

	assert.Equal(t, types.ErrorNone, rc.Receive(11))
	drv.RejectSleep = 2

	assert.Equal(t, types.ErrorNone, rc.Sleep())
	assert.True(t, rc.pending.IsSet(event.Sleep))

	rc.Process() // still refused
	assert.True(t, rc.pending.IsSet(event.Sleep))

	rc.Process() // granted now
	assert.False(t, rc.pending.IsSet(event.Sleep))
	assert.Equal(t, types.RadioSleep, rc.State())
}

func TestDisableWithSleepPending(t *testing.T) {
	rc, drv, _, _ := newTestRadio(t)

	assert.Equal(t, types.ErrorNone, rc.Receive(11))
	drv.RejectSleep = 1
	assert.Equal(t, types.ErrorNone, rc.Sleep())

	// Not yet asleep, but the sleep request is outstanding.
	assert.Equal(t, types.RadioReceive, rc.State())
	assert.Equal(t, types.ErrorNone, rc.Disable())
}

func TestTransmitPowerPolicy(t *testing.T) {
	rc, drv, _, _ := newTestRadio(t)
	assert.Equal(t, types.ErrorNone, rc.Receive(11))

	// Channel max 4 dBm caps the default of 8 dBm.
	assert.Equal(t, types.ErrorNone, rc.SetChannelMaxTransmitPower(11, 4))
	assert.Equal(t, types.ErrorNone, rc.SetTransmitPower(8))
	power, err := rc.TransmitPower()
	assert.Equal(t, types.ErrorNone, err)
	assert.Equal(t, int8(4), power)
	assert.Equal(t, int8(4), drv.TxPower())

	// Unset channel max: the default applies.
	assert.Equal(t, types.ErrorNone, rc.SetChannelMaxTransmitPower(11, types.PowerInvalid))
	power, _ = rc.TransmitPower()
	assert.Equal(t, int8(8), power)

	// Both unset: 0 dBm.
	assert.Equal(t, types.ErrorNone, rc.SetTransmitPower(types.PowerInvalid))
	power, _ = rc.TransmitPower()
	assert.Equal(t, int8(0), power)

	assert.Equal(t, types.ErrorInvalidArgs, rc.SetChannelMaxTransmitPower(27, 0))
}

func TestCcaThresholdWithLnaGain(t *testing.T) {
	rc, drv, _, _ := newTestRadio(t)

	assert.Equal(t, types.ErrorNone, rc.SetCcaEnergyDetectThreshold(-70))
	threshold, err := rc.CcaEnergyDetectThreshold()
	assert.Equal(t, types.ErrorNone, err)
	assert.Equal(t, int8(-70), threshold)
	// The raw hardware threshold counts quarter-dB steps above -94 dBm.
	assert.Equal(t, drv.EdThresholdFromDbm(-70), drv.CcaConfig().EdThreshold)

	// Below the hardware minimum.
	assert.Equal(t, types.ErrorInvalidArgs, rc.SetCcaEnergyDetectThreshold(-100))

	// The LNA gain shifts the raw threshold but not the reported dBm value.
	assert.Equal(t, types.ErrorNone, rc.SetFemLnaGain(10))
	threshold, _ = rc.CcaEnergyDetectThreshold()
	assert.Equal(t, int8(-70), threshold)
	assert.Equal(t, drv.EdThresholdFromDbm(-60), drv.CcaConfig().EdThreshold)
	assert.Equal(t, int8(10), rc.FemLnaGain())
}

func TestInitRejectsBadBoardThreshold(t *testing.T) {
	bad := int8(-120)
	board := types.DefaultBoardConfig()
	board.CcaEdThreshold = &bad

	drv := simdriver.New()
	rc := New(drv, &testHandler{}, &testClock{}, event.WakerFunc(func() {}), nil, Config{Board: board})
	rc.Init()

	// The out-of-range board value was rejected; the driver default stands.
	threshold, err := rc.CcaEnergyDetectThreshold()
	assert.Equal(t, types.ErrorNone, err)
	assert.Equal(t, types.MinCcaEdThresholdDbm, threshold)
}

func TestSrcMatchTables(t *testing.T) {
	rc, drv, _, _ := newTestRadio(t)

	rc.EnableSrcMatch(true)
	assert.Equal(t, types.ErrorNone, rc.AddSrcMatchShortEntry(0x1234))
	assert.True(t, drv.HasPendingBit([]byte{0x34, 0x12}, false))

	ext := types.ExtAddress{1, 2, 3, 4, 5, 6, 7, 8}
	assert.Equal(t, types.ErrorNone, rc.AddSrcMatchExtEntry(ext))
	assert.True(t, drv.HasPendingBit(ext[:], true))

	assert.Equal(t, types.ErrorNone, rc.ClearSrcMatchShortEntry(0x1234))
	assert.Equal(t, types.ErrorNoAddress, rc.ClearSrcMatchShortEntry(0x1234))

	rc.ClearSrcMatchExtEntries()
	assert.False(t, drv.HasPendingBit(ext[:], true))
}

func TestIeeeEui64(t *testing.T) {
	drv := simdriver.New()
	rc := New(drv, &testHandler{}, &testClock{}, event.WakerFunc(func() {}), nil, Config{
		Board:           types.DefaultBoardConfig(),
		FactoryDeviceId: 0x0102030405,
	})
	rc.Init()

	eui := rc.IeeeEui64()
	assert.Equal(t, [8]byte{0xf4, 0xce, 0x36, 0x01, 0x02, 0x03, 0x04, 0x05}, eui)
}

func TestRegionHook(t *testing.T) {
	var seen []uint16
	drv := simdriver.New()
	rc := New(drv, &testHandler{}, &testClock{}, event.WakerFunc(func() {}), nil, Config{
		Board:         types.DefaultBoardConfig(),
		RegionChanged: func(code uint16) { seen = append(seen, code) },
	})
	rc.Init()

	assert.Equal(t, types.ErrorNone, rc.SetRegion(0x5755)) // "UW"
	assert.Equal(t, uint16(0x5755), rc.Region())
	assert.Equal(t, []uint16{0x5755}, seen)
}

func TestContinuousCarrier(t *testing.T) {
	rc, drv, _, _ := newTestRadio(t)

	drv.RejectCarrier = 1
	assert.Equal(t, types.ErrorFailed, rc.ContinuousCarrier(15))

	assert.Equal(t, types.ErrorNone, rc.ContinuousCarrier(15))
	assert.Equal(t, types.RadioTransmit, rc.State())
	assert.Equal(t, types.ChannelId(15), drv.Channel())

	assert.Equal(t, types.ErrorNone, rc.Receive(15))
	assert.Equal(t, types.RadioReceive, rc.State())
}

func TestReceiveFailureMapping(t *testing.T) {
	cases := []struct {
		reason driver.RxError
		want   types.RadioError
	}{
		{driver.RxErrorInvalidFrame, types.ErrorNoFrameReceived},
		{driver.RxErrorInvalidLength, types.ErrorFailed},
		{driver.RxErrorInvalidFcs, types.ErrorFcs},
		{driver.RxErrorInvalidDestAddr, types.ErrorDestinationAddressFiltered},
		{driver.RxErrorRuntime, types.ErrorFailed},
		{driver.RxErrorAborted, types.ErrorFailed},
	}

	for _, c := range cases {
		rc, drv, h, _ := newTestRadio(t)
		assert.Equal(t, types.ErrorNone, rc.Receive(11))

		drv.InjectReceiveFailure(c.reason)
		rc.Process()

		if assert.Len(t, h.rxDone, 1, "reason %d", c.reason) {
			assert.Nil(t, h.rxDone[0].frame)
			assert.Equal(t, c.want, h.rxDone[0].err)
		}
	}
}

func TestReceiveWindowTimeoutSleeps(t *testing.T) {
	// Window elapsed without a frame: not a receive failure, the radio goes
	// back to sleep. The timeslot ending mid-window gets the same treatment.
	for _, reason := range []driver.RxError{driver.RxErrorDelayedTimeout, driver.RxErrorTimeslotEnded} {
		rc, drv, h, _ := newTestRadio(t)

		assert.Equal(t, types.ErrorNone, rc.ReceiveAt(11, 50000, 5000))

		drv.InjectReceiveFailure(reason)
		assert.True(t, rc.pending.IsSet(event.Sleep), "reason %d", reason)

		rc.Process()
		assert.Empty(t, h.rxDone)
		assert.Equal(t, types.RadioSleep, rc.State())
	}
}

func TestReceiveDelivery(t *testing.T) {
	rc, drv, h, _ := newTestRadio(t)
	assert.Equal(t, types.ErrorNone, rc.Receive(11))

	psdu := []byte{0x41, 0x88, 0x01, 0xcd, 0xab, 0xff, 0xff, 0x34, 0x12, 0x00, 0x00}
	assert.True(t, drv.InjectFrame(psdu, -60, 127, 10000))
	assert.Equal(t, 1, drv.LiveBuffers())

	rc.Process()

	if assert.Len(t, h.rxDone, 1) {
		got := h.rxDone[0]
		assert.Equal(t, types.ErrorNone, got.err)
		assert.Equal(t, psdu, got.frame.Psdu)
		assert.Equal(t, int8(-60), got.frame.RxInfo.Rssi)
		assert.Equal(t, uint8(127), got.frame.RxInfo.Lqi)
		// End-of-frame 10000 µs minus PHR+PSDU air time.
		assert.Equal(t, uint64(10000-(len(psdu)+1)*32), got.frame.RxInfo.Timestamp)
	}
	// The pool buffer went back to the driver after delivery.
	assert.Equal(t, 0, drv.LiveBuffers())
}

func TestAckInfoGatedByFrameFlags(t *testing.T) {
	rc, drv, h, _ := newTestRadio(t)
	setTestKeys(rc)
	assert.Equal(t, types.ErrorNone, rc.Receive(11))

	startSecuredAck := func() {
		psdu := securedEnhAck(5)
		psdu[0] |= 0x10 // frame pending
		drv.StartAck(psdu, -60, 100)
	}

	// The frame did not request an ACK: none of the staged ACK info applies.
	startSecuredAck()
	assert.True(t, drv.InjectFrame([]byte{0x01, 0x00, 0x2a, 0x00, 0x00}, -60, 100, 1000))
	rc.Process()

	// ACK requested on a pre-2015 frame: the frame-pending flag only.
	startSecuredAck()
	assert.True(t, drv.InjectFrame([]byte{0x21, 0x00, 0x2b, 0x00, 0x00}, -60, 100, 2000))
	rc.Process()

	// ACK requested on a version-2015 frame: security fields included.
	startSecuredAck()
	assert.True(t, drv.InjectFrame([]byte{0x21, 0x20, 0x2c, 0x00, 0x00}, -60, 100, 3000))
	rc.Process()

	// A receive failure in between drops the staged info.
	startSecuredAck()
	drv.InjectReceiveFailure(driver.RxErrorInvalidFcs)
	rc.Process()
	assert.True(t, drv.InjectFrame([]byte{0x21, 0x20, 0x2d, 0x00, 0x00}, -60, 100, 4000))
	rc.Process()

	if assert.Len(t, h.rxDone, 5) {
		noAr := h.rxDone[0].frame.RxInfo
		assert.False(t, noAr.AckedWithFramePending)
		assert.False(t, noAr.AckedWithSecEnhAck)
		assert.Zero(t, noAr.AckFrameCounter)
		assert.Zero(t, noAr.AckKeyId)

		imm := h.rxDone[1].frame.RxInfo
		assert.True(t, imm.AckedWithFramePending)
		assert.False(t, imm.AckedWithSecEnhAck)
		assert.Zero(t, imm.AckFrameCounter)

		enh := h.rxDone[2].frame.RxInfo
		assert.True(t, enh.AckedWithFramePending)
		assert.True(t, enh.AckedWithSecEnhAck)
		assert.Equal(t, uint32(102), enh.AckFrameCounter)
		assert.Equal(t, uint8(5), enh.AckKeyId)

		assert.Equal(t, types.ErrorFcs, h.rxDone[3].err)

		cleared := h.rxDone[4].frame.RxInfo
		assert.False(t, cleared.AckedWithFramePending)
		assert.False(t, cleared.AckedWithSecEnhAck)
	}
}

func TestEnergyScanRetryAndResult(t *testing.T) {
	rc, drv, h, _ := newTestRadio(t)

	drv.RejectEnergyDetection = 1
	assert.Equal(t, types.ErrorNone, rc.EnergyScan(15, 10))
	assert.True(t, rc.pending.IsSet(event.EnergyDetectionStart))

	rc.Process() // retried and granted
	assert.False(t, rc.pending.IsSet(event.EnergyDetectionStart))
	assert.Equal(t, types.RadioEnergyDetection, rc.State())

	drv.FinishEnergyDetection(80) // -94 + 80/4 = -74 dBm
	rc.Process()

	assert.Equal(t, []int8{-74}, h.energy)
}
