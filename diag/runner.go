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

package diag

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/openthread/ot-radiohal/driver/simdriver"
	"github.com/openthread/ot-radiohal/event"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/pcap"
	"github.com/openthread/ot-radiohal/prng"
	"github.com/openthread/ot-radiohal/radio"
	"github.com/openthread/ot-radiohal/types"
	"github.com/openthread/ot-radiohal/wpan"
)

// ErrExit is returned by HandleCommand for the exit command.
var ErrExit = errors.New("exit")

// Stats are the counters shown by the stats command.
type Stats struct {
	Sent       uint32
	SendFailed uint32
	Received   uint32
	RxFailed   uint32
	LastEnergy int8
}

// wallClock is the platform timebase of the console: microseconds since
// start, from the monotonic wall clock.
type wallClock struct {
	start time.Time
}

func (c *wallClock) NowMicros() uint64 {
	return uint64(time.Since(c.start).Microseconds())
}

func (c *wallClock) XtalAccuracyPpm() uint8 {
	return 40
}

// Runner executes diag commands against one radio platform instance over the
// simulated driver. It is the upper-layer handler of that instance: transmit
// and receive outcomes land in its counters.
type Runner struct {
	rc   *radio.RadioContext
	drv  *simdriver.Driver
	clk  *wallClock
	help Help

	// mu serializes commands and dispatch passes: the platform expects a
	// single task context.
	mu    sync.Mutex
	stats Stats

	capture     pcap.File
	captureType pcap.FrameType

	wake chan struct{}
	done chan struct{}
}

func NewRunner(board types.BoardConfig, deviceId uint64) *Runner {
	r := &Runner{
		drv:  simdriver.New(),
		clk:  &wallClock{start: time.Now()},
		help: newHelp(),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	waker := event.WakerFunc(func() {
		select {
		case r.wake <- struct{}{}:
		default:
		}
	})

	r.rc = radio.New(r.drv, r, r.clk, waker, nil, radio.Config{
		Board:           board,
		FactoryDeviceId: deviceId,
	})
	r.rc.Init()
	if err := r.rc.Enable(); err != types.ErrorNone {
		logger.Panicf("enabling radio: %v", err)
	}

	go r.dispatchLoop()
	return r
}

func (r *Runner) dispatchLoop() {
	for {
		select {
		case <-r.wake:
			r.mu.Lock()
			r.rc.Process()
			r.mu.Unlock()
		case <-r.done:
			return
		}
	}
}

// Close stops the dispatch loop and deinitializes the radio.
func (r *Runner) Close() {
	close(r.done)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeCapture()
	r.rc.Deinit()
}

func (r *Runner) closeCapture() {
	if r.capture != nil {
		_ = r.capture.Close()
		r.capture = nil
		r.captureType = pcap.FrameTypeOff
	}
}

// captureFrame appends one frame to the open capture file, if any.
// Called under r.mu.
func (r *Runner) captureFrame(timestamp uint64, psdu []byte, channel types.ChannelId, rssi int8, lqi uint8) {
	if r.capture == nil {
		return
	}
	err := r.capture.AppendFrame(pcap.Frame{
		Timestamp: timestamp,
		Psdu:      psdu,
		Channel:   channel,
		Rssi:      rssi,
		Lqi:       lqi,
	})
	if err != nil {
		logger.Errorf("diag: pcap write failed, stopping capture: %v", err)
		r.closeCapture()
	}
}

// Handler callbacks, invoked under r.mu from the dispatch loop.

func (r *Runner) ReceiveDone(frame *types.RadioFrame, err types.RadioError) {
	if err != types.ErrorNone {
		r.stats.RxFailed++
		logger.Debugf("diag: receive failed: %v", err)
		return
	}
	r.stats.Received++
	if mac, derr := wpan.Dissect(frame.Psdu); derr == nil {
		logger.Infof("diag: received %s, rssi %d dBm, lqi %d",
			mac, frame.RxInfo.Rssi, frame.RxInfo.Lqi)
	} else {
		logger.Infof("diag: received %d bytes (undissectable), rssi %d dBm, lqi %d",
			len(frame.Psdu), frame.RxInfo.Rssi, frame.RxInfo.Lqi)
	}
	r.captureFrame(frame.RxInfo.Timestamp, frame.Psdu, frame.Channel,
		frame.RxInfo.Rssi, frame.RxInfo.Lqi)
}

func (r *Runner) TransmitDone(frame *types.RadioFrame, ack *types.RadioFrame, err types.RadioError) {
	if err != types.ErrorNone {
		r.stats.SendFailed++
		logger.Debugf("diag: transmit failed: %v", err)
		return
	}
	r.stats.Sent++
	r.captureFrame(r.clk.NowMicros(), frame.Psdu, frame.Channel, 0, 0)
	if ack != nil {
		r.captureFrame(ack.RxInfo.Timestamp, ack.Psdu, ack.Channel,
			ack.RxInfo.Rssi, ack.RxInfo.Lqi)
	}
}

func (r *Runner) EnergyScanDone(maxRssiDbm int8) {
	r.stats.LastEnergy = maxRssiDbm
	logger.Infof("diag: energy scan done: %d dBm", maxRssiDbm)
}

func (r *Runner) TxStarted(frame *types.RadioFrame) {}

// runcli.CliHandler implementation.

func (r *Runner) GetPrompt() string {
	return "diag> "
}

func (r *Runner) HandleCommand(cmdline string, output io.Writer) error {
	var cmd Command
	if err := ParseBytes([]byte(cmdline), &cmd); err != nil {
		fmt.Fprintf(output, "Error: %v\n", err)
		return nil
	}

	r.mu.Lock()
	out, err := r.execute(&cmd)
	r.mu.Unlock()

	if err == ErrExit {
		return err
	}
	if err != nil {
		fmt.Fprintf(output, "Error: %v\n", err)
		return nil
	}
	if out != "" {
		fmt.Fprint(output, out)
	}
	fmt.Fprintln(output, "Done")
	return nil
}

func (r *Runner) execute(cmd *Command) (string, error) {
	switch {
	case cmd.Channel != nil:
		return r.executeChannel(cmd.Channel)
	case cmd.Power != nil:
		return r.executePower(cmd.Power)
	case cmd.CcaThreshold != nil:
		return r.executeCcaThreshold(cmd.CcaThreshold)
	case cmd.Gain != nil:
		return r.executeGain(cmd.Gain)
	case cmd.Region != nil:
		return r.executeRegion(cmd.Region)
	case cmd.Listen != nil:
		return r.executeListen(cmd.Listen)
	case cmd.Sleep != nil:
		return "", radioError(r.rc.Sleep())
	case cmd.State != nil:
		return fmt.Sprintf("%v\n", r.rc.State()), nil
	case cmd.Send != nil:
		return r.executeSend(cmd.Send)
	case cmd.Carrier != nil:
		return r.executeCarrier(cmd.Carrier)
	case cmd.Ed != nil:
		return r.executeEd(cmd.Ed)
	case cmd.Rssi != nil:
		return fmt.Sprintf("%d dBm\n", r.rc.Rssi()), nil
	case cmd.Eui64 != nil:
		eui := r.rc.IeeeEui64()
		return hex.EncodeToString(eui[:]) + "\n", nil
	case cmd.Inject != nil:
		return r.executeInject(cmd.Inject)
	case cmd.Stats != nil:
		return r.executeStats(cmd.Stats)
	case cmd.LogLevel != nil:
		return r.executeLogLevel(cmd.LogLevel)
	case cmd.Pcap != nil:
		return r.executePcap(cmd.Pcap)
	case cmd.Help != nil:
		if cmd.Help.HelpTopic != "" {
			return r.help.outputCommandHelp(cmd.Help.HelpTopic), nil
		}
		return r.help.outputGeneralHelp(), nil
	case cmd.Exit != nil:
		return "", ErrExit
	default:
		return "", errors.New("unknown command")
	}
}

// radioError converts a platform error to a Go error, ErrorNone to nil.
func radioError(err types.RadioError) error {
	if err == types.ErrorNone {
		return nil
	}
	return err
}

func (r *Runner) executeChannel(cmd *ChannelCmd) (string, error) {
	if cmd.Val == nil {
		return fmt.Sprintf("channel: %d\n", r.rc.Channel()), nil
	}
	ch := *cmd.Val
	if ch < int(types.MinChannelNumber) || ch > int(types.MaxChannelNumber) {
		return "", errors.Errorf("channel %d out of range [%d, %d]",
			ch, types.MinChannelNumber, types.MaxChannelNumber)
	}
	return "", radioError(r.rc.Receive(types.ChannelId(ch)))
}

func (r *Runner) executePower(cmd *PowerCmd) (string, error) {
	if cmd.Val == nil {
		power, err := r.rc.TransmitPower()
		if err != types.ErrorNone {
			return "", err
		}
		return fmt.Sprintf("tx power: %d dBm\n", power), nil
	}
	dbm, err := cmd.Val.Int()
	if err != nil {
		return "", errors.Wrap(err, "parsing power")
	}
	return "", radioError(r.rc.SetTransmitPower(int8(dbm)))
}

func (r *Runner) executeCcaThreshold(cmd *CcaThresholdCmd) (string, error) {
	if cmd.Val == nil {
		threshold, err := r.rc.CcaEnergyDetectThreshold()
		if err != types.ErrorNone {
			return "", err
		}
		return fmt.Sprintf("cca threshold: %d dBm\n", threshold), nil
	}
	dbm, err := cmd.Val.Int()
	if err != nil {
		return "", errors.Wrap(err, "parsing threshold")
	}
	return "", radioError(r.rc.SetCcaEnergyDetectThreshold(int8(dbm)))
}

func (r *Runner) executeGain(cmd *GainCmd) (string, error) {
	if cmd.Val == nil {
		return fmt.Sprintf("lna gain: %d dB\n", r.rc.FemLnaGain()), nil
	}
	gain, err := cmd.Val.Int()
	if err != nil {
		return "", errors.Wrap(err, "parsing gain")
	}
	return "", radioError(r.rc.SetFemLnaGain(int8(gain)))
}

func (r *Runner) executeRegion(cmd *RegionCmd) (string, error) {
	if cmd.Val == nil {
		code := r.rc.Region()
		if code == 0 {
			return "region: unset\n", nil
		}
		return fmt.Sprintf("region: %c%c\n", byte(code>>8), byte(code)), nil
	}
	val := *cmd.Val
	if len(val) != 2 {
		return "", errors.New("region must be a two-letter code")
	}
	return "", radioError(r.rc.SetRegion(uint16(val[0])<<8 | uint16(val[1])))
}

func (r *Runner) executeListen(cmd *ListenCmd) (string, error) {
	ch := r.rc.Channel()
	if cmd.Val != nil {
		ch = types.ChannelId(*cmd.Val)
	}
	return "", radioError(r.rc.Receive(ch))
}

func (r *Runner) executeSend(cmd *SendCmd) (string, error) {
	if cmd.Length < 3 || cmd.Length > types.MacFrameLenBytes {
		return "", errors.Errorf("length %d out of range [3, %d]",
			cmd.Length, types.MacFrameLenBytes)
	}

	for i := 0; i < cmd.Count; i++ {
		tx := r.rc.TransmitBuffer()
		tx.Psdu = tx.Psdu[:cmd.Length]
		tx.Psdu[0] = 0x01 // data frame
		tx.Psdu[1] = 0x00
		tx.Psdu[2] = byte(i)
		for j := 3; j < cmd.Length; j++ {
			tx.Psdu[j] = byte(j)
		}
		tx.Channel = r.rc.Channel()
		tx.TxInfo = types.TxInfo{}

		if err := radioError(r.rc.Transmit(tx)); err != nil {
			return "", err
		}
		// The simulated air completes every frame immediately.
		r.drv.FinishTransmit(nil, 0, 0, 0)
		r.rc.Process()
	}
	return fmt.Sprintf("sent %d frames of %d bytes\n", cmd.Count, cmd.Length), nil
}

func (r *Runner) executeCarrier(cmd *CarrierCmd) (string, error) {
	if cmd.Stop != nil {
		return "", radioError(r.rc.Receive(r.rc.Channel()))
	}
	return "", radioError(r.rc.ContinuousCarrier(r.rc.Channel()))
}

func (r *Runner) executeEd(cmd *EdCmd) (string, error) {
	duration := uint16(10)
	if cmd.Duration != nil {
		duration = uint16(*cmd.Duration)
	}
	if err := radioError(r.rc.EnergyScan(r.rc.Channel(), duration)); err != nil {
		return "", err
	}
	// The simulated air reports a random energy level right away.
	r.drv.FinishEnergyDetection(uint8(prng.RandomUint32() % 200))
	r.rc.Process()
	return fmt.Sprintf("energy: %d dBm\n", r.stats.LastEnergy), nil
}

func (r *Runner) executeInject(cmd *InjectCmd) (string, error) {
	psdu, err := hex.DecodeString(strings.TrimPrefix(cmd.Hex, "0x"))
	if err != nil {
		return "", errors.Wrap(err, "decoding frame hex")
	}
	if len(psdu) > types.MacFrameLenBytes {
		return "", errors.Errorf("frame longer than %d bytes", types.MacFrameLenBytes)
	}

	rssi := int8(-60)
	if cmd.Rssi != nil {
		v, err := cmd.Rssi.Int()
		if err != nil {
			return "", errors.Wrap(err, "parsing rssi")
		}
		rssi = int8(v)
	}

	if !r.drv.InjectFrame(psdu, rssi, 127, uint32(r.clk.NowMicros())) {
		return "", errors.New("receive pool exhausted")
	}
	r.rc.Process()
	return "", nil
}

func (r *Runner) executeStats(cmd *StatsCmd) (string, error) {
	if cmd.Clear != nil {
		r.stats = Stats{}
		return "", nil
	}
	s := r.stats
	return fmt.Sprintf("sent: %d\nsend failures: %d\nreceived: %d\nreceive failures: %d\n",
		s.Sent, s.SendFailed, s.Received, s.RxFailed), nil
}

const defaultCaptureFile = "diag.pcap"

func (r *Runner) executePcap(cmd *PcapCmd) (string, error) {
	if cmd.Mode == "" {
		switch r.captureType {
		case pcap.FrameTypeWpan:
			return "pcap: " + pcap.FrameTypeWpanStr + "\n", nil
		case pcap.FrameTypeWpanTap:
			return "pcap: " + pcap.FrameTypeWpanTapStr + "\n", nil
		default:
			return "pcap: " + pcap.FrameTypeOffStr + "\n", nil
		}
	}

	frameType := pcap.ParseFrameTypeStr(cmd.Mode)
	if frameType == pcap.FrameTypeOff {
		r.closeCapture()
		return "", nil
	}

	filename := defaultCaptureFile
	if cmd.File != nil {
		filename = *cmd.File
	}
	f, err := pcap.NewFile(filename, frameType)
	if err != nil {
		return "", errors.Wrap(err, "opening capture file")
	}
	r.closeCapture()
	r.capture = f
	r.captureType = frameType
	return "", nil
}

func (r *Runner) executeLogLevel(cmd *LogLevelCmd) (string, error) {
	if cmd.Level == "" {
		return logger.LevelToString(logger.GetLevel()) + "\n", nil
	}
	level, ok := logger.ParseLevelString(cmd.Level)
	if !ok {
		return "", errors.Errorf("unknown log level %q", cmd.Level)
	}
	logger.SetLevel(level)
	return "", nil
}
