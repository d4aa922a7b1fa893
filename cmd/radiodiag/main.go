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

// radiodiag is the interactive radio diagnostics console over the simulated
// peripheral driver.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openthread/ot-radiohal/diag"
	"github.com/openthread/ot-radiohal/diag/runcli"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/types"
)

type mainArgs struct {
	BoardConfig string
	DeviceId    uint64
	LogLevel    string
	EchoInput   bool
}

var args mainArgs

func parseArgs() {
	flag.StringVar(&args.BoardConfig, "board", "", "board configuration YAML file")
	flag.Uint64Var(&args.DeviceId, "device-id", 0x0000000001, "factory device identifier (EUI-64 suffix)")
	flag.StringVar(&args.LogLevel, "log", "warn", "log level (micro|trace|debug|info|warn|error|off)")
	flag.BoolVar(&args.EchoInput, "echo", false, "echo input commands to stdout")
	flag.Parse()
}

func main() {
	parseArgs()

	if level, ok := logger.ParseLevelString(args.LogLevel); ok {
		logger.SetLevel(level)
	} else {
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", args.LogLevel)
		os.Exit(2)
	}

	board := types.DefaultBoardConfig()
	if args.BoardConfig != "" {
		var err error
		board, err = types.LoadBoardConfig(args.BoardConfig)
		logger.FatalIfError(err)
	}

	runner := diag.NewRunner(board, args.DeviceId)
	defer runner.Close()

	err := runcli.RunCli(runner, &runcli.CliOptions{EchoInput: args.EchoInput})
	if err != nil && err != diag.ErrExit {
		logger.Error(err)
		os.Exit(1)
	}
}
