// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// tracker-sim drives the stake tracker with staking event sequences and
// verifies the maintained rankings against a full recomputation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stake-tracker/tracker"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Tracker Sim",
		Usage:     "Simulator and verifier for the staking rankings tracker",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:  "random",
				Usage: "drive the tracker with a random walk of staking events",
				Flags: []cli.Flag{
					verbosityFlag,
					jsonLogsFlag,
					metricsAddrFlag,
					seedFlag,
					eventsFlag,
					stakersFlag,
					maxNominationsFlag,
					checkEveryFlag,
					issuanceFlag,
				},
				Action: randomAction,
			},
			{
				Name:      "run",
				Usage:     "replay a staking scenario file and verify every step",
				ArgsUsage: "SCENARIO_FILE",
				Flags: []cli.Flag{
					verbosityFlag,
					jsonLogsFlag,
					metricsAddrFlag,
				},
				Action: runAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, level)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))

	// the package logger was derived before the default changed
	tracker.SetLogger(log.New("pkg", "tracker"))
}
