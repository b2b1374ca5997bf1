// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in json format",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "listen address to expose prometheus metrics, disabled when empty",
	}
	seedFlag = cli.Int64Flag{
		Name:  "seed",
		Usage: "random walk seed, current time when 0",
	}
	eventsFlag = cli.IntFlag{
		Name:  "events",
		Value: 10000,
		Usage: "number of staking events to apply",
	}
	stakersFlag = cli.IntFlag{
		Name:  "stakers",
		Value: 200,
		Usage: "size of the staker account pool",
	}
	maxNominationsFlag = cli.IntFlag{
		Name:  "max-nominations",
		Value: 8,
		Usage: "most targets a random nominator picks at once",
	}
	checkEveryFlag = cli.IntFlag{
		Name:  "check-every",
		Value: 100,
		Usage: "events between full consistency checks, 0 to check only at the end",
	}
	issuanceFlag = cli.StringFlag{
		Name:  "issuance",
		Value: "10000000000000000000",
		Usage: "total issuance fixing the stake weight scale",
	}
)
