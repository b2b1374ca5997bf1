// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stake-tracker/ledger"
	"github.com/vechain/stake-tracker/ranking"
	"github.com/vechain/stake-tracker/staking"
	"github.com/vechain/stake-tracker/tracker"
)

// scenario is a scripted staking run: stakers bond up front, then every
// step applies one ledger operation. Stakers are addressed by name. The
// full consistency check runs after bonding and after every step, so a
// scenario doubles as an executable correctness claim.
type scenario struct {
	Issuance string           `yaml:"issuance"`
	Stakers  []scenarioStaker `yaml:"stakers"`
	Steps    []scenarioStep   `yaml:"steps"`
}

type scenarioStaker struct {
	Name  string `yaml:"name"`
	Stake string `yaml:"stake"`
}

type scenarioStep struct {
	Op      string   `yaml:"op"`
	Who     string   `yaml:"who"`
	Amount  string   `yaml:"amount"`
	Targets []string `yaml:"targets"`
}

type scenarioResult struct {
	steps   int
	voters  int
	targets int

	head      staking.Address
	headScore staking.Approval
	hasHead   bool
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var sc scenario
	if err := decoder.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	if sc.Issuance == "" {
		return nil, errors.New("scenario missing issuance")
	}
	if len(sc.Stakers) == 0 {
		return nil, errors.New("scenario has no stakers")
	}
	return &sc, nil
}

func runScenario(sc *scenario) (*scenarioResult, error) {
	issuance, err := parseAmount(sc.Issuance)
	if err != nil {
		return nil, errors.Wrap(err, "issuance")
	}

	voters := ranking.New[staking.Weight]()
	targets := ranking.New[staking.Approval]()
	ldgr := ledger.New(issuance)
	trk := tracker.New(voters, targets, ldgr, tracker.Options{StrictChecks: true})
	ldgr.SetListener(trk)

	for _, staker := range sc.Stakers {
		stake, err := parseAmount(staker.Stake)
		if err != nil {
			return nil, errors.Wrapf(err, "staker %q", staker.Name)
		}
		if err := ldgr.Bond(addressOf(staker.Name), stake); err != nil {
			return nil, errors.Wrapf(err, "bond staker %q", staker.Name)
		}
	}
	if err := trk.Check(); err != nil {
		return nil, errors.Wrap(err, "consistency after initial bonding")
	}

	for i, step := range sc.Steps {
		if err := applyStep(ldgr, step); err != nil {
			return nil, errors.Wrapf(err, "step %d (%s %s)", i+1, step.Op, step.Who)
		}
		if err := trk.Check(); err != nil {
			return nil, errors.Wrapf(err, "consistency after step %d (%s %s)", i+1, step.Op, step.Who)
		}
		log.Debug("step verified", "step", i+1, "op", step.Op, "who", step.Who)
	}

	result := &scenarioResult{
		steps:   len(sc.Steps),
		voters:  voters.Count(),
		targets: targets.Count(),
	}
	result.head, result.headScore, result.hasHead = targets.Head()
	return result, nil
}

func applyStep(ldgr *ledger.Ledger, step scenarioStep) error {
	who := addressOf(step.Who)

	switch step.Op {
	case "bond":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}
		return ldgr.Bond(who, amount)
	case "bond_extra":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}
		return ldgr.BondExtra(who, amount)
	case "unbond":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}
		return ldgr.Unbond(who, amount)
	case "validate":
		return ldgr.Validate(who)
	case "nominate":
		targets := make([]staking.Address, len(step.Targets))
		for i, name := range step.Targets {
			targets[i] = addressOf(name)
		}
		return ldgr.Nominate(who, targets)
	case "chill":
		return ldgr.Chill(who)
	case "kill":
		return ldgr.Kill(who)
	case "slash":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}
		return ldgr.Slash(who, amount)
	default:
		return errors.Errorf("unknown op %q", step.Op)
	}
}

func addressOf(name string) staking.Address {
	return staking.BytesToAddress([]byte(name))
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

func runAction(ctx *cli.Context) error {
	initLogger(ctx)
	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		url, stopMetrics, err := startMetricsServer(addr)
		if err != nil {
			return err
		}
		log.Info("metrics server started", "url", url)
		defer stopMetrics()
	}

	if ctx.NArg() != 1 {
		return errors.New("scenario file argument required")
	}

	sc, err := loadScenario(ctx.Args().First())
	if err != nil {
		return err
	}

	result, err := runScenario(sc)
	if err != nil {
		return err
	}

	log.Info("scenario verified",
		"steps", result.steps,
		"voters", result.voters,
		"targets", result.targets,
	)
	if result.hasHead {
		log.Info("top ranked target", "target", result.head, "approvals", result.headScore)
	}
	return nil
}
