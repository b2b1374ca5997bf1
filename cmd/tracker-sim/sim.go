// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math"
	"math/big"
	"math/rand/v2"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stake-tracker/ledger"
	"github.com/vechain/stake-tracker/ranking"
	"github.com/vechain/stake-tracker/staking"
	"github.com/vechain/stake-tracker/tracker"
)

// simulation owns a ledger-tracker pair and drives it with random, valid
// staking transitions. Picks rejected by ledger guards count as no-ops; the
// strict tracker panics if a delivered event ever breaks its contract.
type simulation struct {
	ledger  *ledger.Ledger
	tracker *tracker.Tracker
	voters  *ranking.List[staking.Weight]
	targets *ranking.List[staking.Approval]

	rng            *rand.Rand
	stakers        []staking.Address
	maxNominations int
	minBond        *big.Int

	applied  int
	rejected int
}

func newSimulation(issuance *big.Int, stakerCount, maxNominations int, rng *rand.Rand) *simulation {
	voters := ranking.New[staking.Weight]()
	targets := ranking.New[staking.Approval]()
	ldgr := ledger.New(issuance)
	trk := tracker.New(voters, targets, ldgr, tracker.Options{StrictChecks: true})
	ldgr.SetListener(trk)

	// index-derived addresses keep walk reports stable across seeds
	stakers := make([]staking.Address, stakerCount)
	for i := range stakers {
		stakers[i] = staking.BytesToAddress(fmt.Appendf(nil, "staker-%d", i))
	}

	return &simulation{
		ledger:         ldgr,
		tracker:        trk,
		voters:         voters,
		targets:        targets,
		rng:            rng,
		stakers:        stakers,
		maxNominations: maxNominations,
		minBond:        ldgr.MinBond(),
	}
}

// step applies one random transition to a random staker.
func (s *simulation) step() {
	who := s.stakers[s.rng.IntN(len(s.stakers))]
	status, err := s.ledger.Status(who)

	var opErr error
	switch {
	case err != nil:
		opErr = s.ledger.Bond(who, s.randBondAmount())
	case status.IsIdle():
		switch s.rng.IntN(5) {
		case 0:
			opErr = s.ledger.Validate(who)
		case 1:
			opErr = s.nominateRandom(who)
		case 2:
			opErr = s.ledger.BondExtra(who, s.randBondAmount())
		case 3:
			opErr = s.unbondRandom(who, true)
		case 4:
			opErr = s.ledger.Kill(who)
		}
	default:
		switch s.rng.IntN(6) {
		case 0:
			opErr = s.ledger.Chill(who)
		case 1:
			if status.IsNominator() {
				opErr = s.nominateRandom(who)
			} else {
				opErr = s.ledger.Validate(who)
			}
		case 2:
			opErr = s.ledger.BondExtra(who, s.randBondAmount())
		case 3:
			opErr = s.unbondRandom(who, false)
		case 4:
			opErr = s.slashRandom(who)
		case 5:
			opErr = s.ledger.Kill(who)
		}
	}

	if opErr != nil {
		s.rejected++
	} else {
		s.applied++
	}
}

func (s *simulation) randBondAmount() *big.Int {
	return new(big.Int).Mul(s.minBond, big.NewInt(1+s.rng.Int64N(1000)))
}

// randBelow returns a random amount in [1, limit], capped to what an int64
// can count.
func (s *simulation) randBelow(limit *big.Int) *big.Int {
	n := int64(math.MaxInt64)
	if limit.IsInt64() {
		n = limit.Int64()
	}
	return big.NewInt(1 + s.rng.Int64N(n))
}

func (s *simulation) unbondRandom(who staking.Address, idle bool) error {
	stake, err := s.ledger.Stake(who)
	if err != nil {
		return err
	}
	headroom := stake.Active
	if !idle {
		// acting stakers must stay above the minimum bond
		headroom = new(big.Int).Sub(stake.Active, s.minBond)
	}
	if headroom.Sign() <= 0 {
		return errors.New("no unbondable stake")
	}
	return s.ledger.Unbond(who, s.randBelow(headroom))
}

// slashRandom slashes at most down to the minimum bond, so an acting
// staker's weight never reaches zero mid-walk.
func (s *simulation) slashRandom(who staking.Address) error {
	stake, err := s.ledger.Stake(who)
	if err != nil {
		return err
	}
	headroom := new(big.Int).Sub(stake.Active, s.minBond)
	if headroom.Sign() <= 0 {
		return errors.New("no slashable stake")
	}
	return s.ledger.Slash(who, s.randBelow(headroom))
}

func (s *simulation) nominateRandom(who staking.Address) error {
	var acting []staking.Address
	for _, staker := range s.stakers {
		if status, err := s.ledger.Status(staker); err == nil && status.IsValidator() {
			acting = append(acting, staker)
		}
	}
	if len(acting) == 0 {
		return errors.New("no acting validators")
	}

	s.rng.Shuffle(len(acting), func(i, j int) { acting[i], acting[j] = acting[j], acting[i] })
	count := 1 + s.rng.IntN(min(len(acting), s.maxNominations))
	return s.ledger.Nominate(who, acting[:count])
}

func randomAction(ctx *cli.Context) error {
	initLogger(ctx)
	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		url, stopMetrics, err := startMetricsServer(addr)
		if err != nil {
			return err
		}
		log.Info("metrics server started", "url", url)
		defer stopMetrics()
	}

	issuance, ok := new(big.Int).SetString(ctx.String(issuanceFlag.Name), 10)
	if !ok || issuance.Sign() <= 0 {
		return errors.New("invalid issuance")
	}

	seed := ctx.Int64(seedFlag.Name)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	events := ctx.Int(eventsFlag.Name)
	checkEvery := ctx.Int(checkEveryFlag.Name)

	sim := newSimulation(
		issuance,
		ctx.Int(stakersFlag.Name),
		ctx.Int(maxNominationsFlag.Name),
		rand.New(rand.NewPCG(uint64(seed), 0)), //#nosec G404
	)

	log.Info("starting random walk",
		"seed", seed,
		"events", events,
		"stakers", len(sim.stakers),
		"minBond", sim.minBond,
	)

	bar := pb.New64(int64(events)).SetMaxWidth(90).Start()
	defer func() { bar.NotPrint = true }()

	checks := 0
	for i := range events {
		sim.step()
		bar.Add64(1)

		if checkEvery > 0 && (i+1)%checkEvery == 0 {
			if err := sim.tracker.Check(); err != nil {
				return errors.Wrapf(err, "consistency check failed after %d events (seed %d)", i+1, seed)
			}
			checks++
		}
	}
	bar.Finish()

	if err := sim.tracker.Check(); err != nil {
		return errors.Wrapf(err, "final consistency check failed (seed %d)", seed)
	}

	log.Info("random walk verified",
		"applied", sim.applied,
		"rejected", sim.rejected,
		"checks", checks+1,
		"voters", sim.voters.Count(),
		"targets", sim.targets.Count(),
	)
	return nil
}
