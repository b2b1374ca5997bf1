// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tracker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stake-tracker/staking"
)

// Check verifies both rankings against the staking source. It recomputes the
// approvals of every target from scratch, compares them with the tracked
// scores and verifies the target ranking order.
//
// This is an expensive full scan meant for tests and simulations, never for
// the event path.
func (t *Tracker) Check() error {
	if err := t.CheckApprovals(); err != nil {
		return err
	}
	return t.CheckTargetOrder()
}

// CheckApprovals rebuilds the approvals of every target from the staking
// source and compares the result with the target ranking.
//
// The rebuild doubles as a sanity pass over both rankings:
//   - a voter's score equals its active stake weight;
//   - idle stakers and nominators never appear as targets' peers in the
//     wrong ranking: active validators are voters, idle and dangling targets
//     are not;
//   - a dangling target (unbonded but still ranked) holds a score above
//     zero, otherwise it should have been swept on the last score update.
func (t *Tracker) CheckApprovals() error {
	expected := make(map[staking.Address]*uint256.Int)
	accumulate := func(who staking.Address, amount *uint256.Int) {
		if sum, ok := expected[who]; ok {
			sum.Add(sum, amount)
		} else {
			expected[who] = new(uint256.Int).Set(amount)
		}
	}

	// approvals from the voter ranking's point of view
	if err := t.voters.Iterate(func(who staking.Address, score staking.Weight) error {
		status, err := t.source.Status(who)
		if err != nil {
			return errors.Wrapf(err, "voter %v is not a bonded staker", who)
		}

		stake, err := t.source.Stake(who)
		if err != nil {
			return errors.Wrapf(err, "voter %v has no bonded stake", who)
		}
		if weight := t.source.WeightOf(stake.Active); weight != score {
			return errors.Errorf("voter %v score %d differs from its active stake weight %d", who, score, weight)
		}

		switch {
		case status.IsIdle():
			return errors.Errorf("idle staker %v must not be a voter", who)
		case status.IsValidator():
			if !t.targets.Contains(who) {
				return errors.Errorf("acting validator %v must also be a target", who)
			}
		case status.IsNominator():
			if score == 0 {
				// a fully drained nominator contributes nothing; skipping it
				// avoids reviving entries for targets already swept away
				return nil
			}
			for _, nomination := range status.Nominations {
				accumulate(nomination, score.Extended())
			}
		}
		return nil
	}); err != nil {
		return err
	}

	// self-stake of active targets, from the target ranking's point of view
	if err := t.targets.Iterate(func(who staking.Address, score staking.Approval) error {
		status, err := t.source.Status(who)
		if err != nil {
			// dangling target: unbonded but still ranked while approvals
			// from remaining nominators drain away
			if t.voters.Contains(who) {
				return errors.Errorf("dangling target %v must not be a voter", who)
			}
			if score == 0 {
				return errors.Errorf("dangling target %v is ranked with zero approvals", who)
			}
			return nil
		}

		switch {
		case status.IsValidator():
			if !t.voters.Contains(who) {
				return errors.Errorf("active validator %v must also be a voter", who)
			}
			stake, err := t.source.Stake(who)
			if err != nil {
				return errors.Wrapf(err, "active validator %v has no bonded stake", who)
			}
			accumulate(who, t.source.WeightOf(stake.Active).Extended())
		case status.IsIdle():
			if t.voters.Contains(who) {
				return errors.Errorf("idle target %v must not be a voter", who)
			}
			// no self-stake, but an idle target stays ranked even at zero
			accumulate(who, new(uint256.Int))
		default:
			return errors.Errorf("nominator %v must never be a target", who)
		}
		return nil
	}); err != nil {
		return err
	}

	for who, approvals := range expected {
		score, err := t.targets.Score(who)
		if err != nil {
			return errors.Wrapf(err, "target %v with expected approvals %s is not ranked", who, approvals.Dec())
		}
		if !score.Extended().Eq(approvals) {
			return errors.Errorf("target %v score %d differs from calculated approvals %s", who, score, approvals.Dec())
		}
	}

	if calculated, ranked := len(expected), t.targets.Count(); calculated != ranked {
		return errors.Errorf("calculated approvals count %d differs from target ranking size %d", calculated, ranked)
	}
	return nil
}

// CheckTargetOrder verifies that the target ranking holds its entries in
// non-increasing score order.
func (t *Tracker) CheckTargetOrder() error {
	var (
		first = true
		prev  staking.Approval
	)
	return t.targets.Iterate(func(who staking.Address, score staking.Approval) error {
		if !first && score > prev {
			return errors.Errorf("target %v with score %d is ranked below score %d", who, score, prev)
		}
		first, prev = false, score
		return nil
	})
}
