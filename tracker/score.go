// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tracker

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/stake-tracker/staking"
)

// activeStake returns who's active stake. The callers' contract guarantees
// the staker is bonded; a missing stake is reported defensively and counted
// as zero.
func (t *Tracker) activeStake(who staking.Address) *big.Int {
	stake, err := t.source.Stake(who)
	if err != nil {
		t.defensive("staker expected to have bonded stake", "who", who, "err", err)
		return big.NewInt(0)
	}
	return stake.Active
}

// stakeImbalanceOf returns the signed weight delta from a staker's previous
// stake to its current weight. Without a previous stake the full current
// weight counts as an increase.
func (t *Tracker) stakeImbalanceOf(prev *staking.Stake, current staking.Weight) Imbalance {
	if prev == nil {
		return Positive(current.Extended())
	}
	return stakeImbalance(t.source.WeightOf(prev.Active).Extended(), current.Extended())
}

// shouldRemoveTarget reports whether a target must leave the target ranking:
// its approvals reached zero and staking no longer knows the account
// (dangling).
func (t *Tracker) shouldRemoveTarget(who staking.Address, score staking.Approval) bool {
	if score != 0 {
		return false
	}
	_, err := t.source.Status(who)
	return err != nil
}

// updateTargetScore applies a signed imbalance to who's approval score.
//
// A target missing from the ranking must be an idle validator, which is
// inserted lazily with score zero; any other role there means a broken
// contract. A negative imbalance saturates at zero and triggers the dangling
// cleanup: a target that is no longer bonded leaves the ranking the moment
// its approvals drain.
func (t *Tracker) updateTargetScore(who staking.Address, imbalance Imbalance) {
	if !t.targets.Contains(who) {
		status, err := t.source.Status(who)
		switch {
		case err != nil || status.IsNominator():
			t.defensive("target score update on an unbonded ledger or nominator", "who", who)
			return
		case status.IsValidator():
			t.defensive("active validator missing from the target ranking", "who", who)
			return
		default:
			// idle and not tracked yet: initialize the entry and proceed
			if err := t.targets.Insert(who, 0); err != nil {
				t.defensive("target was checked absent from the target ranking", "who", who, "err", err)
				return
			}
		}
	}

	removed := false
	if imbalance.negative {
		current, err := t.targets.Score(who)
		if err != nil {
			t.defensive("unable to fetch the score of a tracked target", "who", who, "err", err)
		} else {
			next, underflow := new(uint256.Int).SubOverflow(current.Extended(), imbalance.amount)
			if underflow {
				next.Clear()
			}

			score := staking.ApprovalFromExtended(next)
			if t.shouldRemoveTarget(who, score) {
				// the target is unbonded and its approvals drained, drop it
				if err := t.targets.Remove(who); err != nil {
					t.defensive("drained target should still be ranked", "who", who, "err", err)
				} else {
					metricDanglingRemoved().Inc()
					removed = true
				}
			} else if err := t.targets.Update(who, score); err != nil {
				t.defensive("tracked target lost its ranking mid-update", "who", who, "err", err)
			}
		}
	} else {
		if err := t.targets.Increase(who, staking.ApprovalFromExtended(imbalance.amount)); err != nil {
			t.defensive("tracked target lost its ranking mid-update", "who", who, "err", err)
		}
	}

	logger.Debug("target score updated", "who", who, "imbalance", imbalance, "removed", removed)
}
