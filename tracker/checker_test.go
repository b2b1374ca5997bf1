// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stake-tracker/ranking"
	"github.com/vechain/stake-tracker/staking"
	"github.com/vechain/stake-tracker/test/datagen"
)

// corruptibleEnv builds a consistent mixed state and hands out the rankings
// for tampering.
func corruptibleEnv(t *testing.T) (*testEnv, staking.Address, staking.Address, staking.Address) {
	env := newTestEnv(t)

	valA := staking.BytesToAddress([]byte("valA"))
	valB := staking.BytesToAddress([]byte("valB"))
	nom := staking.BytesToAddress([]byte("nom"))

	env.addValidator(valA, 500)
	env.addValidator(valB, 300)
	env.addNominator(nom, 100, valA)
	env.check()

	return env, valA, valB, nom
}

func TestChecker_DetectsWrongTargetScore(t *testing.T) {
	env, valA, _, _ := corruptibleEnv(t)

	require.NoError(t, env.targets.Update(valA, 601))

	err := env.tracker.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differs from calculated approvals")
}

func TestChecker_DetectsMissingTarget(t *testing.T) {
	env, valA, valB, _ := corruptibleEnv(t)

	// a ranked validator gone missing is caught by the voter scan cross-check
	require.NoError(t, env.targets.Remove(valB))
	err := env.tracker.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must also be a target")

	require.NoError(t, env.targets.Insert(valB, 300))
	env.check()

	// a dangling target gone missing only surfaces through the approvals
	// its remaining nominator still accounts for
	env.kill(valA)
	env.requireTarget(valA, 100)
	require.NoError(t, env.targets.Remove(valA))

	err = env.tracker.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not ranked")
}

func TestChecker_DetectsExtraTarget(t *testing.T) {
	env, _, _, _ := corruptibleEnv(t)

	ghost := datagen.RandAddress()
	require.NoError(t, env.targets.Insert(ghost, 50))

	// the ghost passes for a dangling target, but the totals disagree
	err := env.tracker.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calculated approvals count")

	require.NoError(t, env.targets.Update(ghost, 0))
	err = env.tracker.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero approvals")
}

func TestChecker_DetectsWrongVoterScore(t *testing.T) {
	env, _, _, nom := corruptibleEnv(t)

	require.NoError(t, env.voters.Update(nom, 999))

	err := env.tracker.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differs from its active stake weight")
}

func TestChecker_DetectsIdleVoter(t *testing.T) {
	env, _, _, _ := corruptibleEnv(t)

	idle := staking.BytesToAddress([]byte("idle"))
	env.bond(idle, 100)
	require.NoError(t, env.voters.Insert(idle, 100))

	err := env.tracker.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be a voter")
}

func TestChecker_DetectsUnknownVoter(t *testing.T) {
	env, _, _, _ := corruptibleEnv(t)

	require.NoError(t, env.voters.Insert(datagen.RandAddress(), 100))

	err := env.tracker.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a bonded staker")
}

func TestChecker_DetectsNominatorAsTarget(t *testing.T) {
	trk, source, _, targets := newStubTracker(true)

	val := staking.BytesToAddress([]byte("val"))
	nom := staking.BytesToAddress([]byte("nom"))
	source.set(nom, staking.Nominator([]staking.Address{val}), 100)
	require.NoError(t, targets.Insert(nom, 10))

	err := trk.CheckApprovals()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must never be a target")
}

func TestChecker_SkipsDrainedNominator(t *testing.T) {
	trk, source, voters, _ := newStubTracker(true)

	// a nominator slashed to zero weight still votes for a target that was
	// already swept from the ranking; its empty contribution must not count
	ghost := datagen.RandAddress()
	nom := staking.BytesToAddress([]byte("nom"))
	source.set(nom, staking.Nominator([]staking.Address{ghost}), 0)
	require.NoError(t, voters.Insert(nom, 0))

	assert.NoError(t, trk.CheckApprovals())
}

// looseSet keeps entries exactly in insertion order, reaching states the
// sorted list cannot represent.
type looseSet struct {
	entries []looseEntry
}

type looseEntry struct {
	addr  staking.Address
	score staking.Approval
}

func (s *looseSet) Insert(addr staking.Address, score staking.Approval) error {
	s.entries = append(s.entries, looseEntry{addr, score})
	return nil
}

func (s *looseSet) Remove(staking.Address) error                     { return nil }
func (s *looseSet) Update(staking.Address, staking.Approval) error   { return nil }
func (s *looseSet) Increase(staking.Address, staking.Approval) error { return nil }
func (s *looseSet) Contains(staking.Address) bool                    { return false }

func (s *looseSet) Score(staking.Address) (staking.Approval, error) {
	return 0, ranking.ErrNotPresent
}

func (s *looseSet) Iterate(fn func(staking.Address, staking.Approval) error) error {
	for _, entry := range s.entries {
		if err := fn(entry.addr, entry.score); err != nil {
			return err
		}
	}
	return nil
}

func (s *looseSet) Count() int { return len(s.entries) }

func TestChecker_TargetOrder(t *testing.T) {
	newOrderTracker := func(scores ...staking.Approval) *Tracker {
		targets := &looseSet{}
		for _, score := range scores {
			_ = targets.Insert(datagen.RandAddress(), score)
		}
		return New(ranking.New[staking.Weight](), targets, newStubSource(), Options{})
	}

	assert.NoError(t, newOrderTracker().CheckTargetOrder())
	assert.NoError(t, newOrderTracker(5).CheckTargetOrder())
	assert.NoError(t, newOrderTracker(5, 4, 4, 3).CheckTargetOrder())

	err := newOrderTracker(5, 3, 4).CheckTargetOrder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is ranked below")
}
