// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tracker

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/stake-tracker/ledger"
	"github.com/vechain/stake-tracker/ranking"
	"github.com/vechain/stake-tracker/staking"
)

// testEnv wires a ledger to a strict tracker over two fresh rankings, so
// every broken call contract panics instead of degrading silently.
type testEnv struct {
	t       *testing.T
	ledger  *ledger.Ledger
	tracker *Tracker
	voters  *ranking.List[staking.Weight]
	targets *ranking.List[staking.Approval]
}

// newTestEnv builds a strict test environment. The issuance stays below the
// scaling threshold so weights equal raw amounts and the expected scores can
// be spelled out literally.
func newTestEnv(t *testing.T) *testEnv {
	voters := ranking.New[staking.Weight]()
	targets := ranking.New[staking.Approval]()
	ldgr := ledger.New(big.NewInt(1_000_000))
	trk := New(voters, targets, ldgr, Options{StrictChecks: true})
	ldgr.SetListener(trk)

	return &testEnv{t: t, ledger: ldgr, tracker: trk, voters: voters, targets: targets}
}

func (env *testEnv) bond(who staking.Address, amount int64) {
	env.t.Helper()
	require.NoError(env.t, env.ledger.Bond(who, big.NewInt(amount)))
}

func (env *testEnv) bondExtra(who staking.Address, amount int64) {
	env.t.Helper()
	require.NoError(env.t, env.ledger.BondExtra(who, big.NewInt(amount)))
}

func (env *testEnv) unbond(who staking.Address, amount int64) {
	env.t.Helper()
	require.NoError(env.t, env.ledger.Unbond(who, big.NewInt(amount)))
}

func (env *testEnv) validate(who staking.Address) {
	env.t.Helper()
	require.NoError(env.t, env.ledger.Validate(who))
}

func (env *testEnv) nominate(who staking.Address, targets ...staking.Address) {
	env.t.Helper()
	require.NoError(env.t, env.ledger.Nominate(who, targets))
}

func (env *testEnv) chill(who staking.Address) {
	env.t.Helper()
	require.NoError(env.t, env.ledger.Chill(who))
}

func (env *testEnv) kill(who staking.Address) {
	env.t.Helper()
	require.NoError(env.t, env.ledger.Kill(who))
}

func (env *testEnv) slash(who staking.Address, amount int64) {
	env.t.Helper()
	require.NoError(env.t, env.ledger.Slash(who, big.NewInt(amount)))
}

// addValidator bonds and validates in one go.
func (env *testEnv) addValidator(who staking.Address, amount int64) {
	env.t.Helper()
	env.bond(who, amount)
	env.validate(who)
}

// addNominator bonds and nominates in one go.
func (env *testEnv) addNominator(who staking.Address, amount int64, targets ...staking.Address) {
	env.t.Helper()
	env.bond(who, amount)
	env.nominate(who, targets...)
}

func (env *testEnv) requireVoter(who staking.Address, score staking.Weight) {
	env.t.Helper()
	got, err := env.voters.Score(who)
	require.NoError(env.t, err, "voter %v should be ranked", who)
	require.Equal(env.t, score, got, "voter %v score", who)
}

func (env *testEnv) requireTarget(who staking.Address, score staking.Approval) {
	env.t.Helper()
	got, err := env.targets.Score(who)
	require.NoError(env.t, err, "target %v should be ranked", who)
	require.Equal(env.t, score, got, "target %v score", who)
}

func (env *testEnv) requireNotVoter(who staking.Address) {
	env.t.Helper()
	require.False(env.t, env.voters.Contains(who), "voter %v should not be ranked", who)
}

func (env *testEnv) requireNotTarget(who staking.Address) {
	env.t.Helper()
	require.False(env.t, env.targets.Contains(who), "target %v should not be ranked", who)
}

// check runs the full consistency verification.
func (env *testEnv) check() {
	env.t.Helper()
	require.NoError(env.t, env.tracker.Check())
}

// targetOrder collects the target ranking addresses in stored order.
func (env *testEnv) targetOrder() []staking.Address {
	var order []staking.Address
	_ = env.targets.Iterate(func(addr staking.Address, _ staking.Approval) error {
		order = append(order, addr)
		return nil
	})
	return order
}

// stubSource serves canned staking state, letting tests put the tracker in
// front of states a well-behaved ledger never produces.
type stubSource struct {
	statuses map[staking.Address]staking.Status
	stakes   map[staking.Address]*staking.Stake
	issuance *big.Int
}

func newStubSource() *stubSource {
	return &stubSource{
		statuses: make(map[staking.Address]staking.Status),
		stakes:   make(map[staking.Address]*staking.Stake),
		issuance: big.NewInt(1_000_000),
	}
}

func (s *stubSource) set(who staking.Address, status staking.Status, active int64) {
	s.statuses[who] = status
	s.stakes[who] = staking.NewStake(big.NewInt(active), big.NewInt(active))
}

func (s *stubSource) remove(who staking.Address) {
	delete(s.statuses, who)
	delete(s.stakes, who)
}

func (s *stubSource) Status(who staking.Address) (staking.Status, error) {
	status, ok := s.statuses[who]
	if !ok {
		return staking.Status{}, staking.ErrNotStaker
	}
	return status, nil
}

func (s *stubSource) Stake(who staking.Address) (*staking.Stake, error) {
	stake, ok := s.stakes[who]
	if !ok {
		return nil, staking.ErrNotStaker
	}
	return stake.Clone(), nil
}

func (s *stubSource) WeightOf(amount *big.Int) staking.Weight {
	return staking.ScaledWeight(amount, s.issuance)
}

// newStubTracker builds a tracker over a stub source and empty rankings.
func newStubTracker(strict bool) (*Tracker, *stubSource, *ranking.List[staking.Weight], *ranking.List[staking.Approval]) {
	voters := ranking.New[staking.Weight]()
	targets := ranking.New[staking.Approval]()
	source := newStubSource()
	return New(voters, targets, source, Options{StrictChecks: strict}), source, voters, targets
}
