// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stake-tracker/staking"
)

func TestLoadScenario(t *testing.T) {
	sc, err := loadScenario("testdata/basic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "1000000", sc.Issuance)
	require.Len(t, sc.Stakers, 3)
	assert.Equal(t, "alice", sc.Stakers[0].Name)
	assert.Equal(t, "500", sc.Stakers[0].Stake)

	require.Len(t, sc.Steps, 13)
	assert.Equal(t, "nominate", sc.Steps[4].Op)
	assert.Equal(t, "carol", sc.Steps[4].Who)
	assert.Equal(t, []string{"alice", "bob"}, sc.Steps[4].Targets)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("issuance: \"10\"\ncooldown: 5\n"), 0o600))

	_, err := loadScenario(path)
	require.Error(t, err)
}

func TestLoadScenario_MissingStakers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("issuance: \"10\"\n"), 0o600))

	_, err := loadScenario(path)
	assert.ErrorContains(t, err, "no stakers")
}

func TestRunScenario_Basic(t *testing.T) {
	sc, err := loadScenario("testdata/basic.yaml")
	require.NoError(t, err)

	result, err := runScenario(sc)
	require.NoError(t, err)
	assert.Equal(t, 13, result.steps)

	// Every staker is killed by the end of the script.
	assert.Zero(t, result.voters)
	assert.Zero(t, result.targets)
	assert.False(t, result.hasHead)
}

func TestRunScenario_HeadTarget(t *testing.T) {
	sc := &scenario{
		Issuance: "1000000",
		Stakers: []scenarioStaker{
			{Name: "alice", Stake: "500"},
			{Name: "bob", Stake: "300"},
		},
		Steps: []scenarioStep{
			{Op: "validate", Who: "alice"},
			{Op: "validate", Who: "bob"},
		},
	}

	result, err := runScenario(sc)
	require.NoError(t, err)
	assert.Equal(t, 2, result.voters)
	assert.Equal(t, 2, result.targets)
	require.True(t, result.hasHead)
	assert.Equal(t, staking.BytesToAddress([]byte("alice")), result.head)
	assert.Equal(t, staking.Approval(500), result.headScore)
}

func TestRunScenario_StepFailure(t *testing.T) {
	sc := &scenario{
		Issuance: "1000000",
		Stakers:  []scenarioStaker{{Name: "alice", Stake: "100"}},
		Steps:    []scenarioStep{{Op: "nominate", Who: "alice", Targets: []string{"ghost"}}},
	}

	_, err := runScenario(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
}

func TestRunScenario_UnknownOp(t *testing.T) {
	sc := &scenario{
		Issuance: "1000000",
		Stakers:  []scenarioStaker{{Name: "alice", Stake: "100"}},
		Steps:    []scenarioStep{{Op: "teleport", Who: "alice"}},
	}

	_, err := runScenario(sc)
	assert.ErrorContains(t, err, `unknown op "teleport"`)
}

func TestRunScenario_BadAmount(t *testing.T) {
	sc := &scenario{
		Issuance: "1000000",
		Stakers:  []scenarioStaker{{Name: "alice", Stake: "not-a-number"}},
	}

	_, err := runScenario(sc)
	require.Error(t, err)
}

func TestSimulationWalk(t *testing.T) {
	sim := newSimulation(big.NewInt(1_000_000), 16, 4, rand.New(rand.NewPCG(7, 0)))
	for range 2000 {
		sim.step()
	}

	require.NoError(t, sim.tracker.Check())
	assert.Positive(t, sim.applied)
}
