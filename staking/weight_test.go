// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestWeightFactor(t *testing.T) {
	assert.Equal(t, big.NewInt(1), WeightFactor(nil))
	assert.Equal(t, big.NewInt(1), WeightFactor(big.NewInt(0)))
	assert.Equal(t, big.NewInt(1), WeightFactor(big.NewInt(1e18)))

	// issuance at the 64-bit boundary still divides by 1
	assert.Equal(t, big.NewInt(1), WeightFactor(new(big.Int).Set(maxUint64)))

	fiveTimes := new(big.Int).Mul(maxUint64, big.NewInt(5))
	assert.Equal(t, big.NewInt(5), WeightFactor(fiveTimes))
}

func TestScaledWeight(t *testing.T) {
	smallIssuance := big.NewInt(1e18)

	// factor 1: conversion is the identity
	assert.Equal(t, Weight(0), ScaledWeight(nil, smallIssuance))
	assert.Equal(t, Weight(0), ScaledWeight(big.NewInt(-5), smallIssuance))
	assert.Equal(t, Weight(100), ScaledWeight(big.NewInt(100), smallIssuance))
	assert.Equal(t, Weight(1e15), ScaledWeight(big.NewInt(1e15), smallIssuance))

	// factor 2: weights halve
	bigIssuance := new(big.Int).Mul(maxUint64, big.NewInt(2))
	assert.Equal(t, Weight(5), ScaledWeight(big.NewInt(10), bigIssuance))
	assert.Equal(t, Weight(0), ScaledWeight(big.NewInt(1), bigIssuance))

	// saturation once the scaled amount exceeds 64 bits
	huge := new(big.Int).Mul(maxUint64, big.NewInt(3))
	assert.Equal(t, Weight(math.MaxUint64), ScaledWeight(huge, bigIssuance))
}

func TestScaledWeight_Monotonic(t *testing.T) {
	issuance := new(big.Int).Mul(maxUint64, big.NewInt(7))

	prev := Weight(0)
	for _, amount := range []int64{0, 1, 6, 7, 8, 1000, 1e9, 1e18} {
		w := ScaledWeight(big.NewInt(amount), issuance)
		assert.GreaterOrEqual(t, w, prev, "weight must not decrease for amount %d", amount)
		prev = w
	}
}

func TestApprovalFromExtended(t *testing.T) {
	assert.Equal(t, Approval(0), ApprovalFromExtended(uint256.NewInt(0)))
	assert.Equal(t, Approval(42), ApprovalFromExtended(uint256.NewInt(42)))
	assert.Equal(t, Approval(math.MaxUint64), ApprovalFromExtended(uint256.NewInt(math.MaxUint64)))

	// anything beyond 64 bits saturates
	over := new(uint256.Int).Add(uint256.NewInt(math.MaxUint64), uint256.NewInt(1))
	assert.Equal(t, Approval(math.MaxUint64), ApprovalFromExtended(over))
}

func TestWeightExtendedRoundTrip(t *testing.T) {
	assert.Equal(t, uint64(42), Weight(42).Extended().Uint64())
	assert.Equal(t, uint64(7), Approval(7).Extended().Uint64())
}
