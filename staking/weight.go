// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// Weight is the issuance-normalized score unit of the voter ranking.
type Weight uint64

// Approval is the score unit of the target ranking: a target's self-weight
// plus the weights of every nominator currently pointing at it.
type Approval uint64

var maxUint64 = big.NewInt(0).SetUint64(math.MaxUint64)

// WeightFactor returns the divisor applied when converting stake amounts into
// ranking weights. It grows with total issuance so that any per-target sum of
// converted weights, bounded by the issuance itself, stays within 64 bits.
func WeightFactor(issuance *big.Int) *big.Int {
	if issuance == nil || issuance.Sign() <= 0 {
		return big.NewInt(1)
	}
	factor := big.NewInt(0).Quo(issuance, maxUint64)
	if factor.Sign() == 0 {
		return big.NewInt(1)
	}
	return factor
}

// ScaledWeight converts a stake amount into its ranking weight under the
// given total issuance. The conversion is deterministic and monotonic,
// saturating at the maximum representable weight.
func ScaledWeight(amount, issuance *big.Int) Weight {
	if amount == nil || amount.Sign() <= 0 {
		return 0
	}
	scaled := big.NewInt(0).Quo(amount, WeightFactor(issuance))
	if !scaled.IsUint64() {
		return Weight(math.MaxUint64)
	}
	return Weight(scaled.Uint64())
}

// Extended widens the weight for overflow-free summation.
func (w Weight) Extended() *uint256.Int {
	return uint256.NewInt(uint64(w))
}

// Extended widens the approval for overflow-free summation.
func (a Approval) Extended() *uint256.Int {
	return uint256.NewInt(uint64(a))
}

// ApprovalFromExtended narrows an extended sum back into the target ranking's
// native unit, saturating at the maximum representable value. Narrowing only
// happens at the single point of writing a score back.
func ApprovalFromExtended(x *uint256.Int) Approval {
	if !x.IsUint64() {
		return Approval(math.MaxUint64)
	}
	return Approval(x.Uint64())
}
