// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tracker

import "github.com/holiman/uint256"

// Imbalance is a signed stake delta in extended-precision weight units,
// representing the net effect of one event on one target's approval score.
type Imbalance struct {
	negative bool
	amount   *uint256.Int
}

// Positive returns an imbalance increasing a score by amount.
func Positive(amount *uint256.Int) Imbalance {
	return Imbalance{amount: amount}
}

// Negative returns an imbalance decreasing a score by amount.
func Negative(amount *uint256.Int) Imbalance {
	return Imbalance{negative: true, amount: amount}
}

// stakeImbalance returns the signed difference between a staker's previous
// and current extended weight.
func stakeImbalance(prev, current *uint256.Int) Imbalance {
	if prev.Gt(current) {
		return Negative(new(uint256.Int).Sub(prev, current))
	}
	return Positive(new(uint256.Int).Sub(current, prev))
}

func (im Imbalance) String() string {
	if im.negative {
		return "-" + im.amount.Dec()
	}
	return "+" + im.amount.Dec()
}
