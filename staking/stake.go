// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "math/big"

// Stake holds the bonded amounts of a staker.
type Stake struct {
	Total  *big.Int // bonded funds, including amounts scheduled for unlock
	Active *big.Int // the portion backing the staker's ranking weight
}

// NewStake creates a stake from copies of the given amounts.
func NewStake(total, active *big.Int) *Stake {
	return &Stake{
		Total:  big.NewInt(0).Set(total),
		Active: big.NewInt(0).Set(active),
	}
}

// EmptyStake returns a stake with zero amounts.
func EmptyStake() *Stake {
	return &Stake{
		Total:  big.NewInt(0),
		Active: big.NewInt(0),
	}
}

// Clone returns a deep copy of the stake.
func (s *Stake) Clone() *Stake {
	return NewStake(s.Total, s.Active)
}
