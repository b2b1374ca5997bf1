// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"
)

// ErrNotStaker marks an account the staking state does not recognize, i.e.
// one with no bonded stake at all.
var ErrNotStaker = errors.New("not a staker")

// Source is the read-only oracle over the staking state. Event emitters
// mutate stake amounts before notifying a Listener, so handlers reading them
// back through Source observe post-event values; see Listener for the
// ordering of role transitions.
type Source interface {
	// Status returns the role of a bonded staker, ErrNotStaker otherwise.
	Status(addr Address) (Status, error)

	// Stake returns the bonded amounts of a staker, ErrNotStaker otherwise.
	Stake(addr Address) (*Stake, error)

	// WeightOf converts a stake amount into its ranking weight, under the
	// source's current total issuance.
	WeightOf(amount *big.Int) Weight
}
