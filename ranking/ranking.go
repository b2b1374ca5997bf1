// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ranking provides ordered-by-score containers keyed by staking
// account, used to maintain the voter and target rankings of the staking
// system.
package ranking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stake-tracker/staking"
)

var (
	// ErrAlreadyPresent is returned when inserting an account that is
	// already ranked.
	ErrAlreadyPresent = errors.New("already present")

	// ErrNotPresent is returned when operating on an account that is not
	// ranked.
	ErrNotPresent = errors.New("not present")
)

// Score is the comparable unit a ranking orders by.
type Score interface {
	~uint64
}

// Set is an ordered-by-score container keyed by account. It is the sole
// holder of the scores it ranks: callers read a score back through the set
// rather than keeping copies of their own.
type Set[S Score] interface {
	// Insert ranks a new account, failing with ErrAlreadyPresent when the
	// account is already held.
	Insert(addr staking.Address, score S) error

	// Remove unranks an account, failing with ErrNotPresent when absent.
	Remove(addr staking.Address) error

	// Update replaces an account's score and re-ranks it, failing with
	// ErrNotPresent when absent.
	Update(addr staking.Address, score S) error

	// Increase adds delta to an account's score, saturating at the maximum
	// representable value, and re-ranks it. Fails with ErrNotPresent when
	// absent.
	Increase(addr staking.Address, delta S) error

	// Contains reports whether the account is ranked.
	Contains(addr staking.Address) bool

	// Score returns an account's current score, failing with ErrNotPresent
	// when absent.
	Score(addr staking.Address) (S, error)

	// Iterate walks the ranking in stored order, stopping at the first
	// callback error and returning it.
	Iterate(fn func(addr staking.Address, score S) error) error

	// Count returns the number of ranked accounts.
	Count() int
}
