// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "math/big"

// EraIndex numbers staking eras.
type EraIndex uint32

// Listener receives staking lifecycle transitions. The emitter applies stake
// mutations before notifying, so a handler reading the state back observes
// post-event amounts. Validator role signals are the exception: OnValidatorAdd
// and OnValidatorRemove fire while the state still reports the previous role.
// Handlers are synchronous and must run to completion before the emitter
// considers the next mutation.
type Listener interface {
	// OnStakeUpdate signals a change of who's bonded amounts. prev is nil
	// when who had no stake before the change.
	OnStakeUpdate(who Address, prev *Stake, current *Stake)

	// OnValidatorAdd signals who's intention to validate, fired before the
	// role flips. selfStake is nil when who validates without bonded funds.
	OnValidatorAdd(who Address, selfStake *Stake)

	// OnValidatorIdle signals that the validator who chilled. who stays
	// bonded and keeps collecting nominations.
	OnValidatorIdle(who Address)

	// OnValidatorRemove signals that who gives up validating for good, fired
	// while the state still holds the account and its pre-removal role.
	OnValidatorRemove(who Address)

	// OnNominatorAdd signals who's intention to nominate the given targets.
	OnNominatorAdd(who Address, nominations []Address)

	// OnNominatorIdle signals that the nominator who chilled. nominations
	// carries the pre-chill target set, which the staking state no longer
	// holds.
	OnNominatorIdle(who Address, nominations []Address)

	// OnNominatorRemove signals that who stops nominating for good and is
	// leaving the staking state. nominations carries the final target set.
	OnNominatorRemove(who Address, nominations []Address)

	// OnNominatorUpdate signals a change of who's target set at unchanged
	// stake. Stake changes are reported through OnStakeUpdate instead.
	OnNominatorUpdate(who Address, prev, current []Address)

	// OnSlash signals that who was slashed. The resulting stake reduction is
	// reported separately through OnStakeUpdate.
	OnSlash(who Address, slashedActive *big.Int, slashedUnlocking map[EraIndex]*big.Int, slashedTotal *big.Int)
}
