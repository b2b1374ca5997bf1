// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger implements an in-memory staking state. It owns the bonded
// balances and the role of every staker, validates state transitions and
// reports each applied mutation to a staking.Listener.
//
// Events are delivered after the state transition they describe, so that the
// listener observing the ledger through the staking.Source view reads
// post-transition state. The two exceptions are noted on Validate and Kill:
// role changes of validators are reported against the pre-transition role,
// which the listener's contract demands.
//
// A Ledger is not safe for concurrent use.
package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stake-tracker/staking"
)

// MaxNominations caps the number of targets a single nominator can vote for.
const MaxNominations = 16

var (
	errAlreadyBonded = errors.New("already bonded")
	errBelowMinBond  = errors.New("active stake below the minimum bond")
)

type account struct {
	total        *big.Int
	active       *big.Int
	role         staking.Kind
	nominations  []staking.Address
	wasValidator bool
}

func (a *account) stake() *staking.Stake {
	return staking.NewStake(a.total, a.active)
}

type noopListener struct{}

func (noopListener) OnStakeUpdate(staking.Address, *staking.Stake, *staking.Stake) {}
func (noopListener) OnValidatorAdd(staking.Address, *staking.Stake)                {}
func (noopListener) OnValidatorIdle(staking.Address)                               {}
func (noopListener) OnValidatorRemove(staking.Address)                             {}
func (noopListener) OnNominatorAdd(staking.Address, []staking.Address)             {}
func (noopListener) OnNominatorIdle(staking.Address, []staking.Address)            {}
func (noopListener) OnNominatorRemove(staking.Address, []staking.Address)          {}

func (noopListener) OnNominatorUpdate(staking.Address, []staking.Address, []staking.Address) {}

func (noopListener) OnSlash(staking.Address, *big.Int, map[staking.EraIndex]*big.Int, *big.Int) {}

// Ledger is the staking state. The zero value is not usable, construct with
// New.
type Ledger struct {
	issuance *big.Int
	minBond  *big.Int
	accounts map[staking.Address]*account
	// validators removed through Kill. Their ranked approvals can outlive
	// the account, so a re-bonded successor inherits the nominate bar.
	killedValidators map[staking.Address]bool
	listener         staking.Listener
}

var _ staking.Source = (*Ledger)(nil)

// New creates an empty ledger for a system with the given total issuance.
// The issuance fixes the weight scaling factor for the ledger's lifetime and
// sets the minimum active stake required of validators and nominators.
func New(issuance *big.Int) *Ledger {
	return &Ledger{
		issuance:         new(big.Int).Set(issuance),
		minBond:          staking.WeightFactor(issuance),
		accounts:         make(map[staking.Address]*account),
		killedValidators: make(map[staking.Address]bool),
		listener:         noopListener{},
	}
}

// SetListener registers the listener notified of every applied mutation.
func (l *Ledger) SetListener(listener staking.Listener) {
	l.listener = listener
}

// MinBond returns the minimum active stake a validator or nominator must
// keep bonded. It equals the weight scaling factor, so any active role holds
// a weight of at least one.
func (l *Ledger) MinBond() *big.Int {
	return new(big.Int).Set(l.minBond)
}

// Status implements staking.Source. The returned nominations are a copy.
func (l *Ledger) Status(who staking.Address) (staking.Status, error) {
	acct, ok := l.accounts[who]
	if !ok {
		return staking.Status{}, staking.ErrNotStaker
	}
	switch acct.role {
	case staking.KindValidator:
		return staking.Validator(), nil
	case staking.KindNominator:
		nominations := make([]staking.Address, len(acct.nominations))
		copy(nominations, acct.nominations)
		return staking.Nominator(nominations), nil
	default:
		return staking.Idle(), nil
	}
}

// Stake implements staking.Source. The returned stake is a copy.
func (l *Ledger) Stake(who staking.Address) (*staking.Stake, error) {
	acct, ok := l.accounts[who]
	if !ok {
		return nil, staking.ErrNotStaker
	}
	return acct.stake(), nil
}

// WeightOf implements staking.Source, scaling an amount by the ledger's
// issuance factor.
func (l *Ledger) WeightOf(amount *big.Int) staking.Weight {
	return staking.ScaledWeight(amount, l.issuance)
}

// Bond locks an initial amount for a new, idle staker.
func (l *Ledger) Bond(who staking.Address, amount *big.Int) error {
	if _, ok := l.accounts[who]; ok {
		return errAlreadyBonded
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("bond amount must be positive")
	}

	acct := &account{
		total:        new(big.Int).Set(amount),
		active:       new(big.Int).Set(amount),
		role:         staking.KindIdle,
		wasValidator: l.killedValidators[who],
	}
	l.accounts[who] = acct
	delete(l.killedValidators, who)

	l.listener.OnStakeUpdate(who, nil, acct.stake())
	return nil
}

// BondExtra locks an additional amount for an existing staker.
func (l *Ledger) BondExtra(who staking.Address, amount *big.Int) error {
	acct, ok := l.accounts[who]
	if !ok {
		return staking.ErrNotStaker
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("bond amount must be positive")
	}

	prev := acct.stake()
	acct.total.Add(acct.total, amount)
	acct.active.Add(acct.active, amount)

	l.listener.OnStakeUpdate(who, prev, acct.stake())
	return nil
}

// Unbond schedules part of the active stake for unlocking. While acting as a
// validator or nominator the remaining active stake must not drop below the
// minimum bond; chill first to unbond further.
func (l *Ledger) Unbond(who staking.Address, amount *big.Int) error {
	acct, ok := l.accounts[who]
	if !ok {
		return staking.ErrNotStaker
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("unbond amount must be positive")
	}
	if amount.Cmp(acct.active) > 0 {
		return errors.New("unbond amount exceeds active stake")
	}
	if acct.role != staking.KindIdle {
		remaining := new(big.Int).Sub(acct.active, amount)
		if remaining.Cmp(l.minBond) < 0 {
			return errBelowMinBond
		}
	}

	prev := acct.stake()
	acct.active.Sub(acct.active, amount)

	l.listener.OnStakeUpdate(who, prev, acct.stake())
	return nil
}

// Validate turns the staker into a validator. A nominator is retired from
// its nominating role first. Calling it on an acting validator is a no-op.
//
// The validator event fires before the role flips, so the listener observes
// the pre-validation role.
func (l *Ledger) Validate(who staking.Address) error {
	acct, ok := l.accounts[who]
	if !ok {
		return staking.ErrNotStaker
	}
	if acct.role == staking.KindValidator {
		return nil
	}
	if acct.active.Cmp(l.minBond) < 0 {
		return errBelowMinBond
	}

	if acct.role == staking.KindNominator {
		nominations := acct.nominations
		acct.role = staking.KindIdle
		acct.nominations = nil
		l.listener.OnNominatorRemove(who, nominations)
	}

	l.listener.OnValidatorAdd(who, acct.stake())
	acct.role = staking.KindValidator
	acct.wasValidator = true
	return nil
}

// Nominate turns the staker into a nominator of the given targets, or
// replaces the target set of an acting nominator. Targets must be distinct,
// acting validators and at most MaxNominations of them.
//
// Validators cannot nominate: a former validator may still be collecting
// approvals from its own nominators, and since those approvals stay ranked
// until the last nominator moves away, the bar sticks to the address even
// across a full unbond and re-bond.
func (l *Ledger) Nominate(who staking.Address, targets []staking.Address) error {
	acct, ok := l.accounts[who]
	if !ok {
		return staking.ErrNotStaker
	}
	if acct.role == staking.KindValidator {
		return errors.New("validator cannot nominate")
	}
	if acct.role == staking.KindIdle && acct.wasValidator {
		return errors.New("former validator cannot nominate while its approvals may be ranked")
	}
	if len(targets) == 0 {
		return errors.New("empty nominations")
	}
	if len(targets) > MaxNominations {
		return errors.Errorf("at most %d nominations allowed", MaxNominations)
	}
	if acct.active.Cmp(l.minBond) < 0 {
		return errBelowMinBond
	}
	for i, target := range targets {
		t, ok := l.accounts[target]
		if !ok || t.role != staking.KindValidator {
			return errors.Errorf("nomination target %v is not an acting validator", target)
		}
		for _, seen := range targets[:i] {
			if seen == target {
				return errors.Errorf("duplicate nomination target %v", target)
			}
		}
	}

	nominations := make([]staking.Address, len(targets))
	copy(nominations, targets)

	if acct.role == staking.KindNominator {
		prev := acct.nominations
		acct.nominations = nominations
		l.listener.OnNominatorUpdate(who, prev, nominations)
		return nil
	}

	acct.role = staking.KindNominator
	acct.nominations = nominations
	l.listener.OnNominatorAdd(who, nominations)
	return nil
}

// Chill retires the staker from its validating or nominating role, keeping
// the stake bonded. Chilling an idle staker is a no-op.
func (l *Ledger) Chill(who staking.Address) error {
	acct, ok := l.accounts[who]
	if !ok {
		return staking.ErrNotStaker
	}

	switch acct.role {
	case staking.KindValidator:
		acct.role = staking.KindIdle
		l.listener.OnValidatorIdle(who)
	case staking.KindNominator:
		nominations := acct.nominations
		acct.role = staking.KindIdle
		acct.nominations = nil
		l.listener.OnNominatorIdle(who, nominations)
	}
	return nil
}

// Kill removes the staker and its bonded funds from the ledger entirely.
//
// The removal event fires while the account still exists, against the
// pre-removal role, so the listener can read the final stake and status.
//
// The address of a killed validator stays recorded: its ranked approvals
// live on until the last nominator moves away, so a future Bond of the same
// address re-establishes the nominate bar.
func (l *Ledger) Kill(who staking.Address) error {
	acct, ok := l.accounts[who]
	if !ok {
		return staking.ErrNotStaker
	}

	switch {
	case acct.role == staking.KindValidator:
		l.listener.OnValidatorRemove(who)
	case acct.role == staking.KindNominator:
		nominations := acct.nominations
		acct.role = staking.KindIdle
		acct.nominations = nil
		l.listener.OnNominatorRemove(who, nominations)
	case acct.wasValidator:
		// an idle former validator may still hold a ranked target entry
		l.listener.OnValidatorRemove(who)
	}

	if acct.wasValidator {
		l.killedValidators[who] = true
	}
	delete(l.accounts, who)
	return nil
}

// Slash burns part of the staker's funds as punishment, active stake first.
// Unlike Unbond it may push an acting validator or nominator below the
// minimum bond, all the way to zero. The issuance, and with it the weight
// scaling factor, stays untouched.
func (l *Ledger) Slash(who staking.Address, amount *big.Int) error {
	acct, ok := l.accounts[who]
	if !ok {
		return staking.ErrNotStaker
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("slash amount must be positive")
	}

	prev := acct.stake()

	slashed := new(big.Int).Set(amount)
	if slashed.Cmp(acct.total) > 0 {
		slashed.Set(acct.total)
	}
	fromActive := new(big.Int).Set(slashed)
	if fromActive.Cmp(acct.active) > 0 {
		fromActive.Set(acct.active)
	}
	acct.active.Sub(acct.active, fromActive)
	acct.total.Sub(acct.total, slashed)

	l.listener.OnSlash(who, fromActive, nil, slashed)
	l.listener.OnStakeUpdate(who, prev, acct.stake())
	return nil
}
