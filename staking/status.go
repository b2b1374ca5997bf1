// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

// Kind classifies the role of a bonded staker.
type Kind uint8

const (
	KindIdle      = Kind(iota) // bonded, neither validating nor nominating
	KindNominator              // delegates stake to a bounded set of targets
	KindValidator              // self-staked target accepting nominations
)

func (k Kind) String() string {
	switch k {
	case KindNominator:
		return "nominator"
	case KindValidator:
		return "validator"
	default:
		return "idle"
	}
}

// Status is the tagged role of a bonded staker. Nominations is set only for
// the nominator kind and lists the targets the stake is currently assigned to.
// A fully unbonded account has no status at all; Source reports it with
// ErrNotStaker instead.
type Status struct {
	Kind        Kind
	Nominations []Address
}

// Idle returns the status of a bonded staker without an active role.
func Idle() Status {
	return Status{Kind: KindIdle}
}

// Validator returns the status of a staker validating with its own stake.
func Validator() Status {
	return Status{Kind: KindValidator}
}

// Nominator returns the status of a staker delegating to the given targets.
func Nominator(targets []Address) Status {
	return Status{Kind: KindNominator, Nominations: targets}
}

func (s Status) IsIdle() bool      { return s.Kind == KindIdle }
func (s Status) IsNominator() bool { return s.Kind == KindNominator }
func (s Status) IsValidator() bool { return s.Kind == KindValidator }
