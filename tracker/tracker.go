// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tracker keeps a voter ranking and a target approval ranking
// continuously consistent with the staking state, without ever recomputing
// either ranking from scratch.
//
// The tracker listens to staking lifecycle events and translates each one
// into incremental score updates on the two rankings. The target ranking is
// kept strictly sorted by approval score at all times; the voter ranking only
// mirrors membership and per-voter stake weight, its ordering is maintained
// lazily elsewhere.
package tracker

import (
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/log"

	"github.com/vechain/stake-tracker/ranking"
	"github.com/vechain/stake-tracker/staking"
)

var logger = log.New("pkg", "tracker")

// SetLogger overrides the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// Options tunes how a Tracker reacts to broken call contracts.
type Options struct {
	// StrictChecks turns the defensive log-and-skip branches into panics.
	// Verification and test builds set it so that a broken precondition
	// surfaces loudly; production keeps it off and degrades a single update
	// instead of the whole state transition.
	StrictChecks bool
}

// Tracker synchronizes the voter and target rankings with the staking state
// it observes through a Source. It implements staking.Listener; the emitter
// must apply each staking mutation before delivering the matching event.
type Tracker struct {
	voters  ranking.Set[staking.Weight]
	targets ranking.Set[staking.Approval]
	source  staking.Source
	opts    Options
}

var _ staking.Listener = (*Tracker)(nil)

// New creates a tracker bound to its two rankings and the staking state view.
// Both rankings are owned by the caller and must only be mutated through the
// tracker while it is in use.
func New(
	voters ranking.Set[staking.Weight],
	targets ranking.Set[staking.Approval],
	source staking.Source,
	opts Options,
) *Tracker {
	return &Tracker{
		voters:  voters,
		targets: targets,
		source:  source,
		opts:    opts,
	}
}

// defensive reports a broken call contract: panic under StrictChecks,
// otherwise log and let the caller skip the update.
func (t *Tracker) defensive(msg string, ctx ...any) {
	metricDefensiveViolations().Inc()
	if t.opts.StrictChecks {
		panic("tracker: " + msg)
	}
	logger.Warn(msg, ctx...)
}

// OnStakeUpdate re-scores who after a change of its bonded amounts. A
// nominator's weight delta propagates to every target it currently
// nominates; a validator's delta moves its own approval score. Idle stake
// changes leave both rankings untouched.
func (t *Tracker) OnStakeUpdate(who staking.Address, prev *staking.Stake, current *staking.Stake) {
	metricEvents().WithLabelValues("stake_update").Inc()
	defer t.syncSizeGauges()

	status, err := t.source.Status(who)
	if err != nil {
		t.defensive("staker should exist and have a valid status on stake update", "who", who, "err", err)
		return
	}
	if _, err := t.source.Stake(who); err != nil {
		t.defensive("staker should exist and have a valid status on stake update", "who", who, "err", err)
		return
	}

	weight := t.source.WeightOf(current.Active)

	switch status.Kind {
	case staking.KindNominator:
		if err := t.voters.Update(who, weight); err != nil {
			t.defensive("nominator should be ranked as a voter on stake update", "who", who, "err", err)
		}

		imbalance := t.stakeImbalanceOf(prev, weight)
		logger.Debug("stake updated", "who", who, "imbalance", imbalance, "nominations", len(status.Nominations))

		// impacts the score of up to the system-wide maximum of nominations
		for _, target := range status.Nominations {
			t.updateTargetScore(target, imbalance)
		}
	case staking.KindValidator:
		// a validator is both a target and a voter
		t.updateTargetScore(who, t.stakeImbalanceOf(prev, weight))

		if err := t.voters.Update(who, weight); err != nil {
			t.defensive("validator should be ranked as a voter on stake update", "who", who, "err", err)
		}
	case staking.KindIdle: // nothing to see here
	}
}

// OnValidatorAdd ranks a new validator with its self-weight as the initial
// approval score. A target entry may already exist when the validator was
// idle or left a dangling record behind; reactivation then adds the
// self-weight on top of the approvals collected meanwhile. A validator also
// votes for itself, so it joins the voter ranking too.
func (t *Tracker) OnValidatorAdd(who staking.Address, selfStake *staking.Stake) {
	metricEvents().WithLabelValues("validator_add").Inc()
	defer t.syncSizeGauges()

	active := big.NewInt(0)
	if selfStake != nil && selfStake.Active != nil {
		active = selfStake.Active
	}
	selfWeight := t.source.WeightOf(active)

	if !t.targets.Contains(who) {
		if err := t.targets.Insert(who, staking.Approval(selfWeight)); err != nil {
			t.defensive("target was checked absent from the target ranking", "who", who, "err", err)
		}
	} else {
		// the target is already tracked, meaning it has been idle and/or
		// dangling until now
		if t.opts.StrictChecks {
			if status, err := t.source.Status(who); err == nil && !status.IsIdle() {
				panic("tracker: a tracked target being re-added must have been idle or unbonded")
			}
		}
		t.updateTargetScore(who, Positive(selfWeight.Extended()))
	}

	logger.Debug("validator added", "who", who, "selfWeight", selfWeight)

	// a validator is also a nominator of itself
	t.OnNominatorAdd(who, nil)
}

// OnValidatorIdle retires a chilled validator's self-vote. The target entry
// stays ranked, its score reduced by the self-weight, still collecting the
// remaining nominator approvals.
func (t *Tracker) OnValidatorIdle(who staking.Address) {
	metricEvents().WithLabelValues("validator_idle").Inc()
	defer t.syncSizeGauges()

	selfWeight := t.source.WeightOf(t.activeStake(who))
	t.updateTargetScore(who, Negative(selfWeight.Extended()))

	// retire the self-vote from the voter ranking too
	t.OnNominatorIdle(who, nil)

	logger.Debug("validator idled", "who", who, "selfWeight", selfWeight)
}

// OnValidatorRemove unranks a target leaving the staking state for good. The
// validator is idled first when necessary; the entry itself is removed only
// when its score is zero, otherwise it lives on as a dangling target until
// the last nominator lets go of it.
func (t *Tracker) OnValidatorRemove(who staking.Address) {
	metricEvents().WithLabelValues("validator_remove").Inc()
	defer t.syncSizeGauges()

	logger.Debug("validator removed", "who", who)

	// the validator must be idle before being removed completely
	status, err := t.source.Status(who)
	switch {
	case err != nil:
		t.defensive("validator removal of a target unknown to staking", "who", who, "err", err)
		return
	case status.IsIdle(): // proceed
	case status.IsValidator():
		t.OnValidatorIdle(who)
	default:
		t.defensive("validator removal of a nominator", "who", who)
		return
	}

	score, err := t.targets.Score(who)
	if err != nil {
		score = 0
	}
	if score == 0 {
		if err := t.targets.Remove(who); err != nil {
			t.defensive("drained target should still be ranked at removal", "who", who, "err", err)
		}
	}
}

// OnNominatorAdd ranks a new voter with the weight of its active stake and
// adds that weight to the approval score of every nominated target. Re-adding
// a voter that is already ranked is a benign idempotence case and leaves both
// rankings untouched.
func (t *Tracker) OnNominatorAdd(who staking.Address, nominations []staking.Address) {
	metricEvents().WithLabelValues("nominator_add").Inc()
	defer t.syncSizeGauges()

	vote := t.source.WeightOf(t.activeStake(who))

	// the voter may already be ranked when re-enabling a chilled nominator
	if t.voters.Contains(who) {
		return
	}

	if err := t.voters.Insert(who, vote); err != nil {
		t.defensive("voter was checked absent from the voter ranking", "who", who, "err", err)
	}

	status, err := t.source.Status(who)
	if err != nil {
		t.defensive("a freshly ranked voter should have a valid status", "who", who, "err", err)
		return
	}

	// only nominators spread their vote; a validator's self-vote lives in
	// its own target entry
	if status.IsNominator() {
		for _, target := range nominations {
			t.updateTargetScore(target, Positive(vote.Extended()))
		}
	}

	logger.Debug("nominator added", "who", who, "role", status.Kind, "vote", vote, "nominations", len(nominations))
}

// OnNominatorIdle unranks a chilled nominator. Chilling equals removal from
// the voter ranking's perspective; nominations carries the pre-chill target
// set, which the staking state no longer holds.
func (t *Tracker) OnNominatorIdle(who staking.Address, nominations []staking.Address) {
	metricEvents().WithLabelValues("nominator_idle").Inc()

	t.OnNominatorRemove(who, nominations)
}

// OnNominatorRemove takes back the voter's weight from every listed target
// and unranks the voter.
func (t *Tracker) OnNominatorRemove(who staking.Address, nominations []staking.Address) {
	metricEvents().WithLabelValues("nominator_remove").Inc()
	defer t.syncSizeGauges()

	vote := t.source.WeightOf(t.activeStake(who))

	logger.Debug("removing nominator votes", "who", who, "vote", vote, "nominations", len(nominations))

	for _, target := range nominations {
		t.updateTargetScore(target, Negative(vote.Extended()))
	}

	if err := t.voters.Remove(who); err != nil {
		t.defensive("nominator should be ranked as a voter at removal", "who", who, "err", err)
	}
}

// OnNominatorUpdate moves who's vote between targets after a change of its
// nomination set: newly picked targets gain the vote, dropped ones lose it,
// targets in both sets are untouched.
func (t *Tracker) OnNominatorUpdate(who staking.Address, prev, current []staking.Address) {
	metricEvents().WithLabelValues("nominator_update").Inc()
	defer t.syncSizeGauges()

	vote := t.source.WeightOf(t.activeStake(who))

	logger.Debug("nominations updated", "who", who, "vote", vote, "prev", len(prev), "current", len(current))

	for _, target := range current {
		if !slices.Contains(prev, target) {
			t.updateTargetScore(target, Positive(vote.Extended()))
		}
	}
	for _, target := range prev {
		if !slices.Contains(current, target) {
			t.updateTargetScore(target, Negative(vote.Extended()))
		}
	}
}

// OnSlash is a no-op: a slash surfaces as a stake reduction which the ledger
// reports separately through OnStakeUpdate.
func (t *Tracker) OnSlash(who staking.Address, slashedActive *big.Int, slashedUnlocking map[staking.EraIndex]*big.Int, slashedTotal *big.Int) {
	metricEvents().WithLabelValues("slash").Inc()
}
