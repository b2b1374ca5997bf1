// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tracker

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// lazyLoad defers collector registration to first use, so that importing the
// package does not touch the default registry by itself.
func lazyLoad[T any](f func() T) func() T {
	var result T
	var once sync.Once
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

var (
	metricEvents = lazyLoad(func() *prometheus.CounterVec {
		return promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stake_tracker_events_total",
			Help: "Staking lifecycle events processed, by event.",
		}, []string{"event"})
	})

	metricDefensiveViolations = lazyLoad(func() prometheus.Counter {
		return promauto.NewCounter(prometheus.CounterOpts{
			Name: "stake_tracker_defensive_violations_total",
			Help: "Broken call contracts absorbed by defensive branches.",
		})
	})

	metricDanglingRemoved = lazyLoad(func() prometheus.Counter {
		return promauto.NewCounter(prometheus.CounterOpts{
			Name: "stake_tracker_dangling_targets_removed_total",
			Help: "Unbonded targets dropped once their approvals drained to zero.",
		})
	})

	metricEntries = lazyLoad(func() *prometheus.GaugeVec {
		return promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stake_tracker_entries",
			Help: "Currently ranked entries, by ranking.",
		}, []string{"ranking"})
	})
)

func (t *Tracker) syncSizeGauges() {
	metricEntries().WithLabelValues("voters").Set(float64(t.voters.Count()))
	metricEntries().WithLabelValues("targets").Set(float64(t.targets.Count()))
}
