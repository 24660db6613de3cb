// Package metrics счетчики Prometheus по спинам и джекпотам.
package metrics

import (
	"sync/atomic"

	"haunted_slot/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	labelKind = "kind"
	labelTier = "tier"

	kindPaid = "paid"
	kindFree = "free"
)

// droppedSource счетчик потерянных событий шины, задается при сборке приложения
var droppedSource atomic.Pointer[func() int64]

var (
	eventsDropped = promauto.NewCounterFunc(prometheus.CounterOpts{
		Name: "slot_events_dropped_total",
		Help: "Outcome events dropped for slow subscribers",
	}, func() float64 {
		if f := droppedSource.Load(); f != nil {
			return float64((*f)())
		}
		return 0
	})
	spins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_spins_total",
		Help: "Resolved spins by kind",
	}, []string{labelKind})
	betTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slot_bet_total",
		Help: "Credits staked on paid spins",
	})
	winTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_win_total",
		Help: "Credits won by kind",
	}, []string{labelKind})
	freeSpinSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slot_free_spin_sessions_total",
		Help: "Completed free-spin sessions",
	})
	freeSpinTriggers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slot_free_spin_triggers_total",
		Help: "Scatter awards, including retriggers",
	})
	jackpotHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_jackpot_hits_total",
		Help: "Jackpot awards by tier",
	}, []string{labelTier})
	pools = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "slot_jackpot_pool",
		Help: "Current jackpot pool value",
	}, []string{labelTier})
	rtp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slot_rtp_window",
		Help: "Return to player over the recent spin window",
	})
	spinErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_spin_errors_total",
		Help: "Rejected or failed spins by reason",
	}, []string{"reason"})
)

// ObserveSpin учитывает исход одного спина
func ObserveSpin(o *model.Outcome) {
	if o == nil {
		return
	}
	kind := kindPaid
	if o.FreeSpin {
		kind = kindFree
	} else {
		betTotal.Add(o.Bet.InexactFloat64())
	}
	spins.WithLabelValues(kind).Inc()
	winTotal.WithLabelValues(kind).Add(o.TotalWin.InexactFloat64())

	if o.FreeSpinsAwarded > 0 {
		freeSpinTriggers.Inc()
	}
	if o.SessionSummary != nil {
		freeSpinSessions.Inc()
	}
	if o.Jackpot != nil {
		jackpotHits.WithLabelValues(string(o.Jackpot.Tier)).Inc()
	}
	SetPools(o.Pools)
}

func SetPools(snapshot model.PoolSnapshot) {
	for tier, v := range snapshot {
		pools.WithLabelValues(string(tier)).Set(v.InexactFloat64())
	}
}

func SetRTP(v float64) {
	rtp.Set(v)
}

func SpinError(reason string) {
	spinErrors.WithLabelValues(reason).Inc()
}

// WatchDroppedEvents отдает в slot_events_dropped_total значение dropped
func WatchDroppedEvents(dropped func() int64) {
	droppedSource.Store(&dropped)
}
