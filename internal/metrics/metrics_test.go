package metrics

import (
	"testing"

	"haunted_slot/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatal(err)
	}
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatal("unsupported metric")
	return 0
}

func TestObserveSpin(t *testing.T) {
	paidBefore := value(t, spins.WithLabelValues(kindPaid))
	freeBefore := value(t, spins.WithLabelValues(kindFree))
	betBefore := value(t, betTotal)
	miniBefore := value(t, jackpotHits.WithLabelValues("mini"))
	sessionsBefore := value(t, freeSpinSessions)

	ObserveSpin(&model.Outcome{
		Bet:      decimal.NewFromInt(10),
		TotalWin: decimal.NewFromInt(30),
		Jackpot:  &model.JackpotWin{Tier: model.TierMini, Amount: decimal.NewFromInt(20)},
		Pools:    model.PoolSnapshot{model.TierGrand: decimal.RequireFromString("2500.5")},
	})
	ObserveSpin(&model.Outcome{
		Bet:            decimal.NewFromInt(10),
		FreeSpin:       true,
		TotalWin:       decimal.Zero,
		SessionSummary: &model.FreeSpinSummary{SpinsPlayed: 10},
	})
	ObserveSpin(nil)

	if got := value(t, spins.WithLabelValues(kindPaid)) - paidBefore; got != 1 {
		t.Fatalf("paid spins +%v", got)
	}
	if got := value(t, spins.WithLabelValues(kindFree)) - freeBefore; got != 1 {
		t.Fatalf("free spins +%v", got)
	}
	if got := value(t, betTotal) - betBefore; got != 10 {
		t.Fatalf("bet +%v, free spins must not count", got)
	}
	if got := value(t, jackpotHits.WithLabelValues("mini")) - miniBefore; got != 1 {
		t.Fatalf("mini hits +%v", got)
	}
	if got := value(t, freeSpinSessions) - sessionsBefore; got != 1 {
		t.Fatalf("sessions +%v", got)
	}
	if got := value(t, pools.WithLabelValues("grand")); got != 2500.5 {
		t.Fatalf("grand pool %v", got)
	}
}

func TestWatchDroppedEvents(t *testing.T) {
	if v := value(t, eventsDropped); v != 0 {
		t.Fatalf("dropped before watch = %v", v)
	}
	var n int64 = 3
	WatchDroppedEvents(func() int64 { return n })
	t.Cleanup(func() { droppedSource.Store(nil) })
	if v := value(t, eventsDropped); v != 3 {
		t.Fatalf("dropped = %v, want 3", v)
	}
	n = 5
	if v := value(t, eventsDropped); v != 5 {
		t.Fatalf("dropped = %v, want 5", v)
	}
}
