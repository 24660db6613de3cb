package freespin

import (
	"errors"
	"testing"

	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
)

func TestLifecycle(t *testing.T) {
	s := New()
	if s.Active() || s.State() != Inactive {
		t.Fatal("new session must be inactive")
	}
	if err := s.Trigger(3, decimal.NewFromInt(5)); err != nil {
		t.Fatal(err)
	}
	if !s.Active() || s.Remaining() != 3 {
		t.Fatalf("state=%s remaining=%d", s.State(), s.Remaining())
	}

	summaries := 0
	prev := s.Remaining()
	for i := 0; i < 3; i++ {
		sum, err := s.Resolve(decimal.NewFromInt(int64(i + 1)))
		if err != nil {
			t.Fatal(err)
		}
		if s.Remaining() != prev-1 || s.Remaining() < 0 {
			t.Fatalf("remaining %d -> %d", prev, s.Remaining())
		}
		prev = s.Remaining()
		if sum != nil {
			summaries++
			if sum.SpinsPlayed != 3 || !sum.TotalWin.Equal(decimal.NewFromInt(6)) || !sum.Bet.Equal(decimal.NewFromInt(5)) {
				t.Fatalf("unexpected summary %+v", sum)
			}
		}
	}
	if summaries != 1 {
		t.Fatalf("got %d summaries, want 1", summaries)
	}
	if s.Active() {
		t.Fatal("session must end when remaining reaches zero")
	}
	if _, err := s.Resolve(decimal.Zero); !errors.Is(err, ErrInactive) {
		t.Fatalf("resolve on inactive: %v", err)
	}
}

func TestRetriggerExtends(t *testing.T) {
	s := New()
	_ = s.Trigger(2, decimal.NewFromInt(10))
	if _, err := s.Resolve(decimal.NewFromInt(4)); err != nil {
		t.Fatal(err)
	}
	if err := s.Trigger(10, decimal.NewFromInt(99)); err != nil {
		t.Fatal(err)
	}
	if s.Remaining() != 11 {
		t.Fatalf("remaining=%d, want 11", s.Remaining())
	}
	if !s.Bet().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("retrigger changed bet to %s", s.Bet())
	}
	if !s.Total().Equal(decimal.NewFromInt(4)) || s.Played() != 1 {
		t.Fatalf("retrigger reset accumulators: total=%s played=%d", s.Total(), s.Played())
	}
}

func TestTriggerRejectsNonPositive(t *testing.T) {
	if err := New().Trigger(0, decimal.NewFromInt(1)); !errors.Is(err, ErrBadAward) {
		t.Fatalf("got %v", err)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	s := New()
	_ = s.Trigger(5, decimal.NewFromInt(2))
	_, _ = s.Resolve(decimal.NewFromFloat(1.5))

	r := Restore(s.Snapshot())
	if !r.Active() || r.Remaining() != 4 || r.Played() != 1 {
		t.Fatalf("restored %+v", r.Snapshot())
	}
	if !r.Total().Equal(decimal.NewFromFloat(1.5)) || !r.Bet().Equal(decimal.NewFromInt(2)) {
		t.Fatalf("restored total=%s bet=%s", r.Total(), r.Bet())
	}

	empty := Restore(model.SlotState{FreeSpinsLeft: -3, FreeSpinsPlayed: 7})
	if empty.Active() || empty.Remaining() != 0 || empty.Played() != 0 {
		t.Fatalf("negative remaining restored as %+v", empty.Snapshot())
	}
}
