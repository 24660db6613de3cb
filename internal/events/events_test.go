package events

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"haunted_slot/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func sample() *model.Outcome {
	var g model.Grid
	for r := 0; r < model.Rows; r++ {
		for c := 0; c < model.Reels; c++ {
			g[r][c] = "bat"
		}
	}
	g[0][4] = "freespins"
	return &model.Outcome{
		SpinID: "spin-1",
		Grid:   g,
		Bet:    decimal.NewFromInt(10),
		LineWins: []model.LineWin{{
			Line: 0, Symbol: "bat", Count: 5,
			Path: []model.Position{{Row: 1, Reel: 0}, {Row: 1, Reel: 1}, {Row: 1, Reel: 2}, {Row: 1, Reel: 3}, {Row: 1, Reel: 4}},
			Win:  decimal.NewFromInt(40),
		}},
		LineWin:  decimal.NewFromInt(40),
		Jackpot:  &model.JackpotWin{Tier: model.TierMini, Amount: decimal.RequireFromString("20.1")},
		Pools:    model.PoolSnapshot{model.TierMini: decimal.NewFromInt(20)},
		TotalWin: decimal.RequireFromString("60.1"),
		Balance:  decimal.RequireFromString("150.1"),
	}
}

func TestBusFanOut(t *testing.T) {
	b := NewBus()
	a, cancelA := b.Subscribe(4)
	c, cancelC := b.Subscribe(4)
	defer cancelA()
	defer cancelC()

	o := sample()
	if err := b.Publish(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	if got := <-a; got != o {
		t.Fatal("subscriber a got wrong event")
	}
	if got := <-c; got != o {
		t.Fatal("subscriber c got wrong event")
	}
}

func TestBusDropsWhenFull(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := b.Publish(context.Background(), sample()); err != nil {
			t.Fatal(err)
		}
	}
	if b.Dropped() != 2 {
		t.Fatalf("dropped=%d, want 2", b.Dropped())
	}
	if len(ch) != 1 {
		t.Fatalf("buffered=%d", len(ch))
	}
}

func TestBusUnsubscribeAndClose(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe(1)
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("channel open after unsubscribe")
	}
	if b.Subscribers() != 0 {
		t.Fatalf("subscribers=%d", b.Subscribers())
	}

	ch2, _ := b.Subscribe(1)
	b.Close()
	if _, ok := <-ch2; ok {
		t.Fatal("channel open after close")
	}
	if err := b.Publish(context.Background(), sample()); !errors.Is(err, ErrClosed) {
		t.Fatalf("publish after close: %v", err)
	}
}

func TestBusConcurrentPublish(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe(1000)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = b.Publish(context.Background(), sample())
			}
		}()
	}
	wg.Wait()
	if int64(len(ch))+b.Dropped() != 500 {
		t.Fatalf("delivered=%d dropped=%d", len(ch), b.Dropped())
	}
}

type failing struct{ err error }

func (f failing) Publish(context.Context, *model.Outcome) error { return f.err }

func TestMultiJoinsErrors(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe(1)
	defer cancel()
	boom := errors.New("boom")

	m := NewMulti(failing{boom}, nil, b)
	if len(m) != 2 {
		t.Fatalf("len=%d", len(m))
	}
	err := m.Publish(context.Background(), sample())
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	if len(ch) != 1 {
		t.Fatal("bus skipped after failing publisher")
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(sample())
	if err != nil {
		t.Fatal(err)
	}
	var ev OutcomeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.SpinID != "spin-1" || len(ev.Grid) != model.Rows || ev.Grid[0][4] != "freespins" {
		t.Fatalf("decoded %+v", ev)
	}
	if ev.Jackpot == nil || ev.Jackpot.Tier != "mini" || !ev.Jackpot.Amount.Equal(decimal.RequireFromString("20.1")) {
		t.Fatalf("jackpot %+v", ev.Jackpot)
	}
	if len(ev.LineWins) != 1 || len(ev.LineWins[0].Path) != 5 || ev.LineWins[0].Path[4].Reel != 4 {
		t.Fatalf("line wins %+v", ev.LineWins)
	}
	if !strings.Contains(string(data), `"total_win":"60.1"`) {
		t.Fatalf("total win encoding: %s", data)
	}
	if strings.Contains(string(data), "session_summary") {
		t.Fatal("empty summary encoded")
	}
}

type fakeRedis struct {
	channel string
	payload []byte
	err     error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisPublisher(t *testing.T) {
	rdb := &fakeRedis{}
	p := NewRedisPublisher(rdb, "slot:outcomes")
	if err := p.Publish(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
	if rdb.channel != "slot:outcomes" || !strings.Contains(string(rdb.payload), `"spin_id":"spin-1"`) {
		t.Fatalf("published %q to %q", rdb.payload, rdb.channel)
	}

	rdb.err = errors.New("connection refused")
	if err := p.Publish(context.Background(), sample()); !errors.Is(err, rdb.err) {
		t.Fatalf("err=%v", err)
	}
}
