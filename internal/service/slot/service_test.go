package slot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"haunted_slot/internal/config/env"
	"haunted_slot/internal/engine"
	"haunted_slot/internal/engine/rng"
	"haunted_slot/internal/middleware"
	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"
	"haunted_slot/internal/repository/stats_repo"
	"haunted_slot/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeTx struct{ calls int }

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func (f *fakeTx) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return f.Do(ctx, fn)
}

type fakeUsers struct {
	mu       sync.Mutex
	balances map[int]decimal.Decimal
}

func (f *fakeUsers) CreateUser(context.Context, *model.User) (int, error) {
	return 0, errors.New("not used")
}

func (f *fakeUsers) GetUserByLogin(context.Context, string) (*model.User, error) {
	return nil, errors.New("not used")
}

func (f *fakeUsers) GetBalance(_ context.Context, id int) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	return b, nil
}

func (f *fakeUsers) LockBalance(ctx context.Context, id int) (decimal.Decimal, error) {
	return f.GetBalance(ctx, id)
}

func (f *fakeUsers) UpdateBalance(_ context.Context, id int, balance decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[id] = balance
	return nil
}

func (f *fakeUsers) AddBalance(_ context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[id] = f.balances[id].Add(amount)
	return f.balances[id], nil
}

type fakeSlots struct {
	states map[int]model.SlotState
	saves  int
}

func (f *fakeSlots) GetState(_ context.Context, id int) (model.SlotState, error) {
	return f.states[id], nil
}

func (f *fakeSlots) SaveState(_ context.Context, id int, st model.SlotState) error {
	f.saves++
	f.states[id] = st
	return nil
}

type fakePools struct {
	pools model.PoolSnapshot
	saves int
}

func (f *fakePools) InitPools(_ context.Context, floors model.PoolSnapshot) error {
	for k, v := range floors {
		if cur, ok := f.pools[k]; !ok || cur.LessThan(v) {
			f.pools[k] = v
		}
	}
	return nil
}

func (f *fakePools) GetPools(context.Context) (model.PoolSnapshot, error) {
	out := make(model.PoolSnapshot, len(f.pools))
	for k, v := range f.pools {
		out[k] = v
	}
	return out, nil
}

func (f *fakePools) LockPools(ctx context.Context) (model.PoolSnapshot, error) {
	return f.GetPools(ctx)
}

func (f *fakePools) SavePools(_ context.Context, pools model.PoolSnapshot) error {
	f.saves++
	for k, v := range pools {
		f.pools[k] = v
	}
	return nil
}

type recorder struct{ got []*model.Outcome }

func (r *recorder) Publish(_ context.Context, o *model.Outcome) error {
	r.got = append(r.got, o)
	return nil
}

type fixture struct {
	serv   service.SlotService
	users  *fakeUsers
	slots  *fakeSlots
	pools  *fakePools
	stats  *stats_repo.StatsRepo
	events *recorder
	tx     *fakeTx
}

const userID = 1

func newFixture(t *testing.T) *fixture {
	t.Helper()
	data, err := os.ReadFile("../../../configs/slot.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := env.ParseSlotConfig(data, "", "")
	if err != nil {
		t.Fatal(err)
	}
	events := &recorder{}
	m, err := engine.New(cfg, rng.NewSeeded(11), engine.WithNotifier(events))
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		users:  &fakeUsers{balances: map[int]decimal.Decimal{userID: decimal.NewFromInt(1000)}},
		slots:  &fakeSlots{states: map[int]model.SlotState{}},
		pools:  &fakePools{pools: model.PoolSnapshot{}},
		stats:  stats_repo.NewStatsRepository(95, 100, nil),
		events: events,
		tx:     &fakeTx{},
	}
	floors := model.PoolSnapshot{}
	for _, j := range cfg.Jackpots() {
		floors[j.Tier] = j.Floor
	}
	_ = f.pools.InitPools(context.Background(), floors)

	f.serv = NewSlotService(m, f.users, f.slots, f.pools, f.stats, f.tx, zap.NewNop())
	return f
}

func authed() context.Context {
	return middleware.WithUserID(context.Background(), userID)
}

func TestSpinRequiresUser(t *testing.T) {
	f := newFixture(t)
	if _, err := f.serv.Spin(context.Background(), model.SlotSpin{Bet: decimal.NewFromInt(10)}); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("err=%v", err)
	}
	if f.tx.calls != 0 {
		t.Fatal("transaction opened without user")
	}
}

func TestSpinPersistsOutcome(t *testing.T) {
	f := newFixture(t)
	bet := decimal.NewFromInt(10)

	out, err := f.serv.Spin(authed(), model.SlotSpin{Bet: bet})
	if err != nil {
		t.Fatal(err)
	}
	want := decimal.NewFromInt(1000).Sub(bet).Add(out.TotalWin)
	if !out.Balance.Equal(want) || !f.users.balances[userID].Equal(want) {
		t.Fatalf("balance %s / stored %s, want %s", out.Balance, f.users.balances[userID], want)
	}
	if f.slots.saves != 1 || f.pools.saves != 1 {
		t.Fatalf("saves: state %d pools %d", f.slots.saves, f.pools.saves)
	}
	if f.slots.states[userID].FreeSpinsLeft != out.FreeSpinsLeft {
		t.Fatalf("stored free spins %d, outcome %d", f.slots.states[userID].FreeSpinsLeft, out.FreeSpinsLeft)
	}
	for tier, v := range out.Pools {
		if !f.pools.pools[tier].Equal(v) {
			t.Fatalf("%s pool stored %s, outcome %s", tier, f.pools.pools[tier], v)
		}
	}
	if st := f.serv.Stats(); st.TotalSpins != 1 || st.TotalBet != 10 {
		t.Fatalf("stats %+v", st)
	}
	if len(f.events.got) != 1 || f.events.got[0] != out {
		t.Fatalf("published %d events", len(f.events.got))
	}
}

func TestSpinRejections(t *testing.T) {
	f := newFixture(t)
	if _, err := f.serv.Spin(authed(), model.SlotSpin{Bet: decimal.NewFromInt(7)}); !errors.Is(err, engine.ErrInvalidBet) {
		t.Fatalf("bet 7: %v", err)
	}

	f.users.balances[userID] = decimal.NewFromInt(5)
	if _, err := f.serv.Spin(authed(), model.SlotSpin{Bet: decimal.NewFromInt(10)}); !errors.Is(err, engine.ErrInsufficientCredits) {
		t.Fatalf("bet 10 with 5: %v", err)
	}
	if !f.users.balances[userID].Equal(decimal.NewFromInt(5)) || f.slots.saves != 0 || f.pools.saves != 0 {
		t.Fatal("rejected spin wrote state")
	}
	if len(f.events.got) != 0 {
		t.Fatal("rejected spin published")
	}
}

func TestSpinContinuesFreeSpins(t *testing.T) {
	f := newFixture(t)
	f.slots.states[userID] = model.SlotState{
		FreeSpinsLeft: 5,
		SessionTotal:  decimal.NewFromInt(12),
		SessionBet:    decimal.NewFromInt(20),
	}
	pools := f.pools.pools[model.TierMini]

	out, err := f.serv.Spin(authed(), model.SlotSpin{Bet: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatal(err)
	}
	if !out.FreeSpin || !out.Bet.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("free spin with bet %s", out.Bet)
	}
	if got := f.slots.states[userID].FreeSpinsLeft; got != 4+out.FreeSpinsAwarded {
		t.Fatalf("remaining=%d awarded=%d", got, out.FreeSpinsAwarded)
	}
	want := decimal.NewFromInt(1000).Add(out.TotalWin)
	if !f.users.balances[userID].Equal(want) {
		t.Fatalf("balance %s, want %s", f.users.balances[userID], want)
	}
	if out.Jackpot == nil && !f.pools.pools[model.TierMini].Equal(pools) {
		t.Fatal("free spin contributed to jackpots")
	}
	if st := f.serv.Stats(); st.TotalBet != 0 {
		t.Fatalf("free spin counted as bet: %+v", st)
	}
}

func TestDepositAndCheckData(t *testing.T) {
	f := newFixture(t)
	ctx := authed()

	for _, bad := range []string{"0", "-5", "1.005"} {
		if _, err := f.serv.Deposit(ctx, decimal.RequireFromString(bad)); !errors.Is(err, service.ErrInvalidAmount) {
			t.Fatalf("deposit %s: %v", bad, err)
		}
	}
	balance, err := f.serv.Deposit(ctx, decimal.RequireFromString("250.50"))
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(decimal.RequireFromString("1250.5")) {
		t.Fatalf("balance %s", balance)
	}

	f.slots.states[userID] = model.SlotState{FreeSpinsLeft: 3, SessionTotal: decimal.NewFromInt(8)}
	data, err := f.serv.CheckData(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !data.Balance.Equal(balance) || data.FreeSpinCount != 3 || !data.SessionTotal.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("data %+v", data)
	}
	if len(data.Pools) != 4 || !data.Pools[model.TierGrand].Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("pools %v", data.Pools)
	}

	if _, err := f.serv.CheckData(context.Background()); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("anonymous: %v", err)
	}
}

func TestDepositRejectsOversizedAmount(t *testing.T) {
	f := newFixture(t)
	ctx := authed()

	for _, big := range []string{"184467440737095516.17", "92233720368547758.08", "1000000000.01"} {
		if _, err := f.serv.Deposit(ctx, decimal.RequireFromString(big)); !errors.Is(err, service.ErrInvalidAmount) {
			t.Fatalf("deposit %s: %v", big, err)
		}
	}
	balance, err := f.serv.Deposit(ctx, decimal.NewFromInt(1_000_000_000))
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(decimal.NewFromInt(1_000_001_000)) {
		t.Fatalf("balance %s", balance)
	}
}

func TestSpinLiftsPoolBelowFloor(t *testing.T) {
	f := newFixture(t)
	floor := f.pools.pools[model.TierMini]
	f.pools.pools[model.TierMini] = decimal.NewFromInt(5)

	if _, err := f.serv.Spin(authed(), model.SlotSpin{Bet: decimal.NewFromInt(10)}); err != nil {
		t.Fatal(err)
	}
	if got := f.pools.pools[model.TierMini]; got.LessThan(floor) {
		t.Fatalf("mini stored %s below floor %s", got, floor)
	}
}
