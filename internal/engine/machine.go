// Package engine цикл одного спина: ставка, барабаны, выплаты, джекпоты, фриспины.
package engine

import (
	"context"
	"fmt"
	"time"

	"haunted_slot/internal/config"
	"haunted_slot/internal/engine/freespin"
	"haunted_slot/internal/engine/jackpot"
	"haunted_slot/internal/engine/paytable"
	"haunted_slot/internal/engine/reel"
	"haunted_slot/internal/engine/rng"
	"haunted_slot/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier получатель событий спина (слой отображения)
type Notifier interface {
	Publish(ctx context.Context, o *model.Outcome) error
}

type Machine struct {
	reels    *reel.Model
	table    *paytable.Evaluator
	tiers    []model.JackpotTier
	bets     []decimal.Decimal
	rnd      rng.Source
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Machine)

func WithNotifier(n Notifier) Option {
	return func(m *Machine) {
		m.notifier = n
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		m.log = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// New собирает барабаны и таблицу выплат из конфигурации, ошибки конфигурации возвращаются сразу
func New(cfg config.SlotConfig, rnd rng.Source, opts ...Option) (*Machine, error) {
	reels, err := reel.New(reel.Config{
		Population: cfg.Symbols(),
		Mode:       reel.Mode(cfg.ReelMode()),
	}, rnd)
	if err != nil {
		return nil, fmt.Errorf("reels: %w", err)
	}

	table, err := paytable.New(paytable.Config{
		Symbols:            cfg.Symbols(),
		Scatter:            cfg.Scatter(),
		Paylines:           cfg.Paylines(),
		FreeSpins:          cfg.FreeSpinsByScatter(),
		RTPMultiplier:      cfg.RTPMultiplier(),
		FreeSpinMultiplier: cfg.FreeSpinMultiplier(),
		MaxWinMultiplier:   cfg.MaxWinMultiplier(),
		Jackpots:           cfg.Jackpots(),
	})
	if err != nil {
		return nil, fmt.Errorf("paytable: %w", err)
	}

	if len(cfg.BetOptions()) == 0 {
		return nil, fmt.Errorf("%w: no bet options configured", ErrInvalidBet)
	}

	m := &Machine{
		reels: reels,
		table: table,
		tiers: cfg.Jackpots(),
		bets:  cfg.BetOptions(),
		rnd:   rnd,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	// лестница проверяется при старте, а не на первом спине
	if _, err := m.NewLadder(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewLadder лестница джекпотов на минимальных значениях
func (m *Machine) NewLadder() (*jackpot.Ladder, error) {
	return jackpot.New(m.tiers, m.rnd)
}

func (m *Machine) BetOptions() []decimal.Decimal {
	out := make([]decimal.Decimal, len(m.bets))
	copy(out, m.bets)
	return out
}

func (m *Machine) validBet(bet decimal.Decimal) bool {
	for _, b := range m.bets {
		if b.Equal(bet) {
			return true
		}
	}
	return false
}

// Resolve разыгрывает один спин и меняет player и ladder.
// Во время серии фриспинов bet игнорируется: играет ставка, запустившая серию
func (m *Machine) Resolve(ctx context.Context, p *Player, ladder *jackpot.Ladder, bet decimal.Decimal) (*model.Outcome, error) {
	if p == nil || ladder == nil {
		return nil, ErrNilPlayer
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.FreeSpins == nil {
		p.FreeSpins = freespin.New()
	}

	free := p.FreeSpins.Active()
	stake := bet
	if free {
		stake = p.FreeSpins.Bet()
	} else {
		if !m.validBet(bet) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidBet, bet)
		}
		if bet.GreaterThan(p.Balance) {
			return nil, fmt.Errorf("%w: bet %s, balance %s", ErrInsufficientCredits, bet, p.Balance)
		}
		p.Balance = p.Balance.Sub(bet)
		ladder.Contribute(bet)
	}

	grid, stops := m.reels.DrawWithStops()
	ev := m.table.Evaluate(grid, stake, free)

	out := &model.Outcome{
		SpinID:           uuid.NewString(),
		Grid:             grid,
		Stops:            stops,
		Bet:              stake,
		FreeSpin:         free,
		LineWins:         ev.LineWins,
		LineWin:          ev.LineTotal,
		ScatterCount:     ev.ScatterCount,
		ScatterCells:     ev.ScatterCells,
		FreeSpinsAwarded: ev.FreeSpinsAwarded,
		TotalWin:         ev.LineTotal,
		CreatedAt:        m.now(),
	}

	if tier, ok := ladder.TryAward(ev.ComboJackpot, stake); ok {
		amount, err := ladder.Award(tier)
		if err != nil {
			return nil, err
		}
		out.Jackpot = &model.JackpotWin{Tier: tier, Amount: amount}
		out.TotalWin = out.TotalWin.Add(amount)
	}
	p.Balance = p.Balance.Add(out.TotalWin)

	// повторный триггер добавляет спины до списания текущего
	if ev.FreeSpinsAwarded > 0 {
		if err := p.FreeSpins.Trigger(ev.FreeSpinsAwarded, stake); err != nil {
			return nil, err
		}
	}
	if free {
		summary, err := p.FreeSpins.Resolve(out.TotalWin)
		if err != nil {
			return nil, err
		}
		out.SessionSummary = summary
	}

	out.FreeSpinsLeft = p.FreeSpins.Remaining()
	out.SessionTotal = p.FreeSpins.Total()
	if out.SessionSummary != nil {
		out.SessionTotal = out.SessionSummary.TotalWin
	}
	out.Pools = ladder.Snapshot()
	out.Balance = p.Balance
	return out, nil
}

// Spin Resolve и публикация события. Ошибка публикации не отменяет спин
func (m *Machine) Spin(ctx context.Context, p *Player, ladder *jackpot.Ladder, bet decimal.Decimal) (*model.Outcome, error) {
	out, err := m.Resolve(ctx, p, ladder, bet)
	if err != nil {
		return nil, err
	}
	m.Publish(ctx, out)
	return out, nil
}

// Publish отправляет событие получателю, если он задан
func (m *Machine) Publish(ctx context.Context, out *model.Outcome) {
	if m.notifier == nil || out == nil {
		return
	}
	if err := m.notifier.Publish(ctx, out); err != nil {
		m.log.Warn("publish outcome failed", zap.String("spin_id", out.SpinID), zap.Error(err))
	}
}
