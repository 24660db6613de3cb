// Package sim прогон автомата методом Монте-Карло для оценки RTP и частот.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"haunted_slot/internal/config"
	"haunted_slot/internal/engine"
	"haunted_slot/internal/engine/rng"
	"haunted_slot/internal/model"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrBadOptions = errors.New("sim: invalid options")

type Options struct {
	Spins   int
	Workers int
	Bet     decimal.Decimal
	// Seed 0 - случайное зерно для каждого воркера
	Seed uint64
}

type Report struct {
	Spins      int
	PaidSpins  int
	FreeSpins  int
	WinSpins   int
	TotalBet   decimal.Decimal
	TotalWin   decimal.Decimal
	LineWin    decimal.Decimal
	JackpotWin decimal.Decimal
	MaxWin     decimal.Decimal

	Triggers    int
	Sessions    int
	JackpotHits map[model.Tier]int
	Symbols     map[string]int
	Elapsed     time.Duration
}

// RTP выигрыш к сумме ставок
func (r *Report) RTP() float64 {
	if r.TotalBet.IsZero() {
		return 0
	}
	return r.TotalWin.Div(r.TotalBet).InexactFloat64()
}

// HitRate доля спинов с выигрышем
func (r *Report) HitRate() float64 {
	if r.Spins == 0 {
		return 0
	}
	return float64(r.WinSpins) / float64(r.Spins)
}

func newReport() *Report {
	return &Report{
		JackpotHits: make(map[model.Tier]int),
		Symbols:     make(map[string]int),
	}
}

func (r *Report) add(o *model.Outcome) {
	r.Spins++
	if o.FreeSpin {
		r.FreeSpins++
	} else {
		r.PaidSpins++
		r.TotalBet = r.TotalBet.Add(o.Bet)
	}
	if o.TotalWin.IsPositive() {
		r.WinSpins++
	}
	r.TotalWin = r.TotalWin.Add(o.TotalWin)
	r.LineWin = r.LineWin.Add(o.LineWin)
	if o.TotalWin.GreaterThan(r.MaxWin) {
		r.MaxWin = o.TotalWin
	}
	if o.FreeSpinsAwarded > 0 {
		r.Triggers++
	}
	if o.SessionSummary != nil {
		r.Sessions++
	}
	if o.Jackpot != nil {
		r.JackpotHits[o.Jackpot.Tier]++
		r.JackpotWin = r.JackpotWin.Add(o.Jackpot.Amount)
	}
	for _, s := range o.Grid.Cells() {
		r.Symbols[s]++
	}
}

func (r *Report) merge(o *Report) {
	r.Spins += o.Spins
	r.PaidSpins += o.PaidSpins
	r.FreeSpins += o.FreeSpins
	r.WinSpins += o.WinSpins
	r.TotalBet = r.TotalBet.Add(o.TotalBet)
	r.TotalWin = r.TotalWin.Add(o.TotalWin)
	r.LineWin = r.LineWin.Add(o.LineWin)
	r.JackpotWin = r.JackpotWin.Add(o.JackpotWin)
	if o.MaxWin.GreaterThan(r.MaxWin) {
		r.MaxWin = o.MaxWin
	}
	r.Triggers += o.Triggers
	r.Sessions += o.Sessions
	for k, v := range o.JackpotHits {
		r.JackpotHits[k] += v
	}
	for k, v := range o.Symbols {
		r.Symbols[k] += v
	}
}

// Run делит спины между воркерами пула ants. У каждого воркера свои автомат, игрок и лестница
func Run(ctx context.Context, cfg config.SlotConfig, opts Options, log *zap.Logger) (*Report, error) {
	if opts.Spins <= 0 || !opts.Bet.IsPositive() {
		return nil, fmt.Errorf("%w: spins=%d bet=%s", ErrBadOptions, opts.Spins, opts.Bet)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Workers > opts.Spins {
		opts.Workers = opts.Spins
	}
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	defer pool.Release()

	start := time.Now()
	total := newReport()
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	per := opts.Spins / opts.Workers
	for w := 0; w < opts.Workers; w++ {
		n := per
		if w < opts.Spins%opts.Workers {
			n++
		}
		worker := w
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			rep, err := runWorker(ctx, cfg, opts, worker, n)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			total.merge(rep)
		}); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit worker %d: %w", worker, err)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	total.Elapsed = time.Since(start)
	log.Info("simulation finished",
		zap.Int("spins", total.Spins),
		zap.Int("workers", opts.Workers),
		zap.Float64("rtp", total.RTP()),
		zap.Duration("elapsed", total.Elapsed),
	)
	return total, nil
}

func runWorker(ctx context.Context, cfg config.SlotConfig, opts Options, worker, spins int) (*Report, error) {
	var (
		src rng.Source
		err error
	)
	if opts.Seed == 0 {
		src, err = rng.NewRandom()
		if err != nil {
			return nil, err
		}
	} else {
		src = rng.NewSeeded(opts.Seed + uint64(worker))
	}

	m, err := engine.New(cfg, src)
	if err != nil {
		return nil, err
	}
	ladder, err := m.NewLadder()
	if err != nil {
		return nil, err
	}
	// баланса хватает на все платные спины воркера
	p := engine.NewPlayer(opts.Bet.Mul(decimal.NewFromInt(int64(spins))))

	rep := newReport()
	for i := 0; i < spins; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := m.Resolve(ctx, p, ladder, opts.Bet)
		if err != nil {
			return nil, fmt.Errorf("worker %d spin %d: %w", worker, i, err)
		}
		rep.add(out)
	}
	return rep, nil
}
