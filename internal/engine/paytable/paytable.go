// Package paytable оценка поля: выплаты по линиям, скаттеры и фриспины,
// джекпоты по комбинациям символов. Evaluate - чистая функция от поля и конфигурации.
package paytable

import (
	"errors"
	"fmt"
	"sort"

	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// minScatter минимальное количество скаттеров для фриспинов
	minScatter = 3
	// minRun минимальная выигрышная серия на линии
	minRun = 3
)

var (
	ErrNoPaylines     = errors.New("paytable: no paylines configured")
	ErrBadPayline     = errors.New("paytable: payline row out of range")
	ErrUnknownSymbol  = errors.New("paytable: unknown symbol")
	ErrNoScatter      = errors.New("paytable: scatter symbol not configured")
	ErrFreeSpinsTable = errors.New("paytable: invalid free spins table")
	ErrBadMultiplier  = errors.New("paytable: multiplier must be positive")
)

type Config struct {
	Symbols  []model.Symbol
	Scatter  string
	Paylines []model.Payline
	// количество скаттеров -> количество фриспинов
	FreeSpins          map[int]int
	RTPMultiplier      decimal.Decimal
	FreeSpinMultiplier decimal.Decimal
	// Ограничение суммарной выплаты по линиям в кратности ставки, 0 - без ограничения
	MaxWinMultiplier int64
	Jackpots         []model.JackpotTier
}

type Evaluator struct {
	pays       map[string]map[int]decimal.Decimal
	scatter    string
	paylines   []model.Payline
	freeSpins  map[int]int
	thresholds []int
	rtpMult    decimal.Decimal
	fsMult     decimal.Decimal
	maxWin     int64
	combos     []model.JackpotTier
}

// New проверяет таблицу выплат и строит оценщик
func New(cfg Config) (*Evaluator, error) {
	e := &Evaluator{
		pays:      make(map[string]map[int]decimal.Decimal, len(cfg.Symbols)),
		scatter:   cfg.Scatter,
		paylines:  cfg.Paylines,
		freeSpins: make(map[int]int, len(cfg.FreeSpins)),
		rtpMult:   cfg.RTPMultiplier,
		fsMult:    cfg.FreeSpinMultiplier,
		maxWin:    cfg.MaxWinMultiplier,
	}

	if e.rtpMult.IsZero() {
		e.rtpMult = decimal.NewFromInt(1)
	}
	if e.fsMult.IsZero() {
		e.fsMult = decimal.NewFromInt(1)
	}
	if !e.rtpMult.IsPositive() || !e.fsMult.IsPositive() || e.maxWin < 0 {
		return nil, ErrBadMultiplier
	}

	scatterKnown := false
	for _, s := range cfg.Symbols {
		if s.Name == cfg.Scatter {
			scatterKnown = true
			continue
		}
		pays := make(map[int]decimal.Decimal, len(s.Pays))
		for n, v := range s.Pays {
			if n < 1 || n > model.Reels {
				return nil, fmt.Errorf("paytable: %s pays for %d of a kind", s.Name, n)
			}
			if v.IsNegative() {
				return nil, fmt.Errorf("paytable: %s negative pay for %d", s.Name, n)
			}
			pays[n] = v
		}
		e.pays[s.Name] = pays
	}
	if cfg.Scatter == "" || !scatterKnown {
		return nil, ErrNoScatter
	}

	if len(cfg.Paylines) == 0 {
		return nil, ErrNoPaylines
	}
	for i, line := range cfg.Paylines {
		for _, row := range line {
			if row < 0 || row >= model.Rows {
				return nil, fmt.Errorf("%w: line %d", ErrBadPayline, i)
			}
		}
	}

	// Таблица фриспинов должна явно покрывать порог в 3 скаттера
	if len(cfg.FreeSpins) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrFreeSpinsTable)
	}
	for n, spins := range cfg.FreeSpins {
		if n < minScatter || spins <= 0 {
			return nil, fmt.Errorf("%w: %d scatters -> %d spins", ErrFreeSpinsTable, n, spins)
		}
		e.freeSpins[n] = spins
		e.thresholds = append(e.thresholds, n)
	}
	sort.Ints(e.thresholds)
	if e.thresholds[0] != minScatter {
		return nil, fmt.Errorf("%w: no entry for %d scatters", ErrFreeSpinsTable, minScatter)
	}

	for _, j := range cfg.Jackpots {
		if j.ComboSymbol == "" {
			continue
		}
		if _, ok := e.pays[j.ComboSymbol]; !ok && j.ComboSymbol != cfg.Scatter {
			return nil, fmt.Errorf("%w: jackpot combo %q", ErrUnknownSymbol, j.ComboSymbol)
		}
		if j.ComboCount <= 0 || j.ComboCount > model.Rows*model.Reels {
			return nil, fmt.Errorf("paytable: %s combo count %d out of range", j.Tier, j.ComboCount)
		}
		e.combos = append(e.combos, j)
	}

	return e, nil
}

// Evaluate оценивает поле при данной ставке
func (e *Evaluator) Evaluate(grid model.Grid, bet decimal.Decimal, freeSpin bool) model.Evaluation {
	var ev model.Evaluation

	ev.LineWins, ev.LineTotal = e.evaluateLines(grid, bet, freeSpin)

	ev.ScatterCells = grid.Positions(e.scatter)
	ev.ScatterCount = len(ev.ScatterCells)
	ev.FreeSpinsAwarded = e.FreeSpinsFor(ev.ScatterCount)

	if tier, ok := e.ComboJackpot(grid); ok {
		ev.ComboJackpot = tier
	}
	return ev
}

// evaluateLines линии читаются слева направо, серия одинаковых символов от первого барабана
func (e *Evaluator) evaluateLines(grid model.Grid, bet decimal.Decimal, freeSpin bool) ([]model.LineWin, decimal.Decimal) {
	var wins []model.LineWin
	total := decimal.Zero

	mult := e.rtpMult
	if freeSpin {
		mult = mult.Mul(e.fsMult)
	}

	for i, line := range e.paylines {
		symbols := grid.Line(line)
		first := symbols[0]
		// скаттер по линиям не платит
		if first == e.scatter {
			continue
		}
		run := 1
		for run < model.Reels && symbols[run] == first {
			run++
		}
		if run < minRun {
			continue
		}
		pay, ok := e.pays[first][run]
		if !ok || pay.IsZero() {
			continue
		}

		win := bet.Mul(pay).Mul(mult).Round(2)
		if !win.IsPositive() {
			continue
		}
		path := make([]model.Position, run)
		for c := 0; c < run; c++ {
			path[c] = model.Position{Row: line[c], Reel: c}
		}
		wins = append(wins, model.LineWin{
			Line:   i,
			Symbol: first,
			Count:  run,
			Path:   path,
			Win:    win,
		})
		total = total.Add(win)
	}

	capped := e.applyMaxWin(total, bet)
	if capped.LessThan(total) {
		scaleWins(wins, capped, total)
	}
	return wins, capped
}

// scaleWins ужимает выплаты линий пропорционально потолку,
// остаток от округления уходит на последнюю линию, сумма равна capped
func scaleWins(wins []model.LineWin, capped, total decimal.Decimal) {
	rest := capped
	for i := range wins {
		if i == len(wins)-1 {
			wins[i].Win = rest
			break
		}
		w := wins[i].Win.Mul(capped).Div(total).Truncate(2)
		wins[i].Win = w
		rest = rest.Sub(w)
	}
}

// applyMaxWin лимит по максимальному выигрышу
func (e *Evaluator) applyMaxWin(amount, bet decimal.Decimal) decimal.Decimal {
	if e.maxWin == 0 {
		return amount
	}
	maxPay := bet.Mul(decimal.NewFromInt(e.maxWin))
	if amount.GreaterThan(maxPay) {
		return maxPay
	}
	return amount
}

// FreeSpinsFor количество фриспинов за скаттеры. Меньше порога - 0,
// больше максимального ключа таблицы - значение максимального ключа
func (e *Evaluator) FreeSpinsFor(scatters int) int {
	if scatters < minScatter {
		return 0
	}
	award := 0
	for _, n := range e.thresholds {
		if n > scatters {
			break
		}
		award = e.freeSpins[n]
	}
	return award
}

// ComboJackpot старший уровень, чья комбинация есть на поле
func (e *Evaluator) ComboJackpot(grid model.Grid) (model.Tier, bool) {
	return MatchCombo(e.combos, grid)
}

// Scatter символ-скаттер
func (e *Evaluator) Scatter() string {
	return e.scatter
}

// MatchCombo проверяет комбинации в порядке Grand > Jackpot > Minor > Mini
func MatchCombo(tiers []model.JackpotTier, grid model.Grid) (model.Tier, bool) {
	for _, want := range model.TierPriority {
		for _, t := range tiers {
			if t.Tier != want || t.ComboSymbol == "" || t.ComboCount <= 0 {
				continue
			}
			if grid.Count(t.ComboSymbol) >= t.ComboCount {
				return t.Tier, true
			}
		}
	}
	return "", false
}

// ClassicPaylines десять классических линий 5x3
var ClassicPaylines = []model.Payline{
	{1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0},
	{2, 2, 2, 2, 2},
	{0, 1, 2, 1, 0},
	{2, 1, 0, 1, 2},
	{0, 0, 1, 2, 2},
	{2, 2, 1, 0, 0},
	{0, 1, 1, 1, 2},
	{2, 1, 1, 1, 0},
	{1, 0, 1, 2, 1},
}
