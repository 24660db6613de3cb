// Package jackpot лестница из четырех прогрессивных джекпотов.
// Лестница не потокобезопасна: владелец передает ее в каждый спин явно.
package jackpot

import (
	"errors"
	"fmt"

	"haunted_slot/internal/engine/rng"
	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// probabilityCap практический потолок вероятности на один спин
	probabilityCap = 0.25
	// при ставке referenceStake действует базовая вероятность
	referenceStake = 10.0
	minScale       = 0.1
	maxScale       = 5.0
)

var (
	ErrUnknownTier = errors.New("jackpot: unknown tier")
	ErrMissingTier = errors.New("jackpot: tier not configured")
	ErrDuplicate   = errors.New("jackpot: tier configured twice")
	ErrBadPool     = errors.New("jackpot: invalid pool settings")
)

type pool struct {
	cfg     model.JackpotTier
	current decimal.Decimal
}

type Ladder struct {
	pools map[model.Tier]*pool
	rnd   rng.Source
}

// New требует настройку для каждого из четырех уровней
func New(tiers []model.JackpotTier, rnd rng.Source) (*Ladder, error) {
	l := &Ladder{
		pools: make(map[model.Tier]*pool, len(model.TierPriority)),
		rnd:   rnd,
	}
	for _, t := range tiers {
		if _, err := model.ParseTier(string(t.Tier)); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTier, t.Tier)
		}
		if _, ok := l.pools[t.Tier]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, t.Tier)
		}
		if t.Floor.IsNegative() || t.ContributionRate.IsNegative() || t.Probability < 0 || t.Probability > 1 {
			return nil, fmt.Errorf("%w: %s", ErrBadPool, t.Tier)
		}
		l.pools[t.Tier] = &pool{cfg: t, current: t.Floor}
	}
	for _, t := range model.TierPriority {
		if _, ok := l.pools[t]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingTier, t)
		}
	}
	return l, nil
}

// Contribute каждый пул растет на долю ставки
func (l *Ladder) Contribute(stake decimal.Decimal) {
	if !stake.IsPositive() {
		return
	}
	for _, p := range l.pools {
		inc := stake.Mul(p.cfg.ContributionRate).Round(2)
		p.current = p.current.Add(inc)
	}
}

// TryAward проверяет уровни от Grand к Mini, срабатывает не больше одного.
// Уровень срабатывает по комбинации на поле (combo из оценки поля, пустой если ее нет)
// или по случайному броску, вероятность которого масштабируется ставкой
func (l *Ladder) TryAward(combo model.Tier, stake decimal.Decimal) (model.Tier, bool) {
	scale := stake.InexactFloat64() / referenceStake
	scale = max(minScale, min(maxScale, scale))

	for _, tier := range model.TierPriority {
		if tier == combo {
			return tier, true
		}
		p := l.pools[tier]
		if p.cfg.Probability <= 0 {
			continue
		}
		prob := min(p.cfg.Probability*scale, probabilityCap)
		if l.rnd.Float64() < prob {
			return tier, true
		}
	}
	return "", false
}

// Award выплачивает текущее значение пула и сбрасывает его до минимума
func (l *Ladder) Award(tier model.Tier) (decimal.Decimal, error) {
	p, ok := l.pools[tier]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	amount := p.current
	p.current = p.cfg.Floor
	return amount, nil
}

// Value текущее значение пула
func (l *Ladder) Value(tier model.Tier) decimal.Decimal {
	p, ok := l.pools[tier]
	if !ok {
		return decimal.Zero
	}
	return p.current
}

// Floor минимальное значение пула
func (l *Ladder) Floor(tier model.Tier) decimal.Decimal {
	p, ok := l.pools[tier]
	if !ok {
		return decimal.Zero
	}
	return p.cfg.Floor
}

func (l *Ladder) Snapshot() model.PoolSnapshot {
	out := make(model.PoolSnapshot, len(l.pools))
	for tier, p := range l.pools {
		out[tier] = p.current
	}
	return out
}

// Restore выставляет сохраненные значения. Отсутствующие уровни остаются на минимуме,
// значения ниже минимума (минимум подняли в конфиге) поднимаются до него
func (l *Ladder) Restore(values model.PoolSnapshot) error {
	for tier := range values {
		if _, ok := l.pools[tier]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTier, tier)
		}
	}
	for tier, v := range values {
		p := l.pools[tier]
		p.current = decimal.Max(v, p.cfg.Floor)
	}
	return nil
}
