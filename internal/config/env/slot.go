package env

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"haunted_slot/internal/config"
	"haunted_slot/internal/engine/paytable"
	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	slotConfigEnvName     = "SLOT_CONFIG"
	slotVolatilityEnvName = "SLOT_VOLATILITY"
	slotRTPModeEnvName    = "SLOT_RTP_MODE"

	defaultSlotConfigPath = "configs/slot.yaml"
)

type rawSymbol struct {
	Name    string          `yaml:"name"`
	Scatter bool            `yaml:"scatter"`
	Pays    map[int]float64 `yaml:"pays"`
}

type rawCombo struct {
	Symbol string `yaml:"symbol"`
	Count  int    `yaml:"count"`
}

type rawJackpot struct {
	Tier             string    `yaml:"tier"`
	Floor            float64   `yaml:"floor"`
	ContributionRate float64   `yaml:"contribution_rate"`
	Probability      float64   `yaml:"probability"`
	Combo            *rawCombo `yaml:"combo"`
}

type rawSlotConfig struct {
	ReelMode           string                    `yaml:"reel_mode"`
	Volatility         string                    `yaml:"volatility"`
	RTPMode            string                    `yaml:"rtp_mode"`
	Scatter            string                    `yaml:"scatter"`
	FreeSpinMultiplier float64                   `yaml:"free_spin_multiplier"`
	MaxWinMultiplier   int64                     `yaml:"max_win_multiplier"`
	StartBalance       float64                   `yaml:"start_balance"`
	BetOptions         []float64                 `yaml:"bet_options"`
	FreeSpins          map[int]int               `yaml:"free_spins"`
	RTPModes           map[string]float64        `yaml:"rtp_modes"`
	Symbols            []rawSymbol               `yaml:"symbols"`
	Profiles           map[string]map[string]int `yaml:"volatility_profiles"`
	Paylines           [][]int                   `yaml:"paylines"`
	Jackpots           []rawJackpot              `yaml:"jackpots"`
}

type slotConfig struct {
	volatility   string
	rtpMode      string
	reelMode     string
	symbols      []model.Symbol
	scatter      string
	paylines     []model.Payline
	freeSpins    map[int]int
	rtpMult      decimal.Decimal
	fsMult       decimal.Decimal
	maxWin       int64
	jackpots     []model.JackpotTier
	betOptions   []decimal.Decimal
	startBalance decimal.Decimal
}

// NewSlotConfigFromYAML читает математику автомата из файла SLOT_CONFIG (или path).
// SLOT_VOLATILITY и SLOT_RTP_MODE переопределяют профиль и режим RTP из файла
func NewSlotConfigFromYAML(path string) (config.SlotConfig, error) {
	if p := os.Getenv(slotConfigEnvName); p != "" {
		path = p
	}
	if path == "" {
		path = defaultSlotConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slot config: %w", err)
	}
	return ParseSlotConfig(data, os.Getenv(slotVolatilityEnvName), os.Getenv(slotRTPModeEnvName))
}

// ParseSlotConfig разбирает YAML. Пустые volatility/rtpMode берутся из файла
func ParseSlotConfig(data []byte, volatility, rtpMode string) (config.SlotConfig, error) {
	var raw rawSlotConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse slot config: %w", err)
	}
	if volatility != "" {
		raw.Volatility = volatility
	}
	if rtpMode != "" {
		raw.RTPMode = rtpMode
	}
	raw.Volatility = strings.ToLower(raw.Volatility)
	raw.RTPMode = strings.ToLower(raw.RTPMode)
	if raw.ReelMode == "" {
		raw.ReelMode = "strip"
	}

	if err := validateSlot(raw); err != nil {
		return nil, err
	}

	profile := raw.Profiles[raw.Volatility]
	cfg := &slotConfig{
		volatility:   raw.Volatility,
		rtpMode:      raw.RTPMode,
		reelMode:     raw.ReelMode,
		scatter:      raw.Scatter,
		freeSpins:    raw.FreeSpins,
		rtpMult:      decimal.NewFromFloat(raw.RTPModes[raw.RTPMode]),
		fsMult:       decimal.NewFromFloat(raw.FreeSpinMultiplier),
		maxWin:       raw.MaxWinMultiplier,
		startBalance: decimal.NewFromFloat(raw.StartBalance),
	}
	if raw.FreeSpinMultiplier == 0 {
		cfg.fsMult = decimal.NewFromInt(1)
	}

	for _, s := range raw.Symbols {
		sym := model.Symbol{
			Name:    s.Name,
			Weight:  profile[s.Name],
			Scatter: s.Scatter,
			Pays:    make(map[int]decimal.Decimal, len(s.Pays)),
		}
		for n, v := range s.Pays {
			sym.Pays[n] = decimal.NewFromFloat(v)
		}
		cfg.symbols = append(cfg.symbols, sym)
	}

	if len(raw.Paylines) == 0 {
		cfg.paylines = append(cfg.paylines, paytable.ClassicPaylines...)
	}
	for _, line := range raw.Paylines {
		var pl model.Payline
		copy(pl[:], line)
		cfg.paylines = append(cfg.paylines, pl)
	}

	for _, b := range raw.BetOptions {
		cfg.betOptions = append(cfg.betOptions, decimal.NewFromFloat(b))
	}
	sort.Slice(cfg.betOptions, func(i, j int) bool {
		return cfg.betOptions[i].LessThan(cfg.betOptions[j])
	})

	for _, j := range raw.Jackpots {
		tier := model.JackpotTier{
			Tier:             model.Tier(j.Tier),
			Floor:            decimal.NewFromFloat(j.Floor),
			ContributionRate: decimal.NewFromFloat(j.ContributionRate),
			Probability:      j.Probability,
		}
		if j.Combo != nil {
			tier.ComboSymbol = j.Combo.Symbol
			tier.ComboCount = j.Combo.Count
		}
		cfg.jackpots = append(cfg.jackpots, tier)
	}

	return cfg, nil
}

func validateSlot(raw rawSlotConfig) error {
	var errs []string

	switch raw.ReelMode {
	case "strip", "weighted":
	default:
		errs = append(errs, fmt.Sprintf("reel_mode must be one of: strip, weighted (got %q)", raw.ReelMode))
	}

	if len(raw.Symbols) == 0 {
		errs = append(errs, "symbols must not be empty")
	}
	names := make(map[string]bool, len(raw.Symbols))
	for i, s := range raw.Symbols {
		if s.Name == "" {
			errs = append(errs, fmt.Sprintf("symbols[%d].name is required", i))
			continue
		}
		if names[s.Name] {
			errs = append(errs, fmt.Sprintf("symbol %q declared twice", s.Name))
		}
		names[s.Name] = true
		if s.Scatter && s.Name != raw.Scatter {
			errs = append(errs, fmt.Sprintf("symbol %q marked scatter but scatter is %q", s.Name, raw.Scatter))
		}
	}
	if !names[raw.Scatter] {
		errs = append(errs, fmt.Sprintf("scatter %q is not a declared symbol", raw.Scatter))
	}

	profile, ok := raw.Profiles[raw.Volatility]
	if !ok {
		errs = append(errs, fmt.Sprintf("volatility profile %q not found", raw.Volatility))
	}
	for name, w := range profile {
		if !names[name] {
			errs = append(errs, fmt.Sprintf("volatility_profiles.%s: unknown symbol %q", raw.Volatility, name))
		}
		if w < 0 {
			errs = append(errs, fmt.Sprintf("volatility_profiles.%s.%s must be >= 0", raw.Volatility, name))
		}
	}

	if m, ok := raw.RTPModes[raw.RTPMode]; !ok {
		errs = append(errs, fmt.Sprintf("rtp mode %q not found", raw.RTPMode))
	} else if m <= 0 {
		errs = append(errs, fmt.Sprintf("rtp_modes.%s must be > 0", raw.RTPMode))
	}

	if raw.FreeSpinMultiplier < 0 {
		errs = append(errs, "free_spin_multiplier must be >= 0")
	}
	if raw.StartBalance < 0 {
		errs = append(errs, "start_balance must be >= 0")
	}

	if len(raw.BetOptions) == 0 {
		errs = append(errs, "bet_options must not be empty")
	}
	for i, b := range raw.BetOptions {
		if b <= 0 {
			errs = append(errs, fmt.Sprintf("bet_options[%d] must be > 0", i))
		}
	}

	for i, line := range raw.Paylines {
		if len(line) != model.Reels {
			errs = append(errs, fmt.Sprintf("paylines[%d] must have %d rows", i, model.Reels))
		}
	}

	for i, j := range raw.Jackpots {
		if _, err := model.ParseTier(j.Tier); err != nil {
			errs = append(errs, fmt.Sprintf("jackpots[%d]: %v", i, err))
		}
		if j.Combo != nil && !names[j.Combo.Symbol] {
			errs = append(errs, fmt.Sprintf("jackpots[%d].combo: unknown symbol %q", i, j.Combo.Symbol))
		}
	}

	if len(errs) > 0 {
		return errors.New("invalid slot config: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *slotConfig) Volatility() string { return c.volatility }

func (c *slotConfig) RTPMode() string { return c.rtpMode }

func (c *slotConfig) ReelMode() string { return c.reelMode }

func (c *slotConfig) Symbols() []model.Symbol { return c.symbols }

func (c *slotConfig) Scatter() string { return c.scatter }

func (c *slotConfig) Paylines() []model.Payline { return c.paylines }

func (c *slotConfig) FreeSpinsByScatter() map[int]int { return c.freeSpins }

func (c *slotConfig) RTPMultiplier() decimal.Decimal { return c.rtpMult }

func (c *slotConfig) FreeSpinMultiplier() decimal.Decimal { return c.fsMult }

func (c *slotConfig) MaxWinMultiplier() int64 { return c.maxWin }

func (c *slotConfig) Jackpots() []model.JackpotTier { return c.jackpots }

func (c *slotConfig) BetOptions() []decimal.Decimal { return c.betOptions }

func (c *slotConfig) StartBalance() decimal.Decimal { return c.startBalance }
