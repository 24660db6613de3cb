package config

import (
	"time"

	"haunted_slot/internal/model"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// SlotConfig математика автомата: символы, линии, фриспины, джекпоты
type SlotConfig interface {
	Volatility() string
	RTPMode() string
	ReelMode() string
	Symbols() []model.Symbol
	Scatter() string
	Paylines() []model.Payline
	FreeSpinsByScatter() map[int]int
	RTPMultiplier() decimal.Decimal
	FreeSpinMultiplier() decimal.Decimal
	MaxWinMultiplier() int64
	Jackpots() []model.JackpotTier
	BetOptions() []decimal.Decimal
	StartBalance() decimal.Decimal
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

type LogConfig interface {
	Mode() string
	Level() string
	App() string
	Dir() string
	File() bool
}

// RedisConfig пустой адрес отключает публикацию событий в Redis
type RedisConfig interface {
	Addr() string
	Password() string
	DB() int
	Channel() string
}

// StatsConfig контроль RTP по скользящему окну спинов
type StatsConfig interface {
	TargetRTP() float64
	WindowSize() int
}
