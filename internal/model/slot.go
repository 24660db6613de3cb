package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Symbol символ барабана. Pays: длина серии -> множитель ставки
type Symbol struct {
	Name    string
	Weight  int
	Scatter bool
	Pays    map[int]decimal.Decimal
}

// Tier уровень прогрессивного джекпота
type Tier string

const (
	TierMini    Tier = "mini"
	TierMinor   Tier = "minor"
	TierJackpot Tier = "jackpot"
	TierGrand   Tier = "grand"
)

// TierPriority порядок проверки джекпотов, от старшего к младшему
var TierPriority = []Tier{TierGrand, TierJackpot, TierMinor, TierMini}

// ParseTier разбирает название уровня
func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierMini, TierMinor, TierJackpot, TierGrand:
		return t, nil
	}
	return "", fmt.Errorf("unknown jackpot tier %q", s)
}

// JackpotTier настройки одного пула джекпота
type JackpotTier struct {
	Tier             Tier
	Floor            decimal.Decimal
	ContributionRate decimal.Decimal
	// Базовая вероятность срабатывания при ставке 10
	Probability float64
	// Комбинация: символ ComboSymbol встречается на поле не меньше ComboCount раз
	ComboSymbol string
	ComboCount  int
}

// PoolSnapshot текущие значения пулов
type PoolSnapshot map[Tier]decimal.Decimal

// LineWin выигрыш по одной линии
type LineWin struct {
	Line   int
	Symbol string
	Count  int
	Path   []Position
	Win    decimal.Decimal
}

// JackpotWin выигранный джекпот
type JackpotWin struct {
	Tier   Tier
	Amount decimal.Decimal
}

// Evaluation результат оценки поля по таблице выплат
type Evaluation struct {
	LineWins         []LineWin
	LineTotal        decimal.Decimal
	ScatterCells     []Position
	ScatterCount     int
	FreeSpinsAwarded int
	// Джекпот по комбинации символов, пустая строка если нет
	ComboJackpot Tier
}

// FreeSpinSummary итог завершенной серии фриспинов
type FreeSpinSummary struct {
	SpinsPlayed int
	TotalWin    decimal.Decimal
	Bet         decimal.Decimal
}

// SlotState сохраняемое состояние серии фриспинов игрока
type SlotState struct {
	FreeSpinsLeft   int
	FreeSpinsPlayed int
	SessionTotal    decimal.Decimal
	SessionBet      decimal.Decimal
}

// Outcome событие одного спина, отдается слою отображения
type Outcome struct {
	SpinID   string
	Grid     Grid
	Stops    [Reels]int
	Bet      decimal.Decimal
	FreeSpin bool

	LineWins     []LineWin
	LineWin      decimal.Decimal
	ScatterCount int
	ScatterCells []Position

	FreeSpinsAwarded int
	FreeSpinsLeft    int
	SessionTotal     decimal.Decimal
	SessionSummary   *FreeSpinSummary

	Jackpot *JackpotWin
	Pools   PoolSnapshot

	TotalWin  decimal.Decimal
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// SlotSpin запрос на спин
type SlotSpin struct {
	Bet decimal.Decimal
}

// Data баланс, фриспины и джекпоты игрока
type Data struct {
	Balance       decimal.Decimal
	FreeSpinCount int
	SessionTotal  decimal.Decimal
	Pools         PoolSnapshot
}

// Stats статистика выплат сервера
type Stats struct {
	TotalSpins  int
	TotalBet    float64
	TotalPayout float64
	CurrentRTP  float64
	WindowRTP   float64
	WindowSize  int
}
