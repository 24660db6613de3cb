package slot

import "github.com/shopspring/decimal"

type SpinRequest struct {
	Bet decimal.Decimal `json:"bet"` // Ставка из списка bet_options
}

type SpinResponse struct {
	SpinID           string                     `json:"spin_id"`
	Board            [3][5]string               `json:"board"`              // Поле, board[row][reel]
	Stops            [5]int                     `json:"stops"`              // Остановки барабанов, -1 в режиме weighted
	Bet              decimal.Decimal            `json:"bet"`                // Ставка спина, для фриспина ставка серии
	FreeSpin         bool                       `json:"free_spin"`          // Спин был бесплатным
	LineWins         []LineWin                  `json:"line_wins"`          // Выигрышные линии
	LineWin          decimal.Decimal            `json:"line_win"`           // Сумма по линиям
	ScatterCount     int                        `json:"scatter_count"`      // Кол-во скаттеров
	ScatterCells     []Cell                     `json:"scatter_cells"`      // Где выпали скаттеры
	AwardedFreeSpins int                        `json:"awarded_free_spins"` // Начислено фриспинов в этом спине
	FreeSpinCount    int                        `json:"free_spin_count"`    // Остаток фриспинов
	SessionTotal     decimal.Decimal            `json:"session_total"`      // Выигрыш текущей серии
	SessionSummary   *SessionSummary            `json:"session_summary,omitempty"`
	Jackpot          *Jackpot                   `json:"jackpot,omitempty"`
	Pools            map[string]decimal.Decimal `json:"pools"`        // Пулы после спина
	TotalPayout      decimal.Decimal            `json:"total_payout"` // Общая выплата
	Balance          decimal.Decimal            `json:"balance"`      // Баланс после
}

type Cell struct {
	Row  int `json:"row"`
	Reel int `json:"reel"`
}

type LineWin struct {
	Line   int             `json:"line"`   // 1-10
	Symbol string          `json:"symbol"` // Имя символа
	Count  int             `json:"count"`  // 3-5
	Path   []Cell          `json:"path"`
	Payout decimal.Decimal `json:"payout"` // Выплата
}

type Jackpot struct {
	Tier   string          `json:"tier"`
	Amount decimal.Decimal `json:"amount"`
}

// SessionSummary итог серии, приходит один раз на последнем фриспине
type SessionSummary struct {
	SpinsPlayed int             `json:"spins_played"`
	TotalWin    decimal.Decimal `json:"total_win"`
	Bet         decimal.Decimal `json:"bet"`
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"` // Сумма депозита, не больше двух знаков после точки
}

type DepositResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type DataResponse struct {
	Balance       decimal.Decimal            `json:"balance"`         // Баланс пользователя
	FreeSpinCount int                        `json:"free_spin_count"` // Остаток фриспинов
	SessionTotal  decimal.Decimal            `json:"session_total"`
	Pools         map[string]decimal.Decimal `json:"pools"`
}

type JackpotsResponse struct {
	Pools map[string]decimal.Decimal `json:"pools"`
}

type BetOptionsResponse struct {
	Bets []decimal.Decimal `json:"bets"`
}

type StatsResponse struct {
	TotalSpins  int     `json:"total_spins"`
	TotalBet    float64 `json:"total_bet"`
	TotalPayout float64 `json:"total_payout"`
	CurrentRTP  float64 `json:"current_rtp"` // В процентах
	WindowRTP   float64 `json:"window_rtp"`
	WindowSize  int     `json:"window_size"`
}
