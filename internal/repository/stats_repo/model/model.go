package model

import "time"

// State статистика выплат сервера
type State struct {
	TotalSpins  int     // Сколько всего спинов сделано
	TotalBet    float64 // Сумма всех ставок
	TotalPayout float64 // Сумма всех выплат

	CurrentRTP float64 // Текущий RTP = (TotalPayout/TotalBet)*100
	TargetRTP  float64 // Ожидаемый RTP, например 95%

	Drifts []DriftLog // Журнал выходов RTP окна за допустимые пределы

	Drifting       bool   // RTP окна сейчас за пределами
	DriftDirection string // "high" или "low"

	SpinWindow []SpinResult // Окно последних спинов
	WindowRTP  float64      // RTP в окне последних спинов
	WindowSize int          // Размер окна
}

// DriftLog запись о выходе RTP окна за пределы
type DriftLog struct {
	Timestamp time.Time
	Direction string
	WindowRTP float64
	Profit    float64
}

// SpinResult результат спина для окна
type SpinResult struct {
	Bet    float64
	Payout float64
}
