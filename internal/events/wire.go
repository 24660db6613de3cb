package events

import (
	"time"

	"haunted_slot/internal/model"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Cell struct {
	Row  int `json:"row"`
	Reel int `json:"reel"`
}

type LineWin struct {
	Line   int             `json:"line"`
	Symbol string          `json:"symbol"`
	Count  int             `json:"count"`
	Path   []Cell          `json:"path"`
	Win    decimal.Decimal `json:"win"`
}

type Jackpot struct {
	Tier   string          `json:"tier"`
	Amount decimal.Decimal `json:"amount"`
}

type Summary struct {
	SpinsPlayed int             `json:"spins_played"`
	TotalWin    decimal.Decimal `json:"total_win"`
	Bet         decimal.Decimal `json:"bet"`
}

// OutcomeEvent формат события для внешних получателей
type OutcomeEvent struct {
	SpinID           string                     `json:"spin_id"`
	Grid             [][]string                 `json:"grid"`
	Stops            []int                      `json:"stops"`
	Bet              decimal.Decimal            `json:"bet"`
	FreeSpin         bool                       `json:"free_spin"`
	LineWins         []LineWin                  `json:"line_wins"`
	LineWin          decimal.Decimal            `json:"line_win"`
	ScatterCount     int                        `json:"scatter_count"`
	ScatterCells     []Cell                     `json:"scatter_cells"`
	FreeSpinsAwarded int                        `json:"free_spins_awarded"`
	FreeSpinsLeft    int                        `json:"free_spins_left"`
	SessionTotal     decimal.Decimal            `json:"session_total"`
	SessionSummary   *Summary                   `json:"session_summary,omitempty"`
	Jackpot          *Jackpot                   `json:"jackpot,omitempty"`
	Pools            map[string]decimal.Decimal `json:"pools"`
	TotalWin         decimal.Decimal            `json:"total_win"`
	Balance          decimal.Decimal            `json:"balance"`
	CreatedAt        time.Time                  `json:"created_at"`
}

func cells(ps []model.Position) []Cell {
	out := make([]Cell, 0, len(ps))
	for _, p := range ps {
		out = append(out, Cell{Row: p.Row, Reel: p.Reel})
	}
	return out
}

// ToEvent переводит исход спина в формат события
func ToEvent(o *model.Outcome) OutcomeEvent {
	ev := OutcomeEvent{
		SpinID:           o.SpinID,
		Grid:             make([][]string, model.Rows),
		Stops:            o.Stops[:],
		Bet:              o.Bet,
		FreeSpin:         o.FreeSpin,
		LineWins:         make([]LineWin, 0, len(o.LineWins)),
		LineWin:          o.LineWin,
		ScatterCount:     o.ScatterCount,
		ScatterCells:     cells(o.ScatterCells),
		FreeSpinsAwarded: o.FreeSpinsAwarded,
		FreeSpinsLeft:    o.FreeSpinsLeft,
		SessionTotal:     o.SessionTotal,
		Pools:            make(map[string]decimal.Decimal, len(o.Pools)),
		TotalWin:         o.TotalWin,
		Balance:          o.Balance,
		CreatedAt:        o.CreatedAt,
	}
	for r := 0; r < model.Rows; r++ {
		ev.Grid[r] = append([]string(nil), o.Grid[r][:]...)
	}
	for _, w := range o.LineWins {
		ev.LineWins = append(ev.LineWins, LineWin{
			Line:   w.Line,
			Symbol: w.Symbol,
			Count:  w.Count,
			Path:   cells(w.Path),
			Win:    w.Win,
		})
	}
	if s := o.SessionSummary; s != nil {
		ev.SessionSummary = &Summary{SpinsPlayed: s.SpinsPlayed, TotalWin: s.TotalWin, Bet: s.Bet}
	}
	if j := o.Jackpot; j != nil {
		ev.Jackpot = &Jackpot{Tier: string(j.Tier), Amount: j.Amount}
	}
	for tier, v := range o.Pools {
		ev.Pools[string(tier)] = v
	}
	return ev
}

func Encode(o *model.Outcome) ([]byte, error) {
	return json.Marshal(ToEvent(o))
}
