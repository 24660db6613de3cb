package converter

import (
	dto "haunted_slot/internal/api/dto/slot"
	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
)

func ToSlotSpin(req dto.SpinRequest) model.SlotSpin {
	return model.SlotSpin{
		Bet: req.Bet,
	}
}

func ToSpinResponse(o *model.Outcome) dto.SpinResponse {
	res := dto.SpinResponse{
		SpinID:           o.SpinID,
		Board:            o.Grid,
		Stops:            o.Stops,
		Bet:              o.Bet,
		FreeSpin:         o.FreeSpin,
		LineWins:         toLineWins(o.LineWins),
		LineWin:          o.LineWin,
		ScatterCount:     o.ScatterCount,
		ScatterCells:     toCells(o.ScatterCells),
		AwardedFreeSpins: o.FreeSpinsAwarded,
		FreeSpinCount:    o.FreeSpinsLeft,
		SessionTotal:     o.SessionTotal,
		Pools:            toPools(o.Pools),
		TotalPayout:      o.TotalWin,
		Balance:          o.Balance,
	}
	if s := o.SessionSummary; s != nil {
		res.SessionSummary = &dto.SessionSummary{
			SpinsPlayed: s.SpinsPlayed,
			TotalWin:    s.TotalWin,
			Bet:         s.Bet,
		}
	}
	if j := o.Jackpot; j != nil {
		res.Jackpot = &dto.Jackpot{Tier: string(j.Tier), Amount: j.Amount}
	}
	return res
}

func toLineWins(lineWins []model.LineWin) []dto.LineWin {
	result := make([]dto.LineWin, len(lineWins))
	for i, l := range lineWins {
		result[i] = dto.LineWin{
			Line:   l.Line,
			Symbol: l.Symbol,
			Count:  l.Count,
			Path:   toCells(l.Path),
			Payout: l.Win,
		}
	}
	return result
}

func toCells(ps []model.Position) []dto.Cell {
	result := make([]dto.Cell, len(ps))
	for i, p := range ps {
		result[i] = dto.Cell{Row: p.Row, Reel: p.Reel}
	}
	return result
}

func toPools(pools model.PoolSnapshot) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(pools))
	for tier, v := range pools {
		result[string(tier)] = v
	}
	return result
}

func ToDataResponse(data *model.Data) dto.DataResponse {
	return dto.DataResponse{
		Balance:       data.Balance,
		FreeSpinCount: data.FreeSpinCount,
		SessionTotal:  data.SessionTotal,
		Pools:         toPools(data.Pools),
	}
}

func ToJackpotsResponse(pools model.PoolSnapshot) dto.JackpotsResponse {
	return dto.JackpotsResponse{Pools: toPools(pools)}
}

func ToStatsResponse(st model.Stats) dto.StatsResponse {
	return dto.StatsResponse{
		TotalSpins:  st.TotalSpins,
		TotalBet:    st.TotalBet,
		TotalPayout: st.TotalPayout,
		CurrentRTP:  st.CurrentRTP,
		WindowRTP:   st.WindowRTP,
		WindowSize:  st.WindowSize,
	}
}
