package stats_repo

import (
	"math"
	"sync"
	"time"

	"haunted_slot/internal/model"
	repoModel "haunted_slot/internal/repository/stats_repo/model"

	"go.uber.org/zap"
)

const (
	// periodSpinsToCheck Периодичность проверки RTP окна (каждые N спинов)
	periodSpinsToCheck = 25
	// criticalRTPDeviation отклонение RTP окна от целевого, после которого пишем предупреждение
	criticalRTPDeviation = 10.0
	// normalRTPDeviation отклонение, при котором считаем что RTP вернулся в норму
	normalRTPDeviation = 5.0
	// maxDriftLogs сколько последних записей журнала хранить
	maxDriftLogs = 100

	defaultWindowSize = 500
)

// StatsRepo статистика выплат в памяти процесса
type StatsRepo struct {
	mtx   sync.RWMutex
	state repoModel.State
	log   *zap.Logger
	now   func() time.Time
}

// NewStatsRepository targetRTP в процентах, например 95
func NewStatsRepository(targetRTP float64, windowSize int, log *zap.Logger) *StatsRepo {
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsRepo{
		state: repoModel.State{
			TargetRTP:  targetRTP,
			SpinWindow: make([]repoModel.SpinResult, 0, windowSize),
			WindowSize: windowSize,
		},
		log: log,
		now: time.Now,
	}
}

// State копия состояния
func (r *StatsRepo) State() repoModel.State {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	st := r.state
	st.SpinWindow = append([]repoModel.SpinResult(nil), r.state.SpinWindow...)
	st.Drifts = append([]repoModel.DriftLog(nil), r.state.Drifts...)
	return st
}

func (r *StatsRepo) Stats() model.Stats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return model.Stats{
		TotalSpins:  r.state.TotalSpins,
		TotalBet:    r.state.TotalBet,
		TotalPayout: r.state.TotalPayout,
		CurrentRTP:  r.state.CurrentRTP,
		WindowRTP:   r.state.WindowRTP,
		WindowSize:  len(r.state.SpinWindow),
	}
}

// UpdateState учитывает спин. Фриспин передается с нулевой ставкой
func (r *StatsRepo) UpdateState(bet, payout float64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.state.TotalSpins++
	r.state.TotalBet += bet
	r.state.TotalPayout += payout
	if r.state.TotalBet > 0 {
		r.state.CurrentRTP = r.state.TotalPayout / r.state.TotalBet * 100
	}

	r.state.SpinWindow = append(r.state.SpinWindow, repoModel.SpinResult{Bet: bet, Payout: payout})
	if len(r.state.SpinWindow) > r.state.WindowSize {
		r.state.SpinWindow = r.state.SpinWindow[1:]
	}

	var windowBet, windowPayout float64
	for _, spin := range r.state.SpinWindow {
		windowBet += spin.Bet
		windowPayout += spin.Payout
	}
	if windowBet > 0 {
		r.state.WindowRTP = windowPayout / windowBet * 100
	} else {
		r.state.WindowRTP = 0
	}

	if r.state.TotalSpins%periodSpinsToCheck == 0 && r.state.TargetRTP > 0 {
		r.checkDrift()
	}
}

// checkDrift вызывается под блокировкой
func (r *StatsRepo) checkDrift() {
	diff := math.Abs(r.state.WindowRTP - r.state.TargetRTP)

	if diff > criticalRTPDeviation {
		direction := "low"
		if r.state.WindowRTP > r.state.TargetRTP {
			direction = "high"
		}
		if r.state.Drifting && r.state.DriftDirection == direction {
			return
		}
		r.state.Drifting = true
		r.state.DriftDirection = direction
		r.state.Drifts = append(r.state.Drifts, repoModel.DriftLog{
			Timestamp: r.now(),
			Direction: direction,
			WindowRTP: r.state.WindowRTP,
			Profit:    r.state.TotalBet - r.state.TotalPayout,
		})
		if len(r.state.Drifts) > maxDriftLogs {
			r.state.Drifts = r.state.Drifts[1:]
		}
		r.log.Warn("window rtp out of range",
			zap.String("direction", direction),
			zap.Float64("window_rtp", r.state.WindowRTP),
			zap.Float64("target_rtp", r.state.TargetRTP),
		)
		return
	}

	if r.state.Drifting && diff < normalRTPDeviation {
		r.state.Drifting = false
		r.state.DriftDirection = ""
		r.log.Info("window rtp back in range", zap.Float64("window_rtp", r.state.WindowRTP))
	}
}
