package slot

import (
	"context"

	"haunted_slot/internal/metrics"
	"haunted_slot/internal/middleware"
	"haunted_slot/internal/model"
	"haunted_slot/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxDeposit верхняя граница одного пополнения
var maxDeposit = decimal.NewFromInt(1_000_000_000)

// Deposit пополняет баланс, возвращает новый баланс
func (s *serv) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return decimal.Zero, service.ErrUnauthorized
	}
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) || amount.GreaterThan(maxDeposit) {
		return decimal.Zero, service.ErrInvalidAmount
	}

	balance, err := s.userRepo.AddBalance(ctx, userID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	s.log.Info("deposit", zap.Int("user_id", userID), zap.String("amount", amount.String()))
	return balance, nil
}

// CheckData баланс, фриспины и джекпоты игрока
func (s *serv) CheckData(ctx context.Context) (*model.Data, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, service.ErrUnauthorized
	}

	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	state, err := s.slotRepo.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}
	pools, err := s.Jackpots(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Data{
		Balance:       balance,
		FreeSpinCount: state.FreeSpinsLeft,
		SessionTotal:  state.SessionTotal,
		Pools:         pools,
	}, nil
}

func (s *serv) Jackpots(ctx context.Context) (model.PoolSnapshot, error) {
	pools, err := s.jackpotRepo.GetPools(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SetPools(pools)
	return pools, nil
}

func (s *serv) BetOptions() []decimal.Decimal {
	return s.machine.BetOptions()
}

func (s *serv) Stats() model.Stats {
	return s.statsRepo.Stats()
}
