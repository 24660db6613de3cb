package slot

import (
	"context"
	"errors"
	"fmt"

	"haunted_slot/internal/engine"
	"haunted_slot/internal/metrics"
	"haunted_slot/internal/middleware"
	"haunted_slot/internal/model"
	"haunted_slot/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Spin выполняет спин в одной транзакции: баланс, серия фриспинов и пулы джекпотов
// читаются с блокировкой и записываются обратно вместе. Событие уходит после коммита
func (s *serv) Spin(ctx context.Context, req model.SlotSpin) (*model.Outcome, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, service.ErrUnauthorized
	}

	var out *model.Outcome
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Порядок блокировок всегда один: пользователь, затем пулы
		balance, err := s.userRepo.LockBalance(txCtx, userID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}
		state, err := s.slotRepo.GetState(txCtx, userID)
		if err != nil {
			return fmt.Errorf("get slot state: %w", err)
		}
		pools, err := s.jackpotRepo.LockPools(txCtx)
		if err != nil {
			return fmt.Errorf("lock jackpot pools: %w", err)
		}

		ladder, err := s.machine.NewLadder()
		if err != nil {
			return err
		}
		if err := ladder.Restore(pools); err != nil {
			return fmt.Errorf("restore jackpot pools: %w", err)
		}
		player := engine.RestorePlayer(balance, state)

		out, err = s.machine.Resolve(txCtx, player, ladder, req.Bet)
		if err != nil {
			return err
		}

		if err := s.userRepo.UpdateBalance(txCtx, userID, player.Balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		if err := s.slotRepo.SaveState(txCtx, userID, player.FreeSpins.Snapshot()); err != nil {
			return fmt.Errorf("save slot state: %w", err)
		}
		if err := s.jackpotRepo.SavePools(txCtx, ladder.Snapshot()); err != nil {
			return fmt.Errorf("save jackpot pools: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.SpinError(reason(err))
		if !isRejection(err) {
			s.log.Error("spin failed", zap.Int("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	stake := out.Bet
	if out.FreeSpin {
		stake = decimal.Zero
	}
	s.statsRepo.UpdateState(stake.InexactFloat64(), out.TotalWin.InexactFloat64())
	metrics.ObserveSpin(out)
	metrics.SetRTP(s.statsRepo.Stats().WindowRTP)

	if out.Jackpot != nil {
		s.log.Info("jackpot awarded",
			zap.Int("user_id", userID),
			zap.String("tier", string(out.Jackpot.Tier)),
			zap.String("amount", out.Jackpot.Amount.String()),
		)
	}
	if sum := out.SessionSummary; sum != nil {
		s.log.Info("free spins finished",
			zap.Int("user_id", userID),
			zap.Int("spins", sum.SpinsPlayed),
			zap.String("total", sum.TotalWin.String()),
		)
	}

	s.machine.Publish(ctx, out)
	return out, nil
}

func isRejection(err error) bool {
	return errors.Is(err, engine.ErrInvalidBet) || errors.Is(err, engine.ErrInsufficientCredits)
}

func reason(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidBet):
		return "invalid_bet"
	case errors.Is(err, engine.ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "internal"
}
