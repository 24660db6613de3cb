package repository

import (
	"context"
	"errors"

	"haunted_slot/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrOutOfRange    = errors.New("amount out of range")
)

// Psql построитель запросов с плейсхолдерами $1, $2...
var Psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ToCents деньги хранятся в БД целыми центами
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// CheckCents сумма должна помещаться в BIGINT центов
func CheckCents(d decimal.Decimal) error {
	if !d.Shift(2).Round(0).BigInt().IsInt64() {
		return ErrOutOfRange
	}
	return nil
}

func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshHash string, err error)
	GetUserIDBySessionID(ctx context.Context, sessionID string) (int, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)

	GetBalance(ctx context.Context, id int) (decimal.Decimal, error)
	// LockBalance читает баланс с блокировкой строки до конца транзакции
	LockBalance(ctx context.Context, id int) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, id int, balance decimal.Decimal) error
	AddBalance(ctx context.Context, id int, amount decimal.Decimal) (decimal.Decimal, error)
}

// SlotRepository состояние серии фриспинов игрока
type SlotRepository interface {
	GetState(ctx context.Context, userID int) (model.SlotState, error)
	SaveState(ctx context.Context, userID int, st model.SlotState) error
}

// JackpotRepository общие для всех игроков пулы джекпотов
type JackpotRepository interface {
	InitPools(ctx context.Context, floors model.PoolSnapshot) error
	GetPools(ctx context.Context) (model.PoolSnapshot, error)
	LockPools(ctx context.Context) (model.PoolSnapshot, error)
	SavePools(ctx context.Context, pools model.PoolSnapshot) error
}

// StatsRepository статистика выплат в памяти процесса
type StatsRepository interface {
	UpdateState(bet, payout float64)
	Stats() model.Stats
}
