package service

import (
	"context"
	"errors"

	"haunted_slot/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidUser        = errors.New("login and password are required")
)

type SlotService interface {
	Spin(ctx context.Context, req model.SlotSpin) (*model.Outcome, error)
	Deposit(ctx context.Context, amount decimal.Decimal) (balance decimal.Decimal, err error)
	CheckData(ctx context.Context) (*model.Data, error)
	Jackpots(ctx context.Context) (model.PoolSnapshot, error)
	BetOptions() []decimal.Decimal
	Stats() model.Stats
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, login, password string) (*model.AuthData, error)
	Refresh(ctx context.Context, data *model.AuthData) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
}
