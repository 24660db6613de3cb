package auth

import (
	"haunted_slot/internal/config"
	"haunted_slot/internal/repository"
	"haunted_slot/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type serv struct {
	txManager    trm.Manager
	userRepo     repository.UserRepository
	authRepo     repository.AuthRepository
	jwtConfig    config.JWTConfig
	startBalance decimal.Decimal
}

// NewAuthService startBalance начисляется новому пользователю при регистрации
func NewAuthService(
	txManager trm.Manager,
	userRepo repository.UserRepository,
	authRepo repository.AuthRepository,
	jwtConfig config.JWTConfig,
	startBalance decimal.Decimal,
) service.AuthService {
	return &serv{
		txManager:    txManager,
		userRepo:     userRepo,
		authRepo:     authRepo,
		jwtConfig:    jwtConfig,
		startBalance: startBalance,
	}
}

func generateSessionID() string {
	return uuid.NewString()
}
