package auth

import (
	"context"
	"errors"

	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"
	"haunted_slot/internal/service"
	"haunted_slot/pkg/token"
)

func (s *serv) Refresh(ctx context.Context, data *model.AuthData) (string, error) {
	// Хэш refresh токена живой сессии
	refreshTokenHash, err := s.authRepo.GetRefreshTokenBySessionID(ctx, data.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", service.ErrUnauthorized
		}
		return "", err
	}

	if !token.VerifyRefreshToken(data.RefreshToken, refreshTokenHash) {
		return "", service.ErrUnauthorized
	}

	userID, err := s.authRepo.GetUserIDBySessionID(ctx, data.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", service.ErrUnauthorized
		}
		return "", err
	}

	return token.GenerateAccessToken(
		userID,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
}
