package auth

import (
	"context"
	"errors"

	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"
	"haunted_slot/internal/service"
	"haunted_slot/pkg/pass"
)

func (s *serv) Login(ctx context.Context, login, password string) (*model.AuthData, error) {
	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, service.ErrInvalidCredentials
		}
		return nil, err
	}

	if !pass.VerifyPassword(user.Password, password) {
		return nil, service.ErrInvalidCredentials
	}

	return s.openSession(ctx, user.ID)
}

func (s *serv) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return service.ErrUnauthorized
	}
	return s.authRepo.DeleteSession(ctx, sessionID)
}
