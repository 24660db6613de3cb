package env

import (
	"fmt"
	"os"
	"time"

	"haunted_slot/internal/config"
)

const (
	accessTokenKeyEnvName       = "ACCESS_TOKEN"
	accessTokenDurationEnvName  = "ACCESS_TOKEN_DURATION"
	refreshTokenDurationEnvName = "REFRESH_TOKEN_DURATION"

	minSecretLen = 16
)

type jwtConfig struct {
	secret          []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// NewJWTConfig секрет обязателен, длительности по умолчанию 15m и 720h
func NewJWTConfig() (config.JWTConfig, error) {
	secret := os.Getenv(accessTokenKeyEnvName)
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("%s must be at least %d bytes", accessTokenKeyEnvName, minSecretLen)
	}

	access, err := parseDuration(accessTokenDurationEnvName, "15m")
	if err != nil {
		return nil, err
	}
	refresh, err := parseDuration(refreshTokenDurationEnvName, "720h")
	if err != nil {
		return nil, err
	}
	if refresh <= access {
		return nil, fmt.Errorf("refresh token duration %s must exceed access token duration %s", refresh, access)
	}

	return &jwtConfig{
		secret:          []byte(secret),
		accessDuration:  access,
		refreshDuration: refresh,
	}, nil
}

func parseDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenv(name, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}

func (j *jwtConfig) AccessTokenSecretKey() []byte {
	return j.secret
}

func (j *jwtConfig) AccessTokenDuration() time.Duration {
	return j.accessDuration
}

func (j *jwtConfig) RefreshTokenDuration() time.Duration {
	return j.refreshDuration
}
