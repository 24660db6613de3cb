package env

import (
	"fmt"
	"os"
	"strconv"

	"haunted_slot/internal/config"
)

const (
	redisAddrEnvName     = "REDIS_ADDR"
	redisPasswordEnvName = "REDIS_PASSWORD"
	redisDBEnvName       = "REDIS_DB"
	redisChannelEnvName  = "REDIS_CHANNEL"
)

type redisConfig struct {
	addr     string
	password string
	db       int
	channel  string
}

func NewRedisConfig() (config.RedisConfig, error) {
	cfg := &redisConfig{
		addr:     os.Getenv(redisAddrEnvName),
		password: os.Getenv(redisPasswordEnvName),
		channel:  getenv(redisChannelEnvName, "slot:outcomes"),
	}
	if v := os.Getenv(redisDBEnvName); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", redisDBEnvName, err)
		}
		cfg.db = db
	}
	return cfg, nil
}

func (cfg *redisConfig) Addr() string {
	return cfg.addr
}

func (cfg *redisConfig) Password() string {
	return cfg.password
}

func (cfg *redisConfig) DB() int {
	return cfg.db
}

func (cfg *redisConfig) Channel() string {
	return cfg.channel
}
