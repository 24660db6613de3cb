package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"haunted_slot/internal/config"
	"haunted_slot/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisClient часть клиента go-redis, нужная для публикации
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher публикует события в канал Redis pub/sub
type RedisPublisher struct {
	rdb     redisClient
	channel string
	timeout time.Duration
}

func NewRedisPublisher(rdb redisClient, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel, timeout: time.Second}
}

func (p *RedisPublisher) Publish(ctx context.Context, o *model.Outcome) error {
	payload, err := Encode(o)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

// NewRedis клиент Redis с проверкой соединения. Пустой адрес - Redis не используется
func NewRedis(cfg config.RedisConfig, log *zap.Logger) (redis.UniversalClient, func(), error) {
	if len(cfg.Addr()) == 0 {
		return nil, nil, errors.New("redis address is required")
	}

	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:           []string{cfg.Addr()},
		Password:        cfg.Password(),
		DB:              cfg.DB(),
		PoolSize:        50,
		MinIdleConns:    10,
		PoolTimeout:     5 * time.Second,
		ConnMaxLifetime: 10 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed pinging redis: %w", err)
	}

	cleanup := func() {
		log.Info("closing redis connection")
		if err := rdb.Close(); err != nil {
			log.Error("close redis", zap.Error(err))
		}
	}

	log.Info("redis connection established", zap.String("addr", cfg.Addr()))
	return rdb, cleanup, nil
}
