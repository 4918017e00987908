package config

import (
	"context"

	"github.com/go-redis/redis/v8"
)

type CacheService struct {
	Ctx        context.Context
	Connection *redis.Client
}

func NewCacheService(cfg *Config) (*CacheService, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	ctx := context.Background()

	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &CacheService{
		Ctx:        ctx,
		Connection: c,
	}, nil
}
