package redislock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client подмножество *redis.Client, нужное локеру
type Client interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
