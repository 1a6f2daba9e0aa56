package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/pkg/slotlock"
)

const (
	keyPrefix = "lock:"

	defaultTTL           = 5 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// Удаляет ключ, только если он всё ещё принадлежит владельцу токена
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// Options параметры блокировки
type Options struct {
	// TTL время жизни ключа, защищает от зависшего владельца
	TTL time.Duration

	// WaitTimeout сколько ждать освобождения занятого слота, 0 не ждать
	WaitTimeout time.Duration

	// RetryInterval пауза между попытками захвата
	RetryInterval time.Duration
}

// Locker распределённая блокировка слота на SET NX PX.
// Реализует тот же контракт, что и slotlock.Locker.
type Locker struct {
	client Client
	opts   Options
	logger Logger
}

// New создаёт локер
func New(client Client, opts Options, logger Logger) *Locker {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaultRetryInterval
	}
	return &Locker{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// WithSlotLock выполняет fn, удерживая ключ lock:<key>.
// fn получает контекст, ограниченный TTL ключа: после истечения TTL
// блокировка может достаться другому владельцу.
func (l *Locker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	if err := l.acquire(ctx, redisKey, token); err != nil {
		return err
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := l.release(releaseCtx, redisKey, token); err != nil {
			l.logger.Warn("redislock: %v", err)
		}
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.opts.TTL)
	defer cancel()

	return fn(lockCtx)
}

func (l *Locker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.opts.WaitTimeout)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: %s: %v", ErrAcquire, key, err)
		}
		if ok {
			return nil
		}

		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: %s", slotlock.ErrLockNotAcquired, key)
		}

		timer := time.NewTimer(l.opts.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Locker) release(ctx context.Context, key, token string) error {
	deleted, err := unlockScript.Run(ctx, l.client, []string{key}, token).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s: %v", ErrRelease, key, err)
	}
	if deleted == 0 {
		l.logger.Warn("redislock: %s expired before release", key)
	}
	return nil
}
