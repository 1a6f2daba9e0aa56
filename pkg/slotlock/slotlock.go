package slotlock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLockNotAcquired возвращается, если слот не удалось захватить за отведённое время
var ErrLockNotAcquired = errors.New("slotlock: lock not acquired")

// Locker in-process мьютекс по ключу слота.
// Подходит для одного экземпляра сервиса; для нескольких реплик используется Redis.
type Locker struct {
	waitTimeout time.Duration

	mu    sync.Mutex
	slots map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// New создаёт локер. waitTimeout <= 0 означает ожидание до отмены контекста.
func New(waitTimeout time.Duration) *Locker {
	return &Locker{
		waitTimeout: waitTimeout,
		slots:       make(map[string]*entry),
	}
}

// WithSlotLock выполняет fn, удерживая блокировку key
func (l *Locker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	e := l.acquireEntry(key)
	defer l.releaseEntry(key, e)

	waitCtx := ctx
	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	select {
	case e.sem <- struct{}{}:
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrLockNotAcquired
	}
	defer func() { <-e.sem }()

	return fn(ctx)
}

func (l *Locker) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.slots[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.slots[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) releaseEntry(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.slots, key)
	}
}
