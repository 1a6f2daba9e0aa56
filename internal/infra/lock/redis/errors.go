package redislock

import "errors"

var (
	// ErrAcquire возвращается, если Redis не ответил на попытку захвата
	ErrAcquire = errors.New("redislock: failed to acquire lock")

	// ErrRelease возвращается, если Redis не ответил на освобождение
	ErrRelease = errors.New("redislock: failed to release lock")
)
