package appointment

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// classify переводит коды PostgreSQL в ошибки репозитория.
// Возвращает nil, если код не относится к конфликтам.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return ErrSlotTaken
	case pqSerializationFailure, pqDeadlockDetected:
		return ErrSerialization
	default:
		return nil
	}
}

// IsConflict сообщает, что ошибка вызвана конкурентной записью того же слота.
// Используется для ошибок commit, которые приходят из менеджера транзакций.
func IsConflict(err error) bool {
	return classify(err) != nil
}
