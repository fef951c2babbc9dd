// Package limiter реализует ограничение частоты попыток входа
// по фиксированному окну: первая неудачная попытка открывает окно,
// по его истечении счётчик сбрасывается целиком.
package limiter

import (
	"context"
	"time"
)

// Store — минимальный контракт хранилища счётчиков попыток.
// Реализации: Redis (общий счётчик для всех инстансов) и in-memory
// (один процесс, используется при отсутствии Redis).
type Store interface {
	// Incr увеличивает счётчик по ключу и возвращает новое значение
	// вместе с временем до сброса окна. Если ключа не было — окно
	// открывается с этого момента.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
	// Status возвращает текущее значение счётчика и остаток окна,
	// не изменяя состояние. Для отсутствующего ключа — (0, 0, nil).
	Status(ctx context.Context, key string) (count int64, ttl time.Duration, err error)
	// Reset удаляет счётчик по ключу. Отсутствие ключа — не ошибка.
	Reset(ctx context.Context, key string) error
	// Close освобождает ресурсы хранилища.
	Close() error
}
