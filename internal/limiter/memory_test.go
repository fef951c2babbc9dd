package limiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestMemoryStore_IncrAndStatus — базовый сценарий: инкременты внутри
// окна накапливаются, Status не меняет состояние.
func TestMemoryStore_IncrAndStatus(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	count, ttl, err := s.Incr(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Greater(t, ttl, time.Duration(0))

	count, _, err = s.Incr(ctx, "user@example.com", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, ttl, err = s.Status(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
	require.Greater(t, ttl, time.Duration(0))

	// Status не инкрементирует.
	count, _, err = s.Status(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

// TestMemoryStore_WindowExpiry — по истечении окна счётчик сбрасывается
// целиком, следующая попытка открывает новое окно.
func TestMemoryStore_WindowExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, _, err := s.Incr(ctx, "k", time.Minute)
		require.NoError(t, err)
	}

	// Сдвигаем часы за границу окна.
	now = now.Add(time.Minute + time.Second)

	count, ttl, err := s.Status(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
	require.Equal(t, time.Duration(0), ttl)

	count, _, err = s.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

// TestMemoryStore_Reset — сброс удаляет счётчик, отсутствие ключа не ошибка.
func TestMemoryStore_Reset(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, _, err := s.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx, "k"))

	count, _, err := s.Status(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	require.NoError(t, s.Reset(ctx, "missing"))
}

// TestMemoryStore_ConcurrentIncr — счётчик не теряет инкременты при
// параллельных вызовах.
func TestMemoryStore_ConcurrentIncr(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const (
		goroutines = 16
		perG       = 100
	)

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				_, _, _ = s.Incr(ctx, "k", time.Hour)
			}
		}()
	}

	wg.Wait()

	count, _, err := s.Status(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, int64(goroutines*perG), count)
}
