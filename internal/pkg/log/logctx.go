// log — прокладка request-scoped логгера через context.
//
// HTTP-middleware кладёт обогащённый *slog.Logger (request_id, метод, путь)
// в контекст запроса; нижние слои (service, storage, limiter) достают его
// через From, не зная о транспорте.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}

// With — шорткат: обогащает контекстный логгер атрибутами и кладёт обратно.
// Возвращает новый контекст и сам обогащённый логгер.
func With(ctx context.Context, attrs ...any) (context.Context, *slog.Logger) {
	l := From(ctx).With(attrs...)
	return Into(ctx, l), l
}
