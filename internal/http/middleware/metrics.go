package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/madcrow/auth-service/internal/metrics"
)

// Metrics учитывает каждый завершённый запрос в Prometheus-коллекторе.
// Метка route — шаблон маршрута chi, а не сырой путь, чтобы не взрывать
// кардинальность.
func Metrics(c *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		if c == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			c.RecordHTTPRequest(r.Method, route, status, time.Since(start))
		})
	}
}
