// metrics собирает и публикует Prometheus-метрики auth-сервиса.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector агрегирует метрики HTTP-слоя и доменных событий.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	loginResults *prometheus.CounterVec
	rateLimited  prometheus.Counter
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_http_requests_total",
			Help: "Количество HTTP-запросов по методу, маршруту и статусу.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auth_http_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запросов (секунды).",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loginResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Попытки входа по результату (success/failure).",
		}, []string{"result"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_rate_limited_total",
			Help: "Количество входов, отклонённых лимитером.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.loginResults,
		c.rateLimited,
	)

	return c
}

// RecordHTTPRequest учитывает завершённый HTTP-запрос.
func (c *Collector) RecordHTTPRequest(method, route string, status int, dur time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

// RecordLogin учитывает результат попытки входа.
func (c *Collector) RecordLogin(success bool) {
	if success {
		c.loginResults.WithLabelValues("success").Inc()
		return
	}
	c.loginResults.WithLabelValues("failure").Inc()
}

// RecordRateLimited учитывает вход, отклонённый лимитером.
func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}
