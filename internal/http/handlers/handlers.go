package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/madcrow/auth-service/internal/metrics"
	"github.com/madcrow/auth-service/internal/service"
)

// Handlers агрегирует зависимости HTTP-хендлеров.
type Handlers struct {
	Svc     *service.Service
	Metrics *metrics.Collector // может быть nil
}

func New(svc *service.Service, m *metrics.Collector) *Handlers {
	return &Handlers{Svc: svc, Metrics: m}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// clientIP возвращает адрес клиента: X-Forwarded-For (первый hop) либо RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}

func (h *Handlers) recordLogin(success bool) {
	if h.Metrics != nil {
		h.Metrics.RecordLogin(success)
	}
}

func (h *Handlers) recordRateLimited() {
	if h.Metrics != nil {
		h.Metrics.RecordRateLimited()
	}
}
