// errors стандартизирует ответы об ошибках HTTP-слоя auth-сервиса.
// На вход он принимает доменную ошибку из пакета service (или storage),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: сентинел-ошибки пакета service.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/madcrow/auth-service/internal/models"
	"github.com/madcrow/auth-service/internal/service"
	"github.com/madcrow/auth-service/internal/storage"
)

// ErrInvalidArgument — локальная ошибка HTTP-слоя (битый JSON, отсутствие
// обязательного поля). Маппится в 400/invalid_argument.
var ErrInvalidArgument = stderrors.New("invalid argument")

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный
// ответ для фронта.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - неизвестная ошибка — 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{
				Code:    "internal",
				Message: "internal error",
			},
		}
	}

	httpStatus, code, msg := baseFromService(err)
	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteRateLimited пишет ответ 429 c телом RateLimitExceededResponse
// и набором заголовков X-RateLimit-*/Retry-After по снимку состояния лимита.
func WriteRateLimited(w http.ResponseWriter, r *http.Request, info *models.RateLimitInfo) {
	var retryAfter int64
	if info.TimeUntilReset != nil {
		retryAfter = *info.TimeUntilReset
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(models.HeaderRateLimitLimit, strconv.Itoa(info.MaxAttempts))
	w.Header().Set(models.HeaderRateLimitRemaining, strconv.Itoa(info.RemainingAttempts))
	w.Header().Set(models.HeaderRateLimitReset, strconv.FormatInt(retryAfter, 10))
	w.Header().Set(models.HeaderRetryAfter, strconv.FormatInt(retryAfter, 10))
	w.WriteHeader(http.StatusTooManyRequests)

	resp := models.RateLimitExceededResponse{
		Result:        "error",
		Message:       "too many login attempts, please try again later",
		ErrorCode:     models.RateLimitErrorCode,
		RateLimitInfo: *info,
		RetryAfter:    retryAfter,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromService — базовый маппинг доменных ошибок -> HTTP/FE-код/сообщение:
//   - битые входные (email/пароль) -> 400
//   - неверные учётные данные и недействительные токены -> 401
//   - статусные запреты аккаунта -> 403
//   - не найдено -> 404
//   - конфликт уникальности email -> 409
//   - превышение лимита попыток -> 429
//   - таймаут запроса -> 504
//   - прочее -> 500/internal
func baseFromService(err error) (int, string, string) {
	switch {
	case stderrors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid_email", "invalid email format"
	case stderrors.Is(err, service.ErrEmptyPassword):
		return http.StatusBadRequest, "empty_password", "password is empty"
	case stderrors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, "weak_password", "password does not meet the policy"
	case stderrors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "email_taken", "email already taken"
	case stderrors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case stderrors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "invalid token"
	case stderrors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "token expired"
	case stderrors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, "token_revoked", "token revoked"
	case stderrors.Is(err, service.ErrAccountNotVerified):
		return http.StatusForbidden, "account_not_verified", "account is not verified"
	case stderrors.Is(err, service.ErrAccountBanned):
		return http.StatusForbidden, "account_banned", "account is banned"
	case stderrors.Is(err, service.ErrAccountClosed):
		return http.StatusForbidden, "account_closed", "account is closed"
	case stderrors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limit_exceeded", "too many login attempts"
	case stderrors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
