package models

// RateLimitInfo — текущее состояние лимита попыток входа для одной identity.
//
// Инвариант: RemainingAttempts == max(0, MaxAttempts - попыток в окне);
// TimeUntilReset заполняется только когда лимит исчерпан.
type RateLimitInfo struct {
	// IsLimited — лимит исчерпан, попытки входа отклоняются.
	IsLimited bool `json:"is_limited"`
	// RemainingAttempts — сколько попыток осталось в текущем окне.
	RemainingAttempts int `json:"remaining_attempts"`
	// MaxAttempts — максимум попыток в окне.
	MaxAttempts int `json:"max_attempts"`
	// TimeWindow — длина окна в секундах.
	TimeWindow int64 `json:"time_window"`
	// TimeUntilReset — секунд до сброса окна; nil, если лимит не исчерпан.
	TimeUntilReset *int64 `json:"time_until_reset,omitempty"`
}

// RateLimitErrorCode — машиночитаемый код ошибки превышения лимита.
const RateLimitErrorCode = "RATE_LIMIT_EXCEEDED"

// RateLimitExceededResponse — тело ответа 429 Too Many Requests.
type RateLimitExceededResponse struct {
	Result        string        `json:"result"`
	Message       string        `json:"message"`
	ErrorCode     string        `json:"error_code"`
	RateLimitInfo RateLimitInfo `json:"rate_limit_info"`
	RetryAfter    int64         `json:"retry_after"`
}

// Имена HTTP-заголовков c информацией о лимите.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)
