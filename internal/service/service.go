// service содержит бизнес-логику auth-сервиса:
// регистрацию/аутентификацию аккаунтов, управление учётными данными,
// выпуск/проверку токенов, лимит попыток входа и работу с хранилищем
// через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилища (storage.Storage, limiter.Store) потокобезопасны.
//   - Ошибки возвращаются и далее маппятся
//     транспортом на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/madcrow/auth-service/internal/cache"
	"github.com/madcrow/auth-service/internal/config"
	"github.com/madcrow/auth-service/internal/limiter"
	"github.com/madcrow/auth-service/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или аккаунт не найден.
	// На уровне транспорта маппится в HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/session) некорректен по формату/подписи
	// или отсутствует в хранилище. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен отозван (logout/rotation/compromise) и недействителен
	// независимо от срока. Транспорт: HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrEmailTaken — e-mail уже занят другим аккаунтом. Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrSessionTokenCollision — исчерпаны попытки сгенерировать уникальный
	// сессионный токен (редкий случай коллизий при сохранении хэша в БД
	// после нескольких ретраев). Транспорт: HTTP 500.
	ErrSessionTokenCollision = errors.New("session token collision")

	// ErrInvalidEmail — e-mail имеет некорректный формат или не проходит
	// политику валидации. Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политике сложности.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrCredentialNotSet — у аккаунта не установлен пароль.
	// Транспорт: HTTP 401 (наружу неотличимо от неверного пароля).
	ErrCredentialNotSet = errors.New("credential not set")

	// ErrRateLimited — превышен лимит попыток входа для identity.
	// Транспорт: HTTP 429 с заголовками X-RateLimit-*.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrAccountNotVerified — аккаунт создан, но не активирован. Транспорт: HTTP 403.
	ErrAccountNotVerified = errors.New("account not verified")

	// ErrAccountBanned — аккаунт заблокирован. Транспорт: HTTP 403.
	ErrAccountBanned = errors.New("account banned")

	// ErrAccountClosed — аккаунт закрыт. Транспорт: HTTP 403.
	ErrAccountClosed = errors.New("account closed")
)

// Service описывает бизнес-логику auth-сервиса.
type Service struct {
	storage  storage.Storage
	auth     config.AuthConfig
	password config.PasswordConfig
	rate     config.RateLimitConfig
	attempts limiter.Store
	scache   cache.SessionCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service. attempts обязателен:
// без счётчиков попыток вход работать не должен.
func New(storage storage.Storage, cfg *config.Config, attempts limiter.Store) *Service {
	return &Service{
		storage:  storage,
		auth:     cfg.Auth,
		password: cfg.Password,
		rate:     cfg.RateLimit,
		attempts: attempts,
	}
}

// SetSessionCache устанавливает кэш сессионных токенов (опционально).
func (s *Service) SetSessionCache(c cache.SessionCache) {
	s.scache = c
}
