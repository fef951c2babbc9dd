package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionToken — серверная запись о сессионном (refresh) токене.
//
// Открытое значение токена клиенту выдаётся один раз и в БД не хранится —
// хранится только его SHA-256-хэш. Токен валиден, пока не истёк и не отозван;
// оба состояния терминальны, обратного перехода в активное нет.
type SessionToken struct {
	// TokenHash — base64url(SHA-256(открытый токен)).
	TokenHash string
	// AccountID — владелец сессии.
	AccountID uuid.UUID
	// CreatedAt — момент выпуска (UTC).
	CreatedAt time.Time
	// ExpiresAt — момент истечения (UTC); проверяется при каждой валидации.
	ExpiresAt time.Time
	// Revoked — токен отозван (logout/ротация/компрометация).
	Revoked bool
}
