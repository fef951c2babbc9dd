package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/madcrow/auth-service/internal/config"
	"github.com/madcrow/auth-service/internal/models"
)

// SetCredential устанавливает аккаунту новый пароль: проверяет политику,
// генерирует свежую соль и атомарно заменяет пару (хэш, соль) в БД.
// Прежняя соль никогда не переиспользуется.
func (s *Service) SetCredential(ctx context.Context, accountID uuid.UUID, password string) error {
	const op = "service.credential.SetCredential"

	if err := validatePassword(password); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	salt, err := generateSalt(s.password.SaltLength)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	hash := s.digest(password, salt)

	if err := s.storage.UpdateCredential(ctx, accountID, hash, salt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// verifyCredential сравнивает пароль с сохранённой парой (хэш, соль).
// Несовпадение — это false, а не ошибка; ошибка означает, что проверку
// провести не удалось (нет учётных данных).
func (s *Service) verifyCredential(account *models.Account, password string) (bool, error) {
	const op = "service.credential.verifyCredential"

	if !account.IsPasswordSet() {
		return false, fmt.Errorf("%s: %w", op, ErrCredentialNotSet)
	}

	computed := s.digest(password, account.PasswordSalt)

	return subtle.ConstantTimeCompare([]byte(computed), []byte(account.PasswordHash)) == 1, nil
}

// digest вычисляет хэш пароля по сконфигурированной схеме.
// Схема sha256 оставлена только для данных, мигрированных со старой
// версии системы; по умолчанию используется argon2id.
func (s *Service) digest(password, salt string) string {
	switch s.password.Scheme {
	case config.SchemeSHA256:
		sum := sha256.Sum256([]byte(password + salt))
		return hex.EncodeToString(sum[:])
	default:
		key := argon2.IDKey(
			[]byte(password),
			[]byte(salt),
			s.password.Argon2Time,
			s.password.Argon2MemoryK, // уже в KiB, как и параметр memory у argon2.IDKey
			s.password.Argon2Threads,
			s.password.Argon2KeyLen,
		)
		return base64.RawStdEncoding.EncodeToString(key)
	}
}

// generateSalt возвращает n случайных байт в base64.
func generateSalt(n int) (string, error) {
	const op = "service.credential.generateSalt"

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// validatePassword проверяет политику: длина от 8 до 128 символов,
// хотя бы одна буква и хотя бы одна цифра.
func validatePassword(pw string) error {
	const op = "service.credential.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	runes := []rune(pw)
	if len(runes) < 8 || len(runes) > 128 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLetter, hasDigit bool
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
