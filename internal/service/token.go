package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/madcrow/auth-service/internal/cache"
	"github.com/madcrow/auth-service/internal/models"
	"github.com/madcrow/auth-service/internal/pkg/log"
	"github.com/madcrow/auth-service/internal/storage"
)

type accessClaims struct {
	AccountID string `json:"aid"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"adm"`
	jwt.RegisteredClaims
}

// generateAccessToken генерирует access-токен.
func (s *Service) generateAccessToken(ctx context.Context, account *models.Account, now time.Time) (string, error) {
	const op = "service.token.generateAccessToken"

	lg := log.From(ctx)

	claims := accessClaims{
		AccountID: account.ID.String(),
		Email:     account.Email,
		IsAdmin:   account.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.auth.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.auth.Issuer,
			Subject:   account.ID.String(),
			Audience:  jwt.ClaimStrings(s.auth.Audience),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.auth.JWTSecret))
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// ValidateAccess проверяет access-токен и возвращает идентификатор
// аккаунта, email и признак администратора.
func (s *Service) ValidateAccess(accessToken string) (uuid.UUID, string, bool, error) {
	const op = "service.token.ValidateAccess"

	token, err := jwt.ParseWithClaims(accessToken, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.auth.Issuer),
		jwt.WithAudience(s.auth.Audience...),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", false, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, "", false, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", false, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	aid, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return uuid.Nil, "", false, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return aid, claims.Email, claims.IsAdmin, nil
}

// generateSessionToken создаёт новый сессионный токен: 32 случайных байта,
// в БД сохраняется только SHA-256-хэш. Коллизия хэша в БД крайне маловероятна,
// но обрабатывается ретраем.
func (s *Service) generateSessionToken(ctx context.Context, accountID uuid.UUID) (string, error) {
	const (
		op          = "service.token.generateSessionToken"
		maxAttempts = 5
	)

	lg := log.From(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			lg.Error("session_rand_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, err)
		}
		plain := base64.RawURLEncoding.EncodeToString(b)
		hash := hashSessionToken(plain)

		now := time.Now().UTC()
		token := &models.SessionToken{
			TokenHash: hash,
			AccountID: accountID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.auth.RefreshTokenTTL),
			Revoked:   false,
		}

		if err := s.storage.SaveSessionToken(ctx, token); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				// Редкая коллизия — пробуем сгенерировать заново.
				continue
			}

			lg.Error("save_session_token_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, err)
		}

		if s.scache != nil {
			entry := &cache.SessionEntry{
				AccountID: accountID,
				Revoked:   false,
				ExpiresAt: token.ExpiresAt,
			}
			if cerr := s.scache.Set(ctx, hash, entry, s.auth.RefreshTokenTTL); cerr != nil {
				// Кэш — не источник истины; промах записи только логируем.
				lg.Warn("session_cache_set_failed",
					slog.String("op", op),
					slog.String("err", cerr.Error()),
				)
			}
		}

		return plain, nil
	}

	lg.Error("session_collision_exceeded",
		slog.String("op", op),
	)

	return "", fmt.Errorf("%s: %w", op, ErrSessionTokenCollision)
}

// validateSessionToken валидирует сессионный токен: сначала кэш (если есть),
// затем БД. Отозванность из кэша — терминальна; остальное перепроверяется по БД.
func (s *Service) validateSessionToken(ctx context.Context, plain string) (*models.SessionToken, error) {
	const op = "service.token.validateSessionToken"

	lg := log.From(ctx)
	hash := hashSessionToken(plain)

	if s.scache != nil {
		entry, ok, err := s.scache.Get(ctx, hash)
		if err != nil {
			lg.Warn("session_cache_get_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if ok && entry.Revoked {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}
	}

	token, err := s.storage.SessionTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("session_lookup_not_found",
				slog.String("op", op),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("session_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if token.Revoked {
		lg.Warn("session_revoked",
			slog.String("op", op),
			slog.String("account_id", token.AccountID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if time.Now().UTC().After(token.ExpiresAt) {
		lg.Warn("session_expired",
			slog.String("op", op),
			slog.String("account_id", token.AccountID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return token, nil
}

// hashSessionToken возвращает base64url(SHA-256(plain)) — форму,
// в которой токен хранится в БД и в кэше.
func hashSessionToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
