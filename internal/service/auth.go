package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/madcrow/auth-service/internal/models"
	"github.com/madcrow/auth-service/internal/pkg/log"
	"github.com/madcrow/auth-service/internal/pkg/redact"
	"github.com/madcrow/auth-service/internal/storage"
)

// RegisterAccount регистрирует новый аккаунт и сразу выпускает пару токенов.
// Аккаунт создаётся активным.
func (s *Service) RegisterAccount(ctx context.Context, name, email, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.RegisterAccount"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.AccountByEmail(ctx, normEmail)
	if err == nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	salt, err := generateSalt(s.password.SaltLength)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        normEmail,
		PasswordHash: s.digest(password, salt),
		PasswordSalt: salt,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokenPair(ctx, account, "")
}

// LoginAccount выполняет вход по email+пароль.
//
// Порядок проверок фиксирован: лимит попыток → поиск аккаунта → статус →
// пароль. Ограниченная identity получает ErrRateLimited до любой проверки
// учётных данных; неудачная попытка по несуществующему email тоже
// учитывается в счётчике.
func (s *Service) LoginAccount(ctx context.Context, email, password, clientIP string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.LoginAccount"

	lg := log.From(ctx)

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.ensureNotLimited(ctx, normEmail); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	account, err := s.storage.AccountByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if rerr := s.recordLoginFailure(ctx, normEmail); rerr != nil {
				return nil, uuid.Nil, fmt.Errorf("%s: %w", op, rerr)
			}

			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := checkAccountStatus(account); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.verifyCredential(account, password)
	if err != nil {
		// Пароль не установлен: наружу неотличимо от неверного пароля.
		if errors.Is(err, ErrCredentialNotSet) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if !ok {
		if rerr := s.recordLoginFailure(ctx, normEmail); rerr != nil {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, rerr)
		}

		lg.Warn("login_failed",
			slog.String("op", op),
			slog.String("email", redact.Email(normEmail)),
			slog.String("ip", redact.IP(clientIP)),
		)

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.recordLoginSuccess(ctx, normEmail); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateLastLogin(ctx, account.ID, time.Now().UTC(), clientIP); err != nil {
		// Вход состоялся; неудача фиксации last-login не должна его ломать.
		lg.Warn("update_last_login_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	return s.issueTokenPair(ctx, account, "")
}

// RefreshSession обновляет пару токенов по сессионному токену с ротацией:
// старый токен атомарно отзывается, новый выпускается.
func (s *Service) RefreshSession(ctx context.Context, sessionToken string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.RefreshSession"

	token, err := s.validateSessionToken(ctx, sessionToken)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	account, err := s.storage.AccountByID(ctx, token.AccountID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := checkAccountStatus(account); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokenPair(ctx, account, hashSessionToken(sessionToken))
}

// RevokeSession отзывает сессионный токен. Операция идемпотентна:
// повторный отзыв и отзыв неизвестного токена завершаются без ошибки —
// наблюдаемое состояние «токен недействителен» уже достигнуто.
func (s *Service) RevokeSession(ctx context.Context, sessionToken string) error {
	const op = "service.auth.RevokeSession"

	hash := hashSessionToken(sessionToken)

	_, err := s.storage.RevokeSessionToken(ctx, hash)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.scache != nil {
		if cerr := s.scache.MarkRevoked(ctx, hash); cerr != nil {
			log.From(ctx).Warn("session_cache_revoke_failed",
				slog.String("op", op),
				slog.String("err", cerr.Error()),
			)
		}
	}

	return nil
}

// RevokeAllSessions отзывает все активные сессии аккаунта («выйти везде»).
// Возвращает число отозванных сессий.
func (s *Service) RevokeAllSessions(ctx context.Context, accountID uuid.UUID) (int64, error) {
	const op = "service.auth.RevokeAllSessions"

	n, err := s.storage.RevokeAccountSessions(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// ChangePassword меняет пароль аккаунта: проверяет текущий, устанавливает
// новый (свежая соль) и отзывает все сессии аккаунта.
func (s *Service) ChangePassword(ctx context.Context, accountID uuid.UUID, current, newPassword string) error {
	const op = "service.auth.ChangePassword"

	account, err := s.storage.AccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.verifyCredential(account, current)
	if err != nil {
		if errors.Is(err, ErrCredentialNotSet) {
			return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.SetCredential(ctx, accountID, newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.RevokeAllSessions(ctx, accountID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Profile возвращает аккаунт для отображения профиля.
func (s *Service) Profile(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	const op = "service.auth.Profile"

	account, err := s.storage.AccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return account, nil
}

// issueTokenPair выпускает новую пару access+session токенов.
// Если oldSessionHash != "", пытается атомарно отозвать старый сессионный токен.
func (s *Service) issueTokenPair(ctx context.Context, account *models.Account, oldSessionHash string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, account, now)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if oldSessionHash != "" {
		revoked, err := s.storage.RevokeSessionToken(ctx, oldSessionHash)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		if !revoked {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}

		if s.scache != nil {
			if cerr := s.scache.MarkRevoked(ctx, oldSessionHash); cerr != nil {
				log.From(ctx).Warn("session_cache_revoke_failed",
					slog.String("op", op),
					slog.String("err", cerr.Error()),
				)
			}
		}
	}

	if s.auth.SingleSession {
		if _, err := s.storage.RevokeAccountSessions(ctx, account.ID); err != nil {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	plain, err := s.generateSessionToken(ctx, account.ID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    plain,
		AccessExpiresAt: now.Add(s.auth.AccessTokenTTL),
	}, account.ID, nil
}

// checkAccountStatus отображает статус аккаунта на доменную ошибку.
// Удалённый аккаунт наружу неотличим от несуществующего.
func checkAccountStatus(account *models.Account) error {
	if account.IsDeleted {
		return ErrInvalidCredentials
	}

	switch account.Status {
	case models.StatusActive:
		return nil
	case models.StatusPending:
		return ErrAccountNotVerified
	case models.StatusBanned:
		return ErrAccountBanned
	case models.StatusClosed:
		return ErrAccountClosed
	default:
		return ErrInvalidCredentials
	}
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}
