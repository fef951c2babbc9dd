package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/madcrow/auth-service/internal/models"
	"github.com/madcrow/auth-service/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SaveSessionToken сохраняет новый сессионный токен в БД.
func (s *Storage) SaveSessionToken(ctx context.Context, token *models.SessionToken) error {
	const op = "storage.postgres.SaveSessionToken"

	query := `
        INSERT INTO session_tokens(token_hash, account_id, created_at, expires_at, revoked)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := s.db.Exec(ctx, query,
		token.TokenHash,
		token.AccountID,
		token.CreatedAt,
		token.ExpiresAt,
		token.Revoked,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SessionTokenByHash находит сессионный токен по его хэшу.
func (s *Storage) SessionTokenByHash(ctx context.Context, hash string) (*models.SessionToken, error) {
	const op = "storage.postgres.SessionTokenByHash"

	query := `
        SELECT token_hash, account_id, created_at, expires_at, revoked
        FROM session_tokens
        WHERE token_hash = $1
    `

	var token models.SessionToken
	err := s.db.QueryRow(ctx, query, hash).Scan(
		&token.TokenHash,
		&token.AccountID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.Revoked,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &token, nil
}

// RevokeSessionToken пытается отозвать токен, если он ещё не был отозван.
// Возвращает:
//
//	(true, nil)  — токен был активен и успешно отозван сейчас;
//	(false, nil) — токен существует, но уже был отозван;
//	(false, ErrNotFound) — токен не найден.
func (s *Storage) RevokeSessionToken(ctx context.Context, hash string) (bool, error) {
	const op = "storage.postgres.RevokeSessionToken"

	const upd = `
		UPDATE session_tokens
		SET revoked = TRUE
		WHERE token_hash = $1 AND revoked = FALSE
		RETURNING account_id
	`

	var accountID string
	err := s.db.QueryRow(ctx, upd, hash).Scan(&accountID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	const sel = `
		SELECT revoked
		FROM session_tokens
		WHERE token_hash = $1
	`

	var revoked bool
	err = s.db.QueryRow(ctx, sel, hash).Scan(&revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return false, nil
}

// RevokeAccountSessions отзывает все активные сессии аккаунта (logout everywhere).
func (s *Storage) RevokeAccountSessions(ctx context.Context, accountID uuid.UUID) (int64, error) {
	const op = "storage.postgres.RevokeAccountSessions"

	query := `
        UPDATE session_tokens
        SET revoked = TRUE
        WHERE account_id = $1 AND revoked = FALSE
    `

	cmdTag, err := s.db.Exec(ctx, query, accountID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}

// DeleteExpiredSessions удаляет все просроченные токены.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	const op = "storage.postgres.DeleteExpiredSessions"

	query := `
        DELETE FROM session_tokens
        WHERE expires_at <= $1
    `

	_, err := s.db.Exec(ctx, query, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
