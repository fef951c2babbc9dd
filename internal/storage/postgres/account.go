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

// SaveAccount создает новый аккаунт в БД.
func (s *Storage) SaveAccount(ctx context.Context, account *models.Account) error {
	const op = "storage.postgres.SaveAccount"

	query := `
		INSERT INTO accounts(id, name, email, password_hash, password_salt,
		                     status, is_admin, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.Exec(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		nullIfEmpty(account.PasswordHash),
		nullIfEmpty(account.PasswordSalt),
		string(account.Status),
		account.IsAdmin,
		account.IsDeleted,
		account.CreatedAt,
		account.UpdatedAt,
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

const accountColumns = `
	id, name, email,
	COALESCE(password_hash, ''), COALESCE(password_salt, ''),
	status, is_admin, is_deleted,
	created_at, updated_at, last_login_at, COALESCE(last_login_ip, '')
`

// AccountByEmail находит не удалённый аккаунт по email.
func (s *Storage) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.postgres.AccountByEmail"

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 AND is_deleted = FALSE
	`

	account, err := scanAccount(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return account, nil
}

// AccountByID находит аккаунт по ID.
func (s *Storage) AccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	const op = "storage.postgres.AccountByID"

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	account, err := scanAccount(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return account, nil
}

// UpdateCredential атомарно заменяет пару (хэш, соль) одним UPDATE:
// хэш без соответствующей соли в БД появиться не может.
func (s *Storage) UpdateCredential(ctx context.Context, id uuid.UUID, hash, salt string) error {
	const op = "storage.postgres.UpdateCredential"

	query := `
		UPDATE accounts
		SET password_hash = $2, password_salt = $3, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`

	cmdTag, err := s.db.Exec(ctx, query, id, hash, salt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdateLastLogin фиксирует момент и IP последнего входа.
func (s *Storage) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error {
	const op = "storage.postgres.UpdateLastLogin"

	query := `
		UPDATE accounts
		SET last_login_at = $2, last_login_ip = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id, at, ip)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// scanAccount читает одну строку accounts в модель.
func scanAccount(row pgx.Row) (*models.Account, error) {
	var (
		account models.Account
		status  string
	)

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.PasswordSalt,
		&status,
		&account.IsAdmin,
		&account.IsDeleted,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.LastLoginAt,
		&account.LastLoginIP,
	)
	if err != nil {
		return nil, err
	}

	account.Status = models.AccountStatus(status)
	return &account, nil
}

// nullIfEmpty — пустая строка пишется как NULL (пароль ещё не установлен).
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}
