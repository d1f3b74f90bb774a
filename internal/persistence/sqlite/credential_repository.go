package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/festory/festory/internal/persistence"
)

// CredentialRepository implements persistence.CredentialRepository using SQLite.
type CredentialRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewCredentialRepository creates a new SQLite credential repository.
func NewCredentialRepository(pool *ConnectionPool) *CredentialRepository {
	return &CredentialRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateCredential inserts a new locally registered account.
func (r *CredentialRepository) CreateCredential(ctx context.Context, credential persistence.Credential) error {
	account := normalizeAccount(credential.Account)
	if account == "" || credential.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if credential.CreatedAt.IsZero() {
		credential.CreatedAt = now
	}
	if credential.UpdatedAt.IsZero() {
		credential.UpdatedAt = now
	}

	query := `
		INSERT INTO credentials (account, password_hash, nickname, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		account,
		credential.PasswordHash,
		credential.Nickname,
		credential.CreatedAt.Format(time.RFC3339),
		credential.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetCredential retrieves an account by its normalized name.
func (r *CredentialRepository) GetCredential(ctx context.Context, account string) (persistence.Credential, error) {
	account = normalizeAccount(account)
	if account == "" {
		return persistence.Credential{}, persistence.ErrNotFound
	}

	query := `
		SELECT account, password_hash, nickname, created_at, updated_at
		FROM credentials
		WHERE account = ?
	`
	var (
		credential   persistence.Credential
		createdAtStr string
		updatedAtStr string
	)
	err := r.helper.QueryRow(ctx, query, account).Scan(
		&credential.Account,
		&credential.PasswordHash,
		&credential.Nickname,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Credential{}, persistence.ErrNotFound
		}
		return persistence.Credential{}, r.mapper.MapError(err)
	}

	if credential.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Credential{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if credential.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Credential{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return credential, nil
}

// UpdateCredential replaces the stored hash and nickname for an account.
func (r *CredentialRepository) UpdateCredential(ctx context.Context, credential persistence.Credential) error {
	account := normalizeAccount(credential.Account)
	if account == "" || credential.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE credentials
		SET password_hash = ?, nickname = ?, updated_at = ?
		WHERE account = ?
	`
	result, err := r.helper.Exec(ctx, query,
		credential.PasswordHash,
		credential.Nickname,
		time.Now().UTC().Format(time.RFC3339),
		account,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteCredential removes an account.
func (r *CredentialRepository) DeleteCredential(ctx context.Context, account string) error {
	account = normalizeAccount(account)
	if account == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM credentials WHERE account = ?", account)
	if err != nil {
		return r.mapper.MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// normalizeAccount normalizes account names for consistent storage and lookup.
func normalizeAccount(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}
