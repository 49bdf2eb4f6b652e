package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/enkitstudio/restaurant/internal/domain"
	"github.com/enkitstudio/restaurant/pkg/database"
	apperrors "github.com/enkitstudio/restaurant/pkg/errors"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, activated, activation_token, reset_token, roles, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, activated, activation_token, reset_token, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Activated,
		u.ActivationToken,
		u.ResetToken,
		u.Roles,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return apperrors.DuplicateIdentity(field)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(ctx, query, username)
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

// Update overwrites the mutable fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4,
		    activated = $5, activation_token = $6, reset_token = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.pool.Exec(ctx, query,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Activated,
		u.ActivationToken,
		u.ResetToken,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return apperrors.DuplicateIdentity(field)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID.String())
	}

	return nil
}

// SetResetToken overwrites the user's reset token. Any previously issued
// token is invalidated by the overwrite.
func (r *UserRepository) SetResetToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `UPDATE users SET reset_token = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, token, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID.String())
	}

	return nil
}

// ConsumeActivationToken activates the account holding the token and clears
// the token in one transaction. The row lock taken by FOR UPDATE serializes
// concurrent consumers, so a token can only ever be consumed once.
func (r *UserRepository) ConsumeActivationToken(ctx context.Context, token string) (*domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE activation_token = $1 FOR UPDATE`
	u, err := scanUserRow(tx.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.InvalidToken()
		}
		return nil, fmt.Errorf("find user by activation token: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx,
		`UPDATE users SET activated = true, activation_token = NULL, updated_at = $1 WHERE id = $2`,
		now, u.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("consume activation token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	u.Activated = true
	u.ActivationToken = nil
	u.UpdatedAt = now
	return u, nil
}

// ConsumeResetToken rotates the password of the account holding the reset
// token and clears the token in one transaction.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token, newPasswordHash string) (*domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 FOR UPDATE`
	u, err := scanUserRow(tx.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.InvalidToken()
		}
		return nil, fmt.Errorf("find user by reset token: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx,
		`UPDATE users SET password_hash = $1, reset_token = NULL, updated_at = $2 WHERE id = $3`,
		newPasswordHash, now, u.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("consume reset token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	u.PasswordHash = newPasswordHash
	u.ResetToken = nil
	u.UpdatedAt = now
	return u, nil
}

// scanUser executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u, err := scanUserRow(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Activated,
		&u.ActivationToken,
		&u.ResetToken,
		&u.Roles,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// duplicateField maps a unique constraint violation (SQLSTATE 23505) to the
// colliding identity field based on the constraint name.
func duplicateField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return "", false
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return "username", true
	case strings.Contains(pgErr.ConstraintName, "email"):
		return "email", true
	}
	return "identity", true
}
