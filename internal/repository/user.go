package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User is an application user row
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Role         sql.NullString
	CreatedAt    sql.NullTime
	UpdatedAt    sql.NullTime
}

// RefreshToken is a stored (hashed) refresh token row
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	UserAgent sql.NullString
	IpAddress sql.NullString
	CreatedAt sql.NullTime
}

// CreateUserParams carries the fields for user creation
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	Role         sql.NullString
}

const createUser = `
INSERT INTO users (email, password_hash, name, role)
VALUES ($1, $2, $3, $4)
RETURNING id, email, password_hash, name, role, created_at, updated_at
`

// CreateUser inserts a user; duplicate emails surface as a pq unique violation
func (q *Queries) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, createUser,
		params.Email, params.PasswordHash, params.Name, params.Role,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, password_hash, name, role, created_at, updated_at
FROM users WHERE email = $1
`

// GetUserByEmail fetches a user by (lowercased) email; sql.ErrNoRows when absent
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, password_hash, name, role, created_at, updated_at
FROM users WHERE id = $1
`

// GetUserByID fetches a user by id; sql.ErrNoRows when absent
func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByID, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateRefreshTokenParams carries the fields for storing a refresh token
type CreateRefreshTokenParams struct {
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	UserAgent sql.NullString
	IpAddress sql.NullString
}

const createRefreshToken = `
INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip_address)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, token_hash, expires_at, revoked, user_agent, ip_address, created_at
`

// CreateRefreshToken stores a hashed refresh token
func (q *Queries) CreateRefreshToken(ctx context.Context, params CreateRefreshTokenParams) (RefreshToken, error) {
	var t RefreshToken
	err := q.db.QueryRowContext(ctx, createRefreshToken,
		params.UserID, params.TokenHash, params.ExpiresAt, params.UserAgent, params.IpAddress,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Revoked, &t.UserAgent, &t.IpAddress, &t.CreatedAt)
	return t, err
}

const getRefreshTokenByHash = `
SELECT id, user_id, token_hash, expires_at, revoked, user_agent, ip_address, created_at
FROM refresh_tokens
WHERE token_hash = $1 AND revoked = FALSE AND expires_at > NOW()
`

// GetRefreshTokenByHash fetches a live (unrevoked, unexpired) refresh token;
// sql.ErrNoRows when there is none
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (RefreshToken, error) {
	var t RefreshToken
	err := q.db.QueryRowContext(ctx, getRefreshTokenByHash, tokenHash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Revoked, &t.UserAgent, &t.IpAddress, &t.CreatedAt)
	return t, err
}

const revokeRefreshToken = `
UPDATE refresh_tokens SET revoked = TRUE WHERE token_hash = $1
`

// RevokeRefreshToken marks one refresh token as revoked
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx, revokeRefreshToken, tokenHash)
	return err
}

const revokeUserRefreshTokens = `
UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE
`

// RevokeUserRefreshTokens revokes every live refresh token of one user (logout)
func (q *Queries) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, revokeUserRefreshTokens, userID)
	return err
}
