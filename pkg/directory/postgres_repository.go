package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tendant/signup-verify-email/pkg/utils"
)

// Schema creates the tables used by PostgresRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS signup_users (
	id               uuid PRIMARY KEY,
	login            text NOT NULL,
	email            text,
	name             text NOT NULL DEFAULT '',
	lang             text NOT NULL DEFAULT 'en_US',
	password_hash    bytea,
	active           boolean NOT NULL DEFAULT false,
	created_at       timestamptz NOT NULL DEFAULT now(),
	last_modified_at timestamptz NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS signup_users_login_key ON signup_users (lower(login));

CREATE TABLE IF NOT EXISTS signup_invitations (
	token      text PRIMARY KEY,
	email      text NOT NULL,
	name       text NOT NULL DEFAULT '',
	user_id    uuid REFERENCES signup_users (id) ON DELETE SET NULL,
	expire_at  timestamptz NOT NULL,
	used_at    timestamptz,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS password_reset_tokens (
	token      text PRIMARY KEY,
	user_id    uuid NOT NULL REFERENCES signup_users (id) ON DELETE CASCADE,
	expire_at  timestamptz NOT NULL,
	used_at    timestamptz,
	created_at timestamptz NOT NULL DEFAULT now()
);
`

const uniqueViolation = "23505"

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a repository on a pool, connection or transaction
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate applies Schema.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply signup schema: %w", err)
	}
	return nil
}

// WithTx begins a transaction, or a savepoint when the repository is already
// bound to one, and commits it when fn succeeds.
func (r *PostgresRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&PostgresRepository{db: tx})
	})
}

const userColumns = `id, login, email, name, lang, password_hash, active, created_at, last_modified_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var email sql.NullString
	err := row.Scan(&u.ID, &u.Login, &email, &u.Name, &u.Lang, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.LastModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	u.Email = email.String
	return u, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrLoginAlreadyExists, pgErr.ConstraintName)
	}
	return err
}

func (r *PostgresRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if loginKey(params.Login) == "" {
		return User{}, ErrMissingLogin
	}
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx, `
		INSERT INTO signup_users (id, login, email, name, lang, password_hash, active, created_at, last_modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING `+userColumns,
		uuid.New(), params.Login, utils.ToNullString(params.Email), params.Name, params.Lang, params.PasswordHash, params.Active, now,
	)
	user, err := scanUser(row)
	if err != nil {
		return User{}, mapWriteError(err)
	}
	return user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (User, error) {
	if loginKey(params.Login) == "" {
		return User{}, ErrMissingLogin
	}
	row := r.db.QueryRow(ctx, `
		UPDATE signup_users
		SET login = $2, email = $3, name = $4, lang = $5,
		    password_hash = COALESCE($6, password_hash),
		    last_modified_at = $7
		WHERE id = $1
		RETURNING `+userColumns,
		id, params.Login, utils.ToNullString(params.Email), params.Name, params.Lang, params.PasswordHash, time.Now().UTC(),
	)
	user, err := scanUser(row)
	if err != nil {
		return User{}, mapWriteError(err)
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM signup_users WHERE id = $1`, id))
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, login string) (User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM signup_users WHERE lower(login) = lower($1)`, login))
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM signup_users ORDER BY lower(login)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) SetPassword(ctx context.Context, id uuid.UUID, hash []byte, active bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE signup_users SET password_hash = $2, active = $3, last_modified_at = $4 WHERE id = $1`,
		id, hash, active, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateInvitation(ctx context.Context, invitation Invitation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO signup_invitations (token, email, name, user_id, expire_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		invitation.Token, invitation.Email, invitation.Name, invitation.UserID, invitation.ExpireAt, invitation.UsedAt, invitation.CreatedAt)
	return err
}

func (r *PostgresRepository) GetInvitation(ctx context.Context, token string) (Invitation, error) {
	var inv Invitation
	err := r.db.QueryRow(ctx, `
		SELECT token, email, name, user_id, expire_at, used_at, created_at
		FROM signup_invitations WHERE token = $1`, token).
		Scan(&inv.Token, &inv.Email, &inv.Name, &inv.UserID, &inv.ExpireAt, &inv.UsedAt, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invitation{}, ErrInvitationNotFound
	}
	return inv, err
}

func (r *PostgresRepository) MarkInvitationUsed(ctx context.Context, token string, userID uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE signup_invitations SET user_id = $2, used_at = $3 WHERE token = $1`, token, userID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateResetToken(ctx context.Context, token ResetToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO password_reset_tokens (token, user_id, expire_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		token.Token, token.UserID, token.ExpireAt, token.UsedAt, token.CreatedAt)
	return err
}

func (r *PostgresRepository) GetResetToken(ctx context.Context, token string) (ResetToken, error) {
	var t ResetToken
	err := r.db.QueryRow(ctx, `
		SELECT token, user_id, expire_at, used_at, created_at
		FROM password_reset_tokens WHERE token = $1`, token).
		Scan(&t.Token, &t.UserID, &t.ExpireAt, &t.UsedAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ResetToken{}, ErrResetTokenNotFound
	}
	return t, err
}

func (r *PostgresRepository) MarkResetTokenUsed(ctx context.Context, token string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE password_reset_tokens SET used_at = $2 WHERE token = $1 AND used_at IS NULL`, token, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrResetTokenNotFound
	}
	return nil
}
