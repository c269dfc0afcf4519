package directory

import (
	"time"

	"github.com/google/uuid"
)

// User is a record owned by the directory.
type User struct {
	ID             uuid.UUID
	Login          string
	Email          string
	Name           string
	Lang           string
	PasswordHash   []byte
	Active         bool
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// HasPassword reports whether a credential has been set.
func (u User) HasPassword() bool { return len(u.PasswordHash) > 0 }

// SignupValues are the fields a signup may set on a user. An empty Password
// leaves the user without a credential.
type SignupValues struct {
	Login    string
	Email    string
	Name     string
	Lang     string
	Password string
}

// Invitation lets its holder sign up even when uninvited signup is disabled.
type Invitation struct {
	Token     string
	Email     string
	Name      string
	UserID    uuid.NullUUID
	ExpireAt  time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (i Invitation) valid(now time.Time) bool {
	return i.UsedAt == nil && now.Before(i.ExpireAt)
}

// ResetToken is a single-use password reset token.
type ResetToken struct {
	Token     string
	UserID    uuid.UUID
	ExpireAt  time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (t ResetToken) valid(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpireAt)
}

// SignupInfo prefills the signup form for an invitation token.
type SignupInfo struct {
	Token string
	Name  string
	Login string
	Email string
}

// ResetInfo describes the account a reset token belongs to.
type ResetInfo struct {
	Token string
	Login string
	Name  string
}

// CreateUserParams holds the values of a new user.
type CreateUserParams struct {
	Login        string
	Email        string
	Name         string
	Lang         string
	PasswordHash []byte
	Active       bool
}

// UpdateUserParams replaces the signup fields of an existing user. A nil
// PasswordHash keeps the current one.
type UpdateUserParams struct {
	Login        string
	Email        string
	Name         string
	Lang         string
	PasswordHash []byte
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}
