package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository stores users, invitations and reset tokens. Logins are unique
// case-insensitively; CreateUser and UpdateUser return ErrLoginAlreadyExists
// on conflict.
type Repository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByLogin(ctx context.Context, login string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetPassword(ctx context.Context, id uuid.UUID, hash []byte, active bool) error

	CreateInvitation(ctx context.Context, invitation Invitation) error
	GetInvitation(ctx context.Context, token string) (Invitation, error)
	MarkInvitationUsed(ctx context.Context, token string, userID uuid.UUID, at time.Time) error

	CreateResetToken(ctx context.Context, token ResetToken) error
	GetResetToken(ctx context.Context, token string) (ResetToken, error)
	MarkResetTokenUsed(ctx context.Context, token string, at time.Time) error

	// WithTx runs fn against a repository bound to one transaction. Every
	// write made through it is discarded when fn returns an error.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
