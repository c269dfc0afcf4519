package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/signup-verify-email/pkg/notification"
)

type failingSender struct{}

func (failingSender) Send(notification.NoticeType, notification.NotificationData) error {
	return errors.New("delivery failed")
}

func TestInMemoryRepository_Users(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, CreateUserParams{Login: "Mixed@Example.com", Lang: "en_US", PasswordHash: []byte("hash")})
	require.NoError(t, err)

	// returned hash must not alias the stored one
	user.PasswordHash[0] = 'X'
	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hash"), stored.PasswordHash)

	_, err = repo.CreateUser(ctx, CreateUserParams{Login: "mixed@example.com"})
	assert.ErrorIs(t, err, ErrLoginAlreadyExists)
	_, err = repo.CreateUser(ctx, CreateUserParams{Login: ""})
	assert.ErrorIs(t, err, ErrMissingLogin)

	other, err := repo.CreateUser(ctx, CreateUserParams{Login: "other@example.com"})
	require.NoError(t, err)
	_, err = repo.UpdateUser(ctx, other.ID, UpdateUserParams{Login: "MIXED@example.com"})
	assert.ErrorIs(t, err, ErrLoginAlreadyExists)

	updated, err := repo.UpdateUser(ctx, other.ID, UpdateUserParams{Login: "renamed@example.com", Lang: "fr_FR"})
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", updated.Login)
	_, err = repo.GetUserByLogin(ctx, "other@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, repo.SetPassword(ctx, other.ID, []byte("new"), true))
	got, err := repo.GetUserByLogin(ctx, "renamed@example.com")
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.True(t, got.HasPassword())

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Mixed@Example.com", users[0].Login)
}

func TestInMemoryRepository_WithTx(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	err := repo.WithTx(ctx, func(tx Repository) error {
		_, err := tx.CreateUser(ctx, CreateUserParams{Login: "committed@example.com"})
		return err
	})
	require.NoError(t, err)

	err = repo.WithTx(ctx, func(tx Repository) error {
		if _, err := tx.CreateUser(ctx, CreateUserParams{Login: "discarded@example.com"}); err != nil {
			return err
		}
		u, err := tx.GetUserByLogin(ctx, "committed@example.com")
		if err != nil {
			return err
		}
		if err := tx.SetPassword(ctx, u.ID, []byte("pw"), true); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = repo.GetUserByLogin(ctx, "discarded@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	u, err := repo.GetUserByLogin(ctx, "committed@example.com")
	require.NoError(t, err)
	assert.False(t, u.HasPassword())
}

func TestInMemoryRepository_WithTxCanceled(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := repo.WithTx(ctx, func(Repository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestInMemoryRepository_Tokens(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	err := repo.CreateResetToken(ctx, ResetToken{Token: "t", ExpireAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetResetToken(ctx, "t")
	assert.ErrorIs(t, err, ErrResetTokenNotFound)
	assert.ErrorIs(t, repo.MarkResetTokenUsed(ctx, "t", time.Now()), ErrResetTokenNotFound)

	_, err = repo.GetInvitation(ctx, "i")
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}
