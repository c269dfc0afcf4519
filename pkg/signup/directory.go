package signup

import (
	"context"

	"github.com/tendant/signup-verify-email/pkg/directory"
)

// Tx is what a signup may do inside one atomic scope.
type Tx interface {
	Signup(ctx context.Context, values directory.SignupValues, token string) (string, error)
	ResetPassword(ctx context.Context, login string) error
	CompleteReset(ctx context.Context, token, password string) error
}

// Directory is the user directory as seen by the signup pages.
type Directory interface {
	// Atomic commits every write fn makes, or none when fn fails.
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	SignupInfo(ctx context.Context, token string) (directory.SignupInfo, error)
	ResetInfo(ctx context.Context, token string) (directory.ResetInfo, error)
}

type serviceDirectory struct {
	*directory.DirectoryService
}

// NewDirectory adapts a DirectoryService to Directory.
func NewDirectory(svc *directory.DirectoryService) Directory {
	return serviceDirectory{DirectoryService: svc}
}

func (d serviceDirectory) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	return d.DirectoryService.Atomic(ctx, func(tx *directory.DirectoryService) error {
		return fn(tx)
	})
}
