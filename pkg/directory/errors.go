package directory

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrMissingLogin       = errors.New("login is required")
	ErrInvalidSignupToken = errors.New("invalid signup token")
	ErrSignupNotAllowed   = errors.New("signup is not allowed without an invitation")
	ErrUnsupportedLang    = errors.New("unsupported language")
	ErrNoEmail            = errors.New("cannot send email: user has no email address")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrResetTokenNotFound = errors.New("reset token not found")
)
