package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/tendant/signup-verify-email/pkg/notification"
	"github.com/tendant/signup-verify-email/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultResetTokenExpiration = 24 * time.Hour
	DefaultInvitationExpiration = 7 * 24 * time.Hour
	tokenLength                 = 32
)

// Sender delivers notices; *notification.NotificationManager implements it.
type Sender interface {
	Send(noticeType notification.NoticeType, data notification.NotificationData) error
}

// DirectoryService creates users from signups, issues invitations and
// password reset tokens, and runs them inside atomic scopes.
type DirectoryService struct {
	repo                 Repository
	sender               Sender
	baseUrl              string
	allowUninvited       bool
	resetExpiration      time.Duration
	invitationExpiration time.Duration
	langs                []string
	defaultLang          string
	now                  func() time.Time
}

// Option configures a DirectoryService
type Option func(*DirectoryService)

// NewDirectoryService creates a new DirectoryService with the given options
func NewDirectoryService(repo Repository, sender Sender, opts ...Option) *DirectoryService {
	s := &DirectoryService{
		repo:                 repo,
		sender:               sender,
		resetExpiration:      DefaultResetTokenExpiration,
		invitationExpiration: DefaultInvitationExpiration,
		langs:                []string{"en_US"},
		defaultLang:          "en_US",
		now:                  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithBaseUrl sets the public URL used in emailed links
func WithBaseUrl(baseUrl string) Option {
	return func(s *DirectoryService) {
		s.baseUrl = strings.TrimSuffix(baseUrl, "/")
	}
}

// WithAllowUninvited allows signups without an invitation token
func WithAllowUninvited(allow bool) Option {
	return func(s *DirectoryService) {
		s.allowUninvited = allow
	}
}

// WithResetTokenExpiration sets how long reset links stay valid
func WithResetTokenExpiration(d time.Duration) Option {
	return func(s *DirectoryService) {
		if d > 0 {
			s.resetExpiration = d
		}
	}
}

// WithInvitationExpiration sets how long invitations stay valid
func WithInvitationExpiration(d time.Duration) Option {
	return func(s *DirectoryService) {
		if d > 0 {
			s.invitationExpiration = d
		}
	}
}

// WithLangs sets the accepted user languages; the first one is the default
func WithLangs(langs ...string) Option {
	return func(s *DirectoryService) {
		if len(langs) > 0 {
			s.langs = append([]string(nil), langs...)
			s.defaultLang = langs[0]
		}
	}
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *DirectoryService) {
		s.now = now
	}
}

// Atomic runs fn with a service bound to a single transaction. Either every
// write fn makes is committed or none is.
func (s *DirectoryService) Atomic(ctx context.Context, fn func(tx *DirectoryService) error) error {
	return s.repo.WithTx(ctx, func(repo Repository) error {
		tx := *s
		tx.repo = repo
		return fn(&tx)
	})
}

// Signup creates or updates the user described by values. With a non-empty
// token the matching invitation is consumed; without one uninvited signup
// must be allowed. It returns the login of the resulting user.
func (s *DirectoryService) Signup(ctx context.Context, values SignupValues, token string) (string, error) {
	values.Login = strings.TrimSpace(values.Login)
	if values.Login == "" {
		return "", ErrMissingLogin
	}
	if values.Lang == "" {
		values.Lang = s.defaultLang
	}
	if !s.supportedLang(values.Lang) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLang, values.Lang)
	}

	var hash []byte
	if values.Password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(values.Password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if token != "" {
		return s.signupWithToken(ctx, values, hash, token)
	}

	if !s.allowUninvited {
		return "", ErrSignupNotAllowed
	}
	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Login:        values.Login,
		Email:        values.Email,
		Name:         values.Name,
		Lang:         values.Lang,
		PasswordHash: hash,
		Active:       hash != nil,
	})
	if err != nil {
		return "", err
	}
	slog.Info("User created", "user_id", user.ID, "login", utils.MaskEmail(user.Login))
	return user.Login, nil
}

func (s *DirectoryService) signupWithToken(ctx context.Context, values SignupValues, hash []byte, token string) (string, error) {
	inv, err := s.validInvitation(ctx, token)
	if err != nil {
		return "", err
	}
	if values.Name == "" {
		values.Name = inv.Name
	}

	var user User
	if inv.UserID.Valid {
		user, err = s.repo.UpdateUser(ctx, inv.UserID.UUID, UpdateUserParams{
			Login:        values.Login,
			Email:        values.Email,
			Name:         values.Name,
			Lang:         values.Lang,
			PasswordHash: hash,
		})
	} else {
		user, err = s.repo.CreateUser(ctx, CreateUserParams{
			Login:        values.Login,
			Email:        values.Email,
			Name:         values.Name,
			Lang:         values.Lang,
			PasswordHash: hash,
			Active:       hash != nil,
		})
	}
	if err != nil {
		return "", err
	}

	if err := s.repo.MarkInvitationUsed(ctx, token, user.ID, s.now()); err != nil {
		return "", fmt.Errorf("failed to consume invitation: %w", err)
	}
	slog.Info("User signed up with invitation", "user_id", user.ID, "login", utils.MaskEmail(user.Login))
	return user.Login, nil
}

func (s *DirectoryService) validInvitation(ctx context.Context, token string) (Invitation, error) {
	inv, err := s.repo.GetInvitation(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvitationNotFound) {
			return Invitation{}, ErrInvalidSignupToken
		}
		return Invitation{}, err
	}
	if !inv.valid(s.now()) {
		return Invitation{}, ErrInvalidSignupToken
	}
	return inv, nil
}

// SignupInfo returns the values an invitation token prefills.
func (s *DirectoryService) SignupInfo(ctx context.Context, token string) (SignupInfo, error) {
	inv, err := s.validInvitation(ctx, token)
	if err != nil {
		return SignupInfo{}, err
	}
	return SignupInfo{Token: inv.Token, Name: inv.Name, Login: inv.Email, Email: inv.Email}, nil
}

// ResetPassword issues a reset token for login and emails the reset link.
// A delivery failure is returned so the caller's atomic scope rolls back.
func (s *DirectoryService) ResetPassword(ctx context.Context, login string) error {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		return err
	}
	if user.Email == "" {
		return ErrNoEmail
	}

	value, err := utils.GenerateRandomString(tokenLength)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	now := s.now()
	token := ResetToken{
		Token:     value,
		UserID:    user.ID,
		ExpireAt:  now.Add(s.resetExpiration),
		CreatedAt: now,
	}
	if err := s.repo.CreateResetToken(ctx, token); err != nil {
		slog.Error("Failed to save reset token", "err", err)
		return err
	}

	return s.sender.Send(notification.PasswordResetNotice, notification.NotificationData{
		To: user.Email,
		Data: map[string]string{
			"Name":     user.Name,
			"Login":    user.Login,
			"Link":     s.link("/web/reset_password", value),
			"ExpireAt": token.ExpireAt.Format("2006-01-02 15:04 MST"),
		},
	})
}

// ResetInfo describes the account a valid reset token belongs to.
func (s *DirectoryService) ResetInfo(ctx context.Context, token string) (ResetInfo, error) {
	t, user, err := s.validResetToken(ctx, token)
	if err != nil {
		return ResetInfo{}, err
	}
	return ResetInfo{Token: t.Token, Login: user.Login, Name: user.Name}, nil
}

// CompleteReset sets the password of the token's user, activates the account
// and consumes the token.
func (s *DirectoryService) CompleteReset(ctx context.Context, token, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	t, user, err := s.validResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.SetPassword(ctx, user.ID, hash, true); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.repo.MarkResetTokenUsed(ctx, t.Token, s.now()); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	slog.Info("Password set", "user_id", user.ID)
	return nil
}

func (s *DirectoryService) validResetToken(ctx context.Context, token string) (ResetToken, User, error) {
	if token == "" {
		return ResetToken{}, User{}, ErrInvalidResetToken
	}
	t, err := s.repo.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrResetTokenNotFound) {
			return ResetToken{}, User{}, ErrInvalidResetToken
		}
		return ResetToken{}, User{}, err
	}
	if !t.valid(s.now()) {
		return ResetToken{}, User{}, ErrInvalidResetToken
	}
	user, err := s.repo.GetUserByID(ctx, t.UserID)
	if err != nil {
		return ResetToken{}, User{}, err
	}
	return t, user, nil
}

// CreateInvitation stores a new invitation for email and sends it.
func (s *DirectoryService) CreateInvitation(ctx context.Context, email, name string) (Invitation, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Invitation{}, ErrMissingLogin
	}
	value, err := utils.GenerateRandomString(tokenLength)
	if err != nil {
		return Invitation{}, fmt.Errorf("failed to generate invitation token: %w", err)
	}
	now := s.now()
	inv := Invitation{
		Token:     value,
		Email:     email,
		Name:      name,
		ExpireAt:  now.Add(s.invitationExpiration),
		CreatedAt: now,
	}
	if err := s.repo.CreateInvitation(ctx, inv); err != nil {
		return Invitation{}, err
	}
	err = s.sender.Send(notification.SignupInvitationNotice, notification.NotificationData{
		To: email,
		Data: map[string]string{
			"Name":     name,
			"Link":     s.link("/web/signup", value),
			"ExpireAt": inv.ExpireAt.Format("2006-01-02 15:04 MST"),
		},
	})
	if err != nil {
		return Invitation{}, err
	}
	return inv, nil
}

// GetUserByLogin looks a user up case-insensitively.
func (s *DirectoryService) GetUserByLogin(ctx context.Context, login string) (User, error) {
	return s.repo.GetUserByLogin(ctx, login)
}

// ListUsers returns every user.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *DirectoryService) supportedLang(lang string) bool {
	for _, l := range s.langs {
		if l == lang {
			return true
		}
	}
	return false
}

func (s *DirectoryService) link(path, token string) string {
	return s.baseUrl + path + "?token=" + url.QueryEscape(token)
}
