package directory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memState struct {
	users       map[uuid.UUID]User
	logins      map[string]uuid.UUID // lower(login) -> user ID
	invitations map[string]Invitation
	resetTokens map[string]ResetToken
}

func newMemState() *memState {
	return &memState{
		users:       make(map[uuid.UUID]User),
		logins:      make(map[string]uuid.UUID),
		invitations: make(map[string]Invitation),
		resetTokens: make(map[string]ResetToken),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, u := range s.users {
		c.users[id] = copyUser(u)
	}
	for k, v := range s.logins {
		c.logins[k] = v
	}
	for k, v := range s.invitations {
		c.invitations[k] = v
	}
	for k, v := range s.resetTokens {
		c.resetTokens[k] = v
	}
	return c
}

func copyUser(u User) User {
	if u.PasswordHash != nil {
		u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	}
	return u
}

func loginKey(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// InMemoryRepository implements Repository in memory. Transactions work on a
// private copy of the state that replaces the parent's on commit; they are
// serialised by holding the parent lock for their whole duration.
type InMemoryRepository struct {
	mu    sync.Mutex
	state *memState
}

// NewInMemoryRepository creates an empty in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{state: newMemState()}
}

func (r *InMemoryRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &InMemoryRepository{state: r.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	r.state = tx.state
	return nil
}

func (r *InMemoryRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := loginKey(params.Login)
	if key == "" {
		return User{}, ErrMissingLogin
	}
	if _, exists := r.state.logins[key]; exists {
		return User{}, ErrLoginAlreadyExists
	}

	now := time.Now().UTC()
	user := copyUser(User{
		ID:             uuid.New(),
		Login:          params.Login,
		Email:          params.Email,
		Name:           params.Name,
		Lang:           params.Lang,
		PasswordHash:   params.PasswordHash,
		Active:         params.Active,
		CreatedAt:      now,
		LastModifiedAt: now,
	})
	r.state.users[user.ID] = user
	r.state.logins[key] = user.ID
	return copyUser(user), nil
}

func (r *InMemoryRepository) UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.state.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	newKey := loginKey(params.Login)
	if newKey == "" {
		return User{}, ErrMissingLogin
	}
	if owner, exists := r.state.logins[newKey]; exists && owner != id {
		return User{}, ErrLoginAlreadyExists
	}

	delete(r.state.logins, loginKey(user.Login))
	user.Login = params.Login
	user.Email = params.Email
	user.Name = params.Name
	user.Lang = params.Lang
	if params.PasswordHash != nil {
		user.PasswordHash = append([]byte(nil), params.PasswordHash...)
	}
	user.LastModifiedAt = time.Now().UTC()
	r.state.users[id] = user
	r.state.logins[newKey] = id
	return copyUser(user), nil
}

func (r *InMemoryRepository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.state.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *InMemoryRepository) GetUserByLogin(ctx context.Context, login string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.state.logins[loginKey(login)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return copyUser(r.state.users[id]), nil
}

// ListUsers returns all users ordered by login.
func (r *InMemoryRepository) ListUsers(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]User, 0, len(r.state.users))
	for _, u := range r.state.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return loginKey(users[i].Login) < loginKey(users[j].Login) })
	return users, nil
}

func (r *InMemoryRepository) SetPassword(ctx context.Context, id uuid.UUID, hash []byte, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.state.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = append([]byte(nil), hash...)
	user.Active = active
	user.LastModifiedAt = time.Now().UTC()
	r.state.users[id] = user
	return nil
}

func (r *InMemoryRepository) CreateInvitation(ctx context.Context, invitation Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.invitations[invitation.Token] = invitation
	return nil
}

func (r *InMemoryRepository) GetInvitation(ctx context.Context, token string) (Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.state.invitations[token]
	if !ok {
		return Invitation{}, ErrInvitationNotFound
	}
	return inv, nil
}

func (r *InMemoryRepository) MarkInvitationUsed(ctx context.Context, token string, userID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.state.invitations[token]
	if !ok {
		return ErrInvitationNotFound
	}
	inv.UserID = nullUUID(userID)
	inv.UsedAt = &at
	r.state.invitations[token] = inv
	return nil
}

func (r *InMemoryRepository) CreateResetToken(ctx context.Context, token ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.state.users[token.UserID]; !ok {
		return ErrUserNotFound
	}
	r.state.resetTokens[token.Token] = token
	return nil
}

func (r *InMemoryRepository) GetResetToken(ctx context.Context, token string) (ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.state.resetTokens[token]
	if !ok {
		return ResetToken{}, ErrResetTokenNotFound
	}
	return t, nil
}

func (r *InMemoryRepository) MarkResetTokenUsed(ctx context.Context, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.state.resetTokens[token]
	if !ok {
		return ErrResetTokenNotFound
	}
	t.UsedAt = &at
	r.state.resetTokens[token] = t
	return nil
}
