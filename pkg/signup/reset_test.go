package signup

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func resetToken(t *testing.T, env *testEnv) string {
	t.Helper()
	sent := env.mock.Sent()
	require.NotEmpty(t, sent)
	link := sent[len(sent)-1].Data["Link"]
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestResetPasswordAfterPasswordlessSignup(t *testing.T) {
	env := newTestEnv(t)
	env.post(t, "/web/signup", url.Values{"login": {"reset@example.com"}})
	token := resetToken(t, env)

	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/web/reset_password?token="+token, nil))
	body := w.Body.String()
	assert.Contains(t, body, "reset@example.com")
	assert.Contains(t, body, `name="token" value="`+token+`"`)

	w = env.post(t, "/web/reset_password", url.Values{"token": {token}, "password": {"pw1"}, "confirm_password": {"pw2"}})
	assert.Contains(t, w.Body.String(), "Passwords do not match; please retype them.")

	w = env.post(t, "/web/reset_password", url.Values{"token": {token}, "password": {"n3w"}, "confirm_password": {"n3w"}})
	assert.Contains(t, w.Body.String(), "Your password has been set. You can now log in.")

	users := env.users(t)
	require.Len(t, users, 1)
	assert.True(t, users[0].Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword(users[0].PasswordHash, []byte("n3w")))

	w = env.post(t, "/web/reset_password", url.Values{"token": {token}, "password": {"x"}, "confirm_password": {"x"}})
	assert.Contains(t, w.Body.String(), "Invalid or expired reset token.")
}

func TestResetPasswordInvalidToken(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/web/reset_password?token=nope", nil))
	body := w.Body.String()
	assert.Contains(t, body, "Invalid or expired reset token.")
	assert.NotContains(t, body, `name="token"`)
}

func TestRequestResetDoesNotRevealAccounts(t *testing.T) {
	env := newTestEnv(t)
	env.post(t, "/web/signup", url.Values{"login": {"known@example.com"}})
	require.Len(t, env.mock.Sent(), 1)

	known := env.post(t, "/web/reset_password", url.Values{"login": {"known@example.com"}})
	unknown := env.post(t, "/web/reset_password", url.Values{"login": {"unknown@example.com"}})

	const msg = "If an account exists for this address, an email has been sent."
	assert.Contains(t, known.Body.String(), msg)
	assert.Contains(t, unknown.Body.String(), msg)
	assert.Equal(t, known.Code, unknown.Code)
	assert.Len(t, env.mock.Sent(), 2)
}

func TestResetPasswordEmptyPost(t *testing.T) {
	env := newTestEnv(t)
	w := env.post(t, "/web/reset_password", url.Values{})
	assert.True(t, strings.Contains(w.Body.String(), "The form was not properly filled in."))
}
