package session

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueToken(t *testing.T, c *CSRF) (string, []*http.Cookie) {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/web/signup", nil)
	token, err := c.Token(w, r)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token, w.Result().Cookies()
}

func postForm(token string, cookies []*http.Cookie) *http.Request {
	form := url.Values{FormField: {token}, "login": {"a@example.com"}}
	r := httptest.NewRequest(http.MethodPost, "/web/signup", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		r.AddCookie(cookie)
	}
	return r
}

func TestTokenIsStable(t *testing.T) {
	c := NewCSRF("secret", Options{})
	token, cookies := issueToken(t, c)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/web/signup", nil)
	for _, cookie := range cookies {
		r.AddCookie(cookie)
	}
	again, err := c.Token(w, r)
	require.NoError(t, err)
	assert.Equal(t, token, again)
}

func TestVerify(t *testing.T) {
	c := NewCSRF("secret", Options{})
	token, cookies := issueToken(t, c)

	assert.NoError(t, c.Verify(postForm(token, cookies), token))
	assert.ErrorIs(t, c.Verify(postForm(token, cookies), "forged"), ErrInvalidCSRFToken)
	assert.ErrorIs(t, c.Verify(postForm(token, nil), token), ErrInvalidCSRFToken)
	assert.ErrorIs(t, c.Verify(postForm("", cookies), ""), ErrInvalidCSRFToken)

	other := NewCSRF("another secret", Options{})
	assert.ErrorIs(t, other.Verify(postForm(token, cookies), token), ErrInvalidCSRFToken)
}

func TestProtect(t *testing.T) {
	c := NewCSRF("secret", Options{})
	token, cookies := issueToken(t, c)

	called := 0
	h := c.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/web/signup?login=a@example.com", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, postForm(token, cookies))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, postForm("forged", cookies))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Session expired (invalid CSRF token)")

	assert.Equal(t, 2, called)
}
