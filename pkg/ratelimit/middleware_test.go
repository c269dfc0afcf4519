package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("boom")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestPerIP(t *testing.T) {
	h := PerIP(NewRateLimiter(2, 0.001, 0))(okHandler())

	post := func(addr string) int {
		r := httptest.NewRequest(http.MethodPost, "/web/signup", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, post("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, post("10.0.0.2:1000"))

	// GET is never limited
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodGet, "/web/signup", nil)
		r.RemoteAddr = "10.0.0.1:1000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestPerIP_LimiterErrorPassesThrough(t *testing.T) {
	h := PerIP(brokenLimiter{})(okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/web/signup", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", clientIP(r))
	r.RemoteAddr = "192.0.2.1"
	assert.Equal(t, "192.0.2.1", clientIP(r))
}
