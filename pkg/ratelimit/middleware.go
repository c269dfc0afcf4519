package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
)

// PerIP limits unsafe requests by client address. GET requests pass through.
// A limiter error lets the request through; it is logged.
func PerIP(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), r.URL.Path+"|"+ip)
			if err != nil {
				slog.Error("Rate limiter failed", "error", err, "ip", ip)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "method", r.Method)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port of RemoteAddr. Proxy headers are expected to be
// applied beforehand by middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
