package config

// SessionConfig configures the cookie holding the CSRF token.
type SessionConfig struct {
	Secret     string `env:"SESSION_SECRET"`
	Secure     bool   `env:"SESSION_SECURE" env-default:"false"`
	CookieName string `env:"SESSION_COOKIE_NAME" env-default:"signup_session"`
	MaxAge     int    `env:"SESSION_MAX_AGE" env-default:"3600"`
}
