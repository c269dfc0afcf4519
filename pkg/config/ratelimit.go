package config

// RateLimitConfig limits POST requests to the signup and reset pages per
// client address. With REDIS_ADDR set the budget is a fixed window shared
// through Redis, otherwise an in-memory token bucket.
type RateLimitConfig struct {
	Enabled    bool    `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	Capacity   int     `env:"RATE_LIMIT_CAPACITY" env-default:"10"`
	RefillRate float64 `env:"RATE_LIMIT_REFILL_RATE" env-default:"0.1667"` // tokens per second
	Window     string  `env:"RATE_LIMIT_WINDOW" env-default:"PT1M"`        // Redis window, ISO-8601
	BucketTTL  string  `env:"RATE_LIMIT_BUCKET_TTL" env-default:"PT1H"`
	RedisAddr  string  `env:"REDIS_ADDR"`
	RedisDB    int     `env:"REDIS_DB" env-default:"0"`
}
