// Package config loads the signup service configuration from the environment
// and an optional .env file.
//
// Durations are ISO-8601 strings ("PT15M", "P1D"):
//
//	cfg, err := config.Load(".env")
//	ttl := config.MustDuration(cfg.SignupConfig.ResetTokenExpiration)
package config
