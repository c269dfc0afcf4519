// Package main runs the signup pages: passwordless and password signup,
// invitation links and password reset.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/signup-verify-email/pkg/config"
	"github.com/tendant/signup-verify-email/pkg/directory"
	"github.com/tendant/signup-verify-email/pkg/emailvalidator"
	"github.com/tendant/signup-verify-email/pkg/i18n"
	"github.com/tendant/signup-verify-email/pkg/notification"
	"github.com/tendant/signup-verify-email/pkg/ratelimit"
	"github.com/tendant/signup-verify-email/pkg/session"
	"github.com/tendant/signup-verify-email/pkg/signup"
	"github.com/tendant/signup-verify-email/pkg/view"
)

func main() {
	envFile := flag.String("env", ".env", "Optional .env file")
	flag.Parse()

	// Create a logger with source enabled
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.SlogLevel(),
	})))

	repo, err := newRepository(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to create directory repository", "backend", cfg.DirectoryBackend, "error", err)
		os.Exit(1)
	}

	notificationManager, err := notification.NewNotificationManagerWithOptions(
		cfg.BaseUrl,
		notification.WithSMTP(cfg.EmailConfig.ToSMTPConfig()),
		notification.WithDefaultTemplates(),
	)
	if err != nil {
		slog.Error("Failed initialize notification manager", "error", err)
		os.Exit(1)
	}

	catalog := i18n.New(cfg.SignupConfig.DefaultLang)
	svc := directory.NewDirectoryService(repo, notificationManager,
		directory.WithBaseUrl(cfg.BaseUrl),
		directory.WithAllowUninvited(cfg.SignupConfig.AllowUninvited),
		directory.WithResetTokenExpiration(config.MustDuration(cfg.SignupConfig.ResetTokenExpiration)),
		directory.WithInvitationExpiration(config.MustDuration(cfg.SignupConfig.InvitationExpiration)),
		directory.WithLangs(catalogLangs(catalog)...),
	)
	dir := signup.NewDirectory(svc)

	renderer, err := view.New(catalog)
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	csrf := session.NewCSRF(cfg.SessionConfig.Secret, session.Options{
		CookieName: cfg.SessionConfig.CookieName,
		Secure:     cfg.SessionConfig.Secure,
		MaxAge:     cfg.SessionConfig.MaxAge,
	})

	signupHandle, err := signup.NewHandle(
		signup.WithDirectory(dir),
		signup.WithEmailValidator(emailvalidator.New()),
		signup.WithRenderer(renderer),
		signup.WithContextProvider(signup.RequestContext{CSRF: csrf, Catalog: catalog, Directory: dir}),
	)
	if err != nil {
		slog.Error("Failed to create signup handler", "error", err)
		os.Exit(1)
	}

	server := app.DefaultApp()

	// RealIP runs first so rate limiting keys on the client address
	middlewares := []func(http.Handler) http.Handler{middleware.RealIP, csrf.Protect}
	if limiter := newLimiter(cfg.RateLimitConfig); limiter != nil {
		middlewares = append(middlewares, ratelimit.PerIP(limiter))
	}
	mountRoutes(server.R, signupHandle, middlewares...)

	slog.Info("Signup service ready", "base_url", cfg.BaseUrl, "backend", cfg.DirectoryBackend,
		"allow_uninvited", cfg.SignupConfig.AllowUninvited)
	server.Run()
}

func mountRoutes(r *chi.Mux, h *signup.Handle, middlewares ...func(http.Handler) http.Handler) {
	app.RoutesHealthz(r)
	app.RoutesHealthzReady(r)
	r.Mount("/web", h.Router(middlewares...))
}

func newRepository(ctx context.Context, cfg config.Config) (directory.Repository, error) {
	if cfg.DirectoryBackend == config.BackendMemory {
		slog.Warn("Using in-memory directory, users are lost on restart")
		return directory.NewInMemoryRepository(), nil
	}

	dbConfig := cfg.IdmDbConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		return nil, err
	}
	if err := directory.Migrate(ctx, pool); err != nil {
		return nil, err
	}
	return directory.NewPostgresRepository(pool), nil
}

func newLimiter(cfg config.RateLimitConfig) ratelimit.Limiter {
	if !cfg.Enabled {
		return nil
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		slog.Info("Rate limiting with redis", "addr", cfg.RedisAddr, "max", cfg.Capacity, "window", cfg.Window)
		return ratelimit.NewRedisLimiter(client, "signup:rl", cfg.Capacity, config.MustDuration(cfg.Window))
	}
	slog.Info("Rate limiting in memory", "capacity", cfg.Capacity, "refill_rate", cfg.RefillRate)
	return ratelimit.NewRateLimiter(cfg.Capacity, cfg.RefillRate, config.MustDuration(cfg.BucketTTL))
}

func catalogLangs(c *i18n.Catalog) []string {
	// the directory default comes first
	langs := []string{c.Default()}
	for _, l := range c.Langs() {
		if l != c.Default() {
			langs = append(langs, l)
		}
	}
	return langs
}
