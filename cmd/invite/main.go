// Package main creates a signup invitation and emails its link.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/signup-verify-email/pkg/config"
	"github.com/tendant/signup-verify-email/pkg/directory"
	"github.com/tendant/signup-verify-email/pkg/notification"
	"github.com/tendant/signup-verify-email/pkg/utils"
)

func main() {
	email := flag.String("email", "", "Email address to invite (required)")
	name := flag.String("name", "", "Name of the invitee")
	envFile := flag.String("env", ".env", "Optional .env file")
	flag.Parse()

	if *email == "" {
		fmt.Println("Error: email is required")
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.DirectoryBackend != config.BackendPostgres {
		slog.Error("Invitations need a persistent directory", "backend", cfg.DirectoryBackend)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.IdmDbConfig.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", cfg.IdmDbConfig.Database, "host", cfg.IdmDbConfig.Host, "port", cfg.IdmDbConfig.Port, "user", cfg.IdmDbConfig.User, "schema", cfg.IdmDbConfig.Schema)
		os.Exit(1)
	}
	defer pool.Close()

	if err := directory.Migrate(ctx, pool); err != nil {
		slog.Error("Failed to migrate", "error", err)
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

	svc := directory.NewDirectoryService(directory.NewPostgresRepository(pool), notificationManager,
		directory.WithBaseUrl(cfg.BaseUrl),
		directory.WithInvitationExpiration(config.MustDuration(cfg.SignupConfig.InvitationExpiration)),
	)

	var inv directory.Invitation
	err = svc.Atomic(ctx, func(tx *directory.DirectoryService) error {
		var err error
		inv, err = tx.CreateInvitation(ctx, *email, *name)
		return err
	})
	if err != nil {
		slog.Error("Failed to create invitation", "email", utils.MaskEmail(*email), "error", err)
		os.Exit(1)
	}

	slog.Info("Invitation sent", "email", utils.MaskEmail(*email), "expire_at", inv.ExpireAt)
}
