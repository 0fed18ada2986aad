package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcoot/partygames/internal/api"
	"github.com/mcoot/partygames/internal/factory"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/storage/postgres"
	redisstorage "github.com/mcoot/partygames/internal/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&Config{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *Config) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:           "partygames",
		Short:         "Party games JSON API server",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg.addCommonFlags(cmd.PersistentFlags())
	bindEnv(v, cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd(cfg, v))
	cmd.AddCommand(newMigrateCmd(cfg))
	cmd.CompletionOptions.HiddenDefaultCmd = true

	return cmd
}

func newServeCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	cfg.addServeFlags(cmd.Flags())
	bindEnv(v, cmd.Flags())

	return cmd
}

func newMigrateCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			if cfg.postgresURL == "" {
				return fmt.Errorf("--postgres-url is required")
			}

			pgCfg := postgres.DefaultConfig()
			pgCfg.URL = cfg.postgresURL
			db, err := postgres.Open(cmd.Context(), pgCfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(cmd.Context(), db, logger)
		},
	}
}

func newLogger(cfg *Config) (*slog.Logger, error) {
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger, nil
}

func serve(ctx context.Context, cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	// Build factory config
	authCfg := auth.DefaultConfig()
	authCfg.SessionDuration = cfg.authSessionTTL

	factoryCfg := factory.Config{
		AuthConfig:    authCfg,
		Logger:        logger,
		DataStore:     cfg.dataStore,
		SessionStore:  cfg.sessionStore,
		AdminUsers:    cfg.adminUsers,
		SecureCookies: cfg.secureCookies,
	}
	if cfg.sessionStore == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		redisCfg.SessionTTL = cfg.sessionTTL
		factoryCfg.RedisConfig = &redisCfg
	}
	if cfg.dataStore == factory.StorageTypePostgres {
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.postgresURL
		factoryCfg.PostgresConfig = &pgCfg
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing backends", slog.String("error", err.Error()))
		}
	}()

	if cfg.questionsFile != "" {
		n, err := app.QuestionService.SeedFromFile(ctx, cfg.questionsFile)
		if err != nil {
			return fmt.Errorf("seed questions from %s: %w", cfg.questionsFile, err)
		}
		if n > 0 {
			logger.Info("question bank seeded", slog.Int("count", n), slog.String("file", cfg.questionsFile))
		}
	}

	go app.AuthService.RunCleanup(ctx, cfg.cleanupInterval)
	go app.SessionEvents.RunCleanup(ctx, cfg.cleanupInterval)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.host
	serverConfig.Port = cfg.port
	server := api.NewServer(app.Handler(), serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
