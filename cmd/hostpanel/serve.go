package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HerbHall/hostpanel/internal/auth"
	"github.com/HerbHall/hostpanel/internal/config"
	"github.com/HerbHall/hostpanel/internal/event"
	"github.com/HerbHall/hostpanel/internal/server"
	"github.com/HerbHall/hostpanel/internal/services"
	"github.com/HerbHall/hostpanel/internal/settings"
	"github.com/HerbHall/hostpanel/internal/themes"
	"github.com/HerbHall/hostpanel/internal/version"
	"github.com/HerbHall/hostpanel/internal/ws"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Serve the public theme endpoints, the admin settings API and the live theme WebSocket.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := opts.load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), v)
		},
	}
}

func runServe(parent context.Context, v *viper.Viper) error {
	logger, err := config.NewLogger(v)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("hostpanel starting", zap.String("version", version.Short()))
	if f := v.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	srvCfg, err := server.ServerConfig(v)
	if err != nil {
		return err
	}
	themeCfg, err := config.New(v).Theme()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	db, dbPath, err := openStore(ctx, v)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", dbPath),
	)

	settingsRepo, err := services.NewSQLiteSettingsRepository(ctx, db)
	if err != nil {
		return fmt.Errorf("initialize settings repository: %w", err)
	}
	emails, err := themes.NewEmailStore(ctx, db)
	if err != nil {
		return fmt.Errorf("initialize email theme store: %w", err)
	}

	bus := event.NewBus(logger.Named("event"))

	themeSvc := themes.NewService(settingsRepo, emails, themeCfg, bus, logger.Named("themes"))
	defer themeSvc.SyncOnChange(bus)()
	scheduler, err := themes.NewScheduler(themeSvc, bus, themeCfg.SyncSchedule, logger.Named("themes"))
	if err != nil {
		return err
	}
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start theme scheduler: %w", err)
	}
	defer scheduler.Stop()
	logger.Info("theme service initialized",
		zap.String("component", "themes"),
		zap.String("sync_schedule", themeCfg.SyncSchedule),
		zap.Int("configured_overrides", len(themeCfg.Colors)),
	)

	tokens, err := tokenService(v, logger)
	if err != nil {
		return err
	}

	wsHandler := ws.NewHandler(themeSvc, bus, logger.Named("ws"))
	defer wsHandler.Close()

	srv := server.New(server.Options{
		Addr: srvCfg.Addr(),
		Ready: func(ctx context.Context) error {
			return db.Ping(ctx)
		},
		Auth:      auth.AuthMiddleware(tokens),
		DevMode:   srvCfg.DevMode,
		ReadOnly:  srvCfg.ReadOnly,
		RateLimit: srvCfg.RateLimit,
		RateBurst: srvCfg.RateBurst,
	}, logger,
		themes.NewHandler(themeSvc, logger.Named("themes")),
		settings.NewHandler(settingsRepo, bus, logger.Named("settings")),
		wsHandler,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.Info("hostpanel ready",
		zap.String("addr", srvCfg.Addr()),
		zap.Bool("read_only", srvCfg.ReadOnly),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("context canceled, shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("hostpanel stopped")
	return nil
}

// tokenService builds the admin token service. Without auth.jwt_secret a
// random secret is generated and tokens do not survive a restart.
func tokenService(v *viper.Viper, logger *zap.Logger) (*auth.TokenService, error) {
	authCfg := config.New(v).Auth()
	secret := authCfg.JWTSecret
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate JWT secret: %w", err)
		}
		secret = hex.EncodeToString(b)
		logger.Warn("using auto-generated JWT secret; set auth.jwt_secret to keep admin tokens valid across restarts",
			zap.String("component", "auth"),
		)
	}

	ttl := authCfg.AccessTokenTTL
	logger.Info("auth initialized",
		zap.String("component", "auth"),
		zap.Duration("access_token_ttl", ttl),
	)
	return auth.NewTokenService([]byte(secret), ttl), nil
}
