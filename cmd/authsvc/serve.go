package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/attireme/auth-service/internal/api"
	"github.com/attireme/auth-service/internal/core/ports"
	"github.com/attireme/auth-service/internal/core/service"
	"github.com/attireme/auth-service/internal/infrastructure/backend"
	"github.com/attireme/auth-service/internal/infrastructure/config"
	"github.com/attireme/auth-service/internal/infrastructure/queue"
	"github.com/attireme/auth-service/pkg/logger"
)

const (
	shutdownTimeout = 15 * time.Second
	drainTimeout    = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "auth-service",
	})
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg)

	in, err := connectInfra(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect infrastructure")
		return err
	}
	defer in.Close()

	hasher := service.BcryptHasher{}
	tokens := service.NewTokenService(in.store, service.TokenOptions{
		Secret:           cfg.JWT.Secret,
		Issuer:           cfg.JWT.Issuer,
		Audience:         cfg.JWT.Audience,
		AccessTTL:        cfg.Tokens.AccessTTL,
		RefreshTTL:       cfg.Tokens.RefreshTTL,
		RefreshRetention: cfg.Tokens.RefreshRetention,
	})
	admins := newAdminBootstrapper(cfg, in.store, hasher, log)
	if cfg.Admin.BootstrapOnStart {
		if _, err := admins.EnsureAdmin(ctx); err != nil {
			log.Warn().Err(err).Msg("admin bootstrap on start failed")
		}
	}

	workers, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	var notifications ports.NotificationQueue
	var dispatcher *queue.Dispatcher
	if cfg.Backend.URL != "" {
		client := backend.NewClient(backend.Config{
			BaseURL:    cfg.Backend.URL,
			Timeout:    cfg.Backend.Timeout,
			MaxRetries: cfg.Backend.MaxRetries,
		}, log)
		dispatcher = queue.NewDispatcher(cfg.Backend.Workers, 0, client, log)
		dispatcher.Start(workers)
		notifications = dispatcher
	} else {
		log.Warn().Msg("BACKEND_URL not set; confirmation notifications disabled")
	}

	accounts := service.NewAccountService(service.AccountDeps{
		Store:        in.store,
		Tokens:       tokens,
		Verification: service.NewVerificationTokens(in.verification, cfg.Tokens.ConfirmationTTL, cfg.Tokens.ResetTTL),
		Mailer:       in.mailer,
		Hook:         service.NewBackendConfirmationHook(admins, tokens, notifications, log),
		Hasher:       hasher,
	}, service.AccountOptions{
		FrontendURL:  cfg.FrontendURL,
		EmailTimeout: cfg.SMTP.Timeout,
	}, log)

	e := api.NewRouter(api.Deps{
		Accounts:  accounts,
		Refresher: tokens,
		Policies:  service.NewPolicyEvaluator(tokens, in.store, log),
		Tokens:    tokens,
		Checks:    in.checks,
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("auth service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}

	if dispatcher != nil {
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
		if lost := dispatcher.Shutdown(drainCtx); lost > 0 {
			log.Warn().Int("dropped", lost).Msg("confirmation notifications lost on shutdown")
		}
		cancelDrain()
	}
	cancelWorkers()
	log.Info().Msg("auth service stopped")
	return nil
}

func newAdminBootstrapper(cfg *config.Config, identities ports.IdentityRepository, hasher service.PasswordHasher, log zerolog.Logger) *service.AdminBootstrapper {
	return service.NewAdminBootstrapper(identities, hasher, service.AdminOptions{
		Email:    cfg.Admin.Email,
		UserName: cfg.Admin.UserName,
		Password: cfg.Admin.Password,
	}, log)
}
