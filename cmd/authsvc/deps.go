package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/attireme/auth-service/internal/api/handler"
	"github.com/attireme/auth-service/internal/core/ports"
	"github.com/attireme/auth-service/internal/infrastructure/config"
	"github.com/attireme/auth-service/internal/infrastructure/db/memory"
	mongostore "github.com/attireme/auth-service/internal/infrastructure/db/mongo"
	"github.com/attireme/auth-service/internal/infrastructure/db/postgres"
	redisstore "github.com/attireme/auth-service/internal/infrastructure/db/redis"
	"github.com/attireme/auth-service/internal/infrastructure/mail"
)

// infra holds the connected storage and delivery backends.
type infra struct {
	store        ports.CredentialStore
	verification ports.VerificationTokenStore
	mailer       ports.EmailSender
	checks       map[string]handler.Check
	closers      []func()
}

// Close releases connections in reverse order of acquisition.
func (i *infra) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		i.closers[n]()
	}
}

func connectInfra(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *infra, err error) {
	in := &infra{checks: map[string]handler.Check{}}
	defer func() {
		if err != nil {
			in.Close()
		}
	}()

	switch cfg.StoreDriver {
	case config.StoreMongo:
		store, err := mongostore.Open(ctx, mongostore.Config{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			AppName:        cfg.Mongo.AppName,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		in.closers = append(in.closers, func() { _ = store.Close(context.Background()) })
		in.store = store
	case config.StorePostgres:
		p, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		in.closers = append(in.closers, p.Close)
		in.store = postgres.NewStore(p)
	case config.StoreMemory:
		log.Warn().Msg("using in-memory credential store; data is lost on restart")
		in.store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	in.checks[cfg.StoreDriver] = in.store.Ping

	if cfg.StoreDriver == config.StoreMemory {
		in.verification = memory.NewVerificationTokenStore()
	} else {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			return nil, err
		}
		in.closers = append(in.closers, func() { _ = rdb.Close() })
		in.verification = redisstore.NewVerificationTokenStore(rdb)
		in.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST not set; emails are logged instead of sent")
		in.mailer = mail.NewLogSender(log)
	} else {
		sender, err := mail.NewSMTPSender(mail.Config{
			Host:        cfg.SMTP.Host,
			Port:        cfg.SMTP.Port,
			User:        cfg.SMTP.User,
			Pass:        cfg.SMTP.Pass,
			From:        cfg.SMTP.From,
			DisplayName: cfg.SMTP.DisplayName,
			Timeout:     cfg.SMTP.Timeout,
		})
		if err != nil {
			return nil, err
		}
		in.mailer = sender
	}

	return in, nil
}
