package main

import (
	"github.com/spf13/cobra"

	"github.com/attireme/auth-service/internal/core/service"
	"github.com/attireme/auth-service/internal/infrastructure/config"
)

func newBootstrapAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the administrator account if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := initLogger(cfg)

			in, err := connectInfra(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer in.Close()

			admin, err := newAdminBootstrapper(cfg, in.store, service.BcryptHasher{}, log).EnsureAdmin(ctx)
			if err != nil {
				log.Error().Err(err).Msg("admin bootstrap failed")
				return err
			}
			log.Info().Str("identity_id", admin.ID).Str("email", admin.Email).Msg("administrator account ready")
			return nil
		},
	}
}
