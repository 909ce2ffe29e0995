package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdms/clinic-system/internal/core/ports"
	"github.com/cdms/clinic-system/internal/core/service"
	"github.com/cdms/clinic-system/internal/infrastructure/db"
	"github.com/cdms/clinic-system/pkg/logger"
)

func createSuperuserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a superuser account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			email, _ := cmd.Flags().GetString("email")

			ctx := cmd.Context()
			cfg, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			store, err := db.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			// The blacklist is not touched when creating accounts.
			tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
			auth := service.NewAuthService(store.Users, nil, tokens, logger.Component("auth"))

			user, err := auth.CreateSuperuser(ctx, ports.RegisterInput{
				Username: username,
				Password: password,
				Email:    email,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Superuser %s created (id %s).\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().String("username", "", "Superuser username")
	cmd.Flags().String("password", "", "Superuser password")
	cmd.Flags().String("email", "", "Superuser email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
