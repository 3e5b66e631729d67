package main

import (
	"errors"
	"fmt"

	"github.com/HerbHall/hostpanel/internal/auth"
	"github.com/HerbHall/hostpanel/internal/config"
	"github.com/spf13/cobra"
)

func newTokenCmd(opts *globalOptions) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin access token",
		Long:  "Sign an admin bearer token with auth.jwt_secret. The running server must use the same secret.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := opts.load()
			if err != nil {
				return err
			}
			authCfg := config.New(v).Auth()
			if authCfg.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not set; tokens signed with a random secret would be rejected by the server")
			}

			signed, err := auth.NewTokenService([]byte(authCfg.JWTSecret), authCfg.AccessTokenTTL).IssueAccessToken(subject)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject recorded in audit logs")
	return cmd
}
