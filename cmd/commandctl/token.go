package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"CommandCore/internal/config"
	jwtPkg "CommandCore/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue a bearer token for the command API",
		Long:  "Issue a bearer token signed with " + config.TokenSecretEnv + " for a device or client.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, expiresAt, err := jwtPkg.Sign(os.Getenv(config.TokenSecretEnv), args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
