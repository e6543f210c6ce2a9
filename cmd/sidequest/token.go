package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sidequest/internal/httpapi"
)

func tokenCmd() *cobra.Command {
	var identity string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, identity, ttl)
		},
	}
	cmd.Flags().StringVar(&identity, "identity", "", "Identity the token signs in as (defaults to the config identity)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func runToken(cmd *cobra.Command, identity string, ttl time.Duration) error {
	ctx := context.Background()
	rt, err := loadRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	if identity == "" {
		identity = rt.cfg.Identity
	}
	if identity == "" {
		return fmt.Errorf("no identity: pass --identity or set identity in %s", configPath)
	}
	auth, err := httpapi.NewAuthenticator(rt.cfg.HTTP.JWTSecret)
	if err != nil {
		return err
	}
	token, err := auth.IssueToken(identity, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
