package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/target/campus-portal/config"
	"github.com/target/campus-portal/internal/adapters/staticauth"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	var ping bool
	check := &cobra.Command{
		Use:   "check",
		Short: "Load and validate configuration from the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigCheck(cmd, ping)
		},
	}
	check.Flags().BoolVar(&ping, "ping", false, "also connect to Redis when it is the session backend")
	cmd.AddCommand(check)
	return cmd
}

func (a *app) runConfigCheck(cmd *cobra.Command, ping bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Auth.Mode == config.AuthModeStatic {
		users, uerr := staticauth.ParseUsers(cfg.Auth.StaticUsers)
		if uerr != nil {
			return uerr
		}
		if len(users) == 0 {
			return fmt.Errorf("AUTH_MODE=static has no usable users")
		}
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"auth mode", string(cfg.Auth.Mode)},
		{"session backend", string(cfg.Session.Backend)},
		{"session ttl", cfg.Session.TTL.String()},
		{"marker ttl", cfg.Session.MarkerTTL.String()},
		{"http addr", cfg.HTTP.Addr},
		{"base url", cfg.HTTP.BaseURL},
		{"secure cookies", fmt.Sprint(cfg.HTTP.SecureCookies)},
		{"metrics", fmt.Sprint(cfg.Observability.Metrics.IsEnabled())},
		{"log level", cfg.LogLevel.String()},
	}
	if cfg.Auth.Mode == config.AuthModeOAuth {
		rows = append(rows, [2]string{"oauth redirect", cfg.Auth.OAuth.RedirectURL})
	}
	for _, r := range rows {
		if err := writef(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if ping && cfg.Session.Backend == config.SessionBackendRedis {
		if err := a.pingRedis(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		if err := writef(cmd.OutOrStdout(), "redis reachable\n"); err != nil {
			return err
		}
	}
	return writef(cmd.OutOrStdout(), "configuration OK\n")
}
