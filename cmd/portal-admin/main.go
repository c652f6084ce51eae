package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/target/campus-portal/config"
	redisadapter "github.com/target/campus-portal/internal/adapters/redis"
	"github.com/target/campus-portal/internal/bootstrap"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

// sessionAdmin is the part of a session store the admin commands use.
type sessionAdmin interface {
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// app carries the CLI's dependencies so commands can be exercised in tests.
type app struct {
	in           io.Reader
	out          io.Writer
	loadConfig   func() (config.AppConfig, error)
	openSessions func(ctx context.Context, cfg config.AppConfig) (sessionAdmin, func() error, error)
	pingRedis    func(ctx context.Context, cfg config.AppConfig) error
}

func main() {
	logger := bootstrap.InitLogger(false)
	a := &app{
		in:           os.Stdin,
		out:          os.Stdout,
		loadConfig:   bootstrap.LoadConfig,
		openSessions: openRedisSessions,
		pingRedis:    pingRedis,
	}
	if err := a.rootCmd().Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portal-admin",
		Short:         "Administrative tasks for the campus portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.AddCommand(a.hashPasswordCmd(), a.sessionCmd(), a.configCmd())
	return cmd
}

// openRedisSessions connects to the configured Redis and returns its session store.
func openRedisSessions(ctx context.Context, cfg config.AppConfig) (sessionAdmin, func() error, error) {
	if cfg.Session.Backend != config.SessionBackendRedis {
		return nil, nil, fmt.Errorf("session commands need SESSION_BACKEND=redis (have %q)", cfg.Session.Backend)
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisConnConfig{Redis: cfg.Redis})
	if err != nil {
		return nil, nil, err
	}
	return redisadapter.NewSessionStoreWithPrefix(client, cfg.Session.KeyPrefix), client.Close, nil
}

func pingRedis(ctx context.Context, cfg config.AppConfig) error {
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisConnConfig{Redis: cfg.Redis})
	if err != nil {
		return err
	}
	return client.Close()
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
