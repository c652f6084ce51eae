package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/target/campus-portal/config"
	"github.com/target/campus-portal/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, bootstrap.InitLogger(false))
	stop()
	if err != nil {
		slog.ErrorContext(context.Background(), "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.IsDev {
		logger = bootstrap.InitLogger(true)
	}
	bootstrap.SetLogLevel(cfg.LogLevel)
	logStartupInfo(ctx, logger, &cfg)

	var redisClient redis.UniversalClient
	if cfg.Session.Backend == config.SessionBackendRedis {
		redisClient, err = bootstrap.ConnectRedis(ctx, bootstrap.RedisConnConfig{Redis: cfg.Redis, Logger: logger})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	sink, closeMetrics := bootstrap.BuildMetrics(logger, cfg.Observability.Metrics)
	defer func() {
		if cerr := closeMetrics(); cerr != nil {
			logger.ErrorContext(ctx, "close statsd client failed", "error", cerr)
		}
	}()

	services, err := bootstrap.NewServices(ctx, bootstrap.ServiceDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Metrics:     sink,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	server, err := bootstrap.BuildHTTPServer(bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.Run(ctx, bootstrap.RunConfig{
		Server:          server,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		Logger:          logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting campus portal",
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"session_backend", cfg.Session.Backend,
		"metrics_enabled", cfg.Observability.Metrics.IsEnabled(),
		"dev", cfg.IsDev,
	)
}
