package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/campus-portal/config"
	"github.com/target/campus-portal/internal/adapters/memory"
	redisadapter "github.com/target/campus-portal/internal/adapters/redis"
	"github.com/target/campus-portal/internal/devseed"
	"github.com/target/campus-portal/internal/observability/statsd"
	"github.com/target/campus-portal/internal/ports"
	"github.com/target/campus-portal/internal/service"
)

// Stores holds the state backends chosen by SESSION_BACKEND.
type Stores struct {
	Sessions ports.SessionStore
	Markers  ports.MarkerStore
	Avatars  ports.AvatarStore
}

// BuildStores picks in-memory or Redis-backed stores.
func BuildStores(cfg config.SessionConfig, client redis.UniversalClient) (Stores, error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		if client == nil {
			return Stores{}, errors.New("redis session backend requires a redis client")
		}
		return Stores{
			Sessions: redisadapter.NewSessionStoreWithPrefix(client, cfg.KeyPrefix),
			Markers:  redisadapter.NewMarkerStore(client),
			Avatars:  redisadapter.NewAvatarStore(client),
		}, nil
	case config.SessionBackendMemory, "":
		return Stores{
			Sessions: memory.NewSessionStore(),
			Markers:  memory.NewMarkerStore(),
			Avatars:  memory.NewAvatarStore(),
		}, nil
	default:
		return Stores{}, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// ServiceContainer holds the portal's services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Navigator *service.Navigator
	Records   *service.RecordService
	Avatars   *service.AvatarService
	Metrics   statsd.Sink
	Stores    Stores
}

// ServiceDeps contains dependencies for creating services.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// NewServices wires stores and services from configuration.
func NewServices(ctx context.Context, deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stores, err := BuildStores(cfg.Session, deps.RedisClient)
	if err != nil {
		return ServiceContainer{}, err
	}

	auth, err := BuildAuthService(ctx, AuthDeps{
		Auth:     cfg.Auth,
		Session:  cfg.Session,
		Sessions: stores.Sessions,
		Metrics:  deps.Metrics,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	seed, err := devseed.Load()
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("load page catalogue: %w", err)
	}
	records := seed.Records
	if !cfg.Portal.SeedData {
		records = nil
	}

	return ServiceContainer{
		Auth: auth,
		Navigator: service.NewNavigator(service.NavigatorOptions{
			Markers: stores.Markers,
			Config: service.NavigatorConfig{
				MarkerTTL: cfg.Session.MarkerTTL,
				Metrics:   deps.Metrics,
				Logger:    logger,
			},
		}),
		Records: service.NewRecordService(service.RecordServiceOptions{
			Catalog: seed.Catalog,
			Seed:    records,
			Config: service.RecordServiceConfig{
				Metrics: deps.Metrics,
				Logger:  logger,
			},
		}),
		Avatars: service.NewAvatarService(service.AvatarServiceOptions{
			Store:    stores.Avatars,
			MaxBytes: cfg.Portal.AvatarMaxBytes,
		}),
		Metrics: deps.Metrics,
		Stores:  stores,
	}, nil
}

// BuildMetrics returns a StatsD sink, or nil when metrics are disabled or
// the agent cannot be reached.
//
//nolint:ireturn // callers only need the Sink interface
func BuildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) (statsd.Sink, func() error) {
	noop := func() error { return nil }
	if !cfg.IsEnabled() {
		return nil, noop
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil, noop
	}
	return client, client.Close
}
