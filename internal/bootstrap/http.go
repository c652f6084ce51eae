package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/target/campus-portal/config"
	httpx "github.com/target/campus-portal/internal/http"
	"golang.org/x/sync/errgroup"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPServer assembles the router and an unstarted server.
func BuildHTTPServer(cfg HTTPServerConfig) (*http.Server, error) {
	if cfg.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := httpx.NewRouter(httpx.RouterServices{
		Auth:             cfg.Services.Auth,
		Navigator:        cfg.Services.Navigator,
		Records:          cfg.Services.Records,
		Avatars:          cfg.Services.Avatars,
		CookieDomain:     cfg.Config.HTTP.CookieDomain,
		SecureCookies:    cfg.Config.HTTP.SecureCookies,
		OAuthRedirectURL: cfg.Config.Auth.OAuth.RedirectURL,
		Metrics:          cfg.Services.Metrics,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	addr := cfg.Config.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Config.HTTP.ReadHeaderTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, nil
}

// RunConfig contains what Run needs to serve and shut down.
type RunConfig struct {
	Server          *http.Server
	Listener        net.Listener // optional; Server.Addr is used when nil
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Run serves until ctx is cancelled or the server fails, then shuts the
// server down gracefully.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.Server == nil {
		return errors.New("server is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if cfg.Listener != nil {
			logger.InfoContext(gctx, "starting HTTP server", "addr", cfg.Listener.Addr().String())
			err = cfg.Server.Serve(cfg.Listener)
		} else {
			logger.InfoContext(gctx, "starting HTTP server", "addr", cfg.Server.Addr)
			err = cfg.Server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(context.WithoutCancel(gctx), "shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), timeout)
		defer cancel()
		if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.InfoContext(shutdownCtx, "HTTP server stopped")
		return nil
	})
	return g.Wait()
}
