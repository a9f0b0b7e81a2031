package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adgate-io/adgate/config"
	httpx "github.com/adgate-io/adgate/internal/http"
	"github.com/adgate-io/adgate/internal/ports"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the HTTP server with the full middleware stack.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Auth:        cfg.Services.Auth,
		Directory:   cfg.Services.Directory,
		Windows:     windowsOrNil(cfg.Services),
		Trust:       cfg.Services.Trust,
		SAML:        cfg.Services.SAML,
		Events:      eventsOrNil(cfg.Services),
		HTTP:        appCfg.HTTP,
		Token:       appCfg.Token,
		WindowsAuth: appCfg.WindowsAuth,
		Logger:      logger,
	})

	addr := appCfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// windowsOrNil avoids handing the router a typed nil interface value.
func windowsOrNil(services ServiceContainer) ports.Negotiator {
	if services.Windows == nil {
		return nil
	}
	return services.Windows
}

// eventsOrNil avoids handing the router a typed nil interface value.
func eventsOrNil(services ServiceContainer) httpx.AuthEventsLister {
	if services.AuthEvents == nil {
		return nil
	}
	return services.AuthEvents
}

// RunHTTPServer serves until SIGINT/SIGTERM, then shuts down gracefully.
func RunHTTPServer(cfg *HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	server := NewHTTPServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	})
	return g.Wait()
}
