package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/folio/internal/adapter/driven/github"
	"github.com/ericfisherdev/folio/internal/adapter/driven/portfolioapi"
	sqliteadapter "github.com/ericfisherdev/folio/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/folio/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/folio/internal/adapter/driving/web"
	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/config"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"api_url", cfg.APIBaseURL,
		"listen_addr", cfg.ListenAddr,
		"api_timeout", cfg.APITimeout,
		"live_poll_interval", cfg.LivePollInterval,
		"http_cache", cfg.HTTPCache,
		"token_refresh", cfg.TokenRefresh,
		"trusted_proxies", len(cfg.TrustedProxies),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Credential store, durable only when a secret key is configured.
	var persister driven.CredentialPersister
	if cfg.HasSecretKey() {
		db, err := sqliteadapter.NewDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		slog.Info("database opened", "path", db.Path())

		version, err := db.Migrate()
		if err != nil {
			return err
		}
		slog.Info("migrations complete", "version", version)

		persister = sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	} else {
		slog.Warn("FOLIO_SECRET_KEY not set, admin sessions will not survive restarts")
	}

	credentials := application.NewCredentialStore(persister)
	if err := credentials.Restore(ctx); err != nil {
		// A corrupt or undecryptable row only costs a fresh login.
		slog.Warn("could not restore admin session", "error", err)
	}

	// 4. Wire driven adapters.
	api, err := portfolioapi.NewClient(cfg.APIBaseURL, credentials,
		portfolioapi.WithHTTPCache(cfg.HTTPCache),
		portfolioapi.WithTokenRefresh(cfg.TokenRefresh),
		portfolioapi.WithTimeout(cfg.APITimeout),
		portfolioapi.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}
	repos := githubadapter.NewClient(cfg.GitHubToken)

	// 5. Application services.
	site := application.NewSiteService(api, repos, slog.Default())
	admin := application.NewAdminService(api, slog.Default())
	auth := application.NewAuthService(api, credentials, slog.Default())

	counter := application.NewLiveCounter(api, cfg.LivePollInterval, slog.Default())
	go counter.Start(ctx)

	// 6. Driving adapters.
	ips := httphandler.NewClientIPResolver(cfg.TrustedProxies)
	publicRL := httphandler.NewRateLimiter(cfg.PublicRatePerMin, ips, slog.Default())
	loginRL := httphandler.NewRateLimiter(cfg.LoginRatePerMin, ips, slog.Default())

	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(site, counter, publicRL, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(site, admin, auth, counter, slog.Default(),
		webhandler.WithLoginLimiter(loginRL),
		webhandler.WithContactLimiter(publicRL),
		webhandler.WithPlaceholderImage(cfg.PlaceholderImage),
		webhandler.WithClientIPResolver(ips),
	)
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("folio started",
		"listen_addr", cfg.ListenAddr,
		"session_persistent", credentials.Persistent(),
		"session_restored", auth.IsAuthenticated(),
	)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 8. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// Let detached page-view tracking calls finish.
	site.Wait()

	slog.Info("shutdown complete")
	return nil
}
