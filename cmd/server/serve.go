package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/spendwise-app/SpendWise/internal/auth"
	"github.com/spendwise-app/SpendWise/internal/config"
	"github.com/spendwise-app/SpendWise/internal/friends"
	"github.com/spendwise-app/SpendWise/internal/ledger"
	"github.com/spendwise-app/SpendWise/internal/metrics"
	"github.com/spendwise-app/SpendWise/internal/middleware"
	"github.com/spendwise-app/SpendWise/internal/notify"
	"github.com/spendwise-app/SpendWise/internal/service"
	"github.com/spendwise-app/SpendWise/internal/storage"
	"github.com/spendwise-app/SpendWise/internal/storage/sqlite"
	"github.com/spendwise-app/SpendWise/pkg/api/apiconnect"
	"github.com/spendwise-app/SpendWise/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		closeLog := setupLogging(cfg)
		defer closeLog.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		closeLog := setupLogging(cfg)
		defer closeLog.Close()

		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", cfg.DBPath, err)
		}
		slog.Info("Database migrated", "database", cfg.DBPath)
		return store.Close()
	},
}

func init() {
	config.RegisterFlags(serveCmd.Flags())
	config.RegisterFlags(migrateCmd.Flags())
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func setupLogging(cfg *config.Config) io.Closer {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		return logging.SetupFile(cfg.LogFile, level)
	}
	logging.SetupWithLevel(level)
	return nopCloser{}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// app is the wired server: HTTP handler plus what must be torn down on exit.
type app struct {
	handler    http.Handler
	registry   *notify.Registry
	dispatcher *notify.Dispatcher
}

// newApp wires the domain packages and mounts every route.
func newApp(cfg *config.Config, store storage.Store, reg *prometheus.Registry, logger *slog.Logger) *app {
	m := metrics.New(reg)
	registry := notify.NewRegistry()
	dispatcher := notify.NewDispatcher(registry, m, cfg.NotifyTimeout)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	friendManager := friends.NewManager(store, dispatcher, m)
	settlementLedger := ledger.NewLedger(store, friendManager, dispatcher, m, cfg.RequireFriendship)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, apiconnect.PublicProcedures),
		middleware.LoggingInterceptor(logger),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	mount := func(path string, h http.Handler) { r.Handle(path+"*", h) }
	mount(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger), interceptors))
	mount(apiconnect.NewFriendServiceHandler(service.NewFriendService(friendManager), interceptors))
	mount(apiconnect.NewSettlementServiceHandler(service.NewSettlementService(settlementLedger), interceptors))

	r.Handle("/ws", notify.NewWebsocketHandler(registry, jwtManager, originPatterns(cfg.CORSOrigin)))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &app{handler: r, registry: registry, dispatcher: dispatcher}
}

// originPatterns turns the CORS origin into websocket origin patterns.
func originPatterns(origin string) []string {
	if origin == "" || origin == "*" {
		return []string{"*"}
	}
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		return []string{u.Host}
	}
	return []string{origin}
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := newApp(cfg, store, reg, slog.Default())

	// h2c serves HTTP/2 without TLS, which Connect clients use.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(a.handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", cfg.Addr(), "require_friendship", cfg.RequireFriendship)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	// Websocket connections are hijacked, so Shutdown does not close them.
	if err := a.registry.Close(); err != nil {
		slog.Warn("Failed to close push channels", "error", err)
	}
	a.dispatcher.Wait()

	return nil
}
