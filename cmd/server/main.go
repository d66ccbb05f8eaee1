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

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/railstats/internal/auth"
	"github.com/mmynk/railstats/internal/cache"
	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/config"
	"github.com/mmynk/railstats/internal/middleware"
	"github.com/mmynk/railstats/internal/reports"
	"github.com/mmynk/railstats/internal/service"
	"github.com/mmynk/railstats/internal/storage"
	"github.com/mmynk/railstats/internal/storage/memory"
	"github.com/mmynk/railstats/internal/storage/sqlite"
	"github.com/mmynk/railstats/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.InMemory() {
		slog.Warn("Using in-memory storage; data is lost on exit")
		return memory.New(calculator.ComputePrice), nil
	}
	store, err := sqlite.New(cfg.DBPath, calculator.ComputePrice)
	if err != nil {
		return nil, err
	}
	slog.Info("Storage initialized", "database", cfg.DBPath)
	return store, nil
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		slog.Info("Report cache: in-process", "ttl", cfg.CacheTTL)
		return cache.NewMemory(cfg.CacheTTL), func() {}
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		slog.Warn("Redis unavailable, falling back to in-process report cache", "addr", cfg.RedisAddr, "error", err)
		return cache.NewMemory(cfg.CacheTTL), func() {}
	}
	slog.Info("Report cache: redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "ttl", cfg.CacheTTL)
	return cache.NewRedis(client, "", cfg.CacheTTL), func() { client.Close() }
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	reportCache, closeCache := openCache(ctx, cfg)
	defer closeCache()

	logger := slog.Default()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	mux := http.NewServeMux()

	// Register Connect services
	paths := service.Register(mux, service.Services{
		Auth:     service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger),
		Entities: service.NewEntityService(store, reportCache, logger),
		Reports:  service.NewReportService(reports.NewEngine(store), reportCache, cfg.TopLimit, logger),
		JWT:      jwtManager,
	}, connect.WithInterceptors(middleware.MetricsInterceptor(), middleware.LoggingInterceptor()))
	slog.Debug("Procedures mounted", "count", len(paths))

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(middleware.RequestLogger(middleware.CORS(mux)), &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
