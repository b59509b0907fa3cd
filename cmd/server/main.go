package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Mdazar123/billsplitr/internal/auth"
	"github.com/Mdazar123/billsplitr/internal/cache"
	"github.com/Mdazar123/billsplitr/internal/config"
	"github.com/Mdazar123/billsplitr/internal/events"
	"github.com/Mdazar123/billsplitr/internal/middleware"
	"github.com/Mdazar123/billsplitr/internal/service"
	"github.com/Mdazar123/billsplitr/internal/storage/sqlite"
	"github.com/Mdazar123/billsplitr/pkg/api/apiconnect"
	"github.com/Mdazar123/billsplitr/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("Using default JWT secret - set JWT_SECRET in production")
	}

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return err
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	balanceCache := newCache(ctx, cfg)
	defer balanceCache.Close()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	// Auth runs first so the logging and metrics interceptors see the caller.
	interceptors := func(authInterceptor connect.UnaryInterceptorFunc) connect.HandlerOption {
		return connect.WithInterceptors(authInterceptor, middleware.LoggingInterceptor(), metrics.Interceptor())
	}
	public := interceptors(middleware.OptionalAuth(jwtManager))
	private := interceptors(middleware.RequireAuth(jwtManager))

	changes := service.NewGroupChanges(balanceCache, publisher)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, store, jwtManager, slog.Default()), public))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(store, changes), private))
	mux.Handle(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store, changes), private))
	mux.Handle(apiconnect.NewPaymentServiceHandler(service.NewPaymentService(store, changes), private))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// h2c serves HTTP/2 without TLS for Connect and gRPC clients.
	handler := h2c.NewHandler(middleware.HTTPLogging(middleware.CORS(cfg.CORSOrigin, mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr(), "url", "http://localhost"+cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}

// newCache connects to Redis when configured and falls back to the
// in-process cache if Redis is unset or unreachable.
func newCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.RedisURL == "" {
		slog.Info("Balance cache: in-memory", "ttl", cfg.CacheTTL)
		return cache.NewMemory(cfg.CacheTTL)
	}
	c, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		slog.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
		return cache.NewMemory(cfg.CacheTTL)
	}
	slog.Info("Balance cache: redis", "ttl", cfg.CacheTTL)
	return c
}

// newPublisher connects to RabbitMQ when configured. Without a broker,
// events are only logged.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.LogPublisher{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		slog.Warn("AMQP unavailable, events will only be logged", "error", err)
		return events.LogPublisher{}
	}
	slog.Info("Publishing events", "exchange", cfg.Exchange)
	return p
}
