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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tripplanner/internal/auth"
	"github.com/mmynk/tripplanner/internal/catalog"
	"github.com/mmynk/tripplanner/internal/config"
	"github.com/mmynk/tripplanner/internal/metrics"
	"github.com/mmynk/tripplanner/internal/middleware"
	"github.com/mmynk/tripplanner/internal/service"
	"github.com/mmynk/tripplanner/internal/storage/sqlite"
	"github.com/mmynk/tripplanner/pkg/logging"
	"github.com/mmynk/tripplanner/pkg/tripapi/tripapiconnect"
)

const (
	shutdownTimeout = 10 * time.Second
	limiterSweep    = time.Minute
)

func main() {
	logger := logging.Setup()

	cfg, err := config.LoadServer(os.Args[1:])
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	store, err := sqlite.New(cfg.DBPath, sqlite.WithTieBreak(cfg.Policy))
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath, "tie_break", cfg.Policy)

	if err := catalog.Seed(ctx, store); err != nil {
		return err
	}

	sourceOpts := []catalog.Option{catalog.WithLogger(logger)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, catalog cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			sourceOpts = append(sourceOpts, catalog.WithCache(rdb, cfg.CatalogTTL))
			slog.Info("Catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogTTL)
		}
	}
	destinations := catalog.NewSource(store, sourceOpts...)
	// The catalog was just reseeded.
	if err := destinations.Invalidate(ctx); err != nil {
		slog.Warn("Failed to invalidate catalog cache", "error", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, m)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager,
			tripapiconnect.AuthServiceRegisterProcedure,
			tripapiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(logger),
		middleware.MetricsInterceptor(m),
		limiter.Interceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(tripapiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(tripapiconnect.NewGroupServiceHandler(
		service.NewGroupService(store), interceptors))
	mux.Handle(tripapiconnect.NewTripServiceHandler(
		service.NewTripService(store, destinations,
			service.WithTieBreak(cfg.Policy),
			service.WithServiceMetrics(m),
			service.WithServiceLogger(logger),
		), interceptors))
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(requestLogger(corsHandler(cfg.CORSOrigins).Handler(mux)), &http2.Server{})
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limiter.Run(ctx, limiterSweep)
		return nil
	})
	g.Go(func() error {
		slog.Info("Connect server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// requestLogger logs every HTTP request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsHandler allows browser access for Connect clients. No origins means any
// origin.
func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
		},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         7200,
	})
}
