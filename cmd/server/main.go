package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	authhandler "universitas/internal/auth/handler"
	"universitas/internal/auth/metrics"
	"universitas/internal/auth/password"
	authservice "universitas/internal/auth/service"
	"universitas/internal/auth/store/revocation"
	jwttoken "universitas/internal/jwt_token"
	"universitas/internal/platform/config"
	"universitas/internal/platform/health"
	"universitas/internal/platform/logger"
	studentshandler "universitas/internal/students/handler"
	studentsservice "universitas/internal/students/service"
	httptransport "universitas/internal/transport/http"
)

const redisStatsInterval = 15 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "universitas:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing universitas",
		"addr", cfg.Server.Addr,
		"environment", cfg.Environment,
		"institution_domain", cfg.Auth.InstitutionDomain,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics := metrics.New(reg)

	b, err := openBackends(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	defer b.Close(log)

	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	authSvc, err := authservice.New(b.accounts, password.NewHasher(cfg.Auth.BcryptCost), tokens, b.revocations,
		&authservice.Config{InstitutionDomain: cfg.Auth.InstitutionDomain},
		authservice.WithLogger(log),
		authservice.WithMetrics(authMetrics),
	)
	if err != nil {
		return fmt.Errorf("build auth service: %w", err)
	}
	studentsSvc := studentsservice.New(b.accounts, authSvc.ListMajors(),
		studentsservice.WithLogger(log),
		studentsservice.WithMetrics(authMetrics),
	)

	healthHandler := health.New(cfg.Environment)
	for name, check := range b.checks {
		healthHandler.RegisterCheck(name, check)
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Auth:           authhandler.New(authSvc, log),
		Students:       studentshandler.New(studentsSvc, log),
		Health:         healthHandler,
		TokenValidator: jwttoken.NewJWTServiceAdapter(tokens),
		Revocations:    revocation.NewChecker(b.revocations),
		Latency:        authMetrics,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	apiServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := &http.Server{
		Addr:              cfg.Server.MetricsAddr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(log, "api", apiServer) })
	g.Go(func() error { return serve(log, "metrics", metricsServer) })
	if b.purger != nil {
		g.Go(func() error {
			if err := b.purger.Start(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if b.redis != nil {
		g.Go(func() error {
			b.redis.RunPoolStats(gctx, redisStatsInterval)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(
			apiServer.Shutdown(shutdownCtx),
			metricsServer.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func serve(log *slog.Logger, name string, srv *http.Server) error {
	log.Info("starting http server", "server", name, "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}
