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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	instsvc "credverify/internal/institution/service"
	inststore "credverify/internal/institution/store"
	jwttoken "credverify/internal/jwt_token"
	"credverify/internal/platform/config"
	"credverify/internal/platform/httpserver"
	"credverify/internal/platform/logger"
	"credverify/internal/platform/metrics"
	"credverify/internal/platform/middleware"
	"credverify/internal/platform/workerpool"
	ratelimit "credverify/internal/ratelimit/middleware"
	rlmodels "credverify/internal/ratelimit/models"
	"credverify/internal/verification/analysis"
	verifhandler "credverify/internal/verification/handler"
	"credverify/internal/verification/institutionapi"
	verifmetrics "credverify/internal/verification/metrics"
	verifsvc "credverify/internal/verification/service"
	wallethandler "credverify/internal/wallet/handler"
	walletmetrics "credverify/internal/wallet/metrics"
	walletsvc "credverify/internal/wallet/service"
	"credverify/pkg/platform/audit/publishers/compliance"
)

// main wires dependencies, serves HTTP and drains background work on
// shutdown. Business logic lives in internal service packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	files, err := openFileStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	notifier, closeSinks, err := openNotifier(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()
	notifier.Start()

	instOpts := []instsvc.Option{instsvc.WithLogger(log)}
	if b.cache != nil {
		instOpts = append(instOpts, instsvc.WithCache(b.cache))
	}
	institutions := instsvc.New(b.institutions, instOpts...)
	seeded, err := inststore.SeedFromFile(ctx, cfg.Verification.InstitutionSeedPath, b.institutions)
	if err != nil {
		return err
	}
	if seeded > 0 {
		log.Info("institutions seeded", "count", seeded)
	}

	wallet := walletsvc.New(b.wallet,
		walletsvc.WithLogger(log),
		walletsvc.WithMetrics(walletmetrics.New()),
	)

	pool := workerpool.New(cfg.Verification.WorkerPoolSize, cfg.Verification.WorkerQueueSize, workerpool.WithLogger(log))
	pool.Start()

	client := institutionapi.New(
		institutionapi.WithLogger(log),
		institutionapi.WithMetrics(institutionapi.NewMetrics()),
		institutionapi.WithDefaultTimeout(cfg.Verification.InstitutionTimeout),
		institutionapi.WithBreaker(cfg.Verification.BreakerFailures, cfg.Verification.BreakerCooldown),
	)
	verifOpts := []verifsvc.Option{
		verifsvc.WithLogger(log),
		verifsvc.WithMetrics(verifmetrics.New()),
		verifsvc.WithInstitutionClient(client),
		verifsvc.WithNotifier(notifier),
		verifsvc.WithAuditor(compliance.New(b.audit,
			compliance.WithLogger(log),
			compliance.WithMetrics(compliance.NewMetrics()),
		)),
		verifsvc.WithScheduler(pool),
		verifsvc.WithRetryAttempts(cfg.Verification.InstitutionRetries),
	}
	if cfg.Verification.AnalyzerURL != "" {
		verifOpts = append(verifOpts, verifsvc.WithAnalyzer(
			analysis.NewHTTPAnalyzer(cfg.Verification.AnalyzerURL, cfg.Verification.AnalyzerTimeout),
		))
	} else {
		log.Warn("ANALYZER_URL not set, document analysis routes to review")
	}
	verifications := verifsvc.New(b.requests, b.responses, b.tx, wallet, institutions, files, verifOpts...)

	validator := jwttoken.NewAdapter(jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer,
		jwttoken.WithLeeway(cfg.Auth.JWTClockSkew),
	))
	limiter := ratelimit.New(b.buckets, log,
		ratelimit.WithDisabled(cfg.RateLimit.Disabled),
		ratelimit.WithLimit(rlmodels.ClassApplicant, rlmodels.Limit{Requests: cfg.RateLimit.ApplicantPerMinute, Window: time.Minute}),
		ratelimit.WithLimit(rlmodels.ClassWebhook, rlmodels.Limit{Requests: cfg.RateLimit.WebhookPerMinute, Window: time.Minute}),
	)
	router := newRouter(log, metrics.New(), validator, limiter, b.checks,
		verifhandler.New(verifications, log, verifhandler.WithMaxUploadBytes(cfg.Server.MaxUploadBytes)),
		wallethandler.New(wallet, log),
	)

	srv := httpserver.New(cfg.Server, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting credverify", "addr", cfg.Server.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Error("worker pool did not drain", "error", err)
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		log.Error("notification dispatcher did not drain", "error", err)
	}
	return nil
}

func newRouter(
	log *slog.Logger,
	m *metrics.Metrics,
	validator middleware.TokenValidator,
	limiter *ratelimit.Middleware,
	checks map[string]httpserver.Checker,
	verifications *verifhandler.Handler,
	wallet *wallethandler.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", httpserver.Health(checks, httpserver.DefaultCheckTimeout))
	r.Handle("/metrics", promhttp.Handler())

	verifications.RegisterWebhooks(r.With(limiter.ByIP(rlmodels.ClassWebhook)))
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, log))
		r.Use(limiter.ByOwner(rlmodels.ClassApplicant))
		verifications.Register(r)
		wallet.Register(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff(log))
			verifications.RegisterStaff(r)
			wallet.RegisterStaff(r)
		})
	})
	return r
}
