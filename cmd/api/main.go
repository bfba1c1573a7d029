package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motoparts-backend/config"
	"motoparts-backend/internal/delivery/http/middleware"
	v1 "motoparts-backend/internal/delivery/http/v1"
	"motoparts-backend/internal/domain"
	"motoparts-backend/internal/infrastructure/cache"
	"motoparts-backend/internal/infrastructure/melhorenvio"
	"motoparts-backend/internal/infrastructure/postal"
	"motoparts-backend/internal/metrics"
	"motoparts-backend/internal/repository/postgres"
	"motoparts-backend/internal/usecase"
	"motoparts-backend/pkg/logger"
	"motoparts-backend/pkg/storage"
	"motoparts-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const (
	serviceName    = "motoparts-api"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	if err := postgres.Migrate(context.Background(), pgxPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Rules change rarely; the fallback tier reads them through this cache.
	memCache := cache.NewMemoryCache(cfg.ShippingRuleCacheTTL, 2*cfg.ShippingRuleCacheTTL)

	ruleRepo := postgres.NewShippingRuleRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)
	ruleUC := usecase.NewShippingRuleUsecase(ruleRepo, txManager, memCache, cfg.ShippingRuleCacheTTL)

	shippingMetrics, err := metrics.RegisterShipping(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	aggregator := melhorenvio.NewClient(
		cfg.ShippingAggregatorURL,
		cfg.ShippingAggregatorUserAgent,
		domain.StaticToken(cfg.ShippingAggregatorToken),
		nil,
	)
	rateUC := usecase.NewShippingRateUsecase(
		aggregator,
		ruleUC,
		postal.NewCEPResolver(),
		shippingMetrics,
		usecase.ShippingRateConfig{
			OriginPostalCode: cfg.ShippingOriginPostalCode,
			Timeout:          cfg.ShippingAggregatorTimeout,
			Services:         cfg.ShippingAggregatorServices,
			InsuranceValue:   cfg.ShippingInsuranceValue,
		},
	)

	// Exports can always be downloaded; publishing needs R2.
	var objectStore usecase.ObjectStore
	if cfg.R2Enabled() {
		r2Storage, err := storage.NewR2Storage(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
			UploadTimeout:   cfg.R2UploadTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		objectStore = r2Storage
	} else {
		log.Warn().Msg("R2 storage not configured, rule export publishing disabled")
	}
	exportUC := usecase.NewRuleExportUsecase(ruleUC, objectStore)

	shippingHandler := v1.NewShippingHandler(rateUC)
	adminShippingHandler := v1.NewAdminShippingHandler(ruleUC, exportUC)
	healthHandler := v1.NewHealthHandler(pgxPool)

	mux := http.NewServeMux()

	// Shipping (Public)
	mux.HandleFunc("POST /api/v1/shipping/quote", shippingHandler.Quote)
	mux.HandleFunc("GET /api/v1/shipping/estimate", shippingHandler.Estimate)

	// Admin Shipping Rules
	mux.Handle("GET /api/v1/admin/shipping/rules", middleware.RequireAdmin(adminShippingHandler.ListRules))
	mux.Handle("POST /api/v1/admin/shipping/rules", middleware.RequireAdmin(adminShippingHandler.CreateRule))
	mux.Handle("GET /api/v1/admin/shipping/rules/export", middleware.RequireAdmin(adminShippingHandler.DownloadRules))
	mux.Handle("POST /api/v1/admin/shipping/rules/export", middleware.RequireAdmin(adminShippingHandler.PublishRules))
	mux.Handle("GET /api/v1/admin/shipping/rules/{id}", middleware.RequireAdmin(adminShippingHandler.GetRule))
	mux.Handle("PATCH /api/v1/admin/shipping/rules/{id}", middleware.RequireAdmin(adminShippingHandler.UpdateRule))
	mux.Handle("DELETE /api/v1/admin/shipping/rules/{id}", middleware.RequireAdmin(adminShippingHandler.DeleteRule))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("GET /health", healthHandler.Health) // Load balancer probe

	rootCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	rateLimiter := middleware.NewRateLimiter(
		rootCtx,
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS, Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg.AllowedOrigin)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, serviceVersion, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
