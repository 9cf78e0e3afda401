package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"armancoffee/internal/api"
	"armancoffee/internal/config"
	"armancoffee/internal/database"
	"armancoffee/internal/domain"
	"armancoffee/internal/events"
	"armancoffee/internal/export"
	"armancoffee/internal/logging"
	"armancoffee/internal/metrics"
	"armancoffee/internal/repository"
	"armancoffee/internal/service"
	"armancoffee/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	codes, codesCloser := initCodeRepository(cfg, logger)
	if codesCloser != nil {
		defer codesCloser.Close()
	}

	eventBus := events.NewEventBus()
	subscribeEventLog(eventBus, logger)

	reportWorker := worker.NewReportWorker(db, export.NewExporter(cfg.Exports.Path), worker.RetryPolicy{}, logger)

	services := buildServices(cfg, db, codes, eventBus, reportWorker, logger)
	httpServer := api.NewHTTPServer(cfg.Server, cfg.Payments, services, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, logger)
	go reportWorker.Run(ctx)

	go func() {
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info().Msg("API server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, &logger, closer, nil
}

// initCodeRepository wires OTP code storage. Redis is the primary store;
// when it is unreachable or not configured the in-memory repository takes
// over so auth keeps working on a single node.
func initCodeRepository(cfg *config.Config, logger *zerolog.Logger) (domain.CodeRepository, io.Closer) {
	memory := repository.NewMemoryCodeRepository()
	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory code store")
		return memory, nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	primary := repository.NewRedisCodeRepository(client)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, codes will fail over to memory")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	return repository.NewFailoverCodeRepository(primary, memory, logger), client
}

func buildServices(
	cfg *config.Config,
	db *database.DB,
	codes domain.CodeRepository,
	eventBus *events.EventBus,
	reportWorker *worker.ReportWorker,
	logger *zerolog.Logger,
) api.Services {
	codeTTL := time.Duration(cfg.Auth.CodeTTLSeconds) * time.Second
	sendWindow := time.Duration(cfg.Auth.SendLimitWindow) * time.Second

	return api.Services{
		Menu: service.NewMenuService(db, logger),
		Auth: service.NewAuthService(db, codes, codeTTL,
			cfg.Auth.SendLimitPerPhone, sendWindow, !cfg.IsProduction(), logger),
		Orders:   service.NewOrderService(db, eventBus, logger),
		Payments: service.NewPaymentService(db, eventBus, cfg.Payments.DefaultGateway, cfg.App.PublicBaseURL, logger),
		Bookings: service.NewBookingService(db, eventBus, logger),
		Tables:   service.NewTableService(db, cfg.App.PublicBaseURL, logger),
		Exports:  reportWorker,
	}
}

// subscribeEventLog attaches a structured-log consumer to every domain event.
func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(event *events.Event) error {
		logger.Info().
			Str("event", event.Type).
			RawJSON("payload", event.Payload).
			Msg("domain event")
		return nil
	}

	for _, eventType := range []string{
		events.EventOrderCreated,
		events.EventOrderStatusChanged,
		events.EventPaymentSucceeded,
		events.EventBookingCreated,
		events.EventBookingCancelled,
	} {
		bus.Subscribe(eventType, handler)
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
