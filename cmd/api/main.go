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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"example.com/mergington/internal/api"
	"example.com/mergington/internal/config"
	"example.com/mergington/internal/domain"
	"example.com/mergington/internal/logging"
	"example.com/mergington/internal/observability"
	"example.com/mergington/internal/outbox"
	"example.com/mergington/internal/roster"
	httptransport "example.com/mergington/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("roster-service stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed, err := loadSeed(cfg)
	if err != nil {
		return err
	}
	store, err := roster.NewStore(seed,
		roster.WithCapacityEnforcement(cfg.EnforceCapacity),
		roster.WithSizeObserver(observability.RosterRecorder{}.RecordParticipants))
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}
	logger.Info("roster seeded",
		zap.Int("activities", len(seed.Activities)),
		zap.Bool("enforce_capacity", cfg.EnforceCapacity))

	opts := []domain.Option{domain.WithRecorder(observability.RosterRecorder{})}

	var dispatcher *outbox.Dispatcher
	if cfg.EventsEnabled() {
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		dispatcher = outbox.NewDispatcher(producer, outbox.Config{
			Topic:         cfg.EventsTopic,
			BufferSize:    cfg.EventBufferSize,
			BatchSize:     cfg.EventBatchSize,
			FlushInterval: cfg.EventFlushInterval,
		}, logger.Named("outbox"))
		go dispatcher.Start(ctx)
		opts = append(opts, domain.WithPublisher(dispatcher))
		logger.Info("roster events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.EventsTopic))
	}

	service := domain.NewService(store, opts...)

	handler := api.NewHandler(service, logger.Named("api"))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}, httptransport.RequestLogger(logger.Named("http"), httptransport.CORS(cfg.CORSAllowedOrigin, mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("roster-service listening", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-shutdownCh:
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}

	// Stop the dispatcher only after in-flight requests have published their events.
	cancel()

	if dispatcher != nil {
		dispatcher.Wait()
	}
	return nil
}

func loadSeed(cfg config.Config) (roster.Seed, error) {
	if cfg.SeedFile != "" {
		return roster.LoadSeedFile(cfg.SeedFile)
	}
	return roster.DefaultSeed()
}
