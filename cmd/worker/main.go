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

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deliverydesk/deliverydesk/internal/config"
	"github.com/deliverydesk/deliverydesk/internal/database"
	"github.com/deliverydesk/deliverydesk/internal/logger"
	"github.com/deliverydesk/deliverydesk/internal/metrics"
	"github.com/deliverydesk/deliverydesk/internal/tasks"
	"github.com/deliverydesk/deliverydesk/internal/workers"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	log := logger.GetLogger()

	if cfg.Redis.Address == "" {
		log.Fatal().Msg("REDIS_ADDRESS is required for the worker")
	}

	log.Info().Str("version", version).Msg("Starting DeliveryDesk Asynq worker")

	db, err := database.Open(cfg.Database.URL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close(db)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	// Initialize Asynq client (for the cleanup scheduler)
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	// Initialize Asynq server
	asynqServer := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10, // Number of concurrent workers
			Queues: map[string]int{
				tasks.QueueCritical: 6, // 60% of workers for critical tasks
				tasks.QueueDefault:  3, // 30% of workers for default queue
				tasks.QueueLow:      1, // 10% of workers for low priority
			},
			// Logging
			Logger: &workers.AsynqLogger{Log: log},
		},
	)

	// Register task handlers
	mux := asynq.NewServeMux()

	registry := prometheus.NewRegistry()
	mux.Use(workers.Instrument(metrics.NewManager("deliverydesk", "worker", registry)))

	mux.HandleFunc(tasks.TypeAuditLogin, func(ctx context.Context, t *asynq.Task) error {
		return workers.HandleAuditLogin(ctx, t, db, log)
	})
	mux.HandleFunc(tasks.TypePurgeTokens, func(ctx context.Context, t *asynq.Task) error {
		_, err := workers.HandlePurgeTokens(ctx, db, cfg.Maintenance.AuditRetention, time.Now(), log)
		return err
	})

	// Start cleanup scheduler
	scheduler, err := workers.NewCleanupScheduler(cfg.Maintenance.CleanupSchedule, asynqClient, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure cleanup scheduler")
	}
	scheduler.Start()

	// Expose task counters
	var metricsServer *http.Server
	if cfg.Worker.MetricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: cfg.Worker.MetricsAddr, Handler: metricsMux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Metrics listener failed")
			}
		}()
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Info().Msg("Starting Asynq worker server...")
		if err := asynqServer.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("Asynq worker server failed")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info().Msg("Received shutdown signal, shutting down gracefully...")

	<-scheduler.Stop().Done()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsServer.Shutdown(shutdownCtx)
		cancel()
	}

	// Shutdown Asynq server gracefully
	log.Info().Msg("Stopping Asynq worker - waiting for tasks to finish...")
	asynqServer.Shutdown()

	log.Info().Msg("Worker shutdown complete")
}
