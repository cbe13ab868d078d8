package main

import (
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	"github.com/deliverydesk/deliverydesk/internal/config"
	"github.com/deliverydesk/deliverydesk/internal/database"
	"github.com/deliverydesk/deliverydesk/internal/logger"
	"github.com/deliverydesk/deliverydesk/internal/seed"
	"github.com/deliverydesk/deliverydesk/internal/server"
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

	db, err := database.Open(cfg.Database.URL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := seed.ApplyFile(db, cfg.SeedFile, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	var opts []server.Option
	if cfg.Redis.Address != "" {
		// Initialize Asynq client for enqueueing audit tasks
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Address})
		defer asynqClient.Close()
		opts = append(opts, server.WithEnqueuer(asynqClient))
	} else {
		log.Warn().Msg("REDIS_ADDRESS not set - login auditing disabled")
	}

	// Create server
	srv, err := server.New(cfg, db, log, version, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Msg("Starting DeliveryDesk admin API...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
}
