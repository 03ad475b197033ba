package main

import (
	"go.uber.org/zap"

	"reclamation-portal/internal/config"
	"reclamation-portal/internal/notifier"
	"reclamation-portal/internal/repository"
	"reclamation-portal/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Optional Telegram notifier for new reclamations
	var n notifier.Notifier
	if tgNotifier, err := notifier.NewTelegram(cfg, logger); err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
	} else if tgNotifier != nil {
		n = tgNotifier
	}

	// Initialize and run the server
	srv, err := server.NewServer(db, cfg, logger, n)
	if err != nil {
		logger.Fatal("Failed to initialize server", zap.Error(err))
	}
	srv.Run(cfg.Server.Port)
}
