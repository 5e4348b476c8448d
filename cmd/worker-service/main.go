package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/snapmeal/jobs-be/internal/config"
	"github.com/snapmeal/jobs-be/internal/mailer"
	"github.com/snapmeal/jobs-be/internal/worker"
	"github.com/snapmeal/jobs-be/internal/worker/domain"
	"github.com/snapmeal/jobs-be/internal/worker/jobs"
	"github.com/snapmeal/jobs-be/internal/worker/storage"
	"github.com/snapmeal/jobs-be/shared/firebase"
	"github.com/snapmeal/jobs-be/shared/logger"
	"github.com/snapmeal/jobs-be/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("WORKER_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/worker-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateWorkerConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting worker service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// Initialize error telemetry
	if err := telemetry.Init(&telemetry.Config{
		DSN:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.App.Version,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
	}); err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer telemetry.Flush(2 * time.Second)

	// Initialize Firebase client
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fbClient, err := firebase.NewClient(ctx, &firebase.Config{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
		DatabaseID:      cfg.Firebase.DatabaseID,
		StorageBucket:   cfg.Firebase.StorageBucket,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize firebase: %w", err)
	}
	defer fbClient.Close()

	appLogger.Info("Firebase connection established")

	// Wire the job handlers and their collaborators
	reporter := telemetry.Reporter{}
	mail := mailer.New(&mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, appLogger.Logger)

	jobStore := storage.NewStorage(fbClient.Firestore, cfg.Worker.JobsCollection, appLogger.Logger)
	users := storage.NewUsers(fbClient.Firestore, appLogger.Logger)
	objects := storage.NewObjects(fbClient.Bucket, appLogger.Logger)

	exporter := jobs.NewExporter(users, objects, mail, reporter, appLogger.Logger)
	deleter := jobs.NewDeleter(users, fbClient.Auth, objects, mail, reporter, appLogger.Logger)

	dispatcher := worker.NewDispatcher(jobStore, reporter, appLogger.Logger)
	dispatcher.Register(domain.JobTypeExportData, exporter.Run)
	dispatcher.Register(domain.JobTypeDeleteAccount, deleter.Run)

	// Create worker instance
	workerInstance := worker.NewWorker(&worker.Config{
		Logger:         appLogger.Logger,
		Firestore:      fbClient.Firestore,
		JobsCollection: cfg.Worker.JobsCollection,
		Dispatcher:     dispatcher,
		Reporter:       reporter,
	})

	// Start worker in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := workerInstance.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	appLogger.Info("Worker service started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Received signal, shutting down gracefully",
			slog.String("signal", sig.String()),
		)
	case err := <-errChan:
		appLogger.Error("Worker error",
			slog.Any("error", err),
		)
		return err
	}

	// Cancel context to stop the job listener
	cancel()

	// Give in-flight dispatches time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		workerInstance.Stop()
		close(done)
	}()

	select {
	case <-done:
		appLogger.Info("Worker stopped gracefully")
	case <-shutdownCtx.Done():
		appLogger.Warn("Worker shutdown timeout exceeded, forcing exit")
	}

	appLogger.Info("Worker service shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}
