package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"markethub/internal/app"
	"markethub/internal/config"
	"markethub/internal/database"
	"markethub/internal/logger"
	"markethub/internal/reconcile"
	"markethub/internal/seed"
	"markethub/internal/storage"
	"markethub/pkg/rabbitmq"

	"go.uber.org/zap"
)

const usage = "usage: markethub [serve | reconcile [all | <job>]]"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zapLogger.Sync() //nolint:errcheck

	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout, zapLogger); err != nil {
		zapLogger.Fatal("markethub failed", zap.Error(err))
	}
}

// run assembles the service and executes the command named by args.
func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer, zapLogger *zap.Logger) error {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}
	if command != "serve" && command != "reconcile" {
		return fmt.Errorf("unknown command %q; %s", command, usage)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, zapLogger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// --- File store ---
	files, err := storage.New(ctx, cfg.Storage, zapLogger)
	if err != nil {
		return err
	}

	// --- Initialize RabbitMQ Client ---
	// Reports are only published when a broker is configured.
	var publisher reconcile.Publisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.ReconcileQueue}, zapLogger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	a := app.New(cfg, db, files, publisher, zapLogger)

	// --- Seed ---
	if cfg.AdminEmail != "" {
		if err := seed.Admin(ctx, a.Auth, cfg.AdminEmail, cfg.AdminPassword, zapLogger); err != nil {
			return err
		}
	}
	if cfg.SeedDemoData {
		inserted, err := seed.Demo(ctx, db, zapLogger)
		if err != nil {
			return err
		}
		if inserted {
			zapLogger.Info("demo catalog inserted")
		}
	}

	if command == "reconcile" {
		return reconcileCommand(ctx, a.Runner, args[1:], out)
	}
	return serve(a, cfg.AppPort, zapLogger)
}

// reconcileCommand runs one job, or the whole batch, and prints the reports as JSON.
func reconcileCommand(ctx context.Context, runner *reconcile.Runner, args []string, out io.Writer) error {
	name := "all"
	if len(args) > 0 {
		name = args[0]
	}

	var (
		reports []*reconcile.Report
		err     error
	)
	if name == "all" {
		reports, err = runner.RunAll(ctx)
	} else {
		var report *reconcile.Report
		report, err = runner.Run(ctx, name)
		if report != nil {
			reports = append(reports, report)
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(reports); encErr != nil {
		return fmt.Errorf("failed to write reports: %w", encErr)
	}
	return err
}

// serve listens until SIGINT or SIGTERM, then shuts the server down.
func serve(a *app.App, appPort string, zapLogger *zap.Logger) error {
	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	listenErr := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server", zap.String("addr", appPort))
		listenErr <- a.Fiber.Listen(appPort)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	zapLogger.Info("shutting down server")
	if err := a.Fiber.Shutdown(); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	zapLogger.Info("server gracefully stopped")
	return nil
}
