package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-proof-ledger/internal/app"
	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/handler"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/server"
	"github.com/MKhiriev/go-proof-ledger/internal/workers"
	"github.com/MKhiriev/go-proof-ledger/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	log := logger.NewLogger("proof-node")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = log.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}
	if build.Known() && cfg.App.Version == "dev" {
		cfg.App.Version = build.BuildVersion()
	}
	log = log.WithNode(cfg.App.NodeID)

	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("db_driver", cfg.Storage.DB.Driver).
		Str("artifacts_backend", cfg.Storage.Artifacts.Backend).
		Bool("insurer_enabled", cfg.Insurer.BaseURL != "").
		Msg("received configs")

	if err = run(context.Background(), cfg, log); err != nil {
		log.Err(err).Msg("node stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) error {
	node, err := app.NewNode(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("error creating node: %w", err)
	}
	defer func() {
		if closeErr := node.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing storages")
		}
	}()

	handlers, err := handler.NewHandlers(node.Services, *cfg, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	jobs := workers.NewWorkers(node.Services, cfg.Workers, log)

	srv, err := server.NewServer(handlers, jobs, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	return srv.RunServer(ctx)
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
