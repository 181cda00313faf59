// Package app wires repositories, services, and the HTTP router from the
// external dependencies that main() provides.
package app

import (
	"database/sql"
	"log/slog"
	"net/http"

	"metacat/internal/api"
	"metacat/internal/config"
	"metacat/internal/db/repository"
	"metacat/internal/service"
)

// Deps holds the external dependencies the app cannot create itself:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App is the fully wired application.
type App struct {
	Connections *service.ConnectionService
	Assets      *service.AssetService
	Discovery   *service.DiscoveryService
	Lineage     *service.LineageService
	Handler     http.Handler
	Scheduler   *Scheduler
}

// New wires all repositories and services from the provided deps.
func New(deps Deps) *App {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Write-pool repos for everything the discovery and lineage pipelines
	// mutate; read-pool repos for the list/get surfaces.
	assetRepo := repository.NewAssetRepo(deps.WriteDB)
	connectionRepo := repository.NewConnectionRepo(deps.WriteDB)
	lineageRepo := repository.NewLineageRepo(deps.WriteDB)
	queryRepo := repository.NewSQLQueryRepo(deps.WriteDB)

	readAssetRepo := repository.NewAssetRepo(deps.ReadDB)

	connectionSvc := service.NewConnectionService(connectionRepo, logger)
	assetSvc := service.NewAssetService(readAssetRepo)
	discoverySvc := service.NewDiscoveryService(
		assetRepo, connectionRepo, nil,
		cfg.DiscoveryWorkers, cfg.MaxSampleBytes, logger,
	)
	lineageSvc := service.NewLineageService(assetRepo, lineageRepo, queryRepo, logger)

	handler := api.NewHandler(connectionSvc, assetSvc, discoverySvc, lineageSvc, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	return &App{
		Connections: connectionSvc,
		Assets:      assetSvc,
		Discovery:   discoverySvc,
		Lineage:     lineageSvc,
		Handler:     router,
		Scheduler:   NewScheduler(discoverySvc, connectionSvc, logger),
	}
}
