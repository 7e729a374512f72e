package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jasonbrettpreston/buildo-sub002/internal/adapters/driven/config/file"
	"github.com/jasonbrettpreston/buildo-sub002/internal/adapters/driven/metrics"
	"github.com/jasonbrettpreston/buildo-sub002/internal/adapters/driven/storage/memory"
	"github.com/jasonbrettpreston/buildo-sub002/internal/adapters/driven/storage/postgres"
	"github.com/jasonbrettpreston/buildo-sub002/internal/adapters/driven/storage/sqlite"
	"github.com/jasonbrettpreston/buildo-sub002/internal/adapters/driving/cli"
	"github.com/jasonbrettpreston/buildo-sub002/internal/changedetect"
	"github.com/jasonbrettpreston/buildo-sub002/internal/connectors/bulkexport"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/services"
	"github.com/jasonbrettpreston/buildo-sub002/internal/logger"
	"github.com/jasonbrettpreston/buildo-sub002/internal/normalisers/builder"
	"github.com/jasonbrettpreston/buildo-sub002/internal/normalisers/permit"
)

// dotEnvFile is read from the working directory before configuration.
var dotEnvFile = ".env"

// stores groups the record store ports of one backend.
type stores struct {
	permits driven.PermitStore
	changes driven.ChangeStore
	runs    driven.SyncRunStore
	closer  io.Closer
}

// bootstrap resolves configuration and builds the services the CLI runs on.
func bootstrap(opts cli.Options) (*cli.Services, func(), error) {
	if err := file.LoadDotEnv(dotEnvFile); err != nil {
		return nil, nil, err
	}

	cfgStore, err := openConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg, err := cfgStore.Settings()
	if err != nil {
		return nil, nil, err
	}

	logger.SetFormat(logger.Format(cfg.LogFormat))
	if cfg.Verbose || opts.Verbose {
		logger.SetVerbose(true)
	}

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Using %s storage", cfg.StorageDriver)

	recorder := metrics.NewRecorder()
	orchestrator := services.NewSyncOrchestrator(
		bulkexport.New(),
		permit.New(),
		changedetect.New(),
		builder.New(),
		st.permits,
		st.changes,
		st.runs,
		recorder,
		cfg.BatchSize,
	)

	s := &cli.Services{
		Sync:    orchestrator,
		History: services.NewHistoryService(st.runs, st.changes),
		Config:  cfgStore,
	}
	if cfg.MetricsTextfile != "" {
		path := cfg.MetricsTextfile
		s.AfterSync = func() error {
			logger.Debug("Writing metrics to %s", path)
			return recorder.WriteTextfile(path)
		}
	}

	cleanup := func() {
		if st.closer == nil {
			return
		}
		if err := st.closer.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}
	return s, cleanup, nil
}

func openConfig(path string) (*file.ConfigStore, error) {
	if path != "" {
		return file.OpenConfigFile(path)
	}
	return file.NewConfigStore("")
}

// openStores connects to the backend selected by cfg.StorageDriver.
func openStores(ctx context.Context, cfg *file.Settings) (*stores, error) {
	switch cfg.StorageDriver {
	case file.DriverMemory:
		return &stores{
			permits: memory.NewPermitStore(),
			changes: memory.NewChangeStore(),
			runs:    memory.NewSyncRunStore(),
		}, nil

	case file.DriverPostgres:
		pg, err := postgres.NewStore(ctx, cfg.PostgresDSN, postgres.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return &stores{
			permits: pg.PermitStore(),
			changes: pg.ChangeStore(),
			runs:    pg.SyncRunStore(),
			closer:  pg,
		}, nil

	default:
		lite, err := sqlite.NewStore(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return &stores{
			permits: lite.PermitStore(),
			changes: lite.ChangeStore(),
			runs:    lite.SyncRunStore(),
			closer:  lite,
		}, nil
	}
}
