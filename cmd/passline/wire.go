package main

import (
	"fmt"
	"path/filepath"

	configfile "github.com/custodia-labs/passline/internal/adapters/driven/config/file"
	"github.com/custodia-labs/passline/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/passline/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/passline/internal/adapters/driven/watch"
	"github.com/custodia-labs/passline/internal/adapters/driving/cli"
	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
	"github.com/custodia-labs/passline/internal/core/services"
	"github.com/custodia-labs/passline/internal/logger"
)

// buildServices wires the configured record store into the core services.
func buildServices(opts cli.Options) (*cli.Services, error) {
	logger.Section("Services")

	configStore, err := configfile.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	configDir := filepath.Dir(configStore.Path())

	s := &cli.Services{Settings: settingsService}

	var store driven.RecordStore
	switch settings.Store.Backend {
	case domain.StoreBackendSQLite:
		path := firstNonEmpty(opts.StorePath, settings.Store.SQLitePath, filepath.Join(configDir, sqlite.DefaultFileName))
		sqliteStore, err := sqlite.NewRecordStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		store = sqliteStore
		s.Close = sqliteStore.Close

	default:
		path := firstNonEmpty(opts.StorePath, settings.Store.Path, filepath.Join(configDir, file.DefaultFileName))
		fileStore, err := file.NewRecordStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening record file: %w", err)
		}
		store = fileStore
		s.Watcher = watch.New(fileStore.Path())
	}

	logger.Debug("Store backend: %s (%s)", settings.Store.Backend, store.Path())

	session := settings.Session
	s.Accounts = services.NewAccountService(store, settings.Account)
	s.NewGuard = func() driving.LoginGuard {
		return services.NewLoginGuard(session)
	}
	s.StorePath = store.Path()
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
