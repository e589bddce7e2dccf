// Package bootstrap wires configuration into the storage backend and the
// timetable services shared by the API server and the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-editor/internal/handler"
	"github.com/noah-isme/timetable-editor/internal/models"
	"github.com/noah-isme/timetable-editor/internal/repository"
	"github.com/noah-isme/timetable-editor/internal/service"
	"github.com/noah-isme/timetable-editor/pkg/cache"
	"github.com/noah-isme/timetable-editor/pkg/config"
	"github.com/noah-isme/timetable-editor/pkg/database"
	"github.com/noah-isme/timetable-editor/pkg/storage"
)

// StateRepository is the key-value contract every backend satisfies.
type StateRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Backend is an opened storage backend.
type Backend struct {
	Driver string
	Repo   StateRepository
	Checks map[string]handler.ReadinessCheck
	close  []func() error
}

// Close releases connections held by the backend.
func (b *Backend) Close() error {
	var errs []error
	for _, fn := range b.close {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenBackend connects the repository selected by STORAGE_DRIVER.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	backend := &Backend{Driver: cfg.Storage.Driver, Checks: map[string]handler.ReadinessCheck{}}

	switch cfg.Storage.Driver {
	case config.StorageFile:
		files, err := storage.NewLocalStorage(cfg.Storage.FileDir)
		if err != nil {
			return nil, err
		}
		backend.Repo = repository.NewFileStateRepository(files)

	case config.StorageSQLite, config.StoragePostgres:
		var (
			db  *sqlx.DB
			err error
		)
		if cfg.Storage.Driver == config.StorageSQLite {
			db, err = database.NewSQLite(ctx, cfg.SQLite)
		} else {
			db, err = database.NewPostgres(ctx, cfg.Database)
		}
		if err != nil {
			return nil, err
		}
		backend.close = append(backend.close, db.Close)
		backend.Checks[cfg.Storage.Driver] = db.PingContext
		repo := repository.NewSQLStateRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = backend.Close()
			return nil, err
		}
		backend.Repo = repo

	case config.StorageRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		backend.close = append(backend.close, client.Close)
		backend.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		backend.Repo = repository.NewRedisStateRepository(client, cfg.Redis.KeyPrefix)

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	return backend, nil
}

// Layout builds the grid from GRID_DAYS and GRID_TIME_SLOTS.
func Layout(cfg *config.Config) (models.Layout, error) {
	return models.NewLayout(cfg.Grid.Days, cfg.Grid.TimeSlots)
}

// Services holds the initialised timetable services.
type Services struct {
	Layout    models.Layout
	Store     *service.ScheduleStore
	Presenter *service.GridPresenter
	Notices   *service.NoticeService
	Exports   *service.ExportService
}

// NewServices builds and initialises the store and everything layered on it.
// metrics may be nil.
func NewServices(ctx context.Context, cfg *config.Config, repo StateRepository, logger *zap.Logger, metrics *service.MetricsService) (*Services, error) {
	layout, err := Layout(cfg)
	if err != nil {
		return nil, fmt.Errorf("grid layout: %w", err)
	}

	store := service.NewScheduleStore(repo, service.NewValidator(), service.StoreConfig{
		Key:       cfg.Storage.Key,
		LegacyKey: cfg.Storage.LegacyKey,
		Layout:    layout,
	}, logger.Named("store"), metrics)
	store.Initialize(ctx)

	notices := service.NewNoticeService(cfg.Notices.SaveTTL, logger.Named("notices"))
	store.Subscribe(notices.HandleSave)

	exportFiles, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		return nil, err
	}

	return &Services{
		Layout:    layout,
		Store:     store,
		Presenter: service.NewGridPresenter(store, layout, logger.Named("grid")),
		Notices:   notices,
		Exports:   service.NewExportService(store, exportFiles, logger.Named("export"), nil, nil),
	}, nil
}
