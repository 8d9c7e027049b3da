package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"gorm.io/gorm"

	"github.com/haltiadata/catalog-collector/internal/clients/business"
	"github.com/haltiadata/catalog-collector/internal/clients/orgs"
	"github.com/haltiadata/catalog-collector/internal/clients/registry"
	"github.com/haltiadata/catalog-collector/internal/data/db"
	catalogstore "github.com/haltiadata/catalog-collector/internal/data/repos/catalog"
	"github.com/haltiadata/catalog-collector/internal/data/repos/extregistry"
	"github.com/haltiadata/catalog-collector/internal/pipeline"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// App owns the collector's wiring: database, store, clients, the collection
// pipeline and the ops HTTP server.
type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Store    catalogstore.Store
	Pipeline *pipeline.Pipeline

	opsServer *http.Server
	cancel    context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	store := catalogstore.New(theDB, log)
	companyRepo := extregistry.NewCompanyRepo(theDB, log)
	organizationRepo := extregistry.NewOrganizationRepo(theDB, log)

	registryClient := registry.NewClient(cfg.Registry, log)
	businessClient := business.NewClient(cfg.Business, log)
	orgsClient := orgs.NewClient(cfg.Orgs, log)

	p := pipeline.New(
		cfg.Pipeline,
		store,
		companyRepo,
		organizationRepo,
		registryClient,
		businessClient,
		orgsClient,
		log,
	)

	a := &App{
		Log:      log,
		DB:       theDB,
		Cfg:      cfg,
		Store:    store,
		Pipeline: p,
	}
	a.opsServer = a.newOpsServer()
	return a, nil
}

// Run starts the pipeline and the ops server and blocks until the context is
// cancelled or either of them fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	errCh := make(chan error, 2)

	go func() {
		errCh <- a.Pipeline.Run(ctx)
	}()
	go func() {
		a.Log.Info("Starting ops server", "addr", a.Cfg.OpsAddr)
		if err := a.opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		return a.shutdown(nil)
	case err := <-errCh:
		return a.shutdown(err)
	}
}

func (a *App) shutdown(cause error) error {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.opsServer != nil {
		_ = a.opsServer.Close()
	}
	return cause
}

func (a *App) Close() {
	if a == nil {
		return
	}
	_ = a.shutdown(nil)
	if a.Log != nil {
		a.Log.Sync()
	}
}
