// Package app wires configuration, storage and the diary service together
// and runs either the interactive client or the local viewer API.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mydiary/internal/cli"
	"github.com/dmitrijs2005/mydiary/internal/config"
	"github.com/dmitrijs2005/mydiary/internal/dbx"
	"github.com/dmitrijs2005/mydiary/internal/filex"
	"github.com/dmitrijs2005/mydiary/internal/httpapi"
	"github.com/dmitrijs2005/mydiary/internal/logging"
	"github.com/dmitrijs2005/mydiary/internal/migrations"
	"github.com/dmitrijs2005/mydiary/internal/repositories/kv"
	"github.com/dmitrijs2005/mydiary/internal/services"
	"github.com/dmitrijs2005/mydiary/internal/storage"
)

// MemoryDatabase selects a process-local store that is lost on exit.
const MemoryDatabase = ":memory:"

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	service services.DiaryService
}

// NewApp opens the store named by c.DatabasePath, applies migrations and
// builds the diary service. Logs go to logOut.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(c.LogLevel, logOut)

	app := &App{config: c, logger: logger}

	var repo kv.Repository
	if c.DatabasePath == MemoryDatabase {
		repo = kv.NewMemoryRepository()
	} else {
		path, err := filex.EnsureParentDir(c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("db path: %w", err)
		}
		db, err := dbx.OpenSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := migrations.Up(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migrate error: %w", err)
		}
		app.db = db
		repo = kv.NewSQLiteRepository(db)
		logger.Debug(ctx, "database ready", "path", path)
	}

	store := storage.New(repo, c.CollectionKey, logger)
	logger.Debug(ctx, "diary store ready", "collection", store.Key())
	app.service = services.NewDiaryService(store, c.ShareBaseURL, logger)
	return app, nil
}

// Service exposes the wired diary service.
func (app *App) Service() services.DiaryService { return app.service }

// Close releases the database, if any.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

// RunCLI runs the interactive client until the user exits.
func (app *App) RunCLI(ctx context.Context, in io.Reader, out io.Writer) {
	cli.NewApp(app.service, app.logger, in, out).Run(ctx)
}

// RunViewer serves the viewer API until SIGINT/SIGTERM or ctx is canceled.
func (app *App) RunViewer(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting viewer...")
	app.initSignalHandler(ctx, cancelFunc)

	router := httpapi.NewRouter(httpapi.NewHandler(app.service, app.logger))
	srv := httpapi.NewServer(ctx, app.config.ListenAddr, router)
	return httpapi.Serve(ctx, srv, app.logger)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}
